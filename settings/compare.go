package settings

// Equal reports whether a and b select the same program variants. Every
// field takes part, including the combine records of disabled stages.
func Equal(a, b *PipelineSettings) bool {
	return *a == *b
}

// Checksum returns a cheap bucket key for s: the sum of every enum ordinal
// and boolean. Distinct settings may share a checksum; Equal decides.
func Checksum(s *PipelineSettings) uint32 {
	sum := LegacyChecksum(s)
	for i := range s.Stages {
		c := &s.Stages[i].Combine
		sum += uint32(c.RGB) + uint32(c.Alpha) + uint32(c.RGBScale) + uint32(c.AlphaScale)
		for j := 0; j < 4; j++ {
			sum += uint32(c.SrcRGB[j]) + uint32(c.SrcAlpha[j])
			sum += uint32(c.OperandRGB[j]) + uint32(c.OperandAlpha[j])
			sum += uint32(c.CrossbarRGB[j]) + uint32(c.CrossbarAlpha[j])
		}
	}
	return sum
}

// LegacyChecksum is the checksum of the legacy shader cache. It ignores the
// combine records.
func LegacyChecksum(s *PipelineSettings) uint32 {
	var sum uint32
	add := func(v uint8) { sum += uint32(v) }

	add(b2u(s.AlphaTest))
	add(uint8(s.AlphaFunc))
	add(uint8(s.ColorMaterialFace))
	add(uint8(s.ColorMaterial))
	add(b2u(s.CullEnabled))
	add(uint8(s.CullFace))
	add(uint8(s.FogCoord))
	add(b2u(s.FogEnabled))
	add(uint8(s.FogMode))
	add(b2u(s.Lighting))
	for _, l := range s.Lights {
		add(b2u(l.Enabled))
		add(uint8(l.Type))
	}
	add(b2u(s.LocalViewer))
	add(uint8(s.Normalize))
	add(b2u(s.SeparateSpecular))
	for _, g := range s.TexCoords {
		add(uint8(g.Q))
		add(uint8(g.R))
		add(uint8(g.S))
		add(uint8(g.T))
		add(b2u(g.IdentityMatrix))
	}
	for _, st := range s.Stages {
		add(uint8(st.Target))
		add(uint8(st.Format))
		add(b2u(st.Enabled))
		add(uint8(st.Function))
	}
	add(b2u(s.TwoSidedLighting))
	return sum
}

// LegacyEqual reproduces the field comparison of the legacy shader cache
// as it behaves: combine records are ignored and the T coordinate of a is
// compared with the R coordinate of b. It is neither reflexive nor
// symmetric for every input and must not be used as a cache identity
// where correctness matters.
func LegacyEqual(a, b *PipelineSettings) bool {
	if a.AlphaTest != b.AlphaTest || a.AlphaFunc != b.AlphaFunc ||
		a.ColorMaterialFace != b.ColorMaterialFace || a.ColorMaterial != b.ColorMaterial ||
		a.CullEnabled != b.CullEnabled || a.CullFace != b.CullFace ||
		a.FogCoord != b.FogCoord || a.FogEnabled != b.FogEnabled || a.FogMode != b.FogMode ||
		a.Lighting != b.Lighting || a.Lights != b.Lights ||
		a.LocalViewer != b.LocalViewer || a.Normalize != b.Normalize ||
		a.SeparateSpecular != b.SeparateSpecular || a.TwoSidedLighting != b.TwoSidedLighting {
		return false
	}
	for i := range a.TexCoords {
		x, y := a.TexCoords[i], b.TexCoords[i]
		if x.Q != y.Q || x.R != y.R || x.S != y.S || x.T != y.R || x.IdentityMatrix != y.IdentityMatrix {
			return false
		}
	}
	for i := range a.Stages {
		x, y := &a.Stages[i], &b.Stages[i]
		if x.Target != y.Target || x.Format != y.Format || x.Enabled != y.Enabled || x.Function != y.Function {
			return false
		}
	}
	return true
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
