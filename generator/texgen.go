package generator

import (
	"strings"

	"github.com/gogpu/ffp/settings"
)

const (
	coordNames = "strq"
	compNames  = "xyzw"
)

var texGenLabels = map[settings.TexGenMode]string{
	settings.ObjectLinear:  "Object Linear",
	settings.EyeLinear:     "Eye Linear",
	settings.SphereMap:     "Sphere Map",
	settings.ReflectionMap: "Reflection Map",
	settings.NormalMap:     "Normal Map",
}

// generatedModes lists the computed modes in emission order.
var generatedModes = []settings.TexGenMode{
	settings.ObjectLinear,
	settings.EyeLinear,
	settings.SphereMap,
	settings.ReflectionMap,
	settings.NormalMap,
}

func (f *vertexFlags) texCoords(c *code) {
	if !f.s.AnyStageEnabled() {
		return
	}
	c.text("# --------- Texture coordinates output --------\n")
	if f.reflectedTexGen {
		c.text("TEMP reflectedVector;\n" +
			"TEMP eyeDirection;\n" +
			"MOV eyeDirection, eyePos;\n" +
			"# Normalize eyeDirection vector\n" +
			"DP3 eyeDirection.w, eyeDirection, eyeDirection;\n" +
			"RSQ eyeDirection.w, eyeDirection.w;\n" +
			"MUL eyeDirection.xyz, eyeDirection, eyeDirection.w;\n" +
			"# Compute reflected Vector\n" +
			"DP3 reflectedVector.w, normalEye, eyeDirection;\n" +
			"MUL reflectedVector.xyz, normalEye, reflectedVector.wwww;\n" +
			"MAD reflectedVector.xyz, reflectedVector, {-2,-2,-2,-2}, eyeDirection;\n")
	}
	if f.usesMode(settings.SphereMap) {
		c.text("TEMP sphereMapVector;\n" +
			"MAD sphereMapVector.xyz, reflectedVector, {2,2,2,2}, {0,0,2,0};\n" +
			"DP3 sphereMapVector.w, sphereMapVector, sphereMapVector;\n" +
			"RSQ sphereMapVector.w, sphereMapVector.w;\n" +
			"MUL sphereMapVector.w, sphereMapVector.w, {0.5,0.5,0.5,0.5};\n")
	}

	for i := range f.s.Stages {
		if !f.s.Stages[i].Enabled {
			continue
		}
		gen := f.s.TexCoords[i]
		coords := gen.Coords()
		if hasMode(coords, settings.VertexAttrib) {
			c.text("# ------------- Bypass texture coordinates ------------\n")
			c.linef("MOV oCord%d, vertex.texcoord[%d];", i, i)
		}
		for _, m := range generatedModes {
			letters, mask := selectCoords(coords, m)
			if letters == "" {
				continue
			}
			c.linef("# Compute the %s texture coordinate generation for %s in Texture Unit %d", texGenLabels[m], letters, i)
			switch m {
			case settings.ObjectLinear, settings.EyeLinear:
				plane, src := "object", "iPos"
				if m == settings.EyeLinear {
					plane, src = "eye", "eyePos"
				}
				for j, cm := range coords {
					if cm == m {
						c.linef("DP4 oCord%d.%c, state.texgen[%d].%s.%c, %s;", i, compNames[j], i, plane, coordNames[j], src)
					}
				}
			case settings.SphereMap:
				c.linef("MAD oCord%d.%s, sphereMapVector, sphereMapVector.w, {0.5,0.5,0.5,0.5};", i, mask)
			case settings.ReflectionMap:
				c.linef("MOV oCord%d.%s, reflectedVector;", i, mask)
			case settings.NormalMap:
				c.linef("MOV oCord%d.%s, normalEye;", i, mask)
			}
		}
	}

	for i := range f.s.Stages {
		if !f.s.Stages[i].Enabled || f.s.TexCoords[i].IdentityMatrix {
			continue
		}
		c.linef("# --------- Texture coordinate transformation by Texture Matrix %d --------", i)
		for r := 0; r < 4; r++ {
			c.linef("DP4 result.texcoord[%d].%c, state.matrix.texture[%d].row[%d], oCord%d;", i, compNames[r], i, r, i)
		}
	}
}

// usesMode reports whether an enabled unit generates a coordinate with m.
func (f *vertexFlags) usesMode(m settings.TexGenMode) bool {
	for i := range f.s.Stages {
		if f.s.Stages[i].Enabled && hasMode(f.s.TexCoords[i].Coords(), m) {
			return true
		}
	}
	return false
}

func hasMode(coords [4]settings.TexGenMode, m settings.TexGenMode) bool {
	for _, cm := range coords {
		if cm == m {
			return true
		}
	}
	return false
}

// selectCoords returns the coordinate letters ("st") and the matching
// write mask ("xy") of the coordinates generated with m.
func selectCoords(coords [4]settings.TexGenMode, m settings.TexGenMode) (letters, mask string) {
	var l, k strings.Builder
	for j, cm := range coords {
		if cm == m {
			l.WriteByte(coordNames[j])
			k.WriteByte(compNames[j])
		}
	}
	return l.String(), k.String()
}
