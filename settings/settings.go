package settings

// Pipeline limits.
const (
	MaxLights        = 8
	MaxTextureStages = 16
)

// Light is the per-light part of the settings.
type Light struct {
	Enabled bool      `toml:"enabled"`
	Type    LightType `toml:"type"`
}

// TexCoordGen describes how one texture unit's coordinates are produced.
type TexCoordGen struct {
	S TexGenMode `toml:"s"`
	T TexGenMode `toml:"t"`
	R TexGenMode `toml:"r"`
	Q TexGenMode `toml:"q"`

	// IdentityMatrix is true when the unit's texture matrix is the identity
	// and the matrix multiply can be skipped.
	IdentityMatrix bool `toml:"identity_matrix"`
}

// Coords returns the S, T, R and Q modes in order.
func (g TexCoordGen) Coords() [4]TexGenMode {
	return [4]TexGenMode{g.S, g.T, g.R, g.Q}
}

// Generated reports whether any coordinate is computed instead of copied.
func (g TexCoordGen) Generated() bool {
	for _, m := range g.Coords() {
		if m != VertexAttrib {
			return true
		}
	}
	return false
}

// CombineMode is the combiner configuration of a stage. It is only read
// when the stage function is Combine or Combine4NV.
type CombineMode struct {
	RGB   CombineFunction `toml:"rgb"`
	Alpha CombineFunction `toml:"alpha"`

	SrcRGB       [4]CombineSource  `toml:"src_rgb"`
	SrcAlpha     [4]CombineSource  `toml:"src_alpha"`
	OperandRGB   [4]CombineOperand `toml:"operand_rgb"`
	OperandAlpha [4]CombineOperand `toml:"operand_alpha"`

	// CrossbarRGB and CrossbarAlpha name the stage read by SourceTextureN.
	CrossbarRGB   [4]uint8 `toml:"crossbar_rgb"`
	CrossbarAlpha [4]uint8 `toml:"crossbar_alpha"`

	RGBScale   uint8 `toml:"rgb_scale"`
	AlphaScale uint8 `toml:"alpha_scale"`
}

// TextureStage is one texture environment stage.
type TextureStage struct {
	Enabled  bool            `toml:"enabled"`
	Target   TextureTarget   `toml:"target"`
	Function TextureFunction `toml:"function"`
	Format   BaseFormat      `toml:"format"`
	Combine  CombineMode     `toml:"combine"`
}

// PipelineSettings is a snapshot of the discrete fixed-function state that
// selects a program variant. It holds booleans and closed enumerations only;
// numeric state lives in the pipeline state and reaches programs through
// constant bindings.
//
// PipelineSettings is a comparable value type. Equal is the identity used
// by the variant cache.
type PipelineSettings struct {
	Lighting         bool          `toml:"lighting"`
	LocalViewer      bool          `toml:"local_viewer"`
	Normalize        NormalizeMode `toml:"normalize"`
	SeparateSpecular bool          `toml:"separate_specular"`
	TwoSidedLighting bool          `toml:"two_sided_lighting"`

	Lights [MaxLights]Light `toml:"lights"`

	CullEnabled bool `toml:"cull_enabled"`
	CullFace    Face `toml:"cull_face"`

	ColorMaterial     ColorMaterialMode `toml:"color_material"`
	ColorMaterialFace Face              `toml:"color_material_face"`

	FogEnabled bool           `toml:"fog_enabled"`
	FogCoord   FogCoordSource `toml:"fog_coord"`
	FogMode    FogMode        `toml:"fog_mode"`

	TexCoords [MaxTextureStages]TexCoordGen  `toml:"tex_coords"`
	Stages    [MaxTextureStages]TextureStage `toml:"stages"`

	AlphaTest bool          `toml:"alpha_test"`
	AlphaFunc AlphaFunction `toml:"alpha_func"`
}

// DefaultCombine returns the combiner defaults for stage i.
func DefaultCombine(i int) CombineMode {
	u := uint8(i)
	return CombineMode{
		RGB:           CombineModulate,
		Alpha:         CombineModulate,
		SrcRGB:        [4]CombineSource{SourceTexture, SourcePrevious, SourceConstant, SourceZero},
		SrcAlpha:      [4]CombineSource{SourceTexture, SourcePrevious, SourceConstant, SourceZero},
		OperandRGB:    [4]CombineOperand{OperandSrcColor, OperandSrcColor, OperandSrcAlpha, OperandOneMinusSrcColor},
		OperandAlpha:  [4]CombineOperand{OperandSrcAlpha, OperandSrcAlpha, OperandSrcAlpha, OperandOneMinusSrcAlpha},
		CrossbarRGB:   [4]uint8{u, u, u, u},
		CrossbarAlpha: [4]uint8{u, u, u, u},
		RGBScale:      1,
		AlphaScale:    1,
	}
}

// Defaults returns the settings of a freshly created context: lighting and
// fog off, back-face culling on, every light directional and disabled,
// texture coordinates taken from the vertex with identity texture matrices,
// every stage disabled in 2D MODULATE RGBA, and alpha test off with ALWAYS.
func Defaults() PipelineSettings {
	s := PipelineSettings{
		Normalize:         NoNormalize,
		CullEnabled:       true,
		CullFace:          FaceBack,
		ColorMaterial:     CMEmission,
		ColorMaterialFace: FaceNone,
		FogCoord:          FogFragmentDepth,
		FogMode:           FogExp,
		AlphaFunc:         AlphaAlways,
	}
	for i := range s.Lights {
		s.Lights[i] = Light{Type: Directional}
	}
	for i := range s.TexCoords {
		s.TexCoords[i] = TexCoordGen{IdentityMatrix: true}
	}
	for i := range s.Stages {
		s.Stages[i] = TextureStage{
			Target:   Texture2D,
			Function: Modulate,
			Format:   FormatRGBA,
			Combine:  DefaultCombine(i),
		}
	}
	return s
}

// AnyLightEnabled reports whether at least one light is enabled.
func (s *PipelineSettings) AnyLightEnabled() bool {
	for _, l := range s.Lights {
		if l.Enabled {
			return true
		}
	}
	return false
}

// AnyStageEnabled reports whether at least one texture stage is enabled.
func (s *PipelineSettings) AnyStageEnabled() bool {
	for _, st := range s.Stages {
		if st.Enabled {
			return true
		}
	}
	return false
}
