package settings

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// enumName returns the text form shared by every settings enum.
// Names are lower-case and match the TOML document keys.
func enumName(names []string, v uint8) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("invalid(%d)", v)
}

// enumParse stores the enum named by text in dst. dst is left unchanged
// when text names no value.
func enumParse[T ~uint8](dst *T, kind string, names []string, text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range names {
		if n == s {
			*dst = T(i)
			return nil
		}
	}
	return &ValueError{Field: kind, Value: s}
}

// NormalizeMode selects how eye-space normals are renormalized.
type NormalizeMode uint8

const (
	NoNormalize NormalizeMode = iota
	Rescale
	Normalize
	normalizeModeCount
)

var normalizeModeNames = []string{"none", "rescale", "normalize"}

func (m NormalizeMode) Valid() bool    { return m < normalizeModeCount }
func (m NormalizeMode) String() string { return enumName(normalizeModeNames, uint8(m)) }

func (m NormalizeMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *NormalizeMode) UnmarshalText(b []byte) error {
	return enumParse(m, "normalize", normalizeModeNames, b)
}

// LightType is the kind of a light source.
type LightType uint8

const (
	Directional LightType = iota
	Point
	Spot
	lightTypeCount
)

var lightTypeNames = []string{"directional", "point", "spot"}

func (t LightType) Valid() bool    { return t < lightTypeCount }
func (t LightType) String() string { return enumName(lightTypeNames, uint8(t)) }

// Local reports whether the light has a finite position.
func (t LightType) Local() bool { return t == Point || t == Spot }

func (t LightType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *LightType) UnmarshalText(b []byte) error {
	return enumParse(t, "light type", lightTypeNames, b)
}

// Face names a polygon face set. It is used for culling and color
// material tracking. gputypes.CullMode has no front-and-back value.
type Face uint8

const (
	FaceNone Face = iota
	FaceFront
	FaceBack
	FaceFrontAndBack
	faceCount
)

var faceNames = []string{"none", "front", "back", "front_and_back"}

func (f Face) Valid() bool    { return f < faceCount }
func (f Face) String() string { return enumName(faceNames, uint8(f)) }

// HasFront reports whether the set contains the front face.
func (f Face) HasFront() bool { return f == FaceFront || f == FaceFrontAndBack }

// HasBack reports whether the set contains the back face.
func (f Face) HasBack() bool { return f == FaceBack || f == FaceFrontAndBack }

func (f Face) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Face) UnmarshalText(b []byte) error {
	return enumParse(f, "face", faceNames, b)
}

// ColorMaterialMode selects the material property tracking the vertex color.
type ColorMaterialMode uint8

const (
	CMEmission ColorMaterialMode = iota
	CMAmbient
	CMDiffuse
	CMSpecular
	CMAmbientAndDiffuse
	colorMaterialModeCount
)

var colorMaterialModeNames = []string{"emission", "ambient", "diffuse", "specular", "ambient_and_diffuse"}

func (m ColorMaterialMode) Valid() bool    { return m < colorMaterialModeCount }
func (m ColorMaterialMode) String() string { return enumName(colorMaterialModeNames, uint8(m)) }

func (m ColorMaterialMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *ColorMaterialMode) UnmarshalText(b []byte) error {
	return enumParse(m, "color material", colorMaterialModeNames, b)
}

// FogCoordSource selects where the fog distance comes from.
type FogCoordSource uint8

const (
	FogFragmentDepth FogCoordSource = iota
	FogCoordinate
	fogCoordSourceCount
)

var fogCoordSourceNames = []string{"fragment_depth", "fog_coord"}

func (s FogCoordSource) Valid() bool    { return s < fogCoordSourceCount }
func (s FogCoordSource) String() string { return enumName(fogCoordSourceNames, uint8(s)) }

func (s FogCoordSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *FogCoordSource) UnmarshalText(b []byte) error {
	return enumParse(s, "fog coord", fogCoordSourceNames, b)
}

// FogMode is the fog blend equation.
type FogMode uint8

const (
	FogLinear FogMode = iota
	FogExp
	FogExp2
	fogModeCount
)

var fogModeNames = []string{"linear", "exp", "exp2"}

func (m FogMode) Valid() bool    { return m < fogModeCount }
func (m FogMode) String() string { return enumName(fogModeNames, uint8(m)) }

func (m FogMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *FogMode) UnmarshalText(b []byte) error {
	return enumParse(m, "fog mode", fogModeNames, b)
}

// TexGenMode is the generation mode of one texture coordinate.
type TexGenMode uint8

const (
	VertexAttrib TexGenMode = iota
	ObjectLinear
	EyeLinear
	SphereMap
	ReflectionMap
	NormalMap
	texGenModeCount
)

var texGenModeNames = []string{"vertex_attrib", "object_linear", "eye_linear", "sphere_map", "reflection_map", "normal_map"}

func (m TexGenMode) Valid() bool    { return m < texGenModeCount }
func (m TexGenMode) String() string { return enumName(texGenModeNames, uint8(m)) }

func (m TexGenMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *TexGenMode) UnmarshalText(b []byte) error {
	return enumParse(m, "texgen", texGenModeNames, b)
}

// TextureTarget is the sampler dimensionality of a texture stage.
type TextureTarget uint8

const (
	Texture1D TextureTarget = iota
	Texture2D
	Texture3D
	TextureCube
	TextureRect
	textureTargetCount
)

var textureTargetNames = []string{"1d", "2d", "3d", "cube", "rect"}

func (t TextureTarget) Valid() bool    { return t < textureTargetCount }
func (t TextureTarget) String() string { return enumName(textureTargetNames, uint8(t)) }

// ViewDimension maps the target to the gputypes view dimension. Rectangle
// textures are sampled as 2D views.
func (t TextureTarget) ViewDimension() gputypes.TextureViewDimension {
	switch t {
	case Texture1D:
		return gputypes.TextureViewDimension1D
	case Texture2D, TextureRect:
		return gputypes.TextureViewDimension2D
	case Texture3D:
		return gputypes.TextureViewDimension3D
	case TextureCube:
		return gputypes.TextureViewDimensionCube
	}
	return gputypes.TextureViewDimensionUndefined
}

func (t TextureTarget) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TextureTarget) UnmarshalText(b []byte) error {
	return enumParse(t, "texture target", textureTargetNames, b)
}

// TextureFunction is the texture environment mode of a stage.
type TextureFunction uint8

const (
	Replace TextureFunction = iota
	Modulate
	Decal
	Blend
	Add
	Combine
	Combine4NV
	textureFunctionCount
)

var textureFunctionNames = []string{"replace", "modulate", "decal", "blend", "add", "combine", "combine4_nv"}

func (f TextureFunction) Valid() bool    { return f < textureFunctionCount }
func (f TextureFunction) String() string { return enumName(textureFunctionNames, uint8(f)) }

// IsCombine reports whether the stage is driven by its combine record.
func (f TextureFunction) IsCombine() bool { return f == Combine || f == Combine4NV }

func (f TextureFunction) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *TextureFunction) UnmarshalText(b []byte) error {
	return enumParse(f, "texture function", textureFunctionNames, b)
}

// BaseFormat is the base internal format of the texture bound to a stage.
type BaseFormat uint8

const (
	FormatAlpha BaseFormat = iota
	FormatLuminance
	FormatLuminanceAlpha
	FormatDepth
	FormatIntensity
	FormatRGB
	FormatRGBA
	baseFormatCount
)

var baseFormatNames = []string{"alpha", "luminance", "luminance_alpha", "depth", "intensity", "rgb", "rgba"}

func (f BaseFormat) Valid() bool    { return f < baseFormatCount }
func (f BaseFormat) String() string { return enumName(baseFormatNames, uint8(f)) }

func (f BaseFormat) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *BaseFormat) UnmarshalText(b []byte) error {
	return enumParse(f, "base format", baseFormatNames, b)
}

// CombineFunction is the combiner equation of one channel group.
type CombineFunction uint8

const (
	CombineReplace CombineFunction = iota
	CombineModulate
	CombineAdd
	CombineAddSigned
	CombineInterpolate
	CombineSubtract
	CombineDot3RGB
	CombineDot3RGBA
	CombineModulateAdd
	CombineModulateSignedAdd
	CombineModulateSubtract
	combineFunctionCount
)

var combineFunctionNames = []string{
	"replace", "modulate", "add", "add_signed", "interpolate", "subtract",
	"dot3_rgb", "dot3_rgba", "modulate_add", "modulate_signed_add", "modulate_subtract",
}

func (f CombineFunction) Valid() bool    { return f < combineFunctionCount }
func (f CombineFunction) String() string { return enumName(combineFunctionNames, uint8(f)) }

// Operands returns how many sources the equation reads. Under the NV
// four-operand combiner ADD and ADD_SIGNED read four.
func (f CombineFunction) Operands(nv bool) int {
	switch f {
	case CombineReplace:
		return 1
	case CombineInterpolate, CombineModulateAdd, CombineModulateSignedAdd, CombineModulateSubtract:
		return 3
	case CombineAdd, CombineAddSigned:
		if nv {
			return 4
		}
	}
	return 2
}

func (f CombineFunction) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *CombineFunction) UnmarshalText(b []byte) error {
	return enumParse(f, "combine function", combineFunctionNames, b)
}

// CombineSource is a combiner input register.
type CombineSource uint8

const (
	SourceZero CombineSource = iota
	SourceOne
	SourceTexture
	SourceTextureN
	SourceConstant
	SourcePrimaryColor
	SourcePrevious
	combineSourceCount
)

var combineSourceNames = []string{"zero", "one", "texture", "texture_n", "constant", "primary_color", "previous"}

func (s CombineSource) Valid() bool    { return s < combineSourceCount }
func (s CombineSource) String() string { return enumName(combineSourceNames, uint8(s)) }

func (s CombineSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *CombineSource) UnmarshalText(b []byte) error {
	return enumParse(s, "combine source", combineSourceNames, b)
}

// CombineOperand selects the channels read from a combiner source.
type CombineOperand uint8

const (
	OperandSrcColor CombineOperand = iota
	OperandOneMinusSrcColor
	OperandSrcAlpha
	OperandOneMinusSrcAlpha
	combineOperandCount
)

var combineOperandNames = []string{"src_color", "one_minus_src_color", "src_alpha", "one_minus_src_alpha"}

func (o CombineOperand) Valid() bool    { return o < combineOperandCount }
func (o CombineOperand) String() string { return enumName(combineOperandNames, uint8(o)) }

// OneMinus reports whether the operand is inverted.
func (o CombineOperand) OneMinus() bool {
	return o == OperandOneMinusSrcColor || o == OperandOneMinusSrcAlpha
}

func (o CombineOperand) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *CombineOperand) UnmarshalText(b []byte) error {
	return enumParse(o, "combine operand", combineOperandNames, b)
}

// AlphaFunction is the alpha test comparison. Values follow the legacy
// enumeration order; CompareFunction converts to gputypes.
type AlphaFunction uint8

const (
	AlphaNever AlphaFunction = iota
	AlphaAlways
	AlphaLess
	AlphaLessEqual
	AlphaEqual
	AlphaGreaterEqual
	AlphaGreater
	AlphaNotEqual
	alphaFunctionCount
)

var alphaFunctionNames = []string{"never", "always", "less", "less_equal", "equal", "greater_equal", "greater", "not_equal"}

func (f AlphaFunction) Valid() bool    { return f < alphaFunctionCount }
func (f AlphaFunction) String() string { return enumName(alphaFunctionNames, uint8(f)) }

var alphaToCompare = [...]gputypes.CompareFunction{
	AlphaNever:        gputypes.CompareFunctionNever,
	AlphaAlways:       gputypes.CompareFunctionAlways,
	AlphaLess:         gputypes.CompareFunctionLess,
	AlphaLessEqual:    gputypes.CompareFunctionLessEqual,
	AlphaEqual:        gputypes.CompareFunctionEqual,
	AlphaGreaterEqual: gputypes.CompareFunctionGreaterEqual,
	AlphaGreater:      gputypes.CompareFunctionGreater,
	AlphaNotEqual:     gputypes.CompareFunctionNotEqual,
}

// CompareFunction returns the gputypes equivalent of f.
func (f AlphaFunction) CompareFunction() gputypes.CompareFunction {
	if !f.Valid() {
		return gputypes.CompareFunctionUndefined
	}
	return alphaToCompare[f]
}

// AlphaFunctionOf converts a gputypes compare function. Undefined reports false.
func AlphaFunctionOf(c gputypes.CompareFunction) (AlphaFunction, bool) {
	for f, v := range alphaToCompare {
		if v == c {
			return AlphaFunction(f), true
		}
	}
	return AlphaAlways, false
}

func (f AlphaFunction) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *AlphaFunction) UnmarshalText(b []byte) error {
	return enumParse(f, "alpha function", alphaFunctionNames, b)
}
