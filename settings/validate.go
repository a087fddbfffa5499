package settings

import (
	"errors"
	"fmt"
)

// ErrUnsupportedValue is returned when a settings field holds a value the
// generators cannot express.
var ErrUnsupportedValue = errors.New("settings: unsupported value")

// ValueError reports the first offending field found by Validate.
type ValueError struct {
	Field string
	Value string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("settings: unsupported value %q for %s", e.Value, e.Field)
}

func (e *ValueError) Unwrap() error { return ErrUnsupportedValue }

type validEnum interface {
	Valid() bool
	String() string
}

// Validate checks every field in declaration order and returns the first
// violation. A nil result means both generators accept s.
func Validate(s *PipelineSettings) error {
	check := func(field string, v validEnum) error {
		if !v.Valid() {
			return &ValueError{Field: field, Value: v.String()}
		}
		return nil
	}

	if err := check("normalize", s.Normalize); err != nil {
		return err
	}
	for i, l := range s.Lights {
		if err := check(fmt.Sprintf("lights[%d].type", i), l.Type); err != nil {
			return err
		}
	}
	if err := check("cull_face", s.CullFace); err != nil {
		return err
	}
	if err := check("color_material", s.ColorMaterial); err != nil {
		return err
	}
	if err := check("color_material_face", s.ColorMaterialFace); err != nil {
		return err
	}
	if err := check("fog_coord", s.FogCoord); err != nil {
		return err
	}
	if err := check("fog_mode", s.FogMode); err != nil {
		return err
	}
	for i, g := range s.TexCoords {
		for j, m := range g.Coords() {
			if err := check(fmt.Sprintf("tex_coords[%d].%c", i, "strq"[j]), m); err != nil {
				return err
			}
		}
	}
	for i := range s.Stages {
		if err := validateStage(i, &s.Stages[i], check); err != nil {
			return err
		}
	}
	return check("alpha_func", s.AlphaFunc)
}

func validateStage(i int, st *TextureStage, check func(string, validEnum) error) error {
	field := func(name string) string { return fmt.Sprintf("stages[%d].%s", i, name) }

	if err := check(field("target"), st.Target); err != nil {
		return err
	}
	if err := check(field("function"), st.Function); err != nil {
		return err
	}
	if err := check(field("format"), st.Format); err != nil {
		return err
	}

	c := &st.Combine
	if err := check(field("combine.rgb"), c.RGB); err != nil {
		return err
	}
	if err := check(field("combine.alpha"), c.Alpha); err != nil {
		return err
	}
	if c.Alpha == CombineDot3RGB || c.Alpha == CombineDot3RGBA {
		return &ValueError{Field: field("combine.alpha"), Value: c.Alpha.String()}
	}
	for j := 0; j < 4; j++ {
		idx := func(name string) string { return field(fmt.Sprintf("combine.%s[%d]", name, j)) }
		if err := check(idx("src_rgb"), c.SrcRGB[j]); err != nil {
			return err
		}
		if err := check(idx("src_alpha"), c.SrcAlpha[j]); err != nil {
			return err
		}
		if err := check(idx("operand_rgb"), c.OperandRGB[j]); err != nil {
			return err
		}
		if err := check(idx("operand_alpha"), c.OperandAlpha[j]); err != nil {
			return err
		}
		if c.CrossbarRGB[j] >= MaxTextureStages {
			return &ValueError{Field: idx("crossbar_rgb"), Value: fmt.Sprint(c.CrossbarRGB[j])}
		}
		if c.CrossbarAlpha[j] >= MaxTextureStages {
			return &ValueError{Field: idx("crossbar_alpha"), Value: fmt.Sprint(c.CrossbarAlpha[j])}
		}
	}
	if !validScale(c.RGBScale) {
		return &ValueError{Field: field("combine.rgb_scale"), Value: fmt.Sprint(c.RGBScale)}
	}
	if !validScale(c.AlphaScale) {
		return &ValueError{Field: field("combine.alpha_scale"), Value: fmt.Sprint(c.AlphaScale)}
	}

	if !st.Enabled {
		return nil
	}
	if st.Target == TextureRect {
		return &ValueError{Field: field("target"), Value: st.Target.String()}
	}
	if st.Format == FormatDepth && !st.Function.IsCombine() {
		return &ValueError{Field: field("format"), Value: st.Format.String()}
	}
	return nil
}

func validScale(v uint8) bool { return v == 1 || v == 2 || v == 4 }
