package state

import (
	"errors"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/ffp/device"
)

func TestSlotHelpersOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		id   SlotID
	}{
		{"material face -1", Material(-1, MaterialAmbient)},
		{"material face 2", Material(2, MaterialAmbient)},
		{"material property", Material(device.Front, materialPropertyCount)},
		{"light -1", Light(-1, LightAmbient)},
		{"light 8", Light(device.MaxLights, LightAmbient)},
		{"light property", Light(0, lightPropertyCount)},
		{"modelview -1", Modelview(-1)},
		{"modelview 4", Modelview(device.MaxModelview)},
		{"texture matrix 16", TextureMatrix(device.MaxTextureUnits)},
		{"texgen unit 16", TexGen(device.MaxTextureUnits, device.EyeS)},
		{"texgen plane", TexGen(0, device.ObjectQ+1)},
		{"texenv -1", TexEnvColor(-1)},
		{"texenv 16", TexEnvColor(device.MaxTextureUnits)},
	}
	for _, tt := range tests {
		if tt.id.Valid() {
			t.Errorf("%s: id = %v, want an invalid slot", tt.name, tt.id)
		}
	}

	last := []struct {
		name string
		id   SlotID
	}{
		{"material", Material(device.Back, MaterialShininess)},
		{"light", Light(device.MaxLights-1, LightQuadraticAttenuation)},
		{"modelview", Modelview(device.MaxModelview - 1)},
		{"texture matrix", TextureMatrix(device.MaxTextureUnits - 1)},
		{"texgen", TexGen(device.MaxTextureUnits-1, device.ObjectQ)},
		{"texenv", TexEnvColor(device.MaxTextureUnits - 1)},
	}
	for _, tt := range last {
		if !tt.id.Valid() {
			t.Errorf("%s: last in range id is invalid", tt.name)
		}
	}
}

func TestSettersOutOfRange(t *testing.T) {
	v := f32.Vec4{9, 9, 9, 9}
	tests := []struct {
		name string
		set  func(ps *PipelineState) error
	}{
		{"SetMaterial face 2", func(ps *PipelineState) error { return ps.SetMaterial(2, MaterialAmbient, v) }},
		{"SetMaterial face -1", func(ps *PipelineState) error { return ps.SetMaterial(-1, MaterialShininess, v) }},
		{"SetShininess", func(ps *PipelineState) error { return ps.SetShininess(2, 9) }},
		{"SetLightColor", func(ps *PipelineState) error { return ps.SetLightColor(device.MaxLights, LightAmbient, v) }},
		{"SetLightPosition", func(ps *PipelineState) error { return ps.SetLightPosition(-1, v) }},
		{"SetSpot", func(ps *PipelineState) error { return ps.SetSpot(device.MaxLights, f32.Vec3{9, 9, 9}, 9, 9) }},
		{"SetAttenuation", func(ps *PipelineState) error { return ps.SetAttenuation(device.MaxLights, 9, 9, 9) }},
		{"SetModelview", func(ps *PipelineState) error { return ps.SetModelview(device.MaxModelview, device.Identity) }},
		{"SetTextureMatrix", func(ps *PipelineState) error {
			return ps.SetTextureMatrix(device.MaxTextureUnits, device.Identity)
		}},
		{"SetTexGenPlane unit", func(ps *PipelineState) error {
			return ps.SetTexGenPlane(device.MaxTextureUnits, device.EyeS, v)
		}},
		{"SetTexGenPlane plane", func(ps *PipelineState) error { return ps.SetTexGenPlane(0, device.ObjectQ+1, v) }},
		{"SetTexEnvColor", func(ps *PipelineState) error { return ps.SetTexEnvColor(device.MaxTextureUnits, v) }},
	}
	for _, tt := range tests {
		ps, mem := newState(t)
		ps.Sync()
		ambient, _ := ps.Vec4(LightModelAmbient)
		light0, _ := ps.Vec4(Light(0, LightAmbient))

		err := tt.set(ps)
		if !errors.Is(err, ErrInvalidSlotKind) {
			t.Errorf("%s: error = %v, want ErrInvalidSlotKind", tt.name, err)
		}
		var kind *SlotKindError
		if !errors.As(err, &kind) {
			t.Errorf("%s: error %T is not a *SlotKindError", tt.name, err)
		}
		if n := ps.Dirty(); n != 0 {
			t.Errorf("%s: Dirty() = %d, want 0", tt.name, n)
		}
		if got, _ := ps.Vec4(LightModelAmbient); got != ambient {
			t.Errorf("%s: lightmodel.ambient = %v, want %v", tt.name, got, ambient)
		}
		if got, _ := ps.Vec4(Light(0, LightAmbient)); got != light0 {
			t.Errorf("%s: light[0].ambient = %v, want %v", tt.name, got, light0)
		}
		before := mem.Writes
		ps.Sync()
		if mem.Writes != before {
			t.Errorf("%s: mirror writes = %d, want 0", tt.name, mem.Writes-before)
		}
	}
}
