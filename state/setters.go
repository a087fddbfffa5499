package state

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/ffp/device"
)

// The setters below are the typed entry points used by the legacy state
// calls. They never fail for in-range arguments; an out of range face,
// light, unit or plane fails with a *SlotKindError and writes nothing.

// SetMaterial writes a color property of one face.
func (ps *PipelineState) SetMaterial(face int, p MaterialProperty, v f32.Vec4) error {
	if p == MaterialShininess {
		return ps.SetScalar(Material(face, p), v[0])
	}
	return ps.SetVec4(Material(face, p), v)
}

// SetShininess writes the specular exponent of one face.
func (ps *PipelineState) SetShininess(face int, v float32) error {
	return ps.SetScalar(Material(face, MaterialShininess), v)
}

// SetLightColor writes the ambient, diffuse or specular color of light i.
func (ps *PipelineState) SetLightColor(i int, p LightProperty, v f32.Vec4) error {
	return ps.SetVec4(Light(i, p), v)
}

// SetLightPosition writes the eye-space position of light i. A zero w
// makes the light directional.
func (ps *PipelineState) SetLightPosition(i int, v f32.Vec4) error {
	return ps.SetVec4(Light(i, LightPosition), v)
}

// SetSpot writes the spot direction, exponent and cutoff angle in degrees
// of light i.
func (ps *PipelineState) SetSpot(i int, dir f32.Vec3, exponent, cutoff float32) error {
	if err := ps.SetVec3(Light(i, LightSpotDirection), dir); err != nil {
		return err
	}
	if err := ps.SetScalar(Light(i, LightSpotExponent), exponent); err != nil {
		return err
	}
	return ps.SetScalar(Light(i, LightSpotCosCutoff), math32.Cos(cutoff*math32.Pi/180))
}

// SetAttenuation writes the constant, linear and quadratic attenuation of
// light i.
func (ps *PipelineState) SetAttenuation(i int, constant, linear, quadratic float32) error {
	if err := ps.SetScalar(Light(i, LightConstantAttenuation), constant); err != nil {
		return err
	}
	if err := ps.SetScalar(Light(i, LightLinearAttenuation), linear); err != nil {
		return err
	}
	return ps.SetScalar(Light(i, LightQuadraticAttenuation), quadratic)
}

// SetLightModelAmbient writes the global ambient color.
func (ps *PipelineState) SetLightModelAmbient(v f32.Vec4) error {
	return ps.SetVec4(LightModelAmbient, v)
}

// SetModelview writes modelview matrix unit.
func (ps *PipelineState) SetModelview(unit int, m f32.Mat4) error {
	return ps.SetMatrix(Modelview(unit), m)
}

// SetProjection writes the projection matrix.
func (ps *PipelineState) SetProjection(m f32.Mat4) error {
	return ps.SetMatrix(Projection, m)
}

// SetTextureMatrix writes the texture matrix of a unit.
func (ps *PipelineState) SetTextureMatrix(unit int, m f32.Mat4) error {
	return ps.SetMatrix(TextureMatrix(unit), m)
}

// SetTexGenPlane writes a coordinate generation plane of a unit.
func (ps *PipelineState) SetTexGenPlane(unit int, plane device.TexGenPlane, v f32.Vec4) error {
	return ps.SetVec4(TexGen(unit, plane), v)
}

// SetTexEnvColor writes the environment color of a unit.
func (ps *PipelineState) SetTexEnvColor(unit int, v f32.Vec4) error {
	return ps.SetVec4(TexEnvColor(unit), v)
}

// SetFogColor writes the fog color.
func (ps *PipelineState) SetFogColor(v f32.Vec4) error {
	return ps.SetVec4(FogColor, v)
}

// SetFog writes the fog density and the linear fog range.
func (ps *PipelineState) SetFog(density, start, end float32) error {
	if err := ps.SetScalar(FogDensity, density); err != nil {
		return err
	}
	if err := ps.SetScalar(FogStart, start); err != nil {
		return err
	}
	return ps.SetScalar(FogEnd, end)
}

// SetDepthRange writes the depth range. The range has no device mirror.
func (ps *PipelineState) SetDepthRange(near, far float32) error {
	if err := ps.SetScalar(DepthNear, near); err != nil {
		return err
	}
	return ps.SetScalar(DepthFar, far)
}

// SetAlphaRef writes the alpha test reference value. It has no device
// mirror and reaches programs through a binding.
func (ps *PipelineState) SetAlphaRef(v float32) error {
	return ps.SetScalar(AlphaRef, v)
}
