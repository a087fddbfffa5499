package state

import (
	"fmt"

	"github.com/gogpu/ffp/device"
)

// SlotID names one logical piece of numeric fixed-function state.
type SlotID uint16

// Shape is the value type stored in a slot.
type Shape uint8

const (
	Scalar Shape = iota
	Vec3
	Vec4
	Matrix
)

func (s Shape) String() string {
	switch s {
	case Scalar:
		return "scalar"
	case Vec3:
		return "vec3"
	case Vec4:
		return "vec4"
	case Matrix:
		return "matrix"
	}
	return fmt.Sprintf("shape(%d)", uint8(s))
}

// MaterialProperty indexes the per-face material slots.
type MaterialProperty uint8

const (
	MaterialAmbient MaterialProperty = iota
	MaterialDiffuse
	MaterialSpecular
	MaterialEmission
	MaterialShininess
	materialPropertyCount
)

// LightProperty indexes the per-light slots.
type LightProperty uint8

const (
	LightAmbient LightProperty = iota
	LightDiffuse
	LightSpecular
	LightPosition
	LightSpotDirection
	LightSpotExponent
	// LightSpotCosCutoff holds the cosine of the spot cutoff angle.
	LightSpotCosCutoff
	LightConstantAttenuation
	LightLinearAttenuation
	LightQuadraticAttenuation
	lightPropertyCount
)

// Component masks select device vector components. x is the high bit.
const (
	MaskX    uint8 = 0x8
	MaskY    uint8 = 0x4
	MaskZ    uint8 = 0x2
	MaskW    uint8 = 0x1
	MaskXYZ        = MaskX | MaskY | MaskZ
	MaskXYZW       = MaskXYZ | MaskW
)

const (
	materialBase SlotID = 0
	lightBase           = materialBase + 2*SlotID(materialPropertyCount)
	modelBase           = lightBase + device.MaxLights*SlotID(lightPropertyCount)
	matrixBase          = modelBase + 1
	projectionSlot      = matrixBase + device.MaxModelview
	textureMatBase      = projectionSlot + 1
	texGenBase          = textureMatBase + device.MaxTextureUnits
	fogBase             = texGenBase + device.MaxTextureUnits*8
	texEnvBase          = fogBase + 4
	rangeBase           = texEnvBase + device.MaxTextureUnits

	// NumSlots is the number of logical slots.
	NumSlots = rangeBase + 3
)

// Fixed slots.
const (
	LightModelAmbient = modelBase
	Projection        = projectionSlot
	FogColor          = fogBase
	FogDensity        = fogBase + 1
	FogStart          = fogBase + 2
	FogEnd            = fogBase + 3

	// DepthNear, DepthFar and AlphaRef have no device mirror.
	DepthNear = rangeBase
	DepthFar  = rangeBase + 1
	AlphaRef  = rangeBase + 2
)

// noSlot is returned by the id helpers for out of range arguments. Every
// accessor rejects it with a *SlotKindError.
const noSlot SlotID = NumSlots

// Material returns the slot of a material property on face.
func Material(face int, p MaterialProperty) SlotID {
	if face != device.Front && face != device.Back || p >= materialPropertyCount {
		return noSlot
	}
	return materialBase + SlotID(face)*SlotID(materialPropertyCount) + SlotID(p)
}

// Light returns the slot of a light property.
func Light(i int, p LightProperty) SlotID {
	if i < 0 || i >= device.MaxLights || p >= lightPropertyCount {
		return noSlot
	}
	return lightBase + SlotID(i)*SlotID(lightPropertyCount) + SlotID(p)
}

// Modelview returns the slot of modelview matrix unit.
func Modelview(unit int) SlotID {
	if unit < 0 || unit >= device.MaxModelview {
		return noSlot
	}
	return matrixBase + SlotID(unit)
}

// TextureMatrix returns the slot of a texture unit's matrix.
func TextureMatrix(unit int) SlotID {
	if unit < 0 || unit >= device.MaxTextureUnits {
		return noSlot
	}
	return textureMatBase + SlotID(unit)
}

// TexGen returns the slot of a coordinate generation plane.
func TexGen(unit int, plane device.TexGenPlane) SlotID {
	if unit < 0 || unit >= device.MaxTextureUnits || plane > device.ObjectQ {
		return noSlot
	}
	return texGenBase + SlotID(unit)*8 + SlotID(plane)
}

// TexEnvColor returns the slot of a texture unit's environment color.
func TexEnvColor(unit int) SlotID {
	if unit < 0 || unit >= device.MaxTextureUnits {
		return noSlot
	}
	return texEnvBase + SlotID(unit)
}

// mapping locates a slot inside the device mirror.
type mapping struct {
	mirrored bool
	vector   device.VectorID
	mask     uint8
	matrix   device.MatrixID
	unit     int
}

// slotInfo describes one entry of the slot table.
type slotInfo struct {
	name   string
	shape  Shape
	offset int // index into the per-shape value slice
	mapTo  mapping
}

var (
	slotTable   [NumSlots]slotInfo
	shapeCounts [Matrix + 1]int
)

func init() {
	def := func(id SlotID, name string, shape Shape, m mapping) {
		slotTable[id] = slotInfo{name: name, shape: shape, offset: shapeCounts[shape], mapTo: m}
		shapeCounts[shape]++
	}
	vec := func(id device.VectorID, mask uint8) mapping {
		return mapping{mirrored: true, vector: id, mask: mask}
	}
	mat := func(id device.MatrixID, unit int) mapping {
		return mapping{mirrored: true, matrix: id, unit: unit}
	}

	faces := [2]string{"front", "back"}
	for f := device.Front; f <= device.Back; f++ {
		p := "material." + faces[f] + "."
		def(Material(f, MaterialAmbient), p+"ambient", Vec4, vec(device.Material(f, device.MaterialAmbient), MaskXYZW))
		def(Material(f, MaterialDiffuse), p+"diffuse", Vec4, vec(device.Material(f, device.MaterialDiffuse), MaskXYZW))
		def(Material(f, MaterialSpecular), p+"specular", Vec4, vec(device.Material(f, device.MaterialSpecular), MaskXYZW))
		def(Material(f, MaterialEmission), p+"emission", Vec4, vec(device.Material(f, device.MaterialEmission), MaskXYZW))
		def(Material(f, MaterialShininess), p+"shininess", Scalar, vec(device.Material(f, device.MaterialShininess), MaskX))
	}

	for i := 0; i < device.MaxLights; i++ {
		p := fmt.Sprintf("light[%d].", i)
		att := device.Light(i, device.LightAttenuation)
		spot := device.Light(i, device.LightSpotDirection)
		def(Light(i, LightAmbient), p+"ambient", Vec4, vec(device.Light(i, device.LightAmbient), MaskXYZW))
		def(Light(i, LightDiffuse), p+"diffuse", Vec4, vec(device.Light(i, device.LightDiffuse), MaskXYZW))
		def(Light(i, LightSpecular), p+"specular", Vec4, vec(device.Light(i, device.LightSpecular), MaskXYZW))
		def(Light(i, LightPosition), p+"position", Vec4, vec(device.Light(i, device.LightPosition), MaskXYZW))
		def(Light(i, LightSpotDirection), p+"spot.direction", Vec3, vec(spot, MaskXYZ))
		def(Light(i, LightSpotExponent), p+"spot.exponent", Scalar, vec(att, MaskW))
		def(Light(i, LightSpotCosCutoff), p+"spot.cutoff", Scalar, vec(spot, MaskW))
		def(Light(i, LightConstantAttenuation), p+"attenuation.constant", Scalar, vec(att, MaskX))
		def(Light(i, LightLinearAttenuation), p+"attenuation.linear", Scalar, vec(att, MaskY))
		def(Light(i, LightQuadraticAttenuation), p+"attenuation.quadratic", Scalar, vec(att, MaskZ))
	}

	def(LightModelAmbient, "lightmodel.ambient", Vec4, vec(device.LightModelAmbient, MaskXYZW))

	for u := 0; u < device.MaxModelview; u++ {
		def(Modelview(u), fmt.Sprintf("matrix.modelview[%d]", u), Matrix, mat(device.Modelview, u))
	}
	def(Projection, "matrix.projection", Matrix, mat(device.Projection, 0))
	for u := 0; u < device.MaxTextureUnits; u++ {
		def(TextureMatrix(u), fmt.Sprintf("matrix.texture[%d]", u), Matrix, mat(device.TextureMatrix, u))
	}

	planes := [8]string{"eye.s", "eye.t", "eye.r", "eye.q", "object.s", "object.t", "object.r", "object.q"}
	for u := 0; u < device.MaxTextureUnits; u++ {
		for p := device.EyeS; p <= device.ObjectQ; p++ {
			def(TexGen(u, p), fmt.Sprintf("texgen[%d].%s", u, planes[p]), Vec4, vec(device.TexGen(u, p), MaskXYZW))
		}
	}

	def(FogColor, "fog.color", Vec4, vec(device.FogColor, MaskXYZW))
	def(FogDensity, "fog.density", Scalar, vec(device.FogParams, MaskX))
	def(FogStart, "fog.start", Scalar, vec(device.FogParams, MaskY))
	def(FogEnd, "fog.end", Scalar, vec(device.FogParams, MaskZ))

	for u := 0; u < device.MaxTextureUnits; u++ {
		def(TexEnvColor(u), fmt.Sprintf("texenv[%d].color", u), Vec4, vec(device.TexEnvColor(u), MaskXYZW))
	}

	def(DepthNear, "depth.range.near", Scalar, mapping{})
	def(DepthFar, "depth.range.far", Scalar, mapping{})
	def(AlphaRef, "alpha.ref", Scalar, mapping{})
}

// Valid reports whether id names a slot.
func (id SlotID) Valid() bool { return id < NumSlots }

// Shape returns the value type of the slot.
func (id SlotID) Shape() Shape {
	if !id.Valid() {
		return Scalar
	}
	return slotTable[id].shape
}

// Mirrored reports whether the slot has a device mirror location.
func (id SlotID) Mirrored() bool {
	return id.Valid() && slotTable[id].mapTo.mirrored
}

func (id SlotID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("slot(%d)", uint16(id))
	}
	return slotTable[id].name
}
