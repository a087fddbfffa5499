package device

import "fmt"

// VectorID names a four-component state vector held by the device.
type VectorID uint16

// MaterialProperty indexes the per-face material vectors.
type MaterialProperty uint8

const (
	MaterialAmbient MaterialProperty = iota
	MaterialDiffuse
	MaterialSpecular
	MaterialEmission
	MaterialShininess
	materialPropertyCount
)

// LightProperty indexes the per-light vectors.
type LightProperty uint8

const (
	LightAmbient LightProperty = iota
	LightDiffuse
	LightSpecular
	LightPosition
	// LightAttenuation holds constant, linear, quadratic and spot exponent.
	LightAttenuation
	// LightSpotDirection holds the direction and the cosine of the cutoff.
	LightSpotDirection
	LightHalf
	lightPropertyCount
)

// ProductProperty indexes the light-times-material products.
type ProductProperty uint8

const (
	ProductAmbient ProductProperty = iota
	ProductDiffuse
	ProductSpecular
	productPropertyCount
)

// TexGenPlane indexes the coordinate generation planes of a texture unit.
type TexGenPlane uint8

const (
	EyeS TexGenPlane = iota
	EyeT
	EyeR
	EyeQ
	ObjectS
	ObjectT
	ObjectR
	ObjectQ
	texGenPlaneCount
)

// Face selects a material face.
const (
	Front = 0
	Back  = 1
)

// Limits of the device state.
const (
	MaxLights       = 8
	MaxTextureUnits = 16
	MaxModelview    = 4
)

const (
	materialBase   VectorID = 0
	lightBase               = materialBase + 2*VectorID(materialPropertyCount)
	lightModelBase          = lightBase + MaxLights*VectorID(lightPropertyCount)
	productBase             = lightModelBase + 3
	texGenBase              = productBase + MaxLights*2*VectorID(productPropertyCount)
	fogBase                 = texGenBase + MaxTextureUnits*VectorID(texGenPlaneCount)
	texEnvBase              = fogBase + 2

	// NumVectors is the size of the device vector space.
	NumVectors = texEnvBase + MaxTextureUnits
)

const (
	// LightModelAmbient is the global ambient color.
	LightModelAmbient = lightModelBase

	// SceneColorFront and SceneColorBack are derived: emission plus
	// material ambient times the global ambient.
	SceneColorFront = lightModelBase + 1
	SceneColorBack  = lightModelBase + 2

	FogColor = fogBase

	// FogParams holds density, start, end and the derived 1/(end-start).
	FogParams = fogBase + 1
)

// Material returns the vector of material property p on face.
func Material(face int, p MaterialProperty) VectorID {
	return materialBase + VectorID(face)*VectorID(materialPropertyCount) + VectorID(p)
}

// Light returns the vector of light property p for light i.
func Light(i int, p LightProperty) VectorID {
	return lightBase + VectorID(i)*VectorID(lightPropertyCount) + VectorID(p)
}

// LightProduct returns the derived product vector of light i on face.
func LightProduct(i, face int, p ProductProperty) VectorID {
	return productBase + (VectorID(i)*2+VectorID(face))*VectorID(productPropertyCount) + VectorID(p)
}

// TexGen returns the generation plane of a texture unit.
func TexGen(unit int, plane TexGenPlane) VectorID {
	return texGenBase + VectorID(unit)*VectorID(texGenPlaneCount) + VectorID(plane)
}

// TexEnvColor returns the environment color of a texture unit.
func TexEnvColor(unit int) VectorID {
	return texEnvBase + VectorID(unit)
}

// Valid reports whether id names a device vector.
func (id VectorID) Valid() bool { return id < NumVectors }

func (id VectorID) String() string {
	switch {
	case id < lightBase:
		return fmt.Sprintf("material[%d].%d", (id-materialBase)/VectorID(materialPropertyCount), (id-materialBase)%VectorID(materialPropertyCount))
	case id < lightModelBase:
		return fmt.Sprintf("light[%d].%d", (id-lightBase)/VectorID(lightPropertyCount), (id-lightBase)%VectorID(lightPropertyCount))
	case id < productBase:
		return fmt.Sprintf("lightmodel.%d", id-lightModelBase)
	case id < texGenBase:
		return fmt.Sprintf("lightprod.%d", id-productBase)
	case id < fogBase:
		return fmt.Sprintf("texgen[%d].%d", (id-texGenBase)/VectorID(texGenPlaneCount), (id-texGenBase)%VectorID(texGenPlaneCount))
	case id == FogColor:
		return "fog.color"
	case id == FogParams:
		return "fog.params"
	case id < NumVectors:
		return fmt.Sprintf("texenv[%d].color", id-texEnvBase)
	}
	return fmt.Sprintf("vector(%d)", uint16(id))
}

// MatrixID names a matrix stack top held by the device.
type MatrixID uint8

const (
	Modelview MatrixID = iota
	Projection
	// MVP is derived: projection times modelview 0.
	MVP
	TextureMatrix
	numMatrixIDs
)

func (m MatrixID) String() string {
	switch m {
	case Modelview:
		return "modelview"
	case Projection:
		return "projection"
	case MVP:
		return "mvp"
	case TextureMatrix:
		return "texture"
	}
	return fmt.Sprintf("matrix(%d)", uint8(m))
}

// Units returns how many matrices of this kind the device holds.
func (m MatrixID) Units() int {
	switch m {
	case Modelview:
		return MaxModelview
	case TextureMatrix:
		return MaxTextureUnits
	case Projection, MVP:
		return 1
	}
	return 0
}

// MatrixKind selects a modifier applied when a matrix is read.
type MatrixKind uint8

const (
	Plain MatrixKind = iota
	Inverse
	Transpose
	InverseTranspose
)

func (k MatrixKind) String() string {
	switch k {
	case Plain:
		return ""
	case Inverse:
		return "inverse"
	case Transpose:
		return "transpose"
	case InverseTranspose:
		return "invtrans"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}
