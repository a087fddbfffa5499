package device

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Mirror is the device-side copy of the fixed-function state that
// generated programs read through state.* bindings. Implementations own
// the canonical values; the pipeline state pushes changes into it on sync.
//
// Derived entries (scene colors, light products, half vectors, the MVP
// matrix, inverse and transposed matrices) are computed by the mirror and
// cannot be written.
type Mirror interface {
	// Vector returns the current value of a device vector.
	Vector(id VectorID) f32.Vec4
	// SetVector stores a device vector. Writes to derived vectors are ignored.
	SetVector(id VectorID, v f32.Vec4)
	// Matrix returns a matrix with the modifier applied. Rows are stored
	// in row-major order.
	Matrix(id MatrixID, kind MatrixKind, unit int) f32.Mat4
	// SetMatrix stores a matrix. Writes to MVP are ignored.
	SetMatrix(id MatrixID, unit int, m f32.Mat4)
}

// Valid reports whether m names a device matrix.
func (m MatrixID) Valid() bool { return m < numMatrixIDs }

// Identity is the 4x4 identity matrix.
var Identity = f32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Memory is an in-memory Mirror with the power-on values of a legacy
// driver. It is the reference mirror used by sessions that are not
// attached to a device.
//
// Memory is not safe for concurrent use.
type Memory struct {
	vectors    [NumVectors]f32.Vec4
	modelview  [MaxModelview]f32.Mat4
	projection f32.Mat4
	texture    [MaxTextureUnits]f32.Mat4

	// Writes counts SetVector and SetMatrix calls.
	Writes int
}

// NewMemory returns a mirror holding the default driver state.
func NewMemory() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset restores the default driver state and clears the write counter.
func (m *Memory) Reset() {
	black := f32.Vec4{0, 0, 0, 1}
	for face := Front; face <= Back; face++ {
		m.vectors[Material(face, MaterialAmbient)] = f32.Vec4{0.2, 0.2, 0.2, 1}
		m.vectors[Material(face, MaterialDiffuse)] = f32.Vec4{0.8, 0.8, 0.8, 1}
		m.vectors[Material(face, MaterialSpecular)] = black
		m.vectors[Material(face, MaterialEmission)] = black
		m.vectors[Material(face, MaterialShininess)] = f32.Vec4{}
	}
	for i := 0; i < MaxLights; i++ {
		m.vectors[Light(i, LightAmbient)] = black
		m.vectors[Light(i, LightDiffuse)] = black
		m.vectors[Light(i, LightSpecular)] = black
		m.vectors[Light(i, LightPosition)] = f32.Vec4{0, 0, 1, 0}
		m.vectors[Light(i, LightAttenuation)] = f32.Vec4{1, 0, 0, 0}
		m.vectors[Light(i, LightSpotDirection)] = f32.Vec4{0, 0, -1, -1}
	}
	m.vectors[Light(0, LightDiffuse)] = f32.Vec4{1, 1, 1, 1}
	m.vectors[Light(0, LightSpecular)] = f32.Vec4{1, 1, 1, 1}
	m.vectors[LightModelAmbient] = f32.Vec4{0.2, 0.2, 0.2, 1}

	for u := 0; u < MaxTextureUnits; u++ {
		for _, p := range []TexGenPlane{EyeS, ObjectS} {
			m.vectors[TexGen(u, p)] = f32.Vec4{1, 0, 0, 0}
		}
		for _, p := range []TexGenPlane{EyeT, ObjectT} {
			m.vectors[TexGen(u, p)] = f32.Vec4{0, 1, 0, 0}
		}
		for _, p := range []TexGenPlane{EyeR, EyeQ, ObjectR, ObjectQ} {
			m.vectors[TexGen(u, p)] = f32.Vec4{}
		}
		m.vectors[TexEnvColor(u)] = f32.Vec4{}
		m.texture[u] = Identity
	}
	m.vectors[FogColor] = f32.Vec4{}
	m.vectors[FogParams] = f32.Vec4{1, 0, 1, 0}

	for i := range m.modelview {
		m.modelview[i] = Identity
	}
	m.projection = Identity
	m.Writes = 0
}

// Vector implements Mirror.
func (m *Memory) Vector(id VectorID) f32.Vec4 {
	if !id.Valid() {
		return f32.Vec4{}
	}
	switch {
	case id == SceneColorFront:
		return m.sceneColor(Front)
	case id == SceneColorBack:
		return m.sceneColor(Back)
	case id == FogParams:
		v := m.vectors[id]
		if d := v[2] - v[1]; d != 0 {
			v[3] = 1 / d
		} else {
			v[3] = 0
		}
		return v
	case id >= productBase && id < texGenBase:
		return m.product(id)
	case id >= lightBase && id < lightModelBase:
		i := int(id-lightBase) / int(lightPropertyCount)
		if LightProperty(int(id-lightBase)%int(lightPropertyCount)) == LightHalf {
			return m.half(i)
		}
	}
	return m.vectors[id]
}

// SetVector implements Mirror.
func (m *Memory) SetVector(id VectorID, v f32.Vec4) {
	if !id.Valid() || derivedVector(id) {
		return
	}
	m.vectors[id] = v
	m.Writes++
}

func derivedVector(id VectorID) bool {
	if id == SceneColorFront || id == SceneColorBack {
		return true
	}
	if id >= productBase && id < texGenBase {
		return true
	}
	if id >= lightBase && id < lightModelBase {
		return LightProperty(int(id-lightBase)%int(lightPropertyCount)) == LightHalf
	}
	return false
}

// Matrix implements Mirror.
func (m *Memory) Matrix(id MatrixID, kind MatrixKind, unit int) f32.Mat4 {
	var mat f32.Mat4
	switch id {
	case Modelview:
		if unit < 0 || unit >= MaxModelview {
			return Identity
		}
		mat = m.modelview[unit]
	case Projection:
		mat = m.projection
	case MVP:
		mat = Mul(m.projection, m.modelview[0])
	case TextureMatrix:
		if unit < 0 || unit >= MaxTextureUnits {
			return Identity
		}
		mat = m.texture[unit]
	default:
		return Identity
	}
	switch kind {
	case Inverse:
		mat = Invert(mat)
	case Transpose:
		mat = Transposed(mat)
	case InverseTranspose:
		mat = Transposed(Invert(mat))
	}
	return mat
}

// SetMatrix implements Mirror.
func (m *Memory) SetMatrix(id MatrixID, unit int, mat f32.Mat4) {
	switch id {
	case Modelview:
		if unit < 0 || unit >= MaxModelview {
			return
		}
		m.modelview[unit] = mat
	case Projection:
		m.projection = mat
	case TextureMatrix:
		if unit < 0 || unit >= MaxTextureUnits {
			return
		}
		m.texture[unit] = mat
	default:
		return
	}
	m.Writes++
}

func (m *Memory) sceneColor(face int) f32.Vec4 {
	e := m.vectors[Material(face, MaterialEmission)]
	a := m.vectors[Material(face, MaterialAmbient)]
	g := m.vectors[LightModelAmbient]
	d := m.vectors[Material(face, MaterialDiffuse)]
	return f32.Vec4{e[0] + a[0]*g[0], e[1] + a[1]*g[1], e[2] + a[2]*g[2], d[3]}
}

func (m *Memory) product(id VectorID) f32.Vec4 {
	off := int(id - productBase)
	p := ProductProperty(off % int(productPropertyCount))
	face := (off / int(productPropertyCount)) % 2
	i := off / (2 * int(productPropertyCount))

	var l, mat f32.Vec4
	switch p {
	case ProductAmbient:
		l, mat = m.vectors[Light(i, LightAmbient)], m.vectors[Material(face, MaterialAmbient)]
	case ProductDiffuse:
		l, mat = m.vectors[Light(i, LightDiffuse)], m.vectors[Material(face, MaterialDiffuse)]
	default:
		l, mat = m.vectors[Light(i, LightSpecular)], m.vectors[Material(face, MaterialSpecular)]
	}
	return f32.Vec4{l[0] * mat[0], l[1] * mat[1], l[2] * mat[2], mat[3]}
}

// half is the infinite-viewer half vector of a directional light.
func (m *Memory) half(i int) f32.Vec4 {
	p := m.vectors[Light(i, LightPosition)]
	l := normalize3(f32.Vec4{p[0], p[1], p[2], 0})
	h := normalize3(f32.Vec4{l[0], l[1], l[2] + 1, 0})
	return f32.Vec4{h[0], h[1], h[2], 1}
}

func normalize3(v f32.Vec4) f32.Vec4 {
	n := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n == 0 {
		return v
	}
	return f32.Vec4{v[0] / n, v[1] / n, v[2] / n, v[3]}
}
