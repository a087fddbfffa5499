package device

import (
	"testing"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

func near(a, b f32.Vec4) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > 1e-5 {
			return false
		}
	}
	return true
}

func nearMat(a, b f32.Mat4) bool {
	for r := 0; r < 4; r++ {
		if !near(Row(a, r), Row(b, r)) {
			return false
		}
	}
	return true
}

func TestVectorLayout(t *testing.T) {
	seen := make(map[VectorID]string)
	add := func(id VectorID, name string) {
		t.Helper()
		if !id.Valid() {
			t.Fatalf("%s = %d, out of range", name, id)
		}
		if prev, ok := seen[id]; ok {
			t.Fatalf("%s and %s share id %d", name, prev, id)
		}
		seen[id] = name
	}
	for f := Front; f <= Back; f++ {
		for p := MaterialAmbient; p < materialPropertyCount; p++ {
			add(Material(f, p), "material")
		}
	}
	for i := 0; i < MaxLights; i++ {
		for p := LightAmbient; p < lightPropertyCount; p++ {
			add(Light(i, p), "light")
		}
		for f := Front; f <= Back; f++ {
			for p := ProductAmbient; p < productPropertyCount; p++ {
				add(LightProduct(i, f, p), "lightprod")
			}
		}
	}
	add(LightModelAmbient, "ambient")
	add(SceneColorFront, "scene front")
	add(SceneColorBack, "scene back")
	for u := 0; u < MaxTextureUnits; u++ {
		for p := EyeS; p < texGenPlaneCount; p++ {
			add(TexGen(u, p), "texgen")
		}
		add(TexEnvColor(u), "texenv")
	}
	add(FogColor, "fog color")
	add(FogParams, "fog params")
	if len(seen) != int(NumVectors) {
		t.Errorf("layout covers %d ids, NumVectors = %d", len(seen), NumVectors)
	}
}

func TestMemoryDefaults(t *testing.T) {
	m := NewMemory()
	if got := m.Vector(Material(Front, MaterialDiffuse)); got != (f32.Vec4{0.8, 0.8, 0.8, 1}) {
		t.Errorf("front diffuse = %v", got)
	}
	if got := m.Vector(Light(0, LightDiffuse)); got != (f32.Vec4{1, 1, 1, 1}) {
		t.Errorf("light 0 diffuse = %v", got)
	}
	if got := m.Vector(Light(1, LightDiffuse)); got != (f32.Vec4{0, 0, 0, 1}) {
		t.Errorf("light 1 diffuse = %v", got)
	}
	if got := m.Vector(FogParams); got != (f32.Vec4{1, 0, 1, 1}) {
		t.Errorf("fog params = %v, want {1 0 1 1}", got)
	}
	if got := m.Vector(Light(2, LightSpotDirection)); !near(got, f32.Vec4{0, 0, -1, -1}) {
		t.Errorf("spot direction = %v, want cutoff cosine -1 in w", got)
	}
	if m.Matrix(MVP, Plain, 0) != Identity {
		t.Error("default MVP is not the identity")
	}
}

func TestMemoryDerived(t *testing.T) {
	m := NewMemory()
	m.SetVector(Material(Front, MaterialEmission), f32.Vec4{0.1, 0, 0, 1})
	m.SetVector(LightModelAmbient, f32.Vec4{0.5, 0.5, 0.5, 1})
	if got := m.Vector(SceneColorFront); !near(got, f32.Vec4{0.2, 0.1, 0.1, 1}) {
		t.Errorf("scene color = %v", got)
	}

	m.SetVector(Light(3, LightSpecular), f32.Vec4{1, 0.5, 0, 1})
	m.SetVector(Material(Back, MaterialSpecular), f32.Vec4{0.5, 0.5, 0.5, 1})
	if got := m.Vector(LightProduct(3, Back, ProductSpecular)); !near(got, f32.Vec4{0.5, 0.25, 0, 1}) {
		t.Errorf("light product = %v", got)
	}

	m.SetVector(FogParams, f32.Vec4{1, 10, 20, 0})
	if got := m.Vector(FogParams); !near(got, f32.Vec4{1, 10, 20, 0.1}) {
		t.Errorf("fog params = %v", got)
	}

	if got := m.Vector(Light(0, LightHalf)); !near(got, f32.Vec4{0, 0, 1, 1}) {
		t.Errorf("half vector = %v", got)
	}
}

func TestMemoryDerivedReadOnly(t *testing.T) {
	m := NewMemory()
	m.SetVector(SceneColorBack, f32.Vec4{9, 9, 9, 9})
	m.SetVector(Light(0, LightHalf), f32.Vec4{9, 9, 9, 9})
	m.SetMatrix(MVP, 0, f32.Mat4{})
	if m.Writes != 0 {
		t.Errorf("Writes = %d, want 0 for derived entries", m.Writes)
	}
}

func TestMatrixKinds(t *testing.T) {
	m := NewMemory()
	scale := Identity
	scale[0], scale[5], scale[10] = 2, 4, 8
	scale[3] = 1
	m.SetMatrix(Modelview, 0, scale)

	inv := m.Matrix(Modelview, Inverse, 0)
	if got := Mul(scale, inv); !nearMat(got, Identity) {
		t.Errorf("M * M^-1 = %v", got)
	}
	if got := m.Matrix(Modelview, Transpose, 0); got[12] != 1 {
		t.Errorf("transpose[12] = %v, want 1", got[12])
	}

	proj := Identity
	proj[14] = -1
	m.SetMatrix(Projection, 0, proj)
	if got := m.Matrix(MVP, Plain, 0); got != Mul(proj, scale) {
		t.Errorf("MVP = %v", got)
	}
}

func TestInvertSingular(t *testing.T) {
	if got := Invert(f32.Mat4{}); got != (f32.Mat4{}) {
		t.Errorf("Invert(0) = %v", got)
	}
}
