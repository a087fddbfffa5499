package binding

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/ffp/device"
)

// Function computes a constant register from the gathered state values and
// the descriptor's direct source. Functions are stateless; one value is
// shared by every descriptor that names it.
type Function struct {
	name string
	eval func(gathered []f32.Vec4, direct f32.Vec4) f32.Vec4
}

// NewFunction returns a named binding function. eval must be pure.
func NewFunction(name string, eval func(gathered []f32.Vec4, direct f32.Vec4) f32.Vec4) *Function {
	return &Function{name: name, eval: eval}
}

// Name returns the function's name.
func (f *Function) Name() string {
	if f == nil {
		return "<nil>"
	}
	return f.name
}

// Eval applies the function.
func (f *Function) Eval(gathered []f32.Vec4, direct f32.Vec4) f32.Vec4 {
	return f.eval(gathered, direct)
}

// Built-in functions.
var (
	// CopyState returns the first gathered vector.
	CopyState = NewFunction("copy-state", func(g []f32.Vec4, _ f32.Vec4) f32.Vec4 {
		if len(g) == 0 {
			return f32.Vec4{}
		}
		return g[0]
	})

	// CopyDirect returns the direct source.
	CopyDirect = NewFunction("copy-direct", func(_ []f32.Vec4, d f32.Vec4) f32.Vec4 {
		return d
	})

	// ZeroFill returns the zero vector. It backs parameters the program
	// reads but no caller binds.
	ZeroFill = NewFunction("zero", func([]f32.Vec4, f32.Vec4) f32.Vec4 {
		return f32.Vec4{}
	})

	// LinearFogParams gathers fog start and end and returns the scale and
	// bias of the linear fog factor: (-1/(end-start), end/(end-start), 0, 0).
	LinearFogParams = NewFunction("linear-fog", func(g []f32.Vec4, _ f32.Vec4) f32.Vec4 {
		if len(g) < 2 {
			return f32.Vec4{}
		}
		start, end := g[0][0], g[1][0]
		d := end - start
		if d == 0 {
			return f32.Vec4{}
		}
		return f32.Vec4{-1 / d, end / d, 0, 0}
	})

	// ExpFogParams gathers the fog density and returns density/ln2, the
	// scale that turns exp into a base-2 exponent.
	ExpFogParams = NewFunction("exp-fog", func(g []f32.Vec4, _ f32.Vec4) f32.Vec4 {
		if len(g) == 0 {
			return f32.Vec4{}
		}
		return f32.Vec4{g[0][0] / math32.Ln2, 0, 0, 0}
	})

	// Exp2FogParams gathers the fog density and returns density/sqrt(ln2).
	Exp2FogParams = NewFunction("exp2-fog", func(g []f32.Vec4, _ f32.Vec4) f32.Vec4 {
		if len(g) == 0 {
			return f32.Vec4{}
		}
		return f32.Vec4{g[0][0] / math32.Sqrt(math32.Ln2), 0, 0, 0}
	})

	// AlphaRef replicates the alpha test reference into every component.
	AlphaRef = NewFunction("alpha-ref", func(g []f32.Vec4, _ f32.Vec4) f32.Vec4 {
		if len(g) == 0 {
			return f32.Vec4{}
		}
		r := g[0][0]
		return f32.Vec4{r, r, r, r}
	})

	// NormalizeDirection returns the normalized xyz of the gathered light
	// position with w = 0.
	NormalizeDirection = NewFunction("normalize-direction", func(g []f32.Vec4, _ f32.Vec4) f32.Vec4 {
		if len(g) == 0 {
			return f32.Vec4{}
		}
		v := g[0]
		n := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		if n == 0 {
			return f32.Vec4{}
		}
		return f32.Vec4{v[0] / n, v[1] / n, v[2] / n, 0}
	})

	// RescaleFactor gathers the four modelview rows and returns the normal
	// rescale factor 1/|row 2 of the inverse modelview| in every component.
	RescaleFactor = NewFunction("rescale-factor", func(g []f32.Vec4, _ f32.Vec4) f32.Vec4 {
		if len(g) < 4 {
			return f32.Vec4{1, 1, 1, 1}
		}
		var m f32.Mat4
		for r := 0; r < 4; r++ {
			copy(m[4*r:4*r+4], g[r][:])
		}
		row := device.Row(device.Invert(m), 2)
		n := math32.Sqrt(row[0]*row[0] + row[1]*row[1] + row[2]*row[2])
		if n == 0 {
			return f32.Vec4{1, 1, 1, 1}
		}
		f := 1 / n
		return f32.Vec4{f, f, f, f}
	})
)
