package binding

import (
	"errors"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/ffp/device"
	"github.com/gogpu/ffp/regbank"
	"github.com/gogpu/ffp/state"
)

type recordSink map[int]f32.Vec4

func (s recordSink) SetConstant(i int, v f32.Vec4) { s[i] = v }

func near(a, b f32.Vec4) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > 1e-5 {
			return false
		}
	}
	return true
}

func TestMergeZeroDefault(t *testing.T) {
	b := regbank.New(8)
	pos, _ := b.Allocate(f32.Vec4{}, regbank.LocalParam, 5, 0)

	got := Merge(b, nil)
	if len(got) != 1 {
		t.Fatalf("Merge() returned %d descriptors, want 1", len(got))
	}
	d := got[0]
	if d.Target != Final || d.Index != pos || d.Func != ZeroFill {
		t.Errorf("Merge() = %v, want FINAL(%d) zero", d, pos)
	}

	ps := state.New(device.NewMemory())
	sink := recordSink{}
	if err := Resolve(got, ps, sink); err != nil {
		t.Fatalf("Resolve() = %v", err)
	}
	if v, ok := sink[pos]; !ok || v != (f32.Vec4{}) {
		t.Errorf("constant %d = %v, %v, want zero", pos, v, ok)
	}
}

func TestMergeRoles(t *testing.T) {
	b := regbank.New(8)
	cpos, _ := b.Allocate(f32.Vec4{0.5, 0.5, 0.5, 0.5}, regbank.Constant, 0, 0)
	lpos, _ := b.Allocate(f32.Vec4{}, regbank.LocalParam, 41, 0)
	epos, _ := b.Allocate(f32.Vec4{}, regbank.EnvParam, 41, 0)
	key := MatrixKey(device.Modelview, device.Plain, 0)
	spos, _ := b.Allocate(f32.Vec4{}, regbank.DeviceState, int(key), 3)

	caller := []Descriptor{
		{Target: Environment, Index: 41, Func: CopyDirect, Direct: f32.Vec4{7}},
		{Target: Local, Index: 41, Func: CopyDirect, Direct: f32.Vec4{1}},
		{Target: Local, Index: 41, Func: CopyDirect, Direct: f32.Vec4{2}},
	}
	got := Merge(b, caller)
	if len(got) != 4 {
		t.Fatalf("Merge() returned %d descriptors, want 4", len(got))
	}

	ps := state.New(device.NewMemory())
	sink := recordSink{}
	if err := Resolve(got, ps, sink); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		pos  int
		want f32.Vec4
	}{
		{cpos, f32.Vec4{0.5, 0.5, 0.5, 0.5}},
		{lpos, f32.Vec4{1}},
		{epos, f32.Vec4{7}},
		{spos, f32.Vec4{0, 0, 0, 1}},
	}
	for _, tt := range tests {
		if sink[tt.pos] != tt.want {
			t.Errorf("constant %d = %v, want %v", tt.pos, sink[tt.pos], tt.want)
		}
	}
	if caller[1].Target != Local || caller[1].Index != 41 {
		t.Error("Merge modified the caller descriptors")
	}
}

func TestResolveMissingFunction(t *testing.T) {
	ps := state.New(device.NewMemory())
	ds := []Descriptor{{Target: Final, Index: 0, Slots: []state.SlotID{state.FogColor}}}
	err := Resolve(ds, ps, recordSink{})
	if !errors.Is(err, ErrMissingBindingFunction) {
		t.Errorf("Resolve() = %v, want ErrMissingBindingFunction", err)
	}
}

func TestResolveDoesNotMutateState(t *testing.T) {
	ps := state.New(device.NewMemory())
	ps.SetFog(1, 2, 4)
	before := ps.Dirty()
	ds := []Descriptor{{Target: Final, Index: 3, Slots: []state.SlotID{state.FogStart, state.FogEnd}, Func: LinearFogParams}}
	if err := Resolve(ds, ps, recordSink{}); err != nil {
		t.Fatal(err)
	}
	if ps.Dirty() != before {
		t.Errorf("Dirty() = %d after Resolve, want %d", ps.Dirty(), before)
	}
}

func TestFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   *Function
		in   []f32.Vec4
		want f32.Vec4
	}{
		{"copy state", CopyState, []f32.Vec4{{1, 2, 3, 4}}, f32.Vec4{1, 2, 3, 4}},
		{"linear fog", LinearFogParams, []f32.Vec4{{10, 0, 0, 1}, {30, 0, 0, 1}}, f32.Vec4{-0.05, 1.5, 0, 0}},
		{"linear fog empty range", LinearFogParams, []f32.Vec4{{5, 0, 0, 1}, {5, 0, 0, 1}}, f32.Vec4{}},
		{"exp fog", ExpFogParams, []f32.Vec4{{math32.Ln2, 0, 0, 1}}, f32.Vec4{1, 0, 0, 0}},
		{"exp2 fog", Exp2FogParams, []f32.Vec4{{math32.Sqrt(math32.Ln2), 0, 0, 1}}, f32.Vec4{1, 0, 0, 0}},
		{"alpha ref", AlphaRef, []f32.Vec4{{0.25, 0, 0, 1}}, f32.Vec4{0.25, 0.25, 0.25, 0.25}},
		{"normalize", NormalizeDirection, []f32.Vec4{{0, 3, 4, 0}}, f32.Vec4{0, 0.6, 0.8, 0}},
		{"rescale identity", RescaleFactor, []f32.Vec4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}, f32.Vec4{1, 1, 1, 1}},
		{"rescale uniform", RescaleFactor, []f32.Vec4{{2, 0, 0, 0}, {0, 2, 0, 0}, {0, 0, 2, 0}, {0, 0, 0, 1}}, f32.Vec4{2, 2, 2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn.Eval(tt.in, f32.Vec4{}); !near(got, tt.want) {
				t.Errorf("%s.Eval() = %v, want %v", tt.fn.Name(), got, tt.want)
			}
		})
	}
}

func TestDeviceRef(t *testing.T) {
	mem := device.NewMemory()
	proj := device.Identity
	proj[7] = 5
	mem.SetMatrix(device.Projection, 0, proj)

	r := DeviceRef{Key: MatrixKey(device.Projection, device.Transpose, 0), Row: 3}
	if !r.IsMatrix() {
		t.Fatal("IsMatrix() = false")
	}
	if got := r.Read(mem); got != (f32.Vec4{0, 5, 0, 1}) {
		t.Errorf("Read() = %v, want {0 5 0 1}", got)
	}
	v := DeviceRef{Key: VectorKey(device.LightModelAmbient)}
	if got := v.Read(mem); got != (f32.Vec4{0.2, 0.2, 0.2, 1}) {
		t.Errorf("Read() = %v", got)
	}
}

func TestDescriptorString(t *testing.T) {
	d := Descriptor{Target: Local, Index: 41, Slots: []state.SlotID{state.FogStart, state.FogEnd}, Func: LinearFogParams}
	got := d.String()
	for _, want := range []string{"LOCAL(41)", "fn=linear-fog", "fog.start fog.end", "direct={0,0,0,0}"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}
