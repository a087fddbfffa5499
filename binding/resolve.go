package binding

import (
	"errors"
	"fmt"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/ffp/device"
	"github.com/gogpu/ffp/regbank"
	"github.com/gogpu/ffp/state"
)

// ErrMissingBindingFunction is returned when a descriptor has no function.
var ErrMissingBindingFunction = errors.New("binding: missing binding function")

// Source provides the values descriptors gather. *state.PipelineState
// implements it.
type Source interface {
	Gather(id state.SlotID) ([]f32.Vec4, error)
	Mirror() device.Mirror
}

// Sink receives resolved constants.
type Sink interface {
	SetConstant(index int, v f32.Vec4)
}

// Merge builds the final binding list of a compiled program from its
// parameter bank and the caller's Local and Environment descriptors.
// Bank slots are visited in position order:
//
//   - Constant slots copy their literal.
//   - LocalParam and EnvParam slots take the first caller descriptor with
//     the same target and index, retargeted to the bank position. A
//     parameter nobody binds resolves to zero.
//   - DeviceState slots copy the device vector or matrix row.
//
// Merge does not modify bank or caller.
func Merge(bank *regbank.Bank, caller []Descriptor) []Descriptor {
	var out []Descriptor
	for pos := 0; pos < bank.Len(); pos++ {
		s := bank.Slot(pos)
		if !s.Used {
			continue
		}
		switch s.Role {
		case regbank.Constant:
			out = append(out, Descriptor{Target: Final, Index: pos, Func: CopyDirect, Direct: s.Value})
		case regbank.LocalParam, regbank.EnvParam:
			want := Local
			if s.Role == regbank.EnvParam {
				want = Environment
			}
			d, ok := find(caller, want, s.Index0)
			if !ok {
				out = append(out, Descriptor{Target: Final, Index: pos, Func: ZeroFill})
				continue
			}
			d.Target = Final
			d.Index = pos
			out = append(out, d)
		case regbank.DeviceState:
			ref := &DeviceRef{Key: uint32(s.Index0), Row: s.Index1}
			out = append(out, Descriptor{Target: Final, Index: pos, Device: ref, Func: CopyState})
		}
	}
	return out
}

func find(ds []Descriptor, target Target, index int) (Descriptor, bool) {
	for _, d := range ds {
		if d.Target == target && d.Index == index {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Evaluate computes the value of one descriptor.
func Evaluate(d *Descriptor, src Source) (f32.Vec4, error) {
	if d.Func == nil {
		return f32.Vec4{}, fmt.Errorf("%w: %s", ErrMissingBindingFunction, d)
	}
	var gathered []f32.Vec4
	if d.Device != nil {
		gathered = append(gathered, d.Device.Read(src.Mirror()))
	}
	for _, id := range d.Slots {
		v, err := src.Gather(id)
		if err != nil {
			return f32.Vec4{}, fmt.Errorf("binding: %s: %w", d, err)
		}
		gathered = append(gathered, v...)
	}
	return d.Func.Eval(gathered, d.Direct), nil
}

// Resolve evaluates every descriptor and writes the result to the sink at
// the descriptor's index. It stops at the first error; constants written
// before it stay written. Resolve never modifies the source.
func Resolve(bindings []Descriptor, src Source, sink Sink) error {
	for i := range bindings {
		v, err := Evaluate(&bindings[i], src)
		if err != nil {
			return err
		}
		sink.SetConstant(bindings[i].Index, v)
	}
	return nil
}
