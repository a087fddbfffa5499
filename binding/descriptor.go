package binding

import (
	"fmt"
	"strings"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/ffp/device"
	"github.com/gogpu/ffp/state"
)

// Target is the register file a descriptor writes.
type Target uint8

const (
	// Local is a program local parameter (program.local[i]).
	Local Target = iota
	// Environment is a program environment parameter (program.env[i]).
	Environment
	// Final is a position in the compiled program's constant bank.
	Final
)

func (t Target) String() string {
	switch t {
	case Local:
		return "LOCAL"
	case Environment:
		return "ENVIRONMENT"
	case Final:
		return "FINAL"
	}
	return fmt.Sprintf("TARGET%d", uint8(t))
}

// DeviceRef names a device vector, or one row of a device matrix, read
// directly from the mirror.
type DeviceRef struct {
	Key uint32
	Row int
}

const matrixKeyBit = 1 << 31

// VectorKey encodes a device vector as a DeviceRef key.
func VectorKey(id device.VectorID) uint32 { return uint32(id) }

// MatrixKey encodes a device matrix as a DeviceRef key.
func MatrixKey(id device.MatrixID, kind device.MatrixKind, unit int) uint32 {
	return matrixKeyBit | uint32(id)<<16 | uint32(kind)<<8 | uint32(unit&0xff)
}

// IsMatrix reports whether the reference reads a matrix row.
func (r DeviceRef) IsMatrix() bool { return r.Key&matrixKeyBit != 0 }

// Read returns the referenced vector.
func (r DeviceRef) Read(m device.Mirror) f32.Vec4 {
	if !r.IsMatrix() {
		return m.Vector(device.VectorID(r.Key))
	}
	id := device.MatrixID(r.Key >> 16 & 0x7fff)
	kind := device.MatrixKind(r.Key >> 8 & 0xff)
	unit := int(r.Key & 0xff)
	if r.Row < 0 || r.Row > 3 {
		return f32.Vec4{}
	}
	return device.Row(m.Matrix(id, kind, unit), r.Row)
}

func (r DeviceRef) String() string {
	if !r.IsMatrix() {
		return device.VectorID(r.Key).String()
	}
	id := device.MatrixID(r.Key >> 16 & 0x7fff)
	kind := device.MatrixKind(r.Key >> 8 & 0xff)
	return fmt.Sprintf("%s[%d]%s.row[%d]", id, r.Key&0xff, kind, r.Row)
}

// Descriptor describes how one constant register is computed: gather the
// listed state slots (or the device reference), then apply Func with
// Direct as the second argument. Descriptors are values and are not
// modified once built.
type Descriptor struct {
	Target Target
	Index  int
	Slots  []state.SlotID
	Device *DeviceRef
	Func   *Function
	Direct f32.Vec4
}

// String prints the descriptor in the form
//
//	FINAL(3) fn=copy-state slots=[fog.start fog.end] direct={0,0,0,0}
func (d Descriptor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%d) fn=%s", d.Target, d.Index, d.Func.Name())
	if d.Device != nil {
		fmt.Fprintf(&sb, " device=%s", d.Device)
	}
	names := make([]string, len(d.Slots))
	for i, s := range d.Slots {
		names[i] = s.String()
	}
	fmt.Fprintf(&sb, " slots=[%s] direct={%g,%g,%g,%g}", strings.Join(names, " "),
		d.Direct[0], d.Direct[1], d.Direct[2], d.Direct[3])
	return sb.String()
}
