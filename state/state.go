package state

import (
	"errors"
	"fmt"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/ffp/device"
)

// ErrInvalidSlotKind is returned when a slot is read or written with a
// value of the wrong shape, or when the slot id is unknown.
var ErrInvalidSlotKind = errors.New("state: invalid slot kind")

// SlotKindError reports a shape mismatch on a slot.
type SlotKindError struct {
	Slot SlotID
	Want Shape // shape requested by the caller
	Have Shape // shape declared by the slot
}

func (e *SlotKindError) Error() string {
	if !e.Slot.Valid() {
		return fmt.Sprintf("state: unknown slot %d", uint16(e.Slot))
	}
	return fmt.Sprintf("state: slot %s holds a %s, not a %s", e.Slot, e.Have, e.Want)
}

func (e *SlotKindError) Unwrap() error { return ErrInvalidSlotKind }

// Item is a slot value with its changed flag. The flag is set by every
// write and cleared when the value reaches the device mirror.
type Item[T any] struct {
	Value   T
	Changed bool
}

// values holds every slot value grouped by shape. Fields are exported for
// the deep copy used by snapshots.
type values struct {
	Scalars  []Item[float32]
	Vec3s    []Item[f32.Vec3]
	Vec4s    []Item[f32.Vec4]
	Matrices []Item[f32.Mat4]
}

// PipelineState is the mutable, dirty-tracked numeric fixed-function
// state. Writes mark slots changed; Sync pushes changed slots into the
// device mirror. Binding resolution reads through Gather and never
// modifies the state.
//
// PipelineState is not safe for concurrent use. It is owned by a single
// session.
type PipelineState struct {
	mirror device.Mirror
	v      values
}

// New returns a pipeline state whose initial values are read back from
// mirror. Every slot starts clean: the mirror already holds its value.
func New(mirror device.Mirror) *PipelineState {
	ps := &PipelineState{
		mirror: mirror,
		v: values{
			Scalars:  make([]Item[float32], shapeCounts[Scalar]),
			Vec3s:    make([]Item[f32.Vec3], shapeCounts[Vec3]),
			Vec4s:    make([]Item[f32.Vec4], shapeCounts[Vec4]),
			Matrices: make([]Item[f32.Mat4], shapeCounts[Matrix]),
		},
	}
	for id := SlotID(0); id < NumSlots; id++ {
		ps.load(id)
	}
	ps.v.Scalars[slotTable[DepthFar].offset].Value = 1
	return ps
}

// Mirror returns the device mirror the state syncs into.
func (ps *PipelineState) Mirror() device.Mirror { return ps.mirror }

// load reads the mirrored value of id into the local copy.
func (ps *PipelineState) load(id SlotID) {
	info := &slotTable[id]
	m := info.mapTo
	if !m.mirrored {
		return
	}
	switch info.shape {
	case Matrix:
		ps.v.Matrices[info.offset].Value = ps.mirror.Matrix(m.matrix, device.Plain, m.unit)
	case Vec4:
		ps.v.Vec4s[info.offset].Value = ps.mirror.Vector(m.vector)
	case Vec3:
		c := unpack(ps.mirror.Vector(m.vector), m.mask)
		ps.v.Vec3s[info.offset].Value = f32.Vec3{c[0], c[1], c[2]}
	case Scalar:
		ps.v.Scalars[info.offset].Value = unpack(ps.mirror.Vector(m.vector), m.mask)[0]
	}
}

func (ps *PipelineState) info(id SlotID, want Shape) (*slotInfo, error) {
	if !id.Valid() {
		return nil, &SlotKindError{Slot: id, Want: want}
	}
	info := &slotTable[id]
	if info.shape != want {
		return nil, &SlotKindError{Slot: id, Want: want, Have: info.shape}
	}
	return info, nil
}

// Scalar returns the value of a scalar slot.
func (ps *PipelineState) Scalar(id SlotID) (float32, error) {
	info, err := ps.info(id, Scalar)
	if err != nil {
		return 0, err
	}
	return ps.v.Scalars[info.offset].Value, nil
}

// SetScalar writes a scalar slot and marks it changed.
func (ps *PipelineState) SetScalar(id SlotID, v float32) error {
	info, err := ps.info(id, Scalar)
	if err != nil {
		return err
	}
	ps.v.Scalars[info.offset] = Item[float32]{Value: v, Changed: true}
	return nil
}

// Vec3 returns the value of a three-component slot.
func (ps *PipelineState) Vec3(id SlotID) (f32.Vec3, error) {
	info, err := ps.info(id, Vec3)
	if err != nil {
		return f32.Vec3{}, err
	}
	return ps.v.Vec3s[info.offset].Value, nil
}

// SetVec3 writes a three-component slot and marks it changed.
func (ps *PipelineState) SetVec3(id SlotID, v f32.Vec3) error {
	info, err := ps.info(id, Vec3)
	if err != nil {
		return err
	}
	ps.v.Vec3s[info.offset] = Item[f32.Vec3]{Value: v, Changed: true}
	return nil
}

// Vec4 returns the value of a four-component slot.
func (ps *PipelineState) Vec4(id SlotID) (f32.Vec4, error) {
	info, err := ps.info(id, Vec4)
	if err != nil {
		return f32.Vec4{}, err
	}
	return ps.v.Vec4s[info.offset].Value, nil
}

// SetVec4 writes a four-component slot and marks it changed.
func (ps *PipelineState) SetVec4(id SlotID, v f32.Vec4) error {
	info, err := ps.info(id, Vec4)
	if err != nil {
		return err
	}
	ps.v.Vec4s[info.offset] = Item[f32.Vec4]{Value: v, Changed: true}
	return nil
}

// Matrix returns the value of a matrix slot.
func (ps *PipelineState) Matrix(id SlotID) (f32.Mat4, error) {
	info, err := ps.info(id, Matrix)
	if err != nil {
		return f32.Mat4{}, err
	}
	return ps.v.Matrices[info.offset].Value, nil
}

// SetMatrix writes a matrix slot and marks it changed.
func (ps *PipelineState) SetMatrix(id SlotID, m f32.Mat4) error {
	info, err := ps.info(id, Matrix)
	if err != nil {
		return err
	}
	ps.v.Matrices[info.offset] = Item[f32.Mat4]{Value: m, Changed: true}
	return nil
}

// Changed reports whether a slot has been written since the last sync.
func (ps *PipelineState) Changed(id SlotID) bool {
	if !id.Valid() {
		return false
	}
	info := &slotTable[id]
	switch info.shape {
	case Scalar:
		return ps.v.Scalars[info.offset].Changed
	case Vec3:
		return ps.v.Vec3s[info.offset].Changed
	case Vec4:
		return ps.v.Vec4s[info.offset].Changed
	}
	return ps.v.Matrices[info.offset].Changed
}

// Dirty returns the number of slots written since the last sync.
func (ps *PipelineState) Dirty() int {
	n := 0
	for id := SlotID(0); id < NumSlots; id++ {
		if ps.Changed(id) {
			n++
		}
	}
	return n
}

// Sync writes every changed slot into the device mirror and clears its
// flag. It returns the number of mirror writes. A second Sync with no
// intervening writes performs none.
func (ps *PipelineState) Sync() int {
	return ps.sync(false)
}

// ForceSync writes every mirrored slot regardless of its flag.
func (ps *PipelineState) ForceSync() int {
	return ps.sync(true)
}

func (ps *PipelineState) sync(force bool) int {
	writes := 0
	for id := SlotID(0); id < NumSlots; id++ {
		info := &slotTable[id]
		if !force && !ps.Changed(id) {
			continue
		}
		if info.mapTo.mirrored {
			ps.push(info)
			writes++
		}
		ps.clear(info)
	}
	return writes
}

func (ps *PipelineState) push(info *slotInfo) {
	m := info.mapTo
	switch info.shape {
	case Matrix:
		ps.mirror.SetMatrix(m.matrix, m.unit, ps.v.Matrices[info.offset].Value)
	case Vec4:
		ps.mirror.SetVector(m.vector, ps.v.Vec4s[info.offset].Value)
	case Vec3:
		v := ps.v.Vec3s[info.offset].Value
		ps.writeMasked(m, []float32{v[0], v[1], v[2]})
	case Scalar:
		ps.writeMasked(m, []float32{ps.v.Scalars[info.offset].Value})
	}
}

// writeMasked stores comps into the masked components of a device vector,
// in x, y, z, w order, leaving the other components untouched.
func (ps *PipelineState) writeMasked(m mapping, comps []float32) {
	cur := ps.mirror.Vector(m.vector)
	k := 0
	for c := 0; c < 4 && k < len(comps); c++ {
		if m.mask&(MaskX>>c) != 0 {
			cur[c] = comps[k]
			k++
		}
	}
	ps.mirror.SetVector(m.vector, cur)
}

func (ps *PipelineState) clear(info *slotInfo) {
	switch info.shape {
	case Scalar:
		ps.v.Scalars[info.offset].Changed = false
	case Vec3:
		ps.v.Vec3s[info.offset].Changed = false
	case Vec4:
		ps.v.Vec4s[info.offset].Changed = false
	case Matrix:
		ps.v.Matrices[info.offset].Changed = false
	}
}

// Gather returns the value of a slot as binding functions see it.
// Mirrored slots are read back from the device through their component
// mask: selected components come first, the rest are zero and w is 1
// when fewer than four are selected. Matrices gather as four rows.
// Unmirrored scalars gather as (s, 0, 0, 1).
func (ps *PipelineState) Gather(id SlotID) ([]f32.Vec4, error) {
	if !id.Valid() {
		return nil, &SlotKindError{Slot: id}
	}
	info := &slotTable[id]
	m := info.mapTo
	if !m.mirrored {
		s := ps.v.Scalars[info.offset].Value
		return []f32.Vec4{{s, 0, 0, 1}}, nil
	}
	if info.shape == Matrix {
		mat := ps.mirror.Matrix(m.matrix, device.Plain, m.unit)
		return []f32.Vec4{device.Row(mat, 0), device.Row(mat, 1), device.Row(mat, 2), device.Row(mat, 3)}, nil
	}
	return []f32.Vec4{unpack(ps.mirror.Vector(m.vector), m.mask)}, nil
}

// unpack packs the masked components of v to the front.
func unpack(v f32.Vec4, mask uint8) f32.Vec4 {
	var out f32.Vec4
	k := 0
	for c := 0; c < 4; c++ {
		if mask&(MaskX>>c) != 0 {
			out[k] = v[c]
			k++
		}
	}
	if k < 4 {
		out[3] = 1
	}
	return out
}
