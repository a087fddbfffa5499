package state

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"golang.org/x/image/math/f32"
)

// ErrSnapshotReleased is returned when a released snapshot is restored.
var ErrSnapshotReleased = errors.New("state: snapshot released")

// Snapshot is a saved copy of some or all slots. It is owned by the caller
// until Release.
type Snapshot struct {
	ids      []SlotID
	v        values
	released bool
}

// Slots returns the ids captured by the snapshot.
func (s *Snapshot) Slots() []SlotID { return s.ids }

// Release drops the saved values. A released snapshot cannot be restored.
func (s *Snapshot) Release() {
	s.ids = nil
	s.v = values{}
	s.released = true
}

// SaveState captures the listed slots. Unknown ids are an error.
func (ps *PipelineState) SaveState(ids ...SlotID) (*Snapshot, error) {
	for _, id := range ids {
		if !id.Valid() {
			return nil, &SlotKindError{Slot: id}
		}
	}
	snap := &Snapshot{ids: append([]SlotID(nil), ids...)}
	if err := copier.CopyWithOption(&snap.v, &ps.v, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("state: save: %w", err)
	}
	return snap, nil
}

// SaveAll captures every slot.
func (ps *PipelineState) SaveAll() (*Snapshot, error) {
	ids := make([]SlotID, NumSlots)
	for i := range ids {
		ids[i] = SlotID(i)
	}
	return ps.SaveState(ids...)
}

// RestoreState writes the captured values back and marks them changed, so
// the next Sync pushes them to the device.
func (ps *PipelineState) RestoreState(s *Snapshot) error {
	if s == nil || s.released {
		return ErrSnapshotReleased
	}
	for _, id := range s.ids {
		info := &slotTable[id]
		switch info.shape {
		case Scalar:
			ps.v.Scalars[info.offset] = Item[float32]{Value: s.v.Scalars[info.offset].Value, Changed: true}
		case Vec3:
			ps.v.Vec3s[info.offset] = Item[f32.Vec3]{Value: s.v.Vec3s[info.offset].Value, Changed: true}
		case Vec4:
			ps.v.Vec4s[info.offset] = Item[f32.Vec4]{Value: s.v.Vec4s[info.offset].Value, Changed: true}
		case Matrix:
			ps.v.Matrices[info.offset] = Item[f32.Mat4]{Value: s.v.Matrices[info.offset].Value, Changed: true}
		}
	}
	return nil
}
