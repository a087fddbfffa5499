package regbank

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/image/math/f32"
)

// ErrBankExhausted is returned when no free slot is left.
var ErrBankExhausted = errors.New("regbank: bank exhausted")

// DefaultSize is the parameter bank size used by the compiler.
const DefaultSize = 250

// Role tells the resolver how to fill a bank slot.
type Role uint8

const (
	// Unknown slots are reserved but carry no binding.
	Unknown Role = iota
	// Constant slots hold a literal written by the program.
	Constant
	// DeviceState slots read a device vector or a matrix row.
	DeviceState
	// LocalParam slots read program local parameter Index0.
	LocalParam
	// EnvParam slots read program environment parameter Index0.
	EnvParam
)

func (r Role) String() string {
	switch r {
	case Unknown:
		return "unknown"
	case Constant:
		return "constant"
	case DeviceState:
		return "state"
	case LocalParam:
		return "local"
	case EnvParam:
		return "env"
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Slot is one bank register.
type Slot struct {
	Role   Role
	Index0 int // device vector key, matrix key or parameter index
	Index1 int // matrix row for DeviceState matrix reads
	Used   bool
	Value  f32.Vec4
}

// Bank is a fixed-capacity table of typed parameter registers. It is built
// by the compiler for one program and consumed by the binding merge.
//
// Bank is not safe for concurrent use.
type Bank struct {
	slots []Slot
	used  int
}

// New returns an empty bank with size slots.
func New(size int) *Bank {
	return &Bank{slots: make([]Slot, size)}
}

// Allocate returns the position of a slot holding the given content. An
// existing slot is reused when its role and indices match (or, for
// constant and unknown slots, its role and value); otherwise the first free
// slot is taken.
func (b *Bank) Allocate(value f32.Vec4, role Role, index0, index1 int) (int, error) {
	for i := range b.slots {
		s := &b.slots[i]
		if !s.Used || s.Role != role {
			continue
		}
		switch role {
		case Constant, Unknown:
			if s.Value == value {
				return i, nil
			}
		case DeviceState, LocalParam, EnvParam:
			if s.Index0 == index0 && s.Index1 == index1 {
				return i, nil
			}
		}
	}
	for i := range b.slots {
		if !b.slots[i].Used {
			b.slots[i] = Slot{Role: role, Index0: index0, Index1: index1, Used: true, Value: value}
			b.used++
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %d slots in use", ErrBankExhausted, len(b.slots))
}

// Release frees the slot at pos.
func (b *Bank) Release(pos int) {
	if pos < 0 || pos >= len(b.slots) || !b.slots[pos].Used {
		return
	}
	b.slots[pos] = Slot{}
	b.used--
}

// RoleOf returns the role and indices of the slot at pos.
func (b *Bank) RoleOf(pos int) (Role, int, int) {
	if pos < 0 || pos >= len(b.slots) {
		return Unknown, 0, 0
	}
	s := &b.slots[pos]
	return s.Role, s.Index0, s.Index1
}

// Slot returns a copy of the slot at pos.
func (b *Bank) Slot(pos int) Slot {
	if pos < 0 || pos >= len(b.slots) {
		return Slot{}
	}
	return b.slots[pos]
}

// Len returns the capacity of the bank.
func (b *Bank) Len() int { return len(b.slots) }

// Used returns the number of occupied slots.
func (b *Bank) Used() int { return b.used }

// Clone returns an independent copy of the bank.
func (b *Bank) Clone() *Bank {
	c := &Bank{slots: make([]Slot, len(b.slots)), used: b.used}
	copy(c.slots, b.slots)
	return c
}

// String lists the used slots, one per line.
func (b *Bank) String() string {
	var sb strings.Builder
	for i, s := range b.slots {
		if !s.Used {
			continue
		}
		fmt.Fprintf(&sb, "%3d %-8s %d %d {%g,%g,%g,%g}\n", i, s.Role, s.Index0, s.Index1,
			s.Value[0], s.Value[1], s.Value[2], s.Value[3])
	}
	return sb.String()
}
