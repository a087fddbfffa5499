package regbank

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/image/math/f32"
)

func TestAllocateReuse(t *testing.T) {
	b := New(8)
	one := f32.Vec4{1, 1, 1, 1}

	p0, err := b.Allocate(one, Constant, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	p1, _ := b.Allocate(one, Constant, 0, 0)
	if p0 != p1 {
		t.Errorf("equal constants got slots %d and %d", p0, p1)
	}
	p2, _ := b.Allocate(f32.Vec4{}, LocalParam, 3, 0)
	p3, _ := b.Allocate(f32.Vec4{}, LocalParam, 3, 0)
	if p2 != p3 || p2 == p0 {
		t.Errorf("local 3 slots = %d, %d", p2, p3)
	}
	p4, _ := b.Allocate(f32.Vec4{}, EnvParam, 3, 0)
	if p4 == p2 {
		t.Error("env 3 shares the slot of local 3")
	}
	p5, _ := b.Allocate(f32.Vec4{}, DeviceState, 100, 2)
	p6, _ := b.Allocate(f32.Vec4{}, DeviceState, 100, 3)
	if p5 == p6 {
		t.Error("different matrix rows share a slot")
	}
	p7, _ := b.Allocate(one, Unknown, 0, 0)
	p8, _ := b.Allocate(one, Unknown, 0, 0)
	if p7 != p8 || p7 == p0 {
		t.Errorf("equal unknown slots = %d, %d", p7, p8)
	}
	if got := b.Used(); got != 6 {
		t.Errorf("Used() = %d, want 6", got)
	}
}

func TestAllocateUnknownByValue(t *testing.T) {
	tests := []struct {
		a, b      f32.Vec4
		ia, ib    int
		wantShare bool
	}{
		{f32.Vec4{1, 2, 3, 4}, f32.Vec4{1, 2, 3, 4}, 0, 0, true},
		{f32.Vec4{1, 2, 3, 4}, f32.Vec4{1, 2, 3, 4}, 0, 5, true},
		{f32.Vec4{1, 2, 3, 4}, f32.Vec4{4, 3, 2, 1}, 0, 0, false},
	}
	for _, tt := range tests {
		b := New(2)
		pa, err := b.Allocate(tt.a, Unknown, tt.ia, 0)
		if err != nil {
			t.Fatal(err)
		}
		pb, err := b.Allocate(tt.b, Unknown, tt.ib, 0)
		if err != nil {
			t.Fatal(err)
		}
		if got := pa == pb; got != tt.wantShare {
			t.Errorf("Allocate(%v), Allocate(%v) share = %v, want %v", tt.a, tt.b, got, tt.wantShare)
		}
	}
}

func TestBankExhausted(t *testing.T) {
	b := New(2)
	for i := 0; i < 2; i++ {
		if _, err := b.Allocate(f32.Vec4{float32(i)}, Constant, 0, 0); err != nil {
			t.Fatalf("Allocate(%d) = %v", i, err)
		}
	}
	pos, err := b.Allocate(f32.Vec4{5}, Constant, 0, 0)
	if !errors.Is(err, ErrBankExhausted) {
		t.Fatalf("Allocate() = %v, want ErrBankExhausted", err)
	}
	if pos != -1 {
		t.Errorf("pos = %d, want -1", pos)
	}

	b.Release(0)
	if pos, err := b.Allocate(f32.Vec4{5}, Constant, 0, 0); err != nil || pos != 0 {
		t.Errorf("Allocate() after Release = %d, %v, want 0, nil", pos, err)
	}
}

func TestRoleOf(t *testing.T) {
	b := New(4)
	pos, _ := b.Allocate(f32.Vec4{}, EnvParam, 7, 0)
	role, i0, _ := b.RoleOf(pos)
	if role != EnvParam || i0 != 7 {
		t.Errorf("RoleOf() = %v %d, want env 7", role, i0)
	}
	if role, _, _ := b.RoleOf(99); role != Unknown {
		t.Errorf("RoleOf(99) = %v, want unknown", role)
	}
}

func TestCloneIndependent(t *testing.T) {
	b := New(4)
	b.Allocate(f32.Vec4{1}, Constant, 0, 0)
	c := b.Clone()
	c.Release(0)
	if b.Used() != 1 || !b.Slot(0).Used {
		t.Error("Release on the clone changed the original")
	}
}

func TestString(t *testing.T) {
	b := New(4)
	b.Allocate(f32.Vec4{0.5, 0, 0, 1}, Constant, 0, 0)
	if got := b.String(); !strings.Contains(got, "constant") || !strings.Contains(got, "{0.5,0,0,1}") {
		t.Errorf("String() = %q", got)
	}
}
