package vkg

import (
	"encoding/binary"
	"testing"
	"unsafe"
)

func TestUint32SliceBytes(t *testing.T) {
	s := Uint32Range(4)
	b := s.Bytes()
	if len(b) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(b))
	}
	back := BytesToUint32s(b)
	for i, v := range back {
		if v != uint32(i) {
			t.Errorf("element %d: want %d, got %d", i, i, v)
		}
	}
	if Uint32Slice(nil).Bytes() != nil {
		t.Error("empty slice should have no bytes")
	}
}

func TestBytesToUint32sCopies(t *testing.T) {
	b := make([]byte, 9)
	binary.NativeEndian.PutUint32(b, 7)
	out := BytesToUint32s(b)
	if len(out) != 2 {
		t.Fatalf("expected trailing byte to be dropped, got %d values", len(out))
	}
	b[0] = 0
	if out[0] != 7 {
		t.Error("result aliases its input")
	}
	if len(BytesToUint32s(nil)) != 0 {
		t.Error("expected no values")
	}
}

func TestUint32Generate(t *testing.T) {
	s := Uint32Generate(5, func(i int) uint32 { return uint32(i * i) })
	want := []uint32{0, 1, 4, 9, 16}
	for i := range want {
		if s[i] != want[i] {
			t.Errorf("element %d: want %d, got %d", i, want[i], s[i])
		}
	}
}

func TestMatrixLayout(t *testing.T) {
	if unsafe.Sizeof(Matrix4x4{}) != 64 {
		t.Fatalf("matrix is %d bytes", unsafe.Sizeof(Matrix4x4{}))
	}
	m := Identity()
	b := m.Bytes()
	if len(b) != 64 {
		t.Fatalf("expected 64 bytes, got %d", len(b))
	}
	ms := Matrix4x4Slice{m, m}
	if len(ms.Bytes()) != 128 {
		t.Fatalf("expected 128 bytes, got %d", len(ms.Bytes()))
	}
	if Matrix4x4Slice(nil).Bytes() != nil {
		t.Error("empty slice should have no bytes")
	}
	if m.X[0] != 1 || m.Y[1] != 1 || m.Z[2] != 1 || m.W[3] != 1 || m.X[1] != 0 {
		t.Errorf("not an identity matrix: %v", m)
	}
}
