package vkg

import (
	"unsafe"
)

// Uint32Slice is a ByteSourcer over 32 bit unsigned values in host byte order
type Uint32Slice []uint32

func (s Uint32Slice) Bytes() []byte {
	if len(s) == 0 {
		return nil
	}
	size := len(s) * int(unsafe.Sizeof(uint32(0)))
	return ToBytes(unsafe.Pointer(&s[0]), size)
}

// Uint32Range returns the values [0, n)
func Uint32Range(n int) Uint32Slice {
	return Uint32Generate(n, func(i int) uint32 { return uint32(i) })
}

// Uint32Generate returns n values produced by gen
func Uint32Generate(n int, gen func(i int) uint32) Uint32Slice {
	ret := make(Uint32Slice, n)
	for i := range ret {
		ret[i] = gen(i)
	}
	return ret
}

// BytesToUint32s reinterprets b as 32 bit values, copying them out. Trailing
// bytes that don't fill a value are ignored.
func BytesToUint32s(b []byte) []uint32 {
	n := len(b) / 4
	ret := make([]uint32, n)
	if n == 0 {
		return ret
	}
	copy(ret, unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), n))
	return ret
}

// Matrix4x4 is a column major 4x4 float matrix with std430 layout
type Matrix4x4 struct {
	X [4]float32
	Y [4]float32
	Z [4]float32
	W [4]float32
}

// Identity returns the identity matrix
func Identity() Matrix4x4 {
	return Matrix4x4{
		X: [4]float32{1, 0, 0, 0},
		Y: [4]float32{0, 1, 0, 0},
		Z: [4]float32{0, 0, 1, 0},
		W: [4]float32{0, 0, 0, 1},
	}
}

func (m *Matrix4x4) Bytes() []byte {
	return ToBytes(unsafe.Pointer(m), int(unsafe.Sizeof(*m)))
}

// Matrix4x4Slice is a ByteSourcer over a packed array of matrices
type Matrix4x4Slice []Matrix4x4

func (s Matrix4x4Slice) Bytes() []byte {
	if len(s) == 0 {
		return nil
	}
	return ToBytes(unsafe.Pointer(&s[0]), len(s)*int(unsafe.Sizeof(s[0])))
}
