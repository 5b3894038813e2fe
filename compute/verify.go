package compute

import (
	"bytes"
	"fmt"
)

// WorkgroupCount is the number of workgroups of size needed to cover n
// elements, each element landing in exactly one invocation
func WorkgroupCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// MultiplyReference computes on the host what the multiply kernel computes
// on the device, wrapping on overflow as the shader does
func MultiplyReference(values []uint32, factor uint32) []uint32 {
	out := make([]uint32, len(values))
	for i, v := range values {
		out[i] = v * factor
	}
	return out
}

// VerifyCopy returns an error naming the first byte where dst differs from src
func VerifyCopy(src, dst []byte) error {
	if len(src) != len(dst) {
		return fmt.Errorf("%w: source %d bytes, destination %d", ErrSizeMismatch, len(src), len(dst))
	}
	if bytes.Equal(src, dst) {
		return nil
	}
	for i := range src {
		if src[i] != dst[i] {
			return fmt.Errorf("byte %d: want %#02x, got %#02x", i, src[i], dst[i])
		}
	}
	return nil
}

// VerifyMultiplied returns an error naming the first index where out is not
// factor times in
func VerifyMultiplied(in, out []uint32, factor uint32) error {
	if len(in) != len(out) {
		return fmt.Errorf("%w: input %d elements, output %d", ErrSizeMismatch, len(in), len(out))
	}
	for i, want := range MultiplyReference(in, factor) {
		if out[i] != want {
			return fmt.Errorf("element %d: want %d, got %d", i, want, out[i])
		}
	}
	return nil
}
