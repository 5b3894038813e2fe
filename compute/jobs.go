package compute

import (
	"fmt"

	"github.com/celer/vkcompute/vkg"
)

// Copy moves src through a source buffer into a zeroed destination buffer on
// the GPU and returns the destination contents
func (s *Session) Copy(src vkg.ByteSourcer) ([]byte, error) {
	in, err := s.AllocateBufferFrom(UsageTransferSrc, src)
	if err != nil {
		return nil, fmt.Errorf("source buffer: %w", err)
	}
	defer in.Destroy()

	out, err := s.AllocateBuffer(UsageTransferDst, in.Size())
	if err != nil {
		return nil, fmt.Errorf("destination buffer: %w", err)
	}
	defer out.Destroy()

	if err := s.Run(CopyOp{Src: in, Dst: out}); err != nil {
		return nil, err
	}
	return out.Bytes()
}

// Multiply scales every value by factor on the GPU and returns the results
func (s *Session) Multiply(values []uint32, factor uint32) ([]uint32, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("nothing to multiply")
	}
	k, err := s.NewMultiplyKernel(factor)
	if err != nil {
		return nil, err
	}
	defer k.Destroy()

	data, err := s.AllocateBufferFrom(UsageStorage, vkg.Uint32Slice(values))
	if err != nil {
		return nil, fmt.Errorf("data buffer: %w", err)
	}
	defer data.Destroy()

	if err := s.Run(DispatchOp{Kernel: k, Data: data}); err != nil {
		return nil, err
	}
	return data.Uint32s()
}
