package compute

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/celer/vkcompute/vkg"
	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"
)

// HostBuffer is a host visible, host coherent GPU buffer. Host reads and
// writes are refused while a submission touching it is still in flight.
type HostBuffer struct {
	Usage Usage

	log      *logrus.Entry
	bound    *vkg.HostBoundBuffer
	size     uint64
	inflight atomic.Pointer[Submission]
}

// AllocateBuffer allocates a zero initialized buffer of size bytes
func (s *Session) AllocateBuffer(usage Usage, size uint64) (*HostBuffer, error) {
	b, err := s.allocate(usage, size)
	if err != nil {
		return nil, err
	}
	if err := b.bound.Zero(); err != nil {
		b.Destroy()
		return nil, fmt.Errorf("zero buffer: %w", err)
	}
	return b, nil
}

// AllocateBufferFrom allocates a buffer sized to src and copies src into it
func (s *Session) AllocateBufferFrom(usage Usage, src vkg.ByteSourcer) (*HostBuffer, error) {
	data := src.Bytes()
	b, err := s.allocate(usage, uint64(len(data)))
	if err != nil {
		return nil, err
	}
	if err := b.bound.Write(data); err != nil {
		b.Destroy()
		return nil, fmt.Errorf("fill buffer: %w", err)
	}
	return b, nil
}

// AllocateBufferFromIter allocates a buffer of n 32 bit values produced by gen
func (s *Session) AllocateBufferFromIter(usage Usage, n int, gen func(i int) uint32) (*HostBuffer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("element count must be positive, got %d", n)
	}
	return s.AllocateBufferFrom(usage, vkg.Uint32Generate(n, gen))
}

func (s *Session) allocate(usage Usage, size uint64) (*HostBuffer, error) {
	if size == 0 {
		return nil, fmt.Errorf("buffer size must be positive")
	}
	if usage == 0 {
		return nil, fmt.Errorf("%w: empty usage", ErrUsage)
	}
	bound, err := s.Device.CreateHostBoundBuffer(size, usage.vk())
	if err != nil {
		return nil, fmt.Errorf("allocate %s buffer: %w", units.BytesSize(float64(size)), err)
	}
	s.state.advance(StateBuffersAllocated)
	s.log.WithFields(logrus.Fields{
		"bytes": units.BytesSize(float64(size)),
		"usage": usage.String(),
	}).Debug("buffer allocated")
	return &HostBuffer{Usage: usage, log: s.log, bound: bound, size: size}, nil
}

// Size is the size of the buffer in bytes
func (b *HostBuffer) Size() uint64 {
	return b.size
}

// Len is the number of 32 bit values the buffer holds
func (b *HostBuffer) Len() int {
	return int(b.size / 4)
}

// VK returns the wrapped buffer
func (b *HostBuffer) VK() *vkg.Buffer {
	return b.bound.HostBuffer
}

// Pending reports whether a submission touching the buffer is unfinished
func (b *HostBuffer) Pending() bool {
	return errors.Is(b.checkIdle(), ErrBufferPending)
}

// checkIdle returns ErrBufferPending unless no submission is in flight or the
// in flight one is observed signaled.
func (b *HostBuffer) checkIdle() error {
	if b == nil || b.bound == nil {
		return ErrDestroyed
	}
	sub := b.inflight.Load()
	if sub == nil || sub.Signaled() {
		return nil
	}
	return ErrBufferPending
}

// Bytes copies the buffer contents to the host
func (b *HostBuffer) Bytes() ([]byte, error) {
	if err := b.checkIdle(); err != nil {
		return nil, err
	}
	return b.bound.Read()
}

// Uint32s copies the buffer contents to the host as 32 bit values
func (b *HostBuffer) Uint32s() ([]uint32, error) {
	data, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	return vkg.BytesToUint32s(data), nil
}

// Write copies data to the start of the buffer
func (b *HostBuffer) Write(data []byte) error {
	if err := b.checkIdle(); err != nil {
		return err
	}
	if uint64(len(data)) > b.size {
		return fmt.Errorf("%w: write of %d bytes into %d byte buffer", ErrSizeMismatch, len(data), b.size)
	}
	return b.bound.Write(data)
}

// Destroy waits for any in flight submission and releases the buffer
func (b *HostBuffer) Destroy() {
	if sub := b.inflight.Load(); sub != nil {
		if err := sub.Wait(); err != nil {
			b.logger().WithError(err).WithField("bytes", b.size).Warn("destroying buffer of failed submission")
		}
	}
	if b.bound != nil {
		b.bound.Destroy()
		b.bound = nil
	}
}

func (b *HostBuffer) logger() *logrus.Entry {
	if b.log == nil {
		return logrus.NewEntry(vkg.Logger())
	}
	return b.log
}
