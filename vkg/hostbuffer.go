package vkg

import (
	"github.com/docker/go-units"
	vk "github.com/vulkan-go/vulkan"
)

// HostVisibleCoherent are the memory properties used for buffers the host
// reads and writes directly without explicit flushes.
const HostVisibleCoherent = vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit

// HostBoundBuffer is a buffer bound to its own host visible allocation
type HostBoundBuffer struct {
	HostBuffer *Buffer
	HostMemory *DeviceMemory
}

// CreateAndBindBufferAndMemory creates a buffer, allocates memory for it and binds the two
func (d *Device) CreateAndBindBufferAndMemory(size uint64, offset uint64, usage vk.BufferUsageFlagBits, mprops vk.MemoryPropertyFlagBits, sharing vk.SharingMode) (*Buffer, *DeviceMemory, error) {
	buffer, err := d.CreateBufferWithOptions(size, usage, sharing)
	if err != nil {
		return nil, nil, err
	}
	memory, err := d.AllocateForBuffer(buffer, mprops)
	if err != nil {
		buffer.Destroy()
		return nil, nil, err
	}
	err = buffer.Bind(memory, offset)
	if err != nil {
		memory.Destroy()
		buffer.Destroy()
		return nil, nil, err
	}
	return buffer, memory, nil
}

// CreateHostBoundBuffer creates an exclusive host visible and coherent buffer
// of size bytes with the given usage
func (d *Device) CreateHostBoundBuffer(size uint64, usage vk.BufferUsageFlagBits) (*HostBoundBuffer, error) {
	buffer, memory, err := d.CreateAndBindBufferAndMemory(size, 0, usage, HostVisibleCoherent, vk.SharingModeExclusive)
	if err != nil {
		return nil, err
	}

	Logger().WithField("usage", BufferUsageString(usage)).
		Debugf("HostBoundBuffer: %s", units.BytesSize(float64(size)))

	return &HostBoundBuffer{
		HostBuffer: buffer,
		HostMemory: memory,
	}, nil
}

// Size is the size of the buffer in bytes
func (h *HostBoundBuffer) Size() uint64 {
	return h.HostBuffer.Size
}

// Write copies data to the start of the buffer
func (h *HostBoundBuffer) Write(data []byte) error {
	return h.HostMemory.MapCopyUnmap(data)
}

// Read copies the buffer contents out of device memory
func (h *HostBoundBuffer) Read() ([]byte, error) {
	return h.HostMemory.MapReadUnmap(h.HostBuffer.Size)
}

// Zero clears the buffer contents
func (h *HostBoundBuffer) Zero() error {
	return h.HostMemory.MapZeroUnmap(h.HostBuffer.Size)
}

func (h *HostBoundBuffer) Destroy() {
	if h.HostBuffer != nil {
		h.HostBuffer.Destroy()
		h.HostBuffer = nil
	}
	if h.HostMemory != nil {
		h.HostMemory.Destroy()
		h.HostMemory = nil
	}
}
