package vkg

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// DeviceMemory maps to Vulkan DeviceMemory and can either be memory on the host or on the device
type DeviceMemory struct {
	Device         *Device
	VKDeviceMemory vk.DeviceMemory
	Size           uint64
	Properties     vk.MemoryPropertyFlagBits
}

// IsHostVisible reports whether the memory may be mapped by the host
func (d *DeviceMemory) IsHostVisible() bool {
	return d.Properties&vk.MemoryPropertyHostVisibleBit != 0
}

// Destroy frees this memory
func (d *DeviceMemory) Destroy() {
	vk.FreeMemory(d.Device.VKDevice, d.VKDeviceMemory, nil)
}

// MapCopyUnmap will map this memory, copy the specified data to it and unmap
func (d *DeviceMemory) MapCopyUnmap(data []byte) error {
	if uint64(len(data)) > d.Size {
		return fmt.Errorf("write of %d bytes exceeds memory size %d", len(data), d.Size)
	}
	if len(data) == 0 {
		return nil
	}
	pm, err := d.MapWithSize(uint64(len(data)))
	if err != nil {
		return err
	}
	copy(ToBytes(pm, len(data)), data)
	d.Unmap()
	return nil
}

// MapReadUnmap will map this memory, copy size bytes out of it and unmap
func (d *DeviceMemory) MapReadUnmap(size uint64) ([]byte, error) {
	if size > d.Size {
		return nil, fmt.Errorf("read of %d bytes exceeds memory size %d", size, d.Size)
	}
	out := make([]byte, size)
	if size == 0 {
		return out, nil
	}
	pm, err := d.MapWithSize(size)
	if err != nil {
		return nil, err
	}
	copy(out, ToBytes(pm, int(size)))
	d.Unmap()
	return out, nil
}

// MapZeroUnmap clears the first size bytes of this memory
func (d *DeviceMemory) MapZeroUnmap(size uint64) error {
	if size == 0 {
		return nil
	}
	pm, err := d.MapWithSize(size)
	if err != nil {
		return err
	}
	clear(ToBytes(pm, int(size)))
	d.Unmap()
	return nil
}

// MapWithSize will map this memory starting at offset 0 with a particular size
func (d *DeviceMemory) MapWithSize(size uint64) (unsafe.Pointer, error) {
	if !d.IsHostVisible() {
		return nil, fmt.Errorf("memory with properties %#x is not host visible", uint32(d.Properties))
	}
	var res unsafe.Pointer
	err := vk.Error(vk.MapMemory(d.Device.VKDevice, d.VKDeviceMemory, 0, vk.DeviceSize(size), 0, &res))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Unmap this memory
func (d *DeviceMemory) Unmap() {
	vk.UnmapMemory(d.Device.VKDevice, d.VKDeviceMemory)
}
