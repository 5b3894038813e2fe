package vkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestDeviceLocalMemoryIsNotMapped(t *testing.T) {
	m := &DeviceMemory{Size: 16, Properties: vk.MemoryPropertyDeviceLocalBit}
	assert.False(t, m.IsHostVisible())

	assert.Error(t, m.MapCopyUnmap([]byte{1, 2, 3, 4}))
	_, err := m.MapReadUnmap(4)
	assert.Error(t, err)
	assert.Error(t, m.MapZeroUnmap(4))

	// bounds are checked before mapping
	assert.Error(t, m.MapCopyUnmap(make([]byte, 32)))

	assert.True(t, (&DeviceMemory{Properties: HostVisibleCoherent}).IsHostVisible())
}
