package vkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func memType(flags vk.MemoryPropertyFlagBits) vk.MemoryType {
	return vk.MemoryType{PropertyFlags: vk.MemoryPropertyFlags(flags)}
}

func TestFindMemoryType(t *testing.T) {
	types := MemoryTypeSlice{
		memType(vk.MemoryPropertyDeviceLocalBit),
		memType(vk.MemoryPropertyHostVisibleBit),
		memType(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit),
		memType(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit | vk.MemoryPropertyHostCachedBit),
	}

	i, err := findMemoryType(types, 0xf, HostVisibleCoherent)
	require.NoError(t, err)
	assert.EqualValues(t, 2, i)

	// bit 2 excluded by the buffer's requirements
	i, err = findMemoryType(types, 0xb, HostVisibleCoherent)
	require.NoError(t, err)
	assert.EqualValues(t, 3, i)

	_, err = findMemoryType(types, 0x3, HostVisibleCoherent)
	assert.Error(t, err)

	assert.Equal(t, 2, types.NumHostVisibleAndCoherent())
	assert.Equal(t, 3, types.NumHostVisible())
}

func TestDeviceTypeString(t *testing.T) {
	assert.Equal(t, "discrete", DeviceTypeString(vk.PhysicalDeviceTypeDiscreteGpu))
	assert.Equal(t, "integrated", DeviceTypeString(vk.PhysicalDeviceTypeIntegratedGpu))
	assert.Equal(t, "cpu", DeviceTypeString(vk.PhysicalDeviceTypeCpu))
	assert.Equal(t, "other", DeviceTypeString(vk.PhysicalDeviceTypeOther))
}

func TestParseVersion(t *testing.T) {
	v := Version{Major: 1, Minor: 3, Patch: 250}
	assert.Equal(t, v, ParseVersion(v.VKVersion()))
	assert.Equal(t, "1.3.250", v.String())
}

func TestVersionAtLeast(t *testing.T) {
	v11 := Version{Major: 1, Minor: 1}
	assert.True(t, Version{Major: 1, Minor: 1, Patch: 0}.AtLeast(v11))
	assert.True(t, Version{Major: 1, Minor: 3, Patch: 250}.AtLeast(v11))
	assert.True(t, Version{Major: 2}.AtLeast(v11))
	assert.False(t, Version{Major: 1, Minor: 0, Patch: 290}.AtLeast(v11))
	assert.False(t, Version{}.AtLeast(v11))
}
