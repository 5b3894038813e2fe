package compute

import (
	"errors"
	"testing"

	"github.com/celer/vkcompute/vkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func family(index int, flags vk.QueueFlagBits) *vkg.QueueFamily {
	return &vkg.QueueFamily{
		Index: index,
		VKQueueFamilyProperties: vk.QueueFamilyProperties{
			QueueFlags: vk.QueueFlags(flags),
			QueueCount: 1,
		},
	}
}

func TestSelectQueueFamily(t *testing.T) {
	qfs := vkg.QueueFamilySlice{
		family(0, vk.QueueTransferBit),
		family(1, vk.QueueComputeBit|vk.QueueTransferBit),
		family(2, vk.QueueGraphicsBit|vk.QueueComputeBit|vk.QueueTransferBit),
	}

	assert.Equal(t, 1, selectQueueFamily(qfs, CapabilityCompute).Index)
	assert.Equal(t, 2, selectQueueFamily(qfs, CapabilityGraphics).Index)
	assert.Equal(t, 0, selectQueueFamily(qfs, CapabilityTransfer).Index)
}

func TestSelectQueueFamilyTransferImplied(t *testing.T) {
	// graphics families accept transfer commands without advertising the bit
	qfs := vkg.QueueFamilySlice{family(0, vk.QueueGraphicsBit)}
	qf := selectQueueFamily(qfs, CapabilityTransfer)
	require.NotNil(t, qf)
	assert.Equal(t, 0, qf.Index)
}

func TestSelectQueueFamilyNone(t *testing.T) {
	qfs := vkg.QueueFamilySlice{family(0, vk.QueueTransferBit)}
	assert.Nil(t, selectQueueFamily(qfs, CapabilityCompute))
	assert.Nil(t, selectQueueFamily(qfs, CapabilityGraphics))
	assert.Nil(t, selectQueueFamily(nil, CapabilityTransfer))
}

func TestPickPhysicalDevice(t *testing.T) {
	devices := []*vkg.PhysicalDevice{{Index: 0, DeviceName: "a"}, {Index: 1, DeviceName: "b"}}

	d, err := pickPhysicalDevice(devices, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", d.DeviceName)

	_, err = pickPhysicalDevice(devices, 2)
	assert.True(t, errors.Is(err, ErrNoPhysicalDevice))

	_, err = pickPhysicalDevice(nil, 0)
	assert.ErrorIs(t, err, ErrNoPhysicalDevice)
}

func TestParseCapability(t *testing.T) {
	for _, c := range []Capability{CapabilityCompute, CapabilityGraphics, CapabilityTransfer} {
		got, err := ParseCapability(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := ParseCapability(" Graphics ")
	require.NoError(t, err)
	assert.Equal(t, CapabilityGraphics, got)

	_, err = ParseCapability("present")
	assert.Error(t, err)
}

func TestCheckAPIVersion(t *testing.T) {
	device := func(major, minor int) *vkg.PhysicalDevice {
		return &vkg.PhysicalDevice{
			DeviceName:                 "gpu",
			VKPhysicalDeviceProperties: vk.PhysicalDeviceProperties{ApiVersion: vk.MakeVersion(major, minor, 0)},
		}
	}

	err := checkAPIVersion(device(1, 0), APIVersion)
	assert.ErrorIs(t, err, ErrNoPhysicalDevice)
	assert.Contains(t, err.Error(), "gpu supports Vulkan 1.0.0")

	assert.NoError(t, checkAPIVersion(device(1, 1), APIVersion))
	assert.NoError(t, checkAPIVersion(device(1, 3), APIVersion))
}
