package compute

import (
	"fmt"
	"strings"

	"github.com/celer/vkcompute/vkg"
)

// Capability is the class of work a session's queue must accept
type Capability int

const (
	CapabilityCompute Capability = iota
	CapabilityGraphics
	CapabilityTransfer
)

func (c Capability) String() string {
	switch c {
	case CapabilityCompute:
		return "compute"
	case CapabilityGraphics:
		return "graphics"
	case CapabilityTransfer:
		return "transfer"
	}
	return fmt.Sprintf("Capability(%d)", int(c))
}

// ParseCapability accepts compute, graphics or transfer, case insensitive
func ParseCapability(s string) (Capability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compute":
		return CapabilityCompute, nil
	case "graphics":
		return CapabilityGraphics, nil
	case "transfer":
		return CapabilityTransfer, nil
	}
	return 0, fmt.Errorf("unknown queue capability %q", s)
}

// selectQueueFamily returns the first family able to run work of class c
func selectQueueFamily(qfs vkg.QueueFamilySlice, c Capability) *vkg.QueueFamily {
	switch c {
	case CapabilityGraphics:
		return qfs.FilterGraphics().First()
	case CapabilityTransfer:
		return qfs.FilterTransfer().First()
	default:
		return qfs.FilterCompute().First()
	}
}

func pickPhysicalDevice(devices []*vkg.PhysicalDevice, index int) (*vkg.PhysicalDevice, error) {
	if len(devices) == 0 {
		return nil, ErrNoPhysicalDevice
	}
	if index < 0 || index >= len(devices) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNoPhysicalDevice, index, len(devices))
	}
	return devices[index], nil
}

// checkAPIVersion rejects devices older than the API level the kernels target
func checkAPIVersion(pd *vkg.PhysicalDevice, want vkg.Version) error {
	if v := pd.APIVersion(); !v.AtLeast(want) {
		return fmt.Errorf("%w: %s supports Vulkan %s, need %d.%d", ErrNoPhysicalDevice, pd, v, want.Major, want.Minor)
	}
	return nil
}
