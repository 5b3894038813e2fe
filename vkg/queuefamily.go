package vkg

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type QueueFamilySlice []*QueueFamily

func (ql QueueFamilySlice) Filter(f func(q *QueueFamily) bool) QueueFamilySlice {
	ret := make([]*QueueFamily, 0)
	for _, q := range ql {
		if f(q) {
			ret = append(ret, q)
		}
	}
	return ret
}

// FilterFlags keeps the families supporting every bit in flags
func (ql QueueFamilySlice) FilterFlags(flags vk.QueueFlagBits) QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.Supports(flags)
	})
}

func (ql QueueFamilySlice) FilterCompute() QueueFamilySlice {
	return ql.FilterFlags(vk.QueueComputeBit)
}

func (ql QueueFamilySlice) FilterGraphics() QueueFamilySlice {
	return ql.FilterFlags(vk.QueueGraphicsBit)
}

// FilterTransfer keeps families able to run transfer commands. Graphics and
// compute families accept transfer commands whether or not they advertise
// the transfer bit.
func (ql QueueFamilySlice) FilterTransfer() QueueFamilySlice {
	return ql.Filter(func(q *QueueFamily) bool {
		return q.IsTransfer() || q.IsGraphics() || q.IsCompute()
	})
}

// First returns the first family in the slice, or nil when it is empty
func (ql QueueFamilySlice) First() *QueueFamily {
	if len(ql) == 0 {
		return nil
	}
	return ql[0]
}

type QueueFamily struct {
	Index                   int
	PhysicalDevice          *PhysicalDevice
	VKQueueFamilyProperties vk.QueueFamilyProperties
}

// Supports reports whether this family carries every bit in flags
func (q *QueueFamily) Supports(flags vk.QueueFlagBits) bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(flags) == vk.QueueFlags(flags)
}

func (q *QueueFamily) IsCompute() bool {
	return q.Supports(vk.QueueComputeBit)
}

func (q *QueueFamily) IsGraphics() bool {
	return q.Supports(vk.QueueGraphicsBit)
}

func (q *QueueFamily) IsTransfer() bool {
	return q.Supports(vk.QueueTransferBit)
}

func (q *QueueFamily) QueueCount() int {
	return int(q.VKQueueFamilyProperties.QueueCount)
}

func (q *QueueFamily) String() string {
	return fmt.Sprintf("{ Index: %d Queues: %d Compute: %v Graphics: %v Transfer: %v }",
		q.Index, q.QueueCount(), q.IsCompute(), q.IsGraphics(), q.IsTransfer())
}
