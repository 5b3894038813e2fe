package compute

import (
	"github.com/celer/vkcompute/vkg"
	vk "github.com/vulkan-go/vulkan"
)

// Usage is the set of ways a buffer may be used by the GPU
type Usage uint32

const (
	UsageTransferSrc Usage = 1 << iota
	UsageTransferDst
	UsageStorage
	UsageUniform
)

// Has reports whether every flag in o is set
func (u Usage) Has(o Usage) bool {
	return u&o == o
}

func (u Usage) vk() vk.BufferUsageFlagBits {
	var bits vk.BufferUsageFlagBits
	if u.Has(UsageTransferSrc) {
		bits |= vk.BufferUsageTransferSrcBit
	}
	if u.Has(UsageTransferDst) {
		bits |= vk.BufferUsageTransferDstBit
	}
	if u.Has(UsageStorage) {
		bits |= vk.BufferUsageStorageBufferBit
	}
	if u.Has(UsageUniform) {
		bits |= vk.BufferUsageUniformBufferBit
	}
	return bits
}

func (u Usage) String() string {
	return vkg.BufferUsageString(u.vk())
}
