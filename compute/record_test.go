package compute

import (
	"testing"

	"github.com/celer/vkcompute/vkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

// liveKernel passes validation without a device behind it
func liveKernel() *Kernel {
	return &Kernel{
		Name:          "multiply",
		WorkgroupSize: MultiplyWorkgroupSize,
		pipeline:      &vkg.ComputePipeline{},
		params:        hostBuffer(UsageUniform, paramsSize),
	}
}

func TestCopyOpValidate(t *testing.T) {
	src := &HostBuffer{Usage: UsageTransferSrc, size: 64}
	dst := &HostBuffer{Usage: UsageTransferDst, size: 64}
	short := &HostBuffer{Usage: UsageTransferDst, size: 32}
	storage := &HostBuffer{Usage: UsageStorage, size: 64}

	assert.NoError(t, CopyOp{Src: src, Dst: dst}.validate())
	assert.Error(t, CopyOp{Src: src}.validate())
	assert.Error(t, CopyOp{Src: src, Dst: src}.validate())
	assert.ErrorIs(t, CopyOp{Src: src, Dst: short}.validate(), ErrSizeMismatch)
	assert.ErrorIs(t, CopyOp{Src: storage, Dst: dst}.validate(), ErrUsage)
	assert.ErrorIs(t, CopyOp{Src: src, Dst: storage}.validate(), ErrUsage)
}

func TestCopyOpBuffers(t *testing.T) {
	src := &HostBuffer{Usage: UsageTransferSrc, size: 64}
	dst := &HostBuffer{Usage: UsageTransferDst, size: 64}
	op := CopyOp{Src: src, Dst: dst}

	assert.Equal(t, "copy", op.Name())
	assert.Equal(t, []*HostBuffer{src, dst}, op.touched())
	assert.Equal(t, []*HostBuffer{dst}, op.written())

	stage, access := op.producer()
	assert.Equal(t, vk.PipelineStageTransferBit, stage)
	assert.Equal(t, vk.AccessTransferWriteBit, access)
}

func TestDispatchOpValidate(t *testing.T) {
	k := liveKernel()
	data := hostBuffer(UsageStorage, 65536*4)

	op := DispatchOp{Kernel: k, Data: data}
	assert.NoError(t, op.validate())
	assert.Equal(t, 1024, op.groups())

	assert.Error(t, DispatchOp{Data: data}.validate())
	assert.Error(t, DispatchOp{Kernel: k, Data: &HostBuffer{Usage: UsageStorage, size: 2}}.validate())
	assert.ErrorIs(t, DispatchOp{Kernel: k, Data: &HostBuffer{Usage: UsageTransferSrc, size: 64}}.validate(), ErrUsage)

	stage, access := op.producer()
	assert.Equal(t, vk.PipelineStageComputeShaderBit, stage)
	assert.Equal(t, vk.AccessShaderWriteBit, access)
}

func TestUsage(t *testing.T) {
	u := UsageTransferSrc | UsageStorage
	assert.True(t, u.Has(UsageStorage))
	assert.True(t, u.Has(UsageTransferSrc|UsageStorage))
	assert.False(t, u.Has(UsageTransferDst))
	assert.Equal(t, vk.BufferUsageTransferSrcBit|vk.BufferUsageStorageBufferBit, u.vk())
	assert.Equal(t, "transfer-src|storage", u.String())
	assert.Equal(t, "uniform", UsageUniform.String())
}

func TestRecordRefusesHeldKernel(t *testing.T) {
	s := &Session{}
	k := liveKernel()
	first := &Recording{}
	k.held.Store(first)

	_, err := s.Record(DispatchOp{Kernel: k, Data: hostBuffer(UsageStorage, 64)})
	assert.ErrorIs(t, err, ErrBufferPending)
	assert.Same(t, first, k.held.Load())

	op := DispatchOp{Kernel: k, Data: hostBuffer(UsageStorage, 64)}
	second := &Recording{op: op}
	op.release(second)
	assert.Same(t, first, k.held.Load(), "only the holder releases")

	op.release(first)
	require.NoError(t, op.reserve(second))
	assert.NoError(t, op.reserve(second))
	assert.Same(t, second, k.held.Load())
}

func TestDestroyedOperandsRefused(t *testing.T) {
	s := &Session{}

	gone := &HostBuffer{Usage: UsageTransferDst, size: 16}
	_, err := gone.Bytes()
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.ErrorIs(t, gone.Write([]byte{1}), ErrDestroyed)
	assert.False(t, gone.Pending())
	gone.Destroy()

	_, err = s.Record(CopyOp{Src: hostBuffer(UsageTransferSrc, 16), Dst: gone})
	assert.ErrorIs(t, err, ErrDestroyed)

	k := &Kernel{Name: "multiply", WorkgroupSize: MultiplyWorkgroupSize}
	k.Destroy()
	k.Destroy()
	_, err = s.Record(DispatchOp{Kernel: k, Data: hostBuffer(UsageStorage, 64)})
	assert.ErrorIs(t, err, ErrDestroyed)
}
