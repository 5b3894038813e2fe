package compute

import (
	"fmt"
	"sync/atomic"

	"github.com/celer/vkcompute/vkg"
	"github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// Operation is the single GPU command a Recording holds
type Operation interface {
	Name() string

	// validate checks the operands without touching the device
	validate() error
	// reserve claims state shared between recordings, such as a kernel's
	// descriptor set, until release is called for the same recording
	reserve(r *Recording) error
	release(r *Recording)
	// prepare performs host side setup that must precede recording
	prepare(s *Session) error
	record(cb *vkg.CommandBuffer)
	// touched lists every buffer the GPU reads or writes
	touched() []*HostBuffer
	// written lists the buffers the host may read back afterwards
	written() []*HostBuffer
	// producer is the stage and access that writes the written buffers
	producer() (vk.PipelineStageFlagBits, vk.AccessFlagBits)
}

// CopyOp copies the whole of Src into Dst
type CopyOp struct {
	Src *HostBuffer
	Dst *HostBuffer
}

func (CopyOp) Name() string { return "copy" }

func (c CopyOp) validate() error {
	if c.Src == nil || c.Dst == nil {
		return fmt.Errorf("copy needs both a source and a destination")
	}
	if c.Src == c.Dst {
		return fmt.Errorf("copy source and destination are the same buffer")
	}
	if !c.Src.Usage.Has(UsageTransferSrc) {
		return fmt.Errorf("%w: copy source is %s", ErrUsage, c.Src.Usage)
	}
	if !c.Dst.Usage.Has(UsageTransferDst) {
		return fmt.Errorf("%w: copy destination is %s", ErrUsage, c.Dst.Usage)
	}
	if c.Src.Size() != c.Dst.Size() {
		return fmt.Errorf("%w: copy %d bytes into %d", ErrSizeMismatch, c.Src.Size(), c.Dst.Size())
	}
	return nil
}

func (CopyOp) reserve(*Recording) error { return nil }

func (CopyOp) release(*Recording) {}

func (CopyOp) prepare(*Session) error { return nil }

func (c CopyOp) record(cb *vkg.CommandBuffer) {
	cb.CmdCopyBuffer(c.Src.VK(), c.Dst.VK(), c.Src.Size())
}

func (c CopyOp) touched() []*HostBuffer { return []*HostBuffer{c.Src, c.Dst} }

func (c CopyOp) written() []*HostBuffer { return []*HostBuffer{c.Dst} }

func (CopyOp) producer() (vk.PipelineStageFlagBits, vk.AccessFlagBits) {
	return vk.PipelineStageTransferBit, vk.AccessTransferWriteBit
}

// DispatchOp runs Kernel once over every 32 bit element of Data
type DispatchOp struct {
	Kernel *Kernel
	Data   *HostBuffer
}

func (DispatchOp) Name() string { return "dispatch" }

func (d DispatchOp) validate() error {
	if d.Kernel == nil || d.Data == nil {
		return fmt.Errorf("dispatch needs a kernel and a data buffer")
	}
	if !d.Data.Usage.Has(UsageStorage) {
		return fmt.Errorf("%w: dispatch data is %s", ErrUsage, d.Data.Usage)
	}
	if d.Data.Len() == 0 {
		return fmt.Errorf("dispatch data holds no elements")
	}
	if d.Kernel.pipeline == nil || d.Kernel.params == nil {
		return fmt.Errorf("%w: kernel %s", ErrDestroyed, d.Kernel.Name)
	}
	return nil
}

// reserve holds the kernel's descriptor set and params block for r. Both are
// rewritten when a recording is made, so a second recording would redirect
// the first one's dispatch.
func (d DispatchOp) reserve(r *Recording) error {
	if d.Kernel.held.CompareAndSwap(nil, r) || d.Kernel.held.Load() == r {
		return nil
	}
	return fmt.Errorf("%w: kernel %s is held by an unfinished recording", ErrBufferPending, d.Kernel.Name)
}

func (d DispatchOp) release(r *Recording) {
	d.Kernel.held.CompareAndSwap(r, nil)
}

func (d DispatchOp) groups() int {
	return WorkgroupCount(d.Data.Len(), d.Kernel.WorkgroupSize)
}

func (d DispatchOp) prepare(s *Session) error {
	if limit := s.MaxWorkgroups(); limit > 0 && d.groups() > limit {
		return fmt.Errorf("dispatch of %d workgroups exceeds device limit %d", d.groups(), limit)
	}
	return d.Kernel.bind(d.Data)
}

func (d DispatchOp) record(cb *vkg.CommandBuffer) {
	cb.CmdBindComputePipeline(d.Kernel.pipeline)
	cb.CmdBindDescriptorSets(vk.PipelineBindPointCompute, d.Kernel.pipelineLayout, 0, d.Kernel.set)
	cb.CmdDispatch(d.groups(), 1, 1)
}

func (d DispatchOp) touched() []*HostBuffer { return []*HostBuffer{d.Data, d.Kernel.params} }

func (d DispatchOp) written() []*HostBuffer { return []*HostBuffer{d.Data} }

func (DispatchOp) producer() (vk.PipelineStageFlagBits, vk.AccessFlagBits) {
	return vk.PipelineStageComputeShaderBit, vk.AccessShaderWriteBit
}

// Recording is a finished one-time command buffer holding a single operation
type Recording struct {
	op        Operation
	cb        *vkg.CommandBuffer
	submitted atomic.Bool
}

// Record builds a one-time-submit command buffer containing op followed by
// a barrier making its writes visible to the host.
//
// Shared operation state, such as a kernel, stays reserved until the recording
// completes on the GPU or is discarded.
func (s *Session) Record(op Operation) (*Recording, error) {
	if err := op.validate(); err != nil {
		return nil, err
	}
	for _, b := range op.touched() {
		if err := b.checkIdle(); err != nil {
			return nil, err
		}
	}

	r := &Recording{op: op}
	if err := op.reserve(r); err != nil {
		return nil, err
	}
	if err := op.prepare(s); err != nil {
		op.release(r)
		return nil, fmt.Errorf("prepare %s: %w", op.Name(), err)
	}

	cb, err := s.allocateCommandBuffer()
	if err != nil {
		op.release(r)
		return nil, fmt.Errorf("allocate command buffer: %w", err)
	}

	if err := cb.BeginOneTime(); err != nil {
		s.CommandPool.FreeBuffer(cb)
		op.release(r)
		return nil, fmt.Errorf("begin command buffer: %w", err)
	}

	op.record(cb)

	stage, access := op.producer()
	written := op.written()
	bufs := make([]*vkg.Buffer, len(written))
	for i, b := range written {
		bufs[i] = b.VK()
	}
	cb.CmdHostReadBarrier(stage, access, bufs...)

	if err := cb.End(); err != nil {
		s.CommandPool.FreeBuffer(cb)
		op.release(r)
		return nil, fmt.Errorf("end command buffer: %w", err)
	}
	r.cb = cb

	s.state.advance(StateCommandRecorded)
	s.log.WithFields(logrus.Fields{"op": op.Name()}).Debug("recorded")

	return r, nil
}

// Discard frees a recording that will never be submitted and releases what
// it reserved. A discarded recording can't be submitted.
func (s *Session) Discard(r *Recording) {
	if r.submitted.CompareAndSwap(false, true) {
		if r.cb != nil {
			s.CommandPool.FreeBuffer(r.cb)
		}
		r.op.release(r)
	}
}
