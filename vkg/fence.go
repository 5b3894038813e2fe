package vkg

import (
	vk "github.com/vulkan-go/vulkan"
)

type Fence struct {
	Device  *Device
	VKFence vk.Fence
}

// CreateFence creates an unsignaled fence
func (d *Device) CreateFence() (*Fence, error) {
	var fence vk.Fence
	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	err := vk.Error(vk.CreateFence(d.VKDevice, &fenceCreateInfo, nil, &fence))
	if err != nil {
		return nil, err
	}
	return &Fence{VKFence: fence, Device: d}, nil
}

// WaitForFences blocks with no timeout until the fences signal
func (d *Device) WaitForFences(waitForAll bool, fences ...*Fence) error {
	f := make([]vk.Fence, len(fences))
	for i := range fences {
		f[i] = fences[i].VKFence
	}

	wait := vk.Bool32(vk.False)
	if waitForAll {
		wait = vk.True
	}

	return vk.Error(vk.WaitForFences(d.VKDevice, uint32(len(fences)), f, wait, vk.MaxUint64))
}

// Wait blocks with no timeout until this fence signals
func (f *Fence) Wait() error {
	return f.Device.WaitForFences(true, f)
}

// Signaled polls the fence without blocking
func (f *Fence) Signaled() (bool, error) {
	res := vk.GetFenceStatus(f.Device.VKDevice, f.VKFence)
	switch res {
	case vk.Success:
		return true, nil
	case vk.NotReady:
		return false, nil
	default:
		return false, vk.Error(res)
	}
}

func (f *Fence) Destroy() {
	vk.DestroyFence(f.Device.VKDevice, f.VKFence, nil)
}
