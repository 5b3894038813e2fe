/*
Package vkg implements a thin object layer atop the Vulkan API for go, narrowed to the
parts needed to move data to and from a GPU and run compute work on it. Vulkan exposes
GPUs at a very low level, which makes even a single buffer copy a long sequence of
calls. This package folds those sequences into small objects while still exposing the
native handles, so callers are never limited by what is wrapped here.

Native Vulkan terms
	Instance 	the vulkan runtime instance
	PhysicalDevice	the physical hardware device
	QueueFamily	a class of hardware queues sharing a capability set (graphics, compute, transfer)
	Device		the logical device, the target of most of the vulkan apis
	Queue 		a queue which work (command buffers) may be submitted to
	DeviceMemory	an allocation of memory on the host or device for use by buffers
	Buffer		a description of some bit of data bound to device memory
	CommandBuffer	a recorded list of commands submitted to a queue
	Fence		a host visible signal raised when submitted work completes
	Pipeline	a description of how to process data on the GPU
	DescriptorSet 	a mapping of buffers for use by shaders

A compute or transfer job looks roughly like:

	1. Initialize the vulkan loader (InitializeForComputeOnly)
	2. Create an instance and pick a physical device
	3. Pick a queue family, create a logical device and fetch its queue
	4. Create host visible buffers and copy input data into them
	5. Record a command buffer with the copy or dispatch
	6. Submit it with a fence and wait for the fence
	7. Map the buffers and read the results

Objects expose their native handles in fields prefixed with 'VK'.
*/
package vkg
