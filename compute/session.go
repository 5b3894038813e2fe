// Package compute runs one-shot transfer and compute jobs on a Vulkan device.
//
// A Session owns an instance, a logical device and a single queue. Work is
// expressed as an Operation, recorded into a one-time command buffer, submitted
// with a fence and waited on before the host reads any buffer it touched:
//
//	s, err := compute.Open(compute.Options{Capability: compute.CapabilityCompute})
//	...
//	data, _ := s.AllocateBufferFromIter(compute.UsageStorage, 65536, func(i int) uint32 { return uint32(i) })
//	k, _ := s.NewMultiplyKernel(12)
//	err = s.Run(compute.DispatchOp{Kernel: k, Data: data})
//	out, _ := data.Uint32s()
package compute

import (
	"fmt"

	"github.com/celer/vkcompute/vkg"
	"github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// APIVersion is the Vulkan version requested from the driver. Kernels are
// compiled to SPIR-V 1.3, which needs 1.1.
var APIVersion = vkg.Version{Major: 1, Minor: 1}

// Options controls how Open picks and initializes a device
type Options struct {
	// AppName is reported to the driver
	AppName string
	// DeviceIndex selects the physical device in enumeration order
	DeviceIndex int
	// Capability is the class of work the queue must accept
	Capability Capability
	// Validation enables the Khronos validation layer when it is installed
	Validation bool
	// Logger receives lifecycle logs, the logrus standard logger when nil
	Logger *logrus.Logger
}

// Session is a device, queue and command pool ready to run operations
type Session struct {
	Instance       *vkg.Instance
	PhysicalDevice *vkg.PhysicalDevice
	Device         *vkg.Device
	QueueFamily    *vkg.QueueFamily
	Queue          *vkg.Queue
	CommandPool    *vkg.CommandPool

	log   *logrus.Entry
	state stateTracker
}

// Open loads the driver, creates an instance, picks a physical device and a
// queue family for opts.Capability and creates a logical device with one queue.
func Open(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Session{log: logger.WithField("component", "compute")}

	err := vkg.InitializeForComputeOnly()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDriver, err)
	}

	name := opts.AppName
	if name == "" {
		name = "vkcompute"
	}
	app := &vkg.App{
		Name:       name,
		EngineName: "vkcompute",
		APIVersion: APIVersion,
	}
	if opts.Validation {
		if err := app.EnableDebugging(); err != nil {
			s.log.WithError(err).Warn("validation requested but unavailable")
		}
	}

	s.Instance, err = app.CreateInstance()
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrNoDriver, err)
	}
	if len(app.EnabledLayers) > 0 {
		if err := s.Instance.UseDefaultDebugCallback(); err != nil {
			s.log.WithError(err).Warn("debug report callback not installed")
		}
	}

	if err := s.openDevice(opts, app.EnabledLayers); err != nil {
		s.Close()
		return nil, err
	}

	s.state.advance(StateDeviceReady)
	s.log.WithFields(logrus.Fields{
		"device":       s.PhysicalDevice.DeviceName,
		"type":         s.PhysicalDevice.DeviceType(),
		"api":          s.PhysicalDevice.APIVersion().String(),
		"queue_family": s.QueueFamily.Index,
		"capability":   opts.Capability.String(),
	}).Info("device ready")

	return s, nil
}

func (s *Session) openDevice(opts Options, layers []string) error {
	pdevices, err := s.Instance.PhysicalDevices()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoPhysicalDevice, err)
	}
	s.PhysicalDevice, err = pickPhysicalDevice(pdevices, opts.DeviceIndex)
	if err != nil {
		return err
	}
	if err := checkAPIVersion(s.PhysicalDevice, APIVersion); err != nil {
		return err
	}

	queues, err := s.PhysicalDevice.QueueFamilies()
	if err != nil {
		return fmt.Errorf("queue families: %w", err)
	}
	s.QueueFamily = selectQueueFamily(queues, opts.Capability)
	if s.QueueFamily == nil {
		return fmt.Errorf("%w: %s on %s", ErrNoQueueFamily, opts.Capability, s.PhysicalDevice)
	}

	// device layers are deprecated but older loaders still read them
	s.Device, err = s.PhysicalDevice.CreateLogicalDeviceWithOptions(vkg.QueueFamilySlice{s.QueueFamily},
		&vkg.CreateDeviceOptions{EnabledLayers: layers})
	if err != nil {
		return fmt.Errorf("create logical device: %w", err)
	}
	s.Queue = s.Device.GetQueue(s.QueueFamily)

	s.CommandPool, err = s.Device.CreateCommandPool(s.QueueFamily)
	if err != nil {
		return fmt.Errorf("create command pool: %w", err)
	}
	return nil
}

// State reports the furthest state the session has reached
func (s *Session) State() State {
	return s.state.load()
}

// MaxWorkgroups is the largest dispatch size the device accepts on x
func (s *Session) MaxWorkgroups() int {
	return int(s.PhysicalDevice.MaxComputeWorkGroupCount()[0])
}

// Close waits for the device to go idle and releases everything Open created.
// Buffers and kernels must be destroyed by the caller first.
func (s *Session) Close() {
	if s.Device != nil {
		if err := s.Device.WaitIdle(); err != nil {
			s.log.WithError(err).Warn("device wait idle")
		}
		if s.CommandPool != nil {
			s.CommandPool.Destroy()
			s.CommandPool = nil
		}
		s.Device.Destroy()
		s.Device = nil
	}
	if s.Instance != nil {
		s.Instance.Destroy()
		s.Instance = nil
	}
}

func (s *Session) allocateCommandBuffer() (*vkg.CommandBuffer, error) {
	return s.CommandPool.AllocateBuffer(vk.CommandBufferLevelPrimary)
}
