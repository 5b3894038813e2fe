package compute

import "errors"

var (
	// ErrNoDriver is returned when the vulkan loader or driver can't be initialized
	ErrNoDriver = errors.New("vulkan driver unavailable")
	// ErrNoPhysicalDevice is returned when no GPU is enumerated at the requested index
	ErrNoPhysicalDevice = errors.New("no physical device")
	// ErrNoQueueFamily is returned when no queue family supports the requested capability
	ErrNoQueueFamily = errors.New("no qualifying queue family")
	// ErrBufferPending is returned when the host touches a buffer whose submission hasn't signaled
	ErrBufferPending = errors.New("buffer in use by pending submission")
	// ErrSizeMismatch is returned when copy source and destination differ in size
	ErrSizeMismatch = errors.New("buffer size mismatch")
	// ErrUsage is returned when a buffer lacks the usage an operation needs
	ErrUsage = errors.New("buffer usage does not permit operation")
	// ErrDestroyed is returned when a buffer or kernel is used after Destroy
	ErrDestroyed = errors.New("used after destroy")
	// ErrAlreadySubmitted is returned when a recording is submitted twice
	ErrAlreadySubmitted = errors.New("recording already submitted")
)
