package compute

import "sync/atomic"

// State is how far a session has progressed through a run
type State int32

const (
	StateUninitialized State = iota
	StateDeviceReady
	StateBuffersAllocated
	StateCommandRecorded
	StateSubmitted
	StateCompleted
)

var stateNames = [...]string{
	StateUninitialized:    "uninitialized",
	StateDeviceReady:      "device-ready",
	StateBuffersAllocated: "buffers-allocated",
	StateCommandRecorded:  "command-recorded",
	StateSubmitted:        "submitted",
	StateCompleted:        "completed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// stateTracker records the furthest state reached, it never moves backwards
type stateTracker struct {
	v atomic.Int32
}

func (t *stateTracker) load() State {
	return State(t.v.Load())
}

// advance moves to next if it is further along and reports whether it moved
func (t *stateTracker) advance(next State) bool {
	for {
		cur := t.v.Load()
		if int32(next) <= cur {
			return false
		}
		if t.v.CompareAndSwap(cur, int32(next)) {
			return true
		}
	}
}
