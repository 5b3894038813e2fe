package compute

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateAdvanceIsForwardOnly(t *testing.T) {
	var st stateTracker
	assert.Equal(t, StateUninitialized, st.load())

	assert.True(t, st.advance(StateDeviceReady))
	assert.True(t, st.advance(StateCommandRecorded))
	assert.False(t, st.advance(StateBuffersAllocated))
	assert.Equal(t, StateCommandRecorded, st.load())

	assert.False(t, st.advance(StateCommandRecorded))
	assert.True(t, st.advance(StateCompleted))
	assert.Equal(t, StateCompleted, st.load())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "device-ready", StateDeviceReady.String())
	assert.Equal(t, "buffers-allocated", StateBuffersAllocated.String())
	assert.Equal(t, "command-recorded", StateCommandRecorded.String())
	assert.Equal(t, "submitted", StateSubmitted.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "unknown", State(42).String())
}
