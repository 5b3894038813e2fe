package vkg

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestBufferUsageString(t *testing.T) {
	tests := []struct {
		usage vk.BufferUsageFlagBits
		want  string
	}{
		{0, "none"},
		{vk.BufferUsageTransferSrcBit, "transfer-src"},
		{vk.BufferUsageTransferDstBit | vk.BufferUsageStorageBufferBit, "transfer-dst|storage"},
	}
	for _, tt := range tests {
		if got := BufferUsageString(tt.usage); got != tt.want {
			t.Errorf("BufferUsageString(%#x) = %q, want %q", tt.usage, got, tt.want)
		}
	}
}

func TestSafeString(t *testing.T) {
	if safeString("") != "\x00" {
		t.Error("empty string not terminated")
	}
	if safeString("main") != "main\x00" {
		t.Error("string not terminated")
	}
	if safeString("main\x00") != "main\x00" {
		t.Error("terminated string changed")
	}
	in := []string{"a", "b\x00"}
	out := safeStrings(in)
	if out[0] != "a\x00" || out[1] != "b\x00" || in[0] != "a" {
		t.Errorf("unexpected %q from %q", out, in)
	}
}
