package vkg

import (
	"strings"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

var end = "\x00"
var endChar byte = '\x00'

// ToBytes will take an unsafe.Pointer and length in bytes and convert it
// to a byte slice
func ToBytes(ptr unsafe.Pointer, lenInBytes int) []byte {
	if lenInBytes == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), lenInBytes)
}

var bufferUsageNames = []struct {
	bit  vk.BufferUsageFlagBits
	name string
}{
	{vk.BufferUsageTransferSrcBit, "transfer-src"},
	{vk.BufferUsageTransferDstBit, "transfer-dst"},
	{vk.BufferUsageUniformBufferBit, "uniform"},
	{vk.BufferUsageStorageBufferBit, "storage"},
	{vk.BufferUsageIndexBufferBit, "index"},
	{vk.BufferUsageVertexBufferBit, "vertex"},
}

// BufferUsageString renders a usage flag set as a '|' separated list
func BufferUsageString(u vk.BufferUsageFlagBits) string {
	names := make([]string, 0, len(bufferUsageNames))
	for _, n := range bufferUsageNames {
		if u&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

func safeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

func safeStrings(list []string) []string {
	ret := make([]string, len(list))
	for i := range list {
		ret[i] = safeString(list[i])
	}
	return ret
}
