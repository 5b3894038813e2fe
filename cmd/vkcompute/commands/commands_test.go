package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/celer/vkcompute/internal/config"
	"github.com/celer/vkcompute/vkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func quietConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  console: false\n"), 0644))
	return path
}

func TestInvalidFlagsFailBeforeDevice(t *testing.T) {
	t.Cleanup(func() { vkg.SetLogger(nil) })

	tests := []struct {
		name string
		args []string
	}{
		{"unknown payload", []string{"copy", "--payload", "random"}},
		{"unknown queue", []string{"copy", "--queue", "present"}},
		{"no elements", []string{"copy", "--elements", "0"}},
		{"negative device", []string{"multiply", "--device=-1"}},
		{"zero multiply elements", []string{"multiply", "--elements", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(append([]string{"--config", quietConfig(t)}, tt.args...))
			assert.Error(t, rootCmd.Execute())
		})
	}
}

func TestExecuteLogsFailure(t *testing.T) {
	t.Cleanup(func() { vkg.SetLogger(nil) })

	dir := t.TempDir()
	logFile := filepath.Join(dir, "vkcompute.log")
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  console: false\n  file: "+logFile+"\n"), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--config", path, "copy", "--payload", "random"})
	require.Error(t, Execute())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level=error")
	assert.Contains(t, string(data), "command failed")
	assert.Contains(t, string(data), "copy.payload must be one of")
	assert.Contains(t, out.String(), "Error: copy.payload must be one of")
}

func TestCopyPayload(t *testing.T) {
	src, err := copyPayload(config.PayloadSequence, 4)
	require.NoError(t, err)
	assert.Len(t, src.Bytes(), 16)

	src, err = copyPayload(config.PayloadIdentity, 2)
	require.NoError(t, err)
	assert.Len(t, src.Bytes(), 128)

	_, err = copyPayload("noise", 1)
	assert.Error(t, err)
}

func TestPrintValues(t *testing.T) {
	var out bytes.Buffer
	printValues(&out, "dst", []uint32{5, 6, 7}, 2)
	assert.Equal(t, "dst[0] = 5\ndst[1] = 6\n... 1 more\n", out.String())

	out.Reset()
	printValues(&out, "dst", []uint32{5, 6}, -1)
	assert.Equal(t, "dst[0] = 5\ndst[1] = 6\n", out.String())
}

func TestPrintProducts(t *testing.T) {
	var out bytes.Buffer
	printProducts(&out, []uint32{0, 1, 2}, []uint32{0, 12, 24}, 12, 16)
	assert.Equal(t, "0 * 12 = 0\n1 * 12 = 12\n2 * 12 = 24\n", out.String())
}

func TestPrintMatrices(t *testing.T) {
	ms := vkg.Matrix4x4Slice{vkg.Identity(), vkg.Identity()}
	var out bytes.Buffer
	printMatrices(&out, vkg.BytesToUint32s(ms.Bytes()), 1)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "matrix 0", lines[0])
	assert.Equal(t, "\t1 0 0 0", lines[1])
	assert.Equal(t, "\t0 0 0 1", lines[4])
	assert.Equal(t, "... 1 more", lines[5])
}

func TestMemoryFlags(t *testing.T) {
	assert.Equal(t, "host-visible|host-coherent (6)",
		memoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	assert.Equal(t, "device-local (1)", memoryHeapFlags(vk.MemoryHeapDeviceLocalBit))
	assert.Equal(t, " (0)", memoryHeapFlags(0))
}
