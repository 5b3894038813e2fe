package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 65536, cfg.Multiply.Elements)
	assert.EqualValues(t, 12, cfg.Multiply.Factor)
	assert.Equal(t, PayloadSequence, cfg.Copy.Payload)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
device:
  index: 1
  validation: true
copy:
  payload: identity
  elements: 8
multiply:
  factor: 3
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Device.Index)
	assert.True(t, cfg.Device.Validation)
	assert.Equal(t, PayloadIdentity, cfg.Copy.Payload)
	assert.Equal(t, 8, cfg.Copy.Elements)
	assert.EqualValues(t, 3, cfg.Multiply.Factor)
	assert.Equal(t, 65536, cfg.Multiply.Elements, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "multiply:\n  elements: 10\n")
	t.Setenv("VKCOMPUTE_MULTIPLY_ELEMENTS", "20")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Multiply.Elements)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"payload":  "copy:\n  payload: random\n",
		"elements": "multiply:\n  elements: 0\n",
		"level":    "logging:\n  level: loud\n",
		"queue":    "copy:\n  queue: present\n",
		"device":   "device:\n  index: -1\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs/x.log"), expandPath("~/logs/x.log"))

	t.Setenv("VKCOMPUTE_TEST_DIR", "/tmp/vk")
	assert.Equal(t, "/tmp/vk/x.log", expandPath("$VKCOMPUTE_TEST_DIR/x.log"))
}
