package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/celer/vkcompute/vkg"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesFile(t *testing.T) {
	t.Cleanup(func() { vkg.SetLogger(nil) })

	file := filepath.Join(t.TempDir(), "logs", "vkcompute.log")
	require.NoError(t, Init("debug", file, false))

	assert.Equal(t, logrus.DebugLevel, Get().GetLevel())
	assert.Same(t, Get(), vkg.Logger())

	Get().WithField("device", "test").Info("device ready")
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "device ready")
	assert.Contains(t, string(data), "device=test")
}

func TestInitBadLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { vkg.SetLogger(nil) })

	require.NoError(t, Init("chatty", "", false))
	assert.Equal(t, logrus.InfoLevel, Get().GetLevel())
}
