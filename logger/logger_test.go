package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mhsanaei/mediahub/config"
	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel(config.Warn)
	assert.NoError(t, err)
	assert.Equal(t, logging.WARNING, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestFileBackendRecordsEveryLevel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")
	t.Setenv("MEDIAHUB_LOG_FOLDER", dir)

	InitLogger(logging.ERROR)
	Debug("debug-entry")
	Warningf("warn-%d", 1)
	Error("error-entry")
	CloseLogger()

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG - debug-entry")
	assert.Contains(t, string(data), "WARNING - warn-1")
	assert.Contains(t, string(data), "ERROR - error-entry")
}
