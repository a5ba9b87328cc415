package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "taskman.log")

	log, closer, err := Open(path, slog.LevelInfo)
	require.NoError(t, err)
	log.Info("tasks loaded", "count", 3)
	log.Debug("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tasks loaded")
	assert.Contains(t, string(data), "count=3")
	assert.NotContains(t, string(data), "hidden")
}

func TestOpen_EmptyPathDiscards(t *testing.T) {
	log, closer, err := Open("", slog.LevelDebug)
	require.NoError(t, err)
	log.Info("nothing")
	assert.NoError(t, closer.Close())
}
