package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppWritesDefaultFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "m3")

	v, err := LoadApp(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	s := AppSettingsFrom(v)
	assert.Equal(t, 30, s.FPS)
	assert.Equal(t, ":23234", s.SSHAddr)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, filepath.Join(dir, "scores.db"), s.DBPath)
}

func TestLoadAppReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "fps: 20\nplayer: alice\nssh:\n  addr: \":2222\"\n")
	t.Setenv("MATCH3_LOG_LEVEL", "debug")

	v, err := LoadApp(dir)
	require.NoError(t, err)

	s := AppSettingsFrom(v)
	assert.Equal(t, 20, s.FPS)
	assert.Equal(t, "alice", s.Player)
	assert.Equal(t, ":2222", s.SSHAddr)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadAppRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "fps: [30\n")

	_, err := LoadApp(dir)
	assert.Error(t, err)
}
