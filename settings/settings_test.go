package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var env_keys = []string{
	"STEAMIDEDIT_DIR",
	"STEAMIDEDIT_LOG_LEVEL",
	"STEAMIDEDIT_LOG_FILE",
	"STEAMIDEDIT_STASH",
	"STEAMIDEDIT_WATCH_DELAY",
}

// clear_env unsets every variable Load reads, and puts them back afterwards.
func clear_env(t *testing.T) {
	t.Helper()
	for _, k := range env_keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func write_ini(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, IniName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clear_env(t)
	dir := t.TempDir()

	s, err := load("", filepath.Join(dir, ".env"), filepath.Join(dir, "missing.ini"))
	require.NoError(t, err)

	assert.Equal(t, "info", s.LogLevel)
	assert.False(t, s.LogFile)
	assert.Equal(t, 2*time.Second, s.WatchDelay)
	assert.NotEmpty(t, s.Stash)
	assert.NotEmpty(t, s.Dir)
	assert.Contains(t, []string{FromDefault, FromWorkdir}, s.DirSource)
}

func TestLoadIni(t *testing.T) {
	clear_env(t)
	dir := t.TempDir()
	ini_path := write_ini(t, dir, `
dir = /games/SaveGames
log_level = debug
log_file = true
stash = /tmp/steamidedit.tmp
watch_delay = 5s
`)

	s, err := load("", filepath.Join(dir, ".env"), ini_path)
	require.NoError(t, err)

	assert.Equal(t, "/games/SaveGames", s.Dir)
	assert.Equal(t, FromIni, s.DirSource)
	assert.Equal(t, "debug", s.LogLevel)
	assert.True(t, s.LogFile)
	assert.Equal(t, "/tmp/steamidedit.tmp", s.Stash)
	assert.Equal(t, 5*time.Second, s.WatchDelay)
}

func TestLoadLaterIniWins(t *testing.T) {
	clear_env(t)
	user := t.TempDir()
	local := t.TempDir()
	first := write_ini(t, user, "dir = /from/user\nlog_level = warn\n")
	second := write_ini(t, local, "dir = /from/local\n")

	s, err := load("", filepath.Join(local, ".env"), first, second)
	require.NoError(t, err)
	assert.Equal(t, "/from/local", s.Dir)
	assert.Equal(t, "warn", s.LogLevel)
}

func TestLoadEnvBeatsIni(t *testing.T) {
	clear_env(t)
	dir := t.TempDir()
	ini_path := write_ini(t, dir, "dir = /from/ini\nlog_level = debug\n")
	t.Setenv("STEAMIDEDIT_DIR", "/from/env")
	t.Setenv("STEAMIDEDIT_WATCH_DELAY", "250ms")

	s, err := load("", filepath.Join(dir, ".env"), ini_path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", s.Dir)
	assert.Equal(t, FromEnv, s.DirSource)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 250*time.Millisecond, s.WatchDelay)
}

func TestLoadDotEnv(t *testing.T) {
	clear_env(t)
	dir := t.TempDir()
	env_file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env_file, []byte("STEAMIDEDIT_LOG_LEVEL=error\n"), 0644))

	s, err := load("", env_file)
	require.NoError(t, err)
	assert.Equal(t, "error", s.LogLevel)
}

func TestLoadFlagBeatsEverything(t *testing.T) {
	clear_env(t)
	dir := t.TempDir()
	ini_path := write_ini(t, dir, "dir = /from/ini\n")
	t.Setenv("STEAMIDEDIT_DIR", "/from/env")

	s, err := load("/from/flag", filepath.Join(dir, ".env"), ini_path)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", s.Dir)
	assert.Equal(t, FromFlag, s.DirSource)
}

func TestLoadBadEnv(t *testing.T) {
	clear_env(t)
	dir := t.TempDir()
	t.Setenv("STEAMIDEDIT_WATCH_DELAY", "soon")

	_, err := load("", filepath.Join(dir, ".env"))
	assert.Error(t, err)
}

func TestLoadBadIni(t *testing.T) {
	clear_env(t)
	dir := t.TempDir()
	ini_path := write_ini(t, dir, "[unterminated\n")

	_, err := load("", filepath.Join(dir, ".env"), ini_path)
	assert.Error(t, err)
}
