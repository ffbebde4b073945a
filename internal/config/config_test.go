package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DIGITBOARD_CONFIG", "")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", c.Endpoint)
	assert.Equal(t, time.Duration(0), c.RequestTimeout)
	assert.Equal(t, PolicyKeep, c.ErrorPolicy)
	assert.Equal(t, 20.0, c.StrokeWidth)
	assert.True(t, c.KeepOnError())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "endpoint: http://10.0.0.5:9000\nerror_policy: clear\nrequest_timeout: 5s\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	t.Setenv("DIGITBOARD_CONFIG", path)
	t.Setenv("DIGITBOARD_STROKE_WIDTH", "12")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:9000", c.Endpoint)
	assert.False(t, c.KeepOnError())
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
	assert.Equal(t, 12.0, c.StrokeWidth)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("DIGITBOARD_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{Endpoint: "http://x", ErrorPolicy: PolicyClear, StrokeWidth: 20}
	require.NoError(t, base.Validate())

	bad := base
	bad.ErrorPolicy = "sometimes"
	assert.Error(t, bad.Validate())

	bad = base
	bad.StrokeWidth = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.RequestTimeout = -time.Second
	assert.Error(t, bad.Validate())

	bad = base
	bad.Endpoint = " "
	assert.Error(t, bad.Validate())
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	require.NoError(t, SetupLogging("debug"))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	require.NoError(t, SetupLogging(""))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	assert.Error(t, SetupLogging("loud"))
}
