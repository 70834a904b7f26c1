package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setArgs(t *testing.T, args ...string) {
	t.Helper()
	saved := os.Args
	os.Args = append([]string{"mockserver"}, args...)
	t.Cleanup(func() { os.Args = saved })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "/api", c.PathPrefix)
	assert.Equal(t, time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 30*time.Minute, c.RefreshTokenValidityDuration)
}

func TestParseFlags(t *testing.T) {
	setArgs(t, "-a", ":9090", "-p", "", "-s", "k", "-t", "5", "-r", "2", "-v")

	var c Config
	c.LoadDefaults()
	require.NotPanics(t, func() { parseFlags(&c) })

	assert.Equal(t, ":9090", c.Addr)
	assert.Equal(t, "k", c.SecretKey)
	assert.Equal(t, 5*time.Second, c.AccessTokenValidityDuration)
	assert.Equal(t, 2*time.Minute, c.RefreshTokenValidityDuration)
	assert.True(t, c.Debug)
}

func TestParseFlags_BadValue(t *testing.T) {
	setArgs(t, "-t", "soon")

	var c Config
	c.LoadDefaults()
	assert.Panics(t, func() { parseFlags(&c) })
}

func TestLoadConfig_JSONThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"addr": ":7000",
		"path_prefix": "",
		"secret_key": "json-secret",
		"access_token_validity_duration": "10s",
		"log_backend": "slog"
	}`), 0o600))
	setArgs(t, "-c", path, "-a", ":7001")

	c := LoadConfig()
	assert.Equal(t, ":7001", c.Addr)
	assert.Equal(t, "", c.PathPrefix)
	assert.Equal(t, "json-secret", c.SecretKey)
	assert.Equal(t, 10*time.Second, c.AccessTokenValidityDuration)
	assert.Equal(t, 30*time.Minute, c.RefreshTokenValidityDuration)
	assert.Equal(t, "slog", c.LogBackend)
}
