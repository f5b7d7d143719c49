package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/quill/internal/config"
	"github.com/aretw0/quill/pkg/effect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quill.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
fps: 30
symbol_delay: 20ms
confirm_on_skip: true
cache:
  backend: redis
  addr: cache:6379
  ttl: 1h
effects:
  - name: jelly
    kind: wobble
    params: {strength: 0.02, amplitude: 4}
  - name: shake
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 20*time.Millisecond, cfg.SymbolDelay)
	assert.Equal(t, time.Second, cfg.MessageDelay, "unset fields keep their defaults")
	assert.True(t, cfg.ConfirmOnSkip)
	assert.Equal(t, config.CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"jelly", "shake"}, reg.Tags())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Unknown log level", "log_level: loud"},
		{"Zero fps", "fps: 0"},
		{"Negative delay", "symbol_delay: -1s"},
		{"Unknown cache backend", "cache: {backend: disk}"},
		{"Redis without address", "cache: {backend: redis, addr: \"\"}"},
		{"File without directory", "cache: {backend: file, dir: \"\"}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}

	t.Run("Malformed YAML", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "fps: [1"))
		assert.Error(t, err)
	})
}

func TestConfig_RegistryDefaultsToBuiltins(t *testing.T) {
	reg, err := config.Default().Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"wobble", "wave", "shake", "trigger"}, reg.Tags())
}

func TestConfig_RegistryRejectsCaseCollisions(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
effects:
  - name: Jelly
    kind: wobble
  - name: jelly
    kind: shake
`))
	require.NoError(t, err)

	_, err = cfg.Registry()
	assert.ErrorIs(t, err, effect.ErrDuplicateEffect)
}
