package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoboard/pkg/config"
)

type sample struct {
	Name    string        `yaml:"name" env:"PKGCFG_TEST_NAME" env-default:"default"`
	Port    int           `yaml:"port" env:"PKGCFG_TEST_PORT" env-default:"8080"`
	Timeout time.Duration `yaml:"timeout" env:"PKGCFG_TEST_TIMEOUT" env-default:"1s"`
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PKGCFG_TEST_PORT", "9090")

	cfg, err := config.Load[sample](context.Background(), "test", "")

	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, time.Second, cfg.Timeout)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-file\nport: 7000\n"), 0o600))
	t.Setenv("PKGCFG_TEST_PORT", "7001")

	cfg, err := config.Load[sample](context.Background(), "test", path)

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Name)
	assert.Equal(t, 7001, cfg.Port)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load[sample](context.Background(), "test", filepath.Join(t.TempDir(), "nope.yaml"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), config.ErrFailedLoadConfiguration)
	})

	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("PKGCFG_TEST_PORT", "not-a-number")

		_, err := config.Load[sample](context.Background(), "test", "")

		require.Error(t, err)
	})
}
