package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("test environment defaults", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "test")

		cfg, err := New()
		require.NoError(t, err)

		assert.Equal(t, "test", cfg.Environment)
		assert.Equal(t, ":memory:", cfg.DatabaseFilePath)
		assert.Equal(t, 1, cfg.DatabaseConnectRetryCount)
		assert.Equal(t, 7480, cfg.ServerPort)
		assert.Equal(t, 5*time.Second, cfg.DatabaseBusyTimeout)
		assert.NotEmpty(t, cfg.Hostname)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "test")
		t.Setenv("WATCHLOG_SERVER_PORT", "9000")
		t.Setenv("WATCHLOG_DATABASE_DEBUG", "true")

		cfg, err := New()
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.ServerPort)
		assert.True(t, cfg.DatabaseDebug)
	})

	t.Run("config file overrides defaults but not env vars", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		err := os.WriteFile(path, []byte("server_port: 8100\njwt_secret: from-file\n"), 0644)
		require.NoError(t, err)

		t.Setenv("ENVIRONMENT", "test")
		t.Setenv("CONFIG_PATH", path)
		t.Setenv("WATCHLOG_SERVER_PORT", "8200")

		cfg, err := New()
		require.NoError(t, err)

		assert.Equal(t, 8200, cfg.ServerPort)
		assert.Equal(t, "from-file", cfg.JWTSecret)
	})
}
