package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8081
  env: production
notifications:
  backend: local
upload:
  max_size: 1024
  reindex_minutes: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, NotificationBackendLocal, cfg.Notifications.Backend)
	assert.Equal(t, int64(1024), cfg.Upload.MaxSize)
	assert.Equal(t, 0, cfg.Upload.ReindexMinutes)
	assert.Equal(t, "./uploads", cfg.Storage.BasePath)
}

func TestLoadFile_RejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("notifications:\n  backend: redis\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_RejectsOriginWithoutScheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "cors:\n  allowed_origins:\n    - dash.example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "dash.example.com")
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("NOTIFICATIONS_BACKEND", "database")
	t.Setenv("DATABASE_URL", "postgres://localhost/flymedia")
	t.Setenv("TASKS_SEED_DEFAULTS", "false")
	t.Setenv("UPLOAD_REINDEX_MINUTES", "5")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, NotificationBackendDatabase, cfg.Notifications.Backend)
	assert.False(t, cfg.Tasks.SeedDefaults)
	assert.Equal(t, 5, cfg.Upload.ReindexMinutes)
}

func TestLoadEnv_DatabaseBackendNeedsURL(t *testing.T) {
	t.Setenv("NOTIFICATIONS_BACKEND", "database")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadEnv()
	assert.Error(t, err)
}
