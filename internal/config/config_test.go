package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driverelay/service/internal/config"
)

func noEnvFile(t *testing.T) []string {
	t.Helper()
	return []string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_PROVIDER", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")

	cfg, err := config.Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.ProviderDrive, cfg.Provider)
	assert.Equal(t, int64(100<<20), cfg.MaxUploadBytes)
	assert.False(t, cfg.EnvFileLoaded)
	assert.False(t, cfg.IsProduction())
}

func TestLoadPortFlagOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := config.Load(append(noEnvFile(t), "--port", "7070"))
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("APP_ENV=production\nUPLOAD_TMP_DIR=/var/tmp/relay\n"), 0o600))
	t.Setenv("APP_ENV", "")
	t.Setenv("UPLOAD_TMP_DIR", "")
	os.Unsetenv("APP_ENV")
	os.Unsetenv("UPLOAD_TMP_DIR")

	cfg, err := config.Load([]string{"--env-file", path})
	require.NoError(t, err)

	assert.True(t, cfg.EnvFileLoaded)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/var/tmp/relay", cfg.TempDir)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("STORAGE_PROVIDER", "ftp")

	_, err := config.Load(noEnvFile(t))
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveLimit(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "0")

	_, err := config.Load(noEnvFile(t))
	assert.Error(t, err)
}

func TestDestinationIsReadPerCall(t *testing.T) {
	t.Setenv("STORAGE_PROVIDER", config.ProviderDrive)
	t.Setenv("GOOGLE_DRIVE_FOLDER_ID", "")

	cfg, err := config.Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Empty(t, cfg.Destination())

	t.Setenv("GOOGLE_DRIVE_FOLDER_ID", "folder-123")
	assert.Equal(t, "folder-123", cfg.Destination())
}

func TestDestinationForS3(t *testing.T) {
	t.Setenv("STORAGE_PROVIDER", config.ProviderS3)
	t.Setenv("STORAGE_BUCKET", "uploads")

	cfg, err := config.Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "uploads", cfg.Destination())
}
