package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes key for the duration of the test and restores it after.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "SESSION_SECRET", "ENVIRONMENT", "TIMEZONE", "SOURCE_URL", "ROLLOVER_SPEC"} {
		unsetEnv(t, key)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, defaultSourceURL, cfg.SourceURL)
	assert.Equal(t, "0 0 * * *", cfg.RolloverSpec)
	assert.Len(t, cfg.SessionSecret, 32, "a random key is generated when none is set")
}

func TestFromEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("SOURCE_URL", "https://example.com/src")
	t.Setenv("ROLLOVER_SPEC", "5 0 * * *")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []byte("s3cret"), cfg.SessionSecret)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://example.com/src", cfg.SourceURL)
	assert.Equal(t, "5 0 * * *", cfg.RolloverSpec)
}

func TestFromEnvInvalidTimezone(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("TIMEZONE", "Nowhere/Atlantis")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "Nowhere/Atlantis")
}

func TestLoadEnvFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SESSION_SECRET", "from-env")

	path := filepath.Join(t.TempDir(), "test.env")
	content := "PORT=7070\nTIMEZONE=UTC\nSESSION_SECRET=from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, []byte("from-env"), cfg.SessionSecret, "environment wins over the file")
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}
