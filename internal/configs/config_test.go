package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Rest.PORT)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Rest.CORSAllowedOrigins)
	assert.Equal(t, "http://localhost:3000/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 12, cfg.Listings.PageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Listings.FilterDebounce)
	assert.False(t, cfg.FluentBit.Enabled)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("API_BASE_URL", "http://api.test/api/")
	t.Setenv("PAGE_SIZE", "-3")
	t.Setenv("FILTER_DEBOUNCE_MS", "250")
	t.Setenv("FLUENTBIT_ENABLED", "true")
	t.Setenv("FLUENTBIT_HOST", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Rest.PORT)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Rest.CORSAllowedOrigins)
	assert.Equal(t, "http://api.test/api", cfg.API.BaseURL)
	assert.Equal(t, 12, cfg.Listings.PageSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Listings.FilterDebounce)
	assert.False(t, cfg.FluentBit.Enabled, "fluent bit without host is disabled")
}

func TestLoadConfig_FromDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SESSION_FILE=/tmp/rental-session\nAPP_NAME=rental-test\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SESSION_FILE")
		os.Unsetenv("APP_NAME")
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/rental-session", cfg.Session.FilePath)
	assert.Equal(t, "rental-test", cfg.AppName)
}
