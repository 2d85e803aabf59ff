package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"CONFIG_FILE", "PORT", "ENVIRONMENT", "LOG_LEVEL",
	"SUPABASE_URL", "SUPABASE_URL_ANON_KEY", "SUPABASE_JWT_SECRET",
	"MONGODB_URI", "MONGODB_PASSWORD",
	"IMAGE_BACKEND", "UPLOAD_FUNCTION",
	"CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET",
	"EVENT_TIMEZONE", "JOIN_TAB_RECHECK", "JOIN_TAB_GRACE", "ALLOWED_ORIGINS",
}

// clearEnv blanks every key so values from the developer's shell don't leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_URL_ANON_KEY", "anon-key")
	t.Setenv("MONGODB_URI", "mongodb+srv://app:<password>@cluster.example.net")
	t.Setenv("MONGODB_PASSWORD", "pw")
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ImageBackendFunction, cfg.ImageBackend)
	assert.Equal(t, "upload-to-b2", cfg.UploadFunction)
	assert.Equal(t, "@every 1s", cfg.JoinTabRecheck)
	assert.Equal(t, time.Hour, cfg.JoinTabGrace)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_RequiredFields(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("MONGODB_PASSWORD", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "MONGODB_PASSWORD")
}

func TestLoadConfig_YAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
environment: production
event_timezone: Africa/Accra
join_tab_grace: 90m
allowed_origins:
  - https://bashbay.example.com
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port, "environment wins over the file")
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 90*time.Minute, cfg.JoinTabGrace)
	assert.Equal(t, "Africa/Accra", cfg.Location().String())
	assert.Equal(t, []string{"https://bashbay.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad timezone", "EVENT_TIMEZONE", "Mars/Olympus"},
		{"bad schedule", "JOIN_TAB_RECHECK", "every now and then"},
		{"bad grace", "JOIN_TAB_GRACE", "an hour"},
		{"unknown backend", "IMAGE_BACKEND", "ftp"},
		{"cloudinary without credentials", "IMAGE_BACKEND", "cloudinary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_AllowedOriginsList(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}
