package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dataset.txt", cfg.DatasetPath)
	assert.Equal(t, "companion.db", cfg.DBPath)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Zero(t, cfg.AutosaveInterval)
	assert.Equal(t, 720*time.Hour, cfg.ActivityRetention)
	assert.Equal(t, 60, cfg.RateLimit)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, int64(8<<20), cfg.MaxImagePixels)
	assert.True(t, cfg.LoadOnStart)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("COMPANION_PORT", "9090")
	t.Setenv("COMPANION_DATASET_PATH", "/tmp/lines.txt")
	t.Setenv("COMPANION_AUTOSAVE_INTERVAL", "5m")
	t.Setenv("COMPANION_TOKEN", "secret")
	t.Setenv("COMPANION_TIMEZONE", "Europe/London")
	t.Setenv("COMPANION_SEED", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/lines.txt", cfg.DatasetPath)
	assert.Equal(t, 5*time.Minute, cfg.AutosaveInterval)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, "Europe/London", cfg.Location().String())
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"COMPANION_AUTOSAVE_INTERVAL", "-1m"},
		{"COMPANION_ACTIVITY_RETENTION", "0s"},
		{"COMPANION_RATE_LIMIT", "0"},
		{"COMPANION_MAX_UPLOAD_BYTES", "-5"},
		{"COMPANION_MAX_IMAGE_PIXELS", "0"},
		{"COMPANION_TIMEZONE", "Not/AZone"},
		{"COMPANION_RATE_LIMIT", "many"},
	}

	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidToken(t *testing.T) {
	cfg := &Config{Token: "secret"}

	tests := []struct {
		token string
		want  bool
	}{
		{"secret", true},
		{"invalid", false},
		{"", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, cfg.ValidToken(tc.token), "ValidToken(%q)", tc.token)
	}

	open := &Config{}
	assert.False(t, open.ValidToken(""))
}
