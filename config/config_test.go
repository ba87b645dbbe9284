package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PASSCODE", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "smoothoperator", cfg.AppName)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 2*time.Hour, cfg.ThreadTTL)
	assert.Equal(t, "openai", cfg.ModelProvider)
	assert.Equal(t, 10, cfg.MaxIterations)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PASSCODE", "secret")
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "60")
	t.Setenv("MODEL_PROVIDER", "anthropic")
	t.Setenv("MAX_ITERATIONS", "5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Minute, cfg.SessionTTL)
	assert.Equal(t, "anthropic", cfg.ModelProvider)
	assert.Equal(t, 5, cfg.MaxIterations)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadValidation(t *testing.T) {
	t.Run("passcode required", func(t *testing.T) {
		t.Setenv("APP_PASSCODE", "")
		_, err := Load()
		assert.ErrorContains(t, err, "APP_PASSCODE")
	})

	t.Run("provider must be known", func(t *testing.T) {
		t.Setenv("APP_PASSCODE", "secret")
		t.Setenv("MODEL_PROVIDER", "cohere")
		_, err := Load()
		assert.ErrorContains(t, err, "MODEL_PROVIDER")
	})

	t.Run("iterations must be positive", func(t *testing.T) {
		t.Setenv("APP_PASSCODE", "secret")
		t.Setenv("MODEL_PROVIDER", "openai")
		t.Setenv("MAX_ITERATIONS", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "MAX_ITERATIONS")
	})
}
