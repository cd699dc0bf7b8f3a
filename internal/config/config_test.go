package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := loadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.AutoMigrate)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnv_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := loadFromEnv()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "8088")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("PROMETHEUS_ENABLED", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := loadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.HTTPPort)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.PrometheusEnabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "0.0.0.0:8088", cfg.Addr())
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"int", "HTTP_PORT", "eighty"},
		{"bool", "AUTO_MIGRATE", "maybe"},
		{"duration", "JWT_EXPIRY", "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", testSecret)
			t.Setenv(tt.key, tt.val)

			_, err := loadFromEnv()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("HTTP_PORT", "70000")
	t.Setenv("LOG_LEVEL", "verbose")

	cfg, err := loadFromEnv()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_PORT")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
