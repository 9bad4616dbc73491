package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.Seed)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"APP_PORT":             "9090",
		"STORE_DRIVER":         "postgres",
		"DB_HOST":              "db",
		"DB_MAX_CONNECTIONS":   "10",
		"DB_RETRY_DELAY":       "250ms",
		"REDIS_ADDR":           "redis:6379",
		"CORS_ALLOWED_ORIGINS": "https://a.example,https://b.example",
	})
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)

	db := cfg.Database.DBConfig()
	assert.Equal(t, "db", db.Host)
	assert.Equal(t, int32(10), db.MaxConns)
	assert.Equal(t, 250*time.Millisecond, db.RetryDelay)

	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantErr bool
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo"}, true},
		{"sqlite", map[string]string{"STORE_DRIVER": "sqlite"}, false},
		{"production default secret", map[string]string{"APP_ENV": "production"}, true},
		{"production", map[string]string{"APP_ENV": "production", "JWT_SECRET": "s3cret"}, false},
		{"production postgres without password", map[string]string{
			"APP_ENV": "production", "JWT_SECRET": "s3cret", "STORE_DRIVER": "postgres",
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.vars)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
