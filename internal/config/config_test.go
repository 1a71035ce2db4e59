package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:            "8480",
		JWTSecret:       "secure-secret-at-least-32-chars-long",
		UpstreamBaseURL: "http://localhost:4000/api/v1",
		LikeStoreDriver: "auto",
		Env:             "development",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing upstream base URL", func(c *Config) { c.UpstreamBaseURL = "" }, true},
		{"missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"unknown like store driver", func(c *Config) { c.LikeStoreDriver = "memcached" }, true},
		{"redis like store driver", func(c *Config) { c.LikeStoreDriver = "redis" }, false},
		{"local like store driver", func(c *Config) { c.LikeStoreDriver = "local" }, false},
		{"default secret rejected in production", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"short secret rejected in production", func(c *Config) {
			c.Env = "prod"
			c.JWTSecret = "short"
		}, true},
		{"strong secret accepted in production", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "a-strong-production-secret-of-enough-length"
		}, false},
		{"short secret tolerated in development", func(c *Config) { c.JWTSecret = "short" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	defer os.Unsetenv("APP_ENV")
	os.Setenv("APP_ENV", "development")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8480", c.Port)
	assert.Equal(t, "http://localhost:4000/api/v1", c.UpstreamBaseURL)
	assert.Equal(t, "http://localhost:4000", c.AssetOrigin)
	assert.Equal(t, "auto", c.LikeStoreDriver)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, 20, c.FeedPageSize)
	assert.False(t, c.TracingEnabled)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	defer viper.Reset()
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("UPSTREAM_BASE_URL")
	defer os.Unsetenv("LIKE_STORE_DRIVER")

	os.Setenv("APP_ENV", "development")
	os.Setenv("UPSTREAM_BASE_URL", "http://social.internal/api/v1")
	os.Setenv("LIKE_STORE_DRIVER", "local")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://social.internal/api/v1", c.UpstreamBaseURL)
	assert.Equal(t, "local", c.LikeStoreDriver)
}
