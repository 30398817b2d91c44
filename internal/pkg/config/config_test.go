package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		JWT:      JWTConfig{Secret: "0123456789abcdef0123456789abcdef", Expire: 24},
		Database: DatabaseConfig{Host: "localhost", User: "feed", DBName: "feed"},
		Oracle:   OracleConfig{Provider: "static", Timeout: time.Second},
		Moderation: ModerationConfig{
			InitialTrust:     50,
			CommunityDivisor: 3,
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := validConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWT.Secret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown oracle provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.Oracle.Provider = "clippy"
		assert.ErrorContains(t, cfg.Validate(), "unknown oracle provider")
	})

	t.Run("gemini without key", func(t *testing.T) {
		cfg := validConfig()
		cfg.Oracle.Provider = "gemini"
		assert.ErrorContains(t, cfg.Validate(), "api key")
	})

	t.Run("initial trust out of range", func(t *testing.T) {
		cfg := validConfig()
		cfg.Moderation.InitialTrust = 101
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero community divisor", func(t *testing.T) {
		cfg := validConfig()
		cfg.Moderation.CommunityDivisor = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := Load("unit-test-no-such-file")
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Moderation.InitialTrust)
	assert.Equal(t, 3.0, cfg.Moderation.CommunityDivisor)
	assert.Equal(t, 20*time.Second, cfg.Oracle.Timeout)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.JWT.Secret)
}
