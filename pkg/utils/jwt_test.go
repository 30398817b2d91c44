package utils

import (
	"testing"
	"trust_feed/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "0123456789abcdef0123456789abcdef"
	config.GlobalConfig.JWT.Expire = 1

	token, expireAt, err := GenerateToken("5b0f3c5e-7d4a-4a59-9b0b-0c2a7f1f4a11")
	require.NoError(t, err)
	require.NotNil(t, expireAt)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "5b0f3c5e-7d4a-4a59-9b0b-0c2a7f1f4a11", claims.UserID)

	t.Run("wrong secret", func(t *testing.T) {
		config.GlobalConfig.JWT.Secret = "ffffffffffffffffffffffffffffffff"
		defer func() { config.GlobalConfig.JWT.Secret = "0123456789abcdef0123456789abcdef" }()
		_, err := ParseToken(token)
		assert.Error(t, err)
	})
}
