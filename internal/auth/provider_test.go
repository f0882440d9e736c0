package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invixio/invixio/internal/config"
)

func newTestProvider(secret string) Provider {
	cfg := config.GetDefaultConfig()
	cfg.Auth.Secret = secret
	return NewProvider(cfg)
}

func TestTokenRoundTrip(t *testing.T) {
	p := newTestProvider("test-secret")

	token, err := p.GenerateToken("user_1", "owner@example.test", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := p.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "owner@example.test", claims.Email)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := newTestProvider("secret-a").GenerateToken("user_1", "", time.Hour)
	require.NoError(t, err)

	_, err = newTestProvider("secret-b").ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	p := newTestProvider("test-secret")

	token, err := p.GenerateToken("user_1", "", -time.Minute)
	require.NoError(t, err)

	_, err = p.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	p := newTestProvider("test-secret")

	_, err := p.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}
