package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", "shopsystem", 1)

	token, expiresAt, err := tm.Generate("user-1", "a@b.com", "Admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "Admin", claims.Role)
	assert.Equal(t, "shopsystem", claims.Issuer)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	tm := NewTokenManager("test-secret", "shopsystem", 1)
	other := NewTokenManager("other-secret", "shopsystem", 1)

	token, _, err := other.Generate("user-1", "a@b.com", "Casher")
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
