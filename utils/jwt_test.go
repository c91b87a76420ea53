package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")

	token, err := verifier.Generate(Identity{UserID: "user-1", Email: "a@b.com", Name: "Ana"}, time.Hour)
	require.NoError(t, err)

	identity, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "a@b.com", identity.Email)
	assert.Equal(t, "Ana", identity.Name)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := NewJWTVerifier("secret-a").Generate(Identity{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)

	_, err = NewJWTVerifier("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTExpiredToken(t *testing.T) {
	verifier := NewJWTVerifier("test-secret")

	token, err := verifier.Generate(Identity{UserID: "user-1"}, -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTGarbageToken(t *testing.T) {
	_, err := NewJWTVerifier("test-secret").Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
