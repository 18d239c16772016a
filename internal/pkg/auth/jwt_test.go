package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: 24 * time.Hour,
		TokenIssuer:    "classqa.test",
	})
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateToken(Identity{ID: 7, Email: "kenji@example.com", Role: "STUDENT"})
	require.NoError(t, err)

	identity, err := svc.ValidateAndExtractIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: 7, Email: "kenji@example.com", Role: "STUDENT"}, identity)
	assert.Equal(t, int64(86400), svc.ExpiresIn())
}

func TestValidateTokenExpiresAfterLifetime(t *testing.T) {
	svc := newTestJWTService()
	issued := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateToken(Identity{ID: 1, Email: "t@example.com", Role: "TEACHER"})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(23 * time.Hour) }
	_, err = svc.ValidateAndExtractIdentity(token)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = svc.ValidateAndExtractIdentity(token)
	assert.True(t, errors.Is(err, ErrExpiredToken))
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	other := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour})
	token, err := other.GenerateToken(Identity{ID: 1, Email: "t@example.com", Role: "TEACHER"})
	require.NoError(t, err)

	_, err = newTestJWTService().ValidateAndExtractIdentity(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = newTestJWTService().ValidateAndExtractIdentity("not-a-jwt")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("bearer   abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "  ", "Bearer", "Bearer ", "bearer   "} {
		_, err := ExtractBearerToken(header)
		assert.ErrorIs(t, err, ErrMissingToken, header)
	}

	for _, header := range []string{"Basic abc", "abc.def.ghi"} {
		_, err := ExtractBearerToken(header)
		assert.ErrorIs(t, err, ErrInvalidFormat, header)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
