package auth

import (
	"testing"
	"time"

	"github.com/cabinet/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		TokenExpiration: expiration,
		Issuer:          "cabinet-test",
	})
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	userID := uuid.New()

	token, expiresAt, err := svc.Issue(userID, "sara@cabinet.ma")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "sara@cabinet.ma", claims.Email)
	assert.Equal(t, "cabinet-test", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)

	token, _, err := svc.Issue(uuid.New(), "sara@cabinet.ma")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	token, _, err := svc.Issue(uuid.New(), "sara@cabinet.ma")
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:          "another-secret-key-that-differs-00",
		TokenExpiration: 15 * time.Minute,
		Issuer:          "cabinet-test",
	})

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)

	for _, token := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		_, err := svc.Verify(token)
		assert.Error(t, err, "token %q should be rejected", token)
	}
}
