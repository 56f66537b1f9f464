package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour, 24*time.Hour)

	token, err := codec.Issue("carlos", map[string]interface{}{
		"user_id": uint(7),
		"role":    "ADMIN",
	})
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "carlos", claims.Username)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.EqualValues(t, 7, claims.UserID)
}

func TestVerifyExpired(t *testing.T) {
	codec := NewTokenCodec("test-secret", -time.Minute, 24*time.Hour)

	token, err := codec.Issue("carlos", nil)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour, 24*time.Hour)
	other := NewTokenCodec("another-secret", time.Hour, 24*time.Hour)

	token, err := codec.Issue("carlos", nil)
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour, 24*time.Hour)

	_, err := codec.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssueRefreshOutlivesAccess(t *testing.T) {
	codec := NewTokenCodec("test-secret", -time.Minute, time.Hour)

	refresh, err := codec.IssueRefresh("carlos")
	require.NoError(t, err)

	claims, err := codec.Verify(refresh)
	require.NoError(t, err)
	assert.Equal(t, "carlos", claims.Username)
}
