package v1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateAccessToken("tenant-1", "user-1", time.Now().Add(time.Hour), secret)
	require.NoError(t, err)

	tc, err := Authenticate("Bearer "+token, secret)
	require.NoError(t, err)
	require.Equal(t, "tenant-1", tc.TenantID)
	require.Equal(t, "user-1", tc.UserID)
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	secret := []byte("test-secret")

	_, err := Authenticate("", secret)
	require.Error(t, err)

	_, err = Authenticate("Basic abc", secret)
	require.Error(t, err)

	_, err = Authenticate("Bearer not-a-jwt", secret)
	require.Error(t, err)

	token, err := GenerateAccessToken("tenant-1", "user-1", time.Now().Add(time.Hour), secret)
	require.NoError(t, err)
	_, err = Authenticate("Bearer "+token, []byte("other-secret"))
	require.Error(t, err)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateAccessToken("tenant-1", "user-1", time.Now().Add(-time.Hour), secret)
	require.NoError(t, err)

	_, err = Authenticate("Bearer "+token, secret)
	require.Error(t, err)
}

func TestAuthenticateRequiresTenant(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateAccessToken("", "user-1", time.Now().Add(time.Hour), secret)
	require.NoError(t, err)

	_, err = Authenticate("Bearer "+token, secret)
	require.Error(t, err)
}
