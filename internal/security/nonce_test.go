package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNonceRoundTrip(t *testing.T) {
	now := time.Now()

	nonce, err := IssueNonce("secret", "upload:evt-1", 10*time.Minute, now)
	require.NoError(t, err)

	require.NoError(t, VerifyNonce("secret", "upload:evt-1", nonce, now))
}

func TestNonceWrongContext(t *testing.T) {
	now := time.Now()

	nonce, err := IssueNonce("secret", "upload:evt-1", 10*time.Minute, now)
	require.NoError(t, err)

	err = VerifyNonce("secret", "upload:evt-2", nonce, now)
	require.ErrorIs(t, err, ErrNonceInvalid)

	err = VerifyNonce("other-secret", "upload:evt-1", nonce, now)
	require.ErrorIs(t, err, ErrNonceInvalid)
}

func TestNonceExpiry(t *testing.T) {
	now := time.Now()

	nonce, err := IssueNonce("secret", "moderate:approve", time.Minute, now)
	require.NoError(t, err)

	require.NoError(t, VerifyNonce("secret", "moderate:approve", nonce, now.Add(30*time.Second)))

	err = VerifyNonce("secret", "moderate:approve", nonce, now.Add(2*time.Minute))
	require.ErrorIs(t, err, ErrNonceExpired)
}

func TestNonceMalformed(t *testing.T) {
	for _, nonce := range []string{"", "garbage", "a.b", "a.b.c.d", "notanumber.salt.sig"} {
		err := VerifyNonce("secret", "upload:evt-1", nonce, time.Now())
		require.ErrorIs(t, err, ErrNonceInvalid, "nonce=%q", nonce)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	encoded, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	ok, err := VerifyPassword("correct horse battery staple", encoded)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyPassword("wrong password", encoded)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyPasswordBadFormat(t *testing.T) {
	_, err := VerifyPassword("anything", "not-an-encoded-hash")
	require.Error(t, err)
}
