package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresSecret(t *testing.T) {
	_, err := New("", 0)
	require.Error(t, err)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc, err := New("test-secret", 0)
	require.NoError(t, err)

	userID := uuid.New()
	signed, err := svc.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	resolved, err := svc.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, userID, resolved)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	svc, err := New("test-secret", 0)
	require.NoError(t, err)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(input)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, err := New("secret-one", 0)
	require.NoError(t, err)
	verifier, err := New("secret-two", 0)
	require.NoError(t, err)

	signed, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc, err := New("test-secret", 0)
	require.NoError(t, err)

	issuedAt := time.Now().Add(-25 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	signed, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAcceptsTokenWithinTTL(t *testing.T) {
	svc, err := New("test-secret", 0)
	require.NoError(t, err)

	issuedAt := time.Now().Add(-23 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	signed, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(signed)
	require.NoError(t, err)
}
