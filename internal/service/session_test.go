package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)

	token, err := m.Issue(Principal{UserID: 42, Email: "admin@example.com", IsAdmin: true})
	require.NoError(t, err)

	principal, err := m.Parse(token)
	require.NoError(t, err)
	require.Equal(t, uint(42), principal.UserID)
	require.Equal(t, "admin@example.com", principal.Email)
	require.True(t, principal.IsAdmin)
}

func TestSessionRejectsTamperedToken(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)

	token, err := m.Issue(Principal{UserID: 1, Email: "a@example.com", IsAdmin: true})
	require.NoError(t, err)

	_, err = m.Parse(token + "x")
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionRejectsForeignSecret(t *testing.T) {
	issuer := NewSessionManager("secret-a", time.Hour)
	verifier := NewSessionManager("secret-b", time.Hour)

	token, err := issuer.Issue(Principal{UserID: 1, Email: "a@example.com", IsAdmin: true})
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionRejectsExpiredToken(t *testing.T) {
	m := NewSessionManager("secret", time.Millisecond)

	token, err := m.Issue(Principal{UserID: 1, Email: "a@example.com", IsAdmin: true})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = m.Parse(token)
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionRejectsEmptyToken(t *testing.T) {
	m := NewSessionManager("secret", time.Hour)
	_, err := m.Parse("  ")
	require.ErrorIs(t, err, ErrSessionInvalid)
}
