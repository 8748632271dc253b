package auth_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/papertrade/internal/apperrors"
	"github.com/ndewijer/papertrade/internal/auth"
)

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, auth.CheckPassword(hash, "hunter22"))
	assert.ErrorIs(t, auth.CheckPassword(hash, "hunter23"), apperrors.ErrAuthFailure)
	assert.ErrorIs(t, auth.CheckPassword("not-a-hash", "hunter22"), apperrors.ErrAuthFailure)
}

// TestSessions tests issuing and verifying session tokens.
//
// WHY: The account ID inside a session token decides whose ledger a trade
// touches, so tokens must not verify under another key or after expiry.
func TestSessions(t *testing.T) {
	key, err := auth.GenerateKey()
	require.NoError(t, err)

	t.Run("round trips the account ID", func(t *testing.T) {
		s, err := auth.NewSessions(key, time.Hour)
		require.NoError(t, err)

		tok, err := s.Issue("acc-1")
		require.NoError(t, err)

		id, err := s.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, "acc-1", id)
	})

	t.Run("rejects tokens signed with another key", func(t *testing.T) {
		other, err := auth.GenerateKey()
		require.NoError(t, err)

		issuer, err := auth.NewSessions(other, time.Hour)
		require.NoError(t, err)
		verifier, err := auth.NewSessions(key, time.Hour)
		require.NoError(t, err)

		tok, err := issuer.Issue("acc-1")
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		assert.ErrorIs(t, err, apperrors.ErrSessionInvalid)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		s, err := auth.NewSessions(key, time.Nanosecond)
		require.NoError(t, err)

		tok, err := s.Issue("acc-1")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)

		_, err = s.Verify(tok)
		assert.ErrorIs(t, err, apperrors.ErrSessionInvalid)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		s, err := auth.NewSessions(key, time.Hour)
		require.NoError(t, err)

		for _, tok := range []string{"", "   ", "gAAAAABnot-a-token"} {
			_, err := s.Verify(tok)
			assert.ErrorIs(t, err, apperrors.ErrSessionInvalid, "token %q", tok)
		}
	})

	t.Run("rejects a malformed key", func(t *testing.T) {
		_, err := auth.NewSessions("short", time.Hour)
		assert.Error(t, err)
	})
}

func TestLoadOrCreateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "session.key")

	first, err := auth.LoadOrCreateKey(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := auth.LoadOrCreateKey(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = auth.NewSessions(second, time.Hour)
	assert.NoError(t, err)
}
