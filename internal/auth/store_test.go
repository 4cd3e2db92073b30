package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, err)
	return s
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 42,
		"exp":     exp.Unix(),
	})
	str, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return str
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("tok-123"))

	// Fresh store against the same file sees the persisted token.
	s2, err := NewStore(s.path)
	require.NoError(t, err)
	require.NoError(t, s2.Load())
	assert.Equal(t, "tok-123", s2.Token())
}

func TestStore_LoadMissingFileIsEmptyNotError(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Load())
	assert.Empty(t, s.Token())
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("tok-123"))
	require.NoError(t, s.Clear())
	assert.Empty(t, s.Token())

	// Clearing twice must not fail on the missing file.
	require.NoError(t, s.Clear())

	s2, err := NewStore(s.path)
	require.NoError(t, err)
	require.NoError(t, s2.Load())
	assert.Empty(t, s2.Token())
}

func TestStore_ExpiresAt(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.ExpiresAt()
	assert.ErrorIs(t, err, ErrNoToken)

	exp := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	require.NoError(t, s.Save(signedToken(t, exp)))

	got, ok, err := s.ExpiresAt()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, exp.Unix(), got.Unix())
}

func TestStore_Expired(t *testing.T) {
	now := time.Now()

	t.Run("past exp claim", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.Save(signedToken(t, now.Add(-time.Hour))))
		assert.True(t, s.Expired(now))
	})

	t.Run("future exp claim", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.Save(signedToken(t, now.Add(time.Hour))))
		assert.False(t, s.Expired(now))
	})

	t.Run("opaque token never counts as expired", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.Save("not-a-jwt"))
		assert.False(t, s.Expired(now))
	})
}
