package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	i, err := NewIssuer("test-secret", "etmarket", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return i
}

func TestNewIssuer_EmptySecret(t *testing.T) {
	_, err := NewIssuer("", "etmarket", time.Minute, time.Minute)
	assert.Error(t, err)
}

func TestIssuePairAndParse(t *testing.T) {
	i := newTestIssuer(t)
	pair, err := i.IssuePair(42, "abebe", "admin")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := i.Parse(pair.AccessToken, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "abebe", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.Len(t, claims.ID, 36)

	refresh, err := i.Parse(pair.RefreshToken, TypeRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestParse_Rejects(t *testing.T) {
	i := newTestIssuer(t)
	pair, err := i.IssuePair(1, "u", "user")
	require.NoError(t, err)

	other, err := NewIssuer("other-secret", "etmarket", time.Minute, time.Minute)
	require.NoError(t, err)

	expired := newTestIssuer(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.IssuePair(1, "u", "user")
	require.NoError(t, err)

	cases := []struct {
		name  string
		iss   *Issuer
		token string
		typ   string
	}{
		{"refresh used as access", i, pair.RefreshToken, TypeAccess},
		{"wrong secret", other, pair.AccessToken, TypeAccess},
		{"expired", i, old.AccessToken, TypeAccess},
		{"garbage", i, "not-a-token", TypeAccess},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.iss.Parse(tc.token, tc.typ)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
