package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewTokenManager(t *testing.T) {
	_, err := NewTokenManager("", 0)
	assert.Error(t, err)

	_, err = NewTokenManager("secret", -time.Minute)
	assert.Error(t, err)

	_, err = NewTokenManager("secret", 0)
	assert.NoError(t, err)
}

func TestIssueAndResolve(t *testing.T) {
	tokens, err := NewTokenManager("secret", 0)
	require.NoError(t, err)

	token, err := tokens.IssueToken("luke@rebels.org")
	require.NoError(t, err)

	email, err := tokens.ResolveIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, "luke@rebels.org", email)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, "luke@rebels.org", claims.Email)
	assert.Nil(t, claims.ExpiresAt)
}

func TestResolveRejects(t *testing.T) {
	tokens, err := NewTokenManager("secret", 0)
	require.NoError(t, err)
	other, err := NewTokenManager("other-secret", 0)
	require.NoError(t, err)

	forged, err := other.IssueToken("luke@rebels.org")
	require.NoError(t, err)

	expiring, err := NewTokenManager("secret", time.Millisecond)
	require.NoError(t, err)
	expired, err := expiring.IssueToken("luke@rebels.org")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "luke@rebels.org"},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":       "",
		"garbage":     "not-a-token",
		"wrong key":   forged,
		"expired":     expired,
		"alg none":    unsigned,
		"no identity": anonymous,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.ResolveIdentity(token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("use-the-force")
	require.NoError(t, err)
	assert.NotEqual(t, "use-the-force", hash)

	assert.True(t, hasher.Matches(hash, "use-the-force"))
	assert.False(t, hasher.Matches(hash, "dark-side"))
	assert.False(t, hasher.Matches("not-a-hash", "use-the-force"))
}

func TestPasswordHasherCostFallback(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(bcrypt.MinCost).cost)
}
