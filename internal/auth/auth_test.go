package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret!"))
}

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", 30*time.Minute)

	raw, err := tokens.Issue(7, "nurse1")
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "nurse1", claims.Subject)
	assert.EqualValues(t, 7, claims.UserID)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokens_UniqueIDs(t *testing.T) {
	tokens := NewTokens("test-secret", time.Minute)
	a, err := tokens.Issue(1, "a")
	require.NoError(t, err)
	b, err := tokens.Issue(1, "a")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestTokens_RejectsExpired(t *testing.T) {
	tokens := NewTokens("test-secret", time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, err := tokens.Issue(1, "nurse1")
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RejectsWrongSecret(t *testing.T) {
	raw, err := NewTokens("one", time.Minute).Issue(1, "nurse1")
	require.NoError(t, err)

	_, err = NewTokens("two", time.Minute).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "nurse1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	for _, method := range []jwt.SigningMethod{jwt.SigningMethodHS512, jwt.SigningMethodNone} {
		key := interface{}([]byte("test-secret"))
		if method == jwt.SigningMethodNone {
			key = jwt.UnsafeAllowNoneSignatureType
		}
		raw, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)

		_, err = NewTokens("test-secret", time.Minute).Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, method.Alg())
	}
}

func TestTokens_RejectsGarbage(t *testing.T) {
	_, err := NewTokens("test-secret", time.Minute).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
