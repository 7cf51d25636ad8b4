package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

func newManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecret)
	require.NoError(t, err)
	return m
}

func TestHashPassword(t *testing.T) {
	t.Run("Successfully hash password", func(t *testing.T) {
		hashed, err := HashPassword("Secret123")

		assert.NoError(t, err)
		assert.NotEqual(t, "Secret123", hashed)
		assert.True(t, CheckPassword(hashed, "Secret123"))
	})

	t.Run("Different hashes for same password", func(t *testing.T) {
		hash1, _ := HashPassword("samePassword1")
		hash2, _ := HashPassword("samePassword1")

		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("Wrong password rejected", func(t *testing.T) {
		hashed, _ := HashPassword("Secret123")

		assert.False(t, CheckPassword(hashed, "secret123"))
		assert.False(t, CheckPassword(hashed, ""))
	})
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	m, err := NewTokenManager("")

	assert.ErrorIs(t, err, ErrEmptyJWTSecret)
	assert.Nil(t, m)
}

func TestIssueAndValidate(t *testing.T) {
	m := newManager(t)
	id := Identity{UserID: 42, Email: "eco@example.com", Role: RoleAdmin}

	pair, err := m.Issue(id)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := m.Validate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "eco@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, tokenTypeAccess, claims.TokenType)
}

func TestValidate_Failures(t *testing.T) {
	m := newManager(t)

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewTokenManager("other-secret")
		token, _ := other.AccessToken(Identity{UserID: 1})

		claims, err := m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := m.Validate("invalid.token.format")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := time.Now().Add(-1 * time.Hour)
		claims := &Claims{
			UserID:    1,
			TokenType: tokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    jwtIssuer,
				Audience:  []string{jwtAudience},
				ExpiresAt: jwt.NewNumericDate(past),
				IssuedAt:  jwt.NewNumericDate(past.Add(-15 * time.Minute)),
			},
		}
		tokenString, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))

		_, err := m.Validate(tokenString)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestRefresh(t *testing.T) {
	m := newManager(t)
	pair, err := m.Issue(Identity{UserID: 7, Email: "a@b.co", Role: RoleUser})
	require.NoError(t, err)

	claims, err := m.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)

	_, err = m.Refresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}
