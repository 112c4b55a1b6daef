package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestResetTokenIssuer_Issue(t *testing.T) {
	issuer := NewResetTokenIssuer("secret", 30)

	tokenString, err := issuer.Issue("0190a1b2-user", "ana@example.com")

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := issuer.Verify(tokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, "0190a1b2-user", claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestResetTokenIssuer_Verify_InvalidToken(t *testing.T) {
	issuer := NewResetTokenIssuer("secret", 30)

	_, err := issuer.Verify("invalid.token.string")
	assert.Error(t, err)
}

func TestResetTokenIssuer_Verify_ExpiredToken(t *testing.T) {
	issuer := NewResetTokenIssuer("secret", -1)

	tokenString, _ := issuer.Issue("u1", "ana@example.com")

	_, err := issuer.Verify(tokenString)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestResetTokenIssuer_Verify_WrongSecret(t *testing.T) {
	tokenString, _ := NewResetTokenIssuer("secret1", 30).Issue("u1", "ana@example.com")

	_, err := NewResetTokenIssuer("secret2", 30).Verify(tokenString)
	assert.Error(t, err)
}

func TestResetTokenIssuer_Verify_WrongPurpose(t *testing.T) {
	claims := &ResetClaims{
		Email:   "ana@example.com",
		Purpose: "login",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenString, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))

	_, err := NewResetTokenIssuer("secret", 30).Verify(tokenString)
	assert.EqualError(t, err, "invalid token")
}

func TestResetTokenIssuer_Verify_InvalidSigningMethod(t *testing.T) {
	claims := &ResetClaims{
		Purpose: resetTokenPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenString, _ := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte("secret"))

	_, err := NewResetTokenIssuer("secret", 30).Verify(tokenString)
	assert.Error(t, err)
}
