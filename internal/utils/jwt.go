package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const resetTokenPurpose = "password_reset"

// ResetClaims are carried by a password-reset token.
type ResetClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// ResetTokenIssuer signs and checks password-reset tokens
type ResetTokenIssuer struct {
	secretKey         string
	expirationMinutes int64
}

// NewResetTokenIssuer creates a new ResetTokenIssuer
func NewResetTokenIssuer(secretKey string, expirationMinutes int64) *ResetTokenIssuer {
	return &ResetTokenIssuer{secretKey: secretKey, expirationMinutes: expirationMinutes}
}

// Issue signs a token for the given user
func (ri *ResetTokenIssuer) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := &ResetClaims{
		Email:   email,
		Purpose: resetTokenPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute * time.Duration(ri.expirationMinutes))),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ri.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify parses a reset token and checks its signature, expiry and purpose
func (ri *ResetTokenIssuer) Verify(tokenString string) (*ResetClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ri.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*ResetClaims); ok && token.Valid && claims.Purpose == resetTokenPurpose {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
