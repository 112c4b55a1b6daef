package utils

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	HashingPlain  = "plain"
	HashingBcrypt = "bcrypt"
)

// bcrypt only looks at the first 72 bytes.
const maxBcryptPasswordBytes = 72

var ErrPasswordTooLong = errors.New("password must have at most 72 bytes")

// PasswordHasher turns a password into its stored form and checks candidates
// against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(password, stored string) bool
}

// PlainHasher stores passwords as they are and compares by equality. It is
// the default to stay readable by existing records.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) { return password, nil }

func (PlainHasher) Matches(password, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

// BcryptHasher stores bcrypt hashes.
type BcryptHasher struct{}

func (BcryptHasher) Hash(password string) (string, error) { return HashPassword(password) }

func (BcryptHasher) Matches(password, stored string) bool {
	return CheckPasswordHash(password, stored)
}

// NewPasswordHasher picks the hasher named by mode; unknown modes get plain.
func NewPasswordHasher(mode string) PasswordHasher {
	if mode == HashingBcrypt {
		return BcryptHasher{}
	}
	return PlainHasher{}
}

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	if len(password) > maxBcryptPasswordBytes {
		return "", ErrPasswordTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a password with its bcrypt hash
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
