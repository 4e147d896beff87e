package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword rejects blank passwords before they reach bcrypt.
var ErrEmptyPassword = errors.New("password cannot be empty")

// HashPassword hashes a plaintext password with the configured cost.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	if plain == "" {
		return ErrEmptyPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
