// Package auth hashes account credentials and issues session tokens.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ndewijer/papertrade/internal/apperrors"
)

// HashPassword returns the bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password with a hash produced by HashPassword.
// A mismatch is reported as apperrors.ErrAuthFailure.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return apperrors.ErrAuthFailure
	}
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrAuthFailure, err)
	}
	return nil
}
