// ABOUTME: Admin password checking backed by bcrypt
// ABOUTME: Accepts either a plaintext password (hashed at startup) or a stored bcrypt hash

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordNotConfigured is returned when neither a password nor a hash is set
var ErrPasswordNotConfigured = errors.New("admin password not configured")

// PasswordChecker compares login attempts against the admin password hash
type PasswordChecker struct {
	hash []byte
}

// NewPasswordChecker builds a checker from a bcrypt hash, or from a plaintext
// password when hash is empty.
func NewPasswordChecker(password, hash string) (*PasswordChecker, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("parsing admin password hash: %w", err)
		}
		return &PasswordChecker{hash: []byte(hash)}, nil
	}
	if password == "" {
		return nil, ErrPasswordNotConfigured
	}

	h, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &PasswordChecker{hash: []byte(h)}, nil
}

// Check reports whether password matches. The bcrypt comparison always runs,
// so an empty password takes as long as a wrong one.
func (p *PasswordChecker) Check(password string) bool {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(password)) == nil
}

// HashPassword returns a bcrypt hash suitable for admin_password_hash
func HashPassword(password string) (string, error) {
	if len(password) > 72 {
		return "", errors.New("password exceeds bcrypt's 72 byte limit")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(h), nil
}
