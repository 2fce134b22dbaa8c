package domain

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned by SetPassword for inputs bcrypt cannot hash.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// User is the owner of the watchlist. Only the first stored user can log in.
type User struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"size:20"`
	Username     string `gorm:"size:20"`
	PasswordHash string `gorm:"size:128"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetPassword replaces the stored hash with a freshly salted bcrypt hash of plaintext.
func (u *User) SetPassword(plaintext string) error {
	if len(plaintext) > 72 {
		return ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword reports whether plaintext matches the stored hash. A user
// without a hash never verifies.
func (u *User) VerifyPassword(plaintext string) bool {
	if u == nil || u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}
