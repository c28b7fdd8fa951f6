package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier compares a stored hash with a submitted password.
type PasswordVerifier interface {
	// Compare returns nil when password matches hashedPassword.
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the PasswordVerifier interface using bcrypt.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// timingHash is compared against when the username is unknown so both
// failure paths cost one bcrypt comparison.
var timingHash = sync.OnceValue(func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("taskdesk-timing-equalizer"), bcrypt.DefaultCost)
	if err != nil {
		// ALLOW-PANIC: bcrypt only fails on oversized input or invalid cost
		panic(err)
	}
	return string(h)
})
