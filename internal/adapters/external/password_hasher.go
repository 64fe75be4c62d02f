package external

import "golang.org/x/crypto/bcrypt"

// BcryptPasswordHasher is the concrete ports.PasswordHasher: spec.md §1
// treats verify(plaintext, hash) as an opaque injected primitive, backed
// here by bcrypt so registration/login are concretely runnable.
type BcryptPasswordHasher struct {
	Cost int
}

// NewBcryptPasswordHasher returns a new BcryptPasswordHasher. A cost of 0
// falls back to bcrypt.DefaultCost.
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}

	return &BcryptPasswordHasher{Cost: cost}
}

// Hash bcrypt-hashes plaintext.
func (h *BcryptPasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.Cost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

// Verify reports whether plaintext matches hash.
func (h *BcryptPasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
