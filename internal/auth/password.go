// bcrypt generates a random salt per call and embeds it in the output:
//
//	$2a$10$<22-char salt><31-char hash>
//	 ^   ^
//	 |   cost (10 rounds → 2^10 iterations)
//	 version
//
// The salt prefix is also stored on its own (Credentials.Salt) so the
// identity record keeps the same shape it always had; verification only
// ever needs the full hash.

package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// saltLen is the length of "$2a$10$" plus the 22-char encoded salt.
const saltLen = 29

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// Credentials is what gets persisted for a password. Neither field is
// ever returned by a read model.
type Credentials struct {
	Salt string
	Hash string
}

// PasswordService provides bcrypt hashing and verification.
//
// The cost is a field so tests can use bcrypt.MinCost and stay fast.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService. A cost outside bcrypt's
// accepted range falls back to DefaultCost.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordService{cost: cost}
}

// NewPasswordServiceForTest uses bcrypt.MinCost. Do NOT use in production.
func NewPasswordServiceForTest() *PasswordService {
	return &PasswordService{cost: bcrypt.MinCost}
}

// Hash derives fresh credentials for plaintext. Two calls with the same
// password produce different salts and hashes.
func (p *PasswordService) Hash(plaintext string) (Credentials, error) {
	if len(plaintext) > maxPasswordBytes {
		// bcrypt would silently ignore everything past byte 72
		return Credentials{}, fmt.Errorf("auth: password must be %d bytes or fewer", maxPasswordBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return Credentials{}, fmt.Errorf("auth: hashing password: %w", err)
	}

	h := string(hashed)
	return Credentials{Salt: h[:saltLen], Hash: h}, nil
}

// Verify reports whether plaintext matches the stored hash. The comparison
// is constant time. A malformed stored hash is treated as a mismatch.
func (p *PasswordService) Verify(hash, plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	return err == nil
}
