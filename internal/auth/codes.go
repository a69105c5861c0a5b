package auth

import (
	"time"

	"github.com/google/uuid"
)

const (
	// ConfirmationTTL is how long a registration confirmation code stays valid.
	ConfirmationTTL = time.Hour + 10*time.Minute
	// RecoveryTTL is how long a password recovery code stays valid.
	RecoveryTTL = 24 * time.Hour
)

// CodeIssuer generates single-use codes for email confirmation and password
// recovery. Codes are random UUIDv4 strings; the issuer only decides the
// expiry, storage enforces single use.
type CodeIssuer struct {
	now func() time.Time
}

func NewCodeIssuer() *CodeIssuer {
	return &CodeIssuer{now: time.Now}
}

// NewCodeIssuerAt returns an issuer with a fixed clock, for tests.
func NewCodeIssuerAt(now func() time.Time) *CodeIssuer {
	return &CodeIssuer{now: now}
}

// Confirmation returns a fresh confirmation code and its expiry.
func (c *CodeIssuer) Confirmation() (string, time.Time) {
	return uuid.NewString(), c.now().UTC().Add(ConfirmationTTL)
}

// Recovery returns a fresh password recovery code and its expiry.
func (c *CodeIssuer) Recovery() (string, time.Time) {
	return uuid.NewString(), c.now().UTC().Add(RecoveryTTL)
}

// Now is the issuer's clock; services compare expiries against it.
func (c *CodeIssuer) Now() time.Time {
	return c.now().UTC()
}
