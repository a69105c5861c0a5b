// Package auth issues and verifies access tokens, hashes passwords and
// generates the one-time codes used for email confirmation and password
// recovery. It also provides the HTTP middleware that guards routes.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. Client POSTs /auth/login with loginOrEmail + password
//  2. Server verifies the bcrypt hash and issues a signed access token
//  3. Client sends it back as "Authorization: Bearer <token>"
//  4. RequireAuth / OptionalAuth verify the token and put the user id
//     in the request context
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"sub":"userID","exp":1234567890,"iss":"bloggers-platform"}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
//
// Tokens are never stored server side, so there is no revocation: logging
// out means the client forgets the token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer = "bloggers-platform"

	// DefaultTokenTTL is the access token lifetime when none is configured.
	DefaultTokenTTL = time.Hour
)

// TokenService handles JWT creation and validation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService with the given secret and lifetime.
// A zero ttl means DefaultTokenTTL.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// claims is the JWT payload. "sub" carries the user id.
type claims struct {
	jwt.RegisteredClaims
}

// Issue signs a new access token for userID valid for the configured TTL.
func (s *TokenService) Issue(userID string) (string, error) {
	return s.issueWithDuration(userID, s.ttl)
}

func (s *TokenService) issueWithDuration(userID string, d time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("auth: cannot issue a token without a subject")
	}
	now := s.now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify returns the user id carried by a valid token.
//
// Any failure (malformed, wrong signature, "none" or another algorithm,
// wrong issuer, expired, missing subject) yields ("", false). Callers only
// need to know whether the token is good, not why it is bad.
func (s *TokenService) Verify(tokenStr string) (string, bool) {
	userID, err := s.parse(tokenStr)
	if err != nil {
		return "", false
	}
	return userID, true
}

// parse keeps the detailed error for tests and logs.
func (s *TokenService) parse(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
