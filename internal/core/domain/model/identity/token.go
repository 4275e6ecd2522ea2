package identity

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"golang.org/x/crypto/bcrypt"
)

const (
	// TokenTTL is how long an issued bearer token stays valid.
	TokenTTL = 24 * time.Hour

	// tokenSecretLen is the number of random bytes in a token secret.
	// The secret travels hex-encoded, so callers see twice as many chars.
	tokenSecretLen = 32

	// tokenHashCost is the bcrypt cost used for token and password hashes.
	tokenHashCost = 10
)

// ErrTokenIsNotConstructed is returned when a Token instance was not created
// through the IssueToken or RestoreToken factory methods.
var ErrTokenIsNotConstructed = errors.New("Token must be created via IssueToken or RestoreToken constructor")

// Token is an opaque bearer credential bound to one identity and one scope.
//
// Only the salted bcrypt hash of the secret is ever stored; the plaintext
// secret is returned exactly once, at issue time. Because secrets exist only
// as salted hashes, a presented secret cannot be looked up by key - it must
// be verified against each candidate hash, which is why the authenticator
// scans identities rather than indexing tokens.
type Token struct {
	scope      TokenScope
	secretHash []byte
	expiresAt  time.Time

	guard guard.ConstructorGuard
}

// IssueToken generates a fresh high-entropy token for the given scope.
// Returns the token (carrying only the hash) and the plaintext secret, which
// is never persisted.
func IssueToken(scope TokenScope, now time.Time) (Token, string, error) {
	if err := scope.Validate(); err != nil {
		return Token{}, "", err
	}

	raw := make([]byte, tokenSecretLen)
	if _, err := rand.Read(raw); err != nil {
		return Token{}, "", fmt.Errorf("generating token secret: %w", err)
	}
	secret := hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), tokenHashCost)
	if err != nil {
		return Token{}, "", fmt.Errorf("hashing token secret: %w", err)
	}

	return Token{
		scope:      scope,
		secretHash: hash,
		expiresAt:  now.Add(TokenTTL),
		guard:      guard.NewConstructorGuard(),
	}, secret, nil
}

// RestoreToken reconstructs a Token from persistence.
func RestoreToken(scope TokenScope, secretHash []byte, expiresAt time.Time) (Token, error) {
	if err := scope.Validate(); err != nil {
		return Token{}, err
	}
	if len(secretHash) == 0 {
		return Token{}, errs.NewValueIsRequiredError("secret hash")
	}

	return Token{
		scope:      scope,
		secretHash: secretHash,
		expiresAt:  expiresAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the token was created through a constructor.
func (t Token) Validate() error {
	return t.guard.Validate(ErrTokenIsNotConstructed)
}

// Scope returns the scope the token was issued for.
func (t Token) Scope() TokenScope {
	return t.scope
}

// SecretHash returns the stored bcrypt hash, for persistence only.
func (t Token) SecretHash() []byte {
	return t.secretHash
}

// ExpiresAt returns the expiry instant.
func (t Token) ExpiresAt() time.Time {
	return t.expiresAt
}

// IsExpired reports whether the token is past its expiry at the given time.
func (t Token) IsExpired(now time.Time) bool {
	return !now.Before(t.expiresAt)
}

// Matches reports whether the presented secret belongs to this token and the
// token has not expired. The hash comparison is constant-time (bcrypt).
func (t Token) Matches(secret string, now time.Time) bool {
	if t.IsExpired(now) {
		return false
	}
	return bcrypt.CompareHashAndPassword(t.secretHash, []byte(secret)) == nil
}

// HashPassword hashes an account password with the same cost policy as token
// secrets. Used when provisioning identities.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), tokenHashCost)
}
