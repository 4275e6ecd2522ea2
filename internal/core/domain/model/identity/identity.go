package identity

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

// ErrIdentityIsNotConstructed is returned when an Identity instance was not
// created through the NewIdentity or RestoreIdentity factory methods.
var ErrIdentityIsNotConstructed = errors.New(
	"Identity must be created via NewIdentity or RestoreIdentity constructor")

// Identity is the aggregate root for an authenticated actor: a driver,
// employee, or administrator. It owns the account password hash, the role
// set, and at most one active bearer token per scope.
//
// Issuing a token for a scope supersedes the previous one for that scope:
// the old secret stops verifying immediately, which gives single-session
// semantics without a revocation list.
type Identity struct {
	id           kernel.UUID
	username     string
	email        string
	displayName  string
	passwordHash []byte
	roles        []Role
	tokens       map[TokenScope]Token

	isConstructed bool
}

// NewIdentity creates a new Identity with no active tokens.
func NewIdentity(
	id kernel.UUID,
	username, email, displayName string,
	passwordHash []byte,
	roles []Role,
) (*Identity, error) {
	ident := &Identity{
		isConstructed: true,
		tokens:        make(map[TokenScope]Token),
	}

	if err := errors.Join(
		ident.setID(id),
		ident.setUsername(username),
		ident.setPasswordHash(passwordHash),
		ident.setRoles(roles),
	); err != nil {
		return nil, err
	}

	ident.email = email
	ident.displayName = displayName
	return ident, nil
}

// RestoreIdentity reconstructs an Identity from persistence, including its
// active tokens.
func RestoreIdentity(
	id kernel.UUID,
	username, email, displayName string,
	passwordHash []byte,
	roles []Role,
	tokens []Token,
) (*Identity, error) {
	ident, err := NewIdentity(id, username, email, displayName, passwordHash, roles)
	if err != nil {
		return nil, err
	}

	for _, t := range tokens {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		ident.tokens[t.Scope()] = t
	}

	return ident, nil
}

// Validate ensures the Identity was created through a factory method.
func (i *Identity) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrIdentityIsNotConstructed
	}
	return nil
}

// ID returns the identity's unique identifier.
func (i *Identity) ID() kernel.UUID {
	return i.id
}

// Username returns the login name.
func (i *Identity) Username() string {
	return i.username
}

// Email returns the account e-mail address.
func (i *Identity) Email() string {
	return i.email
}

// DisplayName returns the human-readable name used in audit notes and
// client responses.
func (i *Identity) DisplayName() string {
	return i.displayName
}

// PasswordHash returns the stored bcrypt hash, for persistence only.
func (i *Identity) PasswordHash() []byte {
	return i.passwordHash
}

// Roles returns the identity's role set.
func (i *Identity) Roles() []Role {
	return i.roles
}

// HasRole reports whether the identity holds the given role.
func (i *Identity) HasRole(role Role) bool {
	for _, r := range i.roles {
		if r == role {
			return true
		}
	}
	return false
}

// Authenticate verifies an account password. Returns an UnauthorizedError on
// mismatch; the message never reveals whether the account exists.
func (i *Identity) Authenticate(password string) error {
	if bcrypt.CompareHashAndPassword(i.passwordHash, []byte(password)) != nil {
		return errs.NewUnauthorizedError("invalid credentials")
	}
	return nil
}

// AuthorizeScope checks that the identity may act in the given scope.
// Pending accounts are refused with an explicit message so the client can
// tell the applicant to wait for approval; everyone else without the scope's
// role (or administrator) gets a generic ForbiddenError.
func (i *Identity) AuthorizeScope(scope TokenScope) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	if i.HasRole(RolePending) {
		return errs.NewForbiddenError("account pending approval")
	}
	if !i.HasRole(scope.requiredRole()) && !i.HasRole(RoleAdministrator) {
		return errs.NewForbiddenError("insufficient permissions")
	}
	return nil
}

// IssueToken authorizes the identity for the scope and issues a fresh bearer
// token, superseding any previous token for that scope. Returns the
// plaintext secret exactly once.
func (i *Identity) IssueToken(scope TokenScope, now time.Time) (string, error) {
	if err := i.AuthorizeScope(scope); err != nil {
		return "", err
	}

	token, secret, err := IssueToken(scope, now)
	if err != nil {
		return "", err
	}

	i.tokens[scope] = token
	return secret, nil
}

// TokenFor returns the active token for the scope, or nil.
func (i *Identity) TokenFor(scope TokenScope) *Token {
	t, ok := i.tokens[scope]
	if !ok {
		return nil
	}
	return &t
}

// VerifyToken checks a presented secret against the identity's token for the
// scope. Fails with an UnauthorizedError when the identity has no token for
// the scope, the hash does not match, or the token has expired.
func (i *Identity) VerifyToken(scope TokenScope, secret string, now time.Time) error {
	t, ok := i.tokens[scope]
	if !ok || !t.Matches(secret, now) {
		return errs.NewUnauthorizedError("invalid or expired token")
	}
	return nil
}

// ClearExpiredTokens drops tokens past their expiry. Returns true when
// anything was removed, so callers know whether to persist.
func (i *Identity) ClearExpiredTokens(now time.Time) bool {
	changed := false
	for scope, t := range i.tokens {
		if t.IsExpired(now) {
			delete(i.tokens, scope)
			changed = true
		}
	}
	return changed
}

// Tokens returns the identity's active tokens, for persistence.
func (i *Identity) Tokens() []Token {
	tokens := make([]Token, 0, len(i.tokens))
	for _, t := range i.tokens {
		tokens = append(tokens, t)
	}
	return tokens
}

func (i *Identity) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Identity) setUsername(username string) error {
	if username == "" {
		return errs.NewValueIsRequiredError("username")
	}
	i.username = username
	return nil
}

func (i *Identity) setPasswordHash(hash []byte) error {
	if len(hash) == 0 {
		return errs.NewValueIsRequiredError("password hash")
	}
	i.passwordHash = hash
	return nil
}

func (i *Identity) setRoles(roles []Role) error {
	if len(roles) == 0 {
		return errs.NewValueIsRequiredError("roles")
	}
	for _, r := range roles {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	i.roles = roles
	return nil
}
