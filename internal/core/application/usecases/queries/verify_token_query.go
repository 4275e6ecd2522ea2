package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/identity"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrVerifyTokenQueryIsNotConstructed = errors.New(
	"VerifyTokenQuery must be created via NewVerifyTokenQuery constructor",
)

// VerifyTokenQuery resolves a presented bearer secret to the identity that
// holds it, within one scope.
type VerifyTokenQuery struct { //nolint:recvcheck //using for validation
	scope  identity.TokenScope
	secret string

	guard guard.ConstructorGuard
}

// NewVerifyTokenQuery creates a token verification query.
func NewVerifyTokenQuery(scope identity.TokenScope, secret string) (VerifyTokenQuery, error) {
	if err := scope.Validate(); err != nil {
		return VerifyTokenQuery{}, err
	}
	if secret == "" {
		return VerifyTokenQuery{}, errs.NewValueIsRequiredError("token")
	}

	return VerifyTokenQuery{
		scope:  scope,
		secret: secret,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrVerifyTokenQueryIsNotConstructed if validation fails.
func (q VerifyTokenQuery) Validate() error {
	return q.guard.Validate(ErrVerifyTokenQueryIsNotConstructed)
}

// Scope returns the scope the token must have been issued for.
func (q VerifyTokenQuery) Scope() identity.TokenScope {
	return q.scope
}

// Secret returns the opaque secret presented by the client.
func (q VerifyTokenQuery) Secret() string {
	return q.secret
}

// VerifyTokenQueryResponse identifies the authenticated principal.
type VerifyTokenQueryResponse struct {
	UserID      kernel.UUID
	Username    string
	DisplayName string
	Roles       []identity.Role
}
