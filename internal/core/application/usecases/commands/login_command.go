package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/identity"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrLoginCommandIsNotConstructed = errors.New(
	"LoginCommand must be created via NewLoginCommand constructor",
)

// LoginCommand represents a credential exchange request: a username and
// password traded for a fresh opaque access token in one scope.
//
// Example:
//
//	cmd, err := NewLoginCommand("driver-jo", "secret", identity.ScopeDriver)
//	if err != nil {
//	    return fmt.Errorf("invalid login request: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type LoginCommand struct { //nolint:recvcheck //using for validation
	username string
	password string
	scope    identity.TokenScope

	guard guard.ConstructorGuard
}

// NewLoginCommand creates a login command for the given scope.
// Validates that username and password are present and the scope is known.
func NewLoginCommand(username, password string, scope identity.TokenScope) (LoginCommand, error) {
	cmd := LoginCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUsername(username),
		cmd.setPassword(password),
		cmd.setScope(scope),
	); err != nil {
		return LoginCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrLoginCommandIsNotConstructed if validation fails.
func (c LoginCommand) Validate() error {
	return c.guard.Validate(ErrLoginCommandIsNotConstructed)
}

// Username returns the login name presented by the client.
func (c LoginCommand) Username() string {
	return c.username
}

// Password returns the plaintext password presented by the client.
func (c LoginCommand) Password() string {
	return c.password
}

// Scope returns the token scope the client is logging in to.
func (c LoginCommand) Scope() identity.TokenScope {
	return c.scope
}

func (c *LoginCommand) setUsername(username string) error {
	if username == "" {
		return errs.NewValueIsRequiredError("username")
	}

	c.username = username
	return nil
}

func (c *LoginCommand) setPassword(password string) error {
	if password == "" {
		return errs.NewValueIsRequiredError("password")
	}

	c.password = password
	return nil
}

func (c *LoginCommand) setScope(scope identity.TokenScope) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	c.scope = scope
	return nil
}
