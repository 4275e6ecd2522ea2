package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// LoginResult carries the freshly issued token and the identity it belongs
// to. The secret appears here exactly once; only its hash is persisted.
type LoginResult struct {
	Token       string
	UserID      kernel.UUID
	DisplayName string
}

// LoginCommandHandler exchanges credentials for a scope-bound access token.
// Issuing a token supersedes any previous token the identity held for the
// same scope.
type LoginCommandHandler struct {
	uowFactory IdentityUoWFactory
}

// NewLoginCommandHandler creates a handler for login operations.
func NewLoginCommandHandler(uowFactory IdentityUoWFactory) LoginCommandHandler {
	return LoginCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the login command.
//
// An unknown username and a wrong password both surface as UnauthorizedError
// so responses do not reveal which accounts exist. A known account whose
// roles do not admit the requested scope fails with ForbiddenError instead.
func (h LoginCommandHandler) Handle(ctx context.Context, command LoginCommand) (LoginResult, error) {
	if err := command.Validate(); err != nil {
		return LoginResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return LoginResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	identityRepo := uow.IdentityRepository()

	account, err := identityRepo.GetByUsername(ctx, command.Username())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return LoginResult{}, errs.NewUnauthorizedError("invalid credentials")
	}
	if err != nil {
		return LoginResult{}, err
	}

	if err = account.Authenticate(command.Password()); err != nil {
		return LoginResult{}, err
	}

	if err = account.AuthorizeScope(command.Scope()); err != nil {
		return LoginResult{}, err
	}

	secret, err := account.IssueToken(command.Scope(), time.Now().UTC())
	if err != nil {
		return LoginResult{}, err
	}

	if err = identityRepo.Update(ctx, account); err != nil {
		return LoginResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		Token:       secret,
		UserID:      account.ID(),
		DisplayName: account.DisplayName(),
	}, nil
}
