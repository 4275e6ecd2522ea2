package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/identity"
	"dispatch/internal/core/domain/model/kernel"
)

// IdentityRepository defines the persistence contract for identity
// aggregates: drivers, employees and administrators together with their
// issued access tokens.
type IdentityRepository interface {
	// Add persists a new identity aggregate to storage.
	Add(ctx context.Context, aggregate *identity.Identity) error

	// Update persists changes to an existing identity aggregate,
	// including token issuance and supersession.
	Update(ctx context.Context, aggregate *identity.Identity) error

	// Get retrieves an identity aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*identity.Identity, error)

	// GetByUsername retrieves an identity by its login name.
	// Returns ObjectNotFoundError when no such identity exists.
	GetByUsername(ctx context.Context, username string) (*identity.Identity, error)

	// GetAllWithTokenForScope retrieves every identity holding an
	// unexpired token for the given scope. Tokens are opaque and hashed,
	// so verification walks these candidates comparing the presented
	// secret against each stored hash.
	GetAllWithTokenForScope(ctx context.Context, scope identity.TokenScope, now time.Time) ([]*identity.Identity, error)

	// ClearExpiredTokens removes all tokens whose expiry is at or before
	// now. Returns the number of tokens removed.
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}
