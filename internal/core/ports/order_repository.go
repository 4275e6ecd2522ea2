// Package ports defines repository and infrastructure interfaces for the
// dispatch domain. These interfaces establish contracts between the domain
// layer and infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status and assignment state.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	//
	// The write is guarded by the order's previously loaded status: the
	// UPDATE matches only rows still in the status the aggregate was read
	// in, so a concurrent transition surfaces as PreconditionFailedError
	// instead of silently overwriting the newer state.
	Update(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllUnclaimed retrieves all orders available for claiming,
	// oldest first.
	GetAllUnclaimed(ctx context.Context) ([]*order.Order, error)

	// GetAllByDriver retrieves all non-terminal orders currently assigned
	// to the given driver.
	GetAllByDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error)

	// GetAllPendingReview retrieves all orders held at the payment-review
	// gate, oldest first.
	GetAllPendingReview(ctx context.Context) ([]*order.Order, error)

	// Claim atomically assigns the order to the driver. The write succeeds
	// only if the row is still unclaimed and has no driver; a lost race
	// surfaces as ConflictError so the caller knows to refresh its list.
	Claim(ctx context.Context, aggregate *order.Order) error
}
