package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// OrderStatusPublisher announces order lifecycle transitions to interested
// consumers (storefronts, notification workers). Publishing is best effort:
// callers log failures but never roll back the transition.
type OrderStatusPublisher interface {
	// PublishStatusChanged announces the transition from the given status
	// to the aggregate's current one.
	PublishStatusChanged(ctx context.Context, aggregate *order.Order, from order.Status) error
}
