package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/metrics"
)

// ClaimOrderCommandHandler performs the atomic claim. The repository's
// Claim method is the race arbiter: the row update succeeds only while the
// order is still unclaimed, so losing drivers get ConflictError no matter
// how the concurrent requests interleave.
type ClaimOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderStatusPublisher
}

// NewClaimOrderCommandHandler creates a handler for claim operations.
// publisher may be nil when status events are not wired.
func NewClaimOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.OrderStatusPublisher) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the claim command.
// Returns ObjectNotFoundError for an unknown order, ConflictError when the
// order is already claimed or the conditional update loses the race, and
// PreconditionFailedError when the order is not in a claimable state.
func (h ClaimOrderCommandHandler) Handle(ctx context.Context, command ClaimOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	metrics.ClaimAttemptsTotal.Inc()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	aggregate, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	loadedStatus := aggregate.Status()

	if err = aggregate.Claim(command.DriverID(), command.DriverName(), time.Now().UTC()); err != nil {
		countClaimConflict(err)
		return err
	}

	if err = ordersRepo.Claim(ctx, aggregate); err != nil {
		countClaimConflict(err)
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if h.publisher != nil {
		_ = h.publisher.PublishStatusChanged(ctx, aggregate, loadedStatus)
	}

	return nil
}

func countClaimConflict(err error) {
	if errors.Is(err, errs.ErrConflict) {
		metrics.ClaimConflictsTotal.Inc()
	}
}
