package commands

import (
	"context"
	"time"

	"dispatch/internal/core/ports"
)

// ConfirmOrderCommandHandler applies an employee's review verdict to an
// order held at the payment-review gate.
type ConfirmOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderStatusPublisher
}

// NewConfirmOrderCommandHandler creates a handler for review verdicts.
// publisher may be nil when status events are not wired.
func NewConfirmOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.OrderStatusPublisher) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the review verdict.
// Returns PreconditionFailedError when the order has already left the
// PendingReview status, including the case where another employee resolved
// it concurrently.
func (h ConfirmOrderCommandHandler) Handle(ctx context.Context, command ConfirmOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

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
	now := time.Now().UTC()

	if command.Action() == ReviewApprove {
		err = aggregate.Approve(command.ReviewerName(), now)
	} else {
		err = aggregate.Reject(command.ReviewerName(), now)
	}
	if err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, aggregate, loadedStatus); err != nil {
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
