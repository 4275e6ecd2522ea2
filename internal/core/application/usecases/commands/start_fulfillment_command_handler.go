package commands

import (
	"context"
	"time"

	"dispatch/internal/core/ports"
)

// StartFulfillmentCommandHandler moves a claimed order into fulfillment.
// Only the driver recorded on the order may perform the transition.
type StartFulfillmentCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderStatusPublisher
}

// NewStartFulfillmentCommandHandler creates a handler for fulfillment-start
// operations. publisher may be nil when status events are not wired.
func NewStartFulfillmentCommandHandler(uowFactory OrderUoWFactory, publisher ports.OrderStatusPublisher) StartFulfillmentCommandHandler {
	return StartFulfillmentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the start-fulfillment command.
// Returns ForbiddenError when the caller is not the assigned driver and
// PreconditionFailedError when the order is not in Claimed status. The
// update re-checks the loaded status in its row guard, so a concurrent
// transition also surfaces as PreconditionFailedError.
func (h StartFulfillmentCommandHandler) Handle(ctx context.Context, command StartFulfillmentCommand) error {
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
	if err = aggregate.StartFulfillment(command.DriverID(), time.Now().UTC()); err != nil {
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
