package commands

import (
	"context"
	"time"

	"dispatch/internal/core/ports"
)

// MarkPaidCommandHandler moves an order from FulfillmentStarted to
// OutForDelivery, stamping both the payment confirmation and the start of
// the delivery leg.
type MarkPaidCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderStatusPublisher
}

// NewMarkPaidCommandHandler creates a handler for payment-confirmation
// operations. publisher may be nil when status events are not wired.
func NewMarkPaidCommandHandler(uowFactory OrderUoWFactory, publisher ports.OrderStatusPublisher) MarkPaidCommandHandler {
	return MarkPaidCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the mark-paid command with the same driver and status
// guards as fulfillment start.
func (h MarkPaidCommandHandler) Handle(ctx context.Context, command MarkPaidCommand) error {
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
	if err = aggregate.MarkPaid(command.DriverID(), time.Now().UTC()); err != nil {
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
