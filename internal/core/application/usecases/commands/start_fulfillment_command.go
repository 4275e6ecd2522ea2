package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrStartFulfillmentCommandIsNotConstructed = errors.New(
	"StartFulfillmentCommand must be created via NewStartFulfillmentCommand constructor",
)

// StartFulfillmentCommand marks that the assigned driver has begun
// preparing the order (shopping, collecting from the store).
type StartFulfillmentCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartFulfillmentCommand creates a command to begin fulfillment of a
// claimed order.
func NewStartFulfillmentCommand(orderID, driverID kernel.UUID) (StartFulfillmentCommand, error) {
	cmd := StartFulfillmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
	); err != nil {
		return StartFulfillmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrStartFulfillmentCommandIsNotConstructed if validation fails.
func (c StartFulfillmentCommand) Validate() error {
	return c.guard.Validate(ErrStartFulfillmentCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being fulfilled.
func (c StartFulfillmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the identifier of the acting driver.
func (c StartFulfillmentCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *StartFulfillmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *StartFulfillmentCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
