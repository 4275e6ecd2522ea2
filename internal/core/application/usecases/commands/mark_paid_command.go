package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrMarkPaidCommandIsNotConstructed = errors.New(
	"MarkPaidCommand must be created via NewMarkPaidCommand constructor",
)

// MarkPaidCommand records that payment for the order has been confirmed at
// pickup and the driver is heading out for delivery.
type MarkPaidCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkPaidCommand creates a command to confirm payment and start the
// delivery leg.
func NewMarkPaidCommand(orderID, driverID kernel.UUID) (MarkPaidCommand, error) {
	cmd := MarkPaidCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
	); err != nil {
		return MarkPaidCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrMarkPaidCommandIsNotConstructed if validation fails.
func (c MarkPaidCommand) Validate() error {
	return c.guard.Validate(ErrMarkPaidCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being paid.
func (c MarkPaidCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the identifier of the acting driver.
func (c MarkPaidCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *MarkPaidCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *MarkPaidCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
