package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand represents a driver's attempt to take exclusive
// ownership of an unclaimed order. Exactly one of any number of concurrent
// claims for the same order succeeds.
//
// Example:
//
//	cmd, err := NewClaimOrderCommand(orderID, driverID, "Jo Driver")
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // someone else got there first, refresh the list
//	}
type ClaimOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	driverID   kernel.UUID
	driverName string

	guard guard.ConstructorGuard
}

// NewClaimOrderCommand creates a command for a driver to claim an order.
func NewClaimOrderCommand(orderID, driverID kernel.UUID, driverName string) (ClaimOrderCommand, error) {
	cmd := ClaimOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriver(driverID, driverName),
	); err != nil {
		return ClaimOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrClaimOrderCommandIsNotConstructed if validation fails.
func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being claimed.
func (c ClaimOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the identifier of the claiming driver.
func (c ClaimOrderCommand) DriverID() kernel.UUID {
	return c.driverID
}

// DriverName returns the display name recorded on the order at claim time.
func (c ClaimOrderCommand) DriverName() string {
	return c.driverName
}

func (c *ClaimOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ClaimOrderCommand) setDriver(driverID kernel.UUID, driverName string) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if driverName == "" {
		return errs.NewValueIsRequiredError("driver name")
	}

	c.driverID = driverID
	c.driverName = driverName
	return nil
}
