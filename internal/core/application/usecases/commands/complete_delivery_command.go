package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand finishes a delivery with proof-of-delivery
// capture. The id front and signature payloads are mandatory; the id back
// payload is optional. Payloads are data-URI strings as uploaded by the
// driver's device.
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	driverID  kernel.UUID
	idType    string
	idFront   string
	idBack    string
	signature string

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand creates a command to complete a delivery.
// Validates that the identification type, id front payload and signature
// payload are present.
func NewCompleteDeliveryCommand(
	orderID, driverID kernel.UUID,
	idType, idFront, idBack, signature string,
) (CompleteDeliveryCommand, error) {
	cmd := CompleteDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setDriverID(driverID),
		cmd.setProof(idType, idFront, idBack, signature),
	); err != nil {
		return CompleteDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCompleteDeliveryCommandIsNotConstructed if validation fails.
func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being completed.
func (c CompleteDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the identifier of the acting driver.
func (c CompleteDeliveryCommand) DriverID() kernel.UUID {
	return c.driverID
}

// IDType returns the kind of identification document shown at handover.
func (c CompleteDeliveryCommand) IDType() string {
	return c.idType
}

// IDFront returns the id document front payload.
func (c CompleteDeliveryCommand) IDFront() string {
	return c.idFront
}

// IDBack returns the optional id document back payload; may be empty.
func (c CompleteDeliveryCommand) IDBack() string {
	return c.idBack
}

// Signature returns the recipient signature payload.
func (c CompleteDeliveryCommand) Signature() string {
	return c.signature
}

func (c *CompleteDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CompleteDeliveryCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *CompleteDeliveryCommand) setProof(idType, idFront, idBack, signature string) error {
	if idType == "" {
		return errs.NewValueIsRequiredError("id type")
	}
	if idFront == "" {
		return errs.NewValueIsRequiredError("id front payload")
	}
	if signature == "" {
		return errs.NewValueIsRequiredError("signature payload")
	}

	c.idType = idType
	c.idFront = idFront
	c.idBack = idBack
	c.signature = signature
	return nil
}
