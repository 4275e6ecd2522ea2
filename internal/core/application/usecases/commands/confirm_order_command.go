package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ReviewAction is the employee's verdict on an order held at the
// payment-review gate.
type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

// ConfirmOrderCommand resolves the payment-review gate for one order:
// approve releases it to the unclaimed pool, reject cancels it.
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	action       ReviewAction
	reviewerName string

	guard guard.ConstructorGuard
}

// NewConfirmOrderCommand creates a command carrying an employee's review
// verdict. reviewerName is recorded on the order's audit trail.
func NewConfirmOrderCommand(orderID kernel.UUID, action ReviewAction, reviewerName string) (ConfirmOrderCommand, error) {
	cmd := ConfirmOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAction(action),
		cmd.setReviewerName(reviewerName),
	); err != nil {
		return ConfirmOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrConfirmOrderCommandIsNotConstructed if validation fails.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order under review.
func (c ConfirmOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Action returns the review verdict.
func (c ConfirmOrderCommand) Action() ReviewAction {
	return c.action
}

// ReviewerName returns the display name of the reviewing employee.
func (c ConfirmOrderCommand) ReviewerName() string {
	return c.reviewerName
}

func (c *ConfirmOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ConfirmOrderCommand) setAction(action ReviewAction) error {
	if action != ReviewApprove && action != ReviewReject {
		return errs.NewValueIsInvalidErrorWithCause("action",
			fmt.Errorf("%q is not approve or reject", action))
	}

	c.action = action
	return nil
}

func (c *ConfirmOrderCommand) setReviewerName(reviewerName string) error {
	if reviewerName == "" {
		return errs.NewValueIsRequiredError("reviewer name")
	}

	c.reviewerName = reviewerName
	return nil
}
