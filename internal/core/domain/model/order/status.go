package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery order.
// It implements a state machine with defined transitions to ensure orders
// follow the correct fulfillment workflow.
//
// State transitions:
//
//	PendingReview ──approve──> Unclaimed ──claim──> Claimed
//	      │                                            │
//	   reject                                  start fulfillment
//	      │                                            │
//	      v                                            v
//	  Cancelled                              FulfillmentStarted
//	                                                   │
//	                                               mark paid
//	                                                   │
//	                                                   v
//	                                            OutForDelivery
//	                                                   │
//	                                           complete with POD
//	                                                   │
//	                                                   v
//	                                               Completed
//
// Cancelled and Completed are terminal. Every transition method returns
// a PreconditionFailedError when invoked from any other state, except Claim
// which returns a ConflictError so callers can distinguish "refresh your
// list" from "you did something out of order".
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// PendingReview is the initial status for orders paid with a manual
	// method (bank transfer, cheque, cash on delivery). An employee must
	// confirm the payment before the order becomes claimable.
	PendingReview

	// Unclaimed means the order is claimable: payment is settled or
	// confirmed and no driver is assigned yet.
	Unclaimed

	// Claimed means exactly one driver holds the order and has not yet
	// started collecting its items.
	Claimed

	// FulfillmentStarted means the assigned driver is collecting the items.
	FulfillmentStarted

	// OutForDelivery means the driver paid for the items and is en route
	// to the customer.
	OutForDelivery

	// Completed means the delivery finished with proof of delivery on
	// record. Terminal.
	Completed

	// Cancelled means an employee rejected the payment review. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:            "Unknown",
		PendingReview:      "PendingReview",
		Unclaimed:          "Unclaimed",
		Claimed:            "Claimed",
		FulfillmentStarted: "FulfillmentStarted",
		OutForDelivery:     "OutForDelivery",
		Completed:          "Completed",
		Cancelled:          "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		PendingReview:      "PendingReview",
		Unclaimed:          "Unclaimed",
		Claimed:            "Claimed",
		FulfillmentStarted: "FulfillmentStarted",
		OutForDelivery:     "OutForDelivery",
		Completed:          "Completed",
		Cancelled:          "Cancelled",
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
// Unknown (0) and out-of-range values are invalid. Used when reconstructing
// orders from persistence.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transitions exist from this status.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// Approve transitions the status from PendingReview to Unclaimed,
// making the order claimable.
func (s Status) Approve() (Status, error) {
	if s != PendingReview {
		return 0, errs.NewPreconditionFailedError(
			fmt.Sprintf("%s is not a valid status to approve", s))
	}

	return Unclaimed, nil
}

// Reject transitions the status from PendingReview to Cancelled.
func (s Status) Reject() (Status, error) {
	if s != PendingReview {
		return 0, errs.NewPreconditionFailedError(
			fmt.Sprintf("%s is not a valid status to reject", s))
	}

	return Cancelled, nil
}

// Claim transitions the status from Unclaimed to Claimed.
//
// A failed claim is reported as a ConflictError rather than a
// PreconditionFailedError: from the caller's point of view the order was
// simply no longer available, and the right reaction is to refresh the list
// of claimable orders.
func (s Status) Claim() (Status, error) {
	if s != Unclaimed {
		return 0, errs.NewConflictError(
			fmt.Sprintf("order is not claimable in status %s", s))
	}

	return Claimed, nil
}

// StartFulfillment transitions the status from Claimed to FulfillmentStarted.
func (s Status) StartFulfillment() (Status, error) {
	if s != Claimed {
		return 0, errs.NewPreconditionFailedError(
			fmt.Sprintf("%s is not a valid status to start fulfillment", s))
	}

	return FulfillmentStarted, nil
}

// MarkPaid transitions the status from FulfillmentStarted to OutForDelivery.
func (s Status) MarkPaid() (Status, error) {
	if s != FulfillmentStarted {
		return 0, errs.NewPreconditionFailedError(
			fmt.Sprintf("%s is not a valid status to mark paid", s))
	}

	return OutForDelivery, nil
}

// Complete transitions the status from OutForDelivery to Completed.
func (s Status) Complete() (Status, error) {
	if s != OutForDelivery {
		return 0, errs.NewPreconditionFailedError(
			fmt.Sprintf("%s is not a valid status to complete", s))
	}

	return Completed, nil
}
