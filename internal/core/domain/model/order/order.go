package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory methods. This ensures all
// orders are properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// ManualPaymentMethods are the payment method codes that require an employee
// to confirm the payment before the order becomes claimable.
var ManualPaymentMethods = []string{"bacs", "cheque", "cod"}

// Item is a line-item snapshot carried on the order for driver display.
// It is copied from the catalog at checkout time and never updated.
type Item struct {
	Name     string
	Price    float64
	Quantity int
	Image    string
}

// Note is an audit entry attached to the order record. Notes survive
// independently of any logging subsystem: they are persisted with the order.
type Note struct {
	Author    string
	Text      string
	CreatedAt time.Time
}

// Details carries the checkout-time attributes of an order. They are owned
// by the storefront; the dispatch engine only reads them.
type Details struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	CustomerNote    string
	Total           float64
	Items           []Item
	PaymentMethod   string
	TransactionID   string
	Dropoff         kernel.GeoPoint
	GroceryStoreKey string
	FoodStoreKey    string
	GenericStoreKey string
}

// Order is the delivery order aggregate root. It manages the order lifecycle
// from the payment-review gate through exclusive driver assignment to
// completion with proof of delivery.
//
// Order follows these invariants:
//   - Must have a valid unique identifier
//   - Status transitions follow the table defined on Status
//   - A driver is assigned exactly once, by the claim transition
//   - Transition timestamps are monotonically ordered and written once
//   - Can only be created through NewOrder or RestoreOrder
//
// The aggregate's transition methods enforce actor guards (only the assigned
// driver may advance fulfillment) in addition to the state guards. The claim
// race itself is decided by the order repository's conditional update; the
// aggregate-level Claim method carries the same guard for in-memory use and
// for attributing the winner.
type Order struct {
	id      kernel.UUID
	details Details

	status     Status
	driverID   *kernel.UUID
	driverName string

	claimedAt            *time.Time
	fulfillmentStartedAt *time.Time
	paymentConfirmedAt   *time.Time
	deliveryStartedAt    *time.Time
	deliveryCompletedAt  *time.Time
	deliveryDuration     time.Duration

	pod        *ProofOfDelivery
	reviewedBy string
	reviewedAt *time.Time
	notes      []Note

	createdAt time.Time

	isConstructed bool
}

// NewOrder creates a new Order from checkout details.
//
// Orders paid with a manual method (see ManualPaymentMethods) start in
// PendingReview and must be approved by an employee before drivers can see
// them; all other orders start Unclaimed.
func NewOrder(id kernel.UUID, details Details, createdAt time.Time) (*Order, error) {
	order := &Order{
		isConstructed: true,
		createdAt:     createdAt,
	}

	if err := errors.Join(
		order.setID(id),
		order.setDetails(details),
	); err != nil {
		return nil, err
	}

	if IsManualPaymentMethod(details.PaymentMethod) {
		order.status = PendingReview
	} else {
		order.status = Unclaimed
	}

	return order, nil
}

// RestoreOrder reconstructs an Order from persistence. All fields are taken
// as stored; only structural validity is checked, because the invariants
// were already enforced when the transitions originally fired.
func RestoreOrder(
	id kernel.UUID,
	details Details,
	status Status,
	driverID *kernel.UUID,
	driverName string,
	claimedAt, fulfillmentStartedAt, paymentConfirmedAt, deliveryStartedAt, deliveryCompletedAt *time.Time,
	deliveryDuration time.Duration,
	pod *ProofOfDelivery,
	reviewedBy string,
	reviewedAt *time.Time,
	notes []Note,
	createdAt time.Time,
) (*Order, error) {
	order := &Order{
		isConstructed: true,
		createdAt:     createdAt,
	}

	if err := errors.Join(
		order.setID(id),
		order.setDetails(details),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
	}
	if pod != nil {
		if err := pod.Validate(); err != nil {
			return nil, err
		}
	}

	order.status = status
	order.driverID = driverID
	order.driverName = driverName
	order.claimedAt = claimedAt
	order.fulfillmentStartedAt = fulfillmentStartedAt
	order.paymentConfirmedAt = paymentConfirmedAt
	order.deliveryStartedAt = deliveryStartedAt
	order.deliveryCompletedAt = deliveryCompletedAt
	order.deliveryDuration = deliveryDuration
	order.pod = pod
	order.reviewedBy = reviewedBy
	order.reviewedAt = reviewedAt
	order.notes = notes

	return order, nil
}

// IsManualPaymentMethod reports whether the payment method code requires an
// employee payment review before the order becomes claimable.
func IsManualPaymentMethod(code string) bool {
	for _, m := range ManualPaymentMethods {
		if m == code {
			return true
		}
	}
	return false
}

// PaymentMethodTitle returns a human-readable name for a payment method
// code, falling back to the code itself for gateways without a known title.
func PaymentMethodTitle(code string) string {
	switch code {
	case "bacs":
		return "Direct bank transfer"
	case "cheque":
		return "Check payments"
	case "cod":
		return "Cash on delivery"
	default:
		return code
	}
}

// Validate ensures the Order instance was properly constructed through a
// factory method. This prevents bypassing validation by directly
// instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Details returns the checkout-time attributes of the order.
func (o *Order) Details() Details {
	return o.details
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Driver returns the assigned driver's ID, or nil if unclaimed.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// DriverName returns the assigned driver's display name, denormalized onto
// the order at claim time so staff views need no directory lookup.
func (o *Order) DriverName() string {
	return o.driverName
}

// ClaimedAt returns when the order was claimed, or nil.
func (o *Order) ClaimedAt() *time.Time {
	return o.claimedAt
}

// FulfillmentStartedAt returns when item collection started, or nil.
func (o *Order) FulfillmentStartedAt() *time.Time {
	return o.fulfillmentStartedAt
}

// PaymentConfirmedAt returns when the driver paid for the items, or nil.
func (o *Order) PaymentConfirmedAt() *time.Time {
	return o.paymentConfirmedAt
}

// DeliveryStartedAt returns when the driver left for the customer, or nil.
func (o *Order) DeliveryStartedAt() *time.Time {
	return o.deliveryStartedAt
}

// DeliveryCompletedAt returns when the delivery finished, or nil.
func (o *Order) DeliveryCompletedAt() *time.Time {
	return o.deliveryCompletedAt
}

// DeliveryDuration returns the elapsed time between delivery start and
// completion. Zero until the order completes.
func (o *Order) DeliveryDuration() time.Duration {
	return o.deliveryDuration
}

// ProofOfDelivery returns the POD record, or nil before completion.
func (o *Order) ProofOfDelivery() *ProofOfDelivery {
	return o.pod
}

// ReviewedBy returns the display name of the employee who approved or
// rejected the payment review, or empty if the order never needed one.
func (o *Order) ReviewedBy() string {
	return o.reviewedBy
}

// ReviewedAt returns when the payment review decision was made, or nil.
func (o *Order) ReviewedAt() *time.Time {
	return o.reviewedAt
}

// Notes returns the audit trail attached to the order.
func (o *Order) Notes() []Note {
	return o.notes
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Approve records an employee's payment confirmation, making the order
// claimable. Valid only from PendingReview.
func (o *Order) Approve(reviewer string, now time.Time) error {
	newStatus, err := o.status.Approve()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.reviewedBy = reviewer
	o.reviewedAt = &now
	o.addNote(reviewer, fmt.Sprintf("Payment confirmed by %s. Order ready for driver assignment.", reviewer), now)
	return nil
}

// Reject records an employee's payment rejection, cancelling the order.
// Valid only from PendingReview; Cancelled is terminal.
func (o *Order) Reject(reviewer string, now time.Time) error {
	newStatus, err := o.status.Reject()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.reviewedBy = reviewer
	o.reviewedAt = &now
	o.addNote(reviewer, fmt.Sprintf("Order rejected by %s. Payment not confirmed.", reviewer), now)
	return nil
}

// Claim assigns the order exclusively to a driver.
//
// Returns a ConflictError when the order already has a driver or is not in
// Unclaimed status, so the caller can refresh its list. Note that under
// concurrent claim attempts the repository's conditional update is the
// authoritative arbiter; this method decides single-process races and
// records the winning driver's attribution.
func (o *Order) Claim(driverID kernel.UUID, driverName string, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	if o.driverID != nil {
		return errs.NewConflictError("order has already been claimed by another driver")
	}

	newStatus, err := o.status.Claim()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.driverID = &driverID
	o.driverName = driverName
	o.claimedAt = &now
	o.addNote(driverName, fmt.Sprintf("Order claimed by driver: %s", driverName), now)
	return nil
}

// StartFulfillment records that the assigned driver began collecting items.
func (o *Order) StartFulfillment(driverID kernel.UUID, now time.Time) error {
	if err := o.requireAssignedDriver(driverID); err != nil {
		return err
	}

	newStatus, err := o.status.StartFulfillment()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.fulfillmentStartedAt = &now
	o.addNote(o.driverName, "Driver started collecting order items", now)
	return nil
}

// MarkPaid records that the assigned driver paid for the collected items and
// is heading to the customer. Starts the delivery timer.
func (o *Order) MarkPaid(driverID kernel.UUID, now time.Time) error {
	if err := o.requireAssignedDriver(driverID); err != nil {
		return err
	}

	newStatus, err := o.status.MarkPaid()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.paymentConfirmedAt = &now
	o.deliveryStartedAt = &now
	o.addNote(o.driverName, "Driver paid for items and started delivery", now)
	return nil
}

// CanComplete checks the completion guards without mutating the order.
// Callers that must do expensive work between the check and Complete (such
// as persisting artifacts) use it to fail before that work starts.
func (o *Order) CanComplete(driverID kernel.UUID) error {
	if err := o.requireAssignedDriver(driverID); err != nil {
		return err
	}

	_, err := o.status.Complete()
	return err
}

// Complete finishes the delivery with proof-of-delivery evidence.
//
// Computes the delivery duration from the delivery start timestamp; a
// missing start timestamp yields a zero duration rather than an error, since
// the POD evidence matters more than the timer.
func (o *Order) Complete(driverID kernel.UUID, pod ProofOfDelivery, now time.Time) error {
	if err := o.requireAssignedDriver(driverID); err != nil {
		return err
	}
	if err := pod.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	duration := time.Duration(0)
	if o.deliveryStartedAt != nil && now.After(*o.deliveryStartedAt) {
		duration = now.Sub(*o.deliveryStartedAt)
	}

	o.status = newStatus
	o.pod = &pod
	o.deliveryCompletedAt = &now
	o.deliveryDuration = duration
	o.addNote(o.driverName, fmt.Sprintf(
		"Delivery completed by %s. Duration: %s. ID Type: %s",
		o.driverName, duration.Round(time.Second), pod.IDType()), now)
	return nil
}

func (o *Order) requireAssignedDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	if o.driverID == nil || !o.driverID.IsEqual(driverID) {
		return errs.NewForbiddenError("caller is not the assigned driver")
	}
	return nil
}

func (o *Order) addNote(author, text string, now time.Time) {
	o.notes = append(o.notes, Note{
		Author:    author,
		Text:      text,
		CreatedAt: now,
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setDetails(details Details) error {
	if details.CustomerName == "" {
		return errs.NewValueIsRequiredError("customer name")
	}
	if details.DeliveryAddress == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	if details.PaymentMethod == "" {
		return errs.NewValueIsRequiredError("payment method")
	}
	if details.Total < 0 {
		return errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("%f is negative", details.Total))
	}

	o.details = details
	return nil
}
