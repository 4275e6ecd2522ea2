package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetPendingReviewOrdersQueryIsNotConstructed = errors.New(
	"GetPendingReviewOrdersQuery must be created via NewGetPendingReviewOrdersQuery constructor",
)

// GetPendingReviewOrdersQuery retrieves orders held at the payment-review
// gate for the employee confirmation screen.
type GetPendingReviewOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPendingReviewOrdersQuery creates a query for the pending-review
// list. This is a parameterless query.
func NewGetPendingReviewOrdersQuery() GetPendingReviewOrdersQuery {
	return GetPendingReviewOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetPendingReviewOrdersQueryIsNotConstructed if validation fails.
func (q GetPendingReviewOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingReviewOrdersQueryIsNotConstructed)
}

// PendingReviewOrderResponse is one order awaiting an employee verdict.
type PendingReviewOrderResponse struct {
	ID                 kernel.UUID         `json:"id"`
	CustomerName       string              `json:"customer_name"`
	DeliveryAddress    string              `json:"delivery_address"`
	CustomerNote       string              `json:"customer_note,omitempty"`
	Total              float64             `json:"total"`
	PaymentMethod      string              `json:"payment_method"`
	PaymentMethodTitle string              `json:"payment_method_title"`
	TransactionID      string              `json:"transaction_id,omitempty"`
	Items              []OrderItemResponse `json:"items"`
	CreatedAt          time.Time           `json:"created_at"`
}
