package queries

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// GetPendingReviewOrdersQueryHandler reads the payment-review queue.
// Only orders paid with a manual method belong there; the filter repeats
// the condition to cover rows predating the review gate.
type GetPendingReviewOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingReviewOrdersQueryHandler creates a handler for
// pending-review queries.
func NewGetPendingReviewOrdersQueryHandler(db *gorm.DB) GetPendingReviewOrdersQueryHandler {
	return GetPendingReviewOrdersQueryHandler{db: db}
}

// Handle returns orders in PendingReview status, oldest first.
func (h GetPendingReviewOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPendingReviewOrdersQuery,
) ([]PendingReviewOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id, customer_name, delivery_address, customer_note,
			total, payment_method, transaction_id, items, created_at
		FROM orders
		WHERE status = ? AND payment_method IN ?
		ORDER BY created_at
	`, order.PendingReview, order.ManualPaymentMethods).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]PendingReviewOrderResponse, 0)

	for rows.Next() {
		var (
			id                            uuid.UUID
			customerName, deliveryAddress string
			customerNote                  string
			total                         float64
			paymentMethod, transactionID  string
			itemsJSON                     []byte
			createdAt                     time.Time
		)

		if err = rows.Scan(
			&id, &customerName, &deliveryAddress, &customerNote,
			&total, &paymentMethod, &transactionID, &itemsJSON, &createdAt,
		); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		items := make([]OrderItemResponse, 0)
		if len(itemsJSON) > 0 {
			if err = json.Unmarshal(itemsJSON, &items); err != nil {
				return nil, err
			}
		}

		orders = append(orders, PendingReviewOrderResponse{
			ID:                 orderID,
			CustomerName:       customerName,
			DeliveryAddress:    deliveryAddress,
			CustomerNote:       customerNote,
			Total:              total,
			PaymentMethod:      paymentMethod,
			PaymentMethodTitle: order.PaymentMethodTitle(paymentMethod),
			TransactionID:      transactionID,
			Items:              items,
			CreatedAt:          createdAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
