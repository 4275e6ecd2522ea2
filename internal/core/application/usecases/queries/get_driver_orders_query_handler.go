package queries

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

// GetDriverOrdersQueryHandler reads the driver's order lists from the
// database and resolves pickup/drop-off coordinates through the store
// catalogs.
type GetDriverOrdersQueryHandler struct {
	db       *gorm.DB
	resolver *services.CoordinateResolver
}

// NewGetDriverOrdersQueryHandler creates a handler for driver order list
// queries.
func NewGetDriverOrdersQueryHandler(db *gorm.DB, resolver *services.CoordinateResolver) GetDriverOrdersQueryHandler {
	return GetDriverOrdersQueryHandler{db: db, resolver: resolver}
}

// Handle returns unclaimed orders (open to every driver) plus the active
// orders claimed by this driver, both oldest first.
func (h GetDriverOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetDriverOrdersQuery,
) (GetDriverOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDriverOrdersQueryResponse{}, err
	}

	pending, err := h.fetch(ctx, `
		SELECT `+orderListColumns+`
		FROM orders
		WHERE status = ? AND driver_id IS NULL
		ORDER BY created_at
	`, order.Unclaimed)
	if err != nil {
		return GetDriverOrdersQueryResponse{}, err
	}

	claimed, err := h.fetch(ctx, `
		SELECT `+orderListColumns+`
		FROM orders
		WHERE driver_id = ? AND status IN ?
		ORDER BY created_at
	`, query.DriverID().Bytes(), []order.Status{
		order.Claimed, order.FulfillmentStarted, order.OutForDelivery,
	})
	if err != nil {
		return GetDriverOrdersQueryResponse{}, err
	}

	return GetDriverOrdersQueryResponse{Pending: pending, Claimed: claimed}, nil
}

const orderListColumns = `
	id, status, customer_name, customer_phone, delivery_address,
	customer_note, total, payment_method, items,
	dropoff_lat, dropoff_lng,
	grocery_store_key, food_store_key, generic_store_key,
	claimed_at, created_at`

func (h GetDriverOrdersQueryHandler) fetch(
	ctx context.Context,
	sql string,
	args ...any,
) ([]DriverOrderResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]DriverOrderResponse, 0)

	for rows.Next() {
		var (
			id                                   uuid.UUID
			status                               int
			customerName, customerPhone          string
			deliveryAddress, customerNote        string
			total                                float64
			paymentMethod                        string
			itemsJSON                            []byte
			dropoffLat, dropoffLng               float64
			groceryKey, foodKey, genericKey      string
			claimedAt                            *time.Time
			createdAt                            time.Time
		)

		if err = rows.Scan(
			&id, &status, &customerName, &customerPhone, &deliveryAddress,
			&customerNote, &total, &paymentMethod, &itemsJSON,
			&dropoffLat, &dropoffLng,
			&groceryKey, &foodKey, &genericKey,
			&claimedAt, &createdAt,
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

		route := h.resolver.ResolveKeys(
			groceryKey, foodKey, genericKey, dropoffPoint(dropoffLat, dropoffLng))

		orders = append(orders, DriverOrderResponse{
			ID:              orderID,
			Status:          order.Status(status).String(),
			CustomerName:    customerName,
			CustomerPhone:   customerPhone,
			DeliveryAddress: deliveryAddress,
			CustomerNote:    customerNote,
			Total:           total,
			PaymentMethod:   paymentMethod,
			Items:           items,
			Pickup:          toGeoResponse(route.Pickup),
			PickupLabel:     route.PickupLabel,
			Dropoff:         toGeoResponse(route.Dropoff),
			ClaimedAt:       claimedAt,
			CreatedAt:       createdAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// dropoffPoint rebuilds a GeoPoint from stored coordinates. Rows written
// through the repository always hold valid or zero coordinates, so a range
// failure here degrades to "location unavailable" instead of erroring.
func dropoffPoint(lat, lng float64) kernel.GeoPoint {
	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return kernel.GeoPoint{}
	}
	return point
}

func toGeoResponse(point kernel.GeoPoint) GeoResponse {
	return GeoResponse{
		Lat:       point.Lat(),
		Lng:       point.Lng(),
		Available: !point.IsZero(),
	}
}
