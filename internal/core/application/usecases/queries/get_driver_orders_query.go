// Package queries contains read-only operations for the CQRS read side.
// Query handlers go straight to the database and return response shapes
// tailored to the calling surface, bypassing the aggregates.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetDriverOrdersQueryIsNotConstructed = errors.New(
	"GetDriverOrdersQuery must be created via NewGetDriverOrdersQuery constructor",
)

// GetDriverOrdersQuery retrieves the two lists a driver's app shows: orders
// open for claiming and orders already claimed by this driver.
type GetDriverOrdersQuery struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDriverOrdersQuery creates a query for the given driver.
func NewGetDriverOrdersQuery(driverID kernel.UUID) (GetDriverOrdersQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetDriverOrdersQuery{}, err
	}

	return GetDriverOrdersQuery{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetDriverOrdersQueryIsNotConstructed if validation fails.
func (q GetDriverOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverOrdersQueryIsNotConstructed)
}

// DriverID returns the identifier of the requesting driver.
func (q GetDriverOrdersQuery) DriverID() kernel.UUID {
	return q.driverID
}

// OrderItemResponse is one line of the order's item snapshot.
type OrderItemResponse struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

// GeoResponse is a coordinate pair for map rendering. Available is false
// when the location could not be resolved; the app then renders the order
// without directions.
type GeoResponse struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Available bool    `json:"available"`
}

// DriverOrderResponse is one order as shown in the driver's app.
type DriverOrderResponse struct {
	ID              kernel.UUID         `json:"id"`
	Status          string              `json:"status"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone,omitempty"`
	DeliveryAddress string              `json:"delivery_address"`
	CustomerNote    string              `json:"customer_note,omitempty"`
	Total           float64             `json:"total"`
	PaymentMethod   string              `json:"payment_method"`
	Items           []OrderItemResponse `json:"items"`
	Pickup          GeoResponse         `json:"pickup"`
	PickupLabel     string              `json:"pickup_label,omitempty"`
	Dropoff         GeoResponse         `json:"dropoff"`
	ClaimedAt       *time.Time          `json:"claimed_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// GetDriverOrdersQueryResponse groups the driver's order lists.
type GetDriverOrdersQueryResponse struct {
	Pending []DriverOrderResponse `json:"pending"`
	Claimed []DriverOrderResponse `json:"claimed"`
}
