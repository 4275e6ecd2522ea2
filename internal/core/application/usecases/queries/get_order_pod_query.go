package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderPodQueryIsNotConstructed = errors.New(
	"GetOrderPodQuery must be created via NewGetOrderPodQuery constructor",
)

// GetOrderPodQuery retrieves the proof-of-delivery metadata for one
// completed order, minting a fresh single-use access nonce per artifact.
type GetOrderPodQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderPodQuery creates a POD metadata query for the given order.
func NewGetOrderPodQuery(orderID kernel.UUID) (GetOrderPodQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderPodQuery{}, err
	}

	return GetOrderPodQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderPodQueryIsNotConstructed if validation fails.
func (q GetOrderPodQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderPodQueryIsNotConstructed)
}

// OrderID returns the identifier of the order whose POD is requested.
func (q GetOrderPodQuery) OrderID() kernel.UUID {
	return q.orderID
}

// PodArtifactResponse references one stored artifact. The nonce admits
// exactly one retrieval of exactly this reference and then dies.
type PodArtifactResponse struct {
	Role  string `json:"role"`
	Ref   string `json:"ref"`
	Nonce string `json:"nonce"`
}

// GetOrderPodQueryResponse is the POD metadata for one order.
type GetOrderPodQueryResponse struct {
	OrderID   kernel.UUID           `json:"order_id"`
	IDType    string                `json:"id_type"`
	Artifacts []PodArtifactResponse `json:"artifacts"`
}
