// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, including the conditional-update claim that arbitrates
// concurrent drivers.
package orderrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order
// aggregates. Item and note snapshots are stored as JSONB documents; the
// rest maps to plain columns indexed for the claim and review queries.
type OrderDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status int       `gorm:"index"`

	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	CustomerNote    string
	Total           float64
	Items           string `gorm:"type:jsonb"`
	PaymentMethod   string `gorm:"index"`
	TransactionID   string

	DropoffLat      float64
	DropoffLng      float64
	GroceryStoreKey string
	FoodStoreKey    string
	GenericStoreKey string

	DriverID   *uuid.UUID `gorm:"type:uuid;index"`
	DriverName string

	ClaimedAt               *time.Time
	FulfillmentStartedAt    *time.Time
	PaymentConfirmedAt      *time.Time
	DeliveryStartedAt       *time.Time
	DeliveryCompletedAt     *time.Time
	DeliveryDurationSeconds int64

	PodIDType       string
	PodIDFrontRef   string
	PodIDBackRef    string
	PodSignatureRef string

	ReviewedBy string
	ReviewedAt *time.Time
	Notes      string `gorm:"type:jsonb"`

	CreatedAt time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// itemDTO and noteDTO fix the JSON field names of the stored snapshots so
// the read side can rely on them regardless of domain struct naming.
type itemDTO struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

type noteDTO struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// fromDomain converts an order domain aggregate to its database
// representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	details := aggregate.Details()

	items := make([]itemDTO, 0, len(details.Items))
	for _, item := range details.Items {
		items = append(items, itemDTO(item))
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return OrderDTO{}, err
	}

	notes := make([]noteDTO, 0, len(aggregate.Notes()))
	for _, note := range aggregate.Notes() {
		notes = append(notes, noteDTO(note))
	}
	notesJSON, err := json.Marshal(notes)
	if err != nil {
		return OrderDTO{}, err
	}

	dto := OrderDTO{
		ID:     aggregate.ID().Bytes(),
		Status: int(aggregate.Status()),

		CustomerName:    details.CustomerName,
		CustomerPhone:   details.CustomerPhone,
		DeliveryAddress: details.DeliveryAddress,
		CustomerNote:    details.CustomerNote,
		Total:           details.Total,
		Items:           string(itemsJSON),
		PaymentMethod:   details.PaymentMethod,
		TransactionID:   details.TransactionID,

		DropoffLat:      details.Dropoff.Lat(),
		DropoffLng:      details.Dropoff.Lng(),
		GroceryStoreKey: details.GroceryStoreKey,
		FoodStoreKey:    details.FoodStoreKey,
		GenericStoreKey: details.GenericStoreKey,

		DriverID:   driverID,
		DriverName: aggregate.DriverName(),

		ClaimedAt:               aggregate.ClaimedAt(),
		FulfillmentStartedAt:    aggregate.FulfillmentStartedAt(),
		PaymentConfirmedAt:      aggregate.PaymentConfirmedAt(),
		DeliveryStartedAt:       aggregate.DeliveryStartedAt(),
		DeliveryCompletedAt:     aggregate.DeliveryCompletedAt(),
		DeliveryDurationSeconds: int64(aggregate.DeliveryDuration().Seconds()),

		ReviewedBy: aggregate.ReviewedBy(),
		ReviewedAt: aggregate.ReviewedAt(),
		Notes:      string(notesJSON),

		CreatedAt: aggregate.CreatedAt(),
	}

	if pod := aggregate.ProofOfDelivery(); pod != nil {
		dto.PodIDType = pod.IDType()
		dto.PodIDFrontRef = pod.IDFrontRef()
		dto.PodIDBackRef = pod.IDBackRef()
		dto.PodSignatureRef = pod.SignatureRef()
	}

	return dto, nil
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	// Rows always hold coordinates written through fromDomain, so a range
	// failure degrades to "location unavailable" instead of erroring.
	dropoff := kernel.GeoPoint{}
	if point, pointErr := kernel.NewGeoPoint(dto.DropoffLat, dto.DropoffLng); pointErr == nil {
		dropoff = point
	}

	var items []itemDTO
	if dto.Items != "" {
		if err = json.Unmarshal([]byte(dto.Items), &items); err != nil {
			return nil, err
		}
	}
	domainItems := make([]order.Item, 0, len(items))
	for _, item := range items {
		domainItems = append(domainItems, order.Item(item))
	}

	var notes []noteDTO
	if dto.Notes != "" {
		if err = json.Unmarshal([]byte(dto.Notes), &notes); err != nil {
			return nil, err
		}
	}
	domainNotes := make([]order.Note, 0, len(notes))
	for _, note := range notes {
		domainNotes = append(domainNotes, order.Note(note))
	}

	var pod *order.ProofOfDelivery
	if dto.PodIDType != "" {
		restored, podErr := order.NewProofOfDelivery(
			dto.PodIDType, dto.PodIDFrontRef, dto.PodIDBackRef, dto.PodSignatureRef)
		if podErr != nil {
			return nil, podErr
		}
		pod = &restored
	}

	return order.RestoreOrder(
		id,
		order.Details{
			CustomerName:    dto.CustomerName,
			CustomerPhone:   dto.CustomerPhone,
			DeliveryAddress: dto.DeliveryAddress,
			CustomerNote:    dto.CustomerNote,
			Total:           dto.Total,
			Items:           domainItems,
			PaymentMethod:   dto.PaymentMethod,
			TransactionID:   dto.TransactionID,
			Dropoff:         dropoff,
			GroceryStoreKey: dto.GroceryStoreKey,
			FoodStoreKey:    dto.FoodStoreKey,
			GenericStoreKey: dto.GenericStoreKey,
		},
		order.Status(dto.Status),
		driverID,
		dto.DriverName,
		dto.ClaimedAt,
		dto.FulfillmentStartedAt,
		dto.PaymentConfirmedAt,
		dto.DeliveryStartedAt,
		dto.DeliveryCompletedAt,
		time.Duration(dto.DeliveryDurationSeconds)*time.Second,
		pod,
		dto.ReviewedBy,
		dto.ReviewedAt,
		domainNotes,
		dto.CreatedAt,
	)
}
