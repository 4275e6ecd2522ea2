package queries

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// Artifact role names as surfaced in POD metadata responses.
const (
	podRoleIDFront   = "id_front"
	podRoleIDBack    = "id_back"
	podRoleSignature = "signature"
)

// GetOrderPodQueryHandler reads an order's proof-of-delivery references and
// grants a single-use nonce for each through the artifact store.
type GetOrderPodQueryHandler struct {
	db        *gorm.DB
	artifacts ports.ArtifactStore
}

// NewGetOrderPodQueryHandler creates a handler for POD metadata queries.
func NewGetOrderPodQueryHandler(db *gorm.DB, artifacts ports.ArtifactStore) GetOrderPodQueryHandler {
	return GetOrderPodQueryHandler{db: db, artifacts: artifacts}
}

// Handle returns the POD metadata for the order. An order without POD
// evidence, like one that is not yet completed, yields ObjectNotFoundError.
func (h GetOrderPodQueryHandler) Handle(
	ctx context.Context,
	query GetOrderPodQuery,
) (GetOrderPodQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderPodQueryResponse{}, err
	}

	var idType, frontRef, backRef, signatureRef string

	row := h.db.WithContext(ctx).Raw(`
		SELECT pod_id_type, pod_id_front_ref, pod_id_back_ref, pod_signature_ref
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(&idType, &frontRef, &backRef, &signatureRef)
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
		return GetOrderPodQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return GetOrderPodQueryResponse{}, err
	}

	if idType == "" || frontRef == "" || signatureRef == "" {
		return GetOrderPodQueryResponse{}, errs.NewObjectNotFoundError(
			"proof of delivery", query.OrderID().String())
	}

	response := GetOrderPodQueryResponse{
		OrderID: query.OrderID(),
		IDType:  idType,
	}

	for _, artifact := range []struct {
		role string
		ref  string
	}{
		{podRoleIDFront, frontRef},
		{podRoleIDBack, backRef},
		{podRoleSignature, signatureRef},
	} {
		if artifact.ref == "" {
			continue
		}

		nonce, grantErr := h.artifacts.Grant(artifact.ref)
		if grantErr != nil {
			return GetOrderPodQueryResponse{}, grantErr
		}

		response.Artifacts = append(response.Artifacts, PodArtifactResponse{
			Role:  artifact.role,
			Ref:   artifact.ref,
			Nonce: nonce,
		})
	}

	return response, nil
}
