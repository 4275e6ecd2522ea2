package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

// Artifact role tags distinguish the proof-of-delivery pieces within one
// order in the artifact store.
const (
	ArtifactRoleIDFront   = "id_front"
	ArtifactRoleIDBack    = "id_back"
	ArtifactRoleSignature = "signature"
)

// CompleteDeliveryCommandHandler finishes a delivery: persists the
// proof-of-delivery artifacts, attaches their references to the order and
// transitions it to Completed.
type CompleteDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	artifacts  ports.ArtifactStore
	publisher  ports.OrderStatusPublisher
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery
// completion. publisher may be nil when status events are not wired.
func NewCompleteDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	artifacts ports.ArtifactStore,
	publisher ports.OrderStatusPublisher,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		artifacts:  artifacts,
		publisher:  publisher,
	}
}

// Handle processes the completion command.
//
// Driver and status guards are checked before any artifact is written.
// Artifacts are stored before the transaction commits; if the commit then
// fails the files are orphaned, which is harmless: references to them are
// only ever read off a committed order row.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, command CompleteDeliveryCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	aggregate, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.CanComplete(command.DriverID()); err != nil {
		return err
	}

	pod, err := h.storeArtifacts(ctx, aggregate, command)
	if err != nil {
		return err
	}

	loadedStatus := aggregate.Status()
	if err = aggregate.Complete(command.DriverID(), pod, time.Now().UTC()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, aggregate, loadedStatus); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.OrdersCompletedTotal.Inc()

	if h.publisher != nil {
		_ = h.publisher.PublishStatusChanged(ctx, aggregate, loadedStatus)
	}

	return nil
}

func (h CompleteDeliveryCommandHandler) storeArtifacts(
	ctx context.Context,
	aggregate *order.Order,
	command CompleteDeliveryCommand,
) (order.ProofOfDelivery, error) {
	frontRef, err := h.artifacts.Save(ctx, aggregate.ID(), ArtifactRoleIDFront, command.IDFront())
	if err != nil {
		return order.ProofOfDelivery{}, err
	}
	metrics.PodArtifactsSavedTotal.WithLabelValues(ArtifactRoleIDFront).Inc()

	var backRef string
	if command.IDBack() != "" {
		backRef, err = h.artifacts.Save(ctx, aggregate.ID(), ArtifactRoleIDBack, command.IDBack())
		if err != nil {
			return order.ProofOfDelivery{}, err
		}
		metrics.PodArtifactsSavedTotal.WithLabelValues(ArtifactRoleIDBack).Inc()
	}

	signatureRef, err := h.artifacts.Save(ctx, aggregate.ID(), ArtifactRoleSignature, command.Signature())
	if err != nil {
		return order.ProofOfDelivery{}, err
	}
	metrics.PodArtifactsSavedTotal.WithLabelValues(ArtifactRoleSignature).Inc()

	return order.NewProofOfDelivery(command.IDType(), frontRef, backRef, signatureRef)
}
