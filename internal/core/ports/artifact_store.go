package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// ArtifactStore persists proof-of-delivery artifacts and serves them back
// through single-use access grants.
type ArtifactStore interface {
	// Save decodes and stores one artifact payload for the given order.
	// roleTag distinguishes the artifact kind within the order (id front,
	// id back, signature). Returns an opaque reference for later retrieval.
	Save(ctx context.Context, orderID kernel.UUID, roleTag string, payload string) (string, error)

	// Grant issues a single-use access nonce bound to the exact artifact
	// reference. The nonce expires if unused.
	Grant(ref string) (string, error)

	// Open redeems a nonce and returns the artifact bytes together with
	// a content type. The grant is consumed even when reading fails.
	// Mismatch, reuse, or expiry surfaces as UnauthorizedError; a missing
	// file as ObjectNotFoundError.
	Open(ctx context.Context, ref string, nonce string) ([]byte, string, error)
}
