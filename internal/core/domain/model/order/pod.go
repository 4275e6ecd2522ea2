package order

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrProofOfDeliveryIsNotConstructed is returned when a ProofOfDelivery
// instance was not created through the NewProofOfDelivery factory method.
var ErrProofOfDeliveryIsNotConstructed = errors.New(
	"ProofOfDelivery must be created via NewProofOfDelivery constructor")

// ProofOfDelivery is the evidence record captured when a driver completes a
// delivery: the type of identity document shown by the recipient, artifact
// store references to the document photos, and a reference to the captured
// signature.
//
// The record carries references only, never image bytes; the bytes live in
// the artifact store behind its own access control.
type ProofOfDelivery struct {
	idType       string
	idFrontRef   string
	idBackRef    string
	signatureRef string

	guard guard.ConstructorGuard
}

// NewProofOfDelivery creates a validated ProofOfDelivery record.
//
// idType, idFrontRef, and signatureRef are required; idBackRef is optional
// because some identity documents have no meaningful back side.
func NewProofOfDelivery(idType, idFrontRef, idBackRef, signatureRef string) (ProofOfDelivery, error) {
	if idType == "" {
		return ProofOfDelivery{}, errs.NewValueIsRequiredError("idType")
	}
	if idFrontRef == "" {
		return ProofOfDelivery{}, errs.NewValueIsRequiredError("idFrontRef")
	}
	if signatureRef == "" {
		return ProofOfDelivery{}, errs.NewValueIsRequiredError("signatureRef")
	}

	return ProofOfDelivery{
		idType:       idType,
		idFrontRef:   idFrontRef,
		idBackRef:    idBackRef,
		signatureRef: signatureRef,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the record was created through the constructor.
func (p ProofOfDelivery) Validate() error {
	return p.guard.Validate(ErrProofOfDeliveryIsNotConstructed)
}

// IDType returns the recipient's identity document type (e.g. "passport").
func (p ProofOfDelivery) IDType() string {
	return p.idType
}

// IDFrontRef returns the artifact reference for the document front photo.
func (p ProofOfDelivery) IDFrontRef() string {
	return p.idFrontRef
}

// IDBackRef returns the artifact reference for the document back photo.
// Empty when no back side was captured.
func (p ProofOfDelivery) IDBackRef() string {
	return p.idBackRef
}

// SignatureRef returns the artifact reference for the recipient signature.
func (p ProofOfDelivery) SignatureRef() string {
	return p.signatureRef
}
