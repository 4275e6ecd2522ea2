// Package podstore stores proof-of-delivery artifacts on the local
// filesystem. The directory is never exposed through a static-file handler;
// the only way back to the bytes is an opaque reference plus a single-use
// nonce issued by Grant.
package podstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	// maxDimension caps either side of a stored image. Larger uploads are
	// shrunk preserving aspect ratio.
	maxDimension = 1200

	jpegQuality = 75

	dirPerm  = 0o700
	filePerm = 0o600
)

// dataURIPrefix matches the header of a base64 data URI, e.g.
// "data:image/jpeg;base64,".
var dataURIPrefix = regexp.MustCompile(`^data:[^;,]*;base64,`)

// FileStore implements ports.ArtifactStore on a local directory.
type FileStore struct {
	dir    string
	nonces *nonceGate
}

// NewFileStore creates the artifact directory if needed and returns a store
// over it. The directory is created owner-only.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errs.NewValueIsRequiredError("artifact directory")
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}

	return &FileStore{
		dir:    dir,
		nonces: newNonceGate(NonceTTL),
	}, nil
}

// Save decodes the payload, re-encodes decodable images as size-bounded
// JPEG, and writes the result under a name derived from the order, the
// artifact role and the current time. Payloads that do not decode as an
// image are stored verbatim.
func (s *FileStore) Save(_ context.Context, orderID kernel.UUID, roleTag string, payload string) (string, error) {
	if err := orderID.Validate(); err != nil {
		return "", err
	}
	if roleTag == "" {
		return "", errs.NewValueIsRequiredError("role tag")
	}
	if payload == "" {
		return "", errs.NewValueIsRequiredError("payload")
	}

	raw, err := decodePayload(payload)
	if err != nil {
		return "", err
	}

	stored := reencode(raw)

	name := fmt.Sprintf("order_%s_%d_%s.jpg", orderID, time.Now().UTC().Unix(), roleTag)
	if err := os.WriteFile(filepath.Join(s.dir, name), stored, filePerm); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}

	return name, nil
}

// Grant issues a single-use nonce for the artifact reference.
func (s *FileStore) Grant(ref string) (string, error) {
	if ref == "" {
		return "", errs.NewValueIsRequiredError("artifact ref")
	}
	return s.nonces.Grant(ref, time.Now().UTC())
}

// Open redeems the nonce and reads the artifact. The nonce is consumed
// before the file is touched, so a failed read still burns the grant.
func (s *FileStore) Open(_ context.Context, ref string, nonce string) ([]byte, string, error) {
	if err := s.nonces.Redeem(ref, nonce, time.Now().UTC()); err != nil {
		return nil, "", err
	}

	// Refs are bare file names; anything path-like is forged.
	if ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return nil, "", errs.NewObjectNotFoundError("artifact", ref)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errs.NewObjectNotFoundError("artifact", ref)
		}
		return nil, "", fmt.Errorf("reading artifact: %w", err)
	}

	return data, http.DetectContentType(data), nil
}

// SweepNonces drops expired unredeemed access grants. Returns the number
// removed.
func (s *FileStore) SweepNonces(now time.Time) int {
	return s.nonces.Sweep(now)
}

// decodePayload strips an optional data-URI header and base64-decodes the
// rest.
func decodePayload(payload string) ([]byte, error) {
	encoded := dataURIPrefix.ReplaceAllString(payload, "")
	encoded = strings.TrimSpace(encoded)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("payload", err)
	}
	return raw, nil
}

// reencode converts decodable images to JPEG, shrinking anything over
// maxDimension. Undecodable payloads pass through untouched.
func reencode(raw []byte) []byte {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return raw
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return raw
	}
	return buf.Bytes()
}
