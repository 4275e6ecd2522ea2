package podstore_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/podstore"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

func encodeTestImage(t *testing.T, width, height int) string {
	t.Helper()

	img := imaging.New(width, height, color.NRGBA{R: 120, G: 60, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestStore(t *testing.T) *podstore.FileStore {
	t.Helper()

	store, err := podstore.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestFileStore_SaveAndOpen_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	ref, err := store.Save(ctx, kernel.NewUUID(), "signature", encodeTestImage(t, 640, 480))
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	nonce, err := store.Grant(ref)
	require.NoError(t, err)
	require.NotEmpty(t, nonce)

	data, contentType, err := store.Open(ctx, ref, nonce)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())
}

func TestFileStore_Save_ShrinksOversizedImages(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	ref, err := store.Save(ctx, kernel.NewUUID(), "id_front", encodeTestImage(t, 2400, 1000))
	require.NoError(t, err)

	nonce, err := store.Grant(ref)
	require.NoError(t, err)

	data, _, err := store.Open(ctx, ref, nonce)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), 1200)
	assert.LessOrEqual(t, img.Bounds().Dy(), 1200)
	// Aspect ratio survives the shrink.
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestFileStore_Save_UndecodablePayloadStoredVerbatim(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	raw := []byte("definitely not an image")
	payload := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(raw)

	ref, err := store.Save(ctx, kernel.NewUUID(), "id_back", payload)
	require.NoError(t, err)

	nonce, err := store.Grant(ref)
	require.NoError(t, err)

	data, _, err := store.Open(ctx, ref, nonce)
	require.NoError(t, err)
	assert.Equal(t, raw, data)
}

func TestFileStore_Save_InvalidPayloads(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	tests := []struct {
		name    string
		roleTag string
		payload string
		target  error
	}{
		{name: "empty payload", roleTag: "signature", payload: "", target: errs.ErrValueIsRequired},
		{name: "empty role tag", roleTag: "", payload: encodeTestImage(t, 10, 10), target: errs.ErrValueIsRequired},
		{name: "broken base64", roleTag: "signature", payload: "data:image/jpeg;base64,!!!", target: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(ctx, kernel.NewUUID(), tt.roleTag, tt.payload)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestFileStore_Open_NonceIsSingleUse(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	ref, err := store.Save(ctx, kernel.NewUUID(), "signature", encodeTestImage(t, 32, 32))
	require.NoError(t, err)

	nonce, err := store.Grant(ref)
	require.NoError(t, err)

	_, _, err = store.Open(ctx, ref, nonce)
	require.NoError(t, err)

	_, _, err = store.Open(ctx, ref, nonce)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestFileStore_Open_NonceBoundToArtifact(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	orderID := kernel.NewUUID()

	frontRef, err := store.Save(ctx, orderID, "id_front", encodeTestImage(t, 32, 32))
	require.NoError(t, err)
	signatureRef, err := store.Save(ctx, orderID, "signature", encodeTestImage(t, 32, 32))
	require.NoError(t, err)

	nonce, err := store.Grant(frontRef)
	require.NoError(t, err)

	// A nonce for the front image must not open the signature, and the
	// attempt burns it.
	_, _, err = store.Open(ctx, signatureRef, nonce)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, _, err = store.Open(ctx, frontRef, nonce)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestFileStore_Open_MissingFileReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	nonce, err := store.Grant("order_missing_0_signature.jpg")
	require.NoError(t, err)

	_, _, err = store.Open(ctx, "order_missing_0_signature.jpg", nonce)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestFileStore_SweepNonces_DropsExpiredGrants(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	ref, err := store.Save(ctx, kernel.NewUUID(), "signature", encodeTestImage(t, 32, 32))
	require.NoError(t, err)

	nonce, err := store.Grant(ref)
	require.NoError(t, err)

	removed := store.SweepNonces(time.Now().UTC().Add(podstore.NonceTTL + time.Minute))
	assert.Equal(t, 1, removed)

	_, _, err = store.Open(ctx, ref, nonce)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
