package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("valid_coordinates", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(25.2048, 55.2708)

		require.NoError(t, err)
		assert.InDelta(t, 25.2048, p.Lat(), 1e-9)
		assert.InDelta(t, 55.2708, p.Lng(), 1e-9)
		assert.False(t, p.IsZero())
	})

	t.Run("latitude_out_of_range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, 0)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("longitude_out_of_range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -180.5)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("boundary_values_are_valid", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(kernel.GeoLatMin, kernel.GeoLngMax)
		require.NoError(t, err)
	})
}

func TestGeoPoint_IsZero(t *testing.T) {
	var unresolved kernel.GeoPoint
	assert.True(t, unresolved.IsZero())

	p, err := kernel.NewGeoPoint(0.0001, 0)
	require.NoError(t, err)
	assert.False(t, p.IsZero())
}

func TestGeoPoint_IsEqual(t *testing.T) {
	a, err := kernel.NewGeoPoint(10, 20)
	require.NoError(t, err)
	b, err := kernel.NewGeoPoint(10, 20)
	require.NoError(t, err)
	c, err := kernel.NewGeoPoint(10, 21)
	require.NoError(t, err)

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
}
