package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

func testCatalogs(t *testing.T) StoreCatalogs {
	t.Helper()

	groceryPoint, err := kernel.NewGeoPoint(51.5074, -0.1278)
	require.NoError(t, err)
	foodPoint, err := kernel.NewGeoPoint(52.4862, -1.8904)
	require.NoError(t, err)
	genericPoint, err := kernel.NewGeoPoint(53.4808, -2.2426)
	require.NoError(t, err)

	return StoreCatalogs{
		Grocery: map[string]Store{
			"fresh-mart": {Name: "Fresh Mart", Point: groceryPoint},
		},
		Food: map[string]Store{
			"burger-hub": {
				Name: "Burger Hub",
				Sites: []StoreSite{
					{Address: "High Street", Point: foodPoint},
				},
			},
		},
		Generic: map[string]Store{
			"pharma-plus": {
				Name: "Pharma Plus",
				Sites: []StoreSite{
					{Address: "Market Square", Point: genericPoint},
				},
			},
		},
	}
}

func orderWithKeys(t *testing.T, grocery, food, generic string, dropoff kernel.GeoPoint) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerName:    "Jamie Fields",
		DeliveryAddress: "12 Station Road",
		PaymentMethod:   "card",
		Total:           24.50,
		Dropoff:         dropoff,
		GroceryStoreKey: grocery,
		FoodStoreKey:    food,
		GenericStoreKey: generic,
	}, time.Now().UTC())
	require.NoError(t, err)
	return o
}

func TestCoordinateResolver_Resolve(t *testing.T) {
	resolver := NewCoordinateResolver(testCatalogs(t))

	dropoff, err := kernel.NewGeoPoint(51.4545, -2.5879)
	require.NoError(t, err)

	t.Run("grocery key resolves from the grocery catalog", func(t *testing.T) {
		route, err := resolver.Resolve(orderWithKeys(t, "fresh-mart", "", "", dropoff))

		require.NoError(t, err)
		assert.False(t, route.Pickup.IsZero())
		assert.Equal(t, "Fresh Mart", route.PickupLabel)
		assert.True(t, route.Dropoff.IsEqual(dropoff))
	})

	t.Run("food key resolves the indexed site", func(t *testing.T) {
		route, err := resolver.Resolve(orderWithKeys(t, "", "burger-hub_0", "", dropoff))

		require.NoError(t, err)
		assert.False(t, route.Pickup.IsZero())
		assert.Equal(t, "Burger Hub - High Street", route.PickupLabel)
	})

	t.Run("generic key resolves the indexed site", func(t *testing.T) {
		route, err := resolver.Resolve(orderWithKeys(t, "", "", "pharma-plus_0", dropoff))

		require.NoError(t, err)
		assert.False(t, route.Pickup.IsZero())
		assert.Equal(t, "Pharma Plus - Market Square", route.PickupLabel)
	})

	t.Run("grocery wins over food and generic", func(t *testing.T) {
		route, err := resolver.Resolve(orderWithKeys(t, "fresh-mart", "burger-hub_0", "pharma-plus_0", dropoff))

		require.NoError(t, err)
		assert.Equal(t, "Fresh Mart", route.PickupLabel)
	})

	t.Run("unknown keys leave pickup unavailable", func(t *testing.T) {
		route, err := resolver.Resolve(orderWithKeys(t, "no-such-store", "", "", dropoff))

		require.NoError(t, err)
		assert.True(t, route.Pickup.IsZero())
		assert.Empty(t, route.PickupLabel)
		assert.True(t, route.Dropoff.IsEqual(dropoff))
	})

	t.Run("site index out of range leaves pickup unavailable", func(t *testing.T) {
		route, err := resolver.Resolve(orderWithKeys(t, "", "burger-hub_7", "", dropoff))

		require.NoError(t, err)
		assert.True(t, route.Pickup.IsZero())
	})

	t.Run("malformed site key leaves pickup unavailable", func(t *testing.T) {
		route, err := resolver.Resolve(orderWithKeys(t, "", "burger-hub", "", dropoff))

		require.NoError(t, err)
		assert.True(t, route.Pickup.IsZero())
	})

	t.Run("no keys at all still carries the dropoff", func(t *testing.T) {
		route, err := resolver.Resolve(orderWithKeys(t, "", "", "", dropoff))

		require.NoError(t, err)
		assert.True(t, route.Pickup.IsZero())
		assert.True(t, route.Dropoff.IsEqual(dropoff))
	})

	t.Run("nil order is rejected", func(t *testing.T) {
		_, err := resolver.Resolve(nil)

		assert.Error(t, err)
	})
}
