package services

import (
	"strconv"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// StoreSite is a single physical location of a multi-location store.
type StoreSite struct {
	Address string
	Point   kernel.GeoPoint
}

// Store is a pickup origin known to the resolver. Grocery stores carry a
// single Point; food and generic stores carry a list of Sites addressed by
// a zero-based index encoded in the order's store key.
type Store struct {
	Name  string
	Point kernel.GeoPoint
	Sites []StoreSite
}

// StoreCatalogs holds the three pickup catalogs the resolver consults,
// in priority order: grocery first, then food, then generic.
type StoreCatalogs struct {
	Grocery map[string]Store
	Food    map[string]Store
	Generic map[string]Store
}

// Route is the resolved pickup/dropoff pair for an order. A zero Pickup or
// Dropoff point means the location is unavailable, not that resolution
// failed: callers render such orders without map directions.
type Route struct {
	Pickup      kernel.GeoPoint
	PickupLabel string
	Dropoff     kernel.GeoPoint
}

// CoordinateResolver maps the store keys attached to an order onto pickup
// coordinates using the injected catalogs.
type CoordinateResolver struct {
	catalogs StoreCatalogs
}

// NewCoordinateResolver creates a CoordinateResolver over the given catalogs.
func NewCoordinateResolver(catalogs StoreCatalogs) *CoordinateResolver {
	return &CoordinateResolver{catalogs: catalogs}
}

// Resolve determines the pickup and dropoff points for an order.
//
// The first catalog that yields a match wins: grocery, then food, then
// generic. Food and generic keys have the form "<storeKey>_<siteIndex>";
// the key is split on the first underscore only, so store keys may
// themselves contain underscores in the index part but not in the prefix.
// An unknown key, a malformed index, or an index outside the store's site
// list all resolve to a zero pickup point.
func (r *CoordinateResolver) Resolve(o *order.Order) (Route, error) {
	if o == nil {
		return Route{}, errs.NewValueIsRequiredError("order")
	}

	details := o.Details()
	return r.ResolveKeys(
		details.GroceryStoreKey, details.FoodStoreKey, details.GenericStoreKey,
		details.Dropoff,
	), nil
}

// ResolveKeys resolves a route from raw store keys, for callers that read
// order rows without rebuilding the aggregate.
func (r *CoordinateResolver) ResolveKeys(groceryKey, foodKey, genericKey string, dropoff kernel.GeoPoint) Route {
	route := Route{Dropoff: dropoff}

	if groceryKey != "" {
		if store, ok := r.catalogs.Grocery[groceryKey]; ok {
			route.Pickup = store.Point
			route.PickupLabel = store.Name
			return route
		}
	}

	if foodKey != "" {
		if point, label, ok := resolveSite(r.catalogs.Food, foodKey); ok {
			route.Pickup = point
			route.PickupLabel = label
			return route
		}
	}

	if genericKey != "" {
		if point, label, ok := resolveSite(r.catalogs.Generic, genericKey); ok {
			route.Pickup = point
			route.PickupLabel = label
			return route
		}
	}

	return route
}

func resolveSite(catalog map[string]Store, key string) (kernel.GeoPoint, string, bool) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return kernel.GeoPoint{}, "", false
	}

	store, ok := catalog[parts[0]]
	if !ok {
		return kernel.GeoPoint{}, "", false
	}

	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 || idx >= len(store.Sites) {
		return kernel.GeoPoint{}, "", false
	}

	site := store.Sites[idx]
	label := store.Name
	if site.Address != "" {
		label = store.Name + " - " + site.Address
	}
	return site.Point, label, true
}
