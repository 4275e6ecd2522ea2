package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

const (
	// GeoLatMin is the minimum valid latitude in degrees.
	GeoLatMin = -90.0
	// GeoLatMax is the maximum valid latitude in degrees.
	GeoLatMax = 90.0
	// GeoLngMin is the minimum valid longitude in degrees.
	GeoLngMin = -180.0
	// GeoLngMax is the maximum valid longitude in degrees.
	GeoLngMax = 180.0
)

// GeoPoint represents a geographic coordinate pair in decimal degrees.
// It is an immutable value object; NewGeoPoint validates the bounds.
//
// Unlike most kernel types the zero value of GeoPoint is meaningful: it
// stands for "coordinates unavailable". Orders whose pickup location cannot
// be resolved from any store catalog carry a zero GeoPoint, and callers must
// treat that as "route unavailable" rather than as an error.
type GeoPoint struct {
	lat float64
	lng float64
}

// NewGeoPoint creates a GeoPoint with the given latitude and longitude.
// Returns an error when either component is outside the valid degree range.
func NewGeoPoint(lat float64, lng float64) (GeoPoint, error) {
	if lat < GeoLatMin || lat > GeoLatMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("latitude", lat, GeoLatMin, GeoLatMax)
	}
	if lng < GeoLngMin || lng > GeoLngMax {
		return GeoPoint{}, errs.NewValueIsOutOfRangeError("longitude", lng, GeoLngMin, GeoLngMax)
	}

	return GeoPoint{lat: lat, lng: lng}, nil
}

// Lat returns the latitude in decimal degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in decimal degrees.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// IsZero reports whether the point carries no coordinates.
// A zero point means "location unavailable", not the actual 0,0 position off
// the west African coast; orders never legitimately resolve there.
func (p GeoPoint) IsZero() bool {
	return p.lat == 0 && p.lng == 0
}

// IsEqual compares two points for exact equality.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p == other
}

// String returns a human-readable representation, useful in logs.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%f,%f)", p.lat, p.lng)
}
