package kernel

import (
	"errors"
	"fmt"
	"strings"

	"hatid/internal/pkg/errs"
	"hatid/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin float64 = -90
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax float64 = 90
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin float64 = -180
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax float64 = 180
)

// ErrAddressIsNotConstructed is returned when attempting to use an improperly initialized Address.
// Addresses must be created through the NewAddress constructor to ensure validity.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address is an immutable value object representing a delivery destination:
// the service city it belongs to plus geographic coordinates.
//
// The city is canonicalized (trimmed, lower-cased) on construction so that
// service-area membership checks are case-insensitive. The zero value of
// Address is invalid and fails validation - use the constructor.
//
// Example:
//
//	addr, err := kernel.NewAddress("Quezon City", 14.6760, 121.0437)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(addr.City()) // Output: quezon city
type Address struct { //nolint:recvcheck //using for validation
	city      string
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewAddress creates a validated Address.
// The city must be non-empty; latitude and longitude must lie within the
// valid geographic ranges. Returns an error describing every failed field.
func NewAddress(city string, latitude, longitude float64) (Address, error) {
	addr := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		addr.setCity(city),
		addr.setLatitude(latitude),
		addr.setLongitude(longitude),
	); err != nil {
		return Address{}, err
	}

	return addr, nil
}

// City returns the canonical (lower-case, trimmed) city name.
func (a Address) City() string {
	return a.city
}

// Latitude returns the latitude in degrees.
func (a Address) Latitude() float64 {
	return a.latitude
}

// Longitude returns the longitude in degrees.
func (a Address) Longitude() float64 {
	return a.longitude
}

// IsEqual compares two addresses by city and coordinates.
func (a Address) IsEqual(other Address) bool {
	return a.city == other.city && a.latitude == other.latitude && a.longitude == other.longitude
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return fmt.Sprintf("%s (%.4f,%.4f)", a.city, a.latitude, a.longitude)
}

// Validate checks that the Address was created through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a *Address) setCity(city string) error {
	canonical := strings.ToLower(strings.TrimSpace(city))
	if canonical == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = canonical
	return nil
}

func (a *Address) setLatitude(latitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}
	a.latitude = latitude
	return nil
}

func (a *Address) setLongitude(longitude float64) error {
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}
	a.longitude = longitude
	return nil
}
