package restaurant

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/pkg/errs"
	"hatid/internal/pkg/guard"
)

const minutesPerDay = 24 * 60

// Domain errors for restaurant operations.
var (
	// ErrNameIsRequired is returned when attempting to create a restaurant without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrRestaurantIsNotConstructed is returned when using an improperly initialized Restaurant.
	ErrRestaurantIsNotConstructed = errors.New("Restaurant must be created via NewRestaurant constructor")
)

// Restaurant is the vendor read model the engine validates and assigns
// against. The vendor dashboards own the full aggregate; the engine only
// reads serviceability state: whether the vendor is live, open, serving the
// delivery city, and which menu items are currently available.
//
// Business rules enforced here:
//   - A restaurant must have a valid UUID and a non-empty name.
//   - Operating hours are minutes of day; an open/close pair of (0,0) means
//     the restaurant never opens.
//   - Rating is clamped to [0..5] on construction input validation.
//   - Service cities are canonicalized lower-case for membership checks.
type Restaurant struct {
	id              kernel.UUID
	name            string
	active          bool
	acceptingOrders bool
	rating          float64
	openingMinute   int
	closingMinute   int
	serviceCities   map[string]struct{}
	minimumOrder    float64
	menu            []MenuItem
	guard           guard.ConstructorGuard
}

// MenuItem is a snapshot of a vendor menu entry, only as much as validation
// needs: identity, display name and current availability.
type MenuItem struct {
	ID        kernel.UUID
	Name      string
	Available bool
}

// NewRestaurant creates a validated Restaurant read model.
//
// Parameters:
//   - id: vendor identifier
//   - name: display name, non-empty
//   - active, acceptingOrders: live-ness flags from the vendor dashboard
//   - rating: average customer rating in [0..5]
//   - openingMinute, closingMinute: operating window as minutes of day [0..1440)
//   - serviceCities: cities the vendor delivers to
//   - minimumOrder: smallest accepted order total, non-negative
//   - menu: current menu snapshot
func NewRestaurant(
	id kernel.UUID,
	name string,
	active bool,
	acceptingOrders bool,
	rating float64,
	openingMinute int,
	closingMinute int,
	serviceCities []string,
	minimumOrder float64,
	menu []MenuItem,
) (*Restaurant, error) {
	r := &Restaurant{
		active:          active,
		acceptingOrders: acceptingOrders,
		serviceCities:   make(map[string]struct{}, len(serviceCities)),
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setRating(rating),
		r.setOperatingWindow(openingMinute, closingMinute),
		r.setMinimumOrder(minimumOrder),
	); err != nil {
		return nil, err
	}

	for _, city := range serviceCities {
		canonical := strings.ToLower(strings.TrimSpace(city))
		if canonical == "" {
			continue
		}
		r.serviceCities[canonical] = struct{}{}
	}
	r.menu = append([]MenuItem(nil), menu...)

	return r, nil
}

// Validate ensures the Restaurant was created through NewRestaurant.
func (r *Restaurant) Validate() error {
	if r == nil {
		return ErrRestaurantIsNotConstructed
	}
	return r.guard.Validate(ErrRestaurantIsNotConstructed)
}

// ID returns the vendor identifier.
func (r *Restaurant) ID() kernel.UUID {
	return r.id
}

// Name returns the vendor display name.
func (r *Restaurant) Name() string {
	return r.name
}

// IsActive reports whether the vendor account is live.
func (r *Restaurant) IsActive() bool {
	return r.active
}

// IsAcceptingOrders reports whether the vendor currently takes new orders.
func (r *Restaurant) IsAcceptingOrders() bool {
	return r.acceptingOrders
}

// Rating returns the average customer rating.
func (r *Restaurant) Rating() float64 {
	return r.rating
}

// MinimumOrder returns the vendor's configured minimum order total.
func (r *Restaurant) MinimumOrder() float64 {
	return r.minimumOrder
}

// OpeningMinute returns the opening time as minutes of day.
func (r *Restaurant) OpeningMinute() int {
	return r.openingMinute
}

// ClosingMinute returns the closing time as minutes of day.
func (r *Restaurant) ClosingMinute() int {
	return r.closingMinute
}

// ServiceCities returns the canonical city names the vendor delivers to.
func (r *Restaurant) ServiceCities() []string {
	cities := make([]string, 0, len(r.serviceCities))
	for city := range r.serviceCities {
		cities = append(cities, city)
	}
	return cities
}

// Menu returns a copy of the menu snapshot.
func (r *Restaurant) Menu() []MenuItem {
	return append([]MenuItem(nil), r.menu...)
}

// IsOpenAt reports whether t falls inside the operating window.
// Windows wrapping midnight (closing minute below opening minute) are
// supported; an equal pair means the restaurant never opens.
func (r *Restaurant) IsOpenAt(t time.Time) bool {
	if r.openingMinute == r.closingMinute {
		return false
	}

	minute := t.Hour()*60 + t.Minute()
	if r.openingMinute < r.closingMinute {
		return minute >= r.openingMinute && minute < r.closingMinute
	}
	// window wraps past midnight
	return minute >= r.openingMinute || minute < r.closingMinute
}

// ServesCity reports whether the vendor delivers to the given city.
// The comparison is case-insensitive.
func (r *Restaurant) ServesCity(city string) bool {
	_, ok := r.serviceCities[strings.ToLower(strings.TrimSpace(city))]
	return ok
}

// MenuItem looks up a menu entry by its identifier.
// The second return value reports whether the item exists at all.
func (r *Restaurant) MenuItem(id kernel.UUID) (MenuItem, bool) {
	for _, item := range r.menu {
		if item.ID.IsEqual(id) {
			return item, true
		}
	}
	return MenuItem{}, false
}

func (r *Restaurant) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Restaurant) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	r.name = name
	return nil
}

func (r *Restaurant) setRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return errs.NewValueIsOutOfRangeError("rating", rating, 0, 5)
	}
	r.rating = rating
	return nil
}

func (r *Restaurant) setOperatingWindow(openingMinute, closingMinute int) error {
	if openingMinute < 0 || openingMinute >= minutesPerDay {
		return errs.NewValueIsOutOfRangeError("opening minute", openingMinute, 0, minutesPerDay-1)
	}
	if closingMinute < 0 || closingMinute >= minutesPerDay {
		return errs.NewValueIsOutOfRangeError("closing minute", closingMinute, 0, minutesPerDay-1)
	}
	r.openingMinute = openingMinute
	r.closingMinute = closingMinute
	return nil
}

func (r *Restaurant) setMinimumOrder(minimumOrder float64) error {
	if minimumOrder < 0 {
		return errs.NewValueIsInvalidErrorWithCause("minimum order",
			fmt.Errorf("%.2f is negative", minimumOrder))
	}
	r.minimumOrder = minimumOrder
	return nil
}
