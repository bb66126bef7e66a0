package services_test

import (
	"testing"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/core/domain/model/restaurant"
	"hatid/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderParams struct {
	orderType order.Type
	priority  order.Priority
	city      string
	subtotal  float64
	fee       float64
	placedAt  time.Time
	items     []order.Item
}

func buildOrder(t *testing.T, p orderParams) *order.Order {
	t.Helper()
	if p.orderType == "" {
		p.orderType = order.TypeFood
	}
	if p.priority == "" {
		p.priority = order.PriorityNormal
	}
	if p.city == "" {
		p.city = "quezon city"
	}
	if p.placedAt.IsZero() {
		p.placedAt = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	}
	addr, err := kernel.NewAddress(p.city, 14.676, 121.0437)
	require.NoError(t, err)
	restaurantID := kernel.NewUUID()
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), &restaurantID,
		p.orderType, p.priority, addr, p.items, p.subtotal, p.fee, p.placedAt,
	)
	require.NoError(t, err)
	return o
}

type restaurantParams struct {
	active    bool
	accepting bool
	opening   int
	closing   int
	cities    []string
	minimum   float64
	menu      []restaurant.MenuItem
}

func buildRestaurant(t *testing.T, p restaurantParams) *restaurant.Restaurant {
	t.Helper()
	if p.cities == nil {
		p.cities = []string{"quezon city"}
	}
	if p.closing == 0 && p.opening == 0 {
		p.opening, p.closing = 8*60, 22*60
	}
	r, err := restaurant.NewRestaurant(
		kernel.NewUUID(), "Test Kitchen", p.active, p.accepting, 4.5,
		p.opening, p.closing, p.cities, p.minimum, p.menu,
	)
	require.NoError(t, err)
	return r
}

func violationTypes(vs services.Violations) []services.ViolationType {
	types := make([]services.ViolationType, 0, len(vs))
	for _, v := range vs {
		types = append(types, v.Type)
	}
	return types
}

func TestOrderValidator_RestaurantNotFound(t *testing.T) {
	v := services.NewOrderValidator()
	o := buildOrder(t, orderParams{subtotal: 300, fee: 50})

	violations, err := v.Validate(o, nil, 1)

	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, services.ViolationRestaurantNotFound, violations[0].Type)
	assert.Equal(t, services.SeverityCritical, violations[0].Severity)
	assert.Equal(t, services.ActionBlock, violations[0].Action)
	assert.True(t, violations.Blocking())
}

func TestOrderValidator_BlockingChecks(t *testing.T) {
	v := services.NewOrderValidator()

	t.Run("inactive_restaurant_blocks", func(t *testing.T) {
		o := buildOrder(t, orderParams{subtotal: 300, fee: 50})
		r := buildRestaurant(t, restaurantParams{active: false, accepting: true, minimum: 200})

		violations, err := v.Validate(o, r, 1)

		require.NoError(t, err)
		assert.Contains(t, violationTypes(violations), services.ViolationRestaurantInactive)
		assert.True(t, violations.Blocking())
	})

	t.Run("outside_operating_hours_blocks", func(t *testing.T) {
		o := buildOrder(t, orderParams{
			subtotal: 300, fee: 50,
			placedAt: time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC),
		})
		r := buildRestaurant(t, restaurantParams{active: true, accepting: true, minimum: 200})

		violations, err := v.Validate(o, r, 1)

		require.NoError(t, err)
		assert.Contains(t, violationTypes(violations), services.ViolationOutsideOperatingHours)
		assert.True(t, violations.Blocking())
	})

	t.Run("outside_delivery_area_blocks", func(t *testing.T) {
		o := buildOrder(t, orderParams{city: "cebu", subtotal: 300, fee: 50})
		r := buildRestaurant(t, restaurantParams{active: true, accepting: true, minimum: 200})

		violations, err := v.Validate(o, r, 1)

		require.NoError(t, err)
		assert.Contains(t, violationTypes(violations), services.ViolationOutsideDeliveryArea)
		assert.True(t, violations.Blocking())
	})

	t.Run("below_minimum_order_blocks", func(t *testing.T) {
		o := buildOrder(t, orderParams{subtotal: 120, fee: 30})
		r := buildRestaurant(t, restaurantParams{active: true, accepting: true, minimum: 200})

		violations, err := v.Validate(o, r, 1)

		require.NoError(t, err)
		require.Len(t, violations, 1)
		assert.Equal(t, services.ViolationBelowMinimumOrder, violations[0].Type)
		assert.Equal(t, services.SeverityError, violations[0].Severity)
		assert.Equal(t, services.ActionBlock, violations[0].Action)
	})

	t.Run("all_checks_evaluated_no_short_circuit", func(t *testing.T) {
		o := buildOrder(t, orderParams{city: "cebu", subtotal: 100, fee: 20})
		r := buildRestaurant(t, restaurantParams{active: false, accepting: true, minimum: 200})

		violations, err := v.Validate(o, r, 1)

		require.NoError(t, err)
		types := violationTypes(violations)
		assert.Contains(t, types, services.ViolationRestaurantInactive)
		assert.Contains(t, types, services.ViolationOutsideDeliveryArea)
		assert.Contains(t, types, services.ViolationBelowMinimumOrder)
	})
}

func TestOrderValidator_ItemAvailability(t *testing.T) {
	v := services.NewOrderValidator()
	availableID := kernel.NewUUID()
	unavailableID := kernel.NewUUID()
	menu := []restaurant.MenuItem{
		{ID: availableID, Name: "Sinigang", Available: true},
		{ID: unavailableID, Name: "Kare-Kare", Available: false},
	}

	t.Run("unavailable_item_warns_but_does_not_block", func(t *testing.T) {
		item1, err := order.NewItem(availableID, "Sinigang", 1, 180)
		require.NoError(t, err)
		item2, err := order.NewItem(unavailableID, "Kare-Kare", 1, 250)
		require.NoError(t, err)
		o := buildOrder(t, orderParams{subtotal: 430, fee: 50, items: []order.Item{item1, item2}})
		r := buildRestaurant(t, restaurantParams{active: true, accepting: true, minimum: 200, menu: menu})

		violations, err := v.Validate(o, r, 1)

		require.NoError(t, err)
		require.Len(t, violations, 1)
		assert.Equal(t, services.ViolationItemUnavailable, violations[0].Type)
		assert.Equal(t, services.ActionWarn, violations[0].Action)
		assert.False(t, violations.Blocking())
	})

	t.Run("unknown_item_warns", func(t *testing.T) {
		ghost, err := order.NewItem(kernel.NewUUID(), "Ghost Dish", 1, 99)
		require.NoError(t, err)
		o := buildOrder(t, orderParams{subtotal: 300, fee: 50, items: []order.Item{ghost}})
		r := buildRestaurant(t, restaurantParams{active: true, accepting: true, minimum: 200, menu: menu})

		violations, err := v.Validate(o, r, 1)

		require.NoError(t, err)
		assert.Contains(t, violationTypes(violations), services.ViolationItemUnavailable)
	})

	t.Run("non_food_orders_skip_menu_checks", func(t *testing.T) {
		ghost, err := order.NewItem(kernel.NewUUID(), "Meds", 1, 99)
		require.NoError(t, err)
		o := buildOrder(t, orderParams{
			orderType: order.TypePabili, subtotal: 300, fee: 50, items: []order.Item{ghost},
		})
		r := buildRestaurant(t, restaurantParams{active: true, accepting: true, minimum: 200, menu: menu})

		violations, err := v.Validate(o, r, 1)

		require.NoError(t, err)
		assert.Empty(t, violations)
	})
}

func TestOrderValidator_Advisories(t *testing.T) {
	v := services.NewOrderValidator()
	noon := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("peak_hour_advisory_for_normal_priority", func(t *testing.T) {
		o := buildOrder(t, orderParams{subtotal: 300, fee: 50, placedAt: noon})
		r := buildRestaurant(t, restaurantParams{active: true, accepting: true, minimum: 200})

		violations, err := v.Validate(o, r, 1)

		require.NoError(t, err)
		require.Len(t, violations, 1)
		assert.Equal(t, services.ViolationPeakHourAdvisory, violations[0].Type)
		assert.Equal(t, services.ActionMonitor, violations[0].Action)
		assert.False(t, violations.Blocking())
	})

	t.Run("express_and_critical_are_exempt_from_peak_advisory", func(t *testing.T) {
		for _, p := range []order.Priority{order.PriorityExpress, order.PriorityCritical} {
			o := buildOrder(t, orderParams{priority: p, subtotal: 300, fee: 50, placedAt: noon})
			r := buildRestaurant(t, restaurantParams{active: true, accepting: true, minimum: 200})

			violations, err := v.Validate(o, r, 1)

			require.NoError(t, err)
			assert.NotContains(t, violationTypes(violations), services.ViolationPeakHourAdvisory, p)
		}
	})

	t.Run("high_order_frequency_advisory", func(t *testing.T) {
		o := buildOrder(t, orderParams{subtotal: 300, fee: 50})
		r := buildRestaurant(t, restaurantParams{active: true, accepting: true, minimum: 200})

		violations, err := v.Validate(o, r, 10)

		require.NoError(t, err)
		require.Len(t, violations, 1)
		assert.Equal(t, services.ViolationHighOrderFrequency, violations[0].Type)
		assert.Equal(t, services.ActionMonitor, violations[0].Action)
	})

	t.Run("nine_orders_today_is_fine", func(t *testing.T) {
		o := buildOrder(t, orderParams{subtotal: 300, fee: 50})
		r := buildRestaurant(t, restaurantParams{active: true, accepting: true, minimum: 200})

		violations, err := v.Validate(o, r, 9)

		require.NoError(t, err)
		assert.Empty(t, violations)
	})
}

func TestOrderValidator_PabiliScenario(t *testing.T) {
	// pabili order at 09:00, fee 50, total 300, minimum 200, valid city and
	// hours, one unavailable menu item: accepted with a single warning.
	// Item checks only run for food orders, so the pabili variant is clean;
	// the food variant carries the warning.
	v := services.NewOrderValidator()
	unavailableID := kernel.NewUUID()
	menu := []restaurant.MenuItem{{ID: unavailableID, Name: "Out of Stock", Available: false}}
	item, err := order.NewItem(unavailableID, "Out of Stock", 1, 120)
	require.NoError(t, err)

	o := buildOrder(t, orderParams{
		orderType: order.TypeFood,
		subtotal:  250, fee: 50,
		placedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		items:    []order.Item{item},
	})
	r := buildRestaurant(t, restaurantParams{active: true, accepting: true, minimum: 200, menu: menu})

	violations, err := v.Validate(o, r, 1)

	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, services.ViolationItemUnavailable, violations[0].Type)
	assert.False(t, violations.Blocking())
}

func TestOrderValidator_DoesNotMutate(t *testing.T) {
	v := services.NewOrderValidator()
	o := buildOrder(t, orderParams{subtotal: 120, fee: 30})
	r := buildRestaurant(t, restaurantParams{active: true, accepting: true, minimum: 200})

	totalBefore := o.TotalAmount()
	statusBefore := o.Status()

	_, err := v.Validate(o, r, 1)

	require.NoError(t, err)
	assert.Equal(t, totalBefore, o.TotalAmount())
	assert.Equal(t, statusBefore, o.Status())
}
