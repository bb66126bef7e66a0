// Package restaurant contains the vendor read model consumed by the
// automation engine. Vendor CRUD lives elsewhere; the engine only reads
// serviceability state (active, accepting orders, hours, cities, menu
// availability, minimum order) to validate and assign orders.
package restaurant
