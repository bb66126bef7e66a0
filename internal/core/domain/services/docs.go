// Package services contains stateless domain services: the business rule
// validator that grades a placed order into typed violations, and the
// pricing adjuster that projects the delivery estimate and applies the
// peak-hour surcharge. Both are pure domain logic with no I/O; orchestration
// and persistence live in the application layer.
package services
