// Package sla holds the rule catalog: service-level time budgets per order
// type, priority profiles that scale fees and shrink those budgets, and the
// monitored lifecycle phases with their expected-status sets.
//
// Everything in this package is immutable configuration. The catalog is
// injected from the composition root so tests can run with overridden
// targets deterministically.
package sla
