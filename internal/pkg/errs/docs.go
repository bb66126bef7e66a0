// Package errs provides the standardized error types used across the engine.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping.
//
// Each error type follows the same shape:
//   - A sentinel error variable (e.g., ErrValueIsRequired) for errors.Is checks
//   - A struct type carrying the offending parameter and an optional cause
//   - Constructor functions with and without cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Callers classify failures with errors.Is against the sentinels. The
// VersionIsInvalid family doubles as the optimistic-concurrency conflict
// signal raised by repositories on stale writes.
package errs
