// Package order contains the Order aggregate and its supporting value objects:
// the lifecycle Status state machine, the errand Type, the service Priority and
// the ordered Item snapshot.
//
// The Order is the single shared mutable resource of the automation engine.
// Writers guard every status mutation with the state machine, and the storage
// layer enforces optimistic versioning, so concurrently running automation
// flows (assignment, SLA monitoring, external status transitions) stay safe
// under interleaving.
package order
