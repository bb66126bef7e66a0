// Package statuswatch is an in-process broker for order status transitions.
// Waiters subscribe per order id and are woken when any writer (HTTP
// transition endpoint, message-bus consumer) reports a new status. It exists
// so assignment waits latch onto transitions immediately instead of paying
// the full polling interval; polling stays in place as the fallback for
// transitions that bypass this process.
package statuswatch

import (
	"sync"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
)

// Watcher fans order status transitions out to per-order subscribers.
// Safe for concurrent use.
type Watcher struct {
	mu   sync.Mutex
	subs map[string]map[chan order.Status]struct{}
}

// NewWatcher creates an empty Watcher.
func NewWatcher() *Watcher {
	return &Watcher{
		subs: make(map[string]map[chan order.Status]struct{}),
	}
}

// Subscribe registers interest in one order's status transitions.
// The returned channel has a buffer of one; if a subscriber lags, newer
// statuses overwrite nothing - the subscriber re-reads authoritative state
// anyway, the signal only matters as a wakeup. The cancel func must be
// called to release the subscription.
func (w *Watcher) Subscribe(orderID kernel.UUID) (<-chan order.Status, func()) {
	ch := make(chan order.Status, 1)
	key := orderID.String()

	w.mu.Lock()
	if w.subs[key] == nil {
		w.subs[key] = make(map[chan order.Status]struct{})
	}
	w.subs[key][ch] = struct{}{}
	w.mu.Unlock()

	cancel := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if set, ok := w.subs[key]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(w.subs, key)
			}
		}
	}

	return ch, cancel
}

// Notify wakes every subscriber of the given order. Never blocks: a
// subscriber whose buffer is full already has a pending wakeup.
func (w *Watcher) Notify(orderID kernel.UUID, status order.Status) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for ch := range w.subs[orderID.String()] {
		select {
		case ch <- status:
		default:
		}
	}
}
