// Package console holds the per-screen view state of the parking client:
// what each screen has loaded, which actions are in flight, and the
// transient notifications that bubble up to the root shell. Rendering is
// left to the caller; everything here is testable without a terminal.
package console

import (
	"sync"
	"time"
)

// Toast variants, matching the server-facing vocabulary of the screens.
const (
	VariantSuccess = "success"
	VariantInfo    = "info"
	VariantWarning = "warning"
	VariantDanger  = "danger"
)

// DefaultToastTimeout is how long a toast stays up unless dismissed.
const DefaultToastTimeout = 4 * time.Second

// Toast is a transient user-facing notification.
type Toast struct {
	ID      int
	Text    string
	Variant string
}

// Notify is the upward-dispatch hook screens use to emit a toast. Screens
// never touch the ToastCenter directly; the root shell owns it.
type Notify func(text, variant string)

// ToastCenter keeps the process-wide toast list: monotonic ids, insertion
// order, auto-expiry, no coalescing of duplicate text. Expiry timers fire
// on their own goroutines, hence the mutex.
type ToastCenter struct {
	mu      sync.Mutex
	next    int
	items   []Toast
	timeout time.Duration
}

// NewToastCenter builds a center with the default timeout.
func NewToastCenter() *ToastCenter {
	return &ToastCenter{timeout: DefaultToastTimeout}
}

// Push appends a toast and schedules its expiry. A timeout of zero or
// below on the center disables auto-expiry.
func (tc *ToastCenter) Push(text, variant string) int {
	return tc.PushTimeout(text, variant, tc.timeout)
}

// PushTimeout is Push with an explicit lifetime.
func (tc *ToastCenter) PushTimeout(text, variant string, timeout time.Duration) int {
	tc.mu.Lock()
	tc.next++
	id := tc.next
	tc.items = append(tc.items, Toast{ID: id, Text: text, Variant: variant})
	tc.mu.Unlock()

	if timeout > 0 {
		time.AfterFunc(timeout, func() { tc.Dismiss(id) })
	}
	return id
}

// Dismiss removes a toast immediately. Unknown ids are a no-op.
func (tc *ToastCenter) Dismiss(id int) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	for i, item := range tc.items {
		if item.ID == id {
			tc.items = append(tc.items[:i], tc.items[i+1:]...)
			return
		}
	}
}

// Active returns the live toasts in insertion order.
func (tc *ToastCenter) Active() []Toast {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	out := make([]Toast, len(tc.items))
	copy(out, tc.items)
	return out
}
