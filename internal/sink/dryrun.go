package sink

import (
	"context"
	"fmt"
	"sync"

	"github.com/ayusman/tilt/internal/gesture"
	"github.com/ayusman/tilt/internal/log"
)

// DryRun logs actions instead of pressing keys. It also serves as an
// in-memory sink for tests.
type DryRun struct {
	mu      sync.Mutex
	sent    []gesture.Action
	focused bool
	sendErr error
}

// NewDryRun creates a sink that always reports the target as focused.
func NewDryRun() *DryRun {
	return &DryRun{focused: true}
}

// SetFocused sets the EnsureTargetFocused result.
func (d *DryRun) SetFocused(ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.focused = ok
}

// SetSendError makes every subsequent Send fail with err.
func (d *DryRun) SetSendError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sendErr = err
}

// EnsureTargetFocused returns the configured focus result.
func (d *DryRun) EnsureTargetFocused(ctx context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focused
}

// Send records a and logs it.
func (d *DryRun) Send(ctx context.Context, a gesture.Action) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if a.Key() == "" {
		return fmt.Errorf("%s: %w", a, ErrNoKey)
	}
	d.sent = append(d.sent, a)
	log.Info("key press", "key", a.Key(), "dry_run", true)
	return d.sendErr
}

// Sent returns the actions passed to Send, in order.
func (d *DryRun) Sent() []gesture.Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]gesture.Action, len(d.sent))
	copy(out, d.sent)
	return out
}
