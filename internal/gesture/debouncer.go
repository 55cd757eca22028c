package gesture

import "time"

// Default debouncer timings.
const (
	DefaultCooldown        = 500 * time.Millisecond
	DefaultDisplayDuration = 500 * time.Millisecond
)

// Debouncer decides which classified actions fire. An action fires only if it
// differs from the last fired action and the cooldown since the last firing has
// passed. Holding a direction therefore fires once; the action has to change
// before the same direction can fire again.
type Debouncer struct {
	cooldown    time.Duration
	displayFor  time.Duration
	lastFired   Action
	lastFiredAt time.Time
	fired       bool
}

// NewDebouncer creates a Debouncer with the given cooldown between firings and
// the duration the last fired action stays visible for display.
func NewDebouncer(cooldown, displayFor time.Duration) *Debouncer {
	return &Debouncer{
		cooldown:   cooldown,
		displayFor: displayFor,
	}
}

// Offer submits the action classified at time now and reports whether it fires.
// State changes only when it does.
func (d *Debouncer) Offer(a Action, now time.Time) bool {
	if a == None {
		return false
	}
	if d.fired {
		if a == d.lastFired {
			return false
		}
		if now.Sub(d.lastFiredAt) <= d.cooldown {
			return false
		}
	}

	d.lastFired = a
	d.lastFiredAt = now
	d.fired = true
	return true
}

// Display returns the most recently fired action while it is still within the
// display duration, and None afterwards. It has no effect on firing.
func (d *Debouncer) Display(now time.Time) Action {
	if !d.fired || now.Sub(d.lastFiredAt) > d.displayFor {
		return None
	}
	return d.lastFired
}

// LastFired returns the last fired action and when it fired.
// The time is zero if nothing has fired yet.
func (d *Debouncer) LastFired() (Action, time.Time) {
	return d.lastFired, d.lastFiredAt
}
