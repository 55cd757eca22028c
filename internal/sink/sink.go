// Package sink delivers fired actions to the game as arrow-key presses.
package sink

import (
	"context"
	"errors"

	"github.com/ayusman/tilt/internal/gesture"
)

// ErrNoKey is returned when an action has no key binding.
var ErrNoKey = errors.New("action has no key")

// Sink receives fired actions.
//
// EnsureTargetFocused is best effort: a false result is logged by the caller
// and the key is sent anyway. Send errors are reported but never retried.
type Sink interface {
	EnsureTargetFocused(ctx context.Context) bool
	Send(ctx context.Context, a gesture.Action) error
}

// Focuser brings the target window to the front.
type Focuser interface {
	EnsureFocused(ctx context.Context) error
}
