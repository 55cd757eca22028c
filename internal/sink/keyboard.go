package sink

import (
	"context"
	"fmt"

	"github.com/ayusman/tilt/internal/gesture"
	"github.com/ayusman/tilt/internal/log"
	"github.com/ayusman/tilt/internal/plugin"
)

// KeyAction is the keyboard plugin action that presses and releases one key.
const KeyAction = "key"

// Keyboard sends arrow keys through the keyboard plugin after focusing the
// game window.
type Keyboard struct {
	executor *plugin.Executor
	plugin   *plugin.Plugin
	focus    Focuser
}

// NewKeyboard creates a keyboard sink. focus may be nil, in which case the
// key goes to whatever window has focus.
func NewKeyboard(executor *plugin.Executor, p *plugin.Plugin, focus Focuser) *Keyboard {
	return &Keyboard{executor: executor, plugin: p, focus: focus}
}

// EnsureTargetFocused focuses the game window.
func (k *Keyboard) EnsureTargetFocused(ctx context.Context) bool {
	if k.focus == nil {
		return true
	}
	if err := k.focus.EnsureFocused(ctx); err != nil {
		log.Warn("could not focus game window", "err", err)
		return false
	}
	return true
}

// Send presses and releases the arrow key for a.
func (k *Keyboard) Send(ctx context.Context, a gesture.Action) error {
	key := a.Key()
	if key == "" {
		return fmt.Errorf("%s: %w", a, ErrNoKey)
	}

	if _, err := k.executor.Call(ctx, k.plugin, KeyAction, keyParams{Key: key}); err != nil {
		return fmt.Errorf("send %s: %w", key, err)
	}
	return nil
}

type keyParams struct {
	Key string `json:"key"`
}
