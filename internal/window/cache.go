package window

import (
	"context"
	"fmt"
	"time"

	"github.com/ayusman/tilt/internal/log"
	"github.com/ayusman/tilt/internal/timeutil"
)

// CacheConfig tunes a Cache.
type CacheConfig struct {
	Interval time.Duration // minimum time between full lookups
	Settle   time.Duration // pause after a successful activation
	Primary  []string
	Fallback []string
}

// Cache remembers the resolved game window so that the window list is
// queried at most once per interval. It is not safe for concurrent use.
type Cache struct {
	backend Backend
	clock   timeutil.Clock
	cfg     CacheConfig

	target    *Window
	lastCheck time.Time
	lookups   int
}

// NewCache creates a window cache over backend.
func NewCache(backend Backend, clock timeutil.Clock, cfg CacheConfig) *Cache {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Cache{
		backend: backend,
		clock:   clock,
		cfg:     cfg,
	}
}

// EnsureFocused brings the target window to the front.
//
// Within the lookup interval the cached window is re-activated. If that
// fails the handle is dropped and a fresh lookup runs straight away.
// A successful lookup restarts the interval; a failed one does not.
func (c *Cache) EnsureFocused(ctx context.Context) error {
	if c.target != nil && c.clock.Since(c.lastCheck) < c.cfg.Interval {
		err := c.backend.Activate(ctx, *c.target)
		if err == nil {
			c.clock.Sleep(c.cfg.Settle)
			return nil
		}
		log.Debug("cached window gone", "title", c.target.Title, "err", err)
		c.target = nil
	}

	c.lookups++
	log.Debug("looking up game window", "lookup", c.lookups)
	windows, err := c.backend.List(ctx)
	if err != nil {
		return fmt.Errorf("list windows: %w", err)
	}

	w, ok := Resolve(windows, c.cfg.Primary, c.cfg.Fallback)
	if !ok {
		return ErrNoWindow
	}

	if !w.Active {
		if err := c.backend.Activate(ctx, w); err != nil {
			return fmt.Errorf("activate %q: %w", w.Title, err)
		}
	}
	c.clock.Sleep(c.cfg.Settle)

	if c.target == nil || c.target.ID != w.ID {
		log.Info("target window", "title", w.Title, "id", w.ID)
	}
	c.target = &w
	c.lastCheck = c.clock.Now()
	return nil
}
