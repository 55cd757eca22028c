// Package tray provides the optional system tray menu: pause toggle, last
// fired action, calibration status and Quit.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onReady  func()
	onToggle func(enabled bool)
	enabled  bool
	mu       sync.RWMutex

	quit     chan struct{}
	quitOnce sync.Once

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuLast   *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
		quit:    make(chan struct{}),
	}
}

// OnReady sets a function run once the tray menu exists.
func (t *Tray) OnReady(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReady = fn
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// Run starts the system tray application.
// It must be called from the main goroutine and blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.ready, t.exit)
}

// Quit closes the tray. It is safe to call more than once.
func (t *Tray) Quit() {
	t.requestQuit()
	systray.Quit()
}

// Done is closed when the user chooses Quit or Quit is called.
func (t *Tray) Done() <-chan struct{} {
	return t.quit
}

func (t *Tray) ready() {
	systray.SetTitle("tilt")
	systray.SetTooltip("tilt head-tilt game controller")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem("● Enabled", "Pause or resume key presses")
	systray.AddSeparator()

	t.menuLast = systray.AddMenuItem("Last: none", "Last fired action")
	t.menuLast.Disable()
	t.menuStatus = systray.AddMenuItem("Calibrating 0%", "Calibration status")
	t.menuStatus.Disable()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit tilt")
	onReady := t.onReady
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.Quit()
				return
			case <-t.quit:
				return
			}
		}
	}()

	if onReady != nil {
		onReady()
	}
}

func (t *Tray) exit() {
	t.requestQuit()
}

func (t *Tray) requestQuit() {
	t.quitOnce.Do(func() { close(t.quit) })
}

// handleToggle flips the enabled state.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		if enabled {
			t.menuToggle.SetTitle("● Enabled")
		} else {
			t.menuToggle.SetTitle("○ Paused")
		}
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// SetLastAction updates the last fired action shown in the menu.
func (t *Tray) SetLastAction(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLast == nil {
		return
	}
	if name == "" {
		t.menuLast.SetTitle("Last: none")
	} else {
		t.menuLast.SetTitle("Last: " + name)
	}
}

// SetStatus updates the calibration status line.
func (t *Tray) SetStatus(status string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuStatus != nil {
		t.menuStatus.SetTitle(status)
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
