// Package config holds the runtime tunables for tilt and loads them from JSON files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/tilt/internal/gesture"
)

// Config holds all tunable parameters of the controller.
type Config struct {
	// Calibration and classification
	SamplesNeeded     int     // Detections averaged into the reference center
	ThresholdFraction float64 // Zone offset as a fraction of the frame size

	// Debouncing
	ActionCooldown time.Duration // Minimum time between two firings
	ActionDuration time.Duration // How long the last fired action stays on screen

	// Target window
	WindowCheckInterval time.Duration // Minimum time between window lookups
	WindowKeywords      []string      // Title keywords identifying the game window
	FallbackKeywords    []string      // Title keywords of acceptable fallback windows
	FocusSettle         time.Duration // Pause after activating the window

	// Capture
	CameraID        int
	FrameWidth      int
	FrameHeight     int
	Mirror          bool    // Flip frames horizontally before detection
	MotionThreshold float64 // Percent of changed pixels; 0 disables motion gating
	MinConfidence   float64 // Minimum pose detection confidence

	// Output
	PluginDir      string
	KeyboardPlugin string
	WindowPlugin   string
	PluginTimeout  time.Duration
	DryRun         bool // Log actions instead of pressing keys

	// Surfaces
	Preview     bool   // Show the camera preview window
	Tray        bool   // Show the system tray menu
	JournalPath string // SQLite session journal; empty disables it
	LogLevel    string
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	pluginDir := "plugins"
	if home, err := os.UserHomeDir(); err == nil {
		pluginDir = filepath.Join(home, ".tilt", "plugins")
	}

	return Config{
		SamplesNeeded:     gesture.DefaultSamplesNeeded,
		ThresholdFraction: gesture.DefaultThresholdFraction,

		ActionCooldown: gesture.DefaultCooldown,
		ActionDuration: gesture.DefaultDisplayDuration,

		WindowCheckInterval: 2 * time.Second,
		WindowKeywords:      []string{"Poki", "Subway Surfers"},
		FallbackKeywords:    []string{"Chrome", "Firefox", "Edge", "Safari"},
		FocusSettle:         50 * time.Millisecond,

		CameraID:        0,
		FrameWidth:      640,
		FrameHeight:     480,
		Mirror:          true,
		MotionThreshold: 0,
		MinConfidence:   0.5,

		PluginDir:      pluginDir,
		KeyboardPlugin: "keyboard",
		WindowPlugin:   "window-focus",
		PluginTimeout:  5 * time.Second,

		Preview:  true,
		LogLevel: "info",
	}
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.SamplesNeeded < 1 {
		return fmt.Errorf("samples_needed must be at least 1, got %d", c.SamplesNeeded)
	}
	if c.ThresholdFraction <= 0 || c.ThresholdFraction >= 0.5 {
		return fmt.Errorf("threshold_fraction must be between 0 and 0.5, got %f", c.ThresholdFraction)
	}

	durations := map[string]time.Duration{
		"action_cooldown":       c.ActionCooldown,
		"action_duration":       c.ActionDuration,
		"window_check_interval": c.WindowCheckInterval,
		"focus_settle":          c.FocusSettle,
		"plugin_timeout":        c.PluginTimeout,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%s must be non-negative, got %v", name, d)
		}
	}
	if c.PluginTimeout == 0 {
		return fmt.Errorf("plugin_timeout must be positive")
	}

	if len(c.WindowKeywords) == 0 && len(c.FallbackKeywords) == 0 {
		return fmt.Errorf("at least one window keyword is required")
	}
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return fmt.Errorf("frame size must be positive, got %dx%d", c.FrameWidth, c.FrameHeight)
	}
	if c.MotionThreshold < 0 || c.MotionThreshold > 100 {
		return fmt.Errorf("motion_threshold must be between 0 and 100, got %f", c.MotionThreshold)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be between 0 and 1, got %f", c.MinConfidence)
	}
	if c.Tray && c.Preview {
		return fmt.Errorf("tray and preview cannot be enabled together")
	}

	return nil
}
