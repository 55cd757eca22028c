package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// maxFileSize bounds config files read from disk.
const maxFileSize = 1 * 1024 * 1024

// File is the JSON form of Config. Every field is optional so partial files
// are valid; unset fields keep whatever value the Config already has.
type File struct {
	SamplesNeeded     *int     `json:"samples_needed,omitempty"`
	ThresholdFraction *float64 `json:"threshold_fraction,omitempty"`

	ActionCooldown *string `json:"action_cooldown,omitempty"` // duration string like "500ms"
	ActionDuration *string `json:"action_duration,omitempty"`

	WindowCheckInterval *string  `json:"window_check_interval,omitempty"`
	WindowKeywords      []string `json:"window_keywords,omitempty"`
	FallbackKeywords    []string `json:"fallback_keywords,omitempty"`
	FocusSettle         *string  `json:"focus_settle,omitempty"`

	CameraID        *int     `json:"camera_id,omitempty"`
	FrameWidth      *int     `json:"frame_width,omitempty"`
	FrameHeight     *int     `json:"frame_height,omitempty"`
	Mirror          *bool    `json:"mirror,omitempty"`
	MotionThreshold *float64 `json:"motion_threshold,omitempty"`
	MinConfidence   *float64 `json:"min_confidence,omitempty"`

	PluginDir      *string `json:"plugin_dir,omitempty"`
	KeyboardPlugin *string `json:"keyboard_plugin,omitempty"`
	WindowPlugin   *string `json:"window_plugin,omitempty"`
	PluginTimeout  *string `json:"plugin_timeout,omitempty"`
	DryRun         *bool   `json:"dry_run,omitempty"`

	Preview     *bool   `json:"preview,omitempty"`
	Tray        *bool   `json:"tray,omitempty"`
	JournalPath *string `json:"journal,omitempty"`
	LogLevel    *string `json:"log_level,omitempty"`
}

// Load reads a File from a JSON config path.
// The path must have a .json extension and be under 1MB.
func Load(path string) (*File, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	f := &File{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return f, nil
}

// Apply copies every field set in f onto cfg.
func (f *File) Apply(cfg *Config) error {
	if f.SamplesNeeded != nil {
		cfg.SamplesNeeded = *f.SamplesNeeded
	}
	if f.ThresholdFraction != nil {
		cfg.ThresholdFraction = *f.ThresholdFraction
	}

	durations := []struct {
		name string
		src  *string
		dst  *time.Duration
	}{
		{"action_cooldown", f.ActionCooldown, &cfg.ActionCooldown},
		{"action_duration", f.ActionDuration, &cfg.ActionDuration},
		{"window_check_interval", f.WindowCheckInterval, &cfg.WindowCheckInterval},
		{"focus_settle", f.FocusSettle, &cfg.FocusSettle},
		{"plugin_timeout", f.PluginTimeout, &cfg.PluginTimeout},
	}
	for _, d := range durations {
		if d.src == nil || *d.src == "" {
			continue
		}
		v, err := time.ParseDuration(*d.src)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", d.name, *d.src, err)
		}
		*d.dst = v
	}

	if f.WindowKeywords != nil {
		cfg.WindowKeywords = f.WindowKeywords
	}
	if f.FallbackKeywords != nil {
		cfg.FallbackKeywords = f.FallbackKeywords
	}

	if f.CameraID != nil {
		cfg.CameraID = *f.CameraID
	}
	if f.FrameWidth != nil {
		cfg.FrameWidth = *f.FrameWidth
	}
	if f.FrameHeight != nil {
		cfg.FrameHeight = *f.FrameHeight
	}
	if f.Mirror != nil {
		cfg.Mirror = *f.Mirror
	}
	if f.MotionThreshold != nil {
		cfg.MotionThreshold = *f.MotionThreshold
	}
	if f.MinConfidence != nil {
		cfg.MinConfidence = *f.MinConfidence
	}

	if f.PluginDir != nil {
		cfg.PluginDir = *f.PluginDir
	}
	if f.KeyboardPlugin != nil {
		cfg.KeyboardPlugin = *f.KeyboardPlugin
	}
	if f.WindowPlugin != nil {
		cfg.WindowPlugin = *f.WindowPlugin
	}
	if f.DryRun != nil {
		cfg.DryRun = *f.DryRun
	}

	if f.Preview != nil {
		cfg.Preview = *f.Preview
	}
	if f.Tray != nil {
		cfg.Tray = *f.Tray
		// The tray owns the main thread; it replaces the preview unless the
		// file asks for both.
		if cfg.Tray && f.Preview == nil {
			cfg.Preview = false
		}
	}
	if f.JournalPath != nil {
		cfg.JournalPath = *f.JournalPath
	}
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}

	return nil
}
