package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ayusman/tilt/internal/config"
	"github.com/ayusman/tilt/internal/log"
)

// newRootCmd builds the tilt command tree. Running tilt without a
// subcommand starts the controller.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tilt",
		Short: "Play Subway Surfers with your head",
		Long: `tilt watches your head through the webcam and presses the arrow keys
for a browser game: tilt left or right to change lanes, up to jump, down to roll.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log.Init(cfg.LogLevel)
			printInstructions(cmd.OutOrStdout())
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	addRunFlags(cmd)
	cmd.AddCommand(newPluginsCmd(), newJournalCmd())
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	def := config.Default()
	f := cmd.Flags()

	f.String("config", "", "JSON config file")
	f.Int("samples", def.SamplesNeeded, "detections averaged into the calibration centre")
	f.Duration("cooldown", def.ActionCooldown, "minimum time between two key presses")
	f.Duration("display-duration", def.ActionDuration, "how long the last action stays on screen")
	f.Float64("threshold", def.ThresholdFraction, "zone offset as a fraction of the frame size")
	f.Duration("window-interval", def.WindowCheckInterval, "minimum time between game window lookups")
	f.StringSlice("window-keyword", def.WindowKeywords, "title keyword of the game window (repeatable)")
	f.StringSlice("fallback-keyword", def.FallbackKeywords, "title keyword of a fallback browser window (repeatable)")
	f.IntP("camera", "c", def.CameraID, "camera device id")
	f.Bool("mirror", def.Mirror, "flip frames horizontally")
	f.Bool("preview", def.Preview, "show the camera preview window")
	f.Float64("motion-threshold", def.MotionThreshold, "percent of changed pixels needed to rerun pose detection (0 disables)")
	f.String("plugins", def.PluginDir, "plugin directory")
	f.String("journal", def.JournalPath, "SQLite session journal path (empty disables)")
	f.Bool("tray", def.Tray, "show a system tray menu (disables the preview)")
	f.Bool("dry-run", def.DryRun, "log actions instead of pressing keys")
	f.String("log-level", def.LogLevel, "log level: debug, info, warn, error")
}

// loadConfig layers defaults, the optional config file and explicitly set
// flags, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	f := cmd.Flags()

	if path, _ := f.GetString("config"); path != "" {
		file, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		if err := file.Apply(&cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if f.Changed("samples") {
		cfg.SamplesNeeded, _ = f.GetInt("samples")
	}
	if f.Changed("cooldown") {
		cfg.ActionCooldown, _ = f.GetDuration("cooldown")
	}
	if f.Changed("display-duration") {
		cfg.ActionDuration, _ = f.GetDuration("display-duration")
	}
	if f.Changed("threshold") {
		cfg.ThresholdFraction, _ = f.GetFloat64("threshold")
	}
	if f.Changed("window-interval") {
		cfg.WindowCheckInterval, _ = f.GetDuration("window-interval")
	}
	if f.Changed("window-keyword") {
		cfg.WindowKeywords, _ = f.GetStringSlice("window-keyword")
	}
	if f.Changed("fallback-keyword") {
		cfg.FallbackKeywords, _ = f.GetStringSlice("fallback-keyword")
	}
	if f.Changed("camera") {
		cfg.CameraID, _ = f.GetInt("camera")
	}
	if f.Changed("mirror") {
		cfg.Mirror, _ = f.GetBool("mirror")
	}
	if f.Changed("preview") {
		cfg.Preview, _ = f.GetBool("preview")
	}
	if f.Changed("motion-threshold") {
		cfg.MotionThreshold, _ = f.GetFloat64("motion-threshold")
	}
	if f.Changed("plugins") {
		cfg.PluginDir, _ = f.GetString("plugins")
	}
	if f.Changed("journal") {
		cfg.JournalPath, _ = f.GetString("journal")
	}
	if f.Changed("tray") {
		cfg.Tray, _ = f.GetBool("tray")
		// The tray owns the main thread, so it replaces the preview unless
		// the preview was asked for explicitly.
		if cfg.Tray && !f.Changed("preview") {
			cfg.Preview = false
		}
	}
	if f.Changed("dry-run") {
		cfg.DryRun, _ = f.GetBool("dry-run")
	}
	if f.Changed("log-level") {
		cfg.LogLevel, _ = f.GetString("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func printInstructions(w io.Writer) {
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintln(w, "tilt - head tilt game control")
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintln(w, "1. Open Subway Surfers in your browser: https://poki.com/en/g/subway-surfers")
	fmt.Fprintln(w, "2. Start the game and get ready to play")
	fmt.Fprintln(w, "3. Calibration: sit comfortably and look straight at the camera")
	fmt.Fprintln(w, "4. Move your head to control the runner:")
	fmt.Fprintln(w, "     left / right  change lane")
	fmt.Fprintln(w, "     up            jump")
	fmt.Fprintln(w, "     down          roll")
	fmt.Fprintln(w, "5. Press 'q' in the preview window or Ctrl+C to quit")
	fmt.Fprintln(w, "============================================================")
}
