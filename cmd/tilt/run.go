package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayusman/tilt/internal/app"
	"github.com/ayusman/tilt/internal/capture"
	"github.com/ayusman/tilt/internal/config"
	"github.com/ayusman/tilt/internal/detector"
	"github.com/ayusman/tilt/internal/log"
	"github.com/ayusman/tilt/internal/overlay"
	"github.com/ayusman/tilt/internal/plugin"
	"github.com/ayusman/tilt/internal/sink"
	"github.com/ayusman/tilt/internal/store"
	"github.com/ayusman/tilt/internal/timeutil"
	"github.com/ayusman/tilt/internal/tray"
	"github.com/ayusman/tilt/internal/window"
)

// run wires the controller from cfg and blocks until it stops.
func run(parent context.Context, cfg config.Config, out io.Writer) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	det, err := detector.NewMediaPipeDetector(detector.Config{
		MinConfidence:   cfg.MinConfidence,
		MinTrackingConf: cfg.MinConfidence,
	})
	if err != nil {
		return fmt.Errorf("pose detector: %w", err)
	}

	keys, err := buildSink(cfg)
	if err != nil {
		det.Close()
		return err
	}

	var journal *store.Journal
	if cfg.JournalPath != "" {
		st, err := store.New(cfg.JournalPath)
		if err != nil {
			det.Close()
			return fmt.Errorf("journal: %w", err)
		}
		defer st.Close()

		journal, err = st.StartSession(ctx, time.Now())
		if err != nil {
			det.Close()
			return fmt.Errorf("journal: %w", err)
		}
		keys = sink.NewRecording(keys, journal, timeutil.RealClock{})
		log.Info("journal enabled", "path", cfg.JournalPath, "session", journal.SessionID())
	}

	appCfg := app.Config{
		SamplesNeeded:     cfg.SamplesNeeded,
		ThresholdFraction: cfg.ThresholdFraction,
		Cooldown:          cfg.ActionCooldown,
		DisplayDuration:   cfg.ActionDuration,
		Camera: capture.NewCamera(capture.Options{
			DeviceID: cfg.CameraID,
			Width:    cfg.FrameWidth,
			Height:   cfg.FrameHeight,
			Mirror:   cfg.Mirror,
		}),
		Detector: det,
		Sink:     keys,
	}
	if cfg.MotionThreshold > 0 {
		appCfg.Motion = capture.NewMotionGate(cfg.MotionThreshold)
	}
	if cfg.Preview {
		appCfg.Renderer = overlay.NewWindow(overlay.WindowTitle)
	}

	var t *tray.Tray
	if cfg.Tray {
		t = tray.New()
		appCfg.Gate = t
		appCfg.Status = t
		t.OnToggle(func(enabled bool) { log.Info("key presses toggled", "enabled", enabled) })
	}

	a := app.New(appCfg)
	defer a.Close()

	if journal != nil {
		defer func() {
			if err := journal.Finish(context.Background(), time.Now(), a.Stats().Frames); err != nil {
				log.Warn("failed to close journal session", "err", err)
			}
		}()
	}

	fmt.Fprintln(out, "\nStarting calibration... Look straight at the camera.")

	if t == nil {
		return a.Run(ctx)
	}
	return runWithTray(ctx, stop, t, a)
}

// runWithTray runs the frame loop on a worker goroutine while the tray
// owns the main goroutine.
func runWithTray(ctx context.Context, stop context.CancelFunc, t *tray.Tray, a *app.App) error {
	errCh := make(chan error, 1)
	t.OnReady(func() {
		go func() {
			errCh <- a.Run(ctx)
			t.Quit()
		}()
	})
	go func() {
		select {
		case <-t.Done():
			stop()
		case <-ctx.Done():
			t.Quit()
		}
	}()

	t.Run()
	stop()
	return <-errCh
}

// buildSink returns the key sink for cfg: a dry run logger, or the keyboard
// plugin behind the window focus cache.
func buildSink(cfg config.Config) (sink.Sink, error) {
	if cfg.DryRun {
		log.Info("dry run: keys will be logged, not pressed")
		return sink.NewDryRun(), nil
	}

	mgr := plugin.NewManager(cfg.PluginDir)
	if err := mgr.Discover(); err != nil {
		return nil, fmt.Errorf("discover plugins in %s: %w", cfg.PluginDir, err)
	}
	exec := plugin.NewExecutor(cfg.PluginTimeout)

	kb, err := mgr.Require(cfg.KeyboardPlugin, sink.KeyAction)
	if err != nil {
		return nil, fmt.Errorf("keyboard plugin: %w", err)
	}

	var focus sink.Focuser
	wp, err := mgr.Require(cfg.WindowPlugin, window.ActionList, window.ActionActivate)
	if err != nil {
		log.Warn("window focus disabled", "err", err)
	} else {
		focus = window.NewCache(window.NewPluginBackend(exec, wp), timeutil.RealClock{}, window.CacheConfig{
			Interval: cfg.WindowCheckInterval,
			Settle:   cfg.FocusSettle,
			Primary:  cfg.WindowKeywords,
			Fallback: cfg.FallbackKeywords,
		})
	}

	return sink.NewKeyboard(exec, kb, focus), nil
}
