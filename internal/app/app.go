// Package app runs the frame loop: capture, pose detection, calibration,
// zone classification, debouncing and key delivery.
package app

import (
	"errors"
	"time"

	"github.com/ayusman/tilt/internal/capture"
	"github.com/ayusman/tilt/internal/detector"
	"github.com/ayusman/tilt/internal/gesture"
	"github.com/ayusman/tilt/internal/log"
	"github.com/ayusman/tilt/internal/overlay"
	"github.com/ayusman/tilt/internal/sink"
	"github.com/ayusman/tilt/internal/timeutil"
)

// ErrCaptureFailed is returned by Run when the camera cannot deliver frames.
var ErrCaptureFailed = errors.New("frame capture failed")

// Gate reports whether fired actions may be delivered. The tray implements it.
type Gate interface {
	IsEnabled() bool
}

// StatusReporter is told about calibration progress and fired actions.
type StatusReporter interface {
	SetStatus(status string)
	SetLastAction(name string)
}

// Config holds configuration options for the application.
type Config struct {
	SamplesNeeded     int
	ThresholdFraction float64
	Cooldown          time.Duration
	DisplayDuration   time.Duration

	Camera   capture.Camera
	Detector detector.Detector
	Sink     sink.Sink

	// Optional collaborators
	Motion   *capture.MotionGate
	Renderer overlay.Renderer
	Gate     Gate
	Status   StatusReporter
	Clock    timeutil.Clock
}

// Stats counts what happened during a run.
type Stats struct {
	Frames       int
	Detections   int
	Fired        int
	SendFailures int
}

// App is the controller. It owns the calibration and debounce state and is
// driven from a single goroutine.
type App struct {
	config     Config
	calibrator *gesture.Calibrator
	classifier *gesture.Classifier
	debouncer  *gesture.Debouncer
	clock      timeutil.Clock
	fps        overlay.FPSMeter
	stats      Stats

	lastPoint    gesture.Point
	lastDetected bool
	lastPose     detector.PoseLandmarks
	haveLast     bool
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	clock := config.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	return &App{
		config:     config,
		calibrator: gesture.NewCalibrator(config.SamplesNeeded),
		classifier: gesture.NewClassifier(config.ThresholdFraction),
		debouncer:  gesture.NewDebouncer(config.Cooldown, config.DisplayDuration),
		clock:      clock,
	}
}

// Calibrator returns the calibration state.
func (a *App) Calibrator() *gesture.Calibrator {
	return a.calibrator
}

// Debouncer returns the action state.
func (a *App) Debouncer() *gesture.Debouncer {
	return a.debouncer
}

// Stats returns the counters collected so far.
func (a *App) Stats() Stats {
	return a.stats
}

// Close releases the detector, motion gate and preview window.
func (a *App) Close() error {
	var errs []error

	if a.config.Detector != nil {
		if err := a.config.Detector.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.config.Motion != nil {
		a.config.Motion.Close()
	}
	if a.config.Renderer != nil {
		if err := a.config.Renderer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		log.Warn("error releasing resources", "err", err)
		return err
	}
	return nil
}
