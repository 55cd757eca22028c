package app

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/tilt/internal/detector"
	"github.com/ayusman/tilt/internal/gesture"
	"github.com/ayusman/tilt/internal/log"
	"github.com/ayusman/tilt/internal/overlay"
)

// Observation is the landmark source output for one frame.
type Observation struct {
	Point    gesture.Point
	Detected bool
	Width    int
	Height   int
	Time     time.Time
}

// FrameResult describes what the core decided for one frame.
type FrameResult struct {
	Calibration    gesture.CalibrationResult
	JustCalibrated bool
	Action         gesture.Action // zone of this frame, None while calibrating
	Fired          bool
	Focused        bool
	SendErr        error
	Display        gesture.Action
	Paused         bool
}

// Process runs one observation through calibration, classification and the
// debouncer, and delivers a fired action to the sink.
//
// The frame that completes calibration is not classified. While the gate is
// closed actions are classified for display but never offered to the
// debouncer.
func (a *App) Process(ctx context.Context, obs Observation) FrameResult {
	a.stats.Frames++
	if obs.Detected {
		a.stats.Detections++
	}

	var res FrameResult
	wasCalibrated := a.calibrator.Calibrated()
	res.Calibration = a.calibrator.Observe(obs.Point, obs.Detected)

	if !wasCalibrated {
		if res.Calibration.Done {
			res.JustCalibrated = true
			c := res.Calibration.Center
			log.Info("calibration complete", "center_x", c.X, "center_y", c.Y)
			a.reportStatus("Calibrated")
		} else if obs.Detected {
			a.reportStatus(fmt.Sprintf("Calibrating %d%%", int(a.calibrator.Progress()*100)))
		}
		res.Display = a.debouncer.Display(obs.Time)
		return res
	}

	if obs.Detected {
		res.Action = a.classifier.Classify(obs.Point, res.Calibration.Center, obs.Width, obs.Height)
	}

	res.Paused = a.config.Gate != nil && !a.config.Gate.IsEnabled()
	if !res.Paused && a.debouncer.Offer(res.Action, obs.Time) {
		res.Fired = true
		a.stats.Fired++
		a.deliver(ctx, res.Action, &res)
	}

	res.Display = a.debouncer.Display(obs.Time)
	return res
}

// deliver focuses the game window and sends the key. Failures are logged
// and never undo the firing.
func (a *App) deliver(ctx context.Context, action gesture.Action, res *FrameResult) {
	log.Info("action performed", "action", action)

	if a.config.Sink == nil {
		return
	}

	res.Focused = a.config.Sink.EnsureTargetFocused(ctx)
	if !res.Focused {
		log.Debug("sending key without confirmed focus", "action", action)
	}

	if err := a.config.Sink.Send(ctx, action); err != nil {
		res.SendErr = err
		a.stats.SendFailures++
		log.Warn("key delivery failed", "action", action, "err", err)
	}

	if a.config.Status != nil {
		a.config.Status.SetLastAction(action.String())
	}
}

func (a *App) reportStatus(status string) {
	if a.config.Status != nil {
		a.config.Status.SetStatus(status)
	}
}

// Run opens the camera and processes frames until ctx is cancelled, the quit
// key is pressed in the preview, or capture fails. Capture failures are
// returned wrapped in ErrCaptureFailed.
func (a *App) Run(ctx context.Context) error {
	cam := a.config.Camera
	if err := cam.Open(); err != nil {
		return fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	defer cam.Close()

	log.Info("frame loop started")
	defer func() {
		log.Info("frame loop stopped",
			"frames", a.stats.Frames, "fired", a.stats.Fired, "send_failures", a.stats.SendFailures)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := cam.ReadFrame()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCaptureFailed, err)
		}

		quit := a.step(ctx, frame)
		frame.Close()
		if quit {
			log.Info("quit requested from preview")
			return nil
		}
	}
}

// step handles one captured frame and reports whether the user asked to quit.
func (a *App) step(ctx context.Context, frame *gocv.Mat) bool {
	now := a.clock.Now()
	obs := Observation{
		Width:  frame.Cols(),
		Height: frame.Rows(),
		Time:   now,
	}
	obs.Point, obs.Detected = a.observe(frame, obs.Width, obs.Height)

	res := a.Process(ctx, obs)

	r := a.config.Renderer
	if r == nil {
		return false
	}
	r.Render(frame, a.overlayState(obs, res))
	return r.PollQuit()
}

// observe returns the nose position for frame. When motion gating is on and
// the frame has not moved away from the last frame the detector ran on, the
// previous detection is reused.
func (a *App) observe(frame *gocv.Mat, width, height int) (gesture.Point, bool) {
	gate := a.config.Motion
	if gate != nil && a.haveLast {
		if changed, _ := gate.Changed(frame); !changed {
			return a.lastPoint, a.lastDetected
		}
	}

	poses, err := a.config.Detector.Detect(frame)
	if err != nil {
		log.Warn("pose detection failed", "err", err)
		a.haveLast = false
		a.lastPose = detector.PoseLandmarks{}
		return gesture.Point{}, false
	}

	if gate != nil {
		gate.Accept(frame)
	}

	p, ok := detector.NosePoint(poses, width, height)
	a.lastPoint, a.lastDetected, a.haveLast = p, ok, true
	a.lastPose = detector.PoseLandmarks{}
	if ok {
		a.lastPose = poses[0]
	}
	return p, ok
}

func (a *App) overlayState(obs Observation, res FrameResult) overlay.State {
	s := overlay.State{
		Width:      obs.Width,
		Height:     obs.Height,
		Nose:       obs.Point,
		Detected:   obs.Detected,
		Calibrated: res.Calibration.Done,
		Center:     res.Calibration.Center,
		Thresholds: a.classifier.Thresholds(obs.Width, obs.Height),
		Progress:   a.calibrator.Progress(),
		Current:    res.Action,
		Display:    res.Display,
		Paused:     res.Paused,
		FPS:        a.fps.Tick(obs.Time),
	}
	if obs.Detected {
		s.Skeleton = a.lastPose.Segments(obs.Width, obs.Height)
	}
	return s
}
