package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ayusman/tilt/internal/capture"
	"github.com/ayusman/tilt/internal/detector"
	"github.com/ayusman/tilt/internal/gesture"
	"github.com/ayusman/tilt/internal/overlay"
	"github.com/ayusman/tilt/internal/sink"
)

// steppingClock advances by a fixed frame interval on every Now call.
type steppingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func (c *steppingClock) Since(t time.Time) time.Duration { return c.Now().Sub(t) }
func (c *steppingClock) Sleep(d time.Duration) {}

type fakeRenderer struct {
	states []overlay.State
	quitAt int
	closed bool
}

func (r *fakeRenderer) Render(frame *gocv.Mat, s overlay.State) {
	r.states = append(r.states, s)
}

func (r *fakeRenderer) PollQuit() bool {
	return r.quitAt > 0 && len(r.states) >= r.quitAt
}

func (r *fakeRenderer) Close() error {
	r.closed = true
	return nil
}

func blankFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		frames[i] = &m
	}
	t.Cleanup(func() {
		for _, f := range frames {
			f.Close()
		}
	})
	return frames
}

func TestRun_CaptureFailureEndsLoop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv integration test")
	}

	det := detector.NewMockDetector()
	for i := 0; i < 30; i++ {
		det.Enqueue([]detector.PoseLandmarks{detector.PoseAtPixel(320, 240, 640, 480)})
	}
	det.Enqueue(nil, []detector.PoseLandmarks{detector.PoseAtPixel(250, 240, 640, 480)})
	det.SetPoses([]detector.PoseLandmarks{detector.PoseAtPixel(320, 180, 640, 480)})

	out := sink.NewDryRun()
	a := New(Config{
		SamplesNeeded:     30,
		ThresholdFraction: 0.1,
		Cooldown:          500 * time.Millisecond,
		DisplayDuration:   500 * time.Millisecond,
		Camera:            capture.NewMockCamera(blankFrames(t, 60), false),
		Detector:          det,
		Sink:              out,
		Clock:             &steppingClock{now: epoch, step: 33 * time.Millisecond},
	})

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCaptureFailed)
	assert.ErrorIs(t, err, capture.ErrReadFailed)

	// Left on frame 32, Up once the cooldown has passed.
	assert.Equal(t, []gesture.Action{gesture.Left, gesture.Up}, out.Sent())
	assert.Equal(t, 60, a.Stats().Frames)
	assert.Equal(t, 59, a.Stats().Detections)
}

func TestRun_DetectorErrorIsAbsent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv integration test")
	}

	det := detector.NewMockDetector()
	det.SetError(errors.New("service crashed"))

	a := New(Config{
		SamplesNeeded:     1,
		ThresholdFraction: 0.1,
		Camera:            capture.NewMockCamera(blankFrames(t, 5), false),
		Detector:          det,
		Sink:              sink.NewDryRun(),
	})

	assert.ErrorIs(t, a.Run(context.Background()), ErrCaptureFailed)
	assert.False(t, a.Calibrator().Calibrated())
	assert.Equal(t, 5, det.Calls())
}

func TestRun_QuitKeyStopsLoop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv integration test")
	}

	det := detector.NewMockDetector()
	det.SetPoses([]detector.PoseLandmarks{detector.PoseAtPixel(320, 240, 640, 480)})
	r := &fakeRenderer{quitAt: 3}

	a := New(Config{
		SamplesNeeded:     2,
		ThresholdFraction: 0.1,
		Camera:            capture.NewMockCamera(blankFrames(t, 1), true),
		Detector:          det,
		Renderer:          r,
	})

	require.NoError(t, a.Run(context.Background()))
	require.Len(t, r.states, 3)
	assert.InDelta(t, 0.5, r.states[0].Progress, 1e-9)
	assert.True(t, r.states[2].Calibrated)
	assert.Equal(t, gesture.Point{X: 320, Y: 240}, r.states[2].Center)
	assert.Equal(t, 640, r.states[2].Width)
	assert.Len(t, r.states[2].Skeleton, 1, "shoulder line of the tracked pose")

	require.NoError(t, a.Close())
	assert.True(t, r.closed)
}

func TestRun_ContextCancel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv integration test")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	det := detector.NewMockDetector()
	a := New(Config{
		SamplesNeeded:     30,
		ThresholdFraction: 0.1,
		Camera:            capture.NewMockCamera(blankFrames(t, 1), true),
		Detector:          det,
	})

	require.NoError(t, a.Run(ctx))
	assert.Zero(t, det.Calls())
}

func TestRun_MotionGateReusesDetection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv integration test")
	}

	det := detector.NewMockDetector()
	det.SetPoses([]detector.PoseLandmarks{detector.PoseAtPixel(320, 240, 640, 480)})
	motion := capture.NewMotionGate(1.0)

	a := New(Config{
		SamplesNeeded:     3,
		ThresholdFraction: 0.1,
		Camera:            capture.NewMockCamera(blankFrames(t, 6), false),
		Detector:          det,
		Motion:            motion,
	})

	assert.ErrorIs(t, a.Run(context.Background()), ErrCaptureFailed)
	// Identical frames: only the first one reaches the pose model.
	assert.Equal(t, 1, det.Calls())
	assert.True(t, a.Calibrator().Calibrated(), "reused detections count toward calibration")
	require.NoError(t, a.Close())
}

// driftingFrames returns n frames of a white square moving one pixel right
// per frame.
func driftingFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		m := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		gocv.Rectangle(&m, image.Rect(100+i, 160, 260+i, 320), color.RGBA{255, 255, 255, 0}, -1)
		frames[i] = &m
	}
	t.Cleanup(func() {
		for _, f := range frames {
			f.Close()
		}
	})
	return frames
}

func TestRun_MotionGateRedetectsSlowDrift(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv integration test")
	}

	det := detector.NewMockDetector()
	det.SetPoses([]detector.PoseLandmarks{detector.PoseAtPixel(320, 240, 640, 480)})
	motion := capture.NewMotionGate(1.0)

	a := New(Config{
		SamplesNeeded:     3,
		ThresholdFraction: 0.1,
		Camera:            capture.NewMockCamera(driftingFrames(t, 80), false),
		Detector:          det,
		Motion:            motion,
	})
	defer a.Close()

	assert.ErrorIs(t, a.Run(context.Background()), ErrCaptureFailed)

	// Each step is too small to open the gate on its own, but the drift
	// from the last detected frame adds up, so the detector runs again.
	calls := det.Calls()
	assert.Greater(t, calls, 2, "slow drift must reach the pose model again")
	assert.Less(t, calls, 80, "small steps are still gated")
}

func TestRun_CameraOpenFailure(t *testing.T) {
	a := New(Config{Camera: failingCamera{}, SamplesNeeded: 1, ThresholdFraction: 0.1})
	err := a.Run(context.Background())
	assert.ErrorIs(t, err, ErrCaptureFailed)
	assert.ErrorIs(t, err, capture.ErrCameraNotOpen)
}

type failingCamera struct{}

func (failingCamera) Open() error { return capture.ErrCameraNotOpen }
func (failingCamera) Close() error { return nil }
func (failingCamera) ReadFrame() (*gocv.Mat, error) { return nil, capture.ErrCameraNotOpen }
func (failingCamera) IsOpen() bool { return false }
