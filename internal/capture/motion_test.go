package capture

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

// squareFrame returns a black 640x480 frame with a filled white 160x160
// square whose left edge sits at x.
func squareFrame(t *testing.T, x int) gocv.Mat {
	t.Helper()
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&frame, image.Rect(x, 160, x+160, 320), color.RGBA{255, 255, 255, 0}, -1)
	return frame
}

func TestNewMotionGate(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
	}{
		{name: "default threshold", threshold: 1.0},
		{name: "high threshold", threshold: 5.0},
		{name: "low threshold", threshold: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mg := NewMotionGate(tt.threshold)
			if mg == nil {
				t.Fatal("NewMotionGate returned nil")
			}
			defer mg.Close()

			if mg.threshold != tt.threshold {
				t.Errorf("threshold = %f, want %f", mg.threshold, tt.threshold)
			}
			if mg.initialized {
				t.Error("motion gate should not be initialized initially")
			}
		})
	}
}

func TestMotionGate_FirstFramePasses(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mg := NewMotionGate(1.0)
	defer mg.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	changed, _ := mg.Changed(&frame)
	if !changed {
		t.Error("first frame should pass the gate")
	}
}

func TestMotionGate_StillFramesAreGated(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mg := NewMotionGate(1.0)
	defer mg.Close()

	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	mg.Accept(&frame1)

	changed, changePercent := mg.Changed(&frame2)
	if changed {
		t.Errorf("identical frames should not pass the gate, changePercent = %f", changePercent)
	}
}

func TestMotionGate_MotionPasses(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mg := NewMotionGate(1.0)
	defer mg.Close()

	blackFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer blackFrame.Close()

	whiteFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer whiteFrame.Close()
	whiteFrame.SetTo(gocv.NewScalar(255, 255, 255, 0))

	mg.Accept(&blackFrame)

	changed, changePercent := mg.Changed(&whiteFrame)
	if !changed {
		t.Errorf("black to white should pass the gate, changePercent = %f", changePercent)
	}
	if changePercent < 50.0 {
		t.Errorf("changePercent = %f, expected > 50%% for black to white transition", changePercent)
	}
}

func TestMotionGate_ChangedDoesNotMoveReference(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mg := NewMotionGate(1.0)
	defer mg.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	// Without an accepted frame the gate stays open.
	for i := 0; i < 3; i++ {
		if changed, _ := mg.Changed(&frame); !changed {
			t.Fatalf("frame %d should pass the gate before any Accept", i)
		}
	}
	if mg.initialized {
		t.Error("Changed should not set the reference")
	}
}

func TestMotionGate_SlowDriftAccumulates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mg := NewMotionGate(1.0)
	defer mg.Close()

	start := squareFrame(t, 100)
	defer start.Close()
	mg.Accept(&start)

	// One pixel per frame never trips a frame-to-frame comparison, but
	// against the accepted frame the shift adds up.
	opened := -1
	for dx := 1; dx <= 60; dx++ {
		frame := squareFrame(t, 100+dx)
		changed, _ := mg.Changed(&frame)
		frame.Close()
		if changed {
			opened = dx
			break
		}
	}

	if opened < 2 || opened > 40 {
		t.Errorf("gate opened after %d px of drift, want between 2 and 40", opened)
	}
}

func TestMotionGate_AcceptMovesReference(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mg := NewMotionGate(1.0)
	defer mg.Close()

	left := squareFrame(t, 100)
	defer left.Close()
	right := squareFrame(t, 300)
	defer right.Close()

	mg.Accept(&left)
	if changed, _ := mg.Changed(&right); !changed {
		t.Fatal("moved square should pass the gate")
	}

	mg.Accept(&right)
	if changed, pct := mg.Changed(&right); changed {
		t.Errorf("accepted frame should not pass the gate, changePercent = %f", pct)
	}
}

func TestMotionGate_NilFrame(t *testing.T) {
	mg := NewMotionGate(1.0)
	defer mg.Close()

	changed, pct := mg.Changed(nil)
	if changed || pct != 0 {
		t.Errorf("Changed(nil) = %v, %f; want false, 0", changed, pct)
	}
}

func TestMotionGate_Close_Multiple(t *testing.T) {
	mg := NewMotionGate(1.0)
	mg.Close()
	mg.Close()

	if !mg.closed {
		t.Error("gate should report closed")
	}
}

func TestMotionGate_ClosedGateIsShut(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mg := NewMotionGate(1.0)
	mg.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	mg.Accept(&frame)
	if changed, pct := mg.Changed(&frame); changed || pct != 0 {
		t.Errorf("closed gate: Changed() = %v, %f; want false, 0", changed, pct)
	}
}
