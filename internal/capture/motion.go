package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion gate constants
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
)

// MotionGate tells whether a frame differs enough from the last accepted
// frame to be worth running pose detection on. A still head produces the same
// landmark, so the previous detection can be reused for frames that do not pass
// the gate.
//
// The reference frame only moves on Accept, so slow drift accumulates against
// it until the gate opens.
type MotionGate struct {
	threshold   float64
	reference   gocv.Mat
	initialized bool
	closed      bool
	mu          sync.Mutex
}

// NewMotionGate creates a MotionGate with the given threshold, expressed as the
// percentage of pixels that must change (1.0 means 1%).
func NewMotionGate(threshold float64) *MotionGate {
	return &MotionGate{
		threshold: threshold,
		reference: gocv.NewMat(),
	}
}

// Changed compares frame with the last accepted frame and reports whether the
// change exceeds the threshold, along with the percentage of changed pixels.
// Before any frame has been accepted every frame counts as changed.
//
// Frames are converted to grayscale and blurred (21x21) before the absolute
// difference is thresholded at 25 and the non-zero pixels are counted.
func (m *MotionGate) Changed(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || frame == nil || frame.Empty() {
		return false, 0
	}
	if !m.initialized {
		return true, 100
	}

	blurred := prepare(frame)
	defer blurred.Close()

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.reference, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	return changePercent > m.threshold, changePercent
}

// Accept makes frame the reference for later comparisons. Call it with the
// frame the detector last ran on.
func (m *MotionGate) Accept(frame *gocv.Mat) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || frame == nil || frame.Empty() {
		return
	}

	blurred := prepare(frame)
	defer blurred.Close()
	blurred.CopyTo(&m.reference)
	m.initialized = true
}

// Close releases resources used by the gate. It is safe to call more than once.
func (m *MotionGate) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.reference.Close()
	m.initialized = false
	m.closed = true
}

// prepare returns the blurred grayscale version of frame. The caller closes it.
func prepare(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)
	return blurred
}
