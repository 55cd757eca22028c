package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// Results can be queued per frame; once the queue is empty the last
// configured poses are returned for every frame.
type MockDetector struct {
	mu     sync.Mutex
	poses  []PoseLandmarks
	queue  [][]PoseLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPoses sets the poses that will be returned by Detect.
func (m *MockDetector) SetPoses(poses []PoseLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poses = poses
}

// Enqueue adds per-frame results consumed in order by Detect.
// A nil entry means nobody is in view for that frame.
func (m *MockDetector) Enqueue(frames ...[]PoseLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next queued result, the configured poses, or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]PoseLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.poses, nil
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// PoseAt returns a pose whose nose sits at the given normalized coordinates,
// with eyes and shoulders placed around it.
func PoseAt(x, y float64) PoseLandmarks {
	pose := PoseLandmarks{Score: 0.95}

	pose.Points[Nose] = Landmark{X: x, Y: y, Visibility: 0.99}
	pose.Points[LeftEye] = Landmark{X: x + 0.03, Y: y - 0.04, Visibility: 0.98}
	pose.Points[RightEye] = Landmark{X: x - 0.03, Y: y - 0.04, Visibility: 0.98}
	pose.Points[LeftEar] = Landmark{X: x + 0.07, Y: y - 0.02, Visibility: 0.9}
	pose.Points[RightEar] = Landmark{X: x - 0.07, Y: y - 0.02, Visibility: 0.9}
	pose.Points[LeftShoulder] = Landmark{X: x + 0.15, Y: y + 0.25, Visibility: 0.95}
	pose.Points[RightShoulder] = Landmark{X: x - 0.15, Y: y + 0.25, Visibility: 0.95}

	return pose
}

// PoseAtPixel returns a pose whose nose maps to pixel (px, py) in a frame of
// the given size.
func PoseAtPixel(px, py, width, height int) PoseLandmarks {
	// Aim at the pixel centre so truncation in ToPixel lands on (px, py).
	return PoseAt((float64(px)+0.5)/float64(width), (float64(py)+0.5)/float64(height))
}
