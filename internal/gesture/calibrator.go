package gesture

import (
	"gonum.org/v1/gonum/stat"
)

// DefaultSamplesNeeded is the number of detections averaged into the reference center.
const DefaultSamplesNeeded = 30

// CalibrationResult reports the calibrator state after an observation.
type CalibrationResult struct {
	Collected int   // Samples collected so far
	Needed    int   // Samples required to complete calibration
	Done      bool  // Whether the reference center is available
	Center    Point // Reference center, valid only when Done
}

// Calibrator accumulates head positions while the user looks straight ahead
// and computes the reference center once enough samples are collected.
// Calibration happens once; there is no way back to the uncalibrated state.
type Calibrator struct {
	needed int
	xs     []float64
	ys     []float64
	center Point
	done   bool
}

// NewCalibrator creates a Calibrator that completes after needed samples.
// Values below 1 are treated as 1.
func NewCalibrator(needed int) *Calibrator {
	if needed < 1 {
		needed = 1
	}
	return &Calibrator{
		needed: needed,
		xs:     make([]float64, 0, needed),
		ys:     make([]float64, 0, needed),
	}
}

// Observe feeds one frame into the calibrator. Frames without a detection
// (detected == false) do not count toward the sample target.
// After calibration completes Observe no longer changes any state.
func (c *Calibrator) Observe(p Point, detected bool) CalibrationResult {
	if c.done || !detected {
		return c.result()
	}

	c.xs = append(c.xs, p.X)
	c.ys = append(c.ys, p.Y)

	if len(c.xs) >= c.needed {
		c.center = Point{
			X: stat.Mean(c.xs, nil),
			Y: stat.Mean(c.ys, nil),
		}
		c.done = true
		c.xs = nil
		c.ys = nil
	}

	return c.result()
}

func (c *Calibrator) result() CalibrationResult {
	if c.done {
		return CalibrationResult{
			Collected: c.needed,
			Needed:    c.needed,
			Done:      true,
			Center:    c.center,
		}
	}
	return CalibrationResult{
		Collected: len(c.xs),
		Needed:    c.needed,
	}
}

// Calibrated reports whether the reference center has been computed.
func (c *Calibrator) Calibrated() bool {
	return c.done
}

// Center returns the reference center and whether it exists.
func (c *Calibrator) Center() (Point, bool) {
	return c.center, c.done
}

// Progress returns the calibration progress in the range [0, 1].
func (c *Calibrator) Progress() float64 {
	if c.done {
		return 1
	}
	return float64(len(c.xs)) / float64(c.needed)
}
