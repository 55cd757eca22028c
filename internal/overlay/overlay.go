// Package overlay draws the preview window: guides, the tracked nose, the
// calibrated zone and a status block.
package overlay

import (
	"fmt"
	"image"
	"time"

	"github.com/ayusman/tilt/internal/gesture"
)

// State is everything the preview shows for one frame.
type State struct {
	Width, Height int

	Nose     gesture.Point
	Detected bool
	Skeleton [][2]gesture.Point // body connections of the tracked pose

	Calibrated bool
	Center     gesture.Point
	Thresholds gesture.Thresholds
	Progress   float64 // calibration progress in [0, 1]

	Current gesture.Action // zone the nose is in this frame
	Display gesture.Action // last fired action while it is still shown
	Paused  bool

	FPS float64
}

// StatusLines returns the text block drawn in the top-left corner.
func StatusLines(s State) []string {
	lines := []string{fmt.Sprintf("FPS: %d", int(s.FPS))}

	if !s.Calibrated {
		return append(lines, fmt.Sprintf("Calibrating... %d%%", int(s.Progress*100)))
	}

	lines = append(lines,
		fmt.Sprintf("Action: %s", displayName(s.Display)),
		fmt.Sprintf("Center: (%d, %d)", int(s.Center.X), int(s.Center.Y)),
	)
	if s.Paused {
		lines = append(lines, "PAUSED")
	}
	return lines
}

// Banner returns the top-right banner text.
func Banner(s State) string {
	switch {
	case !s.Calibrated:
		return "Look straight ahead"
	case s.Paused:
		return "Calibrated - Game Control PAUSED"
	default:
		return "Calibrated - Game Control ACTIVE"
	}
}

// ActionLabel returns the large arrow label for the current zone.
func ActionLabel(a gesture.Action) string {
	switch a {
	case gesture.Left:
		return "<-- LEFT"
	case gesture.Right:
		return "RIGHT -->"
	case gesture.Up:
		return "UP"
	case gesture.Down:
		return "DOWN"
	default:
		return ""
	}
}

func displayName(a gesture.Action) string {
	if a == gesture.None {
		return "None"
	}
	return a.String()
}

// ZoneRect returns the neutral rectangle around the calibrated centre.
// Outside it the nose triggers an action.
func ZoneRect(s State) image.Rectangle {
	return image.Rect(
		int(s.Center.X-s.Thresholds.X),
		int(s.Center.Y-s.Thresholds.Y),
		int(s.Center.X+s.Thresholds.X),
		int(s.Center.Y+s.Thresholds.Y),
	)
}

const (
	barWidth  = 200
	barHeight = 20
)

// ProgressBar returns the calibration bar outline and its filled part.
func ProgressBar(s State) (outline, fill image.Rectangle) {
	x := s.Width/2 - barWidth/2
	y := s.Height/2 + 40

	p := s.Progress
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	outline = image.Rect(x, y, x+barWidth, y+barHeight)
	fill = image.Rect(x, y, x+int(barWidth*p), y+barHeight)
	return outline, fill
}

// FPSMeter measures the frame rate from successive frame times.
type FPSMeter struct {
	last time.Time
	fps  float64
}

// Tick records a frame at now and returns the current rate.
func (m *FPSMeter) Tick(now time.Time) float64 {
	if !m.last.IsZero() {
		if dt := now.Sub(m.last); dt > 0 {
			m.fps = float64(time.Second) / float64(dt)
		}
	}
	m.last = now
	return m.fps
}
