// Package gesture turns a stream of head positions into discrete directional actions.
//
// A Calibrator establishes the neutral head position, a Classifier maps a point to the
// zone it falls in relative to that position, and a Debouncer decides which classified
// actions are actually fired.
package gesture

// Point is a position in frame pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Action is a directional command derived from a single frame.
type Action int

const (
	// None means the point is inside the neutral zone.
	None Action = iota
	Left
	Right
	Up
	Down
)

// String returns the display name of the action.
func (a Action) String() string {
	switch a {
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	default:
		return "NONE"
	}
}

// Key returns the name of the arrow key bound to the action, or "" for None.
func (a Action) Key() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return ""
	}
}
