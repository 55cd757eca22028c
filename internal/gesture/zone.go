package gesture

// DefaultThresholdFraction is the share of the frame size a point must move
// away from the reference center to leave the neutral zone.
const DefaultThresholdFraction = 0.1

// Thresholds holds the horizontal and vertical offsets, in pixels, that
// separate the neutral zone from the directional zones.
type Thresholds struct {
	X float64
	Y float64
}

// ZoneRule maps a region relative to the reference center to an action.
type ZoneRule struct {
	Action Action
	Match  func(p, center Point, t Thresholds) bool
}

// DefaultRules lists the directional zones in priority order. Horizontal
// zones come first so a diagonal position always resolves to Left or Right.
// Comparisons are strict: a point exactly on a boundary stays neutral.
var DefaultRules = []ZoneRule{
	{Action: Left, Match: func(p, c Point, t Thresholds) bool { return p.X < c.X-t.X }},
	{Action: Right, Match: func(p, c Point, t Thresholds) bool { return p.X > c.X+t.X }},
	{Action: Up, Match: func(p, c Point, t Thresholds) bool { return p.Y < c.Y-t.Y }},
	{Action: Down, Match: func(p, c Point, t Thresholds) bool { return p.Y > c.Y+t.Y }},
}

// Classifier maps a head position to the action of the first zone it falls in.
// The input point is used as-is; jitter is handled by the thresholds and the Debouncer.
type Classifier struct {
	fraction float64
	rules    []ZoneRule
}

// NewClassifier creates a Classifier using DefaultRules. The thresholds scale
// with the frame: fraction * width horizontally and fraction * height vertically.
func NewClassifier(fraction float64) *Classifier {
	return &Classifier{
		fraction: fraction,
		rules:    DefaultRules,
	}
}

// NewClassifierWithRules creates a Classifier that evaluates rules in the given order.
func NewClassifierWithRules(fraction float64, rules []ZoneRule) *Classifier {
	return &Classifier{
		fraction: fraction,
		rules:    rules,
	}
}

// Thresholds returns the zone offsets for a frame of the given size.
func (c *Classifier) Thresholds(width, height int) Thresholds {
	return Thresholds{
		X: float64(width) * c.fraction,
		Y: float64(height) * c.fraction,
	}
}

// Classify returns the action for point p relative to center. It must only be
// called once calibration has produced a center.
func (c *Classifier) Classify(p, center Point, width, height int) Action {
	t := c.Thresholds(width, height)
	for _, rule := range c.rules {
		if rule.Match(p, center, t) {
			return rule.Action
		}
	}
	return None
}

// Rules returns the rules in evaluation order.
func (c *Classifier) Rules() []ZoneRule {
	return c.rules
}
