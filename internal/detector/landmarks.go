// Package detector provides the pose landmark source: an interface over pose
// detection and the MediaPipe-backed implementation.
package detector

import "github.com/ayusman/tilt/internal/gesture"

// Pose landmark indices following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose          = 0
	LeftEyeInner  = 1
	LeftEye       = 2
	LeftEyeOuter  = 3
	RightEyeInner = 4
	RightEye      = 5
	RightEyeOuter = 6
	LeftEar       = 7
	RightEar      = 8
	MouthLeft     = 9
	MouthRight    = 10
	LeftShoulder  = 11
	RightShoulder = 12
	NumLandmarks  = 33
)

// Landmark is a detected point in normalized image coordinates: X and Y are
// in [0, 1] relative to the frame width and height.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// PoseLandmarks represents the body landmarks of one detected person.
type PoseLandmarks struct {
	Points [NumLandmarks]Landmark `json:"points"`
	Score  float64                `json:"score"`
}

// ToPixel converts a normalized landmark into frame pixel coordinates.
// Coordinates are truncated to whole pixels.
func (l Landmark) ToPixel(width, height int) gesture.Point {
	return gesture.Point{
		X: float64(int(l.X * float64(width))),
		Y: float64(int(l.Y * float64(height))),
	}
}

// NosePoint returns the nose tip of the first detected pose in pixel
// coordinates. ok is false when no pose was detected.
func NosePoint(poses []PoseLandmarks, width, height int) (p gesture.Point, ok bool) {
	if len(poses) == 0 {
		return gesture.Point{}, false
	}
	return poses[0].Points[Nose].ToPixel(width, height), true
}

// MinSegmentVisibility is the landmark visibility below which a skeleton
// segment is not drawn.
const MinSegmentVisibility = 0.5

// PoseConnections lists the landmark index pairs that make up the body
// skeleton, following MediaPipe's POSE_CONNECTIONS.
var PoseConnections = [][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 7}, {0, 4}, {4, 5}, {5, 6}, {6, 8}, {9, 10},
	{11, 12}, {11, 13}, {13, 15}, {15, 17}, {15, 19}, {15, 21}, {17, 19},
	{12, 14}, {14, 16}, {16, 18}, {16, 20}, {16, 22}, {18, 20},
	{11, 23}, {12, 24}, {23, 24}, {23, 25}, {24, 26}, {25, 27}, {26, 28},
	{27, 29}, {28, 30}, {29, 31}, {30, 32}, {27, 31}, {28, 32},
}

// Segments returns the skeleton lines of the pose in pixel coordinates.
// Connections with an endpoint below MinSegmentVisibility are left out.
func (p PoseLandmarks) Segments(width, height int) [][2]gesture.Point {
	var segments [][2]gesture.Point
	for _, c := range PoseConnections {
		a, b := p.Points[c[0]], p.Points[c[1]]
		if a.Visibility < MinSegmentVisibility || b.Visibility < MinSegmentVisibility {
			continue
		}
		segments = append(segments, [2]gesture.Point{a.ToPixel(width, height), b.ToPixel(width, height)})
	}
	return segments
}
