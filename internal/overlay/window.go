package overlay

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/tilt/internal/gesture"
)

// Renderer shows annotated frames and reports the quit key.
type Renderer interface {
	Render(frame *gocv.Mat, s State)
	PollQuit() bool
	Close() error
}

// WindowTitle is the preview window title.
const WindowTitle = "tilt - press 'q' to quit"

var (
	colorGuide    = color.RGBA{0, 255, 0, 0}
	colorZone     = color.RGBA{255, 100, 0, 0}
	colorNose     = color.RGBA{255, 0, 0, 0}
	colorSkeleton = color.RGBA{255, 255, 255, 0}
	colorJoint    = color.RGBA{0, 0, 255, 0}
	colorStatus   = color.RGBA{0, 255, 255, 0}
	colorMuted    = color.RGBA{200, 200, 200, 0}
	colorCalib    = color.RGBA{255, 200, 0, 0}
	colorBarFrame = color.RGBA{100, 100, 100, 0}
)

// Window renders into a HighGUI window.
type Window struct {
	win *gocv.Window
}

// NewWindow opens the preview window.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Render draws s onto frame and shows it.
func (w *Window) Render(frame *gocv.Mat, s State) {
	Draw(frame, s)
	w.win.IMShow(*frame)
}

// PollQuit pumps window events for 1ms and reports whether 'q' was pressed.
func (w *Window) PollQuit() bool {
	return w.win.WaitKey(1)&0xFF == 'q'
}

// Close closes the preview window.
func (w *Window) Close() error {
	return w.win.Close()
}

// Draw annotates frame in place.
func Draw(frame *gocv.Mat, s State) {
	cx, cy := s.Width/2, s.Height/2
	gocv.Line(frame, image.Pt(cx, 0), image.Pt(cx, s.Height), colorGuide, 2)
	gocv.Line(frame, image.Pt(0, cy), image.Pt(s.Width, cy), colorGuide, 2)

	if s.Calibrated {
		gocv.Rectangle(frame, ZoneRect(s), colorZone, 2)
	}

	for _, seg := range s.Skeleton {
		a, b := pixel(seg[0]), pixel(seg[1])
		gocv.Line(frame, a, b, colorSkeleton, 2)
		gocv.Circle(frame, a, 3, colorJoint, -1)
		gocv.Circle(frame, b, 3, colorJoint, -1)
	}

	if s.Detected {
		gocv.Circle(frame, pixel(s.Nose), 10, colorNose, -1)
	}

	if label := ActionLabel(s.Current); label != "" {
		gocv.PutText(frame, label, labelOrigin(s), gocv.FontHersheySimplex, 1, colorGuide, 3)
	}

	for i, line := range StatusLines(s) {
		c, scale, thick := colorStatus, 0.7, 2
		if i == 2 && s.Calibrated {
			c, scale, thick = colorMuted, 0.5, 1
		}
		if i == 1 && !s.Calibrated {
			c = colorCalib
		}
		gocv.PutText(frame, line, image.Pt(10, 30+30*i), gocv.FontHersheySimplex, scale, c, thick)
	}

	if s.Calibrated {
		gocv.PutText(frame, Banner(s), image.Pt(s.Width-300, 30), gocv.FontHersheySimplex, 0.6, colorGuide, 2)
		return
	}

	gocv.PutText(frame, Banner(s), image.Pt(cx-100, cy), gocv.FontHersheySimplex, 0.7, colorCalib, 2)
	outline, fill := ProgressBar(s)
	gocv.Rectangle(frame, outline, colorBarFrame, 2)
	if !fill.Empty() {
		gocv.Rectangle(frame, fill, colorCalib, -1)
	}
}

func pixel(p gesture.Point) image.Point {
	return image.Pt(int(p.X), int(p.Y))
}

func labelOrigin(s State) image.Point {
	switch s.Current {
	case gesture.Left:
		return image.Pt(50, 100)
	case gesture.Right:
		return image.Pt(s.Width-200, 100)
	case gesture.Up:
		return image.Pt(s.Width/2-30, 100)
	default:
		return image.Pt(s.Width/2-40, s.Height-50)
	}
}
