package sink

import (
	"context"
	"time"

	"github.com/ayusman/tilt/internal/gesture"
	"github.com/ayusman/tilt/internal/log"
	"github.com/ayusman/tilt/internal/timeutil"
)

// Recorder stores the outcome of each delivered action.
type Recorder interface {
	RecordAction(ctx context.Context, a gesture.Action, at time.Time, sendErr error) error
}

// Recording wraps a Sink and records every Send with its result.
type Recording struct {
	next     Sink
	recorder Recorder
	clock    timeutil.Clock
}

// NewRecording decorates next so each Send is written to recorder.
func NewRecording(next Sink, recorder Recorder, clock timeutil.Clock) *Recording {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Recording{next: next, recorder: recorder, clock: clock}
}

// EnsureTargetFocused delegates to the wrapped sink.
func (r *Recording) EnsureTargetFocused(ctx context.Context) bool {
	return r.next.EnsureTargetFocused(ctx)
}

// Send delegates to the wrapped sink and records the outcome. A recording
// failure is logged and does not change the returned error.
func (r *Recording) Send(ctx context.Context, a gesture.Action) error {
	at := r.clock.Now()
	err := r.next.Send(ctx, a)
	if recErr := r.recorder.RecordAction(ctx, a, at, err); recErr != nil {
		log.Warn("failed to record action", "action", a, "err", recErr)
	}
	return err
}
