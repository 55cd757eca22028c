package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/tilt/internal/gesture"
)

// Journal writes the records of one running session.
type Journal struct {
	store   *Store
	session *Session
}

// StartSession creates a session row and returns a journal bound to it.
func (s *Store) StartSession(ctx context.Context, startedAt time.Time) (*Journal, error) {
	sess := &Session{
		ID:        uuid.New().String(),
		StartedAt: startedAt,
	}
	if err := s.Sessions().Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &Journal{store: s, session: sess}, nil
}

// SessionID returns the id of the journal's session.
func (j *Journal) SessionID() string {
	return j.session.ID
}

// RecordAction stores a fired action. sendErr is the key delivery result.
func (j *Journal) RecordAction(ctx context.Context, a gesture.Action, at time.Time, sendErr error) error {
	fired := &FiredAction{
		ID:        uuid.New().String(),
		SessionID: j.session.ID,
		Action:    a.String(),
		FiredAt:   at,
		Delivered: sendErr == nil,
	}
	if sendErr != nil {
		fired.Error = sendErr.Error()
	}
	return j.store.FiredActions().Create(ctx, fired)
}

// Finish closes the session with the number of frames processed.
func (j *Journal) Finish(ctx context.Context, endedAt time.Time, frames int) error {
	return j.store.Sessions().End(ctx, j.session.ID, endedAt, frames)
}
