package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Session is one run of the controller.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	Frames    int
	Fired     int
}

// SessionRepository provides access to sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session.
func (r *SessionRepository) Create(ctx context.Context, sess *Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, frames, fired) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.Frames, sess.Fired,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, started_at, ended_at, frames, fired FROM sessions WHERE id = ?`, id)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sess, err
}

// End marks a session finished and stores its counters.
func (r *SessionRepository) End(ctx context.Context, id string, endedAt time.Time, frames int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions
		 SET ended_at = ?, frames = ?,
		     fired = (SELECT COUNT(*) FROM fired_actions WHERE session_id = ?)
		 WHERE id = ?`,
		endedAt, frames, id, id,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Recent returns up to limit sessions, newest first.
func (r *SessionRepository) Recent(ctx context.Context, limit int) ([]*Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at, frames, fired
		 FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime
	if err := row.Scan(&sess.ID, &sess.StartedAt, &ended, &sess.Frames, &sess.Fired); err != nil {
		return nil, err
	}
	if ended.Valid {
		t := ended.Time
		sess.EndedAt = &t
	}
	return sess, nil
}
