package store

import (
	"context"
	"database/sql"
	"time"
)

// FiredAction records one action sent to the game and whether the key
// press was delivered.
type FiredAction struct {
	ID        string
	SessionID string
	Action    string
	FiredAt   time.Time
	Delivered bool
	Error     string
}

// FiredActionRepository provides access to fired actions.
type FiredActionRepository struct {
	db *sql.DB
}

// FiredActions returns the fired action repository for this store.
func (s *Store) FiredActions() *FiredActionRepository {
	return &FiredActionRepository{db: s.db}
}

// Create inserts a fired action.
func (r *FiredActionRepository) Create(ctx context.Context, a *FiredAction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fired_actions (id, session_id, action, fired_at, delivered, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.SessionID, a.Action, a.FiredAt, a.Delivered, a.Error,
	)
	return err
}

// ListBySession returns a session's fired actions in firing order.
func (r *FiredActionRepository) ListBySession(ctx context.Context, sessionID string) ([]*FiredAction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_id, action, fired_at, delivered, error
		 FROM fired_actions WHERE session_id = ? ORDER BY fired_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*FiredAction
	for rows.Next() {
		a := &FiredAction{}
		var delivered int
		if err := rows.Scan(&a.ID, &a.SessionID, &a.Action, &a.FiredAt, &delivered, &a.Error); err != nil {
			return nil, err
		}
		a.Delivered = delivered != 0
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// CountByAction returns how many times each action fired in a session.
func (r *FiredActionRepository) CountByAction(ctx context.Context, sessionID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT action, COUNT(*) FROM fired_actions WHERE session_id = ? GROUP BY action`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return nil, err
		}
		counts[action] = n
	}
	return counts, rows.Err()
}
