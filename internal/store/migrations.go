package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per controller run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			frames INTEGER NOT NULL DEFAULT 0,
			fired INTEGER NOT NULL DEFAULT 0
		)`,

		// One row per fired action with its delivery outcome
		`CREATE TABLE IF NOT EXISTS fired_actions (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			action TEXT NOT NULL CHECK(action IN ('LEFT', 'RIGHT', 'UP', 'DOWN')),
			fired_at DATETIME NOT NULL,
			delivered INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_fired_actions_session_id ON fired_actions(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
