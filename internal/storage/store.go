package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SessionRow represents a session in the database.
type SessionRow struct {
	ID        string
	Status    string // "waiting", "active", "finished"
	IsPublic  bool
	CreatedAt time.Time
}

// Store handles SQLite persistence of session snapshots.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database and runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// WAL mode for better concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			status     TEXT NOT NULL DEFAULT 'waiting',
			is_public  INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS session_state (
			session_id TEXT PRIMARY KEY REFERENCES sessions(id),
			state_json TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

// CreateSession inserts a new session row.
func (s *Store) CreateSession(id, status string, isPublic bool) error {
	_, err := s.db.Exec(
		"INSERT INTO sessions (id, status, is_public) VALUES (?, ?, ?)",
		id, status, isPublic,
	)
	return err
}

// GetSession retrieves a session row by id.
func (s *Store) GetSession(id string) (*SessionRow, error) {
	row := s.db.QueryRow("SELECT id, status, is_public, created_at FROM sessions WHERE id = ?", id)
	var sr SessionRow
	if err := row.Scan(&sr.ID, &sr.Status, &sr.IsPublic, &sr.CreatedAt); err != nil {
		return nil, err
	}
	return &sr, nil
}

// UpdateSessionStatus changes a session's status.
func (s *Store) UpdateSessionStatus(id, status string) error {
	_, err := s.db.Exec("UPDATE sessions SET status = ? WHERE id = ?", status, id)
	return err
}

// ListSessions returns all sessions with the given status (or all if status is empty).
func (s *Store) ListSessions(status string) ([]SessionRow, error) {
	var rows *sql.Rows
	var err error
	if status == "" {
		rows, err = s.db.Query("SELECT id, status, is_public, created_at FROM sessions ORDER BY created_at DESC")
	} else {
		rows, err = s.db.Query("SELECT id, status, is_public, created_at FROM sessions WHERE status = ? ORDER BY created_at DESC", status)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []SessionRow
	for rows.Next() {
		var sr SessionRow
		if err := rows.Scan(&sr.ID, &sr.Status, &sr.IsPublic, &sr.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, sr)
	}
	return result, rows.Err()
}

// SaveState upserts the snapshot JSON for a session.
func (s *Store) SaveState(id, stateJSON string) error {
	_, err := s.db.Exec(`
		INSERT INTO session_state (session_id, state_json, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session_id) DO UPDATE SET state_json = excluded.state_json, updated_at = excluded.updated_at
	`, id, stateJSON)
	return err
}

// GetState retrieves the snapshot JSON for a session.
func (s *Store) GetState(id string) (string, error) {
	var stateJSON string
	err := s.db.QueryRow("SELECT state_json FROM session_state WHERE session_id = ?", id).Scan(&stateJSON)
	return stateJSON, err
}

// DeleteSession removes a session and its snapshot.
func (s *Store) DeleteSession(id string) error {
	_, err := s.db.Exec("DELETE FROM session_state WHERE session_id = ?", id)
	if err != nil {
		return err
	}
	_, err = s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
