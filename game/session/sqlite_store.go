package session

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/frostpaw/icechase/game/engine"
)

// SQLiteStore implements SnapshotStore on an embedded SQLite database. Each
// match is one row, written and read wholesale; player and board state are
// stored as the JSON blobs the snapshot already carries.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the snapshot database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate snapshot database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS match_snapshots (
		id            TEXT PRIMARY KEY,
		level         INTEGER NOT NULL,
		map           TEXT NOT NULL,
		remaining     INTEGER NOT NULL,
		fruits_left   INTEGER NOT NULL,
		fruits_picked INTEGER NOT NULL,
		rounds_left   INTEGER NOT NULL,
		host          TEXT NOT NULL,
		guest         TEXT NOT NULL,
		board         TEXT NOT NULL,
		created_at    INTEGER NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Save upserts a match snapshot.
func (s *SQLiteStore) Save(snapshot engine.MatchSnapshot) error {
	_, err := s.db.Exec(`
		INSERT INTO match_snapshots
			(id, level, map, remaining, fruits_left, fruits_picked, rounds_left, host, guest, board, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			remaining = excluded.remaining,
			fruits_left = excluded.fruits_left,
			fruits_picked = excluded.fruits_picked,
			rounds_left = excluded.rounds_left,
			host = excluded.host,
			guest = excluded.guest,
			board = excluded.board`,
		snapshot.ID, snapshot.Level, snapshot.MapName, snapshot.Remaining,
		snapshot.FruitsLeft, snapshot.FruitsPicked, snapshot.RoundsLeft,
		snapshot.Host, snapshot.Guest, snapshot.Board, snapshot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", snapshot.ID, err)
	}
	return nil
}

// Get reads one snapshot by match id.
func (s *SQLiteStore) Get(id string) (engine.MatchSnapshot, error) {
	row := s.db.QueryRow(`
		SELECT id, level, map, remaining, fruits_left, fruits_picked, rounds_left, host, guest, board, created_at
		FROM match_snapshots WHERE id = ?`, id)

	var snapshot engine.MatchSnapshot
	err := row.Scan(
		&snapshot.ID, &snapshot.Level, &snapshot.MapName, &snapshot.Remaining,
		&snapshot.FruitsLeft, &snapshot.FruitsPicked, &snapshot.RoundsLeft,
		&snapshot.Host, &snapshot.Guest, &snapshot.Board, &snapshot.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.MatchSnapshot{}, ErrMatchNotFound
	}
	if err != nil {
		return engine.MatchSnapshot{}, fmt.Errorf("failed to read snapshot %s: %w", id, err)
	}
	return snapshot, nil
}

// List reads every stored snapshot, newest first.
func (s *SQLiteStore) List() ([]engine.MatchSnapshot, error) {
	rows, err := s.db.Query(`
		SELECT id, level, map, remaining, fruits_left, fruits_picked, rounds_left, host, guest, board, created_at
		FROM match_snapshots ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []engine.MatchSnapshot
	for rows.Next() {
		var snapshot engine.MatchSnapshot
		if err := rows.Scan(
			&snapshot.ID, &snapshot.Level, &snapshot.MapName, &snapshot.Remaining,
			&snapshot.FruitsLeft, &snapshot.FruitsPicked, &snapshot.RoundsLeft,
			&snapshot.Host, &snapshot.Guest, &snapshot.Board, &snapshot.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

// Delete removes a snapshot; deleting an absent snapshot is a no-op.
func (s *SQLiteStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM match_snapshots WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
