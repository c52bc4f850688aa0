// Package storage provides SQLite-based persistence for best scores and run
// history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/tuitiles/tilefall/internal/engine"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunEntry is one recorded end-of-run statistics row.
type RunEntry struct {
	ID           int64
	Key          string
	FinalScore   int
	MaxCombo     int
	TotalSpawned int
	TotalHit     int
	TotalMissed  int
	Accuracy     float64
	CreatedAt    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS bests (
			key TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL,
			final_score INTEGER NOT NULL,
			max_combo INTEGER NOT NULL,
			total_spawned INTEGER NOT NULL,
			total_hit INTEGER NOT NULL,
			total_missed INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_key ON runs(key);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(key, final_score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadBest returns the stored best score for the given key.
// Returns 0 if no best has been recorded.
func (s *Store) LoadBest(key string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT score FROM bests WHERE key = ?",
		key,
	).Scan(&score)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot load best: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// SaveBest upserts the best score for the given key.
func (s *Store) SaveBest(key string, score int) error {
	_, err := s.db.Exec(
		`INSERT INTO bests (key, score, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET score = excluded.score, updated_at = CURRENT_TIMESTAMP`,
		key, score,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save best: %w", err)
	}
	return nil
}

// Ensure Store satisfies the engine's persistence collaborator contract.
var _ engine.BestStore = (*Store)(nil)

// SaveRun records the statistics of a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(key string, stats engine.RunStats) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (key, final_score, max_combo, total_spawned, total_hit, total_missed, accuracy)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key, stats.FinalScore, stats.MaxCombo,
		stats.TotalSpawned, stats.TotalHit, stats.TotalMissed, stats.Accuracy,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the top N runs for the given key, ordered by final score
// descending.
func (s *Store) TopRuns(key string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, key, final_score, max_combo, total_spawned, total_hit, total_missed, accuracy, created_at
		 FROM runs
		 WHERE key = ?
		 ORDER BY final_score DESC
		 LIMIT ?`,
		key, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// RecentRuns retrieves the most recent N runs for the given key.
func (s *Store) RecentRuns(key string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, key, final_score, max_combo, total_spawned, total_hit, total_missed, accuracy, created_at
		 FROM runs
		 WHERE key = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		key, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// ClearRuns deletes all runs and the stored best for the given key.
func (s *Store) ClearRuns(key string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM bests WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot clear best: %w", err)
	}
	return nil
}

// scanRuns reads RunEntry rows from a query result.
func scanRuns(rows *sql.Rows) ([]RunEntry, error) {
	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(
			&e.ID, &e.Key, &e.FinalScore, &e.MaxCombo,
			&e.TotalSpawned, &e.TotalHit, &e.TotalMissed, &e.Accuracy,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			e.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				e.CreatedAt = parsed
			}
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}
