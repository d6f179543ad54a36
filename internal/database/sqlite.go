package database

import (
	"database/sql"
	"fmt"
	"time"

	"goodgood/internal/database/migrations"
	"goodgood/internal/gg"
	"goodgood/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteHistory implements gg.History on a SQLite database.
type SQLiteHistory struct {
	db *sql.DB
}

var _ gg.History = (*SQLiteHistory)(nil)

// NewSQLiteHistory opens the database at path, applying any pending
// migrations. path can be a file path or ":memory:".
func NewSQLiteHistory(path string) (*SQLiteHistory, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating run history: %w", err)
	}

	return &SQLiteHistory{db: db}, nil
}

// OpenConnection opens and configures a SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer per process; this also keeps a :memory: database on a
	// single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// CheckMigrations verifies the schema matches the binary.
func (s *SQLiteHistory) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// StartRun inserts run and returns a copy with ID set.
func (s *SQLiteHistory) StartRun(run *model.Run) (*model.Run, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (run_id, date, provider, model, started_at, status, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Date, run.Provider, run.Model, run.StartedAt.UTC(), run.Status, run.Detail,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading run id: %w", err)
	}

	recorded := *run
	recorded.ID = id
	return &recorded, nil
}

// FinishRun updates the final fields of a started run.
func (s *SQLiteHistory) FinishRun(run *model.Run) error {
	finished := time.Now()
	if run.FinishedAt != nil {
		finished = *run.FinishedAt
	}
	res, err := s.db.Exec(
		`UPDATE runs SET status = ?, model = ?, detail = ?, finished_at = ? WHERE id = ?`,
		run.Status, run.Model, run.Detail, finished.UTC(), run.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finishing run: no run with id %d", run.ID)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *SQLiteHistory) ListRuns(limit int) ([]*model.Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.Query(
		`SELECT id, run_id, date, provider, model, started_at, finished_at, status, detail
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		var r model.Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.RunID, &r.Date, &r.Provider, &r.Model, &r.StartedAt, &finished, &r.Status, &r.Detail); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Close closes the database connection.
func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}
