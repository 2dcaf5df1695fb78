package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"issue-sync/internal/model"
)

// Store persists sync runs, their errors and logs, and per-repository
// checkpoints in sqlite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database and ensures the schema exists.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", dbPath)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			spec TEXT,
			status TEXT,
			issues_fetched INTEGER DEFAULT 0,
			docs_written INTEGER DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			stage TEXT,
			message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			stage TEXT,
			level TEXT,
			message TEXT,
			fields TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS checkpoints (
			owner TEXT,
			repo TEXT,
			last_synced_at DATETIME,
			updated_at DATETIME,
			PRIMARY KEY (owner, repo)
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "creating schema")
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores a new sync run in pending state.
func (s *Store) SaveRun(runID string, spec model.SyncJobSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return errors.Wrap(err, "marshalling run spec")
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT INTO runs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		runID, specJSON, model.StatusPending, now, now)
	return err
}

// UpdateRunStatus moves a run to a new lifecycle status.
func (s *Store) UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// UpdateRunCounts records how many issues were fetched and documents written.
func (s *Store) UpdateRunCounts(runID string, issuesFetched, docsWritten int) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`UPDATE runs SET issues_fetched = ?, docs_written = ?, updated_at = ? WHERE id = ?`,
		issuesFetched, docsWritten, now, runID)
	return err
}

// GetRun fetches a run with its spec.
func (s *Store) GetRun(runID string) (*model.SyncRun, error) {
	var run model.SyncRun
	var specJSON string

	err := s.db.QueryRow(
		`SELECT id, spec, status, issues_fetched, docs_written, created_at, updated_at FROM runs WHERE id = ?`,
		runID).
		Scan(&run.ID, &specJSON, &run.Status, &run.IssuesFetched, &run.DocsWritten, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(specJSON), &run.Spec); err != nil {
		return nil, errors.Wrap(err, "unmarshalling run spec")
	}
	return &run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns() ([]model.SyncRun, error) {
	rows, err := s.db.Query(
		`SELECT id, spec, status, issues_fetched, docs_written, created_at, updated_at
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.SyncRun
	for rows.Next() {
		var run model.SyncRun
		var specJSON string
		if err := rows.Scan(&run.ID, &specJSON, &run.Status, &run.IssuesFetched, &run.DocsWritten, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(specJSON), &run.Spec); err != nil {
			return nil, errors.Wrap(err, "unmarshalling run spec")
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SaveRunError records an error raised during a run.
func (s *Store) SaveRunError(runID, stage string, runErr error) error {
	if runErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO run_errors (run_id, stage, message, created_at) VALUES (?, ?, ?, ?)`,
		runID, stage, runErr.Error(), now)
	return err
}

// GetRunErrors returns all errors for a run, oldest first.
func (s *Store) GetRunErrors(runID string) ([]model.RunError, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, stage, message, created_at FROM run_errors WHERE run_id = ? ORDER BY created_at ASC`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errsOut []model.RunError
	for rows.Next() {
		var re model.RunError
		if err := rows.Scan(&re.ID, &re.RunID, &re.Stage, &re.Message, &re.CreatedAt); err != nil {
			return nil, err
		}
		errsOut = append(errsOut, re)
	}
	return errsOut, rows.Err()
}

// SaveRunLog attaches a structured log line to a run.
func (s *Store) SaveRunLog(runID, stage, level, message string, fields map[string]interface{}) error {
	var fieldsJSON []byte
	if fields != nil {
		var err error
		fieldsJSON, err = json.Marshal(fields)
		if err != nil {
			return errors.Wrap(err, "marshalling log fields")
		}
	}

	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO run_logs (run_id, stage, level, message, fields, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, level, message, string(fieldsJSON), now)
	return err
}

// GetRunLogs returns up to limit log lines for a run, oldest first.
func (s *Store) GetRunLogs(runID string, limit int) ([]model.RunLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT id, run_id, stage, level, message, fields, created_at
		 FROM run_logs WHERE run_id = ? ORDER BY created_at ASC LIMIT ?`,
		runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.RunLog
	for rows.Next() {
		var l model.RunLog
		var fieldsJSON string
		if err := rows.Scan(&l.ID, &l.RunID, &l.Stage, &l.Level, &l.Message, &fieldsJSON, &l.CreatedAt); err != nil {
			return nil, err
		}
		if fieldsJSON != "" {
			if err := json.Unmarshal([]byte(fieldsJSON), &l.Fields); err != nil {
				return nil, errors.Wrap(err, "unmarshalling log fields")
			}
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// SaveCheckpoint upserts the sync checkpoint for a repository.
func (s *Store) SaveCheckpoint(owner, repo string, lastSyncedAt time.Time) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO checkpoints (owner, repo, last_synced_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(owner, repo) DO UPDATE SET last_synced_at = excluded.last_synced_at, updated_at = excluded.updated_at`,
		owner, repo, lastSyncedAt.UTC(), now)
	return err
}

// GetCheckpoint returns the checkpoint for a repository, or nil if the
// repository has never been synced.
func (s *Store) GetCheckpoint(owner, repo string) (*model.Checkpoint, error) {
	var cp model.Checkpoint
	err := s.db.QueryRow(
		`SELECT owner, repo, last_synced_at, updated_at FROM checkpoints WHERE owner = ? AND repo = ?`,
		owner, repo).
		Scan(&cp.Owner, &cp.Repo, &cp.LastSyncedAt, &cp.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cp, nil
}
