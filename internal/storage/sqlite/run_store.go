package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run represents one persisted benchmark run of the association
// pipeline against a synthetic scene with known ground truth.
type Run struct {
	RunID      string          `json:"run_id"`
	Invariant  string          `json:"invariant"`
	N1         int             `json:"n1"`
	N2         int             `json:"n2"`
	Candidates int             `json:"candidates"`
	Inliers    int             `json:"inliers"`
	OuterIters int             `json:"outer_iters"`
	IFinal     int             `json:"ifinal"`
	Score      float64         `json:"score"`
	Precision  float64         `json:"precision"`
	Recall     float64         `json:"recall"`
	ElapsedUs  int64           `json:"elapsed_us"`
	ParamsJSON json.RawMessage `json:"params_json,omitempty"`
	CreatedAt  int64           `json:"created_at"`
}

// RunStore provides persistence for benchmark runs.
type RunStore struct {
	db *sql.DB
}

// Open opens (or creates) the run database at path and ensures the
// schema exists.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create run schema: %w", err)
	}
	return db, nil
}

const schema = `
	CREATE TABLE IF NOT EXISTS assoc_runs (
		run_id      TEXT PRIMARY KEY,
		invariant   TEXT NOT NULL,
		n1          INTEGER NOT NULL,
		n2          INTEGER NOT NULL,
		candidates  INTEGER NOT NULL,
		inliers     INTEGER NOT NULL,
		outer_iters INTEGER NOT NULL,
		ifinal      INTEGER NOT NULL,
		score       REAL NOT NULL,
		precision   REAL NOT NULL,
		recall      REAL NOT NULL,
		elapsed_us  INTEGER NOT NULL,
		params_json TEXT,
		created_at  INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assoc_runs_created ON assoc_runs(created_at);
`

// NewRunStore creates a RunStore backed by the given database.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Insert persists a new run. If RunID is empty, a UUID is generated.
func (s *RunStore) Insert(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	var paramsStr interface{}
	if len(run.ParamsJSON) > 0 {
		paramsStr = string(run.ParamsJSON)
	}

	err := retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO assoc_runs (
				run_id, invariant, n1, n2, candidates, inliers,
				outer_iters, ifinal, score, precision, recall,
				elapsed_us, params_json, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.Invariant, run.N1, run.N2, run.Candidates, run.Inliers,
			run.OuterIters, run.IFinal, run.Score, run.Precision, run.Recall,
			run.ElapsedUs, paramsStr, run.CreatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.RunID, err)
	}
	return nil
}

// Get returns a single run by ID.
func (s *RunStore) Get(runID string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT run_id, invariant, n1, n2, candidates, inliers,
		       outer_iters, ifinal, score, precision, recall,
		       elapsed_us, params_json, created_at
		FROM assoc_runs
		WHERE run_id = ?`, runID)

	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first, up to limit.
func (s *RunStore) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT run_id, invariant, n1, n2, candidates, inliers,
		       outer_iters, ifinal, score, precision, recall,
		       elapsed_us, params_json, created_at
		FROM assoc_runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var paramsStr sql.NullString
	err := row.Scan(
		&r.RunID, &r.Invariant, &r.N1, &r.N2, &r.Candidates, &r.Inliers,
		&r.OuterIters, &r.IFinal, &r.Score, &r.Precision, &r.Recall,
		&r.ElapsedUs, &paramsStr, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paramsStr.Valid {
		r.ParamsJSON = json.RawMessage(paramsStr.String)
	}
	return &r, nil
}

// retryOnBusy retries a write a few times when SQLite reports the
// database locked by another connection.
func retryOnBusy(fn func() error) error {
	const attempts = 5
	delay := 10 * time.Millisecond

	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !isBusy(err) {
			return err
		}
		time.Sleep(delay)
		delay *= 2
	}
	return err
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
