/*
Package sqlite keeps a history of scoring runs in SQLite.

Each CLI or API score is saved as one row: the headline totals in columns for
listing, plus the full result as JSON for replay. Rows are never updated.

The database is opened in WAL mode so readers do not block the single
writer. Schema is auto-migrated on New. Use ":memory:" in tests.
*/
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// Fixed-width timestamps so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Run is one stored scoring run.
type Run struct {
	ID          string          `json:"id"`
	PolicyName  string          `json:"policyName"`
	Kind        domain.Kind     `json:"kind"`
	Source      string          `json:"source"`
	Dynamic     bool            `json:"dynamic"`
	StartYear   int             `json:"startYear"`
	Years       int             `json:"years"`
	TotalStatic decimal.Decimal `json:"totalStatic"`
	TotalFinal  decimal.Decimal `json:"totalFinal"`
	CreatedAt   time.Time       `json:"createdAt"`
	// Result is nil in listings and populated by GetRun.
	Result *domain.ScoringResult `json:"result,omitempty"`
}

// Store persists scoring runs.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// New opens or creates the database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		policy_name TEXT NOT NULL,
		kind TEXT NOT NULL,
		source TEXT NOT NULL,
		dynamic INTEGER NOT NULL,
		start_year INTEGER NOT NULL,
		years INTEGER NOT NULL,
		total_static TEXT NOT NULL,
		total_final TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_policy_name ON runs(policy_name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores result and returns the saved run. Source names the surface
// that produced it, such as "cli" or "api".
func (s *Store) SaveRun(ctx context.Context, result *domain.ScoringResult, source string) (*Run, error) {
	if result == nil {
		return nil, errors.New("cannot save nil result")
	}
	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	run := &Run{
		ID:          id,
		PolicyName:  result.PolicyName,
		Kind:        result.Kind,
		Source:      source,
		Dynamic:     result.IsDynamic(),
		Years:       len(result.Years),
		TotalStatic: result.TotalStatic(),
		TotalFinal:  result.TotalFinal(),
		CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
		Result:      result,
	}
	if len(result.Years) > 0 {
		run.StartYear = result.Years[0]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, policy_name, kind, source, dynamic, start_year, years,
		                  total_static, total_final, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.PolicyName, string(run.Kind), run.Source, run.Dynamic, run.StartYear, run.Years,
		run.TotalStatic.String(), run.TotalFinal.String(), string(payload),
		run.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}
	return run, nil
}

// GetRun returns the run with id, including its full result.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, policy_name, kind, source, dynamic, start_year, years,
		       total_static, total_final, created_at, result_json
		FROM runs WHERE id = ?`, id)

	var payload string
	run, err := scanRun(row, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var result domain.ScoringResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", id, err)
	}
	run.Result = &result
	return run, nil
}

// ListRuns returns up to limit runs, newest first, without results. A
// non-positive limit returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, policy_name, kind, source, dynamic, start_year, years,
		       total_static, total_final, created_at
		FROM runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows, nil)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner, payload *string) (*Run, error) {
	var (
		run                     Run
		kind, static, final, ts string
	)
	dest := []any{&run.ID, &run.PolicyName, &kind, &run.Source, &run.Dynamic, &run.StartYear, &run.Years,
		&static, &final, &ts}
	if payload != nil {
		dest = append(dest, payload)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	run.Kind = domain.Kind(kind)
	var err error
	if run.TotalStatic, err = decimal.NewFromString(static); err != nil {
		return nil, fmt.Errorf("run %s: bad total_static: %w", run.ID, err)
	}
	if run.TotalFinal, err = decimal.NewFromString(final); err != nil {
		return nil, fmt.Errorf("run %s: bad total_final: %w", run.ID, err)
	}
	run.CreatedAt, _ = time.Parse(timeLayout, ts)
	return &run, nil
}

func newID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
