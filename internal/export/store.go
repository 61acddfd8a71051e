package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zeusync/contagion/internal/core/epidemic"
)

var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	config      TEXT NOT NULL,
	ticks       INTEGER NOT NULL,
	fingerprint TEXT NOT NULL,
	susceptible INTEGER NOT NULL,
	infected    INTEGER NOT NULL,
	recovered   INTEGER NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS daily_counts (
	run_id      TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
	day         INTEGER NOT NULL,
	susceptible INTEGER NOT NULL,
	infected    INTEGER NOT NULL,
	recovered   INTEGER NOT NULL,
	PRIMARY KEY (run_id, day)
);
`

// Store writes finished runs (configuration, final census and daily series)
// to a SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create export directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open export database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply export schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Run is the stored summary of one simulation.
type Run struct {
	RunID       string
	Config      epidemic.Config
	Ticks       int
	Fingerprint uint64
	Final       epidemic.DaySample
	CreatedAt   time.Time
}

// SaveRun stores cfg and the final snapshot of a run in one transaction.
// Saving the same run id again replaces the earlier rows.
func (s *Store) SaveRun(ctx context.Context, cfg epidemic.Config, final epidemic.Snapshot) error {
	cfgYAML, err := cfg.YAML()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	sus, inf, rec := final.Counts()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM daily_counts WHERE run_id = ?`, final.RunID); err != nil {
		return fmt.Errorf("clear daily counts: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (run_id, config, ticks, fingerprint, susceptible, infected, recovered, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		final.RunID, string(cfgYAML), final.Tick, strconv.FormatUint(final.Fingerprint(), 16),
		sus, inf, rec, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO daily_counts (run_id, day, susceptible, infected, recovered) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare daily counts: %w", err)
	}
	defer stmt.Close()

	for _, d := range final.Series {
		if _, err = stmt.ExecContext(ctx, final.RunID, d.Day, d.Susceptible, d.Infected, d.Recovered); err != nil {
			return fmt.Errorf("insert day %d: %w", d.Day, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

// LoadRun returns the stored summary of runID.
func (s *Store) LoadRun(ctx context.Context, runID string) (Run, error) {
	var (
		run         Run
		cfgYAML     string
		fingerprint string
		createdAt   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, config, ticks, fingerprint, susceptible, infected, recovered, created_at
		 FROM runs WHERE run_id = ?`, runID,
	).Scan(&run.RunID, &cfgYAML, &run.Ticks, &fingerprint,
		&run.Final.Susceptible, &run.Final.Infected, &run.Final.Recovered, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("query run: %w", err)
	}

	if run.Fingerprint, err = strconv.ParseUint(fingerprint, 16, 64); err != nil {
		return Run{}, fmt.Errorf("parse fingerprint: %w", err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Run{}, fmt.Errorf("parse created_at: %w", err)
	}
	if run.Config, err = epidemic.LoadConfig(strings.NewReader(cfgYAML)); err != nil {
		return Run{}, fmt.Errorf("decode stored config: %w", err)
	}
	if run.Config.TicksPerDay > 0 {
		run.Final.Day = run.Ticks / run.Config.TicksPerDay
	}
	return run, nil
}

// LoadSeries returns the daily counts of runID ordered by day.
func (s *Store) LoadSeries(ctx context.Context, runID string) ([]epidemic.DaySample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, susceptible, infected, recovered FROM daily_counts WHERE run_id = ? ORDER BY day`, runID)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var series []epidemic.DaySample
	for rows.Next() {
		var d epidemic.DaySample
		if err = rows.Scan(&d.Day, &d.Susceptible, &d.Infected, &d.Recovered); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		series = append(series, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return series, nil
}

// ListRuns returns the stored run ids, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id FROM runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
