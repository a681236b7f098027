package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/vthumb/internal/domain"
	"github.com/bnema/vthumb/internal/infrastructure/logger"
	"github.com/bnema/vthumb/internal/port"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrRunNotFound is returned when a run id is not in the ledger.
var ErrRunNotFound = errors.New("run not found")

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Ledger is a port.RunLedger backed by a single SQLite file.
type Ledger struct {
	db *sql.DB
}

var hookOnce sync.Once

func registerHook() {
	hookOnce.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, dsn string) error {
			pragmas := []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA busy_timeout = 5000",
				"PRAGMA synchronous = NORMAL",
				"PRAGMA foreign_keys = ON",
				"PRAGMA cache_size = -8000", // 8MB
			}
			for _, p := range pragmas {
				if _, err := conn.ExecContext(context.Background(), p, nil); err != nil {
					return fmt.Errorf("execute %s: %w", p, err)
				}
			}
			return nil
		})
	})
}

// NewLedger opens or creates the database at path and applies migrations.
func NewLedger(path string) (*Ledger, error) {
	registerHook()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	// Single connection for SQLite (WAL allows concurrent reads but only one writer)
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations)
	goose.SetLogger(logger.Debug)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) BeginRun(ctx context.Context, runID, inputPath string, total int) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_path, total, started_at) VALUES (?, ?, ?, ?)`,
		runID, inputPath, total, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordOutcomes upserts outcomes in one transaction, so recording the
// same row twice keeps the latest outcome.
func (l *Ledger) RecordOutcomes(ctx context.Context, runID string, outcomes []domain.Outcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO outcomes (run_id, row_index, locator, title, status, output_path, web_path, error, kind, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (run_id, row_index) DO UPDATE SET
			locator = excluded.locator,
			title = excluded.title,
			status = excluded.status,
			output_path = excluded.output_path,
			web_path = excluded.web_path,
			error = excluded.error,
			kind = excluded.kind,
			duration_ms = excluded.duration_ms`)
	if err != nil {
		return fmt.Errorf("prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		if _, err := stmt.ExecContext(ctx,
			runID, o.RowIndex, o.Locator, o.Title, string(o.Status),
			o.OutputPath, o.WebPath, o.Error, string(o.Kind), o.Duration.Milliseconds(),
		); err != nil {
			return fmt.Errorf("insert outcome for row %d: %w", o.RowIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit outcomes: %w", err)
	}
	return nil
}

func (l *Ledger) FinishRun(ctx context.Context, runID string, summary domain.Summary) error {
	res, err := l.db.ExecContext(ctx, `
		UPDATE runs SET succeeded = ?, failed = ?, elapsed_ms = ?, result_path = ?, output_dir = ?, finished_at = ?
		WHERE id = ?`,
		summary.Succeeded, summary.Failed, summary.Elapsed.Milliseconds(),
		summary.ResultPath, summary.OutputDir, summary.FinishedAt.UTC().Format(timeLayout), runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (l *Ledger) ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, input_path, total, succeeded, failed, elapsed_ms, result_path, output_dir, started_at, finished_at
		FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (l *Ledger) GetRun(ctx context.Context, runID string) (domain.RunRecord, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, input_path, total, succeeded, failed, elapsed_ms, result_path, output_dir, started_at, finished_at
		FROM runs WHERE id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return r, err
}

// Outcomes returns the recorded outcomes of a run by row index. With
// failedOnly set only failed rows are returned.
func (l *Ledger) Outcomes(ctx context.Context, runID string, failedOnly bool) ([]domain.Outcome, error) {
	query := `
		SELECT row_index, locator, title, status, output_path, web_path, error, kind, duration_ms
		FROM outcomes WHERE run_id = ?`
	args := []any{runID}
	if failedOnly {
		query += ` AND status = ?`
		args = append(args, string(domain.OutcomeFailed))
	}
	query += ` ORDER BY row_index`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []domain.Outcome
	for rows.Next() {
		var (
			o          domain.Outcome
			status     string
			kind       string
			durationMS int64
		)
		if err := rows.Scan(&o.RowIndex, &o.Locator, &o.Title, &status, &o.OutputPath, &o.WebPath, &o.Error, &kind, &durationMS); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Status = domain.OutcomeStatus(status)
		o.Kind = domain.ErrorKind(kind)
		o.Duration = time.Duration(durationMS) * time.Millisecond
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (domain.RunRecord, error) {
	var (
		r          domain.RunRecord
		elapsedMS  int64
		startedAt  string
		finishedAt string
	)
	err := s.Scan(&r.Summary.RunID, &r.InputPath, &r.Summary.Total, &r.Summary.Succeeded, &r.Summary.Failed,
		&elapsedMS, &r.Summary.ResultPath, &r.Summary.OutputDir, &startedAt, &finishedAt)
	if err != nil {
		return domain.RunRecord{}, err
	}

	r.Summary.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if r.Summary.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return domain.RunRecord{}, fmt.Errorf("parse started_at: %w", err)
	}
	if finishedAt != "" {
		if r.Summary.FinishedAt, err = time.Parse(timeLayout, finishedAt); err != nil {
			return domain.RunRecord{}, fmt.Errorf("parse finished_at: %w", err)
		}
		r.Finished = true
	}
	if secs := r.Summary.Elapsed.Seconds(); secs > 0 {
		r.Summary.Throughput = float64(r.Summary.Total) / secs
	}
	return r, nil
}

var _ port.RunLedger = (*Ledger)(nil)
