package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"computesales/internal/core"

	_ "modernc.org/sqlite"
)

var ErrRunNotFound = errors.New("run not found")

// RunRecord is a stored run together with its database ID. ErrorCount is
// always set; Errors is only loaded by GetRun.
type RunRecord struct {
	ID         int64
	ErrorCount int
	core.RunSummary
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveRun stores a run and its error lines in one transaction.
func (r *SQLiteRepository) SaveRun(ctx context.Context, s core.RunSummary) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (ran_at, catalog_path, sales_path, total, elapsed_ns, record_count, priced_count, error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RanAt.UTC().Format(time.RFC3339Nano),
		s.CatalogPath,
		s.SalesPath,
		s.Total.String(),
		s.Elapsed.Nanoseconds(),
		s.Records,
		s.Priced,
		len(s.Errors),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	if len(s.Errors) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_errors (run_id, position, message) VALUES (?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("prepare run error insert: %w", err)
		}
		defer stmt.Close()

		for i, msg := range s.Errors {
			if _, err := stmt.ExecContext(ctx, id, i, msg); err != nil {
				return 0, fmt.Errorf("insert run error %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}

	slog.InfoContext(ctx, "Run saved to SQLite",
		"id", id,
		"total", s.Total.String(),
		"records", s.Records,
		"error_count", len(s.Errors))

	return id, nil
}

// ListRuns returns the most recent runs, newest first, without their error lines.
func (r *SQLiteRepository) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ran_at, catalog_path, sales_path, total, elapsed_ns, record_count, priced_count, error_count
		FROM runs
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// GetRun returns one run with its error lines in their original order.
func (r *SQLiteRepository) GetRun(ctx context.Context, id int64) (RunRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, ran_at, catalog_path, sales_path, total, elapsed_ns, record_count, priced_count, error_count
		FROM runs
		WHERE id = ?`, id)

	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, ErrRunNotFound
	}
	if err != nil {
		return RunRecord{}, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT message FROM run_errors WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return RunRecord{}, fmt.Errorf("query run errors: %w", err)
	}
	defer rows.Close()

	rec.Errors = []string{}
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return RunRecord{}, fmt.Errorf("scan run error: %w", err)
		}
		rec.Errors = append(rec.Errors, msg)
	}
	if err := rows.Err(); err != nil {
		return RunRecord{}, fmt.Errorf("iterate run errors: %w", err)
	}

	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var (
		rec       RunRecord
		ranAt     string
		total     string
		elapsedNs int64
	)
	err := s.Scan(&rec.ID, &ranAt, &rec.CatalogPath, &rec.SalesPath, &total, &elapsedNs, &rec.Records, &rec.Priced, &rec.ErrorCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scan run: %w", err)
	}

	rec.RanAt, err = time.Parse(time.RFC3339Nano, ranAt)
	if err != nil {
		return rec, fmt.Errorf("parse ran_at %q: %w", ranAt, err)
	}
	rec.Total, err = decimal.NewFromString(total)
	if err != nil {
		return rec, fmt.Errorf("parse total %q: %w", total, err)
	}
	rec.Elapsed = time.Duration(elapsedNs)

	return rec, nil
}
