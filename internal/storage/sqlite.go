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

	"worklog/internal/core"
	"worklog/internal/sheets"

	_ "modernc.org/sqlite"
)

var _ sheets.WeekStore = (*SQLiteRepository)(nil)

// SQLiteRepository stores every week in one database, rows ordered by position.
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

	// Run migrations
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

// Load implements sheets.WeekReader
func (r *SQLiteRepository) Load(ctx context.Context, key core.WeekKey) ([]core.WorkLogRow, error) {
	rs, err := r.db.QueryContext(ctx, `
		SELECT date, project_name, task, effort_hours, task_summary,
		       internal_meetings_hours, client_meetings_hours
		FROM work_log_rows
		WHERE week_key = ?
		ORDER BY position`, key.String())
	if err != nil {
		return nil, fmt.Errorf("query week rows: %w", err)
	}
	defer rs.Close()

	rows := []core.WorkLogRow{}
	for rs.Next() {
		var row core.WorkLogRow
		if err := rs.Scan(&row.Date, &row.Project, &row.Task, &row.Effort, &row.Summary,
			&row.InternalMeetings, &row.ClientMeetings); err != nil {
			return nil, fmt.Errorf("scan week row: %w", err)
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterate week rows: %w", err)
	}
	return rows, nil
}

// Save implements sheets.WeekWriter. The week is replaced in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, key core.WeekKey, rows []core.WorkLogRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO weeks (week_key, saved_at) VALUES (?, ?)
		ON CONFLICT(week_key) DO UPDATE SET saved_at = excluded.saved_at`,
		key.String(), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("upsert week: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM work_log_rows WHERE week_key = ?`, key.String()); err != nil {
		return fmt.Errorf("clear week rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO work_log_rows (week_key, position, date, project_name, task, effort_hours,
		                           task_summary, internal_meetings_hours, client_meetings_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range core.Coerce(rows) {
		if _, err := stmt.ExecContext(ctx, key.String(), i, row.Date, row.Project, row.Task, row.Effort,
			row.Summary, row.InternalMeetings, row.ClientMeetings); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit week: %w", err)
	}

	slog.InfoContext(ctx, "Week saved to SQLite", "week_key", key.String(), "rows", len(rows))
	return nil
}

// LastSaved implements sheets.WeekStore
func (r *SQLiteRepository) LastSaved(ctx context.Context, key core.WeekKey) (time.Time, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT saved_at FROM weeks WHERE week_key = ?`, key.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get week saved_at: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse saved_at %q: %w", raw, err)
	}
	return at, true, nil
}

// Weeks implements sheets.WeekStore
func (r *SQLiteRepository) Weeks(ctx context.Context) ([]core.WeekKey, error) {
	rs, err := r.db.QueryContext(ctx, `SELECT week_key FROM weeks ORDER BY week_key`)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	defer rs.Close()

	var keys []core.WeekKey
	for rs.Next() {
		var k string
		if err := rs.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan week key: %w", err)
		}
		keys = append(keys, core.WeekKey(k))
	}
	return keys, rs.Err()
}
