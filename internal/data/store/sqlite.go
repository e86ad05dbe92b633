package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	_ "github.com/mattn/go-sqlite3"

	"github.com/penwyp/go-day-planner/internal/core/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS days (
	day         TEXT PRIMARY KEY,
	plan_text   TEXT NOT NULL DEFAULT '',
	narrative   TEXT NOT NULL DEFAULT '',
	report_json TEXT,
	updated_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id        TEXT NOT NULL,
	day       TEXT NOT NULL REFERENCES days(day) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	start_min INTEGER NOT NULL,
	end_min   INTEGER NOT NULL,
	title     TEXT NOT NULL,
	category  TEXT NOT NULL,
	status    TEXT NOT NULL,
	PRIMARY KEY (day, id)
);
CREATE INDEX IF NOT EXISTS idx_tasks_day ON tasks(day, position);
`

// SQLiteRepository stores day records in a SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite creates or opens the database at dbPath.
func OpenSQLite(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite handles one writer at a time

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Load reads the record of day.
func (r *SQLiteRepository) Load(ctx context.Context, day string) (*DayRecord, error) {
	if err := validateDay(day); err != nil {
		return nil, err
	}

	rec := &DayRecord{Day: day}
	var (
		reportJSON sql.NullString
		updated    int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT plan_text, narrative, report_json, updated_at FROM days WHERE day = ?`, day,
	).Scan(&rec.PlanText, &rec.Narrative, &reportJSON, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query day %s: %w", day, err)
	}
	rec.UpdatedAt = time.Unix(0, updated).UTC()

	if reportJSON.Valid && reportJSON.String != "" {
		var report model.ReviewReport
		if err := sonic.UnmarshalString(reportJSON.String, &report); err != nil {
			return nil, fmt.Errorf("decode report of %s: %w", day, err)
		}
		rec.Report = &report
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, start_min, end_min, title, category, status FROM tasks WHERE day = ? ORDER BY position`, day)
	if err != nil {
		return nil, fmt.Errorf("query tasks of %s: %w", day, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t          model.Task
			start, end int
			category   string
			status     string
		)
		if err := rows.Scan(&t.ID, &start, &end, &t.Title, &category, &status); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.StartTime, t.EndTime = model.Clock(start), model.Clock(end)
		t.Category = model.Category(category)
		t.Status = model.TaskStatus(status)
		rec.Tasks = append(rec.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return rec, nil
}

// Save replaces the record of rec.Day in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, rec *DayRecord) error {
	if err := validateDay(rec.Day); err != nil {
		return err
	}

	var reportJSON sql.NullString
	if rec.Report != nil {
		s, err := sonic.MarshalString(rec.Report)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		reportJSON = sql.NullString{String: s, Valid: true}
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO days (day, plan_text, narrative, report_json, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			plan_text = excluded.plan_text,
			narrative = excluded.narrative,
			report_json = excluded.report_json,
			updated_at = excluded.updated_at`,
		rec.Day, rec.PlanText, rec.Narrative, reportJSON, updated.UnixNano(),
	); err != nil {
		return fmt.Errorf("upsert day: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE day = ?`, rec.Day); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (id, day, position, start_min, end_min, title, category, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare task insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range rec.Tasks {
		if _, err := stmt.ExecContext(ctx, t.ID, rec.Day, i, int(t.StartTime), int(t.EndTime),
			t.Title, string(t.Category), string(t.Status)); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error { return r.db.Close() }
