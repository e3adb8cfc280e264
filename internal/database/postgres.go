package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

type PostgresConfig struct {
	// Driver is the database/sql driver name: "pgx" or "postgres".
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdle     time.Duration
	ConnMaxLifetime time.Duration
	ReadyTimeout    time.Duration
}

func NewPostgres(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*sql.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "pgx"
	}
	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdle)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	readyTimeout := cfg.ReadyTimeout
	if readyTimeout <= 0 {
		readyTimeout = 30 * time.Second
	}
	deadline := time.Now().Add(readyTimeout)
	backoff := 500 * time.Millisecond
	for {
		err := db.PingContext(ctx)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		logger.Warn("postgres not ready yet", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		roll_no TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		course TEXT NOT NULL DEFAULT '',
		branch TEXT NOT NULL DEFAULT '',
		year INTEGER NOT NULL DEFAULT 0,
		cgpa DOUBLE PRECISION NOT NULL DEFAULT 0,
		backlogs INTEGER NOT NULL DEFAULT 0,
		skills TEXT[] NOT NULL DEFAULT '{}',
		certifications TEXT[] NOT NULL DEFAULT '{}',
		resume_url TEXT NOT NULL DEFAULT '',
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		is_blacklisted BOOLEAN NOT NULL DEFAULT FALSE,
		placed_company_id TEXT,
		custom_fields JSONB NOT NULL DEFAULT '{}',
		last_updated TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS students_email_idx ON students (lower(email))`,
	`CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hr_name TEXT NOT NULL DEFAULT '',
		hr_email TEXT NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		is_approved BOOLEAN NOT NULL DEFAULT FALSE,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS companies_email_idx ON companies (lower(hr_email))`,
	`CREATE TABLE IF NOT EXISTS drives (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		role TEXT NOT NULL,
		ctc TEXT NOT NULL DEFAULT '',
		min_cgpa DOUBLE PRECISION NOT NULL DEFAULT 0,
		max_backlogs INTEGER NOT NULL DEFAULT 0,
		eligible_branches TEXT[] NOT NULL DEFAULT '{}',
		deadline TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		rounds TEXT[] NOT NULL DEFAULT '{}',
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS drives_company_idx ON drives (company_id)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		drive_id TEXT NOT NULL,
		status TEXT NOT NULL,
		current_round INTEGER NOT NULL DEFAULT 0,
		round_statuses JSONB NOT NULL DEFAULT '[]',
		applied_at TIMESTAMPTZ NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL,
		verified BOOLEAN NOT NULL DEFAULT TRUE,
		feedback TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS applications_drive_student_idx ON applications (drive_id, student_id)`,
	`CREATE INDEX IF NOT EXISTS applications_student_idx ON applications (student_id)`,
	`CREATE TABLE IF NOT EXISTS notices (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		posted_at TIMESTAMPTZ NOT NULL,
		posted_by TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		event_date TEXT NOT NULL,
		month TEXT NOT NULL DEFAULT '',
		day TEXT NOT NULL DEFAULT '',
		posted_at TIMESTAMPTZ NOT NULL,
		posted_by TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
}

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
