package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return &DB{Client: db}, db.PingContext(context.Background())
}

// Migrate applies the schema. Statements are idempotent so it can run on every start.
func (d *DB) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		roll          TEXT NOT NULL DEFAULT '',
		student_class TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL DEFAULT 'Unknown',
		time_label    TEXT NOT NULL DEFAULT '-',
		parent_phone  TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		email         TEXT UNIQUE NOT NULL,
		role          TEXT NOT NULL,
		roll_number   TEXT NOT NULL DEFAULT '',
		phone_number  TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_students_name ON students(name);
	CREATE INDEX IF NOT EXISTS idx_students_roll ON students(roll);
	`
	_, err := d.Client.ExecContext(ctx, schema)
	return err
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
