package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // required for sql.Open to recognize pgx
)

// schemaDDL creates the exercise table for local/dev environments. Production
// schemas are owned by migrations outside this service.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS exercises (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	category          TEXT NOT NULL,
	subcategory       TEXT NOT NULL DEFAULT '',
	body_parts        JSONB NOT NULL DEFAULT '[]',
	equipment         JSONB NOT NULL DEFAULT '[]',
	difficulty        TEXT NOT NULL,
	duration_seconds  INTEGER NOT NULL DEFAULT 0,
	therapeutic_goals TEXT NOT NULL DEFAULT '',
	ai_categorized    BOOLEAN NOT NULL DEFAULT FALSE,
	ai_confidence     DOUBLE PRECISION,
	approved          BOOLEAN NOT NULL DEFAULT FALSE,
	video_url         TEXT NOT NULL DEFAULT '',
	thumbnail_url     TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS exercises_category_idx ON exercises (category);
CREATE INDEX IF NOT EXISTS exercises_approved_idx ON exercises (approved);
CREATE INDEX IF NOT EXISTS exercises_created_at_idx ON exercises (created_at);
`

type DB struct {
	cfg  *Config
	conn *sql.DB
}

func NewDB(cfg *Config) *DB {
	return &DB{cfg: cfg}
}

func (d *DB) Conn() *sql.DB {
	if d.conn == nil {
		panic("db not connected, call DB.Connect() first")
	}
	return d.conn
}

// Connect opens the Postgres connection and optionally creates the schema.
func (d *DB) Connect(ctx context.Context) error {
	conn, err := sql.Open("pgx", d.cfg.DSN())
	if err != nil {
		return fmt.Errorf("pgx connect to database: %w", err)
	}

	conn.SetMaxOpenConns(d.cfg.MaxOpenConns)

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if d.cfg.AutoMigrate {
		if _, err := conn.ExecContext(ctx, schemaDDL); err != nil {
			return fmt.Errorf("create schema resources: %w", err)
		}
	}

	d.conn = conn

	return nil
}

func (d *DB) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}
