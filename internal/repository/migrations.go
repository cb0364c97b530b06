package repository

import (
	"context"
	"fmt"
	"strings"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS card_files (
		id           TEXT PRIMARY KEY,
		source_path  TEXT NOT NULL,
		content_hash TEXT NOT NULL UNIQUE,
		filename     TEXT NOT NULL,
		file_ext     TEXT NOT NULL,
		file_size    BIGINT NOT NULL,
		uploaded_at  BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scan_jobs (
		id              TEXT PRIMARY KEY,
		file_id         TEXT REFERENCES card_files(id) ON DELETE SET NULL,
		contact_id      TEXT,
		status          TEXT NOT NULL,
		method          TEXT NOT NULL DEFAULT '',
		ocr_text        TEXT NOT NULL DEFAULT '',
		ocr_confidence  REAL,
		lexicon_version INTEGER NOT NULL DEFAULT 0,
		error_message   TEXT NOT NULL DEFAULT '',
		started_at      BIGINT NOT NULL,
		finished_at     BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scan_jobs_file ON scan_jobs(file_id)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		seq        {{serial}},
		id         TEXT NOT NULL UNIQUE,
		scan_id    TEXT,
		name       TEXT NOT NULL DEFAULT '',
		company    TEXT NOT NULL DEFAULT '',
		title      TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT '',
		website    TEXT NOT NULL DEFAULT '',
		address    TEXT NOT NULL DEFAULT '',
		notes      TEXT NOT NULL DEFAULT '',
		raw        TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_created ON contacts(created_at DESC, seq DESC)`,
}

// migrate creates the schema. Every statement is idempotent.
func (d *DB) migrate(ctx context.Context) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if d.dialect == Postgres {
		serial = "BIGSERIAL PRIMARY KEY"
	}
	for i, stmt := range schema {
		stmt = strings.ReplaceAll(stmt, "{{serial}}", serial)
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
