package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Up applies the idempotent DDL for the given driver. Call once after
// connecting; Open does this already.
func Up(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	default:
		return fmt.Errorf("migrations: unsupported driver %q (expected postgres|sqlite)", driver)
	}

	// Some drivers reject multi-statement scripts; fall back to one
	// statement at a time (enough for plain DDL).
	if _, err := db.ExecContext(ctx, schema); err != nil {
		for _, stmt := range splitSQL(schema) {
			if _, e := db.ExecContext(ctx, stmt); e != nil {
				return fmt.Errorf("migrations: failed at:\n%s\nerr: %w", firstLine(stmt), e)
			}
		}
	}
	return nil
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS book_categories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS books (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  category_id INTEGER NOT NULL REFERENCES book_categories(id) ON DELETE CASCADE,
  ord INTEGER NOT NULL DEFAULT 0,
  UNIQUE (category_id, ord)
);

CREATE TABLE IF NOT EXISTS units (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
  ord INTEGER NOT NULL DEFAULT 0,
  UNIQUE (book_id, ord)
);

CREATE TABLE IF NOT EXISTS lessons (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  unit_id INTEGER REFERENCES units(id) ON DELETE CASCADE,
  content TEXT NOT NULL,
  ord INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  UNIQUE (unit_id, ord)
);
CREATE INDEX IF NOT EXISTS lessons_unit_ord ON lessons(unit_id, ord);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'student',
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS attempts (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  lesson_id INTEGER REFERENCES lessons(id) ON DELETE SET NULL,
  expected TEXT NOT NULL,
  spoken TEXT NOT NULL,
  score REAL NOT NULL DEFAULT 0,
  verdicts_json TEXT NOT NULL,
  feedback TEXT NOT NULL DEFAULT '',
  audio_key TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS attempts_lesson_created ON attempts(lesson_id, created_at);
CREATE INDEX IF NOT EXISTS attempts_user_created ON attempts(user_id, created_at);

CREATE TABLE IF NOT EXISTS event_log (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,                         -- e.g. AttemptScored
  key TEXT NOT NULL,                         -- natural key: attempt id
  data TEXT NOT NULL,                        -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS book_categories (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS books (
  id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL,
  category_id BIGINT NOT NULL REFERENCES book_categories(id) ON DELETE CASCADE,
  ord INTEGER NOT NULL DEFAULT 0,
  UNIQUE (category_id, ord)
);

CREATE TABLE IF NOT EXISTS units (
  id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL,
  book_id BIGINT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
  ord INTEGER NOT NULL DEFAULT 0,
  UNIQUE (book_id, ord)
);

CREATE TABLE IF NOT EXISTS lessons (
  id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL,
  unit_id BIGINT REFERENCES units(id) ON DELETE CASCADE,
  content TEXT NOT NULL,
  ord INTEGER NOT NULL DEFAULT 0,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL,
  UNIQUE (unit_id, ord)
);
CREATE INDEX IF NOT EXISTS lessons_unit_ord ON lessons(unit_id, ord);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'student',
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS attempts (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  lesson_id BIGINT REFERENCES lessons(id) ON DELETE SET NULL,
  expected TEXT NOT NULL,
  spoken TEXT NOT NULL,
  score DOUBLE PRECISION NOT NULL DEFAULT 0,
  verdicts_json TEXT NOT NULL,
  feedback TEXT NOT NULL DEFAULT '',
  audio_key TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS attempts_lesson_created ON attempts(lesson_id, created_at);
CREATE INDEX IF NOT EXISTS attempts_user_created ON attempts(user_id, created_at);

CREATE TABLE IF NOT EXISTS event_log (
  seq BIGSERIAL PRIMARY KEY,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`

func splitSQL(s string) []string {
	raw := strings.Split(s, ";")
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part+";")
	}
	return out
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
