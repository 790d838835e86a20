package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:grademate.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/grademate?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  owner TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  gradebook_key TEXT NOT NULL DEFAULT '',  -- blob-store key of the uploaded CSV
  headers_json TEXT NOT NULL DEFAULT '[]',
  roles_json TEXT NOT NULL DEFAULT '{}',
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  row_index INTEGER NOT NULL,               -- position in the source CSV
  record_json TEXT NOT NULL,
  grade TEXT,
  feedback TEXT,
  PRIMARY KEY (session_id, row_index)
);

CREATE TABLE IF NOT EXISTS submissions (
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  folder TEXT NOT NULL,                     -- raw Moodle folder name
  candidate_json TEXT NOT NULL,
  matched_row INTEGER,                      -- NULL = no match
  strategy TEXT NOT NULL DEFAULT '',
  manual INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (session_id, folder)
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT UNIQUE NOT NULL,
  role TEXT NOT NULL,
  pass_hash TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS event_log (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,    -- BIGSERIAL in Postgres
  session_id TEXT NOT NULL,
  typ TEXT NOT NULL,                        -- e.g. GradebookUploaded
  key TEXT NOT NULL,                        -- natural key: folder or row index
  data TEXT NOT NULL,                       -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  owner TEXT NOT NULL,
  title TEXT NOT NULL DEFAULT '',
  gradebook_key TEXT NOT NULL DEFAULT '',
  headers_json TEXT NOT NULL DEFAULT '[]',
  roles_json TEXT NOT NULL DEFAULT '{}',
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  row_index INTEGER NOT NULL,
  record_json TEXT NOT NULL,
  grade TEXT,
  feedback TEXT,
  PRIMARY KEY (session_id, row_index)
);

CREATE TABLE IF NOT EXISTS submissions (
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  folder TEXT NOT NULL,
  candidate_json TEXT NOT NULL,
  matched_row INTEGER,
  strategy TEXT NOT NULL DEFAULT '',
  manual INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (session_id, folder)
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT UNIQUE NOT NULL,
  role TEXT NOT NULL,
  pass_hash TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS event_log (
  seq BIGSERIAL PRIMARY KEY,
  session_id TEXT NOT NULL,
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
