// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Dialect identifies the SQL backend behind a *sql.DB
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect maps a DATABASE_TYPE value to a Dialect
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql":
		return Postgres, nil
	case "sqlite", "sqlite3", "":
		return SQLite, nil
	}
	return "", fmt.Errorf("unsupported database type %q", s)
}

// DriverName returns the database/sql driver registered for the dialect
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Open opens and pings a connection pool for the dialect.
// The caller must import the matching driver.
func Open(d Dialect, url string) (*sql.DB, error) {
	conn, err := sql.Open(d.DriverName(), url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if d == SQLite {
		// SQLite allows a single writer; one connection avoids SQLITE_BUSY
		// between concurrent vote transactions.
		conn.SetMaxOpenConns(1)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, d Dialect) error {
	_, err := db.Exec(Schema(d))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema returns the DDL for the dialect
func Schema(d Dialect) string {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if d == Postgres {
		serial = "BIGSERIAL PRIMARY KEY"
	}
	return fmt.Sprintf(schema, serial)
}

const schema = `
-- Organizations
CREATE TABLE IF NOT EXISTS organization (
    id BIGINT PRIMARY KEY,
    name TEXT NOT NULL
);

-- Candidate pairs
CREATE TABLE IF NOT EXISTS pair (
    id BIGINT PRIMARY KEY,
    organization_id BIGINT NOT NULL REFERENCES organization(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_pair_organization_id ON pair(organization_id);

-- Pair members
CREATE TABLE IF NOT EXISTS organization_member (
    id BIGINT PRIMARY KEY,
    organization_id BIGINT NOT NULL REFERENCES organization(id) ON DELETE CASCADE,
    pair_id BIGINT NOT NULL REFERENCES pair(id) ON DELETE CASCADE,
    nickname TEXT NOT NULL,
    full_name TEXT,
    role TEXT NOT NULL CHECK (role IN ('chairman', 'vice_chairman')),
    image_file_name TEXT
);

CREATE INDEX IF NOT EXISTS idx_organization_member_pair_id ON organization_member(pair_id);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    id %s,
    student_id BIGINT NOT NULL,
    organization_id BIGINT NOT NULL REFERENCES organization(id),
    pair_id BIGINT NOT NULL REFERENCES pair(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (student_id, organization_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_student_id ON vote(student_id);
CREATE INDEX IF NOT EXISTS idx_vote_pair_id ON vote(organization_id, pair_id);

-- Credentials
CREATE TABLE IF NOT EXISTS admin (
    id BIGINT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS student (
    id BIGINT PRIMARY KEY,
    password_hash TEXT NOT NULL
);

-- Admin sessions
CREATE TABLE IF NOT EXISTS admin_session (
    token TEXT PRIMARY KEY,
    admin_id BIGINT NOT NULL REFERENCES admin(id) ON DELETE CASCADE,
    expires_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_admin_session_admin_id ON admin_session(admin_id);
`
