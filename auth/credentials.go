// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CredentialStore verifies admin and student passwords
type CredentialStore interface {
	VerifyAdmin(ctx context.Context, username, password string) (adminID int64, err error)
	VerifyStudent(ctx context.Context, studentID int64, password string) error
}

type SQLCredentials struct {
	db *sql.DB
}

func NewSQLCredentials(db *sql.DB) *SQLCredentials {
	return &SQLCredentials{db: db}
}

// VerifyAdmin returns the admin id for a valid username/password pair.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *SQLCredentials) VerifyAdmin(ctx context.Context, username, password string) (int64, error) {
	var id int64
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM admin WHERE username = $1
	`, username).Scan(&id, &hash)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInvalidCredentials
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query admin: %w", err)
	}

	if err := CheckPassword(hash, password); err != nil {
		return 0, err
	}
	return id, nil
}

// VerifyStudent checks a student id/password pair
func (s *SQLCredentials) VerifyStudent(ctx context.Context, studentID int64, password string) error {
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT password_hash FROM student WHERE id = $1
	`, studentID).Scan(&hash)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("failed to query student: %w", err)
	}

	return CheckPassword(hash, password)
}
