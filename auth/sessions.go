// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Session is an authenticated admin session
type Session struct {
	Token     string
	AdminID   int64
	ExpiresAt time.Time
}

// SessionStore issues and resolves admin session tokens
type SessionStore interface {
	Create(ctx context.Context, adminID int64) (Session, error)
	Lookup(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// SQLSessions keeps sessions in the admin_session table
type SQLSessions struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewSQLSessions(db *sql.DB, ttl time.Duration) *SQLSessions {
	return &SQLSessions{db: db, ttl: ttl, now: time.Now}
}

func (s *SQLSessions) Create(ctx context.Context, adminID int64) (Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return Session{}, err
	}

	// Second precision; expires_at is stored as unix seconds
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admin_session (token, admin_id, expires_at)
		VALUES ($1, $2, $3)
	`, token, adminID, expiresAt.Unix())
	if err != nil {
		return Session{}, fmt.Errorf("failed to insert session: %w", err)
	}

	return Session{Token: token, AdminID: adminID, ExpiresAt: expiresAt}, nil
}

func (s *SQLSessions) Lookup(ctx context.Context, token string) (Session, error) {
	var adminID, expiresUnix int64
	err := s.db.QueryRowContext(ctx, `
		SELECT admin_id, expires_at FROM admin_session WHERE token = $1
	`, token).Scan(&adminID, &expiresUnix)

	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to query session: %w", err)
	}

	expiresAt := time.Unix(expiresUnix, 0)
	if !s.now().Before(expiresAt) {
		// Expired sessions are removed lazily
		if err := s.Delete(ctx, token); err != nil {
			return Session{}, err
		}
		return Session{}, ErrSessionNotFound
	}

	return Session{Token: token, AdminID: adminID, ExpiresAt: expiresAt}, nil
}

func (s *SQLSessions) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_session WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
