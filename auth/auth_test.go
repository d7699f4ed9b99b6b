// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/student-vote/auth"
	"github.com/danielhkuo/student-vote/testutil"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if err := auth.CheckPassword(hash, "hunter2"); err != nil {
		t.Errorf("CheckPassword() with correct password error = %v", err)
	}
	if err := auth.CheckPassword(hash, "hunter3"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("CheckPassword() with wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if err := auth.CheckPassword("not-a-hash", "hunter2"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("CheckPassword() with malformed hash error = %v, want ErrInvalidCredentials", err)
	}
}

func TestGenerateSessionToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := auth.GenerateSessionToken()
		if err != nil {
			t.Fatalf("GenerateSessionToken() error = %v", err)
		}
		if _, err := uuid.Parse(token); err != nil {
			t.Errorf("GenerateSessionToken() = %q is not a UUID: %v", token, err)
		}
		if seen[token] {
			t.Fatalf("GenerateSessionToken() produced duplicate %q", token)
		}
		seen[token] = true
	}
}

func TestSQLCredentials(t *testing.T) {
	conn := testutil.SetupSeededDB(t)
	creds := auth.NewSQLCredentials(conn)
	ctx := context.Background()

	t.Run("admin", func(t *testing.T) {
		tests := []struct {
			name     string
			username string
			password string
			wantErr  error
		}{
			{"valid", testutil.AdminUsername, testutil.AdminPassword, nil},
			{"wrong password", testutil.AdminUsername, "nope", auth.ErrInvalidCredentials},
			{"unknown user", "ghost", testutil.AdminPassword, auth.ErrInvalidCredentials},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				id, err := creds.VerifyAdmin(ctx, tt.username, tt.password)
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("VerifyAdmin() error = %v, want %v", err, tt.wantErr)
				}
				if tt.wantErr == nil && id != 1 {
					t.Errorf("VerifyAdmin() id = %d, want 1", id)
				}
			})
		}
	})

	t.Run("student", func(t *testing.T) {
		tests := []struct {
			name      string
			studentID int64
			password  string
			wantErr   error
		}{
			{"valid", testutil.StudentID, testutil.StudentPassword, nil},
			{"wrong password", testutil.StudentID, "nope", auth.ErrInvalidCredentials},
			{"unknown student", 424242, testutil.StudentPassword, auth.ErrInvalidCredentials},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := creds.VerifyStudent(ctx, tt.studentID, tt.password)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("VerifyStudent() error = %v, want %v", err, tt.wantErr)
				}
			})
		}
	})
}

// testSessionStore runs the same lifecycle checks against any store
func testSessionStore(t *testing.T, sessions auth.SessionStore) {
	ctx := context.Background()

	session, err := sessions.Create(ctx, 1)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if session.Token == "" {
		t.Fatal("Create() returned empty token")
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Errorf("Create() ExpiresAt = %v, want in the future", session.ExpiresAt)
	}

	got, err := sessions.Lookup(ctx, session.Token)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got.AdminID != 1 {
		t.Errorf("Lookup() AdminID = %d, want 1", got.AdminID)
	}

	if _, err := sessions.Lookup(ctx, "missing-token"); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Errorf("Lookup(missing) error = %v, want ErrSessionNotFound", err)
	}

	if err := sessions.Delete(ctx, session.Token); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := sessions.Lookup(ctx, session.Token); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Errorf("Lookup() after Delete error = %v, want ErrSessionNotFound", err)
	}
}

func TestSQLSessions(t *testing.T) {
	conn := testutil.SetupSeededDB(t)
	testSessionStore(t, auth.NewSQLSessions(conn, time.Hour))
}

func TestSQLSessions_Expired(t *testing.T) {
	conn := testutil.SetupSeededDB(t)
	sessions := auth.NewSQLSessions(conn, -time.Minute)
	ctx := context.Background()

	session, err := sessions.Create(ctx, 1)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := sessions.Lookup(ctx, session.Token); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("Lookup() of expired session error = %v, want ErrSessionNotFound", err)
	}

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM admin_session`).Scan(&n); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if n != 0 {
		t.Errorf("expired session rows = %d, want 0", n)
	}
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantAddr string
		wantDB   int
		wantPass string
		wantErr  bool
	}{
		{"empty uses local default", "", "localhost:6379", 0, "", false},
		{"bare address", "cache:6380", "cache:6380", 0, "", false},
		{"url with db", "redis://cache:6379/2", "cache:6379", 2, "", false},
		{"url with password", "redis://:s3cret@cache:6379/0", "cache:6379", 0, "s3cret", false},
		{"tls url", "rediss://cache:6379", "cache:6379", 0, "", false},
		{"bad db number", "redis://cache:6379/notanumber", "", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := auth.RedisOptions(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RedisOptions(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if opts.Addr != tt.wantAddr || opts.DB != tt.wantDB || opts.Password != tt.wantPass {
				t.Errorf("RedisOptions(%q) = addr %q db %d password %q, want %q %d %q",
					tt.url, opts.Addr, opts.DB, opts.Password, tt.wantAddr, tt.wantDB, tt.wantPass)
			}
		})
	}
}

func TestRedisSessions(t *testing.T) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	rdb, err := auth.ConnectRedis(ctx, addr)
	if err != nil {
		t.Fatalf("ConnectRedis() error = %v", err)
	}
	defer rdb.Close()

	testSessionStore(t, auth.NewRedisSessions(rdb, time.Minute))
}
