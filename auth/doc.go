// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies credentials and manages admin sessions.

# Credentials

Admins log in with a username, students with their numeric student ID.
Both are checked against bcrypt hashes:

	creds := auth.NewSQLCredentials(db)
	adminID, err := creds.VerifyAdmin(ctx, "admin", "secret")
	err = creds.VerifyStudent(ctx, 1001, "secret")

Unknown accounts and wrong passwords both return ErrInvalidCredentials, so
callers cannot tell which one failed.

# Sessions

A successful admin login creates a session with an opaque uuid token:

	sessions := auth.NewSQLSessions(db, 12*time.Hour)
	s, err := sessions.Create(ctx, adminID)
	s, err = sessions.Lookup(ctx, token)   // ErrSessionNotFound when expired

RedisSessions implements the same SessionStore interface with Redis keys
that expire on their own:

	rdb, err := auth.ConnectRedis(ctx, "localhost:6379")
	sessions := auth.NewRedisSessions(rdb, 12*time.Hour)

# Password Hashing

	hash, err := auth.HashPassword("secret")
	err = auth.CheckPassword(hash, "secret")
*/
package auth
