// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists votes and reads organization reference data.

# Repository

Repository is the only storage dependency of the voting services:

	repo := store.NewSQLRepository(conn, db.Postgres)
	orgs, err := repo.ListOrganizations(ctx)
	counts, err := repo.CountVotes(ctx)

Writes happen inside InTx so one submission is all-or-nothing:

	err := repo.InTx(ctx, func(tx store.Tx) error {
		pair, err := tx.FindPair(ctx, pairID)
		...
		_, err = tx.InsertVote(ctx, studentID, pair)
		return err
	})

# Uniqueness

The vote table carries UNIQUE (student_id, organization_id). InsertVote
translates a violation into ErrDuplicateVote, which closes the race between
two submissions that both passed the read-side check. On postgres the
transaction runs at SERIALIZABLE and is retried on SQLSTATE 40001.

# Test Double

Memory implements Repository in-process for service tests:

	repo := store.NewMemory(orgs)
*/
package store
