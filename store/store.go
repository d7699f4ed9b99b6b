// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"

	"github.com/danielhkuo/student-vote/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateVote = errors.New("student already voted in this organization")
)

// Reader exposes the read side used by the tally and reference endpoints
type Reader interface {
	FindVotesByStudent(ctx context.Context, studentID int64) ([]models.Vote, error)
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
	CountVotes(ctx context.Context) ([]models.PairVoteCount, error)
}

// Tx is the write side of one atomic submission
type Tx interface {
	FindVotesByStudent(ctx context.Context, studentID int64) ([]models.Vote, error)
	// FindPair returns ErrNotFound for unknown pair ids
	FindPair(ctx context.Context, pairID int64) (models.Pair, error)
	// InsertVote returns ErrDuplicateVote when the student already has a vote
	// in the pair's organization
	InsertVote(ctx context.Context, studentID int64, pair models.Pair) (models.Vote, error)
}

// Repository is the vote store consumed by the voting services
type Repository interface {
	Reader
	// InTx runs fn atomically. If fn returns an error nothing it wrote is kept.
	InTx(ctx context.Context, fn func(tx Tx) error) error
}
