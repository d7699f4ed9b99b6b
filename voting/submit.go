// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/student-vote/models"
	"github.com/danielhkuo/student-vote/store"
)

// Notifier is told about votes after they are committed
type Notifier interface {
	VotesRecorded(ctx context.Context, votes []models.Vote) error
}

// Submitter records one vote per selected pair for a student
type Submitter struct {
	repo      store.Repository
	notifiers []Notifier
}

func NewSubmitter(repo store.Repository, notifiers ...Notifier) *Submitter {
	return &Submitter{repo: repo, notifiers: notifiers}
}

// Submit writes all selections of sub in a single transaction.
// Unknown pairs and two selections in one organization are validation
// errors; an organization the student already voted in yields
// *AlreadyVotedError. Nothing is written unless every selection is accepted.
func (s *Submitter) Submit(ctx context.Context, sub Submission) ([]models.Vote, error) {
	if sub.StudentID <= 0 {
		return nil, &ValidationError{Issues: []models.Issue{{Path: fieldStudentID, Message: "must be a positive integer"}}}
	}
	if len(sub.PairIDs) == 0 {
		return nil, &ValidationError{Issues: []models.Issue{{Path: fieldPairIDs, Message: "at least one selection is required"}}}
	}

	var recorded []models.Vote
	err := s.repo.InTx(ctx, func(tx store.Tx) error {
		// InTx may retry; start from a clean slate each attempt
		recorded = recorded[:0]

		pairs, err := s.checkSelections(ctx, tx, sub)
		if err != nil {
			return err
		}

		for _, pair := range pairs {
			v, err := tx.InsertVote(ctx, sub.StudentID, pair)
			if errors.Is(err, store.ErrDuplicateVote) {
				return &AlreadyVotedError{StudentID: sub.StudentID, OrganizationIDs: []int64{pair.OrganizationID}}
			}
			if err != nil {
				return err
			}
			recorded = append(recorded, v)
		}
		return nil
	})

	if err != nil {
		var validationErr *ValidationError
		var votedErr *AlreadyVotedError
		if errors.As(err, &validationErr) || errors.As(err, &votedErr) {
			return nil, err
		}
		return nil, &StorageError{Op: "submit vote", Err: err}
	}

	slog.Info("votes recorded", "student_id", sub.StudentID, "count", len(recorded))

	for _, n := range s.notifiers {
		if err := n.VotesRecorded(ctx, recorded); err != nil {
			// Non-fatal: the votes are committed
			slog.Warn("vote notifier failed", "error", err, "student_id", sub.StudentID)
		}
	}

	return recorded, nil
}

// checkSelections resolves every pair and applies the one-vote-per-organization
// rule against both the submission itself and previously stored votes
func (s *Submitter) checkSelections(ctx context.Context, tx store.Tx, sub Submission) ([]models.Pair, error) {
	existing, err := tx.FindVotesByStudent(ctx, sub.StudentID)
	if err != nil {
		return nil, err
	}
	voted := make(map[int64]bool, len(existing))
	for _, v := range existing {
		voted[v.OrganizationID] = true
	}

	var issues []models.Issue
	var conflicts []int64
	pairs := make([]models.Pair, 0, len(sub.PairIDs))
	selected := make(map[int64]int64)

	for i, pairID := range sub.PairIDs {
		path := selectionPath(i, len(sub.PairIDs))

		pair, err := tx.FindPair(ctx, pairID)
		if errors.Is(err, store.ErrNotFound) {
			issues = append(issues, models.Issue{Path: path, Message: fmt.Sprintf("unknown pair id %d", pairID)})
			continue
		}
		if err != nil {
			return nil, err
		}

		if other, ok := selected[pair.OrganizationID]; ok {
			issues = append(issues, models.Issue{
				Path:    path,
				Message: fmt.Sprintf("pair %d and pair %d are both in organization %d", other, pairID, pair.OrganizationID),
			})
			continue
		}
		selected[pair.OrganizationID] = pairID

		if voted[pair.OrganizationID] {
			conflicts = append(conflicts, pair.OrganizationID)
			continue
		}
		pairs = append(pairs, pair)
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	if len(conflicts) > 0 {
		return nil, &AlreadyVotedError{StudentID: sub.StudentID, OrganizationIDs: conflicts}
	}
	return pairs, nil
}

func selectionPath(i, n int) string {
	if n == 1 {
		return fieldPairIDs
	}
	return fmt.Sprintf("%s[%d]", fieldPairIDs, i)
}
