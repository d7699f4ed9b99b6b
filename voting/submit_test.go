// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/danielhkuo/student-vote/db"
	"github.com/danielhkuo/student-vote/models"
	"github.com/danielhkuo/student-vote/store"
	"github.com/danielhkuo/student-vote/testutil"
)

// recordingNotifier remembers every batch it was told about
type recordingNotifier struct {
	mu      sync.Mutex
	batches [][]models.Vote
	err     error
}

func (n *recordingNotifier) VotesRecorded(ctx context.Context, votes []models.Vote) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.batches = append(n.batches, votes)
	return n.err
}

// failingRepo wraps a Repository and fails the Nth InsertVote inside a transaction
type failingRepo struct {
	store.Repository
	failOn int
}

func (r *failingRepo) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return r.Repository.InTx(ctx, func(tx store.Tx) error {
		return fn(&failingTx{Tx: tx, failOn: r.failOn})
	})
}

type failingTx struct {
	store.Tx
	failOn  int
	inserts int
}

func (t *failingTx) InsertVote(ctx context.Context, studentID int64, pair models.Pair) (models.Vote, error) {
	t.inserts++
	if t.inserts == t.failOn {
		return models.Vote{}, errors.New("disk full")
	}
	return t.Tx.InsertVote(ctx, studentID, pair)
}

func TestSubmit_RecordsOneVotePerSelection(t *testing.T) {
	repo := store.NewMemory(testutil.Organizations())
	notifier := &recordingNotifier{}
	s := NewSubmitter(repo, notifier)

	votes, err := s.Submit(context.Background(), Submission{
		StudentID: testutil.StudentID,
		PairIDs:   []int64{testutil.CouncilPairA, testutil.ClubPairB},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if len(votes) != 2 {
		t.Fatalf("Submit() recorded %d votes, want 2", len(votes))
	}
	if votes[0].OrganizationID != testutil.CouncilOrgID || votes[1].OrganizationID != testutil.ClubOrgID {
		t.Errorf("votes carry wrong organizations: %+v", votes)
	}
	if got := len(repo.Votes()); got != 2 {
		t.Errorf("stored votes = %d, want 2", got)
	}

	if len(notifier.batches) != 1 || !reflect.DeepEqual(notifier.batches[0], votes) {
		t.Errorf("notifier batches = %+v, want one batch equal to recorded votes", notifier.batches)
	}
}

func TestSubmit_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		prior     []int64
		pairIDs   []int64
		wantVoted []int64
		wantPaths []string
	}{
		{
			name:      "already voted",
			prior:     []int64{testutil.CouncilPairA},
			pairIDs:   []int64{testutil.CouncilPairB},
			wantVoted: []int64{testutil.CouncilOrgID},
		},
		{
			name:      "already voted in one of two",
			prior:     []int64{testutil.CouncilPairA},
			pairIDs:   []int64{testutil.ClubPairA, testutil.CouncilPairA},
			wantVoted: []int64{testutil.CouncilOrgID},
		},
		{
			name:      "unknown pair",
			pairIDs:   []int64{testutil.CouncilPairA, 999},
			wantPaths: []string{"organizationPairIds[1]"},
		},
		{
			name:      "two pairs in one organization",
			pairIDs:   []int64{testutil.CouncilPairA, testutil.CouncilPairB},
			wantPaths: []string{"organizationPairIds[1]"},
		},
		{
			name:      "single unknown pair",
			pairIDs:   []int64{999},
			wantPaths: []string{"organizationPairIds"},
		},
		{
			name:      "no selections",
			pairIDs:   nil,
			wantPaths: []string{"organizationPairIds"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := store.NewMemory(testutil.Organizations())
			notifier := &recordingNotifier{}
			s := NewSubmitter(repo, notifier)
			ctx := context.Background()

			if len(tt.prior) > 0 {
				if _, err := s.Submit(ctx, Submission{StudentID: testutil.StudentID, PairIDs: tt.prior}); err != nil {
					t.Fatalf("prior Submit() error = %v", err)
				}
			}
			before := len(repo.Votes())
			batchesBefore := len(notifier.batches)

			_, err := s.Submit(ctx, Submission{StudentID: testutil.StudentID, PairIDs: tt.pairIDs})

			if tt.wantVoted != nil {
				var votedErr *AlreadyVotedError
				if !errors.As(err, &votedErr) {
					t.Fatalf("Submit() error = %v, want *AlreadyVotedError", err)
				}
				if !reflect.DeepEqual(votedErr.OrganizationIDs, tt.wantVoted) {
					t.Errorf("OrganizationIDs = %v, want %v", votedErr.OrganizationIDs, tt.wantVoted)
				}
			} else {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("Submit() error = %v, want *ValidationError", err)
				}
				var paths []string
				for _, issue := range validationErr.Issues {
					paths = append(paths, issue.Path)
				}
				if !reflect.DeepEqual(paths, tt.wantPaths) {
					t.Errorf("issue paths = %v, want %v", paths, tt.wantPaths)
				}
			}

			if after := len(repo.Votes()); after != before {
				t.Errorf("rejected submission changed vote count from %d to %d", before, after)
			}
			if len(notifier.batches) != batchesBefore {
				t.Error("notifier should not run for a rejected submission")
			}
		})
	}
}

func TestSubmit_StorageFailureRollsBack(t *testing.T) {
	for _, name := range []string{"memory", "sqlite"} {
		t.Run(name, func(t *testing.T) {
			var base store.Repository
			if name == "memory" {
				base = store.NewMemory(testutil.Organizations())
			} else {
				base = store.NewSQLRepository(testutil.SetupSeededDB(t), db.SQLite)
			}
			notifier := &recordingNotifier{}
			s := NewSubmitter(&failingRepo{Repository: base, failOn: 2}, notifier)
			ctx := context.Background()

			_, err := s.Submit(ctx, Submission{
				StudentID: testutil.StudentID,
				PairIDs:   []int64{testutil.CouncilPairA, testutil.ClubPairA},
			})

			var storageErr *StorageError
			if !errors.As(err, &storageErr) {
				t.Fatalf("Submit() error = %v, want *StorageError", err)
			}

			votes, err := base.FindVotesByStudent(ctx, testutil.StudentID)
			if err != nil {
				t.Fatalf("FindVotesByStudent() error = %v", err)
			}
			if len(votes) != 0 {
				t.Errorf("found %d votes after failed submission, want 0", len(votes))
			}
			if len(notifier.batches) != 0 {
				t.Error("notifier should not run when the transaction fails")
			}
		})
	}
}

func TestSubmit_NotifierFailureIsNotFatal(t *testing.T) {
	repo := store.NewMemory(testutil.Organizations())
	failing := &recordingNotifier{err: errors.New("broker down")}
	after := &recordingNotifier{}
	s := NewSubmitter(repo, failing, after)

	votes, err := s.Submit(context.Background(), Submission{
		StudentID: testutil.StudentID,
		PairIDs:   []int64{testutil.ClubPairA},
	})
	if err != nil {
		t.Fatalf("Submit() error = %v, want nil despite notifier failure", err)
	}
	if len(votes) != 1 {
		t.Errorf("recorded %d votes, want 1", len(votes))
	}
	if len(after.batches) != 1 {
		t.Error("later notifiers should still run after an earlier one fails")
	}
}

func TestSubmit_ConcurrentSameStudent(t *testing.T) {
	conn := testutil.SetupSeededDB(t)
	repo := store.NewSQLRepository(conn, db.SQLite)
	s := NewSubmitter(repo)
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Submit(ctx, Submission{
				StudentID: testutil.StudentID,
				PairIDs:   []int64{testutil.CouncilPairA, testutil.ClubPairB},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		var votedErr *AlreadyVotedError
		switch {
		case err == nil:
			succeeded++
		case errors.As(err, &votedErr):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("%d submissions succeeded, want exactly 1", succeeded)
	}
	if n := testutil.CountVoteRows(t, conn, testutil.StudentID); n != 2 {
		t.Errorf("student has %d vote rows, want 2", n)
	}
}
