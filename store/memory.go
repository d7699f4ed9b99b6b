// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sync"

	"github.com/danielhkuo/student-vote/models"
)

// Memory is an in-process Repository. Transactions are serialized by a
// single mutex, which makes them trivially serializable.
type Memory struct {
	mu     sync.Mutex
	orgs   []models.Organization
	pairs  map[int64]models.Pair
	votes  []models.Vote
	nextID int64
}

func NewMemory(orgs []models.Organization) *Memory {
	m := &Memory{
		orgs:   orgs,
		pairs:  make(map[int64]models.Pair),
		nextID: 1,
	}
	for i := range orgs {
		for j := range orgs[i].Pairs {
			orgs[i].Pairs[j].OrganizationID = orgs[i].ID
			m.pairs[orgs[i].Pairs[j].ID] = orgs[i].Pairs[j]
		}
	}
	return m
}

// Votes returns a copy of all stored votes
func (m *Memory) Votes() []models.Vote {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Vote(nil), m.votes...)
}

func (m *Memory) FindVotesByStudent(ctx context.Context, studentID int64) ([]models.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return votesByStudent(m.votes, studentID), nil
}

func (m *Memory) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Organization{}, m.orgs...), nil
}

func (m *Memory) CountVotes(ctx context.Context) ([]models.PairVoteCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	counts := []models.PairVoteCount{}
	index := make(map[int64]int)
	for _, v := range m.votes {
		i, ok := index[v.PairID]
		if !ok {
			i = len(counts)
			index[v.PairID] = i
			counts = append(counts, models.PairVoteCount{OrganizationID: v.OrganizationID, PairID: v.PairID})
		}
		counts[i].Count++
	}
	return counts, nil
}

func (m *Memory) InTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{m: m, nextID: m.nextID}
	if err := fn(tx); err != nil {
		return err
	}

	m.votes = append(m.votes, tx.pending...)
	m.nextID = tx.nextID
	return nil
}

// memoryTx stages inserts until InTx commits them; it runs under m.mu
type memoryTx struct {
	m       *Memory
	pending []models.Vote
	nextID  int64
}

func (t *memoryTx) FindVotesByStudent(ctx context.Context, studentID int64) ([]models.Vote, error) {
	votes := votesByStudent(t.m.votes, studentID)
	return append(votes, votesByStudent(t.pending, studentID)...), nil
}

func (t *memoryTx) FindPair(ctx context.Context, pairID int64) (models.Pair, error) {
	p, ok := t.m.pairs[pairID]
	if !ok {
		return models.Pair{}, ErrNotFound
	}
	return p, nil
}

func (t *memoryTx) InsertVote(ctx context.Context, studentID int64, pair models.Pair) (models.Vote, error) {
	existing, _ := t.FindVotesByStudent(ctx, studentID)
	for _, v := range existing {
		if v.OrganizationID == pair.OrganizationID {
			return models.Vote{}, ErrDuplicateVote
		}
	}

	v := models.Vote{
		ID:             t.nextID,
		StudentID:      studentID,
		OrganizationID: pair.OrganizationID,
		PairID:         pair.ID,
	}
	t.nextID++
	t.pending = append(t.pending, v)
	return v, nil
}

func votesByStudent(votes []models.Vote, studentID int64) []models.Vote {
	out := []models.Vote{}
	for _, v := range votes {
		if v.StudentID == studentID {
			out = append(out, v)
		}
	}
	return out
}
