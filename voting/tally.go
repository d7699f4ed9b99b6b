// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"sort"
	"strings"

	"github.com/danielhkuo/student-vote/models"
	"github.com/danielhkuo/student-vote/store"
)

// Tallier turns stored votes into per-pair percentages
type Tallier struct {
	repo store.Reader
}

func NewTallier(repo store.Reader) *Tallier {
	return &Tallier{repo: repo}
}

// Tally recomputes results from the full vote table
func (t *Tallier) Tally(ctx context.Context) (models.VotingResults, error) {
	orgs, err := t.repo.ListOrganizations(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list organizations", Err: err}
	}

	counts, err := t.repo.CountVotes(ctx)
	if err != nil {
		return nil, &StorageError{Op: "count votes", Err: err}
	}

	byPair := make(map[int64]int, len(counts))
	for _, c := range counts {
		byPair[c.PairID] += c.Count
	}

	results := make(models.VotingResults, len(orgs))
	for _, org := range orgs {
		results[org.Name] = TallyOrganization(org, byPair)
	}
	return results, nil
}

// TallyOrganization computes the sorted results for one organization given
// vote counts keyed by pair id
func TallyOrganization(org models.Organization, byPair map[int64]int) []models.VotingResult {
	total := 0
	for _, p := range org.Pairs {
		total += byPair[p.ID]
	}

	results := make([]models.VotingResult, 0, len(org.Pairs))
	for _, p := range org.Pairs {
		r := models.VotingResult{
			Name:           PairName(p),
			OrganizationID: org.ID,
			PairID:         p.ID,
			VoteCount:      byPair[p.ID],
			TotalVoteCount: total,
			ImageFileName:  pairImage(p),
		}
		if total > 0 {
			pct := Percentage(r.VoteCount, total)
			r.Percentage = &pct
		}
		results = append(results, r)
	}

	sortResults(results)
	return results
}

// Percentage returns 100*count/total capped at 100. total must be positive.
func Percentage(count, total int) float64 {
	pct := 100 * float64(count) / float64(total)
	if pct > 100 {
		return 100
	}
	return pct
}

// sortResults orders by descending percentage, keeping pair order on ties
func sortResults(results []models.VotingResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return pctOrZero(results[i]) > pctOrZero(results[j])
	})
}

func pctOrZero(r models.VotingResult) float64 {
	if r.Percentage == nil {
		return 0
	}
	return *r.Percentage
}

// PairName joins member nicknames, chairman first
func PairName(p models.Pair) string {
	names := make([]string, 0, len(p.Members))
	for _, m := range orderedMembers(p.Members) {
		names = append(names, m.Nickname)
	}
	return strings.Join(names, " & ")
}

// pairImage prefers the chairman's image
func pairImage(p models.Pair) *string {
	for _, m := range orderedMembers(p.Members) {
		if m.ImageFileName != nil {
			return m.ImageFileName
		}
	}
	return nil
}

func orderedMembers(members []models.OrganizationMember) []models.OrganizationMember {
	out := append([]models.OrganizationMember(nil), members...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Role == models.RoleChairman && out[j].Role != models.RoleChairman
	})
	return out
}
