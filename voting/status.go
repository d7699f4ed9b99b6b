// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"

	"github.com/danielhkuo/student-vote/models"
	"github.com/danielhkuo/student-vote/store"
)

// VoteStatus reports which organizations a student has and has not voted in
func VoteStatus(ctx context.Context, repo store.Reader, studentID int64) (models.VoteStatusResponse, error) {
	votes, err := repo.FindVotesByStudent(ctx, studentID)
	if err != nil {
		return models.VoteStatusResponse{}, &StorageError{Op: "find votes", Err: err}
	}

	orgs, err := repo.ListOrganizations(ctx)
	if err != nil {
		return models.VoteStatusResponse{}, &StorageError{Op: "list organizations", Err: err}
	}

	voted := make(map[int64]bool, len(votes))
	status := models.VoteStatusResponse{
		StudentID:                studentID,
		VotedOrganizationIDs:     []int64{},
		RemainingOrganizationIDs: []int64{},
	}
	for _, v := range votes {
		if !voted[v.OrganizationID] {
			voted[v.OrganizationID] = true
			status.VotedOrganizationIDs = append(status.VotedOrganizationIDs, v.OrganizationID)
		}
	}
	for _, org := range orgs {
		if !voted[org.ID] {
			status.RemainingOrganizationIDs = append(status.RemainingOrganizationIDs, org.ID)
		}
	}
	status.HasVoted = len(status.VotedOrganizationIDs) > 0

	return status, nil
}
