// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/student-vote/models"
)

// ValidationError lists every problem found in a submission
type ValidationError struct {
	Issues []models.Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.Path + ": " + issue.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AlreadyVotedError rejects a submission touching an organization the
// student has already voted in
type AlreadyVotedError struct {
	StudentID       int64
	OrganizationIDs []int64
}

func (e *AlreadyVotedError) Error() string {
	return fmt.Sprintf("student %d already voted in organization(s) %v", e.StudentID, e.OrganizationIDs)
}

// StorageError wraps repository failures. Its detail is for logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
