// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/danielhkuo/student-vote/models"
)

const (
	fieldStudentID = "studentId"
	fieldPairIDs   = "organizationPairIds"
)

// Submission is a parsed, structurally valid vote request
type Submission struct {
	StudentID int64
	PairIDs   []int64
}

// ParseSubmission validates the raw request and reports all issues at once
func ParseSubmission(req models.SubmitVoteRequest) (Submission, error) {
	var sub Submission
	var issues []models.Issue

	studentID, msg := parseID(req.StudentID)
	if msg != "" {
		issues = append(issues, models.Issue{Path: fieldStudentID, Message: msg})
	}
	sub.StudentID = studentID

	pairIDs, pairIssues := parsePairIDs(req.OrganizationPairIDs)
	issues = append(issues, pairIssues...)
	sub.PairIDs = pairIDs

	if len(issues) > 0 {
		return Submission{}, &ValidationError{Issues: issues}
	}
	return sub, nil
}

// ParseStudentID parses a studentId field on its own
func ParseStudentID(raw json.RawMessage) (int64, error) {
	id, msg := parseID(raw)
	if msg != "" {
		return 0, &ValidationError{Issues: []models.Issue{{Path: fieldStudentID, Message: msg}}}
	}
	return id, nil
}

// ParseStudentIDString parses a student id taken from a URL path
func ParseStudentIDString(s string) (int64, error) {
	id, msg := parseNumericString(s)
	if msg != "" {
		return 0, &ValidationError{Issues: []models.Issue{{Path: fieldStudentID, Message: msg}}}
	}
	return id, nil
}

func parsePairIDs(raw json.RawMessage) ([]int64, []models.Issue) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, []models.Issue{{Path: fieldPairIDs, Message: "is required"}}
	}

	if trimmed[0] != '[' {
		id, msg := parseID(trimmed)
		if msg != "" {
			return nil, []models.Issue{{Path: fieldPairIDs, Message: msg}}
		}
		return []int64{id}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, []models.Issue{{Path: fieldPairIDs, Message: "must be an array of numeric ids"}}
	}
	if len(elems) == 0 {
		return nil, []models.Issue{{Path: fieldPairIDs, Message: "at least one selection is required"}}
	}

	var issues []models.Issue
	ids := make([]int64, 0, len(elems))
	seen := make(map[int64]bool, len(elems))
	for i, elem := range elems {
		path := fmt.Sprintf("%s[%d]", fieldPairIDs, i)
		id, msg := parseID(elem)
		if msg != "" {
			issues = append(issues, models.Issue{Path: path, Message: msg})
			continue
		}
		if seen[id] {
			issues = append(issues, models.Issue{Path: path, Message: fmt.Sprintf("duplicate pair id %d", id)})
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, issues
}

// parseID accepts a JSON number or a numeric string holding a positive
// integer. It returns a non-empty message when the value is invalid.
func parseID(raw json.RawMessage) (int64, string) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, "is required"
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, "must be a number or numeric string"
	}

	switch val := v.(type) {
	case json.Number:
		id, msg := parseNumericString(val.String())
		if msg != "" {
			return 0, "must be a positive integer"
		}
		return id, ""
	case string:
		return parseNumericString(val)
	default:
		return 0, "must be a number or numeric string"
	}
}

func parseNumericString(s string) (int64, string) {
	if s == "" {
		return 0, "must be a numeric string"
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, "must be a numeric string"
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, "is out of range"
	}
	if id == 0 {
		return 0, "must be a positive integer"
	}
	return id, ""
}
