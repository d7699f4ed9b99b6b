// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/student-vote/cliparse"
	"github.com/danielhkuo/student-vote/db"
	"github.com/danielhkuo/student-vote/models"
)

// Fixture ids used across tests
const (
	CouncilOrgID = 1
	ClubOrgID    = 2

	CouncilPairA = 11
	CouncilPairB = 12
	ClubPairA    = 21
	ClubPairB    = 22

	AdminUsername = "admin"
	AdminPassword = "admin-password"

	StudentID       = 1001
	StudentPassword = "student-password"
	OtherStudentID  = 1002
)

func strPtr(s string) *string { return &s }

// TestSeed returns two organizations with two pairs each, one admin and two
// students
func TestSeed() db.SeedData {
	return db.SeedData{
		Organizations: []db.SeedOrganization{
			{
				ID:   CouncilOrgID,
				Name: "Student Council",
				Pairs: []db.SeedPair{
					{ID: CouncilPairA, Members: []db.SeedMember{
						{ID: 111, Nickname: "Alice", FullName: strPtr("Alice Anderson"), Role: models.RoleChairman, ImageFileName: strPtr("alice.png")},
						{ID: 112, Nickname: "Bob", Role: models.RoleViceChairman},
					}},
					{ID: CouncilPairB, Members: []db.SeedMember{
						{ID: 122, Nickname: "Dave", Role: models.RoleViceChairman, ImageFileName: strPtr("dave.png")},
						{ID: 121, Nickname: "Carol", Role: models.RoleChairman},
					}},
				},
			},
			{
				ID:   ClubOrgID,
				Name: "Science Club",
				Pairs: []db.SeedPair{
					{ID: ClubPairA, Members: []db.SeedMember{
						{ID: 211, Nickname: "Erin", Role: models.RoleChairman},
					}},
					{ID: ClubPairB, Members: []db.SeedMember{
						{ID: 221, Nickname: "Frank", Role: models.RoleChairman},
						{ID: 222, Nickname: "Grace", Role: models.RoleViceChairman},
					}},
				},
			},
		},
		Admins: []db.SeedAdmin{
			{ID: 1, Username: AdminUsername, Password: AdminPassword},
		},
		Students: []db.SeedStudent{
			{ID: StudentID, Password: StudentPassword},
			{ID: OtherStudentID, Password: StudentPassword},
		},
	}
}

// Organizations converts the test seed into domain models with members
// ordered chairman first, as the SQL repository returns them
func Organizations() []models.Organization {
	var orgs []models.Organization
	for _, so := range TestSeed().Organizations {
		org := models.Organization{ID: so.ID, Name: so.Name, Pairs: []models.Pair{}}
		for _, sp := range so.Pairs {
			pair := models.Pair{ID: sp.ID, OrganizationID: so.ID}
			for _, role := range []string{models.RoleChairman, models.RoleViceChairman} {
				for _, sm := range sp.Members {
					if sm.Role != role {
						continue
					}
					pair.Members = append(pair.Members, models.OrganizationMember{
						ID:             sm.ID,
						OrganizationID: so.ID,
						PairID:         sp.ID,
						Nickname:       sm.Nickname,
						FullName:       sm.FullName,
						Role:           sm.Role,
						ImageFileName:  sm.ImageFileName,
					})
				}
			}
			org.Pairs = append(org.Pairs, pair)
		}
		orgs = append(orgs, org)
	}
	return orgs
}

// SetupTestDB creates a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every connection to :memory: is a separate database
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupSeededDB creates a test database loaded with TestSeed
func SetupSeededDB(t *testing.T) *sql.DB {
	t.Helper()

	conn := SetupTestDB(t)
	if err := db.Seed(context.Background(), conn, TestSeed()); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		SessionStore: cliparse.SessionStoreSQL,
		SessionTTL:   time.Hour,
		AMQPQueue:    "votes",
	}
}

// InsertTestVote writes a vote row directly
func InsertTestVote(t *testing.T, conn *sql.DB, studentID, organizationID, pairID int64) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote (student_id, organization_id, pair_id)
		VALUES ($1, $2, $3)
	`, studentID, organizationID, pairID)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// CountVoteRows returns the number of vote rows, optionally for one student
func CountVoteRows(t *testing.T, conn *sql.DB, studentID int64) int {
	t.Helper()

	var n int
	var err error
	if studentID == 0 {
		err = conn.QueryRow(`SELECT COUNT(*) FROM vote`).Scan(&n)
	} else {
		err = conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE student_id = $1`, studentID).Scan(&n)
	}
	if err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var jsonBody []byte
		if raw, ok := body.(string); ok {
			jsonBody = []byte(raw)
		} else {
			jsonBody, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
