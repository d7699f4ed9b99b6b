// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/student-vote/auth"
	"github.com/danielhkuo/student-vote/db"
	"github.com/danielhkuo/student-vote/hub"
	"github.com/danielhkuo/student-vote/models"
	"github.com/danielhkuo/student-vote/store"
	"github.com/danielhkuo/student-vote/testutil"
)

func newTestRouter(t *testing.T) (*http.ServeMux, *sql.DB) {
	t.Helper()

	conn := testutil.SetupSeededDB(t)
	cfg := testutil.GetTestConfig()

	liveHub := hub.New()
	ctx, cancel := context.WithCancel(context.Background())
	go liveHub.Run(ctx)
	t.Cleanup(cancel)

	mux := NewRouter(Deps{
		Repo:        store.NewSQLRepository(conn, db.SQLite),
		Credentials: auth.NewSQLCredentials(conn),
		Sessions:    auth.NewSQLSessions(conn, cfg.SessionTTL),
		Hub:         liveHub,
	})
	return mux, conn
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "student-vote API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestRouter(t)

	// 400 and 401 are valid here; only 405 means the route is missing
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"POST", "/login"},
		{"POST", "/logout"},
		{"POST", "/students/login"},
		{"GET", "/organizations"},
		{"GET", "/students/1001/vote-status"},
		{"POST", "/vote"},
		{"GET", "/results"},
		{"GET", "/results/live"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"GET", "/vote"},
		{"POST", "/results"},
		{"DELETE", "/organizations"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestUnknownPathNotFound(t *testing.T) {
	mux, _ := newTestRouter(t)

	for _, path := range []string{"/nope", "/students", "/results/archive"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Expected 404 for GET %s, got %d", path, w.Code)
			}
		})
	}
}

func TestResultsRequireAdmin(t *testing.T) {
	mux, _ := newTestRouter(t)

	for _, path := range []string{"/results", "/results/live"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest("GET", path, nil)
			req.Header.Set("Authorization", "Bearer not-a-session")
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}
}

// TestFullVotingWorkflow walks a student and an admin through the API:
// student login, vote, repeat vote, status, admin login, results, logout
func TestFullVotingWorkflow(t *testing.T) {
	mux, conn := newTestRouter(t)

	do := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w
	}

	// Step 1: student logs in and has not voted
	w := do(testutil.MakeRequest("POST", "/students/login", map[string]interface{}{
		"studentId": "1001",
		"password":  testutil.StudentPassword,
	}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var status models.VoteStatusResponse
	testutil.AssertJSON(t, w, &status)
	if status.HasVoted {
		t.Fatal("Step 1 - fresh student should not have voted")
	}

	// Step 2: student votes in both organizations
	w = do(testutil.MakeRequest("POST", "/vote", map[string]interface{}{
		"studentId":           "1001",
		"organizationPairIds": []string{"12", "21"},
	}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Step 3: a second attempt is rejected
	w = do(testutil.MakeRequest("POST", "/vote", map[string]interface{}{
		"studentId":           "1001",
		"organizationPairIds": []string{"11"},
	}, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)
	if n := testutil.CountVoteRows(t, conn, testutil.StudentID); n != 2 {
		t.Fatalf("Step 3 - expected 2 vote rows, got %d", n)
	}

	// Step 4: another student votes
	w = do(testutil.MakeRequest("POST", "/vote", map[string]interface{}{
		"studentId":           1002,
		"organizationPairIds": []int{11},
	}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Step 5: vote status reflects both organizations
	w = do(testutil.MakeRequest("GET", "/students/1001/vote-status", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &status)
	if len(status.VotedOrganizationIDs) != 2 || len(status.RemainingOrganizationIDs) != 0 {
		t.Errorf("Step 5 - unexpected status %+v", status)
	}

	// Step 6: results need an admin session
	w = do(testutil.MakeRequest("GET", "/results", nil, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	// Step 7: admin logs in
	w = do(testutil.MakeRequest("POST", "/login", models.LoginRequest{
		Username: testutil.AdminUsername,
		Password: testutil.AdminPassword,
	}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	cookies := w.Result().Cookies()
	var login models.LoginResponse
	testutil.AssertJSON(t, w, &login)
	if !login.ExpiresAt.After(time.Now()) {
		t.Errorf("Step 7 - session should expire in the future, got %v", login.ExpiresAt)
	}

	// Step 8: results with the session cookie
	req := testutil.MakeRequest("GET", "/results", nil, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = do(req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var results models.VotingResults
	testutil.AssertJSON(t, w, &results)

	council := results["Student Council"]
	if len(council) != 2 || *council[0].Percentage != 50 || *council[1].Percentage != 50 {
		t.Errorf("Step 8 - expected a 50/50 council split, got %+v", council)
	}
	club := results["Science Club"]
	if len(club) != 2 || club[0].PairID != testutil.ClubPairA || *club[0].Percentage != 100 {
		t.Errorf("Step 8 - expected pair %d to lead the club, got %+v", testutil.ClubPairA, club)
	}

	// Step 9: logout ends the session
	w = do(testutil.MakeRequest("POST", "/logout", nil, map[string]string{
		"Authorization": "Bearer " + login.Token,
	}))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = do(testutil.MakeRequest("GET", "/results", nil, map[string]string{
		"Authorization": "Bearer " + login.Token,
	}))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestRouterWithoutHub(t *testing.T) {
	conn := testutil.SetupSeededDB(t)
	cfg := testutil.GetTestConfig()

	mux := NewRouter(Deps{
		Repo:        store.NewSQLRepository(conn, db.SQLite),
		Credentials: auth.NewSQLCredentials(conn),
		Sessions:    auth.NewSQLSessions(conn, cfg.SessionTTL),
	})

	req := testutil.MakeRequest("POST", "/vote", map[string]interface{}{
		"studentId":           "1001",
		"organizationPairIds": []string{"11", "21"},
	}, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if n := testutil.CountVoteRows(t, conn, testutil.StudentID); n != 2 {
		t.Errorf("Expected 2 votes recorded, got %d", n)
	}
}
