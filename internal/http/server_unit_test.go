package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"coursehub/internal/auth"
	"coursehub/internal/config"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		JWTSecret:      "test-secret",
		JWTIssuer:      "coursehub-test",
		AccessTokenTTL: time.Minute,
	}
	// No store: these tests exercise only paths that return before storage.
	return NewServer(cfg, nil, nil)
}

func testToken(t *testing.T, s *Server, isAdmin bool) string {
	t.Helper()
	token, err := auth.NewAccessToken(s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.Claims{
		AccountID: 1,
		Name:      "Test Admin",
		Email:     "admin@example.com",
		IsAdmin:   isAdmin,
	})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

func doRequest(s *Server, method, target, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestOptionsPreflight(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, http.MethodOptions, "/api/assignments", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "DELETE") {
		t.Fatalf("allow-methods = %q", got)
	}
}

func TestAccountsRequiresPrincipal(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, http.MethodGet, "/api/accounts", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["success"] != false || env["message"] != "Not authenticated" {
		t.Fatalf("envelope = %v", env)
	}
}

func TestAccountsRejectsNonAdmin(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, http.MethodGet, "/api/accounts", testToken(t, s, false), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env["message"] != "Admin access required" {
		t.Fatalf("envelope = %v", env)
	}
}

func TestAccountsRejectsGarbageToken(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, http.MethodGet, "/api/accounts", "not.a.jwt", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAccountsVerify(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, http.MethodGet, "/api/accounts?verify", testToken(t, s, true), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("envelope = %v", env)
	}
	if data["email"] != "admin@example.com" || data["is_admin"] != true {
		t.Fatalf("data = %v", data)
	}
	if _, present := data["password"]; present {
		t.Fatalf("password leaked in verify response")
	}
}

func TestAccountsMethodNotAllowed(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, http.MethodPatch, "/api/accounts", testToken(t, s, true), "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestDiscussionRequiresResource(t *testing.T) {
	s := testServer(t)
	for _, target := range []string{"/api/discussion", "/api/discussion?resource=threads"} {
		rec := doRequest(s, http.MethodGet, target, "", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestUnknownResourceRejected(t *testing.T) {
	s := testServer(t)
	for _, target := range []string{"/api/assignments?resource=grades", "/api/weekly?resource=lectures"} {
		rec := doRequest(s, http.MethodGet, target, "", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestCreateAssignmentValidation(t *testing.T) {
	s := testServer(t)

	rec := doRequest(s, http.MethodPost, "/api/assignments", "", `{"title":"Lab 1","description":"Intro"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing due_date: status = %d, want 400", rec.Code)
	}

	rec = doRequest(s, http.MethodPost, "/api/assignments", "",
		`{"title":"Lab 1","description":"Intro","due_date":"2024-02-30"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("overflow date: status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if msg, _ := env["message"].(string); !strings.Contains(msg, "due_date") {
		t.Fatalf("message = %v", env["message"])
	}

	rec = doRequest(s, http.MethodPost, "/api/assignments", "", `{"title":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status = %d, want 400", rec.Code)
	}
}

func TestCreateWeekValidation(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, http.MethodPost, "/api/weekly", "",
		`{"week_id":"week_1","title":"Week 1","start_date":"2024-2-5","description":"Basics"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateWeekRequiresKey(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, http.MethodPut, "/api/weekly", "", `{"title":"New title"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLogoutRequiresToken(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, http.MethodPost, "/api/auth/logout", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLogoutWithoutRedisSucceeds(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, http.MethodPost, "/api/auth/logout", testToken(t, s, false), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s := testServer(t)
	rec := doRequest(s, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAccountsRevocationCheckFailureIsServerError(t *testing.T) {
	s := testServer(t)
	// Nothing listens here, so the revocation lookup itself fails. That is an
	// infrastructure fault, not a missing token.
	s.redis = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	rec := doRequest(s, http.MethodGet, "/api/accounts?verify", testToken(t, s, true), "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env["message"] == "Not authenticated" {
		t.Fatalf("infrastructure failure reported as auth failure")
	}
}
