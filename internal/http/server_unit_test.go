package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"campus/courses/internal/auth"
	"campus/courses/internal/config"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query     string
		skip      uint64
		limit     uint64
		expectErr bool
	}{
		{"", 0, 100, false},
		{"skip=10&limit=5", 10, 5, false},
		{"limit=1000", 0, 1000, false},
		{"skip=-1", 0, 0, true},
		{"limit=0", 0, 0, true},
		{"limit=1001", 0, 0, true},
		{"skip=abc", 0, 0, true},
		{"limit=abc", 0, 0, true},
	}
	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodGet, "/grades?"+tc.query, nil)
		skip, limit, err := parsePagination(r)
		if tc.expectErr {
			if err == nil {
				t.Errorf("%q: expected error", tc.query)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tc.query, err)
			continue
		}
		if skip != tc.skip || limit != tc.limit {
			t.Errorf("%q: got skip=%d limit=%d, want %d/%d", tc.query, skip, limit, tc.skip, tc.limit)
		}
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"Bearer  spaced ", "spaced"},
	}
	for _, tc := range tests {
		if got := bearerToken(tc.header); got != tc.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestPerformanceLevel(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		average *float64
		want    string
	}{
		{nil, "no data"},
		{f(5.0), "excellent"},
		{f(4.5), "excellent"},
		{f(4.49), "good"},
		{f(3.5), "good"},
		{f(3.49), "satisfactory"},
		{f(2.5), "satisfactory"},
		{f(2.49), "unsatisfactory"},
		{f(0), "unsatisfactory"},
	}
	for _, tc := range tests {
		if got := performanceLevel(tc.average); got != tc.want {
			t.Errorf("performanceLevel(%v) = %q, want %q", tc.average, got, tc.want)
		}
	}
}

func TestReservedPath(t *testing.T) {
	reserved := []string{"/api", "/api/v1/users", "/static/app.js", "/uploads/photos/x.png", "/docs", "/redoc", "/openapi.json"}
	for _, path := range reserved {
		if !reservedPath(path) {
			t.Errorf("expected %q to be reserved", path)
		}
	}
	open := []string{"/", "/dashboard", "/courses/1", "/apidocs", "/staticfile"}
	for _, path := range open {
		if reservedPath(path) {
			t.Errorf("expected %q not to be reserved", path)
		}
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		JWTSecret:      "test-secret",
		JWTAlgorithm:   "HS256",
		JWTIssuer:      "test-issuer",
		AccessTokenTTL: 10 * time.Minute,
		StaticDir:      t.TempDir(),
		UploadsDir:     t.TempDir(),
	}
}

func mustToken(t *testing.T, cfg config.Config, username string, userID int64, role string) string {
	t.Helper()
	token, err := auth.NewAccessToken(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTIssuer, cfg.AccessTokenTTL, username, userID, role)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return token
}

func TestAuthGuards(t *testing.T) {
	cfg := testConfig(t)
	server := NewServer(cfg, nil)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	studentToken := mustToken(t, cfg, "student1", 3, auth.RoleStudent)
	teacherToken := mustToken(t, cfg, "teacher1", 2, auth.RoleTeacher)
	rolelessToken := mustToken(t, cfg, "ghost", 4, "")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/teachers", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/teachers", "not-a-jwt", http.StatusUnauthorized},
		{"student cannot list users", http.MethodGet, "/users", studentToken, http.StatusForbidden},
		{"teacher cannot list users", http.MethodGet, "/users", teacherToken, http.StatusForbidden},
		{"student cannot create enrollment", http.MethodPost, "/enrollments", studentToken, http.StatusForbidden},
		{"student cannot delete grade", http.MethodDelete, "/grades/1", studentToken, http.StatusForbidden},
		{"unresolved role rejected", http.MethodPost, "/courses", rolelessToken, http.StatusForbidden},
	}
	for _, tc := range tests {
		req, err := http.NewRequest(tc.method, app.URL+tc.path, nil)
		if err != nil {
			t.Fatalf("%s: request error: %v", tc.name, err)
		}
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s: http error: %v", tc.name, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, resp.StatusCode)
		}
	}
}

func TestSPAFallback(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(filepath.Join(cfg.StaticDir, "index.html"), []byte("<html>app</html>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	server := NewServer(cfg, nil)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	resp, err := http.Get(app.URL + "/dashboard")
	if err != nil {
		t.Fatalf("http error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("client route: expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(app.URL + "/api/unknown")
	if err != nil {
		t.Fatalf("http error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("reserved route: expected 404, got %d", resp.StatusCode)
	}
}

func TestSPAFrontendMissing(t *testing.T) {
	cfg := testConfig(t)
	server := NewServer(cfg, nil)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	resp, err := http.Get(app.URL + "/dashboard")
	if err != nil {
		t.Fatalf("http error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 without index.html, got %d", resp.StatusCode)
	}
}

func TestCreateEnrollmentRejectsGradeField(t *testing.T) {
	cfg := testConfig(t)
	server := NewServer(cfg, nil)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	// Final grades are assigned via PUT /enrollments only; the create body
	// must not smuggle one in. Rejection happens at decode time, before the
	// store is touched.
	teacherToken := mustToken(t, cfg, "teacher1", 2, auth.RoleTeacher)
	body := strings.NewReader(`{"student_id": 1, "course_id": 1, "grade": 5}`)
	req, err := http.NewRequest(http.MethodPost, app.URL+"/enrollments", body)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+teacherToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for grade in create body, got %d", resp.StatusCode)
	}
}
