package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"campus/courses/internal/auth"
	"campus/courses/internal/db"
	"campus/courses/internal/repository"
)

func openTestDB(t *testing.T) *pgxpool.Pool {
	url := os.Getenv("COURSES_TEST_DB")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		t.Skip("COURSES_TEST_DB or DATABASE_URL not set")
		return nil
	}
	pool, err := db.NewPool(context.Background(), url)
	if err != nil {
		t.Skipf("db unavailable: %v", err)
		return nil
	}
	return pool
}

func doReq(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode error: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http error: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
}

func TestCourseLifecycle(t *testing.T) {
	pool := openTestDB(t)
	if pool == nil {
		return
	}
	defer pool.Close()

	link, err := repository.ResolveProfileLink(context.Background(), pool, "auto")
	if err != nil {
		t.Fatalf("profile link probe: %v", err)
	}

	cfg := testConfig(t)
	store := repository.NewStore(pool, link)
	server := NewServer(cfg, store)
	app := httptest.NewServer(server.Router())
	defer app.Close()

	adminToken := mustToken(t, cfg, "it-admin", 1, auth.RoleAdmin)
	stamp := time.Now().Format("150405.000000")

	// Register a teacher account with its profile in one call.
	teacherBody := map[string]interface{}{
		"username":      "it-teacher-" + stamp,
		"email":         "it-teacher-" + stamp + "@example.local",
		"password":      "dev-password",
		"role_id":       2,
		"first_name":    "Anna",
		"last_name":     "Petrova",
		"qualification": "PhD",
	}
	resp := doReq(t, http.MethodPost, app.URL+"/teachers", adminToken, teacherBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create teacher: expected 201, got %d", resp.StatusCode)
	}
	var teacher struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, resp, &teacher)

	// Creating the same username again is rejected.
	resp = doReq(t, http.MethodPost, app.URL+"/teachers", adminToken, teacherBody)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate teacher: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The new course echoes its teacher.
	courseBody := map[string]interface{}{
		"title":       "Databases " + stamp,
		"description": "intro course",
		"duration":    36,
		"teacher_id":  teacher.ID,
	}
	resp = doReq(t, http.MethodPost, app.URL+"/courses", adminToken, courseBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create course: expected 201, got %d", resp.StatusCode)
	}
	var course struct {
		ID        int64 `json:"id"`
		TeacherID int64 `json:"teacher_id"`
	}
	decodeBody(t, resp, &course)
	if course.TeacherID != teacher.ID {
		t.Fatalf("course teacher_id = %d, want %d", course.TeacherID, teacher.ID)
	}

	// Enrolling an unknown student names the missing reference.
	resp = doReq(t, http.MethodPost, app.URL+"/enrollments", adminToken, map[string]interface{}{
		"student_id": 99999999,
		"course_id":  course.ID,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("enroll unknown student: expected 400, got %d", resp.StatusCode)
	}
	var enrollErr struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &enrollErr)
	if enrollErr.Error != "student does not exist" {
		t.Fatalf("enroll error = %q, want %q", enrollErr.Error, "student does not exist")
	}

	studentBody := map[string]interface{}{
		"username":     "it-student-" + stamp,
		"email":        "it-student-" + stamp + "@example.local",
		"password":     "dev-password",
		"role_id":      3,
		"first_name":   "Ivan",
		"last_name":    "Sidorov",
		"group_number": "CS-201",
	}
	resp = doReq(t, http.MethodPost, app.URL+"/students", adminToken, studentBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create student: expected 201, got %d", resp.StatusCode)
	}
	var student struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, resp, &student)

	resp = doReq(t, http.MethodPost, app.URL+"/enrollments", adminToken, map[string]interface{}{
		"student_id":      student.ID,
		"course_id":       course.ID,
		"enrollment_date": "2026-09-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("enroll student: expected 201, got %d", resp.StatusCode)
	}
	var enrollment struct {
		EnrollmentDate string `json:"enrollment_date"`
	}
	decodeBody(t, resp, &enrollment)
	if enrollment.EnrollmentDate != "2026-09-01" {
		t.Fatalf("enrollment_date = %q, want %q", enrollment.EnrollmentDate, "2026-09-01")
	}

	// Enrolling the same pair again fails and leaves the original row alone.
	resp = doReq(t, http.MethodPost, app.URL+"/enrollments", adminToken, map[string]interface{}{
		"student_id": student.ID,
		"course_id":  course.ID,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate enrollment: expected 400, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &enrollErr)
	if enrollErr.Error != "student is already enrolled in this course" {
		t.Fatalf("duplicate error = %q", enrollErr.Error)
	}
	resp = doReq(t, http.MethodGet,
		fmt.Sprintf("%s/enrollments?student_id=%d&course_id=%d", app.URL, student.ID, course.ID), adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list enrollments: expected 200, got %d", resp.StatusCode)
	}
	var enrollments []struct {
		EnrollmentDate string `json:"enrollment_date"`
	}
	decodeBody(t, resp, &enrollments)
	if len(enrollments) != 1 || enrollments[0].EnrollmentDate != "2026-09-01" {
		t.Fatalf("after duplicate: enrollments = %+v", enrollments)
	}

	// A partial update touches only the named field.
	resp = doReq(t, http.MethodPatch, fmt.Sprintf("%s/students/%d", app.URL, student.ID), adminToken,
		map[string]interface{}{"group_number": "CS-202"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch student: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
	resp = doReq(t, http.MethodGet, fmt.Sprintf("%s/students/%d", app.URL, student.ID), adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get student: expected 200, got %d", resp.StatusCode)
	}
	var patched struct {
		FirstName   string `json:"first_name"`
		GroupNumber string `json:"group_number"`
		Email       string `json:"email"`
	}
	decodeBody(t, resp, &patched)
	if patched.GroupNumber != "CS-202" {
		t.Fatalf("group_number = %q, want CS-202", patched.GroupNumber)
	}
	if patched.FirstName != "Ivan" || patched.Email != studentBody["email"] {
		t.Fatalf("untouched fields changed: %+v", patched)
	}

	// Two assignment grades, then the average must be their mean.
	for _, value := range []float64{4.0, 5.0} {
		resp = doReq(t, http.MethodPost, app.URL+"/grades", adminToken, map[string]interface{}{
			"student_id":       student.ID,
			"course_id":        course.ID,
			"assignment_title": fmt.Sprintf("hw-%v", value),
			"grade_value":      value,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create grade: expected 201, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp = doReq(t, http.MethodGet,
		fmt.Sprintf("%s/grades/average/%d/%d", app.URL, student.ID, course.ID), adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("average grade: expected 200, got %d", resp.StatusCode)
	}
	var average struct {
		AverageGrade float64 `json:"average_grade"`
	}
	decodeBody(t, resp, &average)
	if math.Abs(average.AverageGrade-4.5) > 1e-9 {
		t.Fatalf("average grade = %v, want 4.5", average.AverageGrade)
	}

	// The roster report sees the enrollment.
	resp = doReq(t, http.MethodGet,
		fmt.Sprintf("%s/reports/students-by-course/%d", app.URL, course.ID), adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("roster report: expected 200, got %d", resp.StatusCode)
	}
	var roster struct {
		Students []struct {
			StudentID int64 `json:"student_id"`
		} `json:"students"`
	}
	decodeBody(t, resp, &roster)
	if len(roster.Students) == 0 {
		t.Fatal("roster report: expected at least one student")
	}
}
