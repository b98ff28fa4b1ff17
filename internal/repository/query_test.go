package repository

import (
	"strings"
	"testing"
	"time"
)

func TestUserListQuery(t *testing.T) {
	query, args, err := userListQuery(UserFilter{Search: "ivan", Skip: 10, Limit: 5}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(query, "u.username ILIKE $1") || !strings.Contains(query, "u.email ILIKE $2") {
		t.Errorf("missing search clauses: %s", query)
	}
	if !strings.HasSuffix(query, "ORDER BY u.id LIMIT 5 OFFSET 10") {
		t.Errorf("unexpected suffix: %s", query)
	}
	if len(args) != 2 || args[0] != "%ivan%" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestUserListQueryNoSearch(t *testing.T) {
	query, args, err := userListQuery(UserFilter{Limit: 100}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if strings.Contains(query, "WHERE") {
		t.Errorf("unexpected WHERE clause: %s", query)
	}
	if len(args) != 0 {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestUserUpdateQuery(t *testing.T) {
	email := "new@example.com"
	roleID := int64(2)
	builder, set := userUpdateQuery(7, UserUpdate{Email: &email, RoleID: &roleID})
	if !set {
		t.Fatal("expected set")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(query, "SET email = $1, role_id = $2") {
		t.Errorf("unexpected SET clause: %s", query)
	}
	if !strings.Contains(query, "WHERE id = $3") {
		t.Errorf("unexpected WHERE clause: %s", query)
	}
	if len(args) != 3 || args[0] != email || args[1] != roleID || args[2] != int64(7) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestUserUpdateQueryEmpty(t *testing.T) {
	if _, set := userUpdateQuery(7, UserUpdate{}); set {
		t.Error("expected empty update to report no fields")
	}
}

func TestTeacherListQueryJoin(t *testing.T) {
	linked := &Store{link: LinkUserID}
	shared := &Store{link: LinkSharedID}

	query, _, err := teacherListQuery(linked.profileJoin("t"), TeacherFilter{Limit: 100}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(query, "JOIN users u ON t.user_id = u.id") {
		t.Errorf("expected user_id join: %s", query)
	}

	query, _, err = teacherListQuery(shared.profileJoin("t"), TeacherFilter{Limit: 100}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(query, "JOIN users u ON t.id = u.id") {
		t.Errorf("expected shared id join: %s", query)
	}
}

func TestStudentListQueryGroup(t *testing.T) {
	s := &Store{link: LinkUserID}
	query, args, err := studentListQuery(s.profileJoin("s"), StudentFilter{GroupNumber: "CS-201", Limit: 50}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(query, "s.group_number = $1") {
		t.Errorf("missing group filter: %s", query)
	}
	if len(args) != 1 || args[0] != "CS-201" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestCourseListQuery(t *testing.T) {
	query, args, err := courseListQuery(CourseFilter{Search: "math", TeacherID: 3, Limit: 100}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(query, "c.title ILIKE $1") {
		t.Errorf("missing search clause: %s", query)
	}
	if !strings.Contains(query, "c.teacher_id = $3") {
		t.Errorf("missing teacher filter: %s", query)
	}
	if len(args) != 3 || args[2] != int64(3) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestGradeListQueryDateRange(t *testing.T) {
	from := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	query, args, err := gradeListQuery(GradeFilter{StudentID: 1, DateFrom: &from, DateTo: &to, Limit: 100}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(query, "g.student_id = $1") {
		t.Errorf("missing student filter: %s", query)
	}
	if !strings.Contains(query, "g.submission_date >= $2") || !strings.Contains(query, "g.submission_date <= $3") {
		t.Errorf("missing date range: %s", query)
	}
	if !strings.Contains(query, "ORDER BY g.submission_date DESC, g.id") {
		t.Errorf("unexpected ordering: %s", query)
	}
	if len(args) != 3 {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestScheduleListQueryDateRange(t *testing.T) {
	from := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := scheduleListQuery(ScheduleFilter{CourseID: 4, DateFrom: &from, Limit: 100}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(query, "sch.course_id = $1") {
		t.Errorf("missing course filter: %s", query)
	}
	if !strings.Contains(query, "sch.start_date_time::date >= $2") {
		t.Errorf("missing date lower bound: %s", query)
	}
	if len(args) != 2 {
		t.Errorf("unexpected args: %v", args)
	}
}
