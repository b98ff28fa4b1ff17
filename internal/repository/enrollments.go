package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"campus/courses/internal/model"
)

// CreateEnrollment enforces the (student, course) uniqueness invariant: both
// the pre-check and the table's primary key report duplicates as
// ErrDuplicate, leaving the original row untouched.
func (s *Store) CreateEnrollment(ctx context.Context, enrollment model.Enrollment) (model.Enrollment, error) {
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = model.NewDate(time.Now().UTC())
	}
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		studentExists, err := exists(ctx, tx, `SELECT 1 FROM students WHERE id = $1`, enrollment.StudentID)
		if err != nil {
			return err
		}
		if !studentExists {
			return ErrStudentMissing
		}
		courseExists, err := exists(ctx, tx, `SELECT 1 FROM courses WHERE id = $1`, enrollment.CourseID)
		if err != nil {
			return err
		}
		if !courseExists {
			return ErrCourseMissing
		}
		enrolled, err := exists(ctx, tx, `SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2`,
			enrollment.StudentID, enrollment.CourseID)
		if err != nil {
			return err
		}
		if enrolled {
			return ErrDuplicate
		}

		var enrolledOn time.Time
		err = tx.QueryRow(ctx, `
			INSERT INTO enrollments (student_id, course_id, enrollment_date)
			VALUES ($1, $2, $3)
			RETURNING enrollment_date
		`, enrollment.StudentID, enrollment.CourseID, enrollment.EnrollmentDate.Time).Scan(&enrolledOn)
		if err != nil {
			return err
		}
		enrollment.EnrollmentDate = model.NewDate(enrolledOn)
		return nil
	})
	if isUniqueViolation(err) {
		return model.Enrollment{}, ErrDuplicate
	}
	if err != nil {
		return model.Enrollment{}, err
	}
	return enrollment, nil
}

type EnrollmentFilter struct {
	StudentID int64
	CourseID  int64
	Skip      uint64
	Limit     uint64
}

func enrollmentListQuery(f EnrollmentFilter) sq.SelectBuilder {
	q := psql.Select(
		"e.student_id", "e.course_id", "e.enrollment_date", "e.grade",
		"s.first_name", "s.last_name", "s.group_number",
		"c.title", "c.description", "c.duration", "c.teacher_id",
	).
		From("enrollments e").
		Join("students s ON e.student_id = s.id").
		Join("courses c ON e.course_id = c.id")
	if f.StudentID != 0 {
		q = q.Where(sq.Eq{"e.student_id": f.StudentID})
	}
	if f.CourseID != 0 {
		q = q.Where(sq.Eq{"e.course_id": f.CourseID})
	}
	return q.OrderBy("e.enrollment_date DESC", "e.student_id", "e.course_id").Offset(f.Skip).Limit(f.Limit)
}

func scanEnrollmentWithDetails(rows pgx.Rows) (model.EnrollmentWithDetails, error) {
	var e model.EnrollmentWithDetails
	var enrolledOn time.Time
	err := rows.Scan(
		&e.StudentID, &e.CourseID, &enrolledOn, &e.Enrollment.Grade,
		&e.Student.FirstName, &e.Student.LastName, &e.Student.GroupNumber,
		&e.Course.Title, &e.Course.Description, &e.Course.Duration, &e.Course.TeacherID,
	)
	if err != nil {
		return model.EnrollmentWithDetails{}, err
	}
	e.EnrollmentDate = model.NewDate(enrolledOn)
	e.Student.ID = e.StudentID
	e.Course.ID = e.CourseID
	return e, nil
}

func (s *Store) ListEnrollments(ctx context.Context, f EnrollmentFilter) ([]model.EnrollmentWithDetails, error) {
	query, args, err := enrollmentListQuery(f).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := []model.EnrollmentWithDetails{}
	for rows.Next() {
		enrollment, err := scanEnrollmentWithDetails(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, rows.Err()
}

// CourseEnrollments lists every enrollment for one course, newest first.
func (s *Store) CourseEnrollments(ctx context.Context, courseID int64) ([]model.EnrollmentWithDetails, error) {
	return s.ListEnrollments(ctx, EnrollmentFilter{CourseID: courseID, Limit: 1000})
}

func (s *Store) SetFinalGrade(ctx context.Context, studentID, courseID int64, grade *float64) (model.Enrollment, error) {
	enrollment := model.Enrollment{StudentID: studentID, CourseID: courseID, Grade: grade}
	var enrolledOn time.Time
	err := s.pool.QueryRow(ctx, `
		UPDATE enrollments
		SET grade = $1
		WHERE student_id = $2 AND course_id = $3
		RETURNING enrollment_date, grade
	`, grade, studentID, courseID).Scan(&enrolledOn, &enrollment.Grade)
	if err != nil {
		return model.Enrollment{}, err
	}
	enrollment.EnrollmentDate = model.NewDate(enrolledOn)
	return enrollment, nil
}

func (s *Store) DeleteEnrollment(ctx context.Context, studentID, courseID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM enrollments WHERE student_id = $1 AND course_id = $2`, studentID, courseID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
