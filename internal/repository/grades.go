package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"campus/courses/internal/model"
)

func (s *Store) CreateGrade(ctx context.Context, grade model.Grade) (model.Grade, error) {
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		studentExists, err := exists(ctx, tx, `SELECT 1 FROM students WHERE id = $1`, grade.StudentID)
		if err != nil {
			return err
		}
		if !studentExists {
			return ErrStudentMissing
		}
		courseExists, err := exists(ctx, tx, `SELECT 1 FROM courses WHERE id = $1`, grade.CourseID)
		if err != nil {
			return err
		}
		if !courseExists {
			return ErrCourseMissing
		}
		return tx.QueryRow(ctx, `
			INSERT INTO grades (student_id, course_id, assignment_title, grade_value, submission_date)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, grade.StudentID, grade.CourseID, grade.AssignmentTitle, grade.GradeValue, grade.SubmissionDate.Time).
			Scan(&grade.ID)
	})
	if err != nil {
		return model.Grade{}, err
	}
	return grade, nil
}

type GradeFilter struct {
	StudentID int64
	CourseID  int64
	DateFrom  *time.Time
	DateTo    *time.Time
	Skip      uint64
	Limit     uint64
}

func gradeListQuery(f GradeFilter) sq.SelectBuilder {
	q := psql.Select(
		"g.id", "g.student_id", "g.course_id", "g.assignment_title", "g.grade_value", "g.submission_date",
		"s.first_name", "s.last_name", "s.group_number",
		"c.title",
	).
		From("grades g").
		Join("students s ON g.student_id = s.id").
		Join("courses c ON g.course_id = c.id")
	if f.StudentID != 0 {
		q = q.Where(sq.Eq{"g.student_id": f.StudentID})
	}
	if f.CourseID != 0 {
		q = q.Where(sq.Eq{"g.course_id": f.CourseID})
	}
	if f.DateFrom != nil {
		q = q.Where(sq.GtOrEq{"g.submission_date": *f.DateFrom})
	}
	if f.DateTo != nil {
		q = q.Where(sq.LtOrEq{"g.submission_date": *f.DateTo})
	}
	return q.OrderBy("g.submission_date DESC", "g.id").Offset(f.Skip).Limit(f.Limit)
}

func scanGradeWithDetails(row pgx.Row) (model.GradeWithDetails, error) {
	var g model.GradeWithDetails
	var submittedOn time.Time
	err := row.Scan(
		&g.ID, &g.StudentID, &g.CourseID, &g.AssignmentTitle, &g.GradeValue, &submittedOn,
		&g.Student.FirstName, &g.Student.LastName, &g.Student.GroupNumber,
		&g.Course.Title,
	)
	if err != nil {
		return model.GradeWithDetails{}, err
	}
	g.SubmissionDate = model.NewDate(submittedOn)
	g.Student.ID = g.StudentID
	g.Course.ID = g.CourseID
	return g, nil
}

func (s *Store) ListGrades(ctx context.Context, f GradeFilter) ([]model.GradeWithDetails, error) {
	query, args, err := gradeListQuery(f).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grades := []model.GradeWithDetails{}
	for rows.Next() {
		grade, err := scanGradeWithDetails(rows)
		if err != nil {
			return nil, err
		}
		grades = append(grades, grade)
	}
	return grades, rows.Err()
}

// CourseGrades lists every assignment grade for one course, newest first.
func (s *Store) CourseGrades(ctx context.Context, courseID int64) ([]model.GradeWithDetails, error) {
	return s.ListGrades(ctx, GradeFilter{CourseID: courseID, Limit: 1000})
}

func (s *Store) GetGrade(ctx context.Context, gradeID int64) (model.GradeWithDetails, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT g.id, g.student_id, g.course_id, g.assignment_title, g.grade_value, g.submission_date,
		       s.first_name, s.last_name, s.group_number,
		       c.title
		FROM grades g
		JOIN students s ON g.student_id = s.id
		JOIN courses c ON g.course_id = c.id
		WHERE g.id = $1
	`, gradeID)
	return scanGradeWithDetails(row)
}

type GradeUpdate struct {
	AssignmentTitle *string
	GradeValue      *float64
	SubmissionDate  *model.Date
}

func gradeUpdateQuery(gradeID int64, upd GradeUpdate) (sq.UpdateBuilder, bool) {
	q := psql.Update("grades")
	set := false
	if upd.AssignmentTitle != nil {
		q = q.Set("assignment_title", *upd.AssignmentTitle)
		set = true
	}
	if upd.GradeValue != nil {
		q = q.Set("grade_value", *upd.GradeValue)
		set = true
	}
	if upd.SubmissionDate != nil {
		q = q.Set("submission_date", upd.SubmissionDate.Time)
		set = true
	}
	return q.Where(sq.Eq{"id": gradeID}), set
}

func (s *Store) UpdateGrade(ctx context.Context, gradeID int64, upd GradeUpdate) (model.Grade, error) {
	builder, set := gradeUpdateQuery(gradeID, upd)
	if !set {
		return model.Grade{}, ErrEmptyUpdate
	}
	query, args, err := builder.
		Suffix("RETURNING id, student_id, course_id, assignment_title, grade_value, submission_date").
		ToSql()
	if err != nil {
		return model.Grade{}, err
	}

	var grade model.Grade
	var submittedOn time.Time
	err = s.pool.QueryRow(ctx, query, args...).Scan(
		&grade.ID, &grade.StudentID, &grade.CourseID,
		&grade.AssignmentTitle, &grade.GradeValue, &submittedOn,
	)
	if err != nil {
		return model.Grade{}, err
	}
	grade.SubmissionDate = model.NewDate(submittedOn)
	return grade, nil
}

func (s *Store) DeleteGrade(ctx context.Context, gradeID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM grades WHERE id = $1`, gradeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AverageGrade returns the mean assignment grade for one (student, course)
// pair, or pgx.ErrNoRows when no grades exist for it.
func (s *Store) AverageGrade(ctx context.Context, studentID, courseID int64) (float64, error) {
	var average *float64
	err := s.pool.QueryRow(ctx, `
		SELECT AVG(grade_value)::float8
		FROM grades
		WHERE student_id = $1 AND course_id = $2
	`, studentID, courseID).Scan(&average)
	if err != nil {
		return 0, err
	}
	if average == nil {
		return 0, pgx.ErrNoRows
	}
	return *average, nil
}
