package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"campus/courses/internal/model"
)

func (s *Store) CourseExists(ctx context.Context, courseID int64) (bool, error) {
	return exists(ctx, s.pool, `SELECT 1 FROM courses WHERE id = $1`, courseID)
}

// CreateCourse checks the referenced teacher and inserts within one
// transaction so a concurrently deleted teacher cannot slip through.
func (s *Store) CreateCourse(ctx context.Context, course model.Course) (model.Course, error) {
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		teacherExists, err := exists(ctx, tx, `SELECT 1 FROM teachers WHERE id = $1`, course.TeacherID)
		if err != nil {
			return err
		}
		if !teacherExists {
			return ErrTeacherMissing
		}
		return tx.QueryRow(ctx, `
			INSERT INTO courses (title, description, duration, teacher_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, course.Title, course.Description, course.Duration, course.TeacherID).
			Scan(&course.ID)
	})
	if isForeignKeyViolation(err) {
		return model.Course{}, ErrTeacherMissing
	}
	if err != nil {
		return model.Course{}, err
	}
	return course, nil
}

type CourseFilter struct {
	Search    string
	TeacherID int64
	Skip      uint64
	Limit     uint64
}

func courseListQuery(f CourseFilter) sq.SelectBuilder {
	q := psql.Select(
		"c.id", "c.title", "c.description", "c.duration", "c.teacher_id",
		"t.first_name", "t.last_name", "t.qualification", "t.bio",
	).
		From("courses c").
		Join("teachers t ON c.teacher_id = t.id")
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(sq.Or{sq.ILike{"c.title": pattern}, sq.ILike{"c.description": pattern}})
	}
	if f.TeacherID != 0 {
		q = q.Where(sq.Eq{"c.teacher_id": f.TeacherID})
	}
	return q.OrderBy("c.id").Offset(f.Skip).Limit(f.Limit)
}

func scanCourseWithTeacher(row pgx.Row) (model.CourseWithTeacher, error) {
	var c model.CourseWithTeacher
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Duration, &c.TeacherID,
		&c.Teacher.FirstName, &c.Teacher.LastName, &c.Teacher.Qualification, &c.Teacher.Bio,
	)
	if err != nil {
		return model.CourseWithTeacher{}, err
	}
	c.Teacher.ID = c.TeacherID
	return c, nil
}

func (s *Store) ListCourses(ctx context.Context, f CourseFilter) ([]model.CourseWithTeacher, error) {
	query, args, err := courseListQuery(f).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []model.CourseWithTeacher{}
	for rows.Next() {
		course, err := scanCourseWithTeacher(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (s *Store) GetCourse(ctx context.Context, courseID int64) (model.CourseWithTeacher, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT c.id, c.title, c.description, c.duration, c.teacher_id,
		       t.first_name, t.last_name, t.qualification, t.bio
		FROM courses c
		JOIN teachers t ON c.teacher_id = t.id
		WHERE c.id = $1
	`, courseID)
	return scanCourseWithTeacher(row)
}

type CourseUpdate struct {
	Title       *string
	Description *string
	Duration    *int
	TeacherID   *int64
}

func courseUpdateQuery(courseID int64, upd CourseUpdate) (sq.UpdateBuilder, bool) {
	q := psql.Update("courses")
	set := false
	if upd.Title != nil {
		q = q.Set("title", *upd.Title)
		set = true
	}
	if upd.Description != nil {
		q = q.Set("description", *upd.Description)
		set = true
	}
	if upd.Duration != nil {
		q = q.Set("duration", *upd.Duration)
		set = true
	}
	if upd.TeacherID != nil {
		q = q.Set("teacher_id", *upd.TeacherID)
		set = true
	}
	return q.Where(sq.Eq{"id": courseID}), set
}

func (s *Store) UpdateCourse(ctx context.Context, courseID int64, upd CourseUpdate) (model.Course, error) {
	builder, set := courseUpdateQuery(courseID, upd)
	if !set {
		return model.Course{}, ErrEmptyUpdate
	}

	var course model.Course
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		courseExists, err := exists(ctx, tx, `SELECT 1 FROM courses WHERE id = $1`, courseID)
		if err != nil {
			return err
		}
		if !courseExists {
			return pgx.ErrNoRows
		}
		if upd.TeacherID != nil {
			teacherExists, err := exists(ctx, tx, `SELECT 1 FROM teachers WHERE id = $1`, *upd.TeacherID)
			if err != nil {
				return err
			}
			if !teacherExists {
				return ErrTeacherMissing
			}
		}
		query, args, err := builder.Suffix("RETURNING id, title, description, duration, teacher_id").ToSql()
		if err != nil {
			return err
		}
		return tx.QueryRow(ctx, query, args...).
			Scan(&course.ID, &course.Title, &course.Description, &course.Duration, &course.TeacherID)
	})
	if err != nil {
		return model.Course{}, err
	}
	return course, nil
}

func (s *Store) CourseStatistics(ctx context.Context, courseID int64) (model.CourseStatistics, error) {
	courseExists, err := s.CourseExists(ctx, courseID)
	if err != nil {
		return model.CourseStatistics{}, err
	}
	if !courseExists {
		return model.CourseStatistics{}, pgx.ErrNoRows
	}

	stats := model.CourseStatistics{CourseID: courseID}
	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT e.student_id),
		       COUNT(DISTINCT g.id),
		       COALESCE(AVG(g.grade_value), 0)::float8,
		       COALESCE(MIN(g.grade_value), 0)::float8,
		       COALESCE(MAX(g.grade_value), 0)::float8
		FROM enrollments e
		LEFT JOIN grades g ON e.student_id = g.student_id AND e.course_id = g.course_id
		WHERE e.course_id = $1
	`, courseID).Scan(
		&stats.TotalStudents,
		&stats.TotalAssignments,
		&stats.AverageGrade,
		&stats.MinGrade,
		&stats.MaxGrade,
	)
	return stats, err
}
