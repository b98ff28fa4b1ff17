package repository

import (
	"context"
	"time"

	"campus/courses/internal/model"
)

// StudentsByCourse builds the course roster with per-student assignment
// counts and averages.
func (s *Store) StudentsByCourse(ctx context.Context, courseID int64) ([]model.CourseRosterRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.first_name, s.last_name, s.group_number,
		       e.enrollment_date, e.grade,
		       COUNT(g.id), AVG(g.grade_value)::float8
		FROM enrollments e
		JOIN students s ON e.student_id = s.id
		LEFT JOIN grades g ON e.student_id = g.student_id AND e.course_id = g.course_id
		WHERE e.course_id = $1
		GROUP BY s.id, s.first_name, s.last_name, s.group_number, e.enrollment_date, e.grade
		ORDER BY s.last_name, s.first_name
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := []model.CourseRosterRow{}
	for rows.Next() {
		var row model.CourseRosterRow
		var enrolledOn time.Time
		if err := rows.Scan(
			&row.StudentID, &row.FirstName, &row.LastName, &row.GroupNumber,
			&enrolledOn, &row.FinalGrade,
			&row.AssignmentsCount, &row.AverageGrade,
		); err != nil {
			return nil, err
		}
		row.EnrollmentDate = model.NewDate(enrolledOn)
		roster = append(roster, row)
	}
	return roster, rows.Err()
}

// CoursePerformance returns per-student grade statistics for one course,
// best average first. PerformanceLevel is filled by the presentation layer.
func (s *Store) CoursePerformance(ctx context.Context, courseID int64) ([]model.PerformanceRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id,
		       CONCAT(s.first_name, ' ', s.last_name),
		       s.group_number,
		       COUNT(g.id),
		       AVG(g.grade_value)::float8,
		       MIN(g.grade_value)::float8,
		       MAX(g.grade_value)::float8,
		       e.grade
		FROM enrollments e
		JOIN students s ON e.student_id = s.id
		LEFT JOIN grades g ON e.student_id = g.student_id AND e.course_id = g.course_id
		WHERE e.course_id = $1
		GROUP BY s.id, s.first_name, s.last_name, s.group_number, e.grade
		ORDER BY AVG(g.grade_value) DESC NULLS LAST
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := []model.PerformanceRow{}
	for rows.Next() {
		var row model.PerformanceRow
		if err := rows.Scan(
			&row.StudentID, &row.StudentName, &row.GroupNumber,
			&row.AssignmentsCompleted,
			&row.AverageGrade, &row.MinGrade, &row.MaxGrade,
			&row.FinalGrade,
		); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

func (s *Store) CourseReport(ctx context.Context) ([]model.CourseReportRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.title, c.description, c.duration,
		       CONCAT(t.first_name, ' ', t.last_name),
		       t.qualification,
		       COUNT(DISTINCT e.student_id),
		       COUNT(DISTINCT g.id),
		       AVG(g.grade_value)::float8
		FROM courses c
		JOIN teachers t ON c.teacher_id = t.id
		LEFT JOIN enrollments e ON c.id = e.course_id
		LEFT JOIN grades g ON c.id = g.course_id
		GROUP BY c.id, c.title, c.description, c.duration, t.id, t.first_name, t.last_name, t.qualification
		ORDER BY c.title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := []model.CourseReportRow{}
	for rows.Next() {
		var row model.CourseReportRow
		if err := rows.Scan(
			&row.CourseID, &row.Title, &row.Description, &row.Duration,
			&row.TeacherName, &row.Qualification,
			&row.EnrolledStudents, &row.TotalAssignments, &row.AverageGrade,
		); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

func (s *Store) ScheduleReport(ctx context.Context, start, end time.Time) ([]model.ScheduleReportRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sch.start_date_time::date,
		       c.title,
		       CONCAT(t.first_name, ' ', t.last_name),
		       sch.start_date_time,
		       sch.end_date_time,
		       COUNT(DISTINCT e.student_id)
		FROM schedule sch
		JOIN courses c ON sch.course_id = c.id
		JOIN teachers t ON c.teacher_id = t.id
		LEFT JOIN enrollments e ON c.id = e.course_id
		WHERE sch.start_date_time::date BETWEEN $1 AND $2
		GROUP BY sch.start_date_time::date, c.title, t.first_name, t.last_name,
		         sch.start_date_time, sch.end_date_time
		ORDER BY sch.start_date_time
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := []model.ScheduleReportRow{}
	for rows.Next() {
		var row model.ScheduleReportRow
		var day time.Time
		if err := rows.Scan(
			&day, &row.CourseTitle, &row.TeacherName,
			&row.StartDateTime, &row.EndDateTime,
			&row.EnrolledStudents,
		); err != nil {
			return nil, err
		}
		row.ScheduleDate = model.NewDate(day)
		report = append(report, row)
	}
	return report, rows.Err()
}

// StudentTranscript returns per-course grade statistics for one student plus
// overall totals.
func (s *Store) StudentTranscript(ctx context.Context, studentID int64) ([]model.TranscriptRow, model.TranscriptTotals, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.title, c.description,
		       CONCAT(t.first_name, ' ', t.last_name),
		       e.enrollment_date, e.grade,
		       COUNT(g.id),
		       AVG(g.grade_value)::float8,
		       MIN(g.grade_value)::float8,
		       MAX(g.grade_value)::float8
		FROM enrollments e
		JOIN courses c ON e.course_id = c.id
		JOIN teachers t ON c.teacher_id = t.id
		LEFT JOIN grades g ON e.student_id = g.student_id AND e.course_id = g.course_id
		WHERE e.student_id = $1
		GROUP BY c.id, c.title, c.description, t.first_name, t.last_name, e.enrollment_date, e.grade
		ORDER BY e.enrollment_date DESC
	`, studentID)
	if err != nil {
		return nil, model.TranscriptTotals{}, err
	}
	defer rows.Close()

	transcript := []model.TranscriptRow{}
	for rows.Next() {
		var row model.TranscriptRow
		var enrolledOn time.Time
		if err := rows.Scan(
			&row.CourseID, &row.CourseTitle, &row.Description,
			&row.TeacherName, &enrolledOn, &row.FinalGrade,
			&row.AssignmentsCount, &row.AverageGrade, &row.MinGrade, &row.MaxGrade,
		); err != nil {
			return nil, model.TranscriptTotals{}, err
		}
		row.EnrollmentDate = model.NewDate(enrolledOn)
		transcript = append(transcript, row)
	}
	if err := rows.Err(); err != nil {
		return nil, model.TranscriptTotals{}, err
	}

	var totals model.TranscriptTotals
	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT e.course_id),
		       COUNT(g.id),
		       COALESCE(AVG(g.grade_value), 0)::float8
		FROM enrollments e
		LEFT JOIN grades g ON e.student_id = g.student_id AND e.course_id = g.course_id
		WHERE e.student_id = $1
	`, studentID).Scan(&totals.TotalCourses, &totals.TotalAssignments, &totals.OverallAverage)
	if err != nil {
		return nil, model.TranscriptTotals{}, err
	}
	return transcript, totals, nil
}

func (s *Store) CourseRosterCSV(ctx context.Context, courseID int64) ([]model.CSVRosterRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.first_name, s.last_name, s.group_number, e.enrollment_date, e.grade
		FROM enrollments e
		JOIN students s ON e.student_id = s.id
		WHERE e.course_id = $1
		ORDER BY s.last_name, s.first_name
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := []model.CSVRosterRow{}
	for rows.Next() {
		var row model.CSVRosterRow
		var enrolledOn time.Time
		if err := rows.Scan(&row.FirstName, &row.LastName, &row.GroupNumber, &enrolledOn, &row.FinalGrade); err != nil {
			return nil, err
		}
		row.EnrollmentDate = model.NewDate(enrolledOn)
		roster = append(roster, row)
	}
	return roster, rows.Err()
}
