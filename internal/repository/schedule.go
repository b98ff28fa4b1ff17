package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"campus/courses/internal/model"
)

// ErrInvalidInterval reports a schedule entry whose start does not strictly
// precede its end.
var ErrInvalidInterval = errors.New("start time must precede end time")

func (s *Store) CreateScheduleEntry(ctx context.Context, entry model.ScheduleEntry) (model.ScheduleEntry, error) {
	if !entry.StartDateTime.Before(entry.EndDateTime) {
		return model.ScheduleEntry{}, ErrInvalidInterval
	}
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		courseExists, err := exists(ctx, tx, `SELECT 1 FROM courses WHERE id = $1`, entry.CourseID)
		if err != nil {
			return err
		}
		if !courseExists {
			return ErrCourseMissing
		}
		return tx.QueryRow(ctx, `
			INSERT INTO schedule (course_id, start_date_time, end_date_time)
			VALUES ($1, $2, $3)
			RETURNING id
		`, entry.CourseID, entry.StartDateTime, entry.EndDateTime).Scan(&entry.ID)
	})
	if err != nil {
		return model.ScheduleEntry{}, err
	}
	return entry, nil
}

type ScheduleFilter struct {
	CourseID int64
	DateFrom *time.Time
	DateTo   *time.Time
	Skip     uint64
	Limit    uint64
}

func scheduleListQuery(f ScheduleFilter) sq.SelectBuilder {
	q := psql.Select(
		"sch.id", "sch.course_id", "sch.start_date_time", "sch.end_date_time",
		"c.title", "c.description", "c.duration",
		"t.first_name", "t.last_name",
	).
		From("schedule sch").
		Join("courses c ON sch.course_id = c.id").
		Join("teachers t ON c.teacher_id = t.id")
	if f.CourseID != 0 {
		q = q.Where(sq.Eq{"sch.course_id": f.CourseID})
	}
	if f.DateFrom != nil {
		q = q.Where(sq.GtOrEq{"sch.start_date_time::date": *f.DateFrom})
	}
	if f.DateTo != nil {
		q = q.Where(sq.LtOrEq{"sch.start_date_time::date": *f.DateTo})
	}
	return q.OrderBy("sch.start_date_time").Offset(f.Skip).Limit(f.Limit)
}

func scanScheduleEntry(row pgx.Row) (model.ScheduleEntryWithCourse, error) {
	var e model.ScheduleEntryWithCourse
	err := row.Scan(
		&e.ID, &e.CourseID, &e.StartDateTime, &e.EndDateTime,
		&e.Course.Title, &e.Course.Description, &e.Course.Duration,
		&e.Course.Teacher.FirstName, &e.Course.Teacher.LastName,
	)
	if err != nil {
		return model.ScheduleEntryWithCourse{}, err
	}
	e.Course.ID = e.CourseID
	return e, nil
}

func (s *Store) collectScheduleEntries(ctx context.Context, query string, args ...any) ([]model.ScheduleEntryWithCourse, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.ScheduleEntryWithCourse{}
	for rows.Next() {
		entry, err := scanScheduleEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) ListSchedule(ctx context.Context, f ScheduleFilter) ([]model.ScheduleEntryWithCourse, error) {
	query, args, err := scheduleListQuery(f).ToSql()
	if err != nil {
		return nil, err
	}
	return s.collectScheduleEntries(ctx, query, args...)
}

func (s *Store) GetScheduleEntry(ctx context.Context, entryID int64) (model.ScheduleEntryWithCourse, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT sch.id, sch.course_id, sch.start_date_time, sch.end_date_time,
		       c.title, c.description, c.duration,
		       t.first_name, t.last_name
		FROM schedule sch
		JOIN courses c ON sch.course_id = c.id
		JOIN teachers t ON c.teacher_id = t.id
		WHERE sch.id = $1
	`, entryID)
	return scanScheduleEntry(row)
}

type ScheduleUpdate struct {
	StartDateTime *time.Time
	EndDateTime   *time.Time
}

// apply merges the update into the stored entry and re-checks start < end,
// so a partial update cannot invert the interval.
func (upd ScheduleUpdate) apply(entry *model.ScheduleEntry) error {
	if upd.StartDateTime != nil {
		entry.StartDateTime = *upd.StartDateTime
	}
	if upd.EndDateTime != nil {
		entry.EndDateTime = *upd.EndDateTime
	}
	if !entry.StartDateTime.Before(entry.EndDateTime) {
		return ErrInvalidInterval
	}
	return nil
}

func (s *Store) UpdateScheduleEntry(ctx context.Context, entryID int64, upd ScheduleUpdate) (model.ScheduleEntry, error) {
	if upd.StartDateTime == nil && upd.EndDateTime == nil {
		return model.ScheduleEntry{}, ErrEmptyUpdate
	}

	var entry model.ScheduleEntry
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			SELECT id, course_id, start_date_time, end_date_time
			FROM schedule
			WHERE id = $1
			FOR UPDATE
		`, entryID).Scan(&entry.ID, &entry.CourseID, &entry.StartDateTime, &entry.EndDateTime)
		if err != nil {
			return err
		}
		if err := upd.apply(&entry); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE schedule
			SET start_date_time = $1, end_date_time = $2
			WHERE id = $3
		`, entry.StartDateTime, entry.EndDateTime, entryID)
		return err
	})
	if err != nil {
		return model.ScheduleEntry{}, err
	}
	return entry, nil
}

func (s *Store) DeleteScheduleEntry(ctx context.Context, entryID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM schedule WHERE id = $1`, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) DailySchedule(ctx context.Context, day time.Time) ([]model.ScheduleEntryWithCourse, error) {
	return s.collectScheduleEntries(ctx, `
		SELECT sch.id, sch.course_id, sch.start_date_time, sch.end_date_time,
		       c.title, c.description, c.duration,
		       t.first_name, t.last_name
		FROM schedule sch
		JOIN courses c ON sch.course_id = c.id
		JOIN teachers t ON c.teacher_id = t.id
		WHERE sch.start_date_time::date = $1
		ORDER BY sch.start_date_time
	`, day)
}

// StudentSchedule returns upcoming entries for the courses one student is
// enrolled in, up to daysAhead days from today.
func (s *Store) StudentSchedule(ctx context.Context, studentID int64, daysAhead int) ([]model.ScheduleEntryWithCourse, error) {
	studentExists, err := s.StudentExists(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !studentExists {
		return nil, pgx.ErrNoRows
	}
	return s.collectScheduleEntries(ctx, `
		SELECT DISTINCT sch.id, sch.course_id, sch.start_date_time, sch.end_date_time,
		       c.title, c.description, c.duration,
		       t.first_name, t.last_name
		FROM schedule sch
		JOIN courses c ON sch.course_id = c.id
		JOIN teachers t ON c.teacher_id = t.id
		JOIN enrollments e ON c.id = e.course_id
		WHERE e.student_id = $1
		  AND sch.start_date_time >= CURRENT_DATE
		  AND sch.start_date_time <= CURRENT_DATE + INTERVAL '1 day' * $2
		ORDER BY sch.start_date_time
	`, studentID, daysAhead)
}

func (s *Store) TeacherSchedule(ctx context.Context, teacherID int64, daysAhead int) ([]model.ScheduleEntryWithCourse, error) {
	teacherExists, err := s.TeacherExists(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if !teacherExists {
		return nil, pgx.ErrNoRows
	}
	return s.collectScheduleEntries(ctx, `
		SELECT sch.id, sch.course_id, sch.start_date_time, sch.end_date_time,
		       c.title, c.description, c.duration,
		       t.first_name, t.last_name
		FROM schedule sch
		JOIN courses c ON sch.course_id = c.id
		JOIN teachers t ON c.teacher_id = t.id
		WHERE c.teacher_id = $1
		  AND sch.start_date_time >= CURRENT_DATE
		  AND sch.start_date_time <= CURRENT_DATE + INTERVAL '1 day' * $2
		ORDER BY sch.start_date_time
	`, teacherID, daysAhead)
}
