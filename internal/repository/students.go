package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"campus/courses/internal/model"
)

func (s *Store) StudentExists(ctx context.Context, studentID int64) (bool, error) {
	return exists(ctx, s.pool, `SELECT 1 FROM students WHERE id = $1`, studentID)
}

func (s *Store) CreateStudent(ctx context.Context, user model.User, student model.Student) (model.StudentWithUser, error) {
	roleExists, err := s.RoleExists(ctx, user.RoleID)
	if err != nil {
		return model.StudentWithUser{}, err
	}
	if !roleExists {
		return model.StudentWithUser{}, ErrRoleMissing
	}
	taken, err := s.UserTaken(ctx, user.Username, user.Email)
	if err != nil {
		return model.StudentWithUser{}, err
	}
	if taken {
		return model.StudentWithUser{}, ErrDuplicate
	}

	var result model.StudentWithUser
	err = s.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (username, password_hash, email, role_id, photo_url)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, registration_date_time
		`, user.Username, user.PasswordHash, user.Email, user.RoleID, user.PhotoURL).
			Scan(&user.ID, &user.RegistrationDateTime)
		if err != nil {
			return err
		}

		student.UserID = user.ID
		if s.link == LinkUserID {
			err = tx.QueryRow(ctx, `
				INSERT INTO students (user_id, first_name, last_name, group_number)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, user.ID, student.FirstName, student.LastName, student.GroupNumber).
				Scan(&student.ID)
		} else {
			err = tx.QueryRow(ctx, `
				INSERT INTO students (id, first_name, last_name, group_number)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, user.ID, student.FirstName, student.LastName, student.GroupNumber).
				Scan(&student.ID)
		}
		return err
	})
	if isUniqueViolation(err) {
		return model.StudentWithUser{}, ErrDuplicate
	}
	if err != nil {
		return model.StudentWithUser{}, err
	}

	result.Student = student
	result.User = &user
	return result, nil
}

type StudentFilter struct {
	Search      string
	GroupNumber string
	Skip        uint64
	Limit       uint64
}

func studentListQuery(join string, f StudentFilter) sq.SelectBuilder {
	q := psql.Select(
		"s.id", "s.first_name", "s.last_name", "s.group_number",
		"u.id", "u.username", "u.email", "u.role_id", "u.registration_date_time", "u.photo_url",
	).
		From("students s").
		Join("users u ON " + join)
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(sq.Or{
			sq.ILike{"s.first_name": pattern},
			sq.ILike{"s.last_name": pattern},
			sq.ILike{"u.username": pattern},
		})
	}
	if f.GroupNumber != "" {
		q = q.Where(sq.Eq{"s.group_number": f.GroupNumber})
	}
	return q.OrderBy("s.id").Offset(f.Skip).Limit(f.Limit)
}

func scanStudentWithUser(row pgx.Row) (model.StudentWithUser, error) {
	var st model.StudentWithUser
	var user model.User
	err := row.Scan(
		&st.ID, &st.FirstName, &st.LastName, &st.GroupNumber,
		&user.ID, &user.Username, &user.Email, &user.RoleID,
		&user.RegistrationDateTime, &user.PhotoURL,
	)
	if err != nil {
		return model.StudentWithUser{}, err
	}
	st.UserID = user.ID
	st.User = &user
	return st, nil
}

func (s *Store) ListStudents(ctx context.Context, f StudentFilter) ([]model.StudentWithUser, error) {
	query, args, err := studentListQuery(s.profileJoin("s"), f).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.StudentWithUser{}
	for rows.Next() {
		student, err := scanStudentWithUser(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func (s *Store) GetStudent(ctx context.Context, studentID int64) (model.StudentWithUser, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT s.id, s.first_name, s.last_name, s.group_number,
		       u.id, u.username, u.email, u.role_id, u.registration_date_time, u.photo_url
		FROM students s
		JOIN users u ON `+s.profileJoin("s")+`
		WHERE s.id = $1
	`, studentID)
	return scanStudentWithUser(row)
}

type StudentUpdate struct {
	FirstName   *string
	LastName    *string
	GroupNumber *string
}

func studentUpdateQuery(studentID int64, upd StudentUpdate) (sq.UpdateBuilder, bool) {
	q := psql.Update("students")
	set := false
	if upd.FirstName != nil {
		q = q.Set("first_name", *upd.FirstName)
		set = true
	}
	if upd.LastName != nil {
		q = q.Set("last_name", *upd.LastName)
		set = true
	}
	if upd.GroupNumber != nil {
		q = q.Set("group_number", *upd.GroupNumber)
		set = true
	}
	return q.Where(sq.Eq{"id": studentID}), set
}

func (s *Store) UpdateStudent(ctx context.Context, studentID int64, upd StudentUpdate) (model.StudentWithUser, error) {
	builder, set := studentUpdateQuery(studentID, upd)
	if !set {
		return model.StudentWithUser{}, ErrEmptyUpdate
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return model.StudentWithUser{}, err
	}
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return model.StudentWithUser{}, err
	}
	if tag.RowsAffected() == 0 {
		return model.StudentWithUser{}, pgx.ErrNoRows
	}
	return s.GetStudent(ctx, studentID)
}
