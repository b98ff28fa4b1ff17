package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"campus/courses/internal/model"
)

func (s *Store) TeacherExists(ctx context.Context, teacherID int64) (bool, error) {
	return exists(ctx, s.pool, `SELECT 1 FROM teachers WHERE id = $1`, teacherID)
}

// CreateTeacher creates the backing user and the teacher profile in one
// transaction. The INSERT branches on the resolved profile link mode.
func (s *Store) CreateTeacher(ctx context.Context, user model.User, teacher model.Teacher) (model.TeacherWithUser, error) {
	roleExists, err := s.RoleExists(ctx, user.RoleID)
	if err != nil {
		return model.TeacherWithUser{}, err
	}
	if !roleExists {
		return model.TeacherWithUser{}, ErrRoleMissing
	}
	taken, err := s.UserTaken(ctx, user.Username, user.Email)
	if err != nil {
		return model.TeacherWithUser{}, err
	}
	if taken {
		return model.TeacherWithUser{}, ErrDuplicate
	}

	var result model.TeacherWithUser
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

		teacher.UserID = user.ID
		if s.link == LinkUserID {
			err = tx.QueryRow(ctx, `
				INSERT INTO teachers (user_id, first_name, last_name, qualification, bio)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, user.ID, teacher.FirstName, teacher.LastName, teacher.Qualification, teacher.Bio).
				Scan(&teacher.ID)
		} else {
			err = tx.QueryRow(ctx, `
				INSERT INTO teachers (id, first_name, last_name, qualification, bio)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, user.ID, teacher.FirstName, teacher.LastName, teacher.Qualification, teacher.Bio).
				Scan(&teacher.ID)
		}
		return err
	})
	if isUniqueViolation(err) {
		return model.TeacherWithUser{}, ErrDuplicate
	}
	if err != nil {
		return model.TeacherWithUser{}, err
	}

	result.Teacher = teacher
	result.User = &user
	return result, nil
}

type TeacherFilter struct {
	Search string
	Skip   uint64
	Limit  uint64
}

func teacherListQuery(join string, f TeacherFilter) sq.SelectBuilder {
	q := psql.Select(
		"t.id", "t.first_name", "t.last_name", "t.qualification", "t.bio",
		"u.id", "u.username", "u.email", "u.role_id", "u.registration_date_time", "u.photo_url",
	).
		From("teachers t").
		Join("users u ON " + join)
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(sq.Or{
			sq.ILike{"t.first_name": pattern},
			sq.ILike{"t.last_name": pattern},
			sq.ILike{"t.qualification": pattern},
			sq.ILike{"u.username": pattern},
		})
	}
	return q.OrderBy("t.id").Offset(f.Skip).Limit(f.Limit)
}

func scanTeacherWithUser(row pgx.Row) (model.TeacherWithUser, error) {
	var t model.TeacherWithUser
	var user model.User
	err := row.Scan(
		&t.ID, &t.FirstName, &t.LastName, &t.Qualification, &t.Bio,
		&user.ID, &user.Username, &user.Email, &user.RoleID,
		&user.RegistrationDateTime, &user.PhotoURL,
	)
	if err != nil {
		return model.TeacherWithUser{}, err
	}
	t.UserID = user.ID
	t.User = &user
	return t, nil
}

func (s *Store) ListTeachers(ctx context.Context, f TeacherFilter) ([]model.TeacherWithUser, error) {
	query, args, err := teacherListQuery(s.profileJoin("t"), f).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teachers := []model.TeacherWithUser{}
	for rows.Next() {
		teacher, err := scanTeacherWithUser(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, teacher)
	}
	return teachers, rows.Err()
}

func (s *Store) GetTeacher(ctx context.Context, teacherID int64) (model.TeacherWithUser, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT t.id, t.first_name, t.last_name, t.qualification, t.bio,
		       u.id, u.username, u.email, u.role_id, u.registration_date_time, u.photo_url
		FROM teachers t
		JOIN users u ON `+s.profileJoin("t")+`
		WHERE t.id = $1
	`, teacherID)
	return scanTeacherWithUser(row)
}

type TeacherUpdate struct {
	FirstName     *string
	LastName      *string
	Qualification *string
	Bio           *string
}

func teacherUpdateQuery(teacherID int64, upd TeacherUpdate) (sq.UpdateBuilder, bool) {
	q := psql.Update("teachers")
	set := false
	if upd.FirstName != nil {
		q = q.Set("first_name", *upd.FirstName)
		set = true
	}
	if upd.LastName != nil {
		q = q.Set("last_name", *upd.LastName)
		set = true
	}
	if upd.Qualification != nil {
		q = q.Set("qualification", *upd.Qualification)
		set = true
	}
	if upd.Bio != nil {
		q = q.Set("bio", *upd.Bio)
		set = true
	}
	return q.Where(sq.Eq{"id": teacherID}), set
}

func (s *Store) UpdateTeacher(ctx context.Context, teacherID int64, upd TeacherUpdate) (model.TeacherWithUser, error) {
	builder, set := teacherUpdateQuery(teacherID, upd)
	if !set {
		return model.TeacherWithUser{}, ErrEmptyUpdate
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return model.TeacherWithUser{}, err
	}
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return model.TeacherWithUser{}, err
	}
	if tag.RowsAffected() == 0 {
		return model.TeacherWithUser{}, pgx.ErrNoRows
	}
	return s.GetTeacher(ctx, teacherID)
}
