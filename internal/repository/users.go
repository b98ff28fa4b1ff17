package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"campus/courses/internal/model"
)

func (s *Store) ListRoles(ctx context.Context) ([]model.Role, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []model.Role{}
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (s *Store) GetRole(ctx context.Context, roleID int64) (model.Role, error) {
	var role model.Role
	err := s.pool.QueryRow(ctx, `SELECT id, name FROM roles WHERE id = $1`, roleID).
		Scan(&role.ID, &role.Name)
	return role, err
}

func (s *Store) RoleExists(ctx context.Context, roleID int64) (bool, error) {
	return exists(ctx, s.pool, `SELECT 1 FROM roles WHERE id = $1`, roleID)
}

// GetLoginUser returns the user and their stored role name for credential
// verification.
func (s *Store) GetLoginUser(ctx context.Context, username string) (model.User, string, error) {
	var user model.User
	var roleName string
	err := s.pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.role_id, u.registration_date_time, u.photo_url, r.name
		FROM users u
		JOIN roles r ON u.role_id = r.id
		WHERE u.username = $1
	`, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.RoleID,
		&user.RegistrationDateTime,
		&user.PhotoURL,
		&roleName,
	)
	return user, roleName, err
}

func (s *Store) GetUser(ctx context.Context, userID int64) (model.UserWithRole, error) {
	var user model.UserWithRole
	err := s.pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.email, u.role_id, u.registration_date_time, u.photo_url, r.id, r.name
		FROM users u
		JOIN roles r ON u.role_id = r.id
		WHERE u.id = $1
	`, userID).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.RoleID,
		&user.RegistrationDateTime,
		&user.PhotoURL,
		&user.Role.ID,
		&user.Role.Name,
	)
	return user, err
}

func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	return exists(ctx, s.pool, `SELECT 1 FROM users WHERE id = $1`, userID)
}

func (s *Store) UserTaken(ctx context.Context, username, email string) (bool, error) {
	return exists(ctx, s.pool, `SELECT 1 FROM users WHERE username = $1 OR email = $2`, username, email)
}

type UserFilter struct {
	Search string
	Skip   uint64
	Limit  uint64
}

func userListQuery(f UserFilter) sq.SelectBuilder {
	q := psql.Select(
		"u.id", "u.username", "u.email", "u.role_id", "u.registration_date_time", "u.photo_url",
		"r.id", "r.name",
	).
		From("users u").
		Join("roles r ON u.role_id = r.id")
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(sq.Or{sq.ILike{"u.username": pattern}, sq.ILike{"u.email": pattern}})
	}
	return q.OrderBy("u.id").Offset(f.Skip).Limit(f.Limit)
}

func (s *Store) ListUsers(ctx context.Context, f UserFilter) ([]model.UserWithRole, error) {
	query, args, err := userListQuery(f).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.UserWithRole{}
	for rows.Next() {
		var user model.UserWithRole
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.RoleID,
			&user.RegistrationDateTime, &user.PhotoURL,
			&user.Role.ID, &user.Role.Name,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	roleExists, err := s.RoleExists(ctx, user.RoleID)
	if err != nil {
		return model.User{}, err
	}
	if !roleExists {
		return model.User{}, ErrRoleMissing
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, email, role_id, photo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, registration_date_time
	`, user.Username, user.PasswordHash, user.Email, user.RoleID, user.PhotoURL).
		Scan(&user.ID, &user.RegistrationDateTime)
	if isUniqueViolation(err) {
		return model.User{}, ErrDuplicate
	}
	if isForeignKeyViolation(err) {
		return model.User{}, ErrRoleMissing
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

type UserUpdate struct {
	Email    *string
	PhotoURL *string
	RoleID   *int64
}

func userUpdateQuery(userID int64, upd UserUpdate) (sq.UpdateBuilder, bool) {
	q := psql.Update("users")
	set := false
	if upd.Email != nil {
		q = q.Set("email", *upd.Email)
		set = true
	}
	if upd.PhotoURL != nil {
		q = q.Set("photo_url", *upd.PhotoURL)
		set = true
	}
	if upd.RoleID != nil {
		q = q.Set("role_id", *upd.RoleID)
		set = true
	}
	return q.Where(sq.Eq{"id": userID}), set
}

func (s *Store) UpdateUser(ctx context.Context, userID int64, upd UserUpdate) (model.UserWithRole, error) {
	builder, set := userUpdateQuery(userID, upd)
	if !set {
		return model.UserWithRole{}, ErrEmptyUpdate
	}
	if upd.RoleID != nil {
		roleExists, err := s.RoleExists(ctx, *upd.RoleID)
		if err != nil {
			return model.UserWithRole{}, err
		}
		if !roleExists {
			return model.UserWithRole{}, ErrRoleMissing
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return model.UserWithRole{}, err
	}
	tag, err := s.pool.Exec(ctx, query, args...)
	if isUniqueViolation(err) {
		return model.UserWithRole{}, ErrDuplicate
	}
	if err != nil {
		return model.UserWithRole{}, err
	}
	if tag.RowsAffected() == 0 {
		return model.UserWithRole{}, pgx.ErrNoRows
	}
	return s.GetUser(ctx, userID)
}

func (s *Store) SetUserPhoto(ctx context.Context, userID int64, photoURL string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET photo_url = $1 WHERE id = $2`, photoURL, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
