package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors the HTTP layer maps onto status codes. The *Missing errors
// mean a caller-supplied reference does not exist (400), not that the target
// resource is absent (404, reported as pgx.ErrNoRows).
var (
	ErrDuplicate      = errors.New("duplicate record")
	ErrEmptyUpdate    = errors.New("no fields to update")
	ErrRoleMissing    = errors.New("role does not exist")
	ErrTeacherMissing = errors.New("teacher does not exist")
	ErrStudentMissing = errors.New("student does not exist")
	ErrCourseMissing  = errors.New("course does not exist")
)

// ProfileLink selects how teacher/student rows reference their backing user.
// Legacy deployments share the primary key with users; newer ones carry an
// explicit user_id column.
type ProfileLink string

const (
	LinkUserID   ProfileLink = "user_id"
	LinkSharedID ProfileLink = "shared_id"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Store struct {
	pool *pgxpool.Pool
	link ProfileLink
}

func NewStore(pool *pgxpool.Pool, link ProfileLink) *Store {
	return &Store{pool: pool, link: link}
}

// ErrInvalidProfileLink reports a PROFILE_LINK value outside
// {auto, user_id, shared_id}.
var ErrInvalidProfileLink = errors.New("invalid profile link mode")

// ResolveProfileLink resolves the profile/user linking mode once at startup.
// An explicit mode short-circuits; "auto" probes information_schema. Probe
// errors surface to the caller so the fallback is logged, never silent, and
// an unrecognized mode fails outright instead of being probed over.
func ResolveProfileLink(ctx context.Context, pool *pgxpool.Pool, configured string) (ProfileLink, error) {
	switch configured {
	case string(LinkUserID):
		return LinkUserID, nil
	case string(LinkSharedID):
		return LinkSharedID, nil
	case "auto", "":
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidProfileLink, configured)
	}
	var hasColumn bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM information_schema.columns
			WHERE table_name = 'teachers' AND column_name = 'user_id'
		)
	`).Scan(&hasColumn)
	if err != nil {
		return LinkSharedID, err
	}
	if hasColumn {
		return LinkUserID, nil
	}
	return LinkSharedID, nil
}

func (s *Store) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func exists(ctx context.Context, q querier, query string, args ...any) (bool, error) {
	var found bool
	err := q.QueryRow(ctx, `SELECT EXISTS (`+query+`)`, args...).Scan(&found)
	return found, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// profileJoin is the users join condition for a teacher/student table alias.
func (s *Store) profileJoin(alias string) string {
	if s.link == LinkUserID {
		return alias + ".user_id = u.id"
	}
	return alias + ".id = u.id"
}
