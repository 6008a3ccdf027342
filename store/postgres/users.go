package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
	"github.com/jrsteele09/go-lending-server/users"
)

var _ users.UserRepo = (*UserRepo)(nil)

// UserRepo implements users.UserRepo over Postgres.
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *users.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, date_joined)
		VALUES ($1, $2, $3, $4, $5)
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.DateJoined)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "users_username_key":
				return apperrors.ErrUsernameTaken
			case "users_email_key":
				return apperrors.ErrEmailTaken
			}
		}
		return apperrors.Wrapf(err, "postgres: insert user")
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.getWhere(ctx, "id = $1", id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.getWhere(ctx, "username = $1", username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.getWhere(ctx, "email = $1", email)
}

func (r *UserRepo) SetLastLogin(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, time.Now())
	if err != nil {
		return apperrors.Wrapf(err, "postgres: set last login")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) getWhere(ctx context.Context, where string, arg any) (*users.User, error) {
	var (
		user      users.User
		lastLogin *time.Time
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, date_joined, last_login
		FROM users
		WHERE `+where,
		arg,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.DateJoined, &lastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "postgres: select user")
	}

	if lastLogin != nil {
		user.LastLogin = *lastLogin
	}
	return &user, nil
}
