package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
)

// Connect opens a pgx pool against the configured database and verifies it
// is reachable before the server starts taking requests.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, apperrors.Wrapf(err, "postgres: create pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperrors.Wrapf(err, "postgres: ping")
	}

	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY,
    username text NOT NULL UNIQUE,
    email text NOT NULL UNIQUE,
    password_hash text NOT NULL,
    date_joined timestamptz NOT NULL DEFAULT NOW(),
    last_login timestamptz
);

CREATE TABLE IF NOT EXISTS books (
    id uuid PRIMARY KEY,
    isbn text NOT NULL UNIQUE,
    title text NOT NULL,
    author text NOT NULL,
    year int NOT NULL,
    image_path text NOT NULL DEFAULT '',
    availability text NOT NULL DEFAULT 'available'
);

CREATE TABLE IF NOT EXISTS loans (
    id uuid PRIMARY KEY,
    user_id uuid NOT NULL REFERENCES users(id),
    book_id uuid NOT NULL,
    book_title text NOT NULL,
    borrowed_at timestamptz NOT NULL,
    returned_at timestamptz,
    status text NOT NULL DEFAULT 'active'
);

CREATE INDEX IF NOT EXISTS loans_user_id_idx ON loans (user_id, borrowed_at DESC);
CREATE INDEX IF NOT EXISTS loans_book_active_idx ON loans (book_id) WHERE status = 'active';
`

// Migrate creates the schema when it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return apperrors.Wrapf(err, "postgres: migrate")
	}
	return nil
}
