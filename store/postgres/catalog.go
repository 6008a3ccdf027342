package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jrsteele09/go-lending-server/catalog"
	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
)

var _ catalog.BookRepo = (*BookRepo)(nil)

// BookRepo implements catalog.BookRepo over Postgres.
type BookRepo struct {
	pool *pgxpool.Pool
}

func NewBookRepo(pool *pgxpool.Pool) *BookRepo {
	return &BookRepo{pool: pool}
}

const bookColumns = `id, isbn, title, author, year, image_path, availability`

func (r *BookRepo) Create(ctx context.Context, book *catalog.Book) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO books (id, isbn, title, author, year, image_path, availability)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, book.ID, book.ISBN, book.Title, book.Author, book.Year, book.ImagePath, book.Availability)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrISBNExists
		}
		return apperrors.Wrapf(err, "postgres: insert book")
	}
	return nil
}

func (r *BookRepo) GetByID(ctx context.Context, id string) (*catalog.Book, error) {
	return r.getWhere(ctx, "id = $1", id)
}

func (r *BookRepo) GetByISBN(ctx context.Context, isbn string) (*catalog.Book, error) {
	return r.getWhere(ctx, "isbn = $1", isbn)
}

func (r *BookRepo) List(ctx context.Context) ([]*catalog.Book, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY title`)
	if err != nil {
		return nil, apperrors.Wrapf(err, "postgres: list books")
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *BookRepo) SearchByTitle(ctx context.Context, query string) ([]*catalog.Book, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookColumns+`
		FROM books
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY title
	`, query)
	if err != nil {
		return nil, apperrors.Wrapf(err, "postgres: search books")
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *BookRepo) Update(ctx context.Context, book *catalog.Book) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE books
		SET isbn = $2, title = $3, author = $4, year = $5, image_path = $6
		WHERE id = $1
	`, book.ID, book.ISBN, book.Title, book.Author, book.Year, book.ImagePath)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrISBNExists
		}
		return apperrors.Wrapf(err, "postgres: update book")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrBookNotFound
	}
	return nil
}

func (r *BookRepo) DeleteByISBN(ctx context.Context, isbn string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE isbn = $1`, isbn)
	if err != nil {
		return apperrors.Wrapf(err, "postgres: delete book")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrBookNotFound
	}
	return nil
}

// UpdateAvailability is a compare-and-set: the conditional UPDATE only
// touches the row when the availability still matches `from`, so two
// concurrent transitions on the same book cannot both succeed even across
// server instances.
func (r *BookRepo) UpdateAvailability(ctx context.Context, id string, from, to catalog.Availability) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE books SET availability = $3
		WHERE id = $1 AND availability = $2
	`, id, from, to)
	if err != nil {
		return apperrors.Wrapf(err, "postgres: update availability")
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing book from a lost race.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return apperrors.ErrAvailabilityConflict
	}
	return nil
}

func (r *BookRepo) getWhere(ctx context.Context, where string, arg any) (*catalog.Book, error) {
	var book catalog.Book
	err := r.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE `+where, arg).
		Scan(&book.ID, &book.ISBN, &book.Title, &book.Author, &book.Year, &book.ImagePath, &book.Availability)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrBookNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "postgres: select book")
	}
	return &book, nil
}

func scanBooks(rows pgx.Rows) ([]*catalog.Book, error) {
	var books []*catalog.Book
	for rows.Next() {
		var book catalog.Book
		if err := rows.Scan(&book.ID, &book.ISBN, &book.Title, &book.Author, &book.Year, &book.ImagePath, &book.Availability); err != nil {
			return nil, apperrors.Wrapf(err, "postgres: scan book")
		}
		books = append(books, &book)
	}
	return books, rows.Err()
}
