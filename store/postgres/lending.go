package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
	"github.com/jrsteele09/go-lending-server/lending"
)

var _ lending.LoanRepo = (*LoanRepo)(nil)

// LoanRepo implements lending.LoanRepo over Postgres.
type LoanRepo struct {
	pool *pgxpool.Pool
}

func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

const loanColumns = `id, user_id, book_id, book_title, borrowed_at, returned_at, status`

func (r *LoanRepo) Create(ctx context.Context, loan *lending.Loan) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO loans (id, user_id, book_id, book_title, borrowed_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, loan.ID, loan.UserID, loan.BookID, loan.BookTitle, loan.BorrowedAt, loan.Status)
	if err != nil {
		return apperrors.Wrapf(err, "postgres: insert loan")
	}
	return nil
}

func (r *LoanRepo) GetActiveByBook(ctx context.Context, bookID string) (*lending.Loan, error) {
	var loan lending.Loan
	err := r.pool.QueryRow(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE book_id = $1 AND status = $2
	`, bookID, lending.StatusActive).
		Scan(&loan.ID, &loan.UserID, &loan.BookID, &loan.BookTitle, &loan.BorrowedAt, &loan.ReturnedAt, &loan.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrLoanNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "postgres: select active loan")
	}
	return &loan, nil
}

// Close marks the loan returned. The status guard in the WHERE clause makes
// a double close fail instead of silently rewriting returned_at.
func (r *LoanRepo) Close(ctx context.Context, loanID string, returnedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE loans SET status = $3, returned_at = $2
		WHERE id = $1 AND status = $4
	`, loanID, returnedAt, lending.StatusReturned, lending.StatusActive)
	if err != nil {
		return apperrors.Wrapf(err, "postgres: close loan")
	}
	if tag.RowsAffected() == 0 {
		var status lending.LoanStatus
		err := r.pool.QueryRow(ctx, `SELECT status FROM loans WHERE id = $1`, loanID).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrLoanNotFound
		}
		if err != nil {
			return apperrors.Wrapf(err, "postgres: check loan status")
		}
		return apperrors.ErrLoanClosed
	}
	return nil
}

func (r *LoanRepo) ListByUser(ctx context.Context, userID string) ([]*lending.Loan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE user_id = $1
		ORDER BY borrowed_at DESC
	`, userID)
	if err != nil {
		return nil, apperrors.Wrapf(err, "postgres: list loans")
	}
	defer rows.Close()

	var loans []*lending.Loan
	for rows.Next() {
		var loan lending.Loan
		if err := rows.Scan(&loan.ID, &loan.UserID, &loan.BookID, &loan.BookTitle, &loan.BorrowedAt, &loan.ReturnedAt, &loan.Status); err != nil {
			return nil, apperrors.Wrapf(err, "postgres: scan loan")
		}
		loans = append(loans, &loan)
	}
	return loans, rows.Err()
}
