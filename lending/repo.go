package lending

import (
	"context"
	"time"
)

// LoanRepo is the persistence boundary for loan records.
//
// Close succeeds only while the loan is still active; closing an already
// returned loan fails with ErrLoanClosed and no write occurs.
type LoanRepo interface {
	Create(ctx context.Context, loan *Loan) error
	GetActiveByBook(ctx context.Context, bookID string) (*Loan, error)
	Close(ctx context.Context, loanID string, returnedAt time.Time) error
	ListByUser(ctx context.Context, userID string) ([]*Loan, error)
}
