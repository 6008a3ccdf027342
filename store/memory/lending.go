package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
	"github.com/jrsteele09/go-lending-server/internal/utils"
	"github.com/jrsteele09/go-lending-server/lending"
)

var _ lending.LoanRepo = (*LoanRepo)(nil)

// LoanRepo is an in-memory implementation of lending.LoanRepo.
type LoanRepo struct {
	mu    sync.RWMutex
	loans map[string]*lending.Loan // id -> loan
}

func NewLoanRepo() *LoanRepo {
	return &LoanRepo{loans: make(map[string]*lending.Loan)}
}

func (r *LoanRepo) Create(_ context.Context, loan *lending.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *loan
	r.loans[loan.ID] = &stored
	return nil
}

func (r *LoanRepo) GetActiveByBook(_ context.Context, bookID string) (*lending.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, loan := range r.loans {
		if loan.BookID == bookID && loan.Status == lending.StatusActive {
			copied := *loan
			return &copied, nil
		}
	}
	return nil, apperrors.ErrLoanNotFound
}

func (r *LoanRepo) Close(_ context.Context, loanID string, returnedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan, ok := r.loans[loanID]
	if !ok {
		return apperrors.ErrLoanNotFound
	}
	if loan.Status != lending.StatusActive {
		return apperrors.ErrLoanClosed
	}

	loan.Status = lending.StatusReturned
	loan.ReturnedAt = utils.Ptr(returnedAt)
	return nil
}

func (r *LoanRepo) ListByUser(_ context.Context, userID string) ([]*lending.Loan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var loans []*lending.Loan
	for _, loan := range r.loans {
		if loan.UserID == userID {
			copied := *loan
			loans = append(loans, &copied)
		}
	}
	// Newest borrow first, the order the transactions page shows.
	sort.Slice(loans, func(i, j int) bool { return loans[i].BorrowedAt.After(loans[j].BorrowedAt) })
	return loans, nil
}
