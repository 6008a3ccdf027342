package lending

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-lending-server/catalog"
	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
	"github.com/jrsteele09/go-lending-server/internal/utils"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Service is the borrow/return state machine over the pair
// (book availability, loan record). Transitions are reached only after the
// auth gate has passed; the service still re-checks borrower identity at
// return time rather than trusting the caller.
//
// Each transition is a single atomic check-and-set: a per-book mutex keeps
// in-process transitions on the same book from interleaving, and the
// store's compare-and-set availability update guards against anything that
// slips past it (e.g. a second server instance sharing the database).
type Service struct {
	books catalog.BookRepo
	loans LoanRepo
	locks bookLocks
}

func NewService(books catalog.BookRepo, loans LoanRepo) *Service {
	return &Service{
		books: books,
		loans: loans,
		locks: bookLocks{locks: make(map[string]*sync.Mutex)},
	}
}

// Borrow opens a loan on an available book. On precondition failure
// (book already borrowed) nothing is written and ErrBookUnavailable is
// returned; the caller reports it and takes no other action.
func (s *Service) Borrow(ctx context.Context, userID, bookID string) (*Loan, error) {
	unlock := s.locks.lock(bookID)
	defer unlock()

	// Cancelled requests must not commit a half-finished transition.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.Availability != catalog.Available {
		return nil, apperrors.ErrBookUnavailable
	}

	if err := s.books.UpdateAvailability(ctx, bookID, catalog.Available, catalog.Borrowed); err != nil {
		if apperrors.Is(err, apperrors.ErrAvailabilityConflict) {
			return nil, apperrors.ErrBookUnavailable
		}
		return nil, apperrors.Wrapf(err, "borrow: mark book %s borrowed", bookID)
	}

	loan := &Loan{
		ID:         uuid.New().String(),
		UserID:     userID,
		BookID:     bookID,
		BookTitle:  book.Title,
		BorrowedAt: NowTimeFunc(),
		Status:     StatusActive,
	}
	if err := s.loans.Create(ctx, loan); err != nil {
		// Both writes are one logical unit: roll the availability back so
		// the book is not stranded as borrowed with no loan.
		if revertErr := s.books.UpdateAvailability(ctx, bookID, catalog.Borrowed, catalog.Available); revertErr != nil {
			log.Err(revertErr).Str("book_id", bookID).Msg("borrow: failed to revert availability")
		}
		return nil, apperrors.Wrapf(err, "borrow: create loan for book %s", bookID)
	}

	return loan, nil
}

// Return closes the active loan on a book. Only the actor who opened the
// loan may close it. On precondition failure (no active loan, wrong
// borrower, already returned) nothing is written; calling Return twice for
// the same loan fails the second time with ErrLoanNotFound.
func (s *Service) Return(ctx context.Context, userID, bookID string) (*Loan, error) {
	unlock := s.locks.lock(bookID)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loan, err := s.loans.GetActiveByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, apperrors.ErrLoanNotOwned
	}

	// Close the loan before freeing the book. A borrow elsewhere (another
	// instance on a shared database) can only pass its availability CAS
	// once the book is available again, and by then the old loan is
	// closed, so two active loans never coexist on one book.
	returnedAt := NowTimeFunc()
	if err := s.loans.Close(ctx, loan.ID, returnedAt); err != nil {
		return nil, err
	}

	if err := s.books.UpdateAvailability(ctx, bookID, catalog.Borrowed, catalog.Available); err != nil {
		log.Err(err).Str("book_id", bookID).Msg("return: failed to mark book available")
		return nil, apperrors.Wrapf(err, "return: mark book %s available", bookID)
	}

	loan.Status = StatusReturned
	loan.ReturnedAt = utils.Ptr(returnedAt)
	return loan, nil
}

// History lists an actor's loans, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]*Loan, error) {
	return s.loans.ListByUser(ctx, userID)
}

// bookLocks hands out one mutex per book ID. Entries are never removed;
// the map is bounded by the size of the catalog.
type bookLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (b *bookLocks) lock(bookID string) func() {
	b.mu.Lock()
	m, ok := b.locks[bookID]
	if !ok {
		m = &sync.Mutex{}
		b.locks[bookID] = m
	}
	b.mu.Unlock()

	m.Lock()
	return m.Unlock
}
