package lending

import "time"

// LoanStatus is the lifecycle state of a loan record.
type LoanStatus string

const (
	// StatusActive means the book is out with the borrower.
	StatusActive LoanStatus = "active"
	// StatusReturned means the loan has been closed. Loans are never
	// deleted, only closed.
	StatusReturned LoanStatus = "returned"
)

// Loan records one book being borrowed by one actor between borrow and
// return. At most one active loan exists per book at a time; the state
// machine enforces this, not the store.
type Loan struct {
	ID         string     `json:"id,omitempty"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	BookTitle  string     `json:"book_title"` // denormalized so history survives catalog deletes
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	Status     LoanStatus `json:"status"`
}
