package catalog

import "context"

// BookRepo is the persistence boundary for the catalog.
//
// UpdateAvailability is a compare-and-set: the write succeeds only when the
// stored availability still equals `from`, otherwise it fails with
// ErrAvailabilityConflict and no write occurs. The lending state machine
// relies on this to keep concurrent transitions on the same book from both
// succeeding.
type BookRepo interface {
	Create(ctx context.Context, book *Book) error
	GetByID(ctx context.Context, id string) (*Book, error)
	GetByISBN(ctx context.Context, isbn string) (*Book, error)
	List(ctx context.Context) ([]*Book, error)
	SearchByTitle(ctx context.Context, query string) ([]*Book, error)
	Update(ctx context.Context, book *Book) error
	DeleteByISBN(ctx context.Context, isbn string) error
	UpdateAvailability(ctx context.Context, id string, from, to Availability) error
}
