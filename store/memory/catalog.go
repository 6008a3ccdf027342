package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jrsteele09/go-lending-server/catalog"
	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
)

var _ catalog.BookRepo = (*BookRepo)(nil)

// BookRepo is an in-memory implementation of catalog.BookRepo.
type BookRepo struct {
	mu      sync.RWMutex
	books   map[string]*catalog.Book // id -> book
	isbnIDs map[string]string        // isbn -> id
}

func NewBookRepo() *BookRepo {
	return &BookRepo{
		books:   make(map[string]*catalog.Book),
		isbnIDs: make(map[string]string),
	}
}

func (r *BookRepo) Create(_ context.Context, book *catalog.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.isbnIDs[book.ISBN]; ok {
		return apperrors.ErrISBNExists
	}

	stored := *book
	r.books[book.ID] = &stored
	r.isbnIDs[book.ISBN] = book.ID
	return nil
}

func (r *BookRepo) GetByID(_ context.Context, id string) (*catalog.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(id)
}

func (r *BookRepo) GetByISBN(_ context.Context, isbn string) (*catalog.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.isbnIDs[isbn]
	if !ok {
		return nil, apperrors.ErrBookNotFound
	}
	return r.get(id)
}

func (r *BookRepo) List(_ context.Context) ([]*catalog.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]*catalog.Book, 0, len(r.books))
	for _, book := range r.books {
		copied := *book
		books = append(books, &copied)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}

func (r *BookRepo) SearchByTitle(_ context.Context, query string) ([]*catalog.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query = strings.ToLower(query)
	var books []*catalog.Book
	for _, book := range r.books {
		if strings.Contains(strings.ToLower(book.Title), query) {
			copied := *book
			books = append(books, &copied)
		}
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}

func (r *BookRepo) Update(_ context.Context, book *catalog.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.books[book.ID]
	if !ok {
		return apperrors.ErrBookNotFound
	}
	if existing.ISBN != book.ISBN {
		if _, taken := r.isbnIDs[book.ISBN]; taken {
			return apperrors.ErrISBNExists
		}
		delete(r.isbnIDs, existing.ISBN)
		r.isbnIDs[book.ISBN] = book.ID
	}

	// Availability is owned by the lending state machine and only moves
	// through UpdateAvailability; an edit carrying a stale copy must not
	// flip a borrowed book back to available.
	stored := *book
	stored.Availability = existing.Availability
	r.books[book.ID] = &stored
	return nil
}

func (r *BookRepo) DeleteByISBN(_ context.Context, isbn string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.isbnIDs[isbn]
	if !ok {
		return apperrors.ErrBookNotFound
	}
	delete(r.isbnIDs, isbn)
	delete(r.books, id)
	return nil
}

// UpdateAvailability flips the availability only when the stored state
// still matches `from`. The check and the write happen under one lock,
// which is what makes it usable as a compare-and-set.
func (r *BookRepo) UpdateAvailability(_ context.Context, id string, from, to catalog.Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok {
		return apperrors.ErrBookNotFound
	}
	if book.Availability != from {
		return apperrors.ErrAvailabilityConflict
	}
	book.Availability = to
	return nil
}

func (r *BookRepo) get(id string) (*catalog.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, apperrors.ErrBookNotFound
	}
	copied := *book
	return &copied, nil
}
