package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
	"github.com/jrsteele09/go-lending-server/lending"
	"github.com/jrsteele09/go-lending-server/session"
)

// TransactionsPageData contains data for rendering the transactions page
type TransactionsPageData struct {
	Page
	Loans []*lending.Loan
}

// TransactionsHandler lists the actor's borrow history (GET /transactions)
func (s *Server) TransactionsHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("transactions.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse transactions template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		if !s.requireAuthenticated(w, r, sess, "Please log in to get the transaction details", RouteTransactions) {
			return
		}

		loans, err := s.lending.History(r.Context(), sess.Actor().ID)
		if err != nil {
			log.Err(err).Str("userID", sess.Actor().ID).Msg("failed to load transactions")
			s.renderErrorPage(w, http.StatusInternalServerError, "Error retrieving transactions")
			return
		}

		data := TransactionsPageData{
			Page:  s.newPage(r, sess, "Transactions"),
			Loans: loans,
		}
		render(w, tmpl, http.StatusOK, data)
	}
}

// BorrowBookHandler borrows a book for the actor (POST /transactions/borrow)
func (s *Server) BorrowBookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)

		if err := r.ParseForm(); err != nil {
			s.renderErrorPage(w, http.StatusBadRequest, "Invalid form data")
			return
		}
		isbn := strings.TrimSpace(r.FormValue("isbn"))
		bookPath := RouteBooks + "/" + isbn

		// The gate runs before any catalog lookup so an unauthenticated
		// request never learns whether the book exists.
		if !s.requireAuthenticated(w, r, sess, "Please log in to borrow the book.", bookPath) {
			return
		}

		book, err := s.books.GetByISBN(r.Context(), isbn)
		if apperrors.Is(err, apperrors.ErrBookNotFound) {
			sess.SetFlash(session.NewFlash(session.SeverityError, "Book not found."))
			http.Redirect(w, r, RouteBooks, http.StatusSeeOther)
			return
		}
		if err != nil {
			log.Err(err).Str("isbn", isbn).Msg("failed to load book for borrow")
			s.renderErrorPage(w, http.StatusInternalServerError, "Error retrieving the book")
			return
		}

		if _, err := s.lending.Borrow(r.Context(), sess.Actor().ID, book.ID); err != nil {
			if apperrors.Is(err, apperrors.ErrBookUnavailable) {
				sess.SetFlash(session.NewFlash(session.SeverityError, "The book is currently unavailable."))
				http.Redirect(w, r, bookPath, http.StatusSeeOther)
				return
			}
			log.Err(err).Str("isbn", isbn).Msg("failed to borrow book")
			s.renderErrorPage(w, http.StatusInternalServerError, "Error borrowing the book")
			return
		}

		sess.SetFlash(session.NewFlash(session.SeveritySuccess, "Book borrowed successfully."))
		http.Redirect(w, r, bookPath, http.StatusSeeOther)
	}
}

// ReturnBookHandler returns a borrowed book (POST /transactions/return)
func (s *Server) ReturnBookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)

		if err := r.ParseForm(); err != nil {
			s.renderErrorPage(w, http.StatusBadRequest, "Invalid form data")
			return
		}
		isbn := strings.TrimSpace(r.FormValue("isbn"))
		bookPath := RouteBooks + "/" + isbn

		if !s.requireAuthenticated(w, r, sess, "Please log in to return the book.", bookPath) {
			return
		}

		book, err := s.books.GetByISBN(r.Context(), isbn)
		if apperrors.Is(err, apperrors.ErrBookNotFound) {
			sess.SetFlash(session.NewFlash(session.SeverityError, "Book not found."))
			http.Redirect(w, r, RouteBooks, http.StatusSeeOther)
			return
		}
		if err != nil {
			log.Err(err).Str("isbn", isbn).Msg("failed to load book for return")
			s.renderErrorPage(w, http.StatusInternalServerError, "Error retrieving the book")
			return
		}

		if _, err := s.lending.Return(r.Context(), sess.Actor().ID, book.ID); err != nil {
			// A missing, closed or foreign loan all read the same to the
			// caller so the response does not leak who holds the book.
			if apperrors.Is(err, apperrors.ErrLoanNotFound) ||
				apperrors.Is(err, apperrors.ErrLoanClosed) ||
				apperrors.Is(err, apperrors.ErrLoanNotOwned) {
				sess.SetFlash(session.NewFlash(session.SeverityError, "Transaction not found or already returned."))
				http.Redirect(w, r, bookPath, http.StatusSeeOther)
				return
			}
			log.Err(err).Str("isbn", isbn).Msg("failed to return book")
			s.renderErrorPage(w, http.StatusInternalServerError, "Error returning the book")
			return
		}

		sess.SetFlash(session.NewFlash(session.SeveritySuccess, "Book returned successfully."))
		http.Redirect(w, r, bookPath, http.StatusSeeOther)
	}
}
