package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-lending-server/catalog"
	apperrors "github.com/jrsteele09/go-lending-server/internal/errors"
	"github.com/jrsteele09/go-lending-server/session"
)

// BooksPageData contains data for rendering the book list page
type BooksPageData struct {
	Page
	ResultsTitle string
	Query        string
	Books        []*catalog.Book
}

// BookPageData contains data for rendering a single book page
type BookPageData struct {
	Page
	Book           *catalog.Book
	IsBookBorrowed bool // an active loan exists for this book
	IsOwnLoan      bool // ... and it belongs to the current actor
}

// DonatePageData contains data for rendering the donate/edit forms
type DonatePageData struct {
	Page
	Book *catalog.Book
}

// BooksListHandler lists the catalog (GET /books)
func (s *Server) BooksListHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("books.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse books template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)

		books, err := s.books.List(r.Context())
		if err != nil {
			log.Err(err).Msg("failed to list books")
			s.renderErrorPage(w, http.StatusInternalServerError, "Error retrieving books")
			return
		}

		data := BooksPageData{
			Page:         s.newPage(r, sess, "Book List"),
			ResultsTitle: "Book List",
			Books:        books,
		}
		render(w, tmpl, http.StatusOK, data)
	}
}

// BookSearchHandler searches book titles (GET /books/search?query=...)
func (s *Server) BookSearchHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("books.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse books template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)

		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			http.Redirect(w, r, RouteBooks, http.StatusSeeOther)
			return
		}

		books, err := s.books.SearchByTitle(r.Context(), query)
		if err != nil {
			log.Err(err).Str("query", query).Msg("failed to search books")
			s.renderErrorPage(w, http.StatusInternalServerError, "Error searching for books.")
			return
		}
		if len(books) == 0 {
			s.renderErrorPage(w, http.StatusNotFound, "No books found.")
			return
		}

		data := BooksPageData{
			Page:         s.newPage(r, sess, query+" - Search"),
			ResultsTitle: "Search Results for: " + query,
			Query:        query,
			Books:        books,
		}
		render(w, tmpl, http.StatusOK, data)
	}
}

// BookDetailHandler shows one book (GET /books/{isbn})
func (s *Server) BookDetailHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("book.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse book template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		isbn := r.PathValue("isbn")

		book, err := s.books.GetByISBN(r.Context(), isbn)
		if apperrors.Is(err, apperrors.ErrBookNotFound) {
			s.renderErrorPage(w, http.StatusNotFound, "Book not found")
			return
		}
		if err != nil {
			log.Err(err).Str("isbn", isbn).Msg("failed to load book")
			s.renderErrorPage(w, http.StatusInternalServerError, "Error retrieving the book")
			return
		}

		data := BookPageData{
			Page: s.newPage(r, sess, book.Title),
			Book: book,
		}

		loan, err := s.loans.GetActiveByBook(r.Context(), book.ID)
		switch {
		case err == nil:
			data.IsBookBorrowed = true
			data.IsOwnLoan = sess.Actor() != nil && loan.UserID == sess.Actor().ID
		case apperrors.Is(err, apperrors.ErrLoanNotFound):
			// No active loan.
		default:
			log.Err(err).Str("isbn", isbn).Msg("failed to load active loan")
			s.renderErrorPage(w, http.StatusInternalServerError, "Error retrieving the book")
			return
		}

		render(w, tmpl, http.StatusOK, data)
	}
}

// DonatePageHandler renders the donate form (GET /books/donate)
func (s *Server) DonatePageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("donate.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse donate template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		if !s.requireAuthenticated(w, r, sess, "Please log in to donate the book.", RouteBookDonate) {
			return
		}
		render(w, tmpl, http.StatusOK, DonatePageData{Page: s.newPage(r, sess, "Donate")})
	}
}

// DonateSubmissionHandler creates a catalog entry (POST /books/donate)
func (s *Server) DonateSubmissionHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("donate.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse donate template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		if !s.requireAuthenticated(w, r, sess, "Please log in to donate the book.", RouteBookDonate) {
			return
		}

		if err := r.ParseForm(); err != nil {
			s.renderErrorPage(w, http.StatusBadRequest, "Invalid form data")
			return
		}

		book, messages := bookFromForm(r)
		renderFormError := func(status int, messages ...string) {
			data := DonatePageData{Page: s.newPage(r, sess, "Donate"), Book: book}
			data.Flash = session.NewFlash(session.SeverityError, messages...)
			render(w, tmpl, status, data)
		}

		if len(messages) > 0 {
			renderFormError(http.StatusBadRequest, messages...)
			return
		}

		book.ID = uuid.New().String()
		book.Availability = catalog.Available

		if err := s.books.Create(r.Context(), book); err != nil {
			if apperrors.Is(err, apperrors.ErrISBNExists) {
				renderFormError(http.StatusBadRequest, "A book with this ISBN already exists.")
				return
			}
			log.Err(err).Str("isbn", book.ISBN).Msg("failed to create book")
			s.renderErrorPage(w, http.StatusInternalServerError, "Internal server error.")
			return
		}

		sess.SetFlash(session.NewFlash(session.SeveritySuccess, "Book donated successfully!"))
		http.Redirect(w, r, RouteBooks+"/"+book.ISBN, http.StatusSeeOther)
	}
}

// EditBookPageHandler renders the edit form (GET /books/edit/{isbn})
func (s *Server) EditBookPageHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("edit.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse edit template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		isbn := r.PathValue("isbn")
		if !s.requireAuthenticated(w, r, sess, "Please log in to edit the book.", "/books/edit/"+isbn) {
			return
		}

		book, err := s.books.GetByISBN(r.Context(), isbn)
		if apperrors.Is(err, apperrors.ErrBookNotFound) {
			sess.SetFlash(session.NewFlash(session.SeverityError, fmt.Sprintf("Book with ISBN %s not found", isbn)))
			http.Redirect(w, r, RouteBooks, http.StatusSeeOther)
			return
		}
		if err != nil {
			log.Err(err).Str("isbn", isbn).Msg("failed to load book for edit")
			s.renderErrorPage(w, http.StatusInternalServerError, "Error retrieving the book")
			return
		}

		render(w, tmpl, http.StatusOK, DonatePageData{Page: s.newPage(r, sess, "Edit"), Book: book})
	}
}

// EditBookSubmissionHandler updates a catalog entry (POST /books/edit/{isbn})
func (s *Server) EditBookSubmissionHandler() http.HandlerFunc {
	tmpl, err := ParseTemplate("edit.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse edit template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		isbn := r.PathValue("isbn")
		if !s.requireAuthenticated(w, r, sess, "Please log in to edit the book.", "/books/edit/"+isbn) {
			return
		}

		existing, err := s.books.GetByISBN(r.Context(), isbn)
		if apperrors.Is(err, apperrors.ErrBookNotFound) {
			sess.SetFlash(session.NewFlash(session.SeverityError, fmt.Sprintf("Book with ISBN %s not found", isbn)))
			http.Redirect(w, r, RouteBooks, http.StatusSeeOther)
			return
		}
		if err != nil {
			log.Err(err).Str("isbn", isbn).Msg("failed to load book for edit")
			s.renderErrorPage(w, http.StatusInternalServerError, "Error retrieving the book")
			return
		}

		if err := r.ParseForm(); err != nil {
			s.renderErrorPage(w, http.StatusBadRequest, "Invalid form data")
			return
		}

		book, messages := bookFromForm(r)
		if len(messages) > 0 {
			data := DonatePageData{Page: s.newPage(r, sess, "Edit"), Book: book}
			data.Flash = session.NewFlash(session.SeverityError, messages...)
			render(w, tmpl, http.StatusBadRequest, data)
			return
		}

		book.ID = existing.ID
		book.Availability = existing.Availability

		if err := s.books.Update(r.Context(), book); err != nil {
			if apperrors.Is(err, apperrors.ErrISBNExists) {
				data := DonatePageData{Page: s.newPage(r, sess, "Edit"), Book: book}
				data.Flash = session.NewFlash(session.SeverityError, "A book with this ISBN already exists.")
				render(w, tmpl, http.StatusBadRequest, data)
				return
			}
			log.Err(err).Str("isbn", isbn).Msg("failed to update book")
			s.renderErrorPage(w, http.StatusInternalServerError, "Error updating the book")
			return
		}

		sess.SetFlash(session.NewFlash(session.SeveritySuccess, "Book updated successfully."))
		http.Redirect(w, r, RouteBooks+"/"+book.ISBN, http.StatusSeeOther)
	}
}

// DeleteBookHandler removes a catalog entry (POST /books/{isbn}/delete)
func (s *Server) DeleteBookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(r)
		isbn := r.PathValue("isbn")
		if !s.requireAuthenticated(w, r, sess, "Please log in to delete the book.", RouteBooks+"/"+isbn) {
			return
		}

		err := s.books.DeleteByISBN(r.Context(), isbn)
		if apperrors.Is(err, apperrors.ErrBookNotFound) {
			sess.SetFlash(session.NewFlash(session.SeverityError, fmt.Sprintf("Book with ISBN %s not found", isbn)))
			http.Redirect(w, r, RouteBooks, http.StatusSeeOther)
			return
		}
		if err != nil {
			log.Err(err).Str("isbn", isbn).Msg("failed to delete book")
			s.renderErrorPage(w, http.StatusInternalServerError, "Error deleting book")
			return
		}

		sess.SetFlash(session.NewFlash(session.SeveritySuccess, "Book deleted successfully!"))
		http.Redirect(w, r, RouteBooks, http.StatusSeeOther)
	}
}

// bookFromForm reads the shared donate/edit form fields, returning the
// partially filled book (for re-rendering the form) and any problems.
func bookFromForm(r *http.Request) (*catalog.Book, []string) {
	var messages []string

	book := &catalog.Book{
		ISBN:      strings.TrimSpace(r.FormValue("isbn")),
		Title:     strings.TrimSpace(r.FormValue("title")),
		Author:    strings.TrimSpace(r.FormValue("author")),
		ImagePath: strings.TrimSpace(r.FormValue("image")),
	}
	if book.ISBN == "" {
		messages = append(messages, "ISBN is required.")
	}
	if book.Title == "" {
		messages = append(messages, "Title is required.")
	}
	if book.Author == "" {
		messages = append(messages, "Author is required.")
	}

	year, err := strconv.Atoi(strings.TrimSpace(r.FormValue("year")))
	if err != nil {
		messages = append(messages, "Year must be a number.")
	}
	book.Year = year

	if book.ImagePath == "" {
		book.ImagePath = catalog.DefaultImagePath
	}

	return book, messages
}
