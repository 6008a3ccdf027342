package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-lending-server/catalog"
	"github.com/jrsteele09/go-lending-server/internal/config"
	"github.com/jrsteele09/go-lending-server/server"
	"github.com/jrsteele09/go-lending-server/session"
	"github.com/jrsteele09/go-lending-server/store/memory"
)

const (
	testSecret   = "server-test-secret"
	testISBN     = "9780134190440"
	testUsername = "alice"
	testEmail    = "alice@example.com"
	testPassword = "password123"
)

type serverFixture struct {
	srv   *server.Server
	codec *session.Codec
	books *memory.BookRepo
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("ENV", "TEST")

	books := memory.NewBookRepo()
	stores := server.Stores{
		Users: memory.NewUserRepo(),
		Books: books,
		Loans: memory.NewLoanRepo(),
	}

	srv, err := server.New(config.New(), stores)
	require.NoError(t, err)

	codec, err := session.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)

	return &serverFixture{srv: srv, codec: codec, books: books}
}

func (f *serverFixture) seedBook(t *testing.T) {
	t.Helper()
	err := f.books.Create(context.Background(), &catalog.Book{
		ID:           "book-1",
		ISBN:         testISBN,
		Title:        "The Go Programming Language",
		Author:       "Donovan & Kernighan",
		Year:         2015,
		ImagePath:    catalog.DefaultImagePath,
		Availability: catalog.Available,
	})
	require.NoError(t, err)
}

func (f *serverFixture) do(t *testing.T, method, target string, form url.Values, cookie *http.Cookie) *http.Response {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec.Result()
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("response carries no session cookie")
	return nil
}

func (f *serverFixture) decodeCookie(t *testing.T, cookie *http.Cookie) session.Data {
	t.Helper()
	data, err := f.codec.Decode(cookie.Value)
	require.NoError(t, err)
	return data
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func (f *serverFixture) register(t *testing.T) {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/register", url.Values{
		"username":        {testUsername},
		"email":           {testEmail},
		"password":        {testPassword},
		"confirmPassword": {testPassword},
	}, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func (f *serverFixture) login(t *testing.T, cookie *http.Cookie) *http.Cookie {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/login", url.Values{
		"username": {testUsername},
		"password": {testPassword},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	return sessionCookie(t, resp)
}

func TestHomeSetsSessionCookieOnce(t *testing.T) {
	f := newServerFixture(t)

	resp := f.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sessionCookies []*http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			sessionCookies = append(sessionCookies, c)
		}
	}
	require.Len(t, sessionCookies, 1)

	cookie := sessionCookies[0]
	require.True(t, cookie.HttpOnly)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	require.Equal(t, 3600, cookie.MaxAge)
	require.False(t, cookie.Secure) // plain-HTTP test request

	data := f.decodeCookie(t, cookie)
	require.Equal(t, session.StatusAnonymous, data.Status)
	require.Nil(t, data.Actor)
}

func TestGateRedirectsBeforeResourceLookup(t *testing.T) {
	f := newServerFixture(t)

	// The ISBN does not exist; an unauthenticated request must still get
	// the login redirect, not a not-found page.
	resp := f.do(t, http.MethodPost, "/transactions/borrow",
		url.Values{"isbn": {"0000000000000"}}, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	data := f.decodeCookie(t, sessionCookie(t, resp))
	require.Equal(t, "/books/0000000000000", data.RedirectTo)
	require.NotNil(t, data.Flash)
	require.Equal(t, session.SeverityInfo, data.Flash.Severity)
	require.Equal(t, []string{"Please log in to borrow the book."}, data.Flash.Lines)
}

func TestFlashRendersExactlyOnce(t *testing.T) {
	f := newServerFixture(t)

	token, err := f.codec.Encode(session.Data{
		Flash: session.NewFlash(session.SeveritySuccess, "Book borrowed successfully."),
	})
	require.NoError(t, err)
	cookie := &http.Cookie{Name: session.CookieName, Value: token}

	resp := f.do(t, http.MethodGet, "/", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, readBody(t, resp), "Book borrowed successfully.")

	// The render consumed the flash, so the refreshed cookie omits it.
	next := sessionCookie(t, resp)
	require.Nil(t, f.decodeCookie(t, next).Flash)

	resp = f.do(t, http.MethodGet, "/", nil, next)
	require.NotContains(t, readBody(t, resp), "Book borrowed successfully.")
}

func TestLoginResumesBlockedAction(t *testing.T) {
	f := newServerFixture(t)
	f.seedBook(t)
	f.register(t)

	blocked := f.do(t, http.MethodPost, "/transactions/borrow",
		url.Values{"isbn": {testISBN}}, nil)
	require.Equal(t, "/login", blocked.Header.Get("Location"))
	blockedCookie := sessionCookie(t, blocked)

	resp := f.do(t, http.MethodPost, "/login", url.Values{
		"username": {testUsername},
		"password": {testPassword},
	}, blockedCookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/books/"+testISBN, resp.Header.Get("Location"))

	data := f.decodeCookie(t, sessionCookie(t, resp))
	require.True(t, data.Authenticated())
	require.Empty(t, data.RedirectTo)
}

func TestBorrowAndReturnFlow(t *testing.T) {
	f := newServerFixture(t)
	f.seedBook(t)
	f.register(t)
	cookie := f.login(t, nil)

	resp := f.do(t, http.MethodPost, "/transactions/borrow",
		url.Values{"isbn": {testISBN}}, cookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/books/"+testISBN, resp.Header.Get("Location"))

	book, err := f.books.GetByISBN(context.Background(), testISBN)
	require.NoError(t, err)
	require.Equal(t, catalog.Borrowed, book.Availability)

	cookie = sessionCookie(t, resp)
	resp = f.do(t, http.MethodGet, "/transactions", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, readBody(t, resp), "The Go Programming Language")

	cookie = sessionCookie(t, resp)
	resp = f.do(t, http.MethodPost, "/transactions/return",
		url.Values{"isbn": {testISBN}}, cookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	book, err = f.books.GetByISBN(context.Background(), testISBN)
	require.NoError(t, err)
	require.Equal(t, catalog.Available, book.Availability)
}

func TestBorrowUnavailableBookFlashesError(t *testing.T) {
	f := newServerFixture(t)
	f.seedBook(t)
	f.register(t)
	cookie := f.login(t, nil)

	resp := f.do(t, http.MethodPost, "/transactions/borrow",
		url.Values{"isbn": {testISBN}}, cookie)
	cookie = sessionCookie(t, resp)

	resp = f.do(t, http.MethodPost, "/transactions/borrow",
		url.Values{"isbn": {testISBN}}, cookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/books/"+testISBN, resp.Header.Get("Location"))

	data := f.decodeCookie(t, sessionCookie(t, resp))
	require.NotNil(t, data.Flash)
	require.Equal(t, session.SeverityError, data.Flash.Severity)
	require.Equal(t, []string{"The book is currently unavailable."}, data.Flash.Lines)
}

func TestReturnWithoutLoanFlashesError(t *testing.T) {
	f := newServerFixture(t)
	f.seedBook(t)
	f.register(t)
	cookie := f.login(t, nil)

	resp := f.do(t, http.MethodPost, "/transactions/return",
		url.Values{"isbn": {testISBN}}, cookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	data := f.decodeCookie(t, sessionCookie(t, resp))
	require.NotNil(t, data.Flash)
	require.Equal(t, []string{"Transaction not found or already returned."}, data.Flash.Lines)
}

func TestLogoutClearsActor(t *testing.T) {
	f := newServerFixture(t)
	f.register(t)
	cookie := f.login(t, nil)

	resp := f.do(t, http.MethodGet, "/logout", nil, cookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	data := f.decodeCookie(t, sessionCookie(t, resp))
	require.Nil(t, data.Actor)
	require.Equal(t, session.StatusAnonymous, data.Status)
}

func TestTamperedCookieTreatedAsAnonymous(t *testing.T) {
	f := newServerFixture(t)

	cookie := &http.Cookie{Name: session.CookieName, Value: "not.a.token"}
	resp := f.do(t, http.MethodGet, "/transactions", nil, cookie)

	// Verification failure degrades to an anonymous session, and the
	// anonymous session hits the gate.
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestBookSearch(t *testing.T) {
	f := newServerFixture(t)
	f.seedBook(t)

	resp := f.do(t, http.MethodGet, "/books/search?query=go+programming", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, readBody(t, resp), "The Go Programming Language")

	resp = f.do(t, http.MethodGet, "/books/search?query=no+such+title", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Contains(t, readBody(t, resp), "No books found.")

	resp = f.do(t, http.MethodGet, "/books/search", nil, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/books", resp.Header.Get("Location"))
}

func TestDonateBook(t *testing.T) {
	f := newServerFixture(t)
	f.register(t)
	cookie := f.login(t, nil)

	resp := f.do(t, http.MethodPost, "/books/donate", url.Values{
		"isbn":   {testISBN},
		"title":  {"Donated Title"},
		"author": {"Donor"},
		"year":   {"2021"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/books/"+testISBN, resp.Header.Get("Location"))

	book, err := f.books.GetByISBN(context.Background(), testISBN)
	require.NoError(t, err)
	require.Equal(t, "Donated Title", book.Title)
	require.Equal(t, catalog.DefaultImagePath, book.ImagePath)
	require.Equal(t, catalog.Available, book.Availability)

	// Same ISBN again re-renders the form with the duplicate message.
	cookie = sessionCookie(t, resp)
	resp = f.do(t, http.MethodPost, "/books/donate", url.Values{
		"isbn":   {testISBN},
		"title":  {"Donated Title"},
		"author": {"Donor"},
		"year":   {"2021"},
	}, cookie)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, readBody(t, resp), "A book with this ISBN already exists.")
}

func TestDeleteBookRequiresLogin(t *testing.T) {
	f := newServerFixture(t)
	f.seedBook(t)

	resp := f.do(t, http.MethodPost, "/books/"+testISBN+"/delete", nil, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	// Still in the catalog.
	_, err := f.books.GetByISBN(context.Background(), testISBN)
	require.NoError(t, err)
}
