package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteHome+"{$}", s.page(s.IndexHandler()))
	s.RegisterRouteHandler("GET "+RouteAbout, s.page(s.AboutHandler()))

	// AUTH
	s.RegisterRouteHandler("GET "+RouteRegister, s.page(s.RegisterPageHandler()))
	s.RegisterRouteHandler("POST "+RouteRegister, s.page(s.RegisterSubmissionHandler()))
	s.RegisterRouteHandler("GET "+RouteLogin, s.page(s.LoginPageHandler()))
	s.RegisterRouteHandler("POST "+RouteLogin, s.page(s.LoginSubmissionHandler()))
	s.RegisterRouteHandler("GET "+RouteLogout, s.page(s.LogoutHandler()))

	// CATALOG
	s.RegisterRouteHandler("GET "+RouteBooks, s.page(s.BooksListHandler()))
	s.RegisterRouteHandler("GET "+RouteBookSearch, s.page(s.BookSearchHandler()))
	s.RegisterRouteHandler("GET "+RouteBookDonate, s.page(s.DonatePageHandler()))
	s.RegisterRouteHandler("POST "+RouteBookDonate, s.page(s.DonateSubmissionHandler()))
	s.RegisterRouteHandler("GET "+RouteBookEdit, s.page(s.EditBookPageHandler()))
	s.RegisterRouteHandler("POST "+RouteBookEdit, s.page(s.EditBookSubmissionHandler()))
	s.RegisterRouteHandler("POST "+RouteBookDelete, s.page(s.DeleteBookHandler()))
	s.RegisterRouteHandler("GET "+RouteBookByISBN, s.page(s.BookDetailHandler()))

	// LENDING
	s.RegisterRouteHandler("GET "+RouteTransactions, s.page(s.TransactionsHandler()))
	s.RegisterRouteHandler("POST "+RouteBorrow, s.page(s.BorrowBookHandler()))
	s.RegisterRouteHandler("POST "+RouteReturn, s.page(s.ReturnBookHandler()))

	// STATIC
	s.RegisterRouteHandler("GET "+RouteStatic, s.staticHandler())
}

// page wraps a handler in the full HTML middleware chain, session
// middleware included.
func (s *Server) page(h http.HandlerFunc) http.HandlerFunc {
	return ChainMiddleware(h, s.HTMLMiddleware()...)
}

func (s *Server) staticHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.StripPrefix(RouteStatic, s.fileServer).ServeHTTP(w, r)
	}
}
