package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHome  = "/"
	RouteAbout = "/about"

	// Auth Routes
	RouteRegister = "/register"
	RouteLogin    = "/login"
	RouteLogout   = "/logout"

	// Catalog Routes
	RouteBooks      = "/books"
	RouteBookDonate = "/books/donate"
	RouteBookSearch = "/books/search"
	RouteBookEdit   = "/books/edit/{isbn}"
	RouteBookDelete = "/books/{isbn}/delete"
	RouteBookByISBN = "/books/{isbn}"

	// Lending Routes
	RouteTransactions = "/transactions"
	RouteBorrow       = "/transactions/borrow"
	RouteReturn       = "/transactions/return"

	// Static Asset Routes (patterns)
	RouteStatic = "/static/"
)
