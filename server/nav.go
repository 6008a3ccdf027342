package server

import "github.com/jrsteele09/go-lending-server/session"

// NavItem is one entry in the site navigation.
type NavItem struct {
	Label  string
	Icon   string
	Link   string
	Active bool
}

// navItems builds the navigation for the current session state: the base
// entries are always visible, the auth-related tail swaps between
// login/register and logout.
func navItems(sess *session.Context, currentPath string) []NavItem {
	items := []NavItem{
		{Label: "Home", Icon: "bi-house", Link: RouteHome},
		{Label: "Books", Icon: "bi-book", Link: RouteBooks},
		{Label: "Donate a Book", Icon: "bi-journal-plus", Link: RouteBookDonate},
		{Label: "Transactions", Icon: "bi-receipt", Link: RouteTransactions},
		{Label: "About", Icon: "bi-info-circle", Link: RouteAbout},
	}

	if sess.Authenticated() {
		items = append(items,
			NavItem{Label: "Logout", Icon: "bi-box-arrow-right", Link: RouteLogout},
		)
	} else {
		items = append(items,
			NavItem{Label: "Register", Icon: "bi-person-plus", Link: RouteRegister},
			NavItem{Label: "Login", Icon: "bi-box-arrow-in-right", Link: RouteLogin},
		)
	}

	for i := range items {
		items[i].Active = items[i].Link == currentPath
	}
	return items
}
