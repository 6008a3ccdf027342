package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-lending-server/auth"
	"github.com/jrsteele09/go-lending-server/session"
)

func TestGateBlocksAnonymous(t *testing.T) {
	sess := session.NewContext(session.Data{})

	decision := auth.RequireAuthenticated(sess, "Please log in to borrow the book.", "/books/12345")
	require.Equal(t, auth.Blocked, decision)

	require.Equal(t, "/books/12345", sess.RedirectTo())
	flash := sess.Flash()
	require.NotNil(t, flash)
	require.Equal(t, session.SeverityInfo, flash.Severity)
	require.Equal(t, []string{"Please log in to borrow the book."}, flash.Lines)
}

func TestGateBlocksRegisteredButNotLoggedIn(t *testing.T) {
	sess := session.NewContext(session.Data{})
	sess.MarkRegistered(session.Actor{ID: "user-1"})

	decision := auth.RequireAuthenticated(sess, "Please log in to donate the book.", "/books/donate")
	require.Equal(t, auth.Blocked, decision)
	require.Equal(t, "/books/donate", sess.RedirectTo())
}

func TestGateAllowsAuthenticated(t *testing.T) {
	sess := session.NewContext(session.Data{})
	sess.Authenticate(session.Actor{ID: "user-1"})

	decision := auth.RequireAuthenticated(sess, "Please log in to borrow the book.", "/books/12345")
	require.Equal(t, auth.Allowed, decision)

	// An allowed pass leaves no prompt or redirect behind.
	require.Nil(t, sess.Flash())
	require.Empty(t, sess.RedirectTo())
}
