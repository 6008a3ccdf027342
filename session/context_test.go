package session_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-lending-server/session"
)

func TestConsumeFlashReturnsOnce(t *testing.T) {
	sess := session.NewContext(session.Data{})
	sess.SetFlash(session.NewFlash(session.SeveritySuccess, "Book borrowed successfully."))

	flash := sess.ConsumeFlash()
	require.NotNil(t, flash)
	require.Equal(t, session.SeveritySuccess, flash.Severity)

	require.Nil(t, sess.ConsumeFlash())
	require.Nil(t, sess.Snapshot().Flash)
}

func TestSetThenClearFlashNeverPersists(t *testing.T) {
	sess := session.NewContext(session.Data{})
	sess.SetFlash(session.NewFlash(session.SeverityError, "transient"))
	sess.SetFlash(nil)

	require.Nil(t, sess.Snapshot().Flash)
}

func TestConsumeRedirectFallback(t *testing.T) {
	sess := session.NewContext(session.Data{})
	require.Equal(t, "/", sess.ConsumeRedirect("/"))

	sess.SetRedirectTo("/books/999")
	require.Equal(t, "/books/999", sess.ConsumeRedirect("/"))
	// Consumed: the fallback applies again.
	require.Equal(t, "/", sess.ConsumeRedirect("/"))
}

func TestAuthenticateAndClearActor(t *testing.T) {
	sess := session.NewContext(session.Data{})
	require.False(t, sess.Authenticated())

	sess.Authenticate(session.Actor{ID: "user-1", Username: "alice"})
	require.True(t, sess.Authenticated())
	require.True(t, sess.Registered())
	require.Equal(t, "alice", sess.Actor().Username)

	sess.ClearActor()
	require.False(t, sess.Authenticated())
	require.Nil(t, sess.Actor())
	require.Equal(t, session.StatusAnonymous, sess.Status())
}

func TestMarkRegisteredKeepsAuthenticated(t *testing.T) {
	sess := session.NewContext(session.Data{})
	sess.MarkRegistered(session.Actor{ID: "user-1"})
	require.Equal(t, session.StatusRegistered, sess.Status())
	require.False(t, sess.Authenticated())

	sess.Authenticate(session.Actor{ID: "user-1"})
	sess.MarkRegistered(session.Actor{ID: "user-1"})
	require.True(t, sess.Authenticated())
}

func TestNewContextNormalizesCorruptState(t *testing.T) {
	// Authenticated with no actor cannot round-trip into a usable session.
	sess := session.NewContext(session.Data{Status: session.StatusAuthenticated})
	require.False(t, sess.Authenticated())
	require.Equal(t, session.StatusAnonymous, sess.Status())
}
