package session

import "time"

// Status is the authentication state of a session. It replaces a pair of
// independently settable booleans (logged-in / registered) with a single
// tagged value so the two can never fall out of sync.
type Status string

const (
	// StatusAnonymous is the state of a first-contact session.
	StatusAnonymous Status = "anonymous"
	// StatusRegistered means the actor has completed registration but has
	// not logged in during this session.
	StatusRegistered Status = "registered"
	// StatusAuthenticated means the actor has logged in.
	StatusAuthenticated Status = "authenticated"
)

// Actor is the identity associated with an authenticated session.
type Actor struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Data is the session record round-tripped through the client cookie.
// It is the only state the server keeps about a visitor: the cookie is
// the session store.
//
// Invariant: Actor == nil implies Status != StatusAuthenticated.
type Data struct {
	Actor      *Actor    // present iff the session has an identity
	Status     Status    // anonymous / registered / authenticated
	RedirectTo string    // where to resume after a login forced by a blocked action
	Flash      *Flash    // one-shot notification, consumed by the next render
	IssuedAt   time.Time // stamped by the codec, never by application code
	ExpiresAt  time.Time // stamped by the codec, never by application code
}

// Authenticated reports whether the session carries a logged-in actor.
func (d Data) Authenticated() bool {
	return d.Status == StatusAuthenticated && d.Actor != nil
}

// Registered reports whether the actor has completed registration,
// whether or not they are currently logged in.
func (d Data) Registered() bool {
	return d.Status == StatusRegistered || d.Authenticated()
}

// normalize repairs states that violate the actor/status invariant. A
// session without an actor can never be authenticated or registered.
func (d Data) normalize() Data {
	if d.Status == "" {
		d.Status = StatusAnonymous
	}
	if d.Actor == nil && d.Status != StatusAnonymous {
		d.Status = StatusAnonymous
	}
	return d
}
