package session

// Context is the per-request mutable view over the session record. It is
// built once from the inbound cookie and flushed to the outbound cookie at
// exactly one commit point, when the response headers are finalized.
// Handlers mutate the draft freely; whatever fields are set at commit time
// are the fields that persist, and anything set then cleared within the
// same request never reaches the client.
//
// A request runs on a single goroutine and the cookie is the only session
// store, so no locking is needed here.
type Context struct {
	data Data
}

// NewContext wraps a decoded session record for the duration of a request.
func NewContext(data Data) *Context {
	return &Context{data: data.normalize()}
}

// Snapshot returns the current draft state. The session middleware calls
// this once at commit time; the codec re-stamps the timestamps.
func (c *Context) Snapshot() Data {
	return c.data
}

// Actor returns the session identity, or nil for an anonymous session.
func (c *Context) Actor() *Actor {
	return c.data.Actor
}

// Status returns the session's authentication state.
func (c *Context) Status() Status {
	return c.data.Status
}

// Authenticated reports whether the session carries a logged-in actor.
func (c *Context) Authenticated() bool {
	return c.data.Authenticated()
}

// Registered reports whether the actor has completed registration.
func (c *Context) Registered() bool {
	return c.data.Registered()
}

// Authenticate records a successful login.
func (c *Context) Authenticate(actor Actor) {
	c.data.Actor = &actor
	c.data.Status = StatusAuthenticated
}

// MarkRegistered records a completed registration without logging in.
func (c *Context) MarkRegistered(actor Actor) {
	c.data.Actor = &actor
	if c.data.Status != StatusAuthenticated {
		c.data.Status = StatusRegistered
	}
}

// ClearActor logs the actor out, returning the session to anonymous.
func (c *Context) ClearActor() {
	c.data.Actor = nil
	c.data.Status = StatusAnonymous
}

// Flash returns the pending flash message without consuming it.
func (c *Context) Flash() *Flash {
	return c.data.Flash
}

// SetFlash replaces the pending flash message.
func (c *Context) SetFlash(f *Flash) {
	c.data.Flash = f
}

// ConsumeFlash returns the pending flash message and clears it, so the
// message is rendered exactly once. The clear happens before the commit
// point, which is what keeps it out of the next request's cookie.
func (c *Context) ConsumeFlash() *Flash {
	f := c.data.Flash
	c.data.Flash = nil
	return f
}

// RedirectTo returns the recorded post-login destination, if any.
func (c *Context) RedirectTo() string {
	return c.data.RedirectTo
}

// SetRedirectTo records where to send the actor after the login that a
// blocked action forced.
func (c *Context) SetRedirectTo(path string) {
	c.data.RedirectTo = path
}

// ConsumeRedirect returns the recorded destination and clears it, falling
// back to the given path when none was recorded. This is the only
// mechanism connecting a blocked action to its resumption.
func (c *Context) ConsumeRedirect(fallback string) string {
	path := c.data.RedirectTo
	c.data.RedirectTo = ""
	if path == "" {
		return fallback
	}
	return path
}
