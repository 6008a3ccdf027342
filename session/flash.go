package session

// Severity determines how a flash message is presented.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Flash is a one-shot notification carried in the session. It is shown at
// most once: the next render consumes it and the cleared state is what gets
// serialized back to the client. Content is always a list of lines so
// callers never branch on singular vs plural.
type Flash struct {
	Severity Severity `json:"severity"`
	Lines    []string `json:"lines"`
}

// NewFlash creates a flash message with the given severity and lines.
func NewFlash(severity Severity, lines ...string) *Flash {
	return &Flash{
		Severity: severity,
		Lines:    lines,
	}
}

// Title returns the heading used when the flash is rendered as a modal.
func (f *Flash) Title() string {
	switch f.Severity {
	case SeveritySuccess:
		return "Success"
	case SeverityError:
		return "Error"
	default:
		return "Notice"
	}
}
