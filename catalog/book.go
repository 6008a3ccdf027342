package catalog

// DefaultImagePath is used when a donated book has no cover image.
const DefaultImagePath = "/static/img/default_image.png"

// Availability is the lending state of a catalog item. It is owned by the
// catalog store and mutated only by the lending state machine as a side
// effect of a loan transition, never directly by a handler.
type Availability string

const (
	Available Availability = "available"
	Borrowed  Availability = "borrowed"
)

type Book struct {
	ID           string       `json:"id,omitempty"`
	ISBN         string       `json:"isbn"`
	Title        string       `json:"title"`
	Author       string       `json:"author"`
	Year         int          `json:"year"`
	ImagePath    string       `json:"image_path,omitempty"`
	Availability Availability `json:"availability"`
}
