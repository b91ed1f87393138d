package models

// Collection names one of the independently fetched content collections.
type Collection string

const (
	CollectionPortfolio Collection = "portfolio"
	CollectionServices  Collection = "services"
	CollectionSlideshow Collection = "slideshow"
)

func (c Collection) Valid() bool {
	switch c {
	case CollectionPortfolio, CollectionServices, CollectionSlideshow:
		return true
	}
	return false
}

// PortfolioItem is one project card in the public portfolio grid.
// The remote service assigns ID; it is opaque and never numeric here.
type PortfolioItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Category    string   `json:"category,omitempty"`
	Location    string   `json:"location,omitempty"`
	Year        string   `json:"year,omitempty"`
	Features    []string `json:"features,omitempty"`
	Images      []string `json:"images,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
	Sequence    int      `json:"sequence,omitempty"`
}

// ServiceItem is one entry of the services catalogue.
type ServiceItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Image       string `json:"image,omitempty"`
	Sequence    int    `json:"sequence,omitempty"`
}

// SlideshowImage has positional identity: the remote service addresses
// deletes by array index, not by a stable id. Index is only meaningful
// against the snapshot it was read from.
type SlideshowImage struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
}

// Project is the sequencing view over the portfolio. Fallback marks
// entries synthesized from portfolio data because the primary projects
// source was empty.
type Project struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category,omitempty"`
	Sequence  int    `json:"sequence"`
	Published bool   `json:"published,omitempty"`
	Featured  bool   `json:"featured,omitempty"`
	Fallback  bool   `json:"-"`
}

// SequenceEntry is one element of the batch reordering request.
type SequenceEntry struct {
	ID       string `json:"id"`
	Sequence int    `json:"sequence"`
}

// ContactMessage is a public contact-form submission passed through to
// the remote service untouched.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}
