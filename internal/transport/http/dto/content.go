package dto

import (
	"strings"

	"maison_atelier/internal/domain/models"
)

// ContentForm carries the full editable entity from the admin panel.
// The optional image file arrives as a separate multipart part and is
// attached by the handler, never bound here.
type ContentForm struct {
	ID          string `json:"id" form:"id"`
	Title       string `json:"title" form:"title" validate:"required"`
	Subtitle    string `json:"subtitle" form:"subtitle"`
	Description string `json:"description" form:"description" validate:"required"`
	Category    string `json:"category" form:"category"`
	Location    string `json:"location" form:"location"`
	Year        string `json:"year" form:"year"`
	Icon        string `json:"icon" form:"icon"`
	Image       string `json:"image" form:"image"`

	// Comma separated in form submissions, mirroring how the panel
	// edits the features list.
	Features string   `json:"features" form:"features"`
	Images   []string `json:"images" form:"images"`
}

func (f ContentForm) ToPendingForm() models.PendingForm {
	var features []string
	for _, part := range strings.Split(f.Features, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			features = append(features, trimmed)
		}
	}

	return models.PendingForm{
		ID:          f.ID,
		Title:       f.Title,
		Subtitle:    f.Subtitle,
		Description: f.Description,
		Category:    f.Category,
		Location:    f.Location,
		Year:        f.Year,
		Icon:        f.Icon,
		Image:       f.Image,
		Features:    features,
		Images:      f.Images,
	}
}

// DashboardResponse is the admin panel's one-call view of the store.
type DashboardResponse struct {
	Portfolio []models.PortfolioItem  `json:"portfolio"`
	Services  []models.ServiceItem    `json:"services"`
	Slideshow []models.SlideshowImage `json:"slideshow"`
	Projects  []models.Project        `json:"projects"`
	Degraded  bool                    `json:"degraded"`
}
