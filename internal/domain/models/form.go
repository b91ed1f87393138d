package models

import (
	"errors"
	"fmt"
	"strings"
)

// StagedFile is a locally selected file that has not been uploaded yet.
// It never appears in an entity payload; the upload broker resolves it
// to a persisted URL first.
type StagedFile struct {
	Name string
	Data []byte
}

// PendingForm is the ephemeral draft behind an open editor. It mirrors
// the editable fields of a content item plus the staged file selection.
type PendingForm struct {
	ID          string
	Title       string
	Subtitle    string
	Description string
	Category    string
	Location    string
	Year        string
	Icon        string
	Image       string
	Features    []string
	Images      []string

	File       *StagedFile
	PreviewURL string
}

func FormFromPortfolio(item PortfolioItem) PendingForm {
	return PendingForm{
		ID:          item.ID,
		Title:       item.Title,
		Subtitle:    item.Subtitle,
		Description: item.Description,
		Category:    item.Category,
		Location:    item.Location,
		Year:        item.Year,
		Image:       item.Image,
		Features:    item.Features,
		Images:      item.Images,
	}
}

func FormFromService(item ServiceItem) PendingForm {
	return PendingForm{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Icon:        item.Icon,
		Image:       item.Image,
	}
}

// ToPortfolio builds the full entity payload. Image must already be a
// persisted URL; the staged file is deliberately not consulted here.
func (f PendingForm) ToPortfolio() PortfolioItem {
	return PortfolioItem{
		ID:          f.ID,
		Title:       f.Title,
		Subtitle:    f.Subtitle,
		Description: f.Description,
		Category:    f.Category,
		Location:    f.Location,
		Year:        f.Year,
		Image:       f.Image,
		Features:    f.Features,
		Images:      f.Images,
	}
}

func (f PendingForm) ToService() ServiceItem {
	return ServiceItem{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Icon:        f.Icon,
		Image:       f.Image,
	}
}

// Validate checks the draft against the collection it targets before
// anything goes over the wire.
func (f PendingForm) Validate(collection Collection) error {
	var validationErrors []string

	switch collection {
	case CollectionPortfolio, CollectionServices:
		if strings.TrimSpace(f.Title) == "" {
			validationErrors = append(validationErrors, "title is required")
		}
		if strings.TrimSpace(f.Description) == "" {
			validationErrors = append(validationErrors, "description is required")
		}
	case CollectionSlideshow:
		if f.File == nil && f.Image == "" {
			validationErrors = append(validationErrors, "image is required")
		}
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("unknown collection %q", collection))
	}

	if len(validationErrors) > 0 {
		return &FormValidationError{Errors: validationErrors}
	}

	return nil
}

type FormValidationError struct {
	Errors []string
}

func (e *FormValidationError) Error() string {
	return fmt.Sprintf("form validation failed: %s", strings.Join(e.Errors, "; "))
}

func IsFormValidationError(err error) bool {
	var verr *FormValidationError
	return errors.As(err, &verr)
}
