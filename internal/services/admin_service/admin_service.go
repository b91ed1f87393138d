package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"maison_atelier/internal/domain/models"
	"maison_atelier/internal/lib/logger/sl"
	"maison_atelier/internal/storage"

	"github.com/google/uuid"
)

// Gateway is the mutation surface of the remote content service.
type Gateway interface {
	CreatePortfolioItem(ctx context.Context, item models.PortfolioItem) error
	UpdatePortfolioItem(ctx context.Context, id string, item models.PortfolioItem) error
	DeletePortfolioItem(ctx context.Context, id string) error

	CreateServiceItem(ctx context.Context, item models.ServiceItem) error
	UpdateServiceItem(ctx context.Context, id string, item models.ServiceItem) error
	DeleteServiceItem(ctx context.Context, id string) error

	AddSlideshowImage(ctx context.Context, imageURL string) error
	DeleteSlideshowImage(ctx context.Context, index int) error
}

// Broker resolves a staged file to a persisted asset URL.
type Broker interface {
	UploadImage(ctx context.Context, file models.StagedFile) (string, error)
}

// Reloader refreshes the collection store after a successful mutation.
type Reloader interface {
	ReloadAll(ctx context.Context) error
}

type EditorState int

const (
	StateClosed EditorState = iota
	StateOpen
	StateSubmitting
)

// EditorSession is one open editor: a pending form working towards a
// single create or update. The mutex plus state field form the
// double-submit guard; a session that is already Submitting rejects a
// second Submit instead of racing it.
type EditorSession struct {
	mu sync.Mutex

	ID         uuid.UUID
	Collection models.Collection
	State      EditorState
	Form       models.PendingForm
	LastError  string
}

// AdminService orchestrates the create/update/delete lifecycle of
// content entries. Every successful mutation ends in a full store
// reload; failures keep the editor open with the draft and the staged
// file intact so the operator can retry without re-selecting anything.
type AdminService struct {
	log    *slog.Logger
	gw     Gateway
	broker Broker
	store  Reloader
}

func NewAdminService(log *slog.Logger, gw Gateway, broker Broker, store Reloader) *AdminService {
	return &AdminService{
		log:    log,
		gw:     gw,
		broker: broker,
		store:  store,
	}
}

// OpenEditor starts a session. A non-nil seed puts it in edit mode with
// the existing item's fields; the staged file and preview are always
// reset regardless of what the seed carried.
func (s *AdminService) OpenEditor(collection models.Collection, seed *models.PendingForm) *EditorSession {
	sess := &EditorSession{
		ID:         uuid.New(),
		Collection: collection,
		State:      StateOpen,
	}
	if seed != nil {
		sess.Form = *seed
	}
	sess.Form.File = nil
	sess.Form.PreviewURL = ""

	return sess
}

// Submit runs the session's pending form through upload (only when a
// file is staged), payload construction and create-or-update. The
// payload always carries the full entity; the remote PUT contract has
// no partial patch.
func (s *AdminService) Submit(ctx context.Context, sess *EditorSession) error {
	const op = "admin_service.Submit"

	log := s.log.With(
		slog.String("op", op),
		slog.String("session", sess.ID.String()),
		slog.String("collection", string(sess.Collection)),
	)

	sess.mu.Lock()
	switch sess.State {
	case StateSubmitting:
		sess.mu.Unlock()
		return fmt.Errorf("%s: %w", op, storage.ErrEditorBusy)
	case StateClosed:
		sess.mu.Unlock()
		return fmt.Errorf("%s: %w", op, storage.ErrEditorClosed)
	}
	sess.State = StateSubmitting
	form := sess.Form
	sess.mu.Unlock()

	if err := form.Validate(sess.Collection); err != nil {
		s.reopen(sess, form, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	if form.File != nil {
		url, err := s.broker.UploadImage(ctx, *form.File)
		if err != nil {
			log.Error("image upload failed", sl.Err(err))
			s.reopen(sess, form, err)
			return fmt.Errorf("%s: %w", op, err)
		}
		form.Image = url
	}

	if err := s.save(ctx, sess.Collection, form); err != nil {
		log.Error("save failed", sl.Err(err))
		s.reopen(sess, form, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	sess.mu.Lock()
	sess.State = StateClosed
	sess.Form = models.PendingForm{}
	sess.LastError = ""
	sess.mu.Unlock()

	log.Info("entry saved")

	s.reload(ctx, log)

	return nil
}

func (s *AdminService) save(ctx context.Context, collection models.Collection, form models.PendingForm) error {
	switch collection {
	case models.CollectionPortfolio:
		if form.ID == "" {
			return s.gw.CreatePortfolioItem(ctx, form.ToPortfolio())
		}
		return s.gw.UpdatePortfolioItem(ctx, form.ID, form.ToPortfolio())
	case models.CollectionServices:
		if form.ID == "" {
			return s.gw.CreateServiceItem(ctx, form.ToService())
		}
		return s.gw.UpdateServiceItem(ctx, form.ID, form.ToService())
	default:
		return fmt.Errorf("collection %q has no editor workflow", collection)
	}
}

// reopen returns a failed session to Open with the draft untouched.
// The staged file stays so a retry does not need re-selection.
func (s *AdminService) reopen(sess *EditorSession, form models.PendingForm, err error) {
	sess.mu.Lock()
	sess.State = StateOpen
	sess.Form = form
	sess.LastError = err.Error()
	sess.mu.Unlock()
}

// SaveContent is the one-shot form of OpenEditor+Submit used by the
// HTTP handlers, where each request carries the whole draft.
func (s *AdminService) SaveContent(ctx context.Context, collection models.Collection, form models.PendingForm) error {
	sess := s.OpenEditor(collection, &form)
	sess.Form.File = form.File
	sess.Form.PreviewURL = form.PreviewURL

	return s.Submit(ctx, sess)
}

// Remove deletes an entry. The confirmed flag is the explicit yes/no
// decision point: without it nothing is sent.
func (s *AdminService) Remove(ctx context.Context, collection models.Collection, id string, confirmed bool) error {
	const op = "admin_service.Remove"

	log := s.log.With(
		slog.String("op", op),
		slog.String("collection", string(collection)),
		slog.String("id", id),
	)

	if !confirmed {
		log.Info("delete not confirmed, nothing sent")
		return fmt.Errorf("%s: %w", op, storage.ErrNotConfirmed)
	}
	if id == "" {
		return fmt.Errorf("%s: empty id", op)
	}

	var err error
	switch collection {
	case models.CollectionPortfolio:
		err = s.gw.DeletePortfolioItem(ctx, id)
	case models.CollectionServices:
		err = s.gw.DeleteServiceItem(ctx, id)
	default:
		err = fmt.Errorf("collection %q has no delete-by-id", collection)
	}
	if err != nil {
		log.Error("delete failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("entry deleted")

	s.reload(ctx, log)

	return nil
}

// AddSlideshowImage uploads the staged file and appends the resulting
// URL to the slideshow. Slideshow entries have no update operation.
func (s *AdminService) AddSlideshowImage(ctx context.Context, file models.StagedFile) error {
	const op = "admin_service.AddSlideshowImage"

	log := s.log.With(slog.String("op", op))

	url, err := s.broker.UploadImage(ctx, file)
	if err != nil {
		log.Error("image upload failed", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.gw.AddSlideshowImage(ctx, url); err != nil {
		log.Error("failed to add slideshow image", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("slideshow image added")

	s.reload(ctx, log)

	return nil
}

// RemoveSlideshowImage deletes by position. The index is only valid
// against the snapshot the operator was looking at; the confirm gate is
// the same blocking decision as for entry deletes.
func (s *AdminService) RemoveSlideshowImage(ctx context.Context, index int, confirmed bool) error {
	const op = "admin_service.RemoveSlideshowImage"

	log := s.log.With(
		slog.String("op", op),
		slog.Int("index", index),
	)

	if !confirmed {
		log.Info("delete not confirmed, nothing sent")
		return fmt.Errorf("%s: %w", op, storage.ErrNotConfirmed)
	}

	if err := s.gw.DeleteSlideshowImage(ctx, index); err != nil {
		log.Error("failed to delete slideshow image", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("slideshow image deleted")

	s.reload(ctx, log)

	return nil
}

// reload refreshes the store after a successful mutation. The mutation
// already happened; a reload failure degrades the store view but is not
// surfaced as a mutation error.
func (s *AdminService) reload(ctx context.Context, log *slog.Logger) {
	if err := s.store.ReloadAll(ctx); err != nil {
		log.Warn("reload after mutation failed", sl.Err(err))
	}
}
