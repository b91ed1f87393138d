package http

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"maison_atelier/internal/domain/models"
	"maison_atelier/internal/gateway"
	"maison_atelier/internal/lib/logger/sl"
	sequence "maison_atelier/internal/services/sequence_service"
	"maison_atelier/internal/storage"
	"maison_atelier/internal/transport/http/dto"
	"maison_atelier/internal/transport/http/dto/request"
	"maison_atelier/internal/transport/http/dto/response"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	cache "github.com/patrickmn/go-cache"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
}

type AdminService interface {
	SaveContent(ctx context.Context, collection models.Collection, form models.PendingForm) error
	Remove(ctx context.Context, collection models.Collection, id string, confirmed bool) error
	AddSlideshowImage(ctx context.Context, file models.StagedFile) error
	RemoveSlideshowImage(ctx context.Context, index int, confirmed bool) error
}

type SequenceService interface {
	SaveEntries(ctx context.Context, entries []models.SequenceEntry) error
	Move(ctx context.Context, index int, direction sequence.Direction) error
	AutoSave(ctx context.Context) error
}

type CollectionStore interface {
	ReloadAll(ctx context.Context) error
	Portfolio() []models.PortfolioItem
	Services() []models.ServiceItem
	Slideshow() []models.SlideshowImage
	Projects() []models.Project
	Degraded() bool
}

// PublicGateway is the slice of the remote client the public site
// endpoints proxy through.
type PublicGateway interface {
	ListPortfolio(ctx context.Context) ([]models.PortfolioItem, error)
	ListServices(ctx context.Context) ([]models.ServiceItem, error)
	ListSlideshow(ctx context.Context) ([]string, error)
	SubmitContact(ctx context.Context, msg models.ContactMessage) error
	Health(ctx context.Context) error
}

type Routers struct {
	log      *slog.Logger
	Auth     AuthService
	Admin    AdminService
	Sequence SequenceService
	Store    CollectionStore
	Public   PublicGateway
	cache    *cache.Cache
}

func NewRouter(
	log *slog.Logger,
	authService AuthService,
	adminService AdminService,
	sequenceService SequenceService,
	store CollectionStore,
	public PublicGateway,
	publicCache *cache.Cache,
) *Routers {
	return &Routers{
		log:      log,
		Auth:     authService,
		Admin:    adminService,
		Sequence: sequenceService,
		Store:    store,
		Public:   public,
		cache:    publicCache,
	}
}

const (
	cacheKeyPortfolio = "portfolio"
	cacheKeyServices  = "services"
	cacheKeySlideshow = "slideshow"
)

// --- public site ---

func (r *Routers) GetPortfolio(c echo.Context) error {
	const op = "http.routers.GetPortfolio"

	if cached, ok := r.cache.Get(cacheKeyPortfolio); ok {
		return c.JSON(http.StatusOK, cached)
	}

	items, err := r.Public.ListPortfolio(c.Request().Context())
	if err != nil {
		r.log.Error("portfolio fetch failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusBadGateway, response.ErrRemoteUnavailable)
	}

	r.cache.SetDefault(cacheKeyPortfolio, items)

	return c.JSON(http.StatusOK, items)
}

func (r *Routers) GetServices(c echo.Context) error {
	const op = "http.routers.GetServices"

	if cached, ok := r.cache.Get(cacheKeyServices); ok {
		return c.JSON(http.StatusOK, cached)
	}

	items, err := r.Public.ListServices(c.Request().Context())
	if err != nil {
		r.log.Error("services fetch failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusBadGateway, response.ErrRemoteUnavailable)
	}

	r.cache.SetDefault(cacheKeyServices, items)

	return c.JSON(http.StatusOK, items)
}

// GetSlideshow serves the raw URL list the landing page slideshow
// polls. The cache TTL bounds how stale that poll can get.
func (r *Routers) GetSlideshow(c echo.Context) error {
	const op = "http.routers.GetSlideshow"

	if cached, ok := r.cache.Get(cacheKeySlideshow); ok {
		return c.JSON(http.StatusOK, cached)
	}

	urls, err := r.Public.ListSlideshow(c.Request().Context())
	if err != nil {
		r.log.Error("slideshow fetch failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusBadGateway, response.ErrRemoteUnavailable)
	}

	r.cache.SetDefault(cacheKeySlideshow, urls)

	return c.JSON(http.StatusOK, urls)
}

func (r *Routers) SubmitContact(c echo.Context) error {
	const op = "http.routers.SubmitContact"

	var req dto.ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := r.Public.SubmitContact(c.Request().Context(), req.ToDomain()); err != nil {
		r.log.Error("contact submission failed", slog.String("op", op), sl.Err(err))
		return r.serviceError(c, err)
	}

	return c.JSON(http.StatusAccepted, response.SuccessResponse(nil))
}

func (r *Routers) Health(c echo.Context) error {
	remote := "ok"
	if err := r.Public.Health(c.Request().Context()); err != nil {
		remote = "unreachable"
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"remote": remote,
	})
}

// --- operator auth ---

func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(slog.String("op", op))

	var req request.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		log.Warn("invalid login request", slog.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := r.Auth.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		log.Warn("login failed", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	sess, err := session.Get("session", c)
	if err == nil {
		sess.Values["authenticated"] = true
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			log.Error("failed to save session", sl.Err(err))
		}
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	if err := r.Auth.Logout(c.Request().Context()); err != nil {
		r.log.Error("logout failed", slog.String("op", op), sl.Err(err))
	}

	if sess, err := session.Get("session", c); err == nil {
		sess.Values["authenticated"] = false
		sess.Options.MaxAge = -1
		_ = sess.Save(c.Request(), c.Response())
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

// --- admin panel ---

func (r *Routers) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(dto.DashboardResponse{
		Portfolio: r.Store.Portfolio(),
		Services:  r.Store.Services(),
		Slideshow: r.Store.Slideshow(),
		Projects:  r.Store.Projects(),
		Degraded:  r.Store.Degraded(),
	}))
}

func (r *Routers) Reload(c echo.Context) error {
	const op = "http.routers.Reload"

	if err := r.Store.ReloadAll(c.Request().Context()); err != nil {
		r.log.Warn("partial reload", slog.String("op", op), sl.Err(err))
	}

	return r.Dashboard(c)
}

// SaveContent handles create and update for portfolio and services.
// The request is a multipart form: entity fields plus an optional
// "image" file part; a present ID means update.
func (r *Routers) SaveContent(c echo.Context) error {
	const op = "http.routers.SaveContent"

	log := r.log.With(slog.String("op", op))

	collection := models.Collection(c.Param("collection"))
	if !collection.Valid() || collection == models.CollectionSlideshow {
		return c.JSON(http.StatusNotFound, response.ErrorResponseWithDetails("unknown_collection", string(collection)))
	}

	var form dto.ContentForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(form); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}
	if id := c.Param("id"); id != "" {
		form.ID = id
	}

	pending := form.ToPendingForm()

	file, err := readFormFile(c, "image")
	if err != nil {
		log.Warn("unreadable image part", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "image part could not be read"))
	}
	pending.File = file

	if err := r.Admin.SaveContent(c.Request().Context(), collection, pending); err != nil {
		log.Error("save failed", sl.Err(err))
		return r.serviceError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

func (r *Routers) DeleteContent(c echo.Context) error {
	const op = "http.routers.DeleteContent"

	collection := models.Collection(c.Param("collection"))
	if !collection.Valid() || collection == models.CollectionSlideshow {
		return c.JSON(http.StatusNotFound, response.ErrorResponseWithDetails("unknown_collection", string(collection)))
	}

	confirmed := c.QueryParam("confirm") == "true"

	if err := r.Admin.Remove(c.Request().Context(), collection, c.Param("id"), confirmed); err != nil {
		r.log.Error("delete failed", slog.String("op", op), sl.Err(err))
		return r.serviceError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

func (r *Routers) AddSlideshowImage(c echo.Context) error {
	const op = "http.routers.AddSlideshowImage"

	file, err := readFormFile(c, "image")
	if err != nil || file == nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "an image file is required"))
	}

	if err := r.Admin.AddSlideshowImage(c.Request().Context(), *file); err != nil {
		r.log.Error("slideshow add failed", slog.String("op", op), sl.Err(err))
		return r.serviceError(c, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(nil))
}

func (r *Routers) DeleteSlideshowImage(c echo.Context) error {
	const op = "http.routers.DeleteSlideshowImage"

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "index must be an integer"))
	}

	confirmed := c.QueryParam("confirm") == "true"

	if err := r.Admin.RemoveSlideshowImage(c.Request().Context(), index, confirmed); err != nil {
		r.log.Error("slideshow delete failed", slog.String("op", op), sl.Err(err))
		return r.serviceError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

func (r *Routers) SaveSequence(c echo.Context) error {
	const op = "http.routers.SaveSequence"

	var req dto.SaveSequenceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := r.Sequence.SaveEntries(c.Request().Context(), req.Sequences); err != nil {
		r.log.Error("sequence save failed", slog.String("op", op), sl.Err(err))
		return r.serviceError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

func (r *Routers) MoveProject(c echo.Context) error {
	const op = "http.routers.MoveProject"

	var req dto.MoveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	direction, err := sequence.ParseDirection(req.Direction)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := r.Sequence.Move(c.Request().Context(), req.Index, direction); err != nil {
		r.log.Error("move failed", slog.String("op", op), sl.Err(err))
		return r.serviceError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

func (r *Routers) AutoSequence(c echo.Context) error {
	const op = "http.routers.AutoSequence"

	if err := r.Sequence.AutoSave(c.Request().Context()); err != nil {
		r.log.Error("auto sequence failed", slog.String("op", op), sl.Err(err))
		return r.serviceError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

// serviceError maps the service error taxonomy onto HTTP responses.
// An unauthorized outcome additionally tells the panel where to go.
func (r *Routers) serviceError(c echo.Context, err error) error {
	var statusErr *gateway.StatusError

	switch {
	case errors.Is(err, storage.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, response.ErrSessionExpired)
	case errors.Is(err, storage.ErrNotConfirmed):
		return c.JSON(http.StatusBadRequest, response.ErrConfirmationRequired)
	case errors.Is(err, storage.ErrNoValidIdentifiers):
		return c.JSON(http.StatusUnprocessableEntity, response.ErrorResponseWithDetails("no_valid_identifiers", err.Error()))
	case errors.Is(err, storage.ErrMoveOutOfRange):
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("move_out_of_range", err.Error()))
	case errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrInvalidFileType),
		errors.Is(err, storage.ErrEmptyUpload):
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_upload", err.Error()))
	case errors.Is(err, storage.ErrUploadFailed), errors.Is(err, storage.ErrPartialUpload):
		return c.JSON(http.StatusBadGateway, response.ErrorResponseWithDetails("upload_failed", err.Error()))
	case models.IsFormValidationError(err):
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	case errors.As(err, &statusErr):
		return c.JSON(http.StatusBadGateway, response.ErrorResponseWithDetails("remote_rejected", statusErr.Message))
	default:
		return c.JSON(http.StatusBadGateway, response.ErrRemoteUnavailable)
	}
}

// readFormFile loads an optional multipart file part into memory.
// Returns nil without error when the part is simply absent.
func readFormFile(c echo.Context, field string) (*models.StagedFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	return stagedFromHeader(header)
}

func stagedFromHeader(header *multipart.FileHeader) (*models.StagedFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data := make([]byte, 0, header.Size)
	buf := make([]byte, 32*1024)
	for {
		n, readErr := src.Read(buf)
		data = append(data, buf[:n]...)
		if readErr != nil {
			break
		}
	}

	return &models.StagedFile{Name: header.Filename, Data: data}, nil
}
