package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"maison_atelier/internal/domain/models"
	"maison_atelier/internal/lib/logger/sl"
)

// ContentLister is the read side of the remote content service.
type ContentLister interface {
	ListPortfolio(ctx context.Context) ([]models.PortfolioItem, error)
	ListServices(ctx context.Context) ([]models.ServiceItem, error)
	ListSlideshow(ctx context.Context) ([]string, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
}

// Store is the in-memory view of the remote collections. It is written
// by exactly one path, ReloadAll, which replaces each collection whole;
// mutations never splice local state, they reload. Readers get copies.
type Store struct {
	log    *slog.Logger
	lister ContentLister

	mu        sync.RWMutex
	portfolio []models.PortfolioItem
	services  []models.ServiceItem
	slideshow []models.SlideshowImage
	projects  []models.Project
	degraded  bool
}

func NewStore(log *slog.Logger, lister ContentLister) *Store {
	return &Store{
		log:    log,
		lister: lister,
	}
}

// ReloadAll fetches the four collections concurrently and replaces the
// store contents. A failed fetch empties only that collection and marks
// the store degraded; the others keep their fresh data. The joined
// error is returned for observability, the store is updated either way.
func (s *Store) ReloadAll(ctx context.Context) error {
	const op = "collection_service.ReloadAll"

	log := s.log.With(slog.String("op", op))
	log.Info("reloading collections")

	var (
		wg sync.WaitGroup

		portfolio []models.PortfolioItem
		svcItems  []models.ServiceItem
		slides    []string
		projects  []models.Project

		portfolioErr, servicesErr, slideshowErr, projectsErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		portfolio, portfolioErr = s.lister.ListPortfolio(ctx)
	}()
	go func() {
		defer wg.Done()
		svcItems, servicesErr = s.lister.ListServices(ctx)
	}()
	go func() {
		defer wg.Done()
		slides, slideshowErr = s.lister.ListSlideshow(ctx)
	}()
	go func() {
		defer wg.Done()
		projects, projectsErr = s.lister.ListProjects(ctx)
	}()
	wg.Wait()

	for name, err := range map[string]error{
		"portfolio": portfolioErr,
		"services":  servicesErr,
		"slideshow": slideshowErr,
		"projects":  projectsErr,
	} {
		if err != nil {
			log.Error("collection fetch failed, serving it empty", slog.String("collection", name), sl.Err(err))
		}
	}

	if portfolioErr != nil {
		portfolio = nil
	}
	if servicesErr != nil {
		svcItems = nil
	}
	if slideshowErr != nil {
		slides = nil
	}
	if projectsErr != nil {
		projects = nil
	}

	slideshow := make([]models.SlideshowImage, 0, len(slides))
	for i, u := range slides {
		slideshow = append(slideshow, models.SlideshowImage{Index: i, URL: u})
	}

	if len(projects) == 0 && len(portfolio) > 0 {
		projects = FallbackProjects(portfolio)
		log.Warn("projects source empty, sequencing view built from portfolio",
			slog.Int("count", len(projects)),
		)
	}

	failed := errors.Join(portfolioErr, servicesErr, slideshowErr, projectsErr)

	s.mu.Lock()
	s.portfolio = portfolio
	s.services = svcItems
	s.slideshow = slideshow
	s.projects = projects
	s.degraded = failed != nil
	s.mu.Unlock()

	log.Info("collections reloaded",
		slog.Int("portfolio", len(portfolio)),
		slog.Int("services", len(svcItems)),
		slog.Int("slideshow", len(slideshow)),
		slog.Int("projects", len(projects)),
		slog.Bool("degraded", failed != nil),
	)

	return failed
}

// FallbackProjects adapts portfolio cards into sequencing entries when
// the primary projects source came back empty. Entries keep the
// portfolio id (which may be empty, in which case the sequence engine
// drops them from any submitted plan) and are marked Fallback.
func FallbackProjects(portfolio []models.PortfolioItem) []models.Project {
	projects := make([]models.Project, 0, len(portfolio))
	for _, item := range portfolio {
		projects = append(projects, models.Project{
			ID:        item.ID,
			Title:     item.Title,
			Category:  item.Category,
			Sequence:  item.Sequence,
			Published: true,
			Featured:  item.Featured,
			Fallback:  true,
		})
	}
	return projects
}

func (s *Store) Portfolio() []models.PortfolioItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PortfolioItem, len(s.portfolio))
	copy(out, s.portfolio)
	return out
}

func (s *Store) Services() []models.ServiceItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ServiceItem, len(s.services))
	copy(out, s.services)
	return out
}

func (s *Store) Slideshow() []models.SlideshowImage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SlideshowImage, len(s.slideshow))
	copy(out, s.slideshow)
	return out
}

func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Degraded reports whether the last reload served any collection empty
// because its fetch failed.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}
