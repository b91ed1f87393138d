package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"maison_atelier/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockContentLister struct {
	mock.Mock
}

func (m *MockContentLister) ListPortfolio(ctx context.Context) ([]models.PortfolioItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PortfolioItem), args.Error(1)
}

func (m *MockContentLister) ListServices(ctx context.Context) ([]models.ServiceItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ServiceItem), args.Error(1)
}

func (m *MockContentLister) ListSlideshow(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockContentLister) ListProjects(ctx context.Context) ([]models.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}

func TestStore_ReloadAll(t *testing.T) {
	ctx := context.Background()
	lister := new(MockContentLister)

	lister.On("ListPortfolio", ctx).Return([]models.PortfolioItem{{ID: "p1", Title: "Loft"}}, nil).Once()
	lister.On("ListServices", ctx).Return([]models.ServiceItem{{ID: "s1", Title: "Styling"}}, nil).Once()
	lister.On("ListSlideshow", ctx).Return([]string{"/img/one.jpg", "/img/two.jpg"}, nil).Once()
	lister.On("ListProjects", ctx).Return([]models.Project{{ID: "p1", Title: "Loft"}}, nil).Once()

	store := NewStore(slog.Default(), lister)

	err := store.ReloadAll(ctx)

	require.NoError(t, err)
	assert.False(t, store.Degraded())
	assert.Len(t, store.Portfolio(), 1)
	assert.Len(t, store.Services(), 1)
	assert.Len(t, store.Projects(), 1)

	slides := store.Slideshow()
	require.Len(t, slides, 2)
	assert.Equal(t, 0, slides[0].Index)
	assert.Equal(t, "/img/one.jpg", slides[0].URL)
	assert.Equal(t, 1, slides[1].Index)

	lister.AssertExpectations(t)
}

func TestStore_ReloadAll_FailSoftPerCollection(t *testing.T) {
	ctx := context.Background()
	lister := new(MockContentLister)

	lister.On("ListPortfolio", ctx).Return([]models.PortfolioItem{{ID: "p1", Title: "Loft"}}, nil).Once()
	lister.On("ListServices", ctx).Return(nil, errors.New("services endpoint down")).Once()
	lister.On("ListSlideshow", ctx).Return([]string{"/img/one.jpg"}, nil).Once()
	lister.On("ListProjects", ctx).Return([]models.Project{{ID: "p1", Title: "Loft"}}, nil).Once()

	store := NewStore(slog.Default(), lister)

	err := store.ReloadAll(ctx)

	require.Error(t, err)
	assert.True(t, store.Degraded())
	assert.Empty(t, store.Services())
	assert.Len(t, store.Portfolio(), 1)
	assert.Len(t, store.Slideshow(), 1)
}

func TestStore_ReloadAll_FallbackProjectsFromPortfolio(t *testing.T) {
	ctx := context.Background()
	lister := new(MockContentLister)

	portfolio := []models.PortfolioItem{
		{ID: "p1", Title: "Loft", Category: "residential", Featured: true},
		{ID: "p2", Title: "Bistro", Category: "commercial"},
	}

	lister.On("ListPortfolio", ctx).Return(portfolio, nil).Once()
	lister.On("ListServices", ctx).Return([]models.ServiceItem{}, nil).Once()
	lister.On("ListSlideshow", ctx).Return([]string{}, nil).Once()
	lister.On("ListProjects", ctx).Return([]models.Project{}, nil).Once()

	store := NewStore(slog.Default(), lister)

	require.NoError(t, store.ReloadAll(ctx))

	projects := store.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, "p1", projects[0].ID)
	assert.True(t, projects[0].Fallback)
	assert.True(t, projects[0].Published)
	assert.True(t, projects[0].Featured)
	assert.Equal(t, "commercial", projects[1].Category)
}

func TestStore_ReloadAll_ReplacesStaleState(t *testing.T) {
	ctx := context.Background()
	lister := new(MockContentLister)

	lister.On("ListPortfolio", ctx).Return([]models.PortfolioItem{{ID: "p1"}, {ID: "p2"}}, nil).Once()
	lister.On("ListServices", ctx).Return([]models.ServiceItem{{ID: "s1"}}, nil).Once()
	lister.On("ListSlideshow", ctx).Return([]string{"/img/one.jpg"}, nil).Once()
	lister.On("ListProjects", ctx).Return([]models.Project{{ID: "p1"}, {ID: "p2"}}, nil).Once()

	store := NewStore(slog.Default(), lister)
	require.NoError(t, store.ReloadAll(ctx))
	require.Len(t, store.Portfolio(), 2)

	// second reload serves a shrunk remote; nothing lingers
	lister.On("ListPortfolio", ctx).Return([]models.PortfolioItem{{ID: "p1"}}, nil).Once()
	lister.On("ListServices", ctx).Return([]models.ServiceItem{}, nil).Once()
	lister.On("ListSlideshow", ctx).Return([]string{}, nil).Once()
	lister.On("ListProjects", ctx).Return([]models.Project{{ID: "p1"}}, nil).Once()

	require.NoError(t, store.ReloadAll(ctx))
	assert.Len(t, store.Portfolio(), 1)
	assert.Empty(t, store.Services())
	assert.Empty(t, store.Slideshow())
}

func TestStore_GettersReturnCopies(t *testing.T) {
	ctx := context.Background()
	lister := new(MockContentLister)

	lister.On("ListPortfolio", ctx).Return([]models.PortfolioItem{{ID: "p1", Title: "Loft"}}, nil).Once()
	lister.On("ListServices", ctx).Return([]models.ServiceItem{}, nil).Once()
	lister.On("ListSlideshow", ctx).Return([]string{}, nil).Once()
	lister.On("ListProjects", ctx).Return([]models.Project{{ID: "p1", Title: "Loft"}}, nil).Once()

	store := NewStore(slog.Default(), lister)
	require.NoError(t, store.ReloadAll(ctx))

	got := store.Portfolio()
	got[0].Title = "Mutated"

	assert.Equal(t, "Loft", store.Portfolio()[0].Title)
}

func TestFallbackProjects_KeepsEmptyIDs(t *testing.T) {
	projects := FallbackProjects([]models.PortfolioItem{
		{ID: "", Title: "Legacy Card"},
	})

	require.Len(t, projects, 1)
	assert.Empty(t, projects[0].ID)
	assert.True(t, projects[0].Fallback)
}
