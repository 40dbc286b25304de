package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/digital-athletes/internal/models"
	"github.com/magabrotheeeer/digital-athletes/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ReadAthlete(ctx context.Context, id int) (*models.DigitalAthleteProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DigitalAthleteProduct), args.Error(1)
}

func (m *RepoMock) ListAthletes(ctx context.Context, limit, offset int) ([]*models.DigitalAthleteProduct, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.DigitalAthleteProduct), args.Get(1).(int64), args.Error(2)
}

func (m *RepoMock) ListAthletesByIDs(ctx context.Context, ids []int) ([]*models.DigitalAthleteProduct, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DigitalAthleteProduct), args.Error(1)
}

func (m *RepoMock) ListAthletesByType(ctx context.Context, athleteType string, limit, offset int) ([]*models.DigitalAthleteProduct, int64, error) {
	args := m.Called(ctx, athleteType, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.DigitalAthleteProduct), args.Get(1).(int64), args.Error(2)
}

func (m *RepoMock) ListAthletesByCategory(ctx context.Context, categoryID, limit, offset int) ([]*models.DigitalAthleteProduct, int64, error) {
	args := m.Called(ctx, categoryID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.DigitalAthleteProduct), args.Get(1).(int64), args.Error(2)
}

func (m *RepoMock) ListFeaturedAthletes(ctx context.Context, count int) ([]*models.DigitalAthleteProduct, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DigitalAthleteProduct), args.Error(1)
}

func (m *RepoMock) ListCategories(ctx context.Context) ([]*models.AthleteCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AthleteCategory), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCatalogService_Read(t *testing.T) {
	product := &models.DigitalAthleteProduct{ID: 3, Name: "Sprinter", Version: "1.0"}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		want       *models.DigitalAthleteProduct
		wantErr    error
	}{
		{
			name: "cache hit",
			setupMocks: func(_ *RepoMock, c *CacheMock) {
				c.On("Get", "athlete:3", mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
					ptr := args.Get(1).(**models.DigitalAthleteProduct)
					*ptr = product
				}).Once()
			},
			want: product,
		},
		{
			name: "cache miss then repo",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "athlete:3", mock.Anything).Return(false, nil).Once()
				r.On("ReadAthlete", mock.Anything, 3).Return(product, nil).Once()
				c.On("Set", "athlete:3", product, cacheTTL).Return(nil).Once()
			},
			want: product,
		},
		{
			name: "cache error is not fatal",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "athlete:3", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("ReadAthlete", mock.Anything, 3).Return(product, nil).Once()
				c.On("Set", "athlete:3", product, cacheTTL).Return(errors.New("redis down")).Once()
			},
			want: product,
		},
		{
			name: "unknown athlete",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "athlete:3", mock.Anything).Return(false, nil).Once()
				r.On("ReadAthlete", mock.Anything, 3).Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.Read(context.Background(), 3)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestCatalogService_List(t *testing.T) {
	items := []*models.DigitalAthleteProduct{
		{ID: 1, Name: "Sprinter"},
		{ID: 2, Name: "Boxer"},
	}

	tests := []struct {
		name       string
		pageSize   int
		pageIndex  int
		setupMocks func(r *RepoMock, c *CacheMock)
		wantCount  int64
		wantErr    bool
	}{
		{
			name:      "offset is page size times page index",
			pageSize:  10,
			pageIndex: 2,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "athletes:page:10:2", mock.Anything).Return(false, nil).Once()
				r.On("ListAthletes", mock.Anything, 10, 20).Return(items, int64(42), nil).Once()
				c.On("Set", "athletes:page:10:2", mock.Anything, cacheTTL).Return(nil).Once()
			},
			wantCount: 42,
		},
		{
			name:      "cache hit skips repo",
			pageSize:  10,
			pageIndex: 0,
			setupMocks: func(_ *RepoMock, c *CacheMock) {
				c.On("Get", "athletes:page:10:0", mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
					ptr := args.Get(1).(**models.PaginatedAthletes)
					*ptr = &models.PaginatedAthletes{PageIndex: 0, PageSize: 10, Count: 2, Data: items}
				}).Once()
			},
			wantCount: 2,
		},
		{
			name:      "repo error",
			pageSize:  10,
			pageIndex: 0,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "athletes:page:10:0", mock.Anything).Return(false, nil).Once()
				r.On("ListAthletes", mock.Anything, 10, 0).Return(nil, int64(0), errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.List(context.Background(), tt.pageSize, tt.pageIndex)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantCount, got.Count)
				assert.Equal(t, tt.pageIndex, got.PageIndex)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestCatalogService_ListFeatured(t *testing.T) {
	items := []*models.DigitalAthleteProduct{{ID: 1, IsFeatured: true}}

	t.Run("cache miss then repo", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, newNoopLogger())

		cache.On("Get", "athletes:featured:5", mock.Anything).Return(false, nil).Once()
		repo.On("ListFeaturedAthletes", mock.Anything, 5).Return(items, nil).Once()
		cache.On("Set", "athletes:featured:5", items, cacheTTL).Return(nil).Once()

		got, err := svc.ListFeatured(context.Background(), 5)
		assert.NoError(t, err)
		assert.Equal(t, items, got)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("repo error", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, newNoopLogger())

		cache.On("Get", "athletes:featured:5", mock.Anything).Return(false, nil).Once()
		repo.On("ListFeaturedAthletes", mock.Anything, 5).Return(nil, errors.New("db error")).Once()

		got, err := svc.ListFeatured(context.Background(), 5)
		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestCatalogService_ListCategories(t *testing.T) {
	categories := []*models.AthleteCategory{
		{ID: 1, Name: "Runners"},
		{ID: 2, Name: "Fighters"},
	}

	t.Run("cache miss then repo", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, newNoopLogger())

		cache.On("Get", "athlete-categories", mock.Anything).Return(false, nil).Once()
		repo.On("ListCategories", mock.Anything).Return(categories, nil).Once()
		cache.On("Set", "athlete-categories", categories, cacheTTL).Return(nil).Once()

		got, err := svc.ListCategories(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, categories, got)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := New(repo, cache, newNoopLogger())

		cache.On("Get", "athlete-categories", mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
			ptr := args.Get(1).(*[]*models.AthleteCategory)
			*ptr = categories
		}).Once()

		got, err := svc.ListCategories(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, categories, got)

		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})
}

func TestCatalogService_ListByIDs(t *testing.T) {
	items := []*models.DigitalAthleteProduct{{ID: 4}, {ID: 9}}

	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := New(repo, cache, newNoopLogger())

	repo.On("ListAthletesByIDs", mock.Anything, []int{4, 9}).Return(items, nil).Once()

	got, err := svc.ListByIDs(context.Background(), []int{4, 9})
	assert.NoError(t, err)
	assert.Equal(t, items, got)

	repo.AssertExpectations(t)
}
