// Package catalog содержит бизнес-логику чтения каталога цифровых атлетов
// с кешированием горячих выборок.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/digital-athletes/internal/lib/sl"
	"github.com/magabrotheeeer/digital-athletes/internal/models"
)

const cacheTTL = 5 * time.Minute

// Repository определяет методы чтения каталога в хранилище.
type Repository interface {
	ReadAthlete(ctx context.Context, id int) (*models.DigitalAthleteProduct, error)
	ListAthletes(ctx context.Context, limit, offset int) ([]*models.DigitalAthleteProduct, int64, error)
	ListAthletesByIDs(ctx context.Context, ids []int) ([]*models.DigitalAthleteProduct, error)
	ListAthletesByType(ctx context.Context, athleteType string, limit, offset int) ([]*models.DigitalAthleteProduct, int64, error)
	ListAthletesByCategory(ctx context.Context, categoryID, limit, offset int) ([]*models.DigitalAthleteProduct, int64, error)
	ListFeaturedAthletes(ctx context.Context, count int) ([]*models.DigitalAthleteProduct, error)
	ListCategories(ctx context.Context) ([]*models.AthleteCategory, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует чтение каталога с кешированием. Каталог для этой
// подсистемы только на чтение, поэтому записи кеша живут по TTL без
// инвалидации.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Read возвращает товар каталога по ID, используя кеш или репозиторий.
func (s *Service) Read(ctx context.Context, id int) (*models.DigitalAthleteProduct, error) {
	cacheKey := fmt.Sprintf("athlete:%d", id)
	var cached *models.DigitalAthleteProduct
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read athlete from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	item, err := s.repo.ReadAthlete(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, item, cacheTTL); err != nil {
		s.log.Warn("failed to cache athlete", slog.String("key", cacheKey), sl.Err(err))
	}
	return item, nil
}

// List возвращает страницу активных товаров каталога.
func (s *Service) List(ctx context.Context, pageSize, pageIndex int) (*models.PaginatedAthletes, error) {
	cacheKey := fmt.Sprintf("athletes:page:%d:%d", pageSize, pageIndex)
	var cached *models.PaginatedAthletes
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read athletes page from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	items, total, err := s.repo.ListAthletes(ctx, pageSize, pageSize*pageIndex)
	if err != nil {
		return nil, err
	}
	page := &models.PaginatedAthletes{
		PageIndex: pageIndex,
		PageSize:  pageSize,
		Count:     total,
		Data:      items,
	}
	if err := s.cache.Set(cacheKey, page, cacheTTL); err != nil {
		s.log.Warn("failed to cache athletes page", slog.String("key", cacheKey), sl.Err(err))
	}
	return page, nil
}

// ListByIDs возвращает товары по списку идентификаторов, без кеша.
func (s *Service) ListByIDs(ctx context.Context, ids []int) ([]*models.DigitalAthleteProduct, error) {
	return s.repo.ListAthletesByIDs(ctx, ids)
}

// ListByType возвращает страницу активных товаров указанного типа.
func (s *Service) ListByType(ctx context.Context, athleteType string, pageSize, pageIndex int) (*models.PaginatedAthletes, error) {
	items, total, err := s.repo.ListAthletesByType(ctx, athleteType, pageSize, pageSize*pageIndex)
	if err != nil {
		return nil, err
	}
	return &models.PaginatedAthletes{
		PageIndex: pageIndex,
		PageSize:  pageSize,
		Count:     total,
		Data:      items,
	}, nil
}

// ListByCategory возвращает страницу активных товаров указанной категории.
func (s *Service) ListByCategory(ctx context.Context, categoryID, pageSize, pageIndex int) (*models.PaginatedAthletes, error) {
	items, total, err := s.repo.ListAthletesByCategory(ctx, categoryID, pageSize, pageSize*pageIndex)
	if err != nil {
		return nil, err
	}
	return &models.PaginatedAthletes{
		PageIndex: pageIndex,
		PageSize:  pageSize,
		Count:     total,
		Data:      items,
	}, nil
}

// ListFeatured возвращает рекомендуемые товары для витрины.
func (s *Service) ListFeatured(ctx context.Context, count int) ([]*models.DigitalAthleteProduct, error) {
	cacheKey := fmt.Sprintf("athletes:featured:%d", count)
	var cached []*models.DigitalAthleteProduct
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read featured athletes from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	items, err := s.repo.ListFeaturedAthletes(ctx, count)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, items, cacheTTL); err != nil {
		s.log.Warn("failed to cache featured athletes", slog.String("key", cacheKey), sl.Err(err))
	}
	return items, nil
}

// ListCategories возвращает все категории атлетов.
func (s *Service) ListCategories(ctx context.Context) ([]*models.AthleteCategory, error) {
	cacheKey := "athlete-categories"
	var cached []*models.AthleteCategory
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read categories from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	items, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, items, cacheTTL); err != nil {
		s.log.Warn("failed to cache categories", slog.String("key", cacheKey), sl.Err(err))
	}
	return items, nil
}
