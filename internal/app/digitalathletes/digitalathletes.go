// Package digitalathletes собирает HTTP-сервис каталога и доставки
// цифровых атлетов: хранилище, миграции, кеш, сервисы и маршруты.
package digitalathletes

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/digital-athletes/internal/cache"
	"github.com/magabrotheeeer/digital-athletes/internal/config"
	"github.com/magabrotheeeer/digital-athletes/internal/files"
	"github.com/magabrotheeeer/digital-athletes/internal/lib/jwt"
	"github.com/magabrotheeeer/digital-athletes/internal/migrations"
	catalogservice "github.com/magabrotheeeer/digital-athletes/internal/services/catalog"
	deliveryservice "github.com/magabrotheeeer/digital-athletes/internal/services/delivery"
	entitlementservice "github.com/magabrotheeeer/digital-athletes/internal/services/entitlement"
	"github.com/magabrotheeeer/digital-athletes/internal/storage/repository"
)

// App хранит собранный HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New инициализирует хранилище, кеш и сервисы и возвращает готовое приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	contentStore := files.NewStore(cfg.ContentRoot)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	catalogService := catalogservice.New(db, cacheRedis, logger)
	entitlementService := entitlementservice.New(db, db, cfg.AthleteOptions, logger)
	deliveryService := deliveryservice.New(db, db, contentStore, cfg.AthleteOptions, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, catalogService, entitlementService, deliveryService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
