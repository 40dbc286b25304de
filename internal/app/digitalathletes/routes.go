// Package digitalathletes предоставляет маршруты для основного приложения.
package digitalathletes

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/athlete/batch"
	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/athlete/bycategory"
	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/athlete/bytype"
	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/athlete/categories"
	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/athlete/featured"
	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/athlete/list"
	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/athlete/read"
	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/download/character"
	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/download/preview"
	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/download/proto"
	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/library/downloadtoken"
	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/library/myathletes"
	"github.com/magabrotheeeer/digital-athletes/internal/http/middlewarectx"
	catalogservice "github.com/magabrotheeeer/digital-athletes/internal/services/catalog"
	deliveryservice "github.com/magabrotheeeer/digital-athletes/internal/services/delivery"
	entitlementservice "github.com/magabrotheeeer/digital-athletes/internal/services/entitlement"

	"log/slog"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, tokenParser middlewarectx.TokenParser, catalogService *catalogservice.Service, entitlementService *entitlementservice.Service, deliveryService *deliveryservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1/digital-athletes", func(r chi.Router) {
		// Открытые конечные точки каталога
		r.Get("/", list.New(logger, catalogService).ServeHTTP)
		r.Get("/batch", batch.New(logger, catalogService).ServeHTTP)
		r.Get("/featured", featured.New(logger, catalogService).ServeHTTP)
		r.Get("/categories", categories.New(logger, catalogService).ServeHTTP)
		r.Get("/type/{athleteType}", bytype.New(logger, catalogService).ServeHTTP)
		r.Get("/category/{categoryId}", bycategory.New(logger, catalogService).ServeHTTP)
		r.Get("/{id}", read.New(logger, catalogService).ServeHTTP)

		// Открытая выдача сопутствующих файлов
		r.Get("/{id}/proto", proto.New(logger, deliveryService).ServeHTTP)
		r.Get("/{id}/preview", preview.New(logger, deliveryService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenParser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/my-athletes", myathletes.New(logger, entitlementService).ServeHTTP)
			r.Get("/{athleteId}/download-token", downloadtoken.New(logger, entitlementService).ServeHTTP)
			r.Get("/{id}/download", character.New(logger, deliveryService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
