// Package categories реализует HTTP-обработчик списка категорий атлетов.
package categories

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/digital-athletes/internal/http/response"
	"github.com/magabrotheeeer/digital-athletes/internal/lib/sl"
	"github.com/magabrotheeeer/digital-athletes/internal/models"
)

// Handler управляет HTTP-запросами на чтение категорий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения категорий.
type Service interface {
	ListCategories(ctx context.Context) ([]*models.AthleteCategory, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список категорий
// @Description Возвращает все категории атлетов, отсортированные по имени.
// @Tags Categories
// @Produce json
// @Success 200 {array} models.AthleteCategory
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /digital-athletes/categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.athlete.categories"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.ListCategories(r.Context())
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list categories"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(items))
}
