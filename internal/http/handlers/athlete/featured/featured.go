// Package featured реализует HTTP-обработчик витрины рекомендуемых атлетов.
package featured

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/digital-athletes/internal/http/response"
	"github.com/magabrotheeeer/digital-athletes/internal/lib/sl"
	"github.com/magabrotheeeer/digital-athletes/internal/models"
)

// Handler управляет HTTP-запросами на чтение витрины.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики витрины.
type Service interface {
	ListFeatured(ctx context.Context, count int) ([]*models.DigitalAthleteProduct, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Рекомендуемые атлеты
// @Description Возвращает рекомендуемых атлетов для витрины, отсортированных по рейтингу и скачиваниям.
// @Tags Athletes
// @Produce json
// @Param count query int false "Максимум записей" default(10)
// @Success 200 {array} models.DigitalAthleteProduct
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /digital-athletes/featured [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.athlete.featured"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil || count <= 0 {
		count = 10
	}

	items, err := h.service.ListFeatured(r.Context(), count)
	if err != nil {
		log.Error("failed to list featured athletes", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list featured athletes"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(items))
}
