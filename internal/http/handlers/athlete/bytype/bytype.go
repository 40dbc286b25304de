// Package bytype реализует HTTP-обработчик выборки атлетов по типу.
package bytype

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/athlete/list"
	"github.com/magabrotheeeer/digital-athletes/internal/http/response"
	"github.com/magabrotheeeer/digital-athletes/internal/lib/sl"
	"github.com/magabrotheeeer/digital-athletes/internal/models"
)

// Handler управляет HTTP-запросами на выборку атлетов по типу.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки по типу.
type Service interface {
	ListByType(ctx context.Context, athleteType string, pageSize, pageIndex int) (*models.PaginatedAthletes, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Атлеты по типу
// @Description Возвращает страницу активных атлетов указанного типа (Runner, Fighter и т.д.).
// @Tags Athletes
// @Produce json
// @Param athleteType path string true "Тип атлета"
// @Param page_size query int false "Размер страницы" default(10)
// @Param page_index query int false "Номер страницы" default(0)
// @Success 200 {object} models.PaginatedAthletes
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /digital-athletes/type/{athleteType} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.athlete.bytype"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	athleteType := chi.URLParam(r, "athleteType")
	if athleteType == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("athlete type is required"))
		return
	}

	pageSize, pageIndex := list.Pagination(r)

	page, err := h.service.ListByType(r.Context(), athleteType, pageSize, pageIndex)
	if err != nil {
		log.Error("failed to list athletes by type", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list athletes"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(page))
}
