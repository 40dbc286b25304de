// Package bycategory реализует HTTP-обработчик выборки атлетов по категории.
package bycategory

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/digital-athletes/internal/http/handlers/athlete/list"
	"github.com/magabrotheeeer/digital-athletes/internal/http/response"
	"github.com/magabrotheeeer/digital-athletes/internal/lib/sl"
	"github.com/magabrotheeeer/digital-athletes/internal/models"
)

// Handler управляет HTTP-запросами на выборку атлетов по категории.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки по категории.
type Service interface {
	ListByCategory(ctx context.Context, categoryID, pageSize, pageIndex int) (*models.PaginatedAthletes, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Атлеты по категории
// @Description Возвращает страницу активных атлетов указанной категории.
// @Tags Athletes
// @Produce json
// @Param categoryId path int true "Идентификатор категории"
// @Param page_size query int false "Размер страницы" default(10)
// @Param page_index query int false "Номер страницы" default(0)
// @Success 200 {object} models.PaginatedAthletes
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор категории"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /digital-athletes/category/{categoryId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.athlete.bycategory"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	categoryID, err := strconv.Atoi(chi.URLParam(r, "categoryId"))
	if err != nil || categoryID <= 0 {
		log.Error("invalid category id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("category id is not valid"))
		return
	}

	pageSize, pageIndex := list.Pagination(r)

	page, err := h.service.ListByCategory(r.Context(), categoryID, pageSize, pageIndex)
	if err != nil {
		log.Error("failed to list athletes by category", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list athletes"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(page))
}
