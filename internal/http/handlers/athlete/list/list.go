// Package list реализует HTTP-обработчик списка цифровых атлетов каталога.
package list

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

// Handler управляет HTTP-запросами на чтение страницы каталога.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения каталога.
type Service interface {
	List(ctx context.Context, pageSize, pageIndex int) (*models.PaginatedAthletes, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список цифровых атлетов
// @Description Возвращает страницу активных цифровых атлетов каталога, отсортированную по названию.
// @Tags Athletes
// @Produce json
// @Param page_size query int false "Размер страницы" default(10)
// @Param page_index query int false "Номер страницы" default(0)
// @Success 200 {object} models.PaginatedAthletes
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /digital-athletes [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.athlete.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	pageSize, pageIndex := Pagination(r)

	page, err := h.service.List(r.Context(), pageSize, pageIndex)
	if err != nil {
		log.Error("failed to list athletes", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list athletes"))
		return
	}

	log.Info("list athletes", slog.Int("count", len(page.Data)))
	render.JSON(w, r, response.StatusOKWithData(page))
}

// Pagination извлекает параметры страницы из запроса с разумными умолчаниями.
func Pagination(r *http.Request) (pageSize, pageIndex int) {
	pageSize, err := strconv.Atoi(r.URL.Query().Get("page_size"))
	if err != nil || pageSize <= 0 {
		pageSize = 10
	}
	pageIndex, err = strconv.Atoi(r.URL.Query().Get("page_index"))
	if err != nil || pageIndex < 0 {
		pageIndex = 0
	}
	return pageSize, pageIndex
}
