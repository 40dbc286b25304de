// Package batch реализует HTTP-обработчик пакетного чтения атлетов по списку ID.
package batch

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/digital-athletes/internal/http/response"
	"github.com/magabrotheeeer/digital-athletes/internal/lib/sl"
	"github.com/magabrotheeeer/digital-athletes/internal/models"
)

// Handler управляет HTTP-запросами на пакетное чтение атлетов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики пакетного чтения.
type Service interface {
	ListByIDs(ctx context.Context, ids []int) ([]*models.DigitalAthleteProduct, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Пакетное чтение атлетов
// @Description Возвращает атлетов по списку идентификаторов в параметре ids (через запятую).
// @Tags Athletes
// @Produce json
// @Param ids query string true "Идентификаторы через запятую, например 1,2,3"
// @Success 200 {array} models.DigitalAthleteProduct
// @Failure 400 {object} response.ErrorResponse "Некорректный список идентификаторов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /digital-athletes/batch [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.athlete.batch"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	raw := r.URL.Query().Get("ids")
	if raw == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("ids query parameter is required"))
		return
	}

	var ids []int
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("ids must be positive integers"))
			return
		}
		ids = append(ids, id)
	}

	items, err := h.service.ListByIDs(r.Context(), ids)
	if err != nil {
		log.Error("failed to list athletes by ids", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list athletes"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(items))
}
