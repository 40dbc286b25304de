// Package read реализует HTTP-обработчик чтения карточки цифрового атлета.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/digital-athletes/internal/http/response"
	"github.com/magabrotheeeer/digital-athletes/internal/lib/sl"
	"github.com/magabrotheeeer/digital-athletes/internal/models"
	"github.com/magabrotheeeer/digital-athletes/internal/storage/repository"
)

// Handler управляет HTTP-запросами на чтение карточки атлета.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения карточки.
type Service interface {
	Read(ctx context.Context, id int) (*models.DigitalAthleteProduct, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Карточка цифрового атлета
// @Description Возвращает подробную информацию об атлете по его идентификатору.
// @Tags Athletes
// @Produce json
// @Param id path int true "Идентификатор атлета"
// @Success 200 {object} models.DigitalAthleteProduct
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Атлет не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /digital-athletes/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.athlete.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("invalid athlete id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("id is not valid"))
		return
	}

	item, err := h.service.Read(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("athlete not found"))
		return
	}
	if err != nil {
		log.Error("failed to read athlete", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read athlete"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(item))
}
