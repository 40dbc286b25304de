// Package preview реализует HTTP-обработчик выдачи превью атлета.
package preview

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
	"github.com/magabrotheeeer/digital-athletes/internal/services/delivery"
	"github.com/magabrotheeeer/digital-athletes/internal/storage/repository"
)

// Handler управляет HTTP-запросами на выдачу превью.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи превью.
type Service interface {
	GetPreviewImage(ctx context.Context, athleteProductID int) (*delivery.Result, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Превью атлета
// @Description Отдаёт изображение-превью цифрового атлета.
// @Tags Athletes
// @Produce jpeg
// @Param id path int true "Идентификатор атлета"
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Атлет или превью не найдены"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /digital-athletes/{id}/preview [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.download.preview"
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

	result, err := h.service.GetPreviewImage(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, delivery.ErrFileMissing):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("not found"))
		return
	case err != nil:
		log.Error("failed to deliver preview image", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get preview image"))
		return
	}
	defer func() {
		_ = result.Content.Close()
	}()

	w.Header().Set("Content-Type", result.ContentType)
	http.ServeContent(w, r, "", result.ModTime, result.Content)
}
