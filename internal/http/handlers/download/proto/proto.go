// Package proto реализует HTTP-обработчик выдачи proto-описания атлета.
package proto

import (
	"context"
	"errors"
	"fmt"
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

// Handler управляет HTTP-запросами на выдачу proto-файла.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи proto-файла.
type Service interface {
	GetProtoFile(ctx context.Context, athleteProductID int) (*delivery.Result, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Proto-описание атлета
// @Description Отдаёт protobuf-описание формата файла персонажа. Владение не требуется.
// @Tags Downloads
// @Produce plain
// @Param id path int true "Идентификатор атлета"
// @Success 200 {file} string
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Атлет или файл не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /digital-athletes/{id}/proto [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.download.proto"
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

	result, err := h.service.GetProtoFile(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, delivery.ErrFileMissing):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("not found"))
		return
	case err != nil:
		log.Error("failed to deliver proto file", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get proto file"))
		return
	}
	defer func() {
		_ = result.Content.Close()
	}()

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	http.ServeContent(w, r, result.FileName, result.ModTime, result.Content)
}
