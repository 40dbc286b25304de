// Package character реализует HTTP-обработчик скачивания файла персонажа.
//
// Обработчик проверяет, что пользователь аутентифицирован и владеет
// атлетом, после чего сервис доставки фиксирует скачивание в базе
// и отдаёт файл. Рассогласование каталога и файлового хранилища наружу
// не раскрывается: клиент получает обычный 404.
package character

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/digital-athletes/internal/http/middlewarectx"
	"github.com/magabrotheeeer/digital-athletes/internal/http/response"
	"github.com/magabrotheeeer/digital-athletes/internal/lib/sl"
	"github.com/magabrotheeeer/digital-athletes/internal/models"
	"github.com/magabrotheeeer/digital-athletes/internal/services/delivery"
	"github.com/magabrotheeeer/digital-athletes/internal/services/entitlement"
	"github.com/magabrotheeeer/digital-athletes/internal/storage/repository"
)

// Handler управляет HTTP-запросами на скачивание файла персонажа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики доставки файла персонажа.
type Service interface {
	DownloadCharacter(ctx context.Context, userID string, athleteProductID int, meta models.ClientMeta) (*delivery.Result, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Скачать файл персонажа
// @Description Отдаёт файл персонажа купленного цифрового атлета. Требует владения.
// @Tags Downloads
// @Produce octet-stream
// @Param id path int true "Идентификатор атлета"
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор или атлет не куплен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Атлет или файл не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /digital-athletes/{id}/download [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.download.character"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("invalid athlete id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("id is not valid"))
		return
	}

	meta := models.ClientMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}

	result, err := h.service.DownloadCharacter(r.Context(), userID, id, meta)
	switch {
	case errors.Is(err, entitlement.ErrNotOwned):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("you do not own this digital athlete"))
		return
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, delivery.ErrFileMissing):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("not found"))
		return
	case err != nil:
		log.Error("failed to deliver character file", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not download character file"))
		return
	}
	defer func() {
		_ = result.Content.Close()
	}()

	log.Info("character file download",
		slog.String("user_id", userID),
		slog.Int("athlete_id", id),
		slog.String("file_name", result.FileName))

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	http.ServeContent(w, r, result.FileName, result.ModTime, result.Content)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
