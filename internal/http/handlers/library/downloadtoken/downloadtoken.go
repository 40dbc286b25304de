// Package downloadtoken реализует HTTP-обработчик выдачи токена скачивания
// для купленного цифрового атлета.
package downloadtoken

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/digital-athletes/internal/http/middlewarectx"
	"github.com/magabrotheeeer/digital-athletes/internal/http/response"
	"github.com/magabrotheeeer/digital-athletes/internal/lib/sl"
	"github.com/magabrotheeeer/digital-athletes/internal/models"
	"github.com/magabrotheeeer/digital-athletes/internal/services/entitlement"
)

// Handler управляет HTTP-запросами на выдачу токена скачивания.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики токенов скачивания.
type Service interface {
	GetDownloadToken(ctx context.Context, userID string, athleteProductID int) (*models.DownloadTokenResponse, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Токен скачивания
// @Description Возвращает действующий токен скачивания атлета, при необходимости перевыпуская его.
// @Tags Library
// @Produce json
// @Param athleteId path int true "Идентификатор атлета"
// @Success 200 {object} models.DownloadTokenResponse
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор или атлет не куплен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /digital-athletes/{athleteId}/download-token [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.library.downloadtoken"
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

	athleteID, err := strconv.Atoi(chi.URLParam(r, "athleteId"))
	if err != nil || athleteID <= 0 {
		log.Error("invalid athlete id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("id is not valid"))
		return
	}

	token, err := h.service.GetDownloadToken(r.Context(), userID, athleteID)
	if errors.Is(err, entitlement.ErrNotOwned) {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("you do not own this digital athlete"))
		return
	}
	if err != nil {
		log.Error("failed to get download token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get download token"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(token))
}
