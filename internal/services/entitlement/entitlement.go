// Package entitlement содержит бизнес-логику выдачи владения цифровыми
// атлетами по событиям оплаты заказов и работы с токенами скачивания.
package entitlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/digital-athletes/internal/config"
	"github.com/magabrotheeeer/digital-athletes/internal/lib/dltoken"
	"github.com/magabrotheeeer/digital-athletes/internal/lib/sl"
	"github.com/magabrotheeeer/digital-athletes/internal/models"
	"github.com/magabrotheeeer/digital-athletes/internal/storage/repository"
)

// ErrNotOwned возвращается, когда аутентифицированный пользователь
// запрашивает токен или файл атлета, которым не владеет.
var ErrNotOwned = errors.New("user does not own this digital athlete")

// OwnershipRepository определяет методы для работы с записями о владении.
type OwnershipRepository interface {
	// FindOwnership возвращает запись о владении или repository.ErrNotFound.
	FindOwnership(ctx context.Context, userID string, athleteProductID int) (*models.UserOwnedAthlete, error)
	// GrantOwnerships вставляет записи одной транзакцией, пропуская дубликаты.
	GrantOwnerships(ctx context.Context, ownerships []models.UserOwnedAthlete) ([]bool, error)
	// UpdateOwnershipToken обновляет токен скачивания и срок его действия.
	UpdateOwnershipToken(ctx context.Context, id int, token string, expiration *time.Time) error
	// ListOwnershipsByUser возвращает библиотеку пользователя, новые приобретения первыми.
	ListOwnershipsByUser(ctx context.Context, userID string) ([]*models.OwnedAthleteView, error)
}

// CatalogRepository определяет чтение каталога, необходимое при выдаче владения.
type CatalogRepository interface {
	// ReadAthlete возвращает товар каталога или repository.ErrNotFound.
	ReadAthlete(ctx context.Context, id int) (*models.DigitalAthleteProduct, error)
}

// Service реализует выдачу владения и токенов скачивания.
type Service struct {
	repo     OwnershipRepository
	catalog  CatalogRepository
	opts     config.AthleteOptions
	log      *slog.Logger
	validate *validator.Validate
}

// New создает новый Service.
func New(repo OwnershipRepository, catalog CatalogRepository, opts config.AthleteOptions, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		catalog:  catalog,
		opts:     opts,
		log:      log,
		validate: validator.New(),
	}
}

// HandleOrderPaid обрабатывает событие об оплате заказа: для каждой позиции,
// являющейся цифровым атлетом, гарантирует существование записи о владении.
// Повторная доставка того же события — штатный no-op: уникальность пары
// (user_id, athlete_product_id) в базе и есть механизм дедупликации.
// Ошибка возвращается только при недоступности хранилища, чтобы брокер
// доставил сообщение повторно.
func (s *Service) HandleOrderPaid(ctx context.Context, body []byte) error {
	const op = "entitlement.HandleOrderPaid"
	log := s.log.With(slog.String("op", op))

	var event models.OrderStatusChangedToPaidEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal order paid event", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.validate.Struct(event); err != nil {
		log.Error("invalid order paid event", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("handling order paid event",
		slog.Int("order_id", event.OrderID),
		slog.String("buyer_id", event.BuyerID),
		slog.Int("items", len(event.OrderStockItems)))

	now := time.Now().UTC()
	orderID := event.OrderID
	var ownerships []models.UserOwnedAthlete
	for _, item := range event.OrderStockItems {
		_, err := s.catalog.ReadAthlete(ctx, item.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			// Позиция не является цифровым атлетом.
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		token := dltoken.New()
		ownerships = append(ownerships, models.UserOwnedAthlete{
			UserID:           event.BuyerID,
			AthleteProductID: item.ProductID,
			AcquiredDate:     now,
			OrderID:          &orderID,
			DownloadToken:    &token,
			TokenExpiration:  s.tokenExpiration(now),
			DownloadCount:    0,
		})
	}

	if len(ownerships) == 0 {
		log.Info("no digital athletes in order", slog.Int("order_id", event.OrderID))
		return nil
	}

	granted, err := s.repo.GrantOwnerships(ctx, ownerships)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i, o := range ownerships {
		if granted[i] {
			log.Info("granted digital athlete",
				slog.Int("athlete_id", o.AthleteProductID),
				slog.String("user_id", o.UserID),
				slog.Int("order_id", event.OrderID))
		} else {
			log.Warn("user already owns digital athlete",
				slog.Int("athlete_id", o.AthleteProductID),
				slog.String("user_id", o.UserID))
		}
	}
	return nil
}

// GetDownloadToken возвращает действующий токен скачивания, при
// необходимости генерируя новый. Токен перевыпускается, если его не было
// или срок действия истёк; действующий токен возвращается без изменений.
// Одновременные перевыпуски не сериализуются: выигрывает последняя запись.
func (s *Service) GetDownloadToken(ctx context.Context, userID string, athleteProductID int) (*models.DownloadTokenResponse, error) {
	const op = "entitlement.GetDownloadToken"

	ownership, err := s.repo.FindOwnership(ctx, userID, athleteProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	expired := ownership.TokenExpiration != nil && ownership.TokenExpiration.Before(now)
	if ownership.DownloadToken == nil || *ownership.DownloadToken == "" || expired {
		token := dltoken.New()
		expiration := s.tokenExpiration(now)
		if err := s.repo.UpdateOwnershipToken(ctx, ownership.ID, token, expiration); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("issued new download token",
			slog.String("user_id", userID),
			slog.Int("athlete_id", athleteProductID))
		return &models.DownloadTokenResponse{Token: token, ExpiresAt: expiration}, nil
	}

	return &models.DownloadTokenResponse{
		Token:     *ownership.DownloadToken,
		ExpiresAt: ownership.TokenExpiration,
	}, nil
}

// ListUserAthletes возвращает библиотеку пользователя.
func (s *Service) ListUserAthletes(ctx context.Context, userID string) ([]*models.OwnedAthleteView, error) {
	const op = "entitlement.ListUserAthletes"

	result, err := s.repo.ListOwnershipsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// tokenExpiration возвращает абсолютный срок действия токена
// или nil, если срок не настроен (токен бессрочный).
func (s *Service) tokenExpiration(now time.Time) *time.Time {
	if s.opts.DownloadTokenExpirationDays <= 0 {
		return nil
	}
	expiration := now.AddDate(0, 0, s.opts.DownloadTokenExpirationDays)
	return &expiration
}
