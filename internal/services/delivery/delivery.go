// Package delivery содержит бизнес-логику авторизованной доставки файлов
// цифровых атлетов: проверку владения, учёт скачиваний и открытие файлов
// контента.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/magabrotheeeer/digital-athletes/internal/config"
	"github.com/magabrotheeeer/digital-athletes/internal/lib/sl"
	"github.com/magabrotheeeer/digital-athletes/internal/models"
	"github.com/magabrotheeeer/digital-athletes/internal/services/entitlement"
	"github.com/magabrotheeeer/digital-athletes/internal/storage/repository"
)

// ErrFileMissing возвращается, когда каталог и запись о владении валидны,
// но файла в хранилище контента нет. Это рассогласование данных на стороне
// сервера: логируется с полным путём, наружу отдаётся как not found.
var ErrFileMissing = errors.New("content file missing from store")

// OwnershipRepository определяет методы владения, нужные доставке.
type OwnershipRepository interface {
	FindOwnership(ctx context.Context, userID string, athleteProductID int) (*models.UserOwnedAthlete, error)
	// RecordDownload атомарно увеличивает счётчик и пишет строку истории.
	RecordDownload(ctx context.Context, ownershipID int, downloadedAt time.Time, history *models.DownloadHistory) error
}

// CatalogRepository определяет чтение каталога, нужное доставке.
type CatalogRepository interface {
	ReadAthlete(ctx context.Context, id int) (*models.DigitalAthleteProduct, error)
}

// ContentStore — путевое хранилище файлов контента.
type ContentStore interface {
	CharacterPath(relative string) string
	ProtoPath(relative string) string
	PicturePath(name string) string
	Open(path string) (io.ReadSeekCloser, os.FileInfo, error)
	Exists(path string) bool
}

// Result — открытый файл контента вместе с метаданными ответа.
type Result struct {
	Content     io.ReadSeekCloser
	FileName    string // Имя файла для Content-Disposition; пустое — отдать без attachment
	ContentType string
	Size        int64
	ModTime     time.Time
}

// Service реализует доставку файлов с проверкой владения и аудитом.
type Service struct {
	repo    OwnershipRepository
	catalog CatalogRepository
	store   ContentStore
	opts    config.AthleteOptions
	log     *slog.Logger
}

// New создает новый Service.
func New(repo OwnershipRepository, catalog CatalogRepository, store ContentStore, opts config.AthleteOptions, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		store:   store,
		opts:    opts,
		log:     log,
	}
}

// DownloadCharacter проверяет владение, учитывает скачивание и открывает
// файл персонажа. Счётчик и строка истории фиксируются в базе до передачи
// файла вызывающему: обрыв передачи скачивание не откатывает.
func (s *Service) DownloadCharacter(ctx context.Context, userID string, athleteProductID int, meta models.ClientMeta) (*Result, error) {
	const op = "delivery.DownloadCharacter"
	log := s.log.With(slog.String("op", op))

	ownership, err := s.repo.FindOwnership(ctx, userID, athleteProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, entitlement.ErrNotOwned
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	product, err := s.catalog.ReadAthlete(ctx, athleteProductID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	path := s.store.CharacterPath(product.CharacterFilePath)
	if !s.store.Exists(path) {
		log.Error("character file not found", slog.String("file_path", path))
		return nil, ErrFileMissing
	}

	now := time.Now().UTC()
	var history *models.DownloadHistory
	if s.opts.EnableDownloadTracking {
		history = &models.DownloadHistory{
			UserID:           userID,
			AthleteProductID: athleteProductID,
			DownloadDate:     now,
			IPAddress:        optional(meta.IPAddress),
			UserAgent:        optional(meta.UserAgent),
			Successful:       true,
		}
	}
	if err := s.repo.RecordDownload(ctx, ownership.ID, now, history); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	content, info, err := s.store.Open(path)
	if err != nil {
		log.Error("failed to open character file", slog.String("file_path", path), sl.Err(err))
		return nil, ErrFileMissing
	}

	return &Result{
		Content:     content,
		FileName:    fmt.Sprintf("%s_v%s.dat", product.Name, product.Version),
		ContentType: "application/octet-stream",
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

// GetProtoFile открывает proto-описание атлета. Владение не требуется.
func (s *Service) GetProtoFile(ctx context.Context, athleteProductID int) (*Result, error) {
	const op = "delivery.GetProtoFile"
	log := s.log.With(slog.String("op", op))

	product, err := s.catalog.ReadAthlete(ctx, athleteProductID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	path := s.store.ProtoPath(product.ProtoFilePath)
	if !s.store.Exists(path) {
		log.Error("proto file not found", slog.String("file_path", path))
		return nil, ErrFileMissing
	}

	content, info, err := s.store.Open(path)
	if err != nil {
		log.Error("failed to open proto file", slog.String("file_path", path), sl.Err(err))
		return nil, ErrFileMissing
	}

	return &Result{
		Content:     content,
		FileName:    fmt.Sprintf("%s_v%s.proto", product.Name, product.Version),
		ContentType: "text/plain",
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

// GetPreviewImage открывает превью атлета. Владение не требуется.
func (s *Service) GetPreviewImage(ctx context.Context, athleteProductID int) (*Result, error) {
	const op = "delivery.GetPreviewImage"
	log := s.log.With(slog.String("op", op))

	product, err := s.catalog.ReadAthlete(ctx, athleteProductID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if product.PictureFileName == nil || *product.PictureFileName == "" {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	path := s.store.PicturePath(*product.PictureFileName)
	if !s.store.Exists(path) {
		log.Error("picture file not found", slog.String("file_path", path))
		return nil, ErrFileMissing
	}

	content, info, err := s.store.Open(path)
	if err != nil {
		log.Error("failed to open picture file", slog.String("file_path", path), sl.Err(err))
		return nil, ErrFileMissing
	}

	contentType := "image/jpeg"
	if strings.HasSuffix(*product.PictureFileName, ".webp") {
		contentType = "image/webp"
	}
	return &Result{
		Content:     content,
		ContentType: contentType,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
