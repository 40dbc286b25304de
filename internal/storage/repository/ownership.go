package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/digital-athletes/internal/models"
)

// FindOwnership возвращает запись о владении для пары (userID, athleteProductID).
// Если записи нет, возвращает ErrNotFound.
func (s *Storage) FindOwnership(ctx context.Context, userID string, athleteProductID int) (*models.UserOwnedAthlete, error) {
	const op = "storage.FindOwnership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, athlete_product_id, acquired_date, order_id,
			      download_token, token_expiration, download_count, last_download_date
			  FROM user_owned_athletes
			  WHERE user_id = $1 AND athlete_product_id = $2`
	row := s.DB.QueryRowContext(ctx, query, userID, athleteProductID)

	var result models.UserOwnedAthlete
	err := row.Scan(&result.ID, &result.UserID, &result.AthleteProductID,
		&result.AcquiredDate, &result.OrderID, &result.DownloadToken,
		&result.TokenExpiration, &result.DownloadCount, &result.LastDownloadDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// CreateOwnership вставляет новую запись о владении и возвращает её ID.
// При нарушении уникальности пары (user_id, athlete_product_id)
// возвращает ErrAlreadyExists.
func (s *Storage) CreateOwnership(ctx context.Context, o models.UserOwnedAthlete) (int, error) {
	const op = "storage.CreateOwnership"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_owned_athletes (user_id, athlete_product_id, acquired_date,
			      order_id, download_token, token_expiration, download_count, last_download_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		o.UserID, o.AthleteProductID, o.AcquiredDate, o.OrderID,
		o.DownloadToken, o.TokenExpiration, o.DownloadCount, o.LastDownloadDate).Scan(&newID)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GrantOwnerships вставляет записи о владении одной транзакцией.
// Дубликаты пары (user_id, athlete_product_id) пропускаются без отката
// транзакции. Возвращает срез той же длины, что и вход: true — запись
// создана, false — владение уже существовало.
func (s *Storage) GrantOwnerships(ctx context.Context, ownerships []models.UserOwnedAthlete) ([]bool, error) {
	const op = "storage.GrantOwnerships"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO user_owned_athletes (user_id, athlete_product_id, acquired_date,
			      order_id, download_token, token_expiration, download_count, last_download_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (user_id, athlete_product_id) DO NOTHING`
	granted := make([]bool, len(ownerships))
	for i, o := range ownerships {
		res, err := tx.ExecContext(ctx, query,
			o.UserID, o.AthleteProductID, o.AcquiredDate, o.OrderID,
			o.DownloadToken, o.TokenExpiration, o.DownloadCount, o.LastDownloadDate)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		granted[i] = rowsAffected > 0
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return granted, nil
}

// UpdateOwnershipToken обновляет токен скачивания и срок его действия.
func (s *Storage) UpdateOwnershipToken(ctx context.Context, id int, token string, expiration *time.Time) error {
	const op = "storage.UpdateOwnershipToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE user_owned_athletes
			  SET download_token = $1, token_expiration = $2
			  WHERE id = $3`
	if _, err := s.DB.ExecContext(ctx, query, token, expiration, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListOwnershipsByUser возвращает библиотеку пользователя вместе с данными
// товаров, отсортированную по дате приобретения по убыванию.
func (s *Storage) ListOwnershipsByUser(ctx context.Context, userID string) ([]*models.OwnedAthleteView, error) {
	const op = "storage.ListOwnershipsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT o.id, o.user_id, o.athlete_product_id, o.acquired_date, o.order_id,
			      o.download_token, o.token_expiration, o.download_count, o.last_download_date,
			      ` + athleteColumns + `
			  FROM user_owned_athletes o
			  JOIN digital_athlete_products p ON p.id = o.athlete_product_id
			  JOIN athlete_categories c ON c.id = p.category_id
			  WHERE o.user_id = $1
			  ORDER BY o.acquired_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.OwnedAthleteView
	for rows.Next() {
		var item models.OwnedAthleteView
		var product models.DigitalAthleteProduct
		var category models.AthleteCategory
		if err := rows.Scan(&item.ID, &item.UserID, &item.AthleteProductID,
			&item.AcquiredDate, &item.OrderID, &item.DownloadToken,
			&item.TokenExpiration, &item.DownloadCount, &item.LastDownloadDate,
			&product.ID, &product.Name, &product.Description, &product.Price,
			&product.PictureFileName, &product.AthleteType, &product.CategoryID,
			&category.Name, &category.Description, &product.Version,
			&product.CharacterFilePath, &product.ProtoFilePath, &product.FileSizeBytes,
			&product.AvailableStock, &product.SupportedGameModes, &product.MaxPlayersPerSession,
			&product.IsFeatured, &product.CreatedDate, &product.UpdatedDate,
			&product.DownloadCount, &product.AverageRating, &product.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		category.ID = product.CategoryID
		product.Category = &category
		item.AthleteProduct = &product
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RecordDownload одной транзакцией увеличивает счётчик скачиваний записи
// о владении, выставляет дату последнего скачивания и, если передана
// строка истории, добавляет её в журнал.
func (s *Storage) RecordDownload(ctx context.Context, ownershipID int, downloadedAt time.Time, history *models.DownloadHistory) error {
	const op = "storage.RecordDownload"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE user_owned_athletes
			  SET download_count = download_count + 1, last_download_date = $1
			  WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, downloadedAt, ownershipID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if history != nil {
		query := `INSERT INTO download_history (user_id, athlete_product_id, download_date,
				      ip_address, user_agent, successful, error_message)
				  VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := tx.ExecContext(ctx, query,
			history.UserID, history.AthleteProductID, history.DownloadDate,
			history.IPAddress, history.UserAgent, history.Successful, history.ErrorMessage); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListDownloadHistory возвращает журнал скачиваний пользователя по товару,
// новые записи первыми. Используется в аудите.
func (s *Storage) ListDownloadHistory(ctx context.Context, userID string, athleteProductID, limit int) ([]*models.DownloadHistory, error) {
	const op = "storage.ListDownloadHistory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, athlete_product_id, download_date,
			      ip_address, user_agent, successful, error_message
			  FROM download_history
			  WHERE user_id = $1 AND athlete_product_id = $2
			  ORDER BY download_date DESC
			  LIMIT $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, athleteProductID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.DownloadHistory
	for rows.Next() {
		var item models.DownloadHistory
		if err := rows.Scan(&item.ID, &item.UserID, &item.AthleteProductID,
			&item.DownloadDate, &item.IPAddress, &item.UserAgent,
			&item.Successful, &item.ErrorMessage); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
