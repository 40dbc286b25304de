package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/digital-athletes/internal/models"
)

// athleteColumns — общий список колонок товара с присоединённой категорией.
const athleteColumns = `p.id, p.name, p.description, p.price, p.picture_file_name,
	p.athlete_type, p.category_id, c.name, c.description, p.version,
	p.character_file_path, p.proto_file_path, p.file_size_bytes, p.available_stock,
	p.supported_game_modes, p.max_players_per_session, p.is_featured,
	p.created_date, p.updated_date, p.download_count, p.average_rating, p.is_active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAthlete(row rowScanner) (*models.DigitalAthleteProduct, error) {
	var item models.DigitalAthleteProduct
	var category models.AthleteCategory
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Price,
		&item.PictureFileName, &item.AthleteType, &item.CategoryID,
		&category.Name, &category.Description, &item.Version,
		&item.CharacterFilePath, &item.ProtoFilePath, &item.FileSizeBytes,
		&item.AvailableStock, &item.SupportedGameModes, &item.MaxPlayersPerSession,
		&item.IsFeatured, &item.CreatedDate, &item.UpdatedDate,
		&item.DownloadCount, &item.AverageRating, &item.IsActive); err != nil {
		return nil, err
	}
	category.ID = item.CategoryID
	item.Category = &category
	return &item, nil
}

func collectAthletes(rows *sql.Rows) ([]*models.DigitalAthleteProduct, error) {
	var result []*models.DigitalAthleteProduct
	for rows.Next() {
		item, err := scanAthlete(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ReadAthlete возвращает товар каталога по ID вместе с категорией.
func (s *Storage) ReadAthlete(ctx context.Context, id int) (*models.DigitalAthleteProduct, error) {
	const op = "storage.ReadAthlete"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + athleteColumns + `
			  FROM digital_athlete_products p
			  JOIN athlete_categories c ON c.id = p.category_id
			  WHERE p.id = $1`
	item, err := scanAthlete(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// ListAthletes возвращает страницу активных товаров каталога,
// отсортированную по названию, и общее число активных товаров.
func (s *Storage) ListAthletes(ctx context.Context, limit, offset int) ([]*models.DigitalAthleteProduct, int64, error) {
	const op = "storage.ListAthletes"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int64
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM digital_athlete_products WHERE is_active = true`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + athleteColumns + `
			  FROM digital_athlete_products p
			  JOIN athlete_categories c ON c.id = p.category_id
			  WHERE p.is_active = true
			  ORDER BY p.name
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := collectAthletes(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// ListAthletesByIDs возвращает товары по списку идентификаторов.
func (s *Storage) ListAthletesByIDs(ctx context.Context, ids []int) ([]*models.DigitalAthleteProduct, error) {
	const op = "storage.ListAthletesByIDs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + athleteColumns + `
			  FROM digital_athlete_products p
			  JOIN athlete_categories c ON c.id = p.category_id
			  WHERE p.id = ANY($1)`
	rows, err := s.DB.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := collectAthletes(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAthletesByType возвращает страницу активных товаров указанного типа.
func (s *Storage) ListAthletesByType(ctx context.Context, athleteType string, limit, offset int) ([]*models.DigitalAthleteProduct, int64, error) {
	const op = "storage.ListAthletesByType"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int64
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM digital_athlete_products WHERE is_active = true AND athlete_type = $1`,
		athleteType).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + athleteColumns + `
			  FROM digital_athlete_products p
			  JOIN athlete_categories c ON c.id = p.category_id
			  WHERE p.is_active = true AND p.athlete_type = $1
			  ORDER BY p.name
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, athleteType, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := collectAthletes(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// ListAthletesByCategory возвращает страницу активных товаров указанной категории.
func (s *Storage) ListAthletesByCategory(ctx context.Context, categoryID, limit, offset int) ([]*models.DigitalAthleteProduct, int64, error) {
	const op = "storage.ListAthletesByCategory"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int64
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM digital_athlete_products WHERE is_active = true AND category_id = $1`,
		categoryID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + athleteColumns + `
			  FROM digital_athlete_products p
			  JOIN athlete_categories c ON c.id = p.category_id
			  WHERE p.is_active = true AND p.category_id = $1
			  ORDER BY p.name
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := collectAthletes(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// ListFeaturedAthletes возвращает рекомендуемые товары для витрины,
// отсортированные по рейтингу и числу скачиваний.
func (s *Storage) ListFeaturedAthletes(ctx context.Context, count int) ([]*models.DigitalAthleteProduct, error) {
	const op = "storage.ListFeaturedAthletes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + athleteColumns + `
			  FROM digital_athlete_products p
			  JOIN athlete_categories c ON c.id = p.category_id
			  WHERE p.is_active = true AND p.is_featured = true
			  ORDER BY p.average_rating DESC NULLS LAST, p.download_count DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, count)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result, err := collectAthletes(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListCategories возвращает все категории, отсортированные по имени.
func (s *Storage) ListCategories(ctx context.Context) ([]*models.AthleteCategory, error) {
	const op = "storage.ListCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description FROM athlete_categories ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.AthleteCategory
	for rows.Next() {
		var item models.AthleteCategory
		if err := rows.Scan(&item.ID, &item.Name, &item.Description); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
