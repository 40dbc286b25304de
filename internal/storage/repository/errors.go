package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound возвращается, когда запрошенная запись отсутствует в базе.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists возвращается при нарушении уникальности пары
// (user_id, athlete_product_id). Для потребителя событий это сигнал
// "владение уже выдано", а не ошибка.
var ErrAlreadyExists = errors.New("record already exists")

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
