// Package dltoken генерирует непрозрачные токены скачивания.
//
// Токен — это шестнадцатеричная запись случайного UUID без дефисов:
// 32 символа, 122 бита энтропии, достаточных против перебора.
package dltoken

import (
	"strings"

	"github.com/google/uuid"
)

// New возвращает новый токен скачивания.
func New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
