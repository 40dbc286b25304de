// Package sl — небольшие помощники для структурированного логирования slog.
package sl

import "log/slog"

// Err оборачивает ошибку в slog.Attr с ключом "error",
// чтобы ошибки во всех логах сервиса выглядели одинаково.
//
//	log.Error("failed to open character file", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
