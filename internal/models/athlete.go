// Package models содержит доменные структуры каталога цифровых атлетов,
// записи о владении и историю скачиваний, а также вспомогательные типы
// для работы с данными из внешних источников (JSON-запросы, события брокера).
package models

import "time"

// DigitalAthleteProduct представляет товар каталога — цифрового атлета
// с версионируемым файлом персонажа. Для подсистемы доставки каталог
// доступен только на чтение.
type DigitalAthleteProduct struct {
	ID                   int              `json:"id"`
	Name                 string           `json:"name"`                        // Название атлета
	Description          *string          `json:"description,omitempty"`       // Описание (опционально)
	Price                float64          `json:"price"`                       // Цена
	PictureFileName      *string          `json:"picture_file_name,omitempty"` // Имя файла превью
	AthleteType          string           `json:"athlete_type"`                // Тип атлета: Runner, Fighter и т.д.
	CategoryID           int              `json:"category_id"`
	Category             *AthleteCategory `json:"category,omitempty"`
	Version              string           `json:"version"`             // Версия формата файла персонажа
	CharacterFilePath    string           `json:"character_file_path"` // Относительный путь к файлу персонажа
	ProtoFilePath        string           `json:"proto_file_path"`     // Относительный путь к proto-описанию
	FileSizeBytes        int64            `json:"file_size_bytes"`
	AvailableStock       int              `json:"available_stock"`
	SupportedGameModes   *string          `json:"supported_game_modes,omitempty"`
	MaxPlayersPerSession int              `json:"max_players_per_session"`
	IsFeatured           bool             `json:"is_featured"`
	CreatedDate          time.Time        `json:"created_date"`
	UpdatedDate          *time.Time       `json:"updated_date,omitempty"`
	DownloadCount        int              `json:"download_count"` // Суммарное число скачиваний по всем пользователям
	AverageRating        *float64         `json:"average_rating,omitempty"`
	IsActive             bool             `json:"is_active"`
}

// AthleteCategory группирует цифровых атлетов. Имя категории уникально.
type AthleteCategory struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// PaginatedAthletes — страница каталога для списочных ответов.
type PaginatedAthletes struct {
	PageIndex int                      `json:"page_index"`
	PageSize  int                      `json:"page_size"`
	Count     int64                    `json:"count"`
	Data      []*DigitalAthleteProduct `json:"data"`
}
