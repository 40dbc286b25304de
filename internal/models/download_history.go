package models

import "time"

// DownloadHistory — строка аудита скачиваний. Таблица только для записи,
// на авторизацию не влияет.
type DownloadHistory struct {
	ID               int       `json:"id"`
	UserID           string    `json:"user_id"`
	AthleteProductID int       `json:"athlete_product_id"`
	DownloadDate     time.Time `json:"download_date"`
	IPAddress        *string   `json:"ip_address,omitempty"`
	UserAgent        *string   `json:"user_agent,omitempty"`
	Successful       bool      `json:"successful"`
	ErrorMessage     *string   `json:"error_message,omitempty"`
}

// ClientMeta — сетевые метаданные запроса, попадающие в историю скачиваний.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}
