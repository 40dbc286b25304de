package models

import "time"

// UserOwnedAthlete — запись о владении: конкретный пользователь владеет
// конкретным цифровым атлетом. На пару (UserID, AthleteProductID) в базе
// существует не более одной записи, это же и защита от повторной доставки
// события оплаты.
type UserOwnedAthlete struct {
	ID               int        `json:"id"`
	UserID           string     `json:"user_id"` // Идентификатор пользователя из внешнего identity-сервиса
	AthleteProductID int        `json:"athlete_product_id"`
	AcquiredDate     time.Time  `json:"acquired_date"`      // Когда пользователь получил атлета
	OrderID          *int       `json:"order_id,omitempty"` // Заказ, по которому выдан атлет (может отсутствовать)
	DownloadToken    *string    `json:"download_token,omitempty"`
	TokenExpiration  *time.Time `json:"token_expiration,omitempty"` // nil — токен бессрочный
	DownloadCount    int        `json:"download_count"`
	LastDownloadDate *time.Time `json:"last_download_date,omitempty"`
}

// OwnedAthleteView — запись о владении вместе с данными товара,
// используется в библиотеке пользователя.
type OwnedAthleteView struct {
	UserOwnedAthlete
	AthleteProduct *DigitalAthleteProduct `json:"athlete_product,omitempty"`
}

// DownloadTokenResponse — ответ на запрос токена скачивания.
// ExpiresAt равен nil, если срок действия токена не настроен.
type DownloadTokenResponse struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
