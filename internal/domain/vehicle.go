package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Vehicle - автомобиль пользователя
// ВАЖНО: Автомобиль ОБЯЗАТЕЛЬНО привязан к владельцу (OwnerID NOT NULL),
// и поездка ссылается ровно на один автомобиль
type Vehicle struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`      // ОБЯЗАТЕЛЬНАЯ связь с User
	LicensePlate string    `json:"license_plate"` // Номер автомобиля (уникальный)
	MaxSeats     int       `json:"max_seats"`
	Model        string    `json:"model"`
	Color        string    `json:"color,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Owner *User `json:"owner,omitempty"`
}

// NormalizeLicensePlate нормализует номер автомобиля (убирает пробелы, приводит к верхнему регистру)
func NormalizeLicensePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(plate, " ", ""))
}

// Validate проверяет корректность данных автомобиля
func (v *Vehicle) Validate() error {
	if v.OwnerID == uuid.Nil {
		return ErrInvalidVehicleData
	}
	if v.LicensePlate == "" {
		return ErrInvalidLicensePlate
	}
	// Нормализуем номер
	v.LicensePlate = NormalizeLicensePlate(v.LicensePlate)

	if len(v.LicensePlate) < 5 || len(v.LicensePlate) > 20 {
		return ErrInvalidLicensePlate
	}
	if v.MaxSeats <= 0 {
		return ErrInvalidVehicleData
	}
	if v.Model == "" {
		return ErrInvalidVehicleData
	}
	return nil
}
