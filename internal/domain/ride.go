package domain

import (
	"time"

	"github.com/google/uuid"
)

// RideStatus представляет статус поездки
type RideStatus string

const (
	RideStatusActive   RideStatus = "active"   // Поездка опубликована, принимает бронирования
	RideStatusFull     RideStatus = "full"     // Все места заняты
	RideStatusCanceled RideStatus = "canceled" // Отменена водителем
	RideStatusFinished RideStatus = "finished" // Завершена
)

// Ride - опубликованная водителем поездка с фиксированным числом мест
// Поездки никогда не удаляются физически: жизненный цикл управляется статусом.
// Допустимые переходы: active -> full -> active (при освобождении мест),
// active|full -> canceled|finished (терминальные состояния)
type Ride struct {
	ID          uuid.UUID  `json:"id"`
	DriverID    uuid.UUID  `json:"driver_id"`
	VehicleID   uuid.UUID  `json:"vehicle_id"`
	AddressFrom string     `json:"address_from"`
	AddressTo   string     `json:"address_to"`
	Departure   time.Time  `json:"departure"`
	MaxSeats    int        `json:"max_seats"`
	Price       float64    `json:"price"`
	Status      RideStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`

	// Связанные данные (не хранятся в таблице rides)
	Driver  *User    `json:"driver,omitempty"`
	Vehicle *Vehicle `json:"vehicle,omitempty"`
}

// IsTerminal проверяет, находится ли поездка в терминальном состоянии
// Отмененные и завершенные поездки никогда не принимают новые бронирования
func (r *Ride) IsTerminal() bool {
	return r.Status == RideStatusCanceled || r.Status == RideStatusFinished
}

// IsBookable проверяет, может ли поездка в принципе принимать бронирования
// Статус full не является отказом: решает фактическая вместимость
func (r *Ride) IsBookable() bool {
	return !r.IsTerminal()
}

// Validate проверяет корректность данных поездки
func (r *Ride) Validate() error {
	if r.DriverID == uuid.Nil || r.VehicleID == uuid.Nil {
		return ErrInvalidRideData
	}
	if r.AddressFrom == "" || r.AddressTo == "" {
		return ErrInvalidRideData
	}
	if r.MaxSeats <= 0 {
		return ErrInvalidRideData
	}
	if r.Price < 0 {
		return ErrInvalidRideData
	}
	return nil
}
