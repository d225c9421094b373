package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus представляет статус бронирования
type ReservationStatus string

const (
	ReservationStatusWaiting   ReservationStatus = "waiting"   // Зарезервировано в схеме, движок не создает (нет листа ожидания)
	ReservationStatusConfirmed ReservationStatus = "confirmed" // Места закреплены за пассажиром
	ReservationStatusCanceled  ReservationStatus = "canceled"  // Отменено, места возвращены в пул
	ReservationStatusFinished  ReservationStatus = "finished"  // Поездка состоялась
)

// Reservation - заявка пассажира на часть мест поездки
// Бронирования никогда не удаляются физически: отмена - это смена статуса,
// а освобождение мест выводится из статусов при подсчете вместимости
type Reservation struct {
	ID          uuid.UUID         `json:"id"`
	RideID      uuid.UUID         `json:"ride_id"`
	PassengerID uuid.UUID         `json:"passenger_id"`
	SeatsBooked int               `json:"seats_booked"`
	Status      ReservationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`

	// Связанные данные (не хранятся в таблице reservations)
	Ride *Ride `json:"ride,omitempty"`
}

// CountsTowardCapacity проверяет, занимает ли бронирование места в поездке
// Инвариант вместимости считается только по waiting и confirmed
func (r *Reservation) CountsTowardCapacity() bool {
	return r.Status == ReservationStatusWaiting || r.Status == ReservationStatusConfirmed
}

// Validate проверяет корректность данных бронирования
func (r *Reservation) Validate() error {
	if r.RideID == uuid.Nil || r.PassengerID == uuid.Nil {
		return ErrInvalidReservationData
	}
	if r.SeatsBooked <= 0 {
		return ErrInvalidReservationData
	}
	return nil
}
