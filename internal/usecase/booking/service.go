package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocampus/carpool/internal/domain"
	"github.com/gocampus/carpool/internal/pkg/logger"
	"github.com/gocampus/carpool/internal/repository"
	"github.com/google/uuid"
)

// BookRequest - запрос на бронирование мест
type BookRequest struct {
	RideID      uuid.UUID `json:"ride_id" validate:"required"`
	SeatsBooked int       `json:"seats_booked" validate:"required,gt=0"`
}

// Service содержит логику допуска бронирований и подсчета вместимости
//
// Вместимость всегда выводится из текущих статусов бронирований
// (waiting и confirmed занимают места, canceled и finished - нет),
// никогда не кешируется как счетчик. Проверка вместимости и вставка
// бронирования атомарны относительно конкурентных заявок на ту же поездку -
// этот контракт несет ReservationRepository.CreateWithCapacityCheck
type Service struct {
	rideRepo        repository.RideRepository
	reservationRepo repository.ReservationRepository
	seats           repository.SeatAvailability
	logger          logger.Logger
}

// NewService создает новый экземпляр BookingService
func NewService(
	rideRepo repository.RideRepository,
	reservationRepo repository.ReservationRepository,
	seats repository.SeatAvailability,
	logger logger.Logger,
) *Service {
	return &Service{
		rideRepo:        rideRepo,
		reservationRepo: reservationRepo,
		seats:           seats,
		logger:          logger,
	}
}

// Book допускает или отклоняет заявку пассажира на места поездки
//
// Порядок проверок фиксирован: существование поездки, запрет бронирования
// собственной поездки, статус поездки, вместимость. Проверки до транзакции
// дают каноничный порядок ошибок; решающая перепроверка выполняется
// в CreateWithCapacityCheck под блокировкой строки поездки
func (s *Service) Book(ctx context.Context, passengerID uuid.UUID, req *BookRequest) (*domain.Reservation, error) {
	s.logger.Info("Booking request", map[string]interface{}{
		"ride_id":      req.RideID,
		"passenger_id": passengerID,
		"seats":        req.SeatsBooked,
	})

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		if errors.Is(err, domain.ErrRideNotFound) {
			return nil, domain.ErrRideNotFound
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	// Водитель не может бронировать места в своей поездке
	if ride.DriverID == passengerID {
		return nil, domain.ErrSelfBooking
	}

	if ride.IsTerminal() {
		return nil, domain.ErrRideNotBookable
	}

	reservation := &domain.Reservation{
		RideID:      req.RideID,
		PassengerID: passengerID,
		SeatsBooked: req.SeatsBooked,
	}

	if err := reservation.Validate(); err != nil {
		return nil, err
	}

	if err := s.reservationRepo.CreateWithCapacityCheck(ctx, reservation); err != nil {
		switch {
		case errors.Is(err, domain.ErrRideNotFound),
			errors.Is(err, domain.ErrSelfBooking),
			errors.Is(err, domain.ErrRideNotBookable),
			errors.Is(err, domain.ErrNotEnoughSeats):
			s.logger.Warn("Booking rejected", map[string]interface{}{
				"ride_id": req.RideID,
				"reason":  err.Error(),
			})
			return nil, err
		}
		s.logger.Error("Failed to create reservation", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	// Кешированное значение свободных мест устарело
	s.seats.Invalidate(ctx, req.RideID)

	s.logger.Info("Reservation confirmed", map[string]interface{}{
		"reservation_id": reservation.ID,
		"ride_id":        reservation.RideID,
		"seats":          reservation.SeatsBooked,
	})

	return reservation, nil
}

// CancelReservation отменяет бронирование пассажира
// Отмена - это смена статуса: места возвращаются в пул тем,
// что canceled перестает учитываться при подсчете вместимости
func (s *Service) CancelReservation(ctx context.Context, reservationID, callerID uuid.UUID) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	// Отменить бронирование может только сам пассажир
	if reservation.PassengerID != callerID {
		return nil, domain.ErrForbidden
	}

	if reservation.Status == domain.ReservationStatusCanceled {
		return nil, domain.ErrReservationAlreadyCanceled
	}

	if err := s.reservationRepo.Cancel(ctx, reservationID); err != nil {
		if errors.Is(err, domain.ErrReservationAlreadyCanceled) {
			return nil, domain.ErrReservationAlreadyCanceled
		}
		s.logger.Error("Failed to cancel reservation", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to cancel reservation: %w", err)
	}

	s.seats.Invalidate(ctx, reservation.RideID)

	reservation.Status = domain.ReservationStatusCanceled

	s.logger.Info("Reservation canceled", map[string]interface{}{
		"reservation_id": reservation.ID,
		"ride_id":        reservation.RideID,
	})

	return reservation, nil
}

// RemainingSeats возвращает число свободных мест поездки
// Несуществующая поездка дает 0 - это "нет вместимости", а не ошибка
func (s *Service) RemainingSeats(ctx context.Context, rideID uuid.UUID) (int, error) {
	return s.seats.RemainingSeats(ctx, rideID)
}

// MyReservations возвращает все бронирования пассажира
func (s *Service) MyReservations(ctx context.Context, passengerID uuid.UUID) ([]*domain.Reservation, error) {
	return s.reservationRepo.GetByPassengerID(ctx, passengerID)
}
