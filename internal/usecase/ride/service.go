package ride

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocampus/carpool/internal/domain"
	"github.com/gocampus/carpool/internal/pkg/logger"
	"github.com/gocampus/carpool/internal/repository"
	"github.com/google/uuid"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// PublishRequest - запрос на публикацию поездки
type PublishRequest struct {
	VehicleID   uuid.UUID `json:"vehicle_id" validate:"required"`
	AddressFrom string    `json:"address_from" validate:"required"`
	AddressTo   string    `json:"address_to" validate:"required"`
	Departure   time.Time `json:"departure" validate:"required"`
	MaxSeats    int       `json:"max_seats" validate:"required,gt=0"`
	Price       float64   `json:"price" validate:"gte=0"`
}

// SearchRequest - параметры публичного поиска поездок
type SearchRequest struct {
	AddressFrom    string
	AddressTo      string
	DepartureAfter *time.Time
	Limit          int
	Offset         int
}

// Service содержит бизнес-логику жизненного цикла поездок
type Service struct {
	rideRepo    repository.RideRepository
	vehicleRepo repository.VehicleRepository
	seats       repository.SeatAvailability
	logger      logger.Logger
}

// NewService создает новый экземпляр RideService
func NewService(
	rideRepo repository.RideRepository,
	vehicleRepo repository.VehicleRepository,
	seats repository.SeatAvailability,
	logger logger.Logger,
) *Service {
	return &Service{
		rideRepo:    rideRepo,
		vehicleRepo: vehicleRepo,
		seats:       seats,
		logger:      logger,
	}
}

// Publish публикует новую поездку
// Автомобиль должен существовать и принадлежать водителю; владение
// проверяется ровно один раз - при создании
func (s *Service) Publish(ctx context.Context, driverID uuid.UUID, req *PublishRequest) (*domain.Ride, error) {
	s.logger.Info("Publishing new ride", map[string]interface{}{
		"driver_id":  driverID,
		"vehicle_id": req.VehicleID,
	})

	vehicle, err := s.vehicleRepo.GetByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			// Не раскрываем, существует ли чужой автомобиль
			return nil, domain.ErrVehicleNotOwned
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.OwnerID != driverID {
		s.logger.Warn("Vehicle ownership check failed", map[string]interface{}{
			"driver_id":  driverID,
			"vehicle_id": req.VehicleID,
		})
		return nil, domain.ErrVehicleNotOwned
	}

	ride := &domain.Ride{
		DriverID:    driverID,
		VehicleID:   req.VehicleID,
		AddressFrom: req.AddressFrom,
		AddressTo:   req.AddressTo,
		Departure:   req.Departure,
		MaxSeats:    req.MaxSeats,
		Price:       req.Price,
	}

	if err := ride.Validate(); err != nil {
		return nil, err
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		s.logger.Error("Failed to create ride", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create ride: %w", err)
	}

	s.logger.Info("Ride published", map[string]interface{}{
		"ride_id": ride.ID,
	})

	return ride, nil
}

// Cancel отменяет поездку
// Отменить поездку может только опубликовавший ее водитель. Бронирования
// поездки отменяются каскадно в той же транзакции - пассажиры не остаются
// с подтвержденными местами в отмененной поездке
func (s *Service) Cancel(ctx context.Context, rideID, callerID uuid.UUID) (*domain.Ride, error) {
	return s.finalize(ctx, rideID, callerID, domain.RideStatusCanceled)
}

// Finish завершает поездку и ее подтвержденные бронирования
func (s *Service) Finish(ctx context.Context, rideID, callerID uuid.UUID) (*domain.Ride, error) {
	return s.finalize(ctx, rideID, callerID, domain.RideStatusFinished)
}

func (s *Service) finalize(ctx context.Context, rideID, callerID uuid.UUID, target domain.RideStatus) (*domain.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, domain.ErrRideNotFound) {
			return nil, domain.ErrRideNotFound
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	if ride.DriverID != callerID {
		return nil, domain.ErrForbidden
	}

	switch target {
	case domain.RideStatusCanceled:
		err = s.rideRepo.Cancel(ctx, rideID)
	case domain.RideStatusFinished:
		err = s.rideRepo.Finish(ctx, rideID)
	default:
		return nil, domain.ErrInvalidRideData
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRideAlreadyCanceled),
			errors.Is(err, domain.ErrRideAlreadyFinished):
			return nil, err
		}
		s.logger.Error("Failed to update ride status", map[string]interface{}{
			"ride_id": rideID,
			"status":  target,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to update ride status: %w", err)
	}

	s.seats.Invalidate(ctx, rideID)

	ride.Status = target

	s.logger.Info("Ride status updated", map[string]interface{}{
		"ride_id": rideID,
		"status":  target,
	})

	return ride, nil
}

// Search возвращает активные поездки по фильтру,
// отсортированные по времени отправления по возрастанию
func (s *Service) Search(ctx context.Context, req *SearchRequest) ([]*domain.Ride, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	return s.rideRepo.Search(ctx, repository.RideFilter{
		AddressFrom:    req.AddressFrom,
		AddressTo:      req.AddressTo,
		DepartureAfter: req.DepartureAfter,
		Limit:          limit,
		Offset:         offset,
	})
}

// GetByID возвращает поездку по ID
func (s *Service) GetByID(ctx context.Context, rideID uuid.UUID) (*domain.Ride, error) {
	return s.rideRepo.GetByID(ctx, rideID)
}

// GetByDriver возвращает все поездки водителя
func (s *Service) GetByDriver(ctx context.Context, driverID uuid.UUID) ([]*domain.Ride, error) {
	return s.rideRepo.GetByDriverID(ctx, driverID)
}
