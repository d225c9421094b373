package vehicle

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocampus/carpool/internal/domain"
	"github.com/gocampus/carpool/internal/pkg/logger"
	"github.com/gocampus/carpool/internal/repository"
	"github.com/google/uuid"
)

// CreateVehicleRequest - запрос на добавление автомобиля
type CreateVehicleRequest struct {
	LicensePlate string `json:"license_plate" validate:"required"`
	MaxSeats     int    `json:"max_seats" validate:"required,gt=0"`
	Model        string `json:"model" validate:"required"`
	Color        string `json:"color,omitempty"`
}

// Service содержит бизнес-логику работы с автомобилями
type Service struct {
	vehicleRepo repository.VehicleRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр VehicleService
func NewService(vehicleRepo repository.VehicleRepository, logger logger.Logger) *Service {
	return &Service{
		vehicleRepo: vehicleRepo,
		logger:      logger,
	}
}

// CreateVehicle добавляет автомобиль текущему пользователю
func (s *Service) CreateVehicle(ctx context.Context, ownerID uuid.UUID, req *CreateVehicleRequest) (*domain.Vehicle, error) {
	s.logger.Info("Creating new vehicle", map[string]interface{}{
		"owner_id":      ownerID,
		"license_plate": req.LicensePlate,
	})

	// Проверяем, что автомобиль с таким номером еще не зарегистрирован
	existing, err := s.vehicleRepo.GetByLicensePlate(ctx, req.LicensePlate)
	if err != nil && !errors.Is(err, domain.ErrVehicleNotFound) {
		return nil, fmt.Errorf("failed to check existing vehicle: %w", err)
	}

	if existing != nil {
		s.logger.Warn("Vehicle already exists", map[string]interface{}{
			"license_plate": req.LicensePlate,
		})
		return nil, domain.ErrVehicleAlreadyExists
	}

	vehicle := &domain.Vehicle{
		OwnerID:      ownerID,
		LicensePlate: req.LicensePlate,
		MaxSeats:     req.MaxSeats,
		Model:        req.Model,
		Color:        req.Color,
	}

	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		s.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logger.Info("Vehicle created successfully", map[string]interface{}{
		"vehicle_id": vehicle.ID,
	})

	return vehicle, nil
}

// GetVehicleByID возвращает автомобиль по ID
func (s *Service) GetVehicleByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

// GetVehiclesByOwner возвращает все автомобили пользователя
func (s *Service) GetVehiclesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error) {
	return s.vehicleRepo.GetByOwnerID(ctx, ownerID)
}

// DeleteVehicle удаляет автомобиль
// Удалить автомобиль может только владелец; автомобиль, на который
// ссылается поездка, удалить нельзя (ErrVehicleInUse)
func (s *Service) DeleteVehicle(ctx context.Context, vehicleID, callerID uuid.UUID) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}

	if vehicle.OwnerID != callerID {
		return domain.ErrForbidden
	}

	if err := s.vehicleRepo.Delete(ctx, vehicleID); err != nil {
		if errors.Is(err, domain.ErrVehicleInUse) {
			return domain.ErrVehicleInUse
		}
		s.logger.Error("Failed to delete vehicle", map[string]interface{}{
			"vehicle_id": vehicleID,
			"error":      err.Error(),
		})
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	return nil
}
