package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gocampus/carpool/internal/delivery/http/middleware"
	"github.com/gocampus/carpool/internal/domain"
	"github.com/gocampus/carpool/internal/pkg/logger"
	"github.com/gocampus/carpool/internal/usecase/vehicle"
	"github.com/google/uuid"
)

// VehicleService определяет интерфейс для сервиса автомобилей
type VehicleService interface {
	CreateVehicle(ctx context.Context, ownerID uuid.UUID, req *vehicle.CreateVehicleRequest) (*domain.Vehicle, error)
	GetVehiclesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error)
	GetVehicleByID(ctx context.Context, vehicleID uuid.UUID) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, vehicleID, callerID uuid.UUID) error
}

// VehicleHandler обрабатывает запросы связанные с автомобилями
type VehicleHandler struct {
	vehicleService VehicleService
	logger         logger.Logger
}

// NewVehicleHandler создает новый handler
func NewVehicleHandler(vehicleService VehicleService, logger logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		logger:         logger,
	}
}

// CreateVehicle добавляет автомобиль текущему пользователю
// POST /api/v1/vehicles
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req vehicle.CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	v, err := h.vehicleService.CreateVehicle(r.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVehicleAlreadyExists):
			respondError(w, http.StatusConflict, "Vehicle already exists")
		case errors.Is(err, domain.ErrInvalidLicensePlate), errors.Is(err, domain.ErrInvalidVehicleData):
			respondError(w, http.StatusBadRequest, "Invalid vehicle data")
		default:
			h.logger.Error("Failed to create vehicle", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to create vehicle")
		}
		return
	}

	respondData(w, http.StatusCreated, v)
}

// GetMyVehicles возвращает все автомобили текущего пользователя
// GET /api/v1/vehicles/me
func (h *VehicleHandler) GetMyVehicles(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vehicles, err := h.vehicleService.GetVehiclesByOwner(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Failed to get user vehicles", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get vehicles")
		return
	}

	if vehicles == nil {
		vehicles = []*domain.Vehicle{}
	}

	respondData(w, http.StatusOK, vehicles)
}

// GetVehicleByID возвращает автомобиль по ID
// GET /api/v1/vehicles/{id}
func (h *VehicleHandler) GetVehicleByID(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	v, err := h.vehicleService.GetVehicleByID(r.Context(), vehicleID)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		h.logger.Error("Failed to get vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get vehicle")
		return
	}

	respondData(w, http.StatusOK, v)
}

// DeleteVehicle удаляет автомобиль текущего пользователя
// DELETE /api/v1/vehicles/{id}
func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	vehicleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return
	}

	if err := h.vehicleService.DeleteVehicle(r.Context(), vehicleID, claims.UserID); err != nil {
		switch {
		case errors.Is(err, domain.ErrVehicleNotFound):
			respondError(w, http.StatusNotFound, "Vehicle not found")
		case errors.Is(err, domain.ErrForbidden):
			respondError(w, http.StatusForbidden, "Vehicle belongs to another user")
		case errors.Is(err, domain.ErrVehicleInUse):
			respondError(w, http.StatusConflict, "Vehicle is referenced by a ride")
		default:
			h.logger.Error("Failed to delete vehicle", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to delete vehicle")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
