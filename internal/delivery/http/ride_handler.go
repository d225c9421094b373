package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gocampus/carpool/internal/delivery/http/middleware"
	"github.com/gocampus/carpool/internal/domain"
	"github.com/gocampus/carpool/internal/pkg/logger"
	"github.com/gocampus/carpool/internal/usecase/ride"
	"github.com/google/uuid"
)

// RideService определяет интерфейс для сервиса поездок
type RideService interface {
	Publish(ctx context.Context, driverID uuid.UUID, req *ride.PublishRequest) (*domain.Ride, error)
	Cancel(ctx context.Context, rideID, callerID uuid.UUID) (*domain.Ride, error)
	Finish(ctx context.Context, rideID, callerID uuid.UUID) (*domain.Ride, error)
	Search(ctx context.Context, req *ride.SearchRequest) ([]*domain.Ride, error)
	GetByID(ctx context.Context, rideID uuid.UUID) (*domain.Ride, error)
	GetByDriver(ctx context.Context, driverID uuid.UUID) ([]*domain.Ride, error)
}

// RideHandler обрабатывает запросы связанные с поездками
type RideHandler struct {
	rideService RideService
	logger      logger.Logger
}

// NewRideHandler создает новый handler
func NewRideHandler(rideService RideService, logger logger.Logger) *RideHandler {
	return &RideHandler{
		rideService: rideService,
		logger:      logger,
	}
}

// PublishRide публикует новую поездку
// POST /api/v1/rides
func (h *RideHandler) PublishRide(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ride.PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	published, err := h.rideService.Publish(r.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVehicleNotOwned):
			respondError(w, http.StatusForbidden, "Vehicle not found or does not belong to you")
		case errors.Is(err, domain.ErrInvalidRideData):
			respondError(w, http.StatusBadRequest, "Invalid ride data")
		default:
			h.logger.Error("Failed to publish ride", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to publish ride")
		}
		return
	}

	respondData(w, http.StatusCreated, published)
}

// SearchRides выполняет публичный поиск активных поездок
// GET /api/v1/rides?from=...&to=...&date=YYYY-MM-DD&limit=...&offset=...
func (h *RideHandler) SearchRides(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &ride.SearchRequest{
		AddressFrom: query.Get("from"),
		AddressTo:   query.Get("to"),
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		req.DepartureAfter = &date
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			req.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			req.Offset = offset
		}
	}

	rides, err := h.rideService.Search(r.Context(), req)
	if err != nil {
		h.logger.Error("Failed to search rides", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to search rides")
		return
	}

	if rides == nil {
		rides = []*domain.Ride{}
	}

	respondData(w, http.StatusOK, rides)
}

// GetRideByID возвращает поездку по ID
// GET /api/v1/rides/{id}
func (h *RideHandler) GetRideByID(w http.ResponseWriter, r *http.Request) {
	rideID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ride ID")
		return
	}

	found, err := h.rideService.GetByID(r.Context(), rideID)
	if err != nil {
		if errors.Is(err, domain.ErrRideNotFound) {
			respondError(w, http.StatusNotFound, "Ride not found")
			return
		}
		h.logger.Error("Failed to get ride", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get ride")
		return
	}

	respondData(w, http.StatusOK, found)
}

// GetMyRides возвращает поездки текущего водителя
// GET /api/v1/rides/me
func (h *RideHandler) GetMyRides(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	rides, err := h.rideService.GetByDriver(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Failed to get driver rides", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get rides")
		return
	}

	if rides == nil {
		rides = []*domain.Ride{}
	}

	respondData(w, http.StatusOK, rides)
}

// CancelRide отменяет поездку текущего водителя
// POST /api/v1/rides/{id}/cancel
func (h *RideHandler) CancelRide(w http.ResponseWriter, r *http.Request) {
	h.finalizeRide(w, r, domain.RideStatusCanceled)
}

// FinishRide завершает поездку текущего водителя
// POST /api/v1/rides/{id}/finish
func (h *RideHandler) FinishRide(w http.ResponseWriter, r *http.Request) {
	h.finalizeRide(w, r, domain.RideStatusFinished)
}

func (h *RideHandler) finalizeRide(w http.ResponseWriter, r *http.Request, target domain.RideStatus) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	rideID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ride ID")
		return
	}

	var updated *domain.Ride
	if target == domain.RideStatusCanceled {
		updated, err = h.rideService.Cancel(r.Context(), rideID, claims.UserID)
	} else {
		updated, err = h.rideService.Finish(r.Context(), rideID, claims.UserID)
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRideNotFound):
			respondError(w, http.StatusNotFound, "Ride not found")
		case errors.Is(err, domain.ErrForbidden):
			respondError(w, http.StatusForbidden, "You are not the driver of this ride")
		case errors.Is(err, domain.ErrRideAlreadyCanceled), errors.Is(err, domain.ErrRideAlreadyFinished):
			respondError(w, http.StatusConflict, "Ride is already closed")
		default:
			h.logger.Error("Failed to update ride status", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to update ride")
		}
		return
	}

	respondData(w, http.StatusOK, updated)
}
