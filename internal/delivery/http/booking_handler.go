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
	"github.com/gocampus/carpool/internal/usecase/booking"
	"github.com/google/uuid"
)

// BookingService определяет интерфейс для сервиса бронирований
type BookingService interface {
	Book(ctx context.Context, passengerID uuid.UUID, req *booking.BookRequest) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, reservationID, callerID uuid.UUID) (*domain.Reservation, error)
	RemainingSeats(ctx context.Context, rideID uuid.UUID) (int, error)
	MyReservations(ctx context.Context, passengerID uuid.UUID) ([]*domain.Reservation, error)
}

// BookingHandler обрабатывает запросы связанные с бронированиями
type BookingHandler struct {
	bookingService BookingService
	logger         logger.Logger
}

// NewBookingHandler создает новый handler
func NewBookingHandler(bookingService BookingService, logger logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// Book бронирует места в поездке для текущего пользователя
// POST /api/v1/reservations
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req booking.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reservation, err := h.bookingService.Book(r.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRideNotFound):
			respondError(w, http.StatusNotFound, "Ride not found")
		case errors.Is(err, domain.ErrSelfBooking):
			respondError(w, http.StatusForbidden, "You cannot book your own ride")
		case errors.Is(err, domain.ErrRideNotBookable):
			respondError(w, http.StatusConflict, "Ride does not accept reservations")
		case errors.Is(err, domain.ErrNotEnoughSeats):
			respondError(w, http.StatusConflict, "Not enough seats available for this ride")
		case errors.Is(err, domain.ErrInvalidReservationData):
			respondError(w, http.StatusBadRequest, "Invalid reservation data")
		default:
			h.logger.Error("Failed to book ride", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to book ride")
		}
		return
	}

	respondData(w, http.StatusCreated, reservation)
}

// GetMyReservations возвращает бронирования текущего пользователя
// GET /api/v1/reservations/me
func (h *BookingHandler) GetMyReservations(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	reservations, err := h.bookingService.MyReservations(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Failed to get reservations", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get reservations")
		return
	}

	if reservations == nil {
		reservations = []*domain.Reservation{}
	}

	respondData(w, http.StatusOK, reservations)
}

// CancelReservation отменяет бронирование текущего пользователя
// POST /api/v1/reservations/{id}/cancel
func (h *BookingHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	reservationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	reservation, err := h.bookingService.CancelReservation(r.Context(), reservationID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrReservationNotFound):
			respondError(w, http.StatusNotFound, "Reservation not found")
		case errors.Is(err, domain.ErrForbidden):
			respondError(w, http.StatusForbidden, "Not authorized to cancel this reservation")
		case errors.Is(err, domain.ErrReservationAlreadyCanceled):
			respondError(w, http.StatusConflict, "Reservation is already canceled")
		default:
			h.logger.Error("Failed to cancel reservation", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to cancel reservation")
		}
		return
	}

	respondData(w, http.StatusOK, reservation)
}

// GetRemainingSeats возвращает число свободных мест поездки
// GET /api/v1/rides/{id}/seats
func (h *BookingHandler) GetRemainingSeats(w http.ResponseWriter, r *http.Request) {
	rideID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ride ID")
		return
	}

	remaining, err := h.bookingService.RemainingSeats(r.Context(), rideID)
	if err != nil {
		h.logger.Error("Failed to get remaining seats", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get remaining seats")
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"ride_id":         rideID,
		"remaining_seats": remaining,
	})
}
