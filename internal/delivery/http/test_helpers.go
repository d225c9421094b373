package http

import (
	"context"
	"testing"
	"time"

	"github.com/gocampus/carpool/internal/delivery/http/middleware"
	"github.com/gocampus/carpool/internal/domain"
	"github.com/gocampus/carpool/internal/pkg/jwt"
	"github.com/google/uuid"
)

// CreateAuthContext создает контекст с JWT claims для тестирования
func CreateAuthContext(t *testing.T, userID uuid.UUID, email string, role domain.UserRole) context.Context {
	t.Helper()
	claims := &jwt.Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
	}
	return context.WithValue(context.Background(), middleware.UserClaimsKey, claims)
}

// CreateTestUser создает тестового пользователя
func CreateTestUser(id uuid.UUID, email string) *domain.User {
	return &domain.User{
		ID:      id,
		Name:    "Test",
		Surname: "User",
		Email:   email,
		Role:    domain.RoleNormal,
	}
}

// CreateTestVehicle создает тестовый автомобиль
func CreateTestVehicle(id, ownerID uuid.UUID, licensePlate string) *domain.Vehicle {
	return &domain.Vehicle{
		ID:           id,
		OwnerID:      ownerID,
		LicensePlate: licensePlate,
		MaxSeats:     4,
		Model:        "Test Model",
		Color:        "Test Color",
	}
}

// CreateTestRide создает тестовую поездку
func CreateTestRide(id, driverID, vehicleID uuid.UUID) *domain.Ride {
	return &domain.Ride{
		ID:          id,
		DriverID:    driverID,
		VehicleID:   vehicleID,
		AddressFrom: "Campus Nord",
		AddressTo:   "Campus Sud",
		Departure:   time.Now().Add(24 * time.Hour),
		MaxSeats:    3,
		Price:       5.50,
		Status:      domain.RideStatusActive,
	}
}

// CreateTestReservation создает тестовое бронирование
func CreateTestReservation(id, rideID, passengerID uuid.UUID, seats int) *domain.Reservation {
	return &domain.Reservation{
		ID:          id,
		RideID:      rideID,
		PassengerID: passengerID,
		SeatsBooked: seats,
		Status:      domain.ReservationStatusConfirmed,
	}
}
