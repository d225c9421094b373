package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRide_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status RideStatus
		want   bool
	}{
		{"active не терминальный", RideStatusActive, false},
		{"full не терминальный", RideStatusFull, false},
		{"canceled терминальный", RideStatusCanceled, true},
		{"finished терминальный", RideStatusFinished, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ride := &Ride{Status: tt.status}
			assert.Equal(t, tt.want, ride.IsTerminal())
			assert.Equal(t, !tt.want, ride.IsBookable())
		})
	}
}

func TestRide_Validate(t *testing.T) {
	valid := func() *Ride {
		return &Ride{
			DriverID:    uuid.New(),
			VehicleID:   uuid.New(),
			AddressFrom: "Campus Nord",
			AddressTo:   "Campus Sud",
			Departure:   time.Now().Add(24 * time.Hour),
			MaxSeats:    3,
			Price:       5.50,
		}
	}

	t.Run("корректная поездка", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("без адреса отправления", func(t *testing.T) {
		ride := valid()
		ride.AddressFrom = ""
		assert.ErrorIs(t, ride.Validate(), ErrInvalidRideData)
	})

	t.Run("нулевое число мест", func(t *testing.T) {
		ride := valid()
		ride.MaxSeats = 0
		assert.ErrorIs(t, ride.Validate(), ErrInvalidRideData)
	})

	t.Run("отрицательная цена", func(t *testing.T) {
		ride := valid()
		ride.Price = -0.01
		assert.ErrorIs(t, ride.Validate(), ErrInvalidRideData)
	})

	t.Run("бесплатная поездка допустима", func(t *testing.T) {
		ride := valid()
		ride.Price = 0
		assert.NoError(t, ride.Validate())
	})
}

func TestReservation_CountsTowardCapacity(t *testing.T) {
	tests := []struct {
		status ReservationStatus
		want   bool
	}{
		{ReservationStatusWaiting, true},
		{ReservationStatusConfirmed, true},
		{ReservationStatusCanceled, false},
		{ReservationStatusFinished, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			res := &Reservation{Status: tt.status}
			assert.Equal(t, tt.want, res.CountsTowardCapacity())
		})
	}
}

func TestNormalizeLicensePlate(t *testing.T) {
	assert.Equal(t, "AB123CD", NormalizeLicensePlate("ab 123 cd"))
	assert.Equal(t, "XY999ZZ", NormalizeLicensePlate("XY999ZZ"))
}
