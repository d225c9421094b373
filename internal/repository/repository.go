package repository

import (
	"context"
	"time"

	"github.com/gocampus/carpool/internal/domain"
	"github.com/google/uuid"
)

// RideFilter описывает параметры публичного поиска поездок
// Подстроки сравниваются без учета регистра, DepartureAfter ограничивает дату снизу
type RideFilter struct {
	AddressFrom    string
	AddressTo      string
	DepartureAfter *time.Time
	Limit          int
	Offset         int
}

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// VehicleRepository определяет методы для работы с автомобилями
type VehicleRepository interface {
	// Create создает новый автомобиль
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID возвращает автомобиль по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)

	// GetByLicensePlate возвращает автомобиль по номеру
	GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error)

	// GetByOwnerID возвращает все автомобили пользователя
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error)

	// Delete удаляет автомобиль
	// Возвращает ErrVehicleInUse, если на автомобиль ссылается поездка
	Delete(ctx context.Context, id uuid.UUID) error
}

// RideRepository определяет методы для работы с поездками
type RideRepository interface {
	// Create создает новую поездку
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID возвращает поездку по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ride, error)

	// GetByDriverID возвращает все поездки водителя
	GetByDriverID(ctx context.Context, driverID uuid.UUID) ([]*domain.Ride, error)

	// Search возвращает активные поездки по фильтру,
	// отсортированные по времени отправления по возрастанию
	Search(ctx context.Context, filter RideFilter) ([]*domain.Ride, error)

	// Cancel переводит поездку в статус canceled и в той же транзакции
	// отменяет все ее бронирования, занимающие места
	Cancel(ctx context.Context, id uuid.UUID) error

	// Finish переводит поездку в статус finished и в той же транзакции
	// завершает ее подтвержденные бронирования
	Finish(ctx context.Context, id uuid.UUID) error
}

// ReservationRepository определяет методы для работы с бронированиями
// КЛЮЧЕВОЙ контракт: CreateWithCapacityCheck выполняет проверку вместимости
// и вставку бронирования как одну атомарную единицу относительно
// конкурентных бронирований той же поездки
type ReservationRepository interface {
	// CreateWithCapacityCheck атомарно перепроверяет вместимость поездки
	// и создает бронирование. Возвращает ErrRideNotFound, ErrSelfBooking,
	// ErrRideNotBookable или ErrNotEnoughSeats при нарушении предусловий
	CreateWithCapacityCheck(ctx context.Context, reservation *domain.Reservation) error

	// GetByID возвращает бронирование по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)

	// GetByPassengerID возвращает все бронирования пассажира
	GetByPassengerID(ctx context.Context, passengerID uuid.UUID) ([]*domain.Reservation, error)

	// SeatsTaken возвращает сумму мест по бронированиям поездки
	// со статусами waiting и confirmed
	SeatsTaken(ctx context.Context, rideID uuid.UUID) (int, error)

	// Cancel переводит бронирование в статус canceled и возвращает места
	// в пул (поездка full снова становится active в той же транзакции)
	Cancel(ctx context.Context, id uuid.UUID) error
}

// SeatAvailability определяет быстрое чтение свободных мест поездки
// Несуществующая поездка дает 0 свободных мест, а не ошибку
type SeatAvailability interface {
	// RemainingSeats возвращает max_seats минус занятые места
	RemainingSeats(ctx context.Context, rideID uuid.UUID) (int, error)

	// Invalidate сбрасывает кешированное значение после брони или отмены
	Invalidate(ctx context.Context, rideID uuid.UUID)
}
