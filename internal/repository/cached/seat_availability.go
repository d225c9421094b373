package cached

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gocampus/carpool/internal/domain"
	"github.com/gocampus/carpool/internal/pkg/redis"
	"github.com/gocampus/carpool/internal/repository"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

const (
	seatsCachePrefix = "ride_seats:"

	// Короткий TTL: значение допустимо устаревает между бронированиями,
	// но движок допуска НИКОГДА не читает кеш - он пересчитывает
	// вместимость внутри транзакции
	seatsCacheTTL = 30 * time.Second
)

// SeatAvailability добавляет кэширование к подсчету свободных мест
// Используется только для публичных чтений (список поездок, карточка поездки)
type SeatAvailability struct {
	rides        repository.RideRepository
	reservations repository.ReservationRepository
	cache        *redis.Client
}

// NewSeatAvailability создает новый кэшируемый калькулятор свободных мест
func NewSeatAvailability(
	rides repository.RideRepository,
	reservations repository.ReservationRepository,
	cache *redis.Client,
) *SeatAvailability {
	return &SeatAvailability{
		rides:        rides,
		reservations: reservations,
		cache:        cache,
	}
}

// RemainingSeats возвращает max_seats минус занятые места (с кэшированием)
// Несуществующая поездка дает 0: вызывающий не должен бронировать такую
// поездку, но сам калькулятор не считает это ошибкой
func (s *SeatAvailability) RemainingSeats(ctx context.Context, rideID uuid.UUID) (int, error) {
	cacheKey := seatsCachePrefix + rideID.String()

	// 1. Проверяем кэш
	cached, err := s.cache.Get(ctx, cacheKey)
	if err == nil {
		if remaining, convErr := strconv.Atoi(cached); convErr == nil {
			return remaining, nil
		}
	} else if !errors.Is(err, redisv9.Nil) {
		// Ошибка кэша (не cache miss) не фатальна - продолжаем работу с БД
	}

	// 2. Cache miss - считаем из БД
	remaining, err := s.compute(ctx, rideID)
	if err != nil {
		return 0, err
	}

	// 3. Сохраняем результат в кэш (ошибку записи игнорируем, не критично)
	_ = s.cache.Set(ctx, cacheKey, strconv.Itoa(remaining), seatsCacheTTL)

	return remaining, nil
}

// Invalidate сбрасывает кешированное значение после брони или отмены
func (s *SeatAvailability) Invalidate(ctx context.Context, rideID uuid.UUID) {
	_ = s.cache.Del(ctx, seatsCachePrefix+rideID.String())
}

func (s *SeatAvailability) compute(ctx context.Context, rideID uuid.UUID) (int, error) {
	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, domain.ErrRideNotFound) {
			return 0, nil
		}
		return 0, err
	}

	taken, err := s.reservations.SeatsTaken(ctx, rideID)
	if err != nil {
		return 0, err
	}

	remaining := ride.MaxSeats - taken
	if remaining < 0 {
		// Инвариант вместимости держит БД, но чтение не должно уходить в минус
		remaining = 0
	}

	return remaining, nil
}
