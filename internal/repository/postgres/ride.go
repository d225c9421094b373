package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocampus/carpool/internal/domain"
	"github.com/gocampus/carpool/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rideRepository struct {
	db *pgxpool.Pool
}

func NewRideRepository(db *pgxpool.Pool) repository.RideRepository {
	return &rideRepository{db: db}
}

func (r *rideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (id, driver_id, vehicle_id, address_from, address_to, departure, max_seats, price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	ride.ID = uuid.New()
	ride.Status = domain.RideStatusActive
	ride.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		ride.ID,
		ride.DriverID,
		ride.VehicleID,
		ride.AddressFrom,
		ride.AddressTo,
		ride.Departure,
		ride.MaxSeats,
		ride.Price,
		ride.Status,
		ride.CreatedAt,
	)

	return err
}

func (r *rideRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ride, error) {
	query := `
		SELECT id, driver_id, vehicle_id, address_from, address_to, departure, max_seats, price, status, created_at
		FROM rides
		WHERE id = $1
	`

	ride := &domain.Ride{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ride.ID,
		&ride.DriverID,
		&ride.VehicleID,
		&ride.AddressFrom,
		&ride.AddressTo,
		&ride.Departure,
		&ride.MaxSeats,
		&ride.Price,
		&ride.Status,
		&ride.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRideNotFound
		}
		return nil, err
	}

	return ride, nil
}

func (r *rideRepository) GetByDriverID(ctx context.Context, driverID uuid.UUID) ([]*domain.Ride, error) {
	query := `
		SELECT id, driver_id, vehicle_id, address_from, address_to, departure, max_seats, price, status, created_at
		FROM rides
		WHERE driver_id = $1
		ORDER BY departure DESC
	`

	rows, err := r.db.Query(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRides(rows)
}

func (r *rideRepository) Search(ctx context.Context, filter repository.RideFilter) ([]*domain.Ride, error) {
	// Динамически собираем условия: публичный поиск видит только активные поездки
	query := `
		SELECT id, driver_id, vehicle_id, address_from, address_to, departure, max_seats, price, status, created_at
		FROM rides
		WHERE status = 'active'
	`
	args := []interface{}{}
	argN := 1

	if filter.AddressFrom != "" {
		query += fmt.Sprintf(" AND address_from ILIKE $%d", argN)
		args = append(args, "%"+filter.AddressFrom+"%")
		argN++
	}
	if filter.AddressTo != "" {
		query += fmt.Sprintf(" AND address_to ILIKE $%d", argN)
		args = append(args, "%"+filter.AddressTo+"%")
		argN++
	}
	if filter.DepartureAfter != nil {
		query += fmt.Sprintf(" AND departure >= $%d", argN)
		args = append(args, *filter.DepartureAfter)
		argN++
	}

	query += fmt.Sprintf(" ORDER BY departure ASC LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRides(rows)
}

// Cancel переводит поездку в canceled и отменяет ее бронирования в одной транзакции
// Пассажиры не должны оставаться с подтвержденными бронированиями отмененной поездки
func (r *rideRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	return r.finalize(ctx, id,
		domain.RideStatusCanceled,
		domain.ReservationStatusCanceled,
		[]domain.ReservationStatus{domain.ReservationStatusWaiting, domain.ReservationStatusConfirmed},
	)
}

// Finish переводит поездку в finished и завершает ее подтвержденные бронирования
func (r *rideRepository) Finish(ctx context.Context, id uuid.UUID) error {
	return r.finalize(ctx, id,
		domain.RideStatusFinished,
		domain.ReservationStatusFinished,
		[]domain.ReservationStatus{domain.ReservationStatusWaiting, domain.ReservationStatusConfirmed},
	)
}

// finalize атомарно переводит поездку в терминальный статус
// и каскадно обновляет статусы ее незакрытых бронирований
func (r *rideRepository) finalize(
	ctx context.Context,
	id uuid.UUID,
	rideStatus domain.RideStatus,
	reservationStatus domain.ReservationStatus,
	from []domain.ReservationStatus,
) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Блокируем строку поездки: статусный переход должен быть сериализован
	var current domain.RideStatus
	err = tx.QueryRow(ctx, `
		SELECT status
		FROM rides
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRideNotFound
		}
		return err
	}

	// Не выводим поездку из терминального состояния
	switch current {
	case domain.RideStatusCanceled:
		return domain.ErrRideAlreadyCanceled
	case domain.RideStatusFinished:
		return domain.ErrRideAlreadyFinished
	}

	_, err = tx.Exec(ctx, `
		UPDATE rides
		SET status = $2
		WHERE id = $1
	`, id, rideStatus)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE reservations
		SET status = $2
		WHERE ride_id = $1 AND status = ANY($3)
	`, id, reservationStatus, statusStrings(from))
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func scanRides(rows pgx.Rows) ([]*domain.Ride, error) {
	var rides []*domain.Ride
	for rows.Next() {
		ride := &domain.Ride{}
		err := rows.Scan(
			&ride.ID,
			&ride.DriverID,
			&ride.VehicleID,
			&ride.AddressFrom,
			&ride.AddressTo,
			&ride.Departure,
			&ride.MaxSeats,
			&ride.Price,
			&ride.Status,
			&ride.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}
