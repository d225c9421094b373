package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gocampus/carpool/internal/domain"
	"github.com/gocampus/carpool/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type reservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

// CreateWithCapacityCheck атомарно допускает или отклоняет бронирование.
// Блокировка строки поездки (FOR UPDATE) сериализует конкурентные бронирования
// одной поездки: проверка вместимости и вставка видны друг другу строго
// последовательно, поэтому две одновременные заявки не могут вместе
// превысить max_seats
func (r *reservationRepository) CreateWithCapacityCheck(ctx context.Context, reservation *domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var (
		driverID uuid.UUID
		maxSeats int
		status   domain.RideStatus
	)
	err = tx.QueryRow(ctx, `
		SELECT driver_id, max_seats, status
		FROM rides
		WHERE id = $1
		FOR UPDATE
	`, reservation.RideID).Scan(&driverID, &maxSeats, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRideNotFound
		}
		return err
	}

	// Предусловия перепроверяются под блокировкой: внешние проверки
	// сервиса могли устареть к моменту коммита
	if driverID == reservation.PassengerID {
		return domain.ErrSelfBooking
	}
	if status == domain.RideStatusCanceled || status == domain.RideStatusFinished {
		return domain.ErrRideNotBookable
	}

	// Занятые места всегда выводятся из текущих статусов, не из счетчика
	var taken int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(seats_booked), 0)
		FROM reservations
		WHERE ride_id = $1 AND status IN ('waiting', 'confirmed')
	`, reservation.RideID).Scan(&taken)
	if err != nil {
		return err
	}

	remaining := maxSeats - taken
	if remaining < reservation.SeatsBooked {
		return domain.ErrNotEnoughSeats
	}

	reservation.ID = uuid.New()
	reservation.Status = domain.ReservationStatusConfirmed
	reservation.CreatedAt = time.Now()

	_, err = tx.Exec(ctx, `
		INSERT INTO reservations (id, ride_id, passenger_id, seats_booked, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		reservation.ID,
		reservation.RideID,
		reservation.PassengerID,
		reservation.SeatsBooked,
		reservation.Status,
		reservation.CreatedAt,
	)
	if err != nil {
		return err
	}

	// Последнее место занято - помечаем поездку заполненной
	if remaining == reservation.SeatsBooked {
		_, err = tx.Exec(ctx, `
			UPDATE rides
			SET status = $2
			WHERE id = $1
		`, reservation.RideID, domain.RideStatusFull)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *reservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query := `
		SELECT id, ride_id, passenger_id, seats_booked, status, created_at
		FROM reservations
		WHERE id = $1
	`

	reservation := &domain.Reservation{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.RideID,
		&reservation.PassengerID,
		&reservation.SeatsBooked,
		&reservation.Status,
		&reservation.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}

	return reservation, nil
}

func (r *reservationRepository) GetByPassengerID(ctx context.Context, passengerID uuid.UUID) ([]*domain.Reservation, error) {
	query := `
		SELECT id, ride_id, passenger_id, seats_booked, status, created_at
		FROM reservations
		WHERE passenger_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, passengerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		reservation := &domain.Reservation{}
		err := rows.Scan(
			&reservation.ID,
			&reservation.RideID,
			&reservation.PassengerID,
			&reservation.SeatsBooked,
			&reservation.Status,
			&reservation.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}

	return reservations, rows.Err()
}

func (r *reservationRepository) SeatsTaken(ctx context.Context, rideID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(SUM(seats_booked), 0)
		FROM reservations
		WHERE ride_id = $1 AND status IN ('waiting', 'confirmed')
	`

	var taken int
	if err := r.db.QueryRow(ctx, query, rideID).Scan(&taken); err != nil {
		return 0, err
	}

	return taken, nil
}

// Cancel освобождает места: статус меняется на canceled, физического удаления нет.
// Блокируем строку поездки в том же порядке, что и при бронировании,
// чтобы возврат мест не гонялся с конкурентным допуском
func (r *reservationRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var rideID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT ride_id
		FROM reservations
		WHERE id = $1
	`, id).Scan(&rideID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrReservationNotFound
		}
		return err
	}

	var rideStatus domain.RideStatus
	err = tx.QueryRow(ctx, `
		SELECT status
		FROM rides
		WHERE id = $1
		FOR UPDATE
	`, rideID).Scan(&rideStatus)
	if err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `
		UPDATE reservations
		SET status = $2
		WHERE id = $1 AND status IN ('waiting', 'confirmed')
	`, id, domain.ReservationStatusCanceled)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrReservationAlreadyCanceled
	}

	// Освободившиеся места снова открывают заполненную поездку
	if rideStatus == domain.RideStatusFull {
		_, err = tx.Exec(ctx, `
			UPDATE rides
			SET status = $2
			WHERE id = $1
		`, rideID, domain.RideStatusActive)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
