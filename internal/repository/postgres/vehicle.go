package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gocampus/carpool/internal/domain"
	"github.com/gocampus/carpool/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// foreignKeyViolation - код PostgreSQL для нарушения внешнего ключа
// (поездка ссылается на удаляемый автомобиль, rides.vehicle_id RESTRICT)
const foreignKeyViolation = "23503"

type vehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, owner_id, license_plate, max_seats, model, color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	vehicle.ID = uuid.New()
	vehicle.CreatedAt = time.Now()

	// Нормализуем номер перед сохранением
	vehicle.LicensePlate = domain.NormalizeLicensePlate(vehicle.LicensePlate)

	_, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.OwnerID,
		vehicle.LicensePlate,
		vehicle.MaxSeats,
		vehicle.Model,
		vehicle.Color,
		vehicle.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrVehicleAlreadyExists
		}
		return err
	}

	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	query := `
		SELECT id, owner_id, license_plate, max_seats, model, color, created_at
		FROM vehicles
		WHERE id = $1
	`

	vehicle := &domain.Vehicle{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&vehicle.ID,
		&vehicle.OwnerID,
		&vehicle.LicensePlate,
		&vehicle.MaxSeats,
		&vehicle.Model,
		&vehicle.Color,
		&vehicle.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return vehicle, nil
}

func (r *vehicleRepository) GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error) {
	query := `
		SELECT id, owner_id, license_plate, max_seats, model, color, created_at
		FROM vehicles
		WHERE license_plate = $1
	`

	// Нормализуем номер перед поиском
	normalizedPlate := domain.NormalizeLicensePlate(licensePlate)

	vehicle := &domain.Vehicle{}
	err := r.db.QueryRow(ctx, query, normalizedPlate).Scan(
		&vehicle.ID,
		&vehicle.OwnerID,
		&vehicle.LicensePlate,
		&vehicle.MaxSeats,
		&vehicle.Model,
		&vehicle.Color,
		&vehicle.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return vehicle, nil
}

func (r *vehicleRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error) {
	query := `
		SELECT id, owner_id, license_plate, max_seats, model, color, created_at
		FROM vehicles
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle := &domain.Vehicle{}
		err := rows.Scan(
			&vehicle.ID,
			&vehicle.OwnerID,
			&vehicle.LicensePlate,
			&vehicle.MaxSeats,
			&vehicle.Model,
			&vehicle.Color,
			&vehicle.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM vehicles
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return domain.ErrVehicleInUse
		}
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}
