package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/barbershop-manager/internal/persistence"
)

// BarberRepository implements persistence.BarberRepository using SQLite
type BarberRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewBarberRepository creates a new SQLite barber repository
func NewBarberRepository(pool *ConnectionPool) *BarberRepository {
	return &BarberRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const barberColumns = `id, name, email, phone, status, created_at, updated_at`

// CreateBarber inserts a new barber
func (r *BarberRepository) CreateBarber(ctx context.Context, barber persistence.Barber) error {
	if barber.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO barbers (`+barberColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		barber.ID,
		barber.Name,
		barber.Email,
		barber.Phone,
		barber.Status,
		formatTime(barber.CreatedAt),
		formatTime(barber.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

// UpdateBarber updates an existing barber
func (r *BarberRepository) UpdateBarber(ctx context.Context, barber persistence.Barber) error {
	result, err := r.helper.Exec(ctx, `
		UPDATE barbers
		SET name = ?, email = ?, phone = ?, status = ?, updated_at = ?
		WHERE id = ?
	`,
		barber.Name,
		barber.Email,
		barber.Phone,
		barber.Status,
		formatTime(barber.UpdatedAt),
		barber.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

// GetBarber retrieves a barber by ID
func (r *BarberRepository) GetBarber(ctx context.Context, id string) (persistence.Barber, error) {
	row := r.helper.QueryRow(ctx, `SELECT `+barberColumns+` FROM barbers WHERE id = ?`, id)
	barber, err := scanBarber(row)
	if err != nil {
		return persistence.Barber{}, r.mapper.MapError(err)
	}
	return barber, nil
}

// ListBarbers returns all barbers ordered by name
func (r *BarberRepository) ListBarbers(ctx context.Context) ([]persistence.Barber, error) {
	rows, err := r.helper.Query(ctx, `SELECT `+barberColumns+` FROM barbers ORDER BY name COLLATE NOCASE ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	barbers := make([]persistence.Barber, 0)
	for rows.Next() {
		barber, err := scanBarber(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		barbers = append(barbers, barber)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return barbers, nil
}

// DeleteBarber removes a barber. Barbers with appointments cannot be removed.
func (r *BarberRepository) DeleteBarber(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM barbers WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBarber(row rowScanner) (persistence.Barber, error) {
	var (
		barber               persistence.Barber
		createdAt, updatedAt string
	)
	if err := row.Scan(&barber.ID, &barber.Name, &barber.Email, &barber.Phone, &barber.Status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Barber{}, persistence.ErrNotFound
		}
		return persistence.Barber{}, err
	}
	var err error
	if barber.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Barber{}, err
	}
	if barber.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Barber{}, err
	}
	return barber, nil
}
