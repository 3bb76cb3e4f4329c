package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/example/barbershop-manager/internal/persistence"
)

// AppointmentRepository implements persistence.AppointmentRepository using SQLite
type AppointmentRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewAppointmentRepository creates a new SQLite appointment repository
func NewAppointmentRepository(pool *ConnectionPool) *AppointmentRepository {
	return &AppointmentRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const appointmentColumns = `id, appointment_date, start_minutes, duration_minutes, client_name, barber_id, status, created_at, updated_at`

// CreateAppointment inserts an appointment together with its service names
func (r *AppointmentRepository) CreateAppointment(ctx context.Context, appointment persistence.Appointment) error {
	if appointment.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := r.helper.ExecTx(ctx, tx, `
			INSERT INTO appointments (`+appointmentColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			appointment.ID,
			appointment.Date,
			appointment.StartMinutes,
			appointment.DurationMinutes,
			appointment.ClientName,
			appointment.BarberID,
			appointment.Status,
			formatTime(appointment.CreatedAt),
			formatTime(appointment.UpdatedAt),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return r.insertServiceNames(ctx, tx, appointment.ID, appointment.ServiceNames)
	})
}

// UpdateAppointment rewrites an appointment and replaces its service names
func (r *AppointmentRepository) UpdateAppointment(ctx context.Context, appointment persistence.Appointment) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := r.helper.ExecTx(ctx, tx, `
			UPDATE appointments
			SET appointment_date = ?, start_minutes = ?, duration_minutes = ?, client_name = ?,
				barber_id = ?, status = ?, updated_at = ?
			WHERE id = ?
		`,
			appointment.Date,
			appointment.StartMinutes,
			appointment.DurationMinutes,
			appointment.ClientName,
			appointment.BarberID,
			appointment.Status,
			formatTime(appointment.UpdatedAt),
			appointment.ID,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if err := requireAffected(result); err != nil {
			return err
		}

		if _, err := r.helper.ExecTx(ctx, tx, `DELETE FROM appointment_services WHERE appointment_id = ?`, appointment.ID); err != nil {
			return r.mapper.MapError(err)
		}
		return r.insertServiceNames(ctx, tx, appointment.ID, appointment.ServiceNames)
	})
}

// GetAppointment retrieves an appointment by ID
func (r *AppointmentRepository) GetAppointment(ctx context.Context, id string) (persistence.Appointment, error) {
	row := r.helper.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id)
	appointment, err := scanAppointment(row)
	if err != nil {
		return persistence.Appointment{}, r.mapper.MapError(err)
	}

	names, err := r.loadServiceNames(ctx, []string{appointment.ID})
	if err != nil {
		return persistence.Appointment{}, err
	}
	appointment.ServiceNames = names[appointment.ID]
	return appointment, nil
}

// ListAppointments returns the appointments matching filter ordered by date,
// start time and creation order
func (r *AppointmentRepository) ListAppointments(ctx context.Context, filter persistence.AppointmentFilter) ([]persistence.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	var (
		conditions []string
		args       []any
	)
	if filter.Date != "" {
		conditions = append(conditions, "appointment_date = ?")
		args = append(args, filter.Date)
	}
	if filter.BarberID != "" {
		conditions = append(conditions, "barber_id = ?")
		args = append(args, filter.BarberID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY appointment_date ASC, start_minutes ASC, rowid ASC"

	appointments, err := r.queryAppointments(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(appointments))
	for i := range appointments {
		ids[i] = appointments[i].ID
	}
	names, err := r.loadServiceNames(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		appointments[i].ServiceNames = names[appointments[i].ID]
	}
	return appointments, nil
}

// DeleteAppointment removes an appointment and its service names
func (r *AppointmentRepository) DeleteAppointment(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM appointments WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

// queryAppointments drains the cursor before returning so the connection is
// free for follow-up queries.
func (r *AppointmentRepository) queryAppointments(ctx context.Context, query string, args ...any) ([]persistence.Appointment, error) {
	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	appointments := make([]persistence.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) insertServiceNames(ctx context.Context, tx *sql.Tx, appointmentID string, names []string) error {
	for position, name := range names {
		_, err := r.helper.ExecTx(ctx, tx,
			`INSERT INTO appointment_services (appointment_id, position, service_name) VALUES (?, ?, ?)`,
			appointmentID, position, name)
		if err != nil {
			return r.mapper.MapError(err)
		}
	}
	return nil
}

func (r *AppointmentRepository) loadServiceNames(ctx context.Context, appointmentIDs []string) (map[string][]string, error) {
	names := make(map[string][]string, len(appointmentIDs))
	if len(appointmentIDs) == 0 {
		return names, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(appointmentIDs)), ",")
	args := make([]any, len(appointmentIDs))
	for i, id := range appointmentIDs {
		args[i] = id
	}

	rows, err := r.helper.Query(ctx, `
		SELECT appointment_id, service_name
		FROM appointment_services
		WHERE appointment_id IN (`+placeholders+`)
		ORDER BY appointment_id ASC, position ASC
	`, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID, name string
		if err := rows.Scan(&appointmentID, &name); err != nil {
			return nil, r.mapper.MapError(err)
		}
		names[appointmentID] = append(names[appointmentID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return names, nil
}

func scanAppointment(row rowScanner) (persistence.Appointment, error) {
	var (
		appointment          persistence.Appointment
		createdAt, updatedAt string
	)
	err := row.Scan(
		&appointment.ID,
		&appointment.Date,
		&appointment.StartMinutes,
		&appointment.DurationMinutes,
		&appointment.ClientName,
		&appointment.BarberID,
		&appointment.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Appointment{}, persistence.ErrNotFound
		}
		return persistence.Appointment{}, err
	}
	if appointment.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Appointment{}, err
	}
	if appointment.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Appointment{}, err
	}
	return appointment, nil
}
