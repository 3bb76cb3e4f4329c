package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/barbershop-manager/internal/occupancy"
	"github.com/example/barbershop-manager/internal/persistence"
)

const dateLayout = "2006-01-02"

// AppointmentRepository captures the appointment persistence operations.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appointment Appointment) (Appointment, error)
	GetAppointment(ctx context.Context, id string) (Appointment, error)
	UpdateAppointment(ctx context.Context, appointment Appointment) (Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error)
}

// OperatingHours supplies the configured day layout.
type OperatingHours interface {
	Slots(ctx context.Context) (Settings, []occupancy.ClockTime, error)
}

// BookingService validates bookings against the occupancy of the day and
// renders the per-barber schedule.
type BookingService struct {
	appointments AppointmentRepository
	barbers      BarberRepository
	services     ServiceRepository
	hours        OperatingHours
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger

	// mu serialises the occupancy check and the insert of a booking.
	mu sync.Mutex
}

// NewBookingService constructs a booking service with the provided dependencies.
func NewBookingService(appointments AppointmentRepository, barbers BarberRepository, services ServiceRepository, hours OperatingHours, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(appointments, barbers, services, hours, idGenerator, now, nil)
}

// NewBookingServiceWithLogger constructs a booking service with a specified logger.
func NewBookingServiceWithLogger(appointments AppointmentRepository, barbers BarberRepository, services ServiceRepository, hours OperatingHours, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if hours == nil {
		hours = NewSettingsService(nil, nil, now)
	}
	return &BookingService{
		appointments: appointments,
		barbers:      barbers,
		services:     services,
		hours:        hours,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CreateAppointment books a client with a barber. The duration is the sum of
// the chosen services and the whole interval must be free.
func (s *BookingService) CreateAppointment(ctx context.Context, input CreateAppointmentInput) (appointment Appointment, err error) {
	if s == nil || s.appointments == nil {
		err = fmt.Errorf("appointment repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateAppointment",
		"barber_id", input.BarberID,
		"date", input.Date,
		"start", input.Start,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create appointment", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("appointment_id", appointment.ID).InfoContext(ctx, "appointment created")
	}()

	vErr := &ValidationError{}
	clientName := strings.TrimSpace(input.ClientName)
	if clientName == "" {
		vErr.add("clientName", "client name is required")
	}
	barberID := strings.TrimSpace(input.BarberID)
	if barberID == "" {
		vErr.add("barberId", "barber is required")
	}
	date, ok := s.resolveDate(input.Date)
	if !ok {
		vErr.add("date", "date must be YYYY-MM-DD")
	}
	start, parseErr := occupancy.ParseClockTime(strings.TrimSpace(input.Start))
	if parseErr != nil {
		vErr.add("start", "time must be HH:MM")
	}
	names, duration, servicesErr := s.resolveServices(ctx, input.ServiceNames)
	if servicesErr != nil {
		var serviceVErr *ValidationError
		if !errors.As(servicesErr, &serviceVErr) {
			err = servicesErr
			return
		}
		vErr.merge(serviceVErr)
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	settings, slots, err := s.hours.Slots(ctx)
	if err != nil {
		return
	}
	if !containsSlot(slots, start) {
		err = newValidationError("start", "start is not an available slot")
		return
	}
	if start.Add(duration) > settings.Closing {
		err = newValidationError("services", "services run past closing time")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _, snapshot, err := s.daySnapshot(ctx, date)
	if err != nil {
		return
	}

	if err = snapshot.CheckCandidate(barberID, start, duration); err != nil {
		err = mapOccupancyError(err)
		return
	}

	appointment = Appointment{
		ID:              s.idGenerator(),
		Date:            date,
		Start:           start,
		DurationMinutes: duration,
		ClientName:      clientName,
		BarberID:        barberID,
		ServiceNames:    names,
		Status:          AppointmentConfirmed,
		CreatedAt:       s.now(),
	}
	appointment.UpdatedAt = appointment.CreatedAt

	appointment, err = s.appointments.CreateAppointment(ctx, appointment)
	if err != nil {
		err = mapAppointmentRepoError(err)
	}
	return
}

// ListAppointments returns the appointments matching filter ordered by date
// and start time. Appointments at the same time keep their stored order.
func (s *BookingService) ListAppointments(ctx context.Context, filter AppointmentFilter) (appointments []Appointment, err error) {
	if s == nil || s.appointments == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListAppointments", "date", filter.Date, "barber_id", filter.BarberID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list appointments", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(appointments)).InfoContext(ctx, "appointments listed")
	}()

	filter.Date = strings.TrimSpace(filter.Date)
	if filter.Date != "" {
		if _, parseErr := time.Parse(dateLayout, filter.Date); parseErr != nil {
			err = newValidationError("date", "date must be YYYY-MM-DD")
			return
		}
	}
	filter.BarberID = strings.TrimSpace(filter.BarberID)

	appointments, err = s.appointments.ListAppointments(ctx, filter)
	if err != nil {
		err = mapAppointmentRepoError(err)
		return
	}
	sortAppointments(appointments)
	return
}

// GetAppointment returns an appointment by id.
func (s *BookingService) GetAppointment(ctx context.Context, id string) (Appointment, error) {
	if s == nil || s.appointments == nil {
		return Appointment{}, ErrNotFound
	}
	appointment, err := s.appointments.GetAppointment(ctx, id)
	return appointment, mapAppointmentRepoError(err)
}

// UpdateAppointmentStatus moves an appointment to a new status. The time and
// duration of an appointment never change after booking.
func (s *BookingService) UpdateAppointmentStatus(ctx context.Context, id string, status AppointmentStatus) (appointment Appointment, err error) {
	if s == nil || s.appointments == nil {
		err = fmt.Errorf("appointment repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateAppointmentStatus", "appointment_id", id, "status", string(status))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update appointment status", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "appointment status updated")
	}()

	if !status.valid() {
		err = newValidationError("status", "status is invalid")
		return
	}

	var existing Appointment
	if existing, err = s.appointments.GetAppointment(ctx, id); err != nil {
		err = mapAppointmentRepoError(err)
		return
	}
	existing.Status = status
	existing.UpdatedAt = s.now()

	appointment, err = s.appointments.UpdateAppointment(ctx, existing)
	if err != nil {
		err = mapAppointmentRepoError(err)
	}
	return
}

// DeleteAppointment removes an appointment.
func (s *BookingService) DeleteAppointment(ctx context.Context, id string) error {
	if s == nil || s.appointments == nil {
		return fmt.Errorf("appointment repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteAppointment", "appointment_id", id)
	if err := s.appointments.DeleteAppointment(ctx, id); err != nil {
		err = mapAppointmentRepoError(err)
		logger.ErrorContext(ctx, "failed to delete appointment", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "appointment deleted")
	return nil
}

// DayGrid lays out one date with a column per barber. Without barberIDs every
// barber gets a column, ordered by name.
func (s *BookingService) DayGrid(ctx context.Context, date string, barberIDs []string) (grid DayGrid, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "DayGrid", "date", date)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to build day grid", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("rows", len(grid.Rows), "columns", len(grid.Barbers)).DebugContext(ctx, "day grid built")
	}()

	resolved, ok := s.resolveDate(date)
	if !ok {
		err = newValidationError("date", "date must be YYYY-MM-DD")
		return
	}

	settings, slots, err := s.hours.Slots(ctx)
	if err != nil {
		return
	}

	barbers, appointments, snapshot, err := s.daySnapshot(ctx, resolved)
	if err != nil {
		return
	}
	columns, err := selectColumns(barbers, barberIDs)
	if err != nil {
		return
	}

	ids := make([]string, len(columns))
	for i, barber := range columns {
		ids[i] = barber.ID
	}
	layout, err := occupancy.BuildGrid(slots, ids, snapshot, settings.StepMinutes)
	if err != nil {
		err = mapOccupancyError(err)
		return
	}

	byID := make(map[string]*Appointment, len(appointments))
	for i := range appointments {
		byID[appointments[i].ID] = &appointments[i]
	}

	grid = DayGrid{
		Date:    resolved,
		Step:    layout.Step,
		Barbers: columns,
		Rows:    make([]DayGridRow, len(layout.Rows)),
	}
	for i, row := range layout.Rows {
		cells := make([]DayGridCell, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = DayGridCell{BarberID: cell.BarberID, Kind: cell.Kind, RowSpan: cell.RowSpan}
			if cell.Appointment != nil {
				cells[j].Appointment = byID[cell.Appointment.ID]
			}
		}
		grid.Rows[i] = DayGridRow{Time: row.Slot, Cells: cells}
	}
	return
}

// Availability lists every slot of the day for one barber with a disabled
// flag. Without services only occupied start times are disabled; once the
// services are known a slot is disabled when the whole booking would not fit.
func (s *BookingService) Availability(ctx context.Context, date, barberID string, serviceNames []string) (slots []SlotAvailability, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Availability", "date", date, "barber_id", barberID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to compute availability", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	resolved, ok := s.resolveDate(date)
	if !ok {
		err = newValidationError("date", "date must be YYYY-MM-DD")
		return
	}
	barberID = strings.TrimSpace(barberID)
	if barberID == "" {
		err = newValidationError("barberId", "barber is required")
		return
	}

	duration := 0
	if len(serviceNames) > 0 {
		if _, duration, err = s.resolveServices(ctx, serviceNames); err != nil {
			return
		}
	}

	settings, times, err := s.hours.Slots(ctx)
	if err != nil {
		return
	}

	_, _, snapshot, err := s.daySnapshot(ctx, resolved)
	if err != nil {
		return
	}
	taken, err := snapshot.OccupiedStartTimes(barberID)
	if err != nil {
		err = mapOccupancyError(err)
		return
	}

	slots = make([]SlotAvailability, len(times))
	for i, slot := range times {
		disabled := taken.Contains(slot)
		if !disabled && duration > 0 {
			disabled = slot.Add(duration) > settings.Closing ||
				snapshot.CheckCandidate(barberID, slot, duration) != nil
		}
		slots[i] = SlotAvailability{Time: slot, Disabled: disabled}
	}
	return
}

func (s *BookingService) daySnapshot(ctx context.Context, date string) ([]Barber, []Appointment, *occupancy.Snapshot, error) {
	var barbers []Barber
	if s.barbers != nil {
		listed, err := s.barbers.ListBarbers(ctx)
		if err != nil {
			return nil, nil, nil, mapCatalogRepoError(err, "barber")
		}
		barbers = listed
	}
	sortByName(barbers, func(b Barber) (string, string) { return b.Name, b.ID })

	var appointments []Appointment
	if s.appointments != nil {
		listed, err := s.appointments.ListAppointments(ctx, AppointmentFilter{Date: date})
		if err != nil {
			return nil, nil, nil, mapAppointmentRepoError(err)
		}
		appointments = listed
	}
	sortAppointments(appointments)

	roster := make([]string, len(barbers))
	for i, barber := range barbers {
		roster[i] = barber.ID
	}
	entries := make([]occupancy.Appointment, len(appointments))
	for i, appointment := range appointments {
		entries[i] = appointment.toOccupancy()
	}
	snapshot, err := occupancy.NewSnapshot(roster, entries)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build occupancy snapshot for %s: %w", date, err)
	}
	return barbers, appointments, snapshot, nil
}

func (s *BookingService) resolveDate(value string) (string, bool) {
	return resolveDay(value, s.now())
}

// resolveServices matches names against the catalog case-insensitively and
// returns the canonical names with the summed duration.
func (s *BookingService) resolveServices(ctx context.Context, names []string) ([]string, int, error) {
	requested := trimNames(names)
	if len(requested) == 0 {
		return nil, 0, newValidationError("services", "at least one service is required")
	}

	var catalog []Service
	if s.services != nil {
		listed, err := s.services.ListServices(ctx)
		if err != nil {
			return nil, 0, mapCatalogRepoError(err, "services")
		}
		catalog = listed
	}
	byName := make(map[string]Service, len(catalog))
	for _, service := range catalog {
		byName[strings.ToLower(service.Name)] = service
	}

	var (
		resolved = make([]string, 0, len(requested))
		unknown  []string
		duration int
	)
	for _, name := range requested {
		service, ok := byName[strings.ToLower(name)]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		resolved = append(resolved, service.Name)
		duration += service.DurationMinutes
	}
	if len(unknown) > 0 {
		return nil, 0, newValidationError("services", "unknown services: "+strings.Join(unknown, ", "))
	}
	return resolved, duration, nil
}

func selectColumns(barbers []Barber, ids []string) ([]Barber, error) {
	if len(ids) == 0 {
		return barbers, nil
	}
	byID := make(map[string]Barber, len(barbers))
	for _, barber := range barbers {
		byID[barber.ID] = barber
	}

	columns := make([]Barber, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	var unknown []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		barber, ok := byID[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		columns = append(columns, barber)
	}
	if len(unknown) > 0 {
		return nil, newValidationError("barbers", "unknown barber ids: "+strings.Join(unknown, ", "))
	}
	return columns, nil
}

func sortAppointments(appointments []Appointment) {
	sort.SliceStable(appointments, func(i, j int) bool {
		if appointments[i].Date != appointments[j].Date {
			return appointments[i].Date < appointments[j].Date
		}
		return appointments[i].Start < appointments[j].Start
	})
}

func containsSlot(slots []occupancy.ClockTime, slot occupancy.ClockTime) bool {
	for _, candidate := range slots {
		if candidate == slot {
			return true
		}
	}
	return false
}

func mapOccupancyError(err error) error {
	if err == nil {
		return nil
	}
	var overlap *occupancy.OverlapError
	switch {
	case errors.As(err, &overlap):
		return fmt.Errorf("%w: %s already booked %s-%s", ErrSlotTaken,
			overlap.With.BarberID, overlap.With.Start, overlap.With.Start.Add(overlap.With.Duration))
	case errors.Is(err, occupancy.ErrUnknownBarber):
		return newValidationError("barberId", "barber does not exist")
	case errors.Is(err, occupancy.ErrInvalidDuration):
		return newValidationError("services", "services run past midnight")
	case errors.Is(err, occupancy.ErrMalformedTimeLabel):
		return newValidationError("start", "time must be HH:MM")
	}
	return err
}

func mapAppointmentRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return newValidationError("barberId", "barber does not exist")
	case errors.Is(err, persistence.ErrConstraintViolation):
		return newValidationError("start", "appointment does not fit in the day")
	}
	return err
}
