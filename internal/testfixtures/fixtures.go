package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/barbershop-manager/internal/application"
	"github.com/example/barbershop-manager/internal/occupancy"
	"github.com/example/barbershop-manager/internal/persistence"
)

var (
	barberCounter      uint64
	serviceCounter     uint64
	appointmentCounter uint64
)

// referenceTime is a Saturday morning before opening.
var referenceTime = time.Date(2024, time.July, 20, 7, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate is ReferenceTime's calendar day as stored on appointments.
func ReferenceDate() string {
	return referenceTime.Format("2006-01-02")
}

// ----------------------------- Barber fixtures -----------------------------

// BarberFixture is a deterministic barber record.
type BarberFixture struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Status    application.BarberStatus
	CreatedAt time.Time
}

// BarberOption configures the generated barber fixture.
type BarberOption func(*BarberFixture)

// NewBarberFixture returns an active barber with generated identity fields.
func NewBarberFixture(opts ...BarberOption) BarberFixture {
	idx := atomic.AddUint64(&barberCounter, 1)
	id := fmt.Sprintf("barber-%03d", idx)
	fixture := BarberFixture{
		ID:        id,
		Name:      fmt.Sprintf("Barbeiro %03d", idx),
		Email:     id + "@example.com",
		Phone:     "(11) 90000-0000",
		Status:    application.BarberActive,
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBarberID overrides the generated barber ID.
func WithBarberID(id string) BarberOption {
	return func(f *BarberFixture) {
		f.ID = id
	}
}

// WithBarberName overrides the generated name.
func WithBarberName(name string) BarberOption {
	return func(f *BarberFixture) {
		f.Name = name
	}
}

// WithBarberStatus overrides the availability status.
func WithBarberStatus(status application.BarberStatus) BarberOption {
	return func(f *BarberFixture) {
		f.Status = status
	}
}

// Application returns the fixture as an application.Barber value.
func (f BarberFixture) Application() application.Barber {
	return application.Barber{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		Status:    f.Status,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.CreatedAt,
	}
}

// Persistence returns the fixture as a persistence.Barber value.
func (f BarberFixture) Persistence() persistence.Barber {
	return persistence.Barber{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		Status:    string(f.Status),
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.CreatedAt,
	}
}

// ----------------------------- Service fixtures ----------------------------

// ServiceFixture is a deterministic catalog service.
type ServiceFixture struct {
	ID              string
	Name            string
	DurationMinutes int
	PriceCents      int64
	CreatedAt       time.Time
}

// ServiceOption configures the generated service fixture.
type ServiceOption func(*ServiceFixture)

// NewServiceFixture returns a 30 minute service priced at R$ 35,00.
func NewServiceFixture(opts ...ServiceOption) ServiceFixture {
	idx := atomic.AddUint64(&serviceCounter, 1)
	fixture := ServiceFixture{
		ID:              fmt.Sprintf("service-%03d", idx),
		Name:            fmt.Sprintf("Serviço %03d", idx),
		DurationMinutes: 30,
		PriceCents:      3500,
		CreatedAt:       referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithServiceName overrides the generated name.
func WithServiceName(name string) ServiceOption {
	return func(f *ServiceFixture) {
		f.Name = name
	}
}

// WithServiceDuration overrides the duration in minutes.
func WithServiceDuration(minutes int) ServiceOption {
	return func(f *ServiceFixture) {
		f.DurationMinutes = minutes
	}
}

// WithServicePrice overrides the price in cents.
func WithServicePrice(cents int64) ServiceOption {
	return func(f *ServiceFixture) {
		f.PriceCents = cents
	}
}

// Application returns the fixture as an application.Service value.
func (f ServiceFixture) Application() application.Service {
	return application.Service{
		ID:              f.ID,
		Name:            f.Name,
		DurationMinutes: f.DurationMinutes,
		PriceCents:      f.PriceCents,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.CreatedAt,
	}
}

// Persistence returns the fixture as a persistence.Service value.
func (f ServiceFixture) Persistence() persistence.Service {
	return persistence.Service{
		ID:              f.ID,
		Name:            f.Name,
		DurationMinutes: f.DurationMinutes,
		PriceCents:      f.PriceCents,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.CreatedAt,
	}
}

// -------------------------- Appointment fixtures ---------------------------

// AppointmentFixture is a deterministic booking on ReferenceDate.
type AppointmentFixture struct {
	ID              string
	Date            string
	Start           occupancy.ClockTime
	DurationMinutes int
	ClientName      string
	BarberID        string
	ServiceNames    []string
	Status          application.AppointmentStatus
	CreatedAt       time.Time
}

// AppointmentOption configures the generated appointment fixture.
type AppointmentOption func(*AppointmentFixture)

// NewAppointmentFixture returns a confirmed 09:00 booking of 30 minutes for
// barberID.
func NewAppointmentFixture(barberID string, opts ...AppointmentOption) AppointmentFixture {
	idx := atomic.AddUint64(&appointmentCounter, 1)
	fixture := AppointmentFixture{
		ID:              fmt.Sprintf("appointment-%03d", idx),
		Date:            ReferenceDate(),
		Start:           occupancy.MustParseClockTime("09:00"),
		DurationMinutes: 30,
		ClientName:      fmt.Sprintf("Cliente %03d", idx),
		BarberID:        barberID,
		ServiceNames:    []string{"Corte Simples"},
		Status:          application.AppointmentConfirmed,
		CreatedAt:       referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAppointmentStart sets the start label, e.g. "10:30".
func WithAppointmentStart(label string) AppointmentOption {
	return func(f *AppointmentFixture) {
		f.Start = occupancy.MustParseClockTime(label)
	}
}

// WithAppointmentDuration overrides the duration in minutes.
func WithAppointmentDuration(minutes int) AppointmentOption {
	return func(f *AppointmentFixture) {
		f.DurationMinutes = minutes
	}
}

// WithAppointmentServices overrides the booked service names.
func WithAppointmentServices(names ...string) AppointmentOption {
	return func(f *AppointmentFixture) {
		f.ServiceNames = append([]string(nil), names...)
	}
}

// WithAppointmentStatus overrides the status.
func WithAppointmentStatus(status application.AppointmentStatus) AppointmentOption {
	return func(f *AppointmentFixture) {
		f.Status = status
	}
}

// WithAppointmentDate moves the booking to another day.
func WithAppointmentDate(date string) AppointmentOption {
	return func(f *AppointmentFixture) {
		f.Date = date
	}
}

// Application returns the fixture as an application.Appointment value.
func (f AppointmentFixture) Application() application.Appointment {
	return application.Appointment{
		ID:              f.ID,
		Date:            f.Date,
		Start:           f.Start,
		DurationMinutes: f.DurationMinutes,
		ClientName:      f.ClientName,
		BarberID:        f.BarberID,
		ServiceNames:    append([]string(nil), f.ServiceNames...),
		Status:          f.Status,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.CreatedAt,
	}
}

// Persistence returns the fixture as a persistence.Appointment value.
func (f AppointmentFixture) Persistence() persistence.Appointment {
	return persistence.Appointment{
		ID:              f.ID,
		Date:            f.Date,
		StartMinutes:    f.Start.Minutes(),
		DurationMinutes: f.DurationMinutes,
		ClientName:      f.ClientName,
		BarberID:        f.BarberID,
		ServiceNames:    append([]string(nil), f.ServiceNames...),
		Status:          string(f.Status),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.CreatedAt,
	}
}

// Occupancy returns the fixture as the engine's appointment view.
func (f AppointmentFixture) Occupancy() occupancy.Appointment {
	return occupancy.Appointment{
		ID:       f.ID,
		BarberID: f.BarberID,
		Start:    f.Start,
		Duration: f.DurationMinutes,
	}
}
