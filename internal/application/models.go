package application

import (
	"time"

	"github.com/example/barbershop-manager/internal/occupancy"
)

// BarberStatus describes whether a barber takes bookings.
type BarberStatus string

const (
	BarberActive   BarberStatus = "active"
	BarberVacation BarberStatus = "vacation"
	BarberInactive BarberStatus = "inactive"
)

func (s BarberStatus) valid() bool {
	switch s {
	case BarberActive, BarberVacation, BarberInactive:
		return true
	}
	return false
}

// Barber is a bookable staff member.
type Barber struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Status    BarberStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BarberInput carries the editable barber fields.
type BarberInput struct {
	Name   string
	Email  string
	Phone  string
	Status BarberStatus
}

// Service is a catalog entry a client can book.
type Service struct {
	ID              string
	Name            string
	DurationMinutes int
	PriceCents      int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ServiceInput carries the editable service fields.
type ServiceInput struct {
	Name            string
	DurationMinutes int
	PriceCents      int64
}

// Client is a customer record.
type Client struct {
	ID        string
	Name      string
	Email     *string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClientInput carries the editable client fields.
type ClientInput struct {
	Name  string
	Email *string
	Phone string
}

// StockStatus is derived from a product's stock count.
type StockStatus string

const (
	InStock    StockStatus = "in_stock"
	LowStock   StockStatus = "low_stock"
	OutOfStock StockStatus = "out_of_stock"
)

// LowStockThreshold is the highest count still reported as low stock.
const LowStockThreshold = 5

// Product is a retail item.
type Product struct {
	ID         string
	Name       string
	PriceCents int64
	Stock      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StockStatus classifies the current stock level.
func (p Product) StockStatus() StockStatus {
	switch {
	case p.Stock <= 0:
		return OutOfStock
	case p.Stock <= LowStockThreshold:
		return LowStock
	default:
		return InStock
	}
}

// ProductInput carries the editable product fields.
type ProductInput struct {
	Name       string
	PriceCents int64
	Stock      int
}

// AppointmentStatus tracks an appointment through the day.
type AppointmentStatus string

const (
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentAwaiting  AppointmentStatus = "awaiting"
)

func (s AppointmentStatus) valid() bool {
	switch s {
	case AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled, AppointmentAwaiting:
		return true
	}
	return false
}

// Appointment is a booking of one barber on one day.
type Appointment struct {
	ID              string
	Date            string
	Start           occupancy.ClockTime
	DurationMinutes int
	ClientName      string
	BarberID        string
	ServiceNames    []string
	Status          AppointmentStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// End returns the time the appointment finishes.
func (a Appointment) End() occupancy.ClockTime {
	return a.Start.Add(a.DurationMinutes)
}

func (a Appointment) toOccupancy() occupancy.Appointment {
	return occupancy.Appointment{
		ID:       a.ID,
		BarberID: a.BarberID,
		Start:    a.Start,
		Duration: a.DurationMinutes,
	}
}

// CreateAppointmentInput is the booking form payload. Date defaults to today
// and Start is an "HH:MM" label.
type CreateAppointmentInput struct {
	ClientName   string
	BarberID     string
	ServiceNames []string
	Date         string
	Start        string
}

// AppointmentFilter narrows appointment listings. Empty fields match everything.
type AppointmentFilter struct {
	Date     string
	BarberID string
}

// DayGrid is the per-barber schedule for one date.
type DayGrid struct {
	Date    string
	Step    int
	Barbers []Barber
	Rows    []DayGridRow
}

// DayGridRow is one slot of the day grid.
type DayGridRow struct {
	Time  occupancy.ClockTime
	Cells []DayGridCell
}

// DayGridCell is one (barber, slot) position. Appointment is set on start and
// continuation cells; RowSpan only on start cells.
type DayGridCell struct {
	BarberID    string
	Kind        occupancy.CellKind
	RowSpan     int
	Appointment *Appointment
}

// SlotAvailability reports whether a slot can be offered in the booking form.
type SlotAvailability struct {
	Time     occupancy.ClockTime
	Disabled bool
}

// PaymentMethod is how a sale was settled.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentPix  PaymentMethod = "pix"
	// PaymentTab is a sale on credit ("fiado"); it opens a debt.
	PaymentTab PaymentMethod = "tab"
)

func (m PaymentMethod) valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentPix, PaymentTab:
		return true
	}
	return false
}

// Payment is a recorded sale.
type Payment struct {
	ID           string
	ClientName   string
	ServiceNames []string
	AmountCents  int64
	Method       PaymentMethod
	PaidAt       time.Time
	CreatedAt    time.Time
}

// RecordPaymentInput is the payment form payload. PaidAt defaults to now.
type RecordPaymentInput struct {
	ClientName   string
	ServiceNames []string
	AmountCents  int64
	Method       PaymentMethod
	PaidAt       *time.Time
}

// Debt is an open tab.
type Debt struct {
	ID          string
	PaymentID   *string
	ClientName  string
	Description string
	AmountCents int64
	IncurredAt  time.Time
	CreatedAt   time.Time
}

// DraftSource names what a payment draft was created from.
type DraftSource string

const (
	DraftFromAppointment DraftSource = "appointment"
	DraftFromProduct     DraftSource = "product"
)

// PaymentDraft pre-fills the payment form after a checkout.
type PaymentDraft struct {
	ClientName   string
	ServiceNames []string
	AmountCents  int64
	Source       DraftSource
	SourceID     string
	CreatedAt    time.Time
}

// Settings is the shop configuration.
type Settings struct {
	ShopName     string
	LogoDataURL  string
	PrimaryColor string
	AccentColor  string
	Opening      occupancy.ClockTime
	Closing      occupancy.ClockTime
	StepMinutes  int
	UpdatedAt    time.Time
}

// SettingsInput carries the editable settings. Opening and Closing are "HH:MM" labels.
type SettingsInput struct {
	ShopName     string
	LogoDataURL  string
	PrimaryColor string
	AccentColor  string
	Opening      string
	Closing      string
	StepMinutes  int
}

// Prediction is the analytics panel output.
type Prediction struct {
	PeakHours         string
	PopularServices   string
	SuggestedSchedule string
}
