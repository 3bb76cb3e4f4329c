package persistence

import "time"

// Barber is a staff member who can be booked.
type Barber struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service is a priced catalog entry with a fixed duration.
type Service struct {
	ID              string
	Name            string
	DurationMinutes int
	PriceCents      int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
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

// Product is a retail item sold at the counter.
type Product struct {
	ID         string
	Name       string
	PriceCents int64
	Stock      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Appointment is a booking of one barber on one day. StartMinutes counts from
// midnight; ServiceNames keeps the order chosen at booking time.
type Appointment struct {
	ID              string
	Date            string // YYYY-MM-DD
	StartMinutes    int
	DurationMinutes int
	ClientName      string
	BarberID        string
	ServiceNames    []string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Payment is a recorded sale.
type Payment struct {
	ID           string
	ClientName   string
	ServiceNames []string
	AmountCents  int64
	Method       string
	PaidAt       time.Time
	CreatedAt    time.Time
}

// Debt is an open tab. PaymentID links it to the tab payment that opened it.
type Debt struct {
	ID          string
	PaymentID   *string
	ClientName  string
	Description string
	AmountCents int64
	IncurredAt  time.Time
	CreatedAt   time.Time
}

// Settings is the single shop configuration row.
type Settings struct {
	ShopName       string
	LogoDataURL    string
	PrimaryColor   string
	AccentColor    string
	OpeningMinutes int
	ClosingMinutes int
	StepMinutes    int
	UpdatedAt      time.Time
}
