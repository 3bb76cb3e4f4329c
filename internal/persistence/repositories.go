package persistence

import "context"

// BarberRepository exposes CRUD operations for barbers.
type BarberRepository interface {
	CreateBarber(ctx context.Context, barber Barber) error
	UpdateBarber(ctx context.Context, barber Barber) error
	GetBarber(ctx context.Context, id string) (Barber, error)
	ListBarbers(ctx context.Context) ([]Barber, error)
	DeleteBarber(ctx context.Context, id string) error
}

// ServiceRepository exposes CRUD operations for catalog services.
type ServiceRepository interface {
	CreateService(ctx context.Context, service Service) error
	UpdateService(ctx context.Context, service Service) error
	GetService(ctx context.Context, id string) (Service, error)
	ListServices(ctx context.Context) ([]Service, error)
	DeleteService(ctx context.Context, id string) error
}

// ClientRepository exposes CRUD operations for clients.
type ClientRepository interface {
	CreateClient(ctx context.Context, client Client) error
	UpdateClient(ctx context.Context, client Client) error
	GetClient(ctx context.Context, id string) (Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	DeleteClient(ctx context.Context, id string) error
}

// ProductRepository exposes CRUD operations for products.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product Product) error
	UpdateProduct(ctx context.Context, product Product) error
	GetProduct(ctx context.Context, id string) (Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// AppointmentFilter narrows appointment queries. Empty fields match everything.
type AppointmentFilter struct {
	Date     string
	BarberID string
}

// AppointmentRepository stores appointments and their service lists.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appointment Appointment) error
	UpdateAppointment(ctx context.Context, appointment Appointment) error
	GetAppointment(ctx context.Context, id string) (Appointment, error)
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
}

// PaymentRepository stores payments. A non-nil debt is written in the same
// transaction as the payment.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment Payment, debt *Debt) error
	ListPayments(ctx context.Context) ([]Payment, error)
}

// DebtRepository stores open tabs.
type DebtRepository interface {
	CreateDebt(ctx context.Context, debt Debt) error
	GetDebt(ctx context.Context, id string) (Debt, error)
	ListDebts(ctx context.Context) ([]Debt, error)
	DeleteDebt(ctx context.Context, id string) error
}

// SettingsRepository loads and saves the shop settings row.
type SettingsRepository interface {
	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error
}
