// Package seed loads the demo roster a fresh shop starts with.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/barbershop-manager/internal/application"
)

// Catalog is the subset of the catalog service the seeder writes through.
type Catalog interface {
	ListBarbers(ctx context.Context) ([]application.Barber, error)
	CreateBarber(ctx context.Context, input application.BarberInput) (application.Barber, error)
	CreateService(ctx context.Context, input application.ServiceInput) (application.Service, error)
	CreateClient(ctx context.Context, input application.ClientInput) (application.Client, error)
	CreateProduct(ctx context.Context, input application.ProductInput) (application.Product, error)
}

// Bookings is the subset of the booking service the seeder writes through.
type Bookings interface {
	CreateAppointment(ctx context.Context, input application.CreateAppointmentInput) (application.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status application.AppointmentStatus) (application.Appointment, error)
}

// Payments is the subset of the payment service the seeder writes through.
type Payments interface {
	RecordPayment(ctx context.Context, input application.RecordPaymentInput) (application.Payment, error)
	OpenDebt(ctx context.Context, input application.OpenDebtInput) (application.Debt, error)
}

// Services bundles the writers used by Load.
type Services struct {
	Catalog  Catalog
	Bookings Bookings
	Payments Payments
}

// Result counts what Load created.
type Result struct {
	Skipped      bool
	Barbers      int
	Services     int
	Clients      int
	Products     int
	Appointments int
	Payments     int
	Debts        int
}

var barbers = []application.BarberInput{
	{Name: "Renato Garcia", Email: "renato@example.com", Phone: "(11) 98765-4321", Status: application.BarberActive},
	{Name: "Marcos Andrade", Email: "marcos@example.com", Phone: "(21) 91234-5678", Status: application.BarberActive},
	{Name: "Júlia Martins", Email: "julia@example.com", Phone: "(31) 95555-8888", Status: application.BarberVacation},
	{Name: "Lucas Pereira", Email: "lucas@example.com", Phone: "(41) 99999-1111", Status: application.BarberInactive},
}

var services = []application.ServiceInput{
	{Name: "Corte Degradê", DurationMinutes: 45, PriceCents: 4500},
	{Name: "Corte Simples", DurationMinutes: 30, PriceCents: 3500},
	{Name: "Barba Terapia", DurationMinutes: 40, PriceCents: 4000},
	{Name: "Barba e Cabelo", DurationMinutes: 75, PriceCents: 7500},
	{Name: "Penteado", DurationMinutes: 50, PriceCents: 5000},
	{Name: "Hidratação", DurationMinutes: 60, PriceCents: 6000},
}

var clients = []application.ClientInput{
	{Name: "Carlos Silva", Email: strPtr("carlos.silva@email.com"), Phone: "(11) 98765-4321"},
	{Name: "Mariana Costa", Email: strPtr("mariana.costa@email.com"), Phone: "(21) 91234-5678"},
	{Name: "João Pereira", Email: strPtr("joao.pereira@email.com"), Phone: "(31) 95555-8888"},
	{Name: "Ana Beatriz", Email: strPtr("ana.beatriz@email.com"), Phone: "(41) 99999-1111"},
}

var products = []application.ProductInput{
	{Name: "Pomada Modeladora", PriceCents: 3000, Stock: 15},
	{Name: "Gel Fixador", PriceCents: 2000, Stock: 22},
	{Name: "Cerveja Artesanal", PriceCents: 1500, Stock: 5},
	{Name: "Refrigerante", PriceCents: 500, Stock: 50},
	{Name: "Shampoo para Barba", PriceCents: 4000, Stock: 0},
}

type appointmentSeed struct {
	start   string
	client  string
	service string
	barber  string
	status  application.AppointmentStatus
}

var appointments = []appointmentSeed{
	{"09:00", "João Silva", "Corte Degradê", "Renato Garcia", application.AppointmentConfirmed},
	{"10:00", "Mariana Costa", "Barba Terapia", "Marcos Andrade", application.AppointmentConfirmed},
	{"10:30", "Pedro Almeida", "Corte Simples", "Renato Garcia", application.AppointmentCompleted},
	{"11:00", "Ana Beatriz", "Penteado", "Júlia Martins", application.AppointmentConfirmed},
	{"12:00", "Lucas Oliveira", "Barba e Cabelo", "Marcos Andrade", application.AppointmentAwaiting},
	{"14:00", "Fernanda Lima", "Hidratação", "Júlia Martins", application.AppointmentConfirmed},
	{"15:00", "Ricardo Souza", "Corte Degradê", "Renato Garcia", application.AppointmentCancelled},
}

type paymentSeed struct {
	client  string
	service string
	amount  int64
	method  application.PaymentMethod
	daysAgo int
}

var payments = []paymentSeed{
	{"Carlos Silva", "Corte Degradê", 4500, application.PaymentPix, 0},
	{"Mariana Costa", "Barba e Cabelo", 7500, application.PaymentCard, 0},
	{"João Pereira", "Corte Simples", 3500, application.PaymentCash, 1},
	{"Ana Beatriz", "Penteado", 5000, application.PaymentTab, 1},
	{"Pedro Almeida", "Barba", 3000, application.PaymentPix, 2},
}

var debts = []application.OpenDebtInput{
	{ClientName: "Ricardo Gomes", Description: "Corte e Barba", AmountCents: 7500},
	{ClientName: "Felipe Melo", Description: "Corte Degradê", AmountCents: 4500},
}

var debtAges = []int{3, 5}

// Load writes the demo roster for the day of now. It does nothing when any
// barber already exists so restarts against a file database are harmless.
func Load(ctx context.Context, svc Services, now time.Time, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "seed")

	existing, err := svc.Catalog.ListBarbers(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("seed: list barbers: %w", err)
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "demo data skipped", "existing_barbers", len(existing))
		return Result{Skipped: true}, nil
	}

	var result Result
	barberIDs := make(map[string]string, len(barbers))
	for _, input := range barbers {
		barber, err := svc.Catalog.CreateBarber(ctx, input)
		if err != nil {
			return result, fmt.Errorf("seed: barber %q: %w", input.Name, err)
		}
		barberIDs[barber.Name] = barber.ID
		result.Barbers++
	}
	for _, input := range services {
		if _, err := svc.Catalog.CreateService(ctx, input); err != nil {
			return result, fmt.Errorf("seed: service %q: %w", input.Name, err)
		}
		result.Services++
	}
	for _, input := range clients {
		if _, err := svc.Catalog.CreateClient(ctx, input); err != nil {
			return result, fmt.Errorf("seed: client %q: %w", input.Name, err)
		}
		result.Clients++
	}
	for _, input := range products {
		if _, err := svc.Catalog.CreateProduct(ctx, input); err != nil {
			return result, fmt.Errorf("seed: product %q: %w", input.Name, err)
		}
		result.Products++
	}

	today := now.Format("2006-01-02")
	for _, seed := range appointments {
		appointment, err := svc.Bookings.CreateAppointment(ctx, application.CreateAppointmentInput{
			ClientName:   seed.client,
			BarberID:     barberIDs[seed.barber],
			ServiceNames: []string{seed.service},
			Date:         today,
			Start:        seed.start,
		})
		if err != nil {
			return result, fmt.Errorf("seed: appointment %s %s: %w", seed.barber, seed.start, err)
		}
		if seed.status != application.AppointmentConfirmed {
			if _, err := svc.Bookings.UpdateAppointmentStatus(ctx, appointment.ID, seed.status); err != nil {
				return result, fmt.Errorf("seed: appointment status %s: %w", appointment.ID, err)
			}
		}
		result.Appointments++
	}

	for _, seed := range payments {
		paidAt := now.AddDate(0, 0, -seed.daysAgo)
		if _, err := svc.Payments.RecordPayment(ctx, application.RecordPaymentInput{
			ClientName:   seed.client,
			ServiceNames: []string{seed.service},
			AmountCents:  seed.amount,
			Method:       seed.method,
			PaidAt:       &paidAt,
		}); err != nil {
			return result, fmt.Errorf("seed: payment %q: %w", seed.client, err)
		}
		result.Payments++
		if seed.method == application.PaymentTab {
			result.Debts++
		}
	}

	for i, input := range debts {
		incurred := now.AddDate(0, 0, -debtAges[i])
		input.IncurredAt = &incurred
		if _, err := svc.Payments.OpenDebt(ctx, input); err != nil {
			return result, fmt.Errorf("seed: debt %q: %w", input.ClientName, err)
		}
		result.Debts++
	}

	logger.InfoContext(ctx, "demo data loaded",
		"barbers", result.Barbers,
		"services", result.Services,
		"appointments", result.Appointments,
		"payments", result.Payments,
		"debts", result.Debts,
	)
	return result, nil
}

func strPtr(value string) *string {
	return &value
}
