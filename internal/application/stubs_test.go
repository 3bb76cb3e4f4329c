package application

import (
	"context"
	"fmt"
	"time"

	"github.com/example/barbershop-manager/internal/persistence"
)

type barberRepoStub struct {
	barbers   []Barber
	createErr error
	deleteErr error
}

func (r *barberRepoStub) CreateBarber(ctx context.Context, barber Barber) (Barber, error) {
	if r.createErr != nil {
		return Barber{}, r.createErr
	}
	r.barbers = append(r.barbers, barber)
	return barber, nil
}

func (r *barberRepoStub) GetBarber(ctx context.Context, id string) (Barber, error) {
	for _, barber := range r.barbers {
		if barber.ID == id {
			return barber, nil
		}
	}
	return Barber{}, persistence.ErrNotFound
}

func (r *barberRepoStub) UpdateBarber(ctx context.Context, barber Barber) (Barber, error) {
	for i := range r.barbers {
		if r.barbers[i].ID == barber.ID {
			r.barbers[i] = barber
			return barber, nil
		}
	}
	return Barber{}, persistence.ErrNotFound
}

func (r *barberRepoStub) DeleteBarber(ctx context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i := range r.barbers {
		if r.barbers[i].ID == id {
			r.barbers = append(r.barbers[:i], r.barbers[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (r *barberRepoStub) ListBarbers(ctx context.Context) ([]Barber, error) {
	return append([]Barber(nil), r.barbers...), nil
}

type serviceRepoStub struct {
	services  []Service
	createErr error
}

func (r *serviceRepoStub) CreateService(ctx context.Context, service Service) (Service, error) {
	if r.createErr != nil {
		return Service{}, r.createErr
	}
	r.services = append(r.services, service)
	return service, nil
}

func (r *serviceRepoStub) GetService(ctx context.Context, id string) (Service, error) {
	for _, service := range r.services {
		if service.ID == id {
			return service, nil
		}
	}
	return Service{}, persistence.ErrNotFound
}

func (r *serviceRepoStub) UpdateService(ctx context.Context, service Service) (Service, error) {
	for i := range r.services {
		if r.services[i].ID == service.ID {
			r.services[i] = service
			return service, nil
		}
	}
	return Service{}, persistence.ErrNotFound
}

func (r *serviceRepoStub) DeleteService(ctx context.Context, id string) error {
	for i := range r.services {
		if r.services[i].ID == id {
			r.services = append(r.services[:i], r.services[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (r *serviceRepoStub) ListServices(ctx context.Context) ([]Service, error) {
	return append([]Service(nil), r.services...), nil
}

type clientRepoStub struct {
	clients []Client
}

func (r *clientRepoStub) CreateClient(ctx context.Context, client Client) (Client, error) {
	r.clients = append(r.clients, client)
	return client, nil
}

func (r *clientRepoStub) GetClient(ctx context.Context, id string) (Client, error) {
	for _, client := range r.clients {
		if client.ID == id {
			return client, nil
		}
	}
	return Client{}, persistence.ErrNotFound
}

func (r *clientRepoStub) UpdateClient(ctx context.Context, client Client) (Client, error) {
	for i := range r.clients {
		if r.clients[i].ID == client.ID {
			r.clients[i] = client
			return client, nil
		}
	}
	return Client{}, persistence.ErrNotFound
}

func (r *clientRepoStub) DeleteClient(ctx context.Context, id string) error {
	for i := range r.clients {
		if r.clients[i].ID == id {
			r.clients = append(r.clients[:i], r.clients[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (r *clientRepoStub) ListClients(ctx context.Context) ([]Client, error) {
	return append([]Client(nil), r.clients...), nil
}

type productRepoStub struct {
	products []Product
}

func (r *productRepoStub) CreateProduct(ctx context.Context, product Product) (Product, error) {
	r.products = append(r.products, product)
	return product, nil
}

func (r *productRepoStub) GetProduct(ctx context.Context, id string) (Product, error) {
	for _, product := range r.products {
		if product.ID == id {
			return product, nil
		}
	}
	return Product{}, persistence.ErrNotFound
}

func (r *productRepoStub) UpdateProduct(ctx context.Context, product Product) (Product, error) {
	for i := range r.products {
		if r.products[i].ID == product.ID {
			r.products[i] = product
			return product, nil
		}
	}
	return Product{}, persistence.ErrNotFound
}

func (r *productRepoStub) DeleteProduct(ctx context.Context, id string) error {
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (r *productRepoStub) ListProducts(ctx context.Context) ([]Product, error) {
	return append([]Product(nil), r.products...), nil
}

type appointmentRepoStub struct {
	appointments []Appointment
	listErr      error
}

func (r *appointmentRepoStub) CreateAppointment(ctx context.Context, appointment Appointment) (Appointment, error) {
	r.appointments = append(r.appointments, appointment)
	return appointment, nil
}

func (r *appointmentRepoStub) GetAppointment(ctx context.Context, id string) (Appointment, error) {
	for _, appointment := range r.appointments {
		if appointment.ID == id {
			return appointment, nil
		}
	}
	return Appointment{}, persistence.ErrNotFound
}

func (r *appointmentRepoStub) UpdateAppointment(ctx context.Context, appointment Appointment) (Appointment, error) {
	for i := range r.appointments {
		if r.appointments[i].ID == appointment.ID {
			r.appointments[i] = appointment
			return appointment, nil
		}
	}
	return Appointment{}, persistence.ErrNotFound
}

func (r *appointmentRepoStub) DeleteAppointment(ctx context.Context, id string) error {
	for i := range r.appointments {
		if r.appointments[i].ID == id {
			r.appointments = append(r.appointments[:i], r.appointments[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (r *appointmentRepoStub) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []Appointment
	for _, appointment := range r.appointments {
		if filter.Date != "" && appointment.Date != filter.Date {
			continue
		}
		if filter.BarberID != "" && appointment.BarberID != filter.BarberID {
			continue
		}
		out = append(out, appointment)
	}
	return out, nil
}

type debtRepoStub struct {
	debts []Debt
}

func (r *debtRepoStub) CreateDebt(ctx context.Context, debt Debt) (Debt, error) {
	r.debts = append(r.debts, debt)
	return debt, nil
}

func (r *debtRepoStub) GetDebt(ctx context.Context, id string) (Debt, error) {
	for _, debt := range r.debts {
		if debt.ID == id {
			return debt, nil
		}
	}
	return Debt{}, persistence.ErrNotFound
}

func (r *debtRepoStub) DeleteDebt(ctx context.Context, id string) error {
	for i := range r.debts {
		if r.debts[i].ID == id {
			r.debts = append(r.debts[:i], r.debts[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (r *debtRepoStub) ListDebts(ctx context.Context) ([]Debt, error) {
	return append([]Debt(nil), r.debts...), nil
}

type paymentRepoStub struct {
	payments  []Payment
	debts     *debtRepoStub
	createErr error
}

func (r *paymentRepoStub) CreatePayment(ctx context.Context, payment Payment, debt *Debt) (Payment, error) {
	if r.createErr != nil {
		return Payment{}, r.createErr
	}
	r.payments = append(r.payments, payment)
	if debt != nil && r.debts != nil {
		r.debts.debts = append(r.debts.debts, *debt)
	}
	return payment, nil
}

func (r *paymentRepoStub) ListPayments(ctx context.Context) ([]Payment, error) {
	return append([]Payment(nil), r.payments...), nil
}

type settingsRepoStub struct {
	settings *Settings
	saveErr  error
}

func (r *settingsRepoStub) GetSettings(ctx context.Context) (Settings, error) {
	if r.settings == nil {
		return Settings{}, persistence.ErrNotFound
	}
	return *r.settings, nil
}

func (r *settingsRepoStub) SaveSettings(ctx context.Context, settings Settings) (Settings, error) {
	if r.saveErr != nil {
		return Settings{}, r.saveErr
	}
	r.settings = &settings
	return settings, nil
}

func sequenceIDs(prefix string) func() string {
	next := 0
	return func() string {
		next++
		return fmt.Sprintf("%s-%d", prefix, next)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testNow = time.Date(2024, time.May, 1, 7, 30, 0, 0, time.UTC)

func testBarbers() []Barber {
	return []Barber{
		{ID: "b-renato", Name: "Renato Garcia", Status: BarberActive},
		{ID: "b-marcos", Name: "Marcos Andrade", Status: BarberActive},
	}
}

func testServices() []Service {
	return []Service{
		{ID: "s-degrade", Name: "Corte Degradê", DurationMinutes: 45, PriceCents: 4500},
		{ID: "s-barba", Name: "Barba", DurationMinutes: 30, PriceCents: 3000},
		{ID: "s-simples", Name: "Corte Simples", DurationMinutes: 30, PriceCents: 3500},
		{ID: "s-combo", Name: "Corte e Barba", DurationMinutes: 60, PriceCents: 7500},
	}
}
