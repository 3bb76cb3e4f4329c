package main

import (
	"context"

	"github.com/example/barbershop-manager/internal/analytics"
	"github.com/example/barbershop-manager/internal/application"
	"github.com/example/barbershop-manager/internal/occupancy"
	"github.com/example/barbershop-manager/internal/persistence"
)

type barberRepositoryAdapter struct {
	repo persistence.BarberRepository
}

func newBarberRepositoryAdapter(repo persistence.BarberRepository) *barberRepositoryAdapter {
	return &barberRepositoryAdapter{repo: repo}
}

func (a *barberRepositoryAdapter) CreateBarber(ctx context.Context, barber application.Barber) (application.Barber, error) {
	if err := a.repo.CreateBarber(ctx, toPersistenceBarber(barber)); err != nil {
		return application.Barber{}, err
	}
	return a.GetBarber(ctx, barber.ID)
}

func (a *barberRepositoryAdapter) GetBarber(ctx context.Context, id string) (application.Barber, error) {
	stored, err := a.repo.GetBarber(ctx, id)
	if err != nil {
		return application.Barber{}, err
	}
	return toApplicationBarber(stored), nil
}

func (a *barberRepositoryAdapter) UpdateBarber(ctx context.Context, barber application.Barber) (application.Barber, error) {
	if err := a.repo.UpdateBarber(ctx, toPersistenceBarber(barber)); err != nil {
		return application.Barber{}, err
	}
	return a.GetBarber(ctx, barber.ID)
}

func (a *barberRepositoryAdapter) DeleteBarber(ctx context.Context, id string) error {
	return a.repo.DeleteBarber(ctx, id)
}

func (a *barberRepositoryAdapter) ListBarbers(ctx context.Context) ([]application.Barber, error) {
	models, err := a.repo.ListBarbers(ctx)
	if err != nil {
		return nil, err
	}
	return convertAll(models, toApplicationBarber), nil
}

type serviceRepositoryAdapter struct {
	repo persistence.ServiceRepository
}

func newServiceRepositoryAdapter(repo persistence.ServiceRepository) *serviceRepositoryAdapter {
	return &serviceRepositoryAdapter{repo: repo}
}

func (a *serviceRepositoryAdapter) CreateService(ctx context.Context, service application.Service) (application.Service, error) {
	if err := a.repo.CreateService(ctx, toPersistenceService(service)); err != nil {
		return application.Service{}, err
	}
	return a.GetService(ctx, service.ID)
}

func (a *serviceRepositoryAdapter) GetService(ctx context.Context, id string) (application.Service, error) {
	stored, err := a.repo.GetService(ctx, id)
	if err != nil {
		return application.Service{}, err
	}
	return toApplicationService(stored), nil
}

func (a *serviceRepositoryAdapter) UpdateService(ctx context.Context, service application.Service) (application.Service, error) {
	if err := a.repo.UpdateService(ctx, toPersistenceService(service)); err != nil {
		return application.Service{}, err
	}
	return a.GetService(ctx, service.ID)
}

func (a *serviceRepositoryAdapter) DeleteService(ctx context.Context, id string) error {
	return a.repo.DeleteService(ctx, id)
}

func (a *serviceRepositoryAdapter) ListServices(ctx context.Context) ([]application.Service, error) {
	models, err := a.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	return convertAll(models, toApplicationService), nil
}

type clientRepositoryAdapter struct {
	repo persistence.ClientRepository
}

func newClientRepositoryAdapter(repo persistence.ClientRepository) *clientRepositoryAdapter {
	return &clientRepositoryAdapter{repo: repo}
}

func (a *clientRepositoryAdapter) CreateClient(ctx context.Context, client application.Client) (application.Client, error) {
	if err := a.repo.CreateClient(ctx, toPersistenceClient(client)); err != nil {
		return application.Client{}, err
	}
	return a.GetClient(ctx, client.ID)
}

func (a *clientRepositoryAdapter) GetClient(ctx context.Context, id string) (application.Client, error) {
	stored, err := a.repo.GetClient(ctx, id)
	if err != nil {
		return application.Client{}, err
	}
	return toApplicationClient(stored), nil
}

func (a *clientRepositoryAdapter) UpdateClient(ctx context.Context, client application.Client) (application.Client, error) {
	if err := a.repo.UpdateClient(ctx, toPersistenceClient(client)); err != nil {
		return application.Client{}, err
	}
	return a.GetClient(ctx, client.ID)
}

func (a *clientRepositoryAdapter) DeleteClient(ctx context.Context, id string) error {
	return a.repo.DeleteClient(ctx, id)
}

func (a *clientRepositoryAdapter) ListClients(ctx context.Context) ([]application.Client, error) {
	models, err := a.repo.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	return convertAll(models, toApplicationClient), nil
}

type productRepositoryAdapter struct {
	repo persistence.ProductRepository
}

func newProductRepositoryAdapter(repo persistence.ProductRepository) *productRepositoryAdapter {
	return &productRepositoryAdapter{repo: repo}
}

func (a *productRepositoryAdapter) CreateProduct(ctx context.Context, product application.Product) (application.Product, error) {
	if err := a.repo.CreateProduct(ctx, toPersistenceProduct(product)); err != nil {
		return application.Product{}, err
	}
	return a.GetProduct(ctx, product.ID)
}

func (a *productRepositoryAdapter) GetProduct(ctx context.Context, id string) (application.Product, error) {
	stored, err := a.repo.GetProduct(ctx, id)
	if err != nil {
		return application.Product{}, err
	}
	return toApplicationProduct(stored), nil
}

func (a *productRepositoryAdapter) UpdateProduct(ctx context.Context, product application.Product) (application.Product, error) {
	if err := a.repo.UpdateProduct(ctx, toPersistenceProduct(product)); err != nil {
		return application.Product{}, err
	}
	return a.GetProduct(ctx, product.ID)
}

func (a *productRepositoryAdapter) DeleteProduct(ctx context.Context, id string) error {
	return a.repo.DeleteProduct(ctx, id)
}

func (a *productRepositoryAdapter) ListProducts(ctx context.Context) ([]application.Product, error) {
	models, err := a.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return convertAll(models, toApplicationProduct), nil
}

type appointmentRepositoryAdapter struct {
	repo persistence.AppointmentRepository
}

func newAppointmentRepositoryAdapter(repo persistence.AppointmentRepository) *appointmentRepositoryAdapter {
	return &appointmentRepositoryAdapter{repo: repo}
}

func (a *appointmentRepositoryAdapter) CreateAppointment(ctx context.Context, appointment application.Appointment) (application.Appointment, error) {
	if err := a.repo.CreateAppointment(ctx, toPersistenceAppointment(appointment)); err != nil {
		return application.Appointment{}, err
	}
	return a.GetAppointment(ctx, appointment.ID)
}

func (a *appointmentRepositoryAdapter) GetAppointment(ctx context.Context, id string) (application.Appointment, error) {
	stored, err := a.repo.GetAppointment(ctx, id)
	if err != nil {
		return application.Appointment{}, err
	}
	return toApplicationAppointment(stored), nil
}

func (a *appointmentRepositoryAdapter) UpdateAppointment(ctx context.Context, appointment application.Appointment) (application.Appointment, error) {
	if err := a.repo.UpdateAppointment(ctx, toPersistenceAppointment(appointment)); err != nil {
		return application.Appointment{}, err
	}
	return a.GetAppointment(ctx, appointment.ID)
}

func (a *appointmentRepositoryAdapter) DeleteAppointment(ctx context.Context, id string) error {
	return a.repo.DeleteAppointment(ctx, id)
}

func (a *appointmentRepositoryAdapter) ListAppointments(ctx context.Context, filter application.AppointmentFilter) ([]application.Appointment, error) {
	models, err := a.repo.ListAppointments(ctx, persistence.AppointmentFilter{Date: filter.Date, BarberID: filter.BarberID})
	if err != nil {
		return nil, err
	}
	return convertAll(models, toApplicationAppointment), nil
}

type paymentRepositoryAdapter struct {
	repo persistence.PaymentRepository
}

func newPaymentRepositoryAdapter(repo persistence.PaymentRepository) *paymentRepositoryAdapter {
	return &paymentRepositoryAdapter{repo: repo}
}

func (a *paymentRepositoryAdapter) CreatePayment(ctx context.Context, payment application.Payment, debt *application.Debt) (application.Payment, error) {
	var stored *persistence.Debt
	if debt != nil {
		model := toPersistenceDebt(*debt)
		stored = &model
	}
	if err := a.repo.CreatePayment(ctx, toPersistencePayment(payment), stored); err != nil {
		return application.Payment{}, err
	}
	return payment, nil
}

func (a *paymentRepositoryAdapter) ListPayments(ctx context.Context) ([]application.Payment, error) {
	models, err := a.repo.ListPayments(ctx)
	if err != nil {
		return nil, err
	}
	return convertAll(models, toApplicationPayment), nil
}

type debtRepositoryAdapter struct {
	repo persistence.DebtRepository
}

func newDebtRepositoryAdapter(repo persistence.DebtRepository) *debtRepositoryAdapter {
	return &debtRepositoryAdapter{repo: repo}
}

func (a *debtRepositoryAdapter) CreateDebt(ctx context.Context, debt application.Debt) (application.Debt, error) {
	if err := a.repo.CreateDebt(ctx, toPersistenceDebt(debt)); err != nil {
		return application.Debt{}, err
	}
	return a.GetDebt(ctx, debt.ID)
}

func (a *debtRepositoryAdapter) GetDebt(ctx context.Context, id string) (application.Debt, error) {
	stored, err := a.repo.GetDebt(ctx, id)
	if err != nil {
		return application.Debt{}, err
	}
	return toApplicationDebt(stored), nil
}

func (a *debtRepositoryAdapter) DeleteDebt(ctx context.Context, id string) error {
	return a.repo.DeleteDebt(ctx, id)
}

func (a *debtRepositoryAdapter) ListDebts(ctx context.Context) ([]application.Debt, error) {
	models, err := a.repo.ListDebts(ctx)
	if err != nil {
		return nil, err
	}
	return convertAll(models, toApplicationDebt), nil
}

type settingsRepositoryAdapter struct {
	repo persistence.SettingsRepository
}

func newSettingsRepositoryAdapter(repo persistence.SettingsRepository) *settingsRepositoryAdapter {
	return &settingsRepositoryAdapter{repo: repo}
}

func (a *settingsRepositoryAdapter) GetSettings(ctx context.Context) (application.Settings, error) {
	stored, err := a.repo.GetSettings(ctx)
	if err != nil {
		return application.Settings{}, err
	}
	return toApplicationSettings(stored), nil
}

func (a *settingsRepositoryAdapter) SaveSettings(ctx context.Context, settings application.Settings) (application.Settings, error) {
	if err := a.repo.SaveSettings(ctx, toPersistenceSettings(settings)); err != nil {
		return application.Settings{}, err
	}
	return a.GetSettings(ctx)
}

// predictorAdapter exposes the analytics predictor as the application's
// SchedulingPredictor.
type predictorAdapter struct {
	predictor *analytics.Predictor
}

func (a predictorAdapter) PredictScheduling(ctx context.Context, data string) (application.Prediction, error) {
	prediction, err := a.predictor.Predict(ctx, data)
	if err != nil {
		return application.Prediction{}, err
	}
	return application.Prediction{
		PeakHours:         prediction.PeakHours,
		PopularServices:   prediction.PopularServices,
		SuggestedSchedule: prediction.SuggestedSchedule,
	}, nil
}

func convertAll[From, To any](models []From, convert func(From) To) []To {
	if len(models) == 0 {
		return nil
	}
	out := make([]To, 0, len(models))
	for _, model := range models {
		out = append(out, convert(model))
	}
	return out
}

func toApplicationBarber(model persistence.Barber) application.Barber {
	return application.Barber{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Phone:     model.Phone,
		Status:    application.BarberStatus(model.Status),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceBarber(barber application.Barber) persistence.Barber {
	return persistence.Barber{
		ID:        barber.ID,
		Name:      barber.Name,
		Email:     barber.Email,
		Phone:     barber.Phone,
		Status:    string(barber.Status),
		CreatedAt: barber.CreatedAt,
		UpdatedAt: barber.UpdatedAt,
	}
}

func toApplicationService(model persistence.Service) application.Service {
	return application.Service{
		ID:              model.ID,
		Name:            model.Name,
		DurationMinutes: model.DurationMinutes,
		PriceCents:      model.PriceCents,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toPersistenceService(service application.Service) persistence.Service {
	return persistence.Service{
		ID:              service.ID,
		Name:            service.Name,
		DurationMinutes: service.DurationMinutes,
		PriceCents:      service.PriceCents,
		CreatedAt:       service.CreatedAt,
		UpdatedAt:       service.UpdatedAt,
	}
}

func toApplicationClient(model persistence.Client) application.Client {
	return application.Client{
		ID:        model.ID,
		Name:      model.Name,
		Email:     copyString(model.Email),
		Phone:     model.Phone,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceClient(client application.Client) persistence.Client {
	return persistence.Client{
		ID:        client.ID,
		Name:      client.Name,
		Email:     copyString(client.Email),
		Phone:     client.Phone,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

func toApplicationProduct(model persistence.Product) application.Product {
	return application.Product{
		ID:         model.ID,
		Name:       model.Name,
		PriceCents: model.PriceCents,
		Stock:      model.Stock,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toPersistenceProduct(product application.Product) persistence.Product {
	return persistence.Product{
		ID:         product.ID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
		Stock:      product.Stock,
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
}

func toApplicationAppointment(model persistence.Appointment) application.Appointment {
	return application.Appointment{
		ID:              model.ID,
		Date:            model.Date,
		Start:           occupancy.ClockTime(model.StartMinutes),
		DurationMinutes: model.DurationMinutes,
		ClientName:      model.ClientName,
		BarberID:        model.BarberID,
		ServiceNames:    append([]string(nil), model.ServiceNames...),
		Status:          application.AppointmentStatus(model.Status),
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toPersistenceAppointment(appointment application.Appointment) persistence.Appointment {
	return persistence.Appointment{
		ID:              appointment.ID,
		Date:            appointment.Date,
		StartMinutes:    appointment.Start.Minutes(),
		DurationMinutes: appointment.DurationMinutes,
		ClientName:      appointment.ClientName,
		BarberID:        appointment.BarberID,
		ServiceNames:    append([]string(nil), appointment.ServiceNames...),
		Status:          string(appointment.Status),
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}
}

func toApplicationPayment(model persistence.Payment) application.Payment {
	return application.Payment{
		ID:           model.ID,
		ClientName:   model.ClientName,
		ServiceNames: append([]string(nil), model.ServiceNames...),
		AmountCents:  model.AmountCents,
		Method:       application.PaymentMethod(model.Method),
		PaidAt:       model.PaidAt,
		CreatedAt:    model.CreatedAt,
	}
}

func toPersistencePayment(payment application.Payment) persistence.Payment {
	return persistence.Payment{
		ID:           payment.ID,
		ClientName:   payment.ClientName,
		ServiceNames: append([]string(nil), payment.ServiceNames...),
		AmountCents:  payment.AmountCents,
		Method:       string(payment.Method),
		PaidAt:       payment.PaidAt,
		CreatedAt:    payment.CreatedAt,
	}
}

func toApplicationDebt(model persistence.Debt) application.Debt {
	return application.Debt{
		ID:          model.ID,
		PaymentID:   copyString(model.PaymentID),
		ClientName:  model.ClientName,
		Description: model.Description,
		AmountCents: model.AmountCents,
		IncurredAt:  model.IncurredAt,
		CreatedAt:   model.CreatedAt,
	}
}

func toPersistenceDebt(debt application.Debt) persistence.Debt {
	return persistence.Debt{
		ID:          debt.ID,
		PaymentID:   copyString(debt.PaymentID),
		ClientName:  debt.ClientName,
		Description: debt.Description,
		AmountCents: debt.AmountCents,
		IncurredAt:  debt.IncurredAt,
		CreatedAt:   debt.CreatedAt,
	}
}

func toApplicationSettings(model persistence.Settings) application.Settings {
	return application.Settings{
		ShopName:     model.ShopName,
		LogoDataURL:  model.LogoDataURL,
		PrimaryColor: model.PrimaryColor,
		AccentColor:  model.AccentColor,
		Opening:      occupancy.ClockTime(model.OpeningMinutes),
		Closing:      occupancy.ClockTime(model.ClosingMinutes),
		StepMinutes:  model.StepMinutes,
		UpdatedAt:    model.UpdatedAt,
	}
}

func toPersistenceSettings(settings application.Settings) persistence.Settings {
	return persistence.Settings{
		ShopName:       settings.ShopName,
		LogoDataURL:    settings.LogoDataURL,
		PrimaryColor:   settings.PrimaryColor,
		AccentColor:    settings.AccentColor,
		OpeningMinutes: settings.Opening.Minutes(),
		ClosingMinutes: settings.Closing.Minutes(),
		StepMinutes:    settings.StepMinutes,
		UpdatedAt:      settings.UpdatedAt,
	}
}

func copyString(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
