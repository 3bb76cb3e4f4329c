package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/barbershop-manager/internal/application"
)

// ServiceFactory builds application services wired to a deterministic clock
// and identifier sequence.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithLogger sets the logger handed to every service.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// NewSettingsService builds a settings service. A nil repository serves the
// defaults; nil appointments skip the check of hour changes against bookings.
func (f *ServiceFactory) NewSettingsService(repo application.SettingsRepository, appointments application.AppointmentLister) *application.SettingsService {
	return application.NewSettingsServiceWithLogger(repo, appointments, f.Clock.NowFunc(), f.Logger)
}

// NewCatalogService builds a catalog service over repos.
func (f *ServiceFactory) NewCatalogService(repos application.CatalogRepositories) *application.CatalogService {
	return application.NewCatalogServiceWithLogger(repos, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), f.Logger)
}

// BookingServiceDeps captures dependencies for constructing a booking service.
type BookingServiceDeps struct {
	Appointments application.AppointmentRepository
	Barbers      application.BarberRepository
	Services     application.ServiceRepository
	Hours        application.OperatingHours
}

// NewBookingService builds a booking service. Hours default to the shop
// defaults.
func (f *ServiceFactory) NewBookingService(deps BookingServiceDeps) *application.BookingService {
	return application.NewBookingServiceWithLogger(
		deps.Appointments,
		deps.Barbers,
		deps.Services,
		deps.Hours,
		f.IDGenerator.NextFunc(),
		f.Clock.NowFunc(),
		f.Logger,
	)
}

// NewPaymentService builds a payment service with the given draft lifetime.
func (f *ServiceFactory) NewPaymentService(repos application.PaymentRepositories, draftTTL time.Duration) *application.PaymentService {
	return application.NewPaymentServiceWithLogger(repos, draftTTL, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), f.Logger)
}
