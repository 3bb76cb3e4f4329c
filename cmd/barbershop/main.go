package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/barbershop-manager/internal/analytics"
	"github.com/example/barbershop-manager/internal/application"
	"github.com/example/barbershop-manager/internal/config"
	httptransport "github.com/example/barbershop-manager/internal/http"
	"github.com/example/barbershop-manager/internal/persistence/sqlite"
	"github.com/example/barbershop-manager/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stdout, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("barbershop API listening", "addr", server.Addr, "analytics_enabled", cfg.AnalyticsEnabled())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type app struct {
	handler http.Handler
	closers []func() error
	logger  *slog.Logger
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("failed to release resource", "error", err)
		}
	}
	a.closers = nil
}

func buildApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{logger: logger}

	storage, err := sqlite.Open(cfg.SQLiteDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.closers = append(a.closers, storage.Close)

	if err := storage.Migrate(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	idGenerator := uuid.NewString
	now := time.Now

	barberRepo := newBarberRepositoryAdapter(storage)
	serviceRepo := newServiceRepositoryAdapter(storage)
	clientRepo := newClientRepositoryAdapter(storage)
	productRepo := newProductRepositoryAdapter(storage)
	appointmentRepo := newAppointmentRepositoryAdapter(storage)
	paymentRepo := newPaymentRepositoryAdapter(storage)
	debtRepo := newDebtRepositoryAdapter(storage)
	settingsRepo := newSettingsRepositoryAdapter(storage)

	settingsService := application.NewSettingsServiceWithLogger(settingsRepo, appointmentRepo, now, logger)
	catalogService := application.NewCatalogServiceWithLogger(application.CatalogRepositories{
		Barbers:  barberRepo,
		Services: serviceRepo,
		Clients:  clientRepo,
		Products: productRepo,
	}, idGenerator, now, logger)
	bookingService := application.NewBookingServiceWithLogger(appointmentRepo, barberRepo, serviceRepo, settingsService, idGenerator, now, logger)
	paymentService := application.NewPaymentServiceWithLogger(application.PaymentRepositories{
		Payments:     paymentRepo,
		Debts:        debtRepo,
		Appointments: appointmentRepo,
		Services:     serviceRepo,
		Products:     productRepo,
	}, cfg.DraftTTL, idGenerator, now, logger)

	var predictor application.SchedulingPredictor
	if cfg.AnalyticsEnabled() {
		generator, err := analytics.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		a.closers = append(a.closers, generator.Close)
		predictor = predictorAdapter{predictor: analytics.NewPredictor(generator, cfg.AnalyticsRatePerMinute, logger)}
	}
	analyticsService := application.NewAnalyticsServiceWithLogger(predictor, appointmentRepo, barberRepo, logger)
	dashboardService := application.NewDashboardServiceWithLogger(application.DashboardRepositories{
		Appointments: appointmentRepo,
		Barbers:      barberRepo,
		Clients:      clientRepo,
		Payments:     paymentRepo,
	}, settingsService, now, logger)

	if cfg.SeedDemoData {
		if _, err := seed.Load(ctx, seed.Services{
			Catalog:  catalogService,
			Bookings: bookingService,
			Payments: paymentService,
		}, now(), logger); err != nil {
			a.Close()
			return nil, err
		}
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Bookings:  httptransport.NewBookingHandler(bookingService, logger),
		Catalog:   httptransport.NewCatalogHandler(catalogService, logger),
		Payments:  httptransport.NewPaymentHandler(paymentService, logger),
		Settings:  httptransport.NewSettingsHandler(settingsService, logger),
		Analytics: httptransport.NewAnalyticsHandler(analyticsService, logger),
		Dashboard: httptransport.NewDashboardHandler(dashboardService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.SessionIdentity(logger),
		},
	})
	a.handler = router
	return a, nil
}
