package sqlite

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/example/barbershop-manager/internal/persistence"
	"github.com/example/barbershop-manager/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var (
	_ persistence.BarberRepository      = (*Storage)(nil)
	_ persistence.ServiceRepository     = (*Storage)(nil)
	_ persistence.ClientRepository      = (*Storage)(nil)
	_ persistence.ProductRepository     = (*Storage)(nil)
	_ persistence.AppointmentRepository = (*Storage)(nil)
	_ persistence.PaymentRepository     = (*Storage)(nil)
	_ persistence.DebtRepository        = (*Storage)(nil)
	_ persistence.SettingsRepository    = (*Storage)(nil)
)

// Storage bundles every SQLite repository behind one connection pool.
type Storage struct {
	*BarberRepository
	*ServiceRepository
	*ClientRepository
	*ProductRepository
	*AppointmentRepository
	*PaymentRepository
	*DebtRepository
	*SettingsRepository

	pool   *ConnectionPool
	logger *slog.Logger
}

// Open connects to the database named by dsn. ":memory:" keeps all data in
// process memory for the lifetime of the Storage.
func Open(dsn string, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := NewConnectionPool(migration.DefaultSQLiteConfig(dsn))
	if err != nil {
		return nil, err
	}

	return &Storage{
		BarberRepository:      NewBarberRepository(pool),
		ServiceRepository:     NewServiceRepository(pool),
		ClientRepository:      NewClientRepository(pool),
		ProductRepository:     NewProductRepository(pool),
		AppointmentRepository: NewAppointmentRepository(pool),
		PaymentRepository:     NewPaymentRepository(pool),
		DebtRepository:        NewDebtRepository(pool),
		SettingsRepository:    NewSettingsRepository(pool),
		pool:                  pool,
		logger:                logger,
	}, nil
}

// Migrate applies the embedded schema migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	applied, err := migration.NewManager(s.pool.DB(), migrationFiles, "migrations", s.logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	s.logger.InfoContext(ctx, "schema up to date", "applied", applied)
	return nil
}

// Ping checks that the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}
