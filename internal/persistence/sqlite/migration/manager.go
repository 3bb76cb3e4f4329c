package migration

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
)

// Manager runs the pending migrations of a file system against a database.
type Manager struct {
	scanner  *Scanner
	executor *Executor
	logger   *slog.Logger
}

// NewManager wires a scanner over dir in fsys to an executor on db.
func NewManager(db *sql.DB, fsys fs.FS, dir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		scanner:  NewScanner(fsys, dir),
		executor: NewExecutor(db),
		logger:   logger.With("component", "migration"),
	}
}

// Pending returns the migrations that have not been applied yet. It fails when
// an applied file changed since it ran.
func (m *Manager) Pending(ctx context.Context) ([]Migration, error) {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return nil, err
	}

	available, err := m.scanner.Scan()
	if err != nil {
		return nil, err
	}

	applied, err := m.executor.Applied(ctx)
	if err != nil {
		return nil, err
	}
	checksums := make(map[string]string, len(applied))
	for _, record := range applied {
		checksums[record.Version] = record.Checksum
	}

	var pending []Migration
	for _, migration := range available {
		checksum, ok := checksums[migration.Version]
		if !ok {
			pending = append(pending, migration)
			continue
		}
		if checksum != "" && checksum != migration.Checksum {
			return nil, NewMigrationError(migration.Version, migration.FilePath, "verify checksum", ErrChecksumMismatch)
		}
	}
	return pending, nil
}

// Run applies every pending migration in version order and returns how many ran.
func (m *Manager) Run(ctx context.Context) (int, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "scan migrations failed", "error", err)
		return 0, fmt.Errorf("collect pending migrations: %w", err)
	}

	for _, migration := range pending {
		if err := m.executor.Apply(ctx, migration); err != nil {
			m.logger.ErrorContext(ctx, "migration failed",
				"version", migration.Version,
				"file", migration.FilePath,
				"error", err,
			)
			return 0, err
		}
		m.logger.InfoContext(ctx, "migration applied",
			"version", migration.Version,
			"description", migration.Description,
		)
	}

	return len(pending), nil
}
