package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/barbershop-manager/internal/persistence/sqlite"
)

// SQLiteHarness provides a migrated SQLite storage for integration-style tests.
type SQLiteHarness struct {
	Storage *sqlite.Storage

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens a migrated database in a temporary file. The harness
// registers its own cleanup with tb; calling Close early is allowed.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()
	return newHarness(tb, filepath.Join(tb.TempDir(), "barbershop.db"))
}

// NewMemoryHarness opens a migrated in-memory database.
func NewMemoryHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()
	return newHarness(tb, ":memory:")
}

func newHarness(tb testing.TB, dsn string) *SQLiteHarness {
	tb.Helper()

	storage, err := sqlite.Open(dsn, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage: storage,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// InsertBarbers stores the fixtures, failing the test on error.
func (h *SQLiteHarness) InsertBarbers(tb testing.TB, fixtures ...BarberFixture) {
	tb.Helper()
	for _, f := range fixtures {
		if err := h.Storage.CreateBarber(context.Background(), f.Persistence()); err != nil {
			tb.Fatalf("insert barber %s: %v", f.ID, err)
		}
	}
}

// InsertServices stores the fixtures, failing the test on error.
func (h *SQLiteHarness) InsertServices(tb testing.TB, fixtures ...ServiceFixture) {
	tb.Helper()
	for _, f := range fixtures {
		if err := h.Storage.CreateService(context.Background(), f.Persistence()); err != nil {
			tb.Fatalf("insert service %s: %v", f.ID, err)
		}
	}
}

// InsertAppointments stores the fixtures, failing the test on error.
func (h *SQLiteHarness) InsertAppointments(tb testing.TB, fixtures ...AppointmentFixture) {
	tb.Helper()
	for _, f := range fixtures {
		if err := h.Storage.CreateAppointment(context.Background(), f.Persistence()); err != nil {
			tb.Fatalf("insert appointment %s: %v", f.ID, err)
		}
	}
}
