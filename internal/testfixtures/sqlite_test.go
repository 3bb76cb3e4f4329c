package testfixtures

import (
	"context"
	"testing"

	"github.com/example/barbershop-manager/internal/occupancy"
	"github.com/example/barbershop-manager/internal/persistence"
)

func TestSQLiteHarnessStoresFixtures(t *testing.T) {
	h := NewMemoryHarness(t)
	ctx := context.Background()

	barber := NewBarberFixture(WithBarberName("Renato Garcia"))
	service := NewServiceFixture(WithServiceName("Corte Degradê"), WithServiceDuration(45), WithServicePrice(4500))
	appt := NewAppointmentFixture(barber.ID,
		WithAppointmentStart("10:30"),
		WithAppointmentDuration(45),
		WithAppointmentServices("Corte Degradê"),
	)

	h.InsertBarbers(t, barber)
	h.InsertServices(t, service)
	h.InsertAppointments(t, appt)

	stored, err := h.Storage.ListAppointments(ctx, persistence.AppointmentFilter{Date: ReferenceDate(), BarberID: barber.ID})
	if err != nil {
		t.Fatalf("ListAppointments failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(stored))
	}
	if got := occupancy.ClockTime(stored[0].StartMinutes).String(); got != "10:30" {
		t.Fatalf("expected start 10:30, got %s", got)
	}
	if len(stored[0].ServiceNames) != 1 || stored[0].ServiceNames[0] != "Corte Degradê" {
		t.Fatalf("unexpected service names %v", stored[0].ServiceNames)
	}
}

func TestSQLiteHarnessFileDatabase(t *testing.T) {
	h := NewSQLiteHarness(t)
	h.InsertBarbers(t, NewBarberFixture())

	barbers, err := h.Storage.ListBarbers(context.Background())
	if err != nil {
		t.Fatalf("ListBarbers failed: %v", err)
	}
	if len(barbers) != 1 {
		t.Fatalf("expected 1 barber, got %d", len(barbers))
	}

	h.Close()
	h.Close()
}

func TestAppointmentFixtureViews(t *testing.T) {
	f := NewAppointmentFixture("barber-x", WithAppointmentStart("09:30"), WithAppointmentDuration(60))

	if end := f.Application().End(); end.String() != "10:30" {
		t.Fatalf("expected end 10:30, got %s", end)
	}
	if occ := f.Occupancy(); occ.BarberID != "barber-x" || occ.Duration != 60 {
		t.Fatalf("unexpected occupancy view %+v", occ)
	}
}
