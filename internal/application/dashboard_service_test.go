package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newDashboardFixture() *DashboardService {
	barbers := append(testBarbers(),
		Barber{ID: "b-julia", Name: "Júlia Martins", Status: BarberVacation},
		Barber{ID: "b-lucas", Name: "Lucas Pereira", Status: BarberInactive},
	)

	created := func(a Appointment, hoursAgo int) Appointment {
		a.CreatedAt = testNow.Add(-time.Duration(hoursAgo) * time.Hour)
		return a
	}
	cancelled := bookedAt("cancelled", "b-renato", "10:00", 30, "Barba")
	cancelled.Status = AppointmentCancelled
	yesterday := bookedAt("yesterday", "b-renato", "15:00", 30, "Barba")
	yesterday.Date = "2024-04-30"

	appointments := []Appointment{
		created(bookedAt("renato", "b-renato", "09:00", 45, "Corte Degradê"), 3),
		created(cancelled, 4),
		created(bookedAt("marcos", "b-marcos", "12:00", 75, "Barba e Cabelo"), 1),
		created(bookedAt("julia", "b-julia", "11:00", 60, "Hidratação"), 2),
		yesterday,
	}

	paidAt := func(day string, hour int) time.Time {
		parsed, _ := time.Parse(dateLayout, day)
		return parsed.Add(time.Duration(hour) * time.Hour)
	}
	payments := []Payment{
		{ID: "p1", AmountCents: 4500, Method: PaymentPix, PaidAt: paidAt("2024-05-01", 9)},
		{ID: "p2", AmountCents: 7500, Method: PaymentCard, PaidAt: paidAt("2024-05-01", 18)},
		{ID: "p3", AmountCents: 5000, Method: PaymentTab, PaidAt: paidAt("2024-05-01", 11)},
		{ID: "p4", AmountCents: 3500, Method: PaymentCash, PaidAt: paidAt("2024-04-30", 16)},
	}

	clients := []Client{
		{ID: "c1", Name: "Carlos Silva", CreatedAt: testNow},
		{ID: "c2", Name: "Mariana Costa", CreatedAt: testNow.Add(time.Hour)},
		{ID: "c3", Name: "João Pereira", CreatedAt: testNow.AddDate(0, 0, -11)},
	}

	return NewDashboardService(DashboardRepositories{
		Appointments: &appointmentRepoStub{appointments: appointments},
		Barbers:      &barberRepoStub{barbers: barbers},
		Clients:      &clientRepoStub{clients: clients},
		Payments:     &paymentRepoStub{payments: payments},
	}, nil, fixedClock(testNow))
}

func TestDashboardService_DashboardSummary(t *testing.T) {
	svc := newDashboardFixture()

	summary, err := svc.DashboardSummary(context.Background(), "")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if summary.Date != "2024-05-01" {
		t.Fatalf("expected the date to default to today, got %q", summary.Date)
	}
	if summary.AppointmentCount != 3 {
		t.Fatalf("expected cancelled and other days to be left out, got %d", summary.AppointmentCount)
	}
	if summary.RevenueCents != 12000 || summary.TabCents != 5000 {
		t.Fatalf("unexpected revenue %d / tab %d", summary.RevenueCents, summary.TabCents)
	}
	if summary.NewClients != 2 {
		t.Fatalf("expected 2 new clients, got %d", summary.NewClients)
	}

	// 2 + 3 + 2 occupied cells over 24 slots for three barbers.
	if summary.OccupancyPercent != 10 {
		t.Fatalf("expected 10%% occupancy, got %d", summary.OccupancyPercent)
	}

	want := []struct {
		id           string
		appointments int
		occupied     int
	}{
		{"b-julia", 1, 2},
		{"b-marcos", 1, 3},
		{"b-renato", 1, 2},
	}
	if len(summary.Barbers) != len(want) {
		t.Fatalf("expected active and booked barbers only, got %+v", summary.Barbers)
	}
	for i, w := range want {
		got := summary.Barbers[i]
		if got.Barber.ID != w.id || got.Appointments != w.appointments || got.OccupiedSlots != w.occupied || got.CapacitySlots != 24 {
			t.Fatalf("unexpected activity at %d: %+v", i, got)
		}
	}

	if len(summary.Recent) != 3 || summary.Recent[0].ID != "marcos" || summary.Recent[2].ID != "renato" {
		t.Fatalf("expected newest bookings first, got %+v", summary.Recent)
	}
}

func TestDashboardService_OtherDays(t *testing.T) {
	svc := newDashboardFixture()

	summary, err := svc.DashboardSummary(context.Background(), "2024-04-30")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if summary.AppointmentCount != 1 || summary.RevenueCents != 3500 || summary.NewClients != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	var vErr *ValidationError
	if _, err := svc.DashboardSummary(context.Background(), "30/04/2024"); !errors.As(err, &vErr) || vErr.FieldErrors["date"] == "" {
		t.Fatalf("expected date validation error, got %v", err)
	}
}

func TestDashboardService_EmptyShop(t *testing.T) {
	svc := NewDashboardService(DashboardRepositories{
		Appointments: &appointmentRepoStub{},
		Barbers:      &barberRepoStub{},
	}, nil, fixedClock(testNow))

	summary, err := svc.DashboardSummary(context.Background(), "2024-05-01")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if summary.OccupancyPercent != 0 || len(summary.Barbers) != 0 || summary.RevenueCents != 0 {
		t.Fatalf("expected an empty summary, got %+v", summary)
	}

	if _, err := (&DashboardService{}).DashboardSummary(context.Background(), ""); err == nil {
		t.Fatalf("expected an unconfigured service to fail")
	}
}

func TestRecentAppointmentsLimit(t *testing.T) {
	t.Parallel()

	var appointments []Appointment
	for i := 0; i < RecentAppointmentsLimit+2; i++ {
		appointments = append(appointments, Appointment{ID: string(rune('a' + i)), CreatedAt: testNow.Add(time.Duration(i) * time.Minute)})
	}

	recent := recentAppointments(appointments, RecentAppointmentsLimit)
	if len(recent) != RecentAppointmentsLimit || recent[0].ID != "g" {
		t.Fatalf("expected the %d newest bookings, got %+v", RecentAppointmentsLimit, recent)
	}
	if appointments[0].ID != "a" {
		t.Fatalf("expected the input order to be kept")
	}
}
