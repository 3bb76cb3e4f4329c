package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/barbershop-manager/internal/occupancy"
)

// RecentAppointmentsLimit caps the recent bookings listed on the dashboard.
const RecentAppointmentsLimit = 5

// DashboardRepositories groups the stores the dashboard reads.
type DashboardRepositories struct {
	Appointments AppointmentRepository
	Barbers      BarberRepository
	Clients      ClientRepository
	Payments     PaymentRepository
}

// BarberActivity is one barber's load for the day.
type BarberActivity struct {
	Barber        Barber
	Appointments  int
	OccupiedSlots int
	CapacitySlots int
}

// DashboardSummary holds the day's key figures.
type DashboardSummary struct {
	Date             string
	RevenueCents     int64
	TabCents         int64
	AppointmentCount int
	NewClients       int
	// OccupancyPercent is occupied cells over slots times the barbers shown,
	// rounded to the nearest percent.
	OccupancyPercent int
	Barbers          []BarberActivity
	Recent           []Appointment
}

// DashboardService computes the overview shown on the landing page.
type DashboardService struct {
	repos  DashboardRepositories
	hours  OperatingHours
	now    func() time.Time
	logger *slog.Logger
}

// NewDashboardService constructs a dashboard service with the provided dependencies.
func NewDashboardService(repos DashboardRepositories, hours OperatingHours, now func() time.Time) *DashboardService {
	return NewDashboardServiceWithLogger(repos, hours, now, nil)
}

// NewDashboardServiceWithLogger constructs a dashboard service with a specified logger.
func NewDashboardServiceWithLogger(repos DashboardRepositories, hours OperatingHours, now func() time.Time, logger *slog.Logger) *DashboardService {
	if now == nil {
		now = time.Now
	}
	if hours == nil {
		hours = NewSettingsService(nil, nil, now)
	}
	return &DashboardService{repos: repos, hours: hours, now: now, logger: defaultLogger(logger)}
}

func (s *DashboardService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DashboardService", operation, attrs...)
}

// DashboardSummary reports revenue, bookings, new clients and per-barber
// occupancy for date, which defaults to today. Cancelled appointments are
// left out of every figure. Tab sales are reported apart from revenue until
// the debt is settled. Active barbers are always listed; others only when
// they have bookings that day.
func (s *DashboardService) DashboardSummary(ctx context.Context, date string) (summary DashboardSummary, err error) {
	if s == nil || s.repos.Appointments == nil || s.repos.Barbers == nil {
		err = fmt.Errorf("dashboard repositories not configured")
		return
	}

	logger := s.loggerWith(ctx, "DashboardSummary", "date", date)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to build dashboard", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("appointments", summary.AppointmentCount, "occupancy_percent", summary.OccupancyPercent).DebugContext(ctx, "dashboard built")
	}()

	day, ok := resolveDay(date, s.now())
	if !ok {
		err = newValidationError("date", "date must be YYYY-MM-DD")
		return
	}
	summary.Date = day

	_, slots, err := s.hours.Slots(ctx)
	if err != nil {
		return
	}

	barbers, err := s.repos.Barbers.ListBarbers(ctx)
	if err != nil {
		err = mapCatalogRepoError(err, "barber")
		return
	}
	sortByName(barbers, func(b Barber) (string, string) { return b.Name, b.ID })

	listed, err := s.repos.Appointments.ListAppointments(ctx, AppointmentFilter{Date: day})
	if err != nil {
		err = mapAppointmentRepoError(err)
		return
	}
	active := make([]Appointment, 0, len(listed))
	for _, appointment := range listed {
		if appointment.Status != AppointmentCancelled {
			active = append(active, appointment)
		}
	}
	summary.AppointmentCount = len(active)
	summary.Recent = recentAppointments(active, RecentAppointmentsLimit)

	if summary.Barbers, summary.OccupancyPercent, err = barberActivity(barbers, active, slots); err != nil {
		err = mapOccupancyError(err)
		return
	}

	location := s.now().Location()
	if s.repos.Payments != nil {
		payments, listErr := s.repos.Payments.ListPayments(ctx)
		if listErr != nil {
			err = mapPaymentRepoError(listErr)
			return
		}
		for _, payment := range payments {
			if payment.PaidAt.In(location).Format(dateLayout) != day {
				continue
			}
			if payment.Method == PaymentTab {
				summary.TabCents += payment.AmountCents
				continue
			}
			summary.RevenueCents += payment.AmountCents
		}
	}

	if s.repos.Clients != nil {
		clients, listErr := s.repos.Clients.ListClients(ctx)
		if listErr != nil {
			err = mapCatalogRepoError(listErr, "client")
			return
		}
		for _, client := range clients {
			if client.CreatedAt.In(location).Format(dateLayout) == day {
				summary.NewClients++
			}
		}
	}
	return
}

func barberActivity(barbers []Barber, appointments []Appointment, slots []occupancy.ClockTime) ([]BarberActivity, int, error) {
	ids := make([]string, len(barbers))
	booked := make(map[string]int, len(barbers))
	for i, barber := range barbers {
		ids[i] = barber.ID
	}
	for _, appointment := range appointments {
		booked[appointment.BarberID]++
	}

	entries := make([]occupancy.Appointment, len(appointments))
	for i, appointment := range appointments {
		entries[i] = appointment.toOccupancy()
	}
	snapshot, err := occupancy.NewSnapshot(ids, entries)
	if err != nil {
		return nil, 0, err
	}

	var activity []BarberActivity
	occupied := 0
	for _, barber := range barbers {
		if barber.Status != BarberActive && booked[barber.ID] == 0 {
			continue
		}
		entry := BarberActivity{Barber: barber, Appointments: booked[barber.ID], CapacitySlots: len(slots)}
		for _, slot := range slots {
			taken, err := snapshot.IsOccupied(barber.ID, slot)
			if err != nil {
				return nil, 0, err
			}
			if taken {
				entry.OccupiedSlots++
			}
		}
		occupied += entry.OccupiedSlots
		activity = append(activity, entry)
	}

	capacity := len(slots) * len(activity)
	if capacity == 0 {
		return activity, 0, nil
	}
	return activity, (occupied*100 + capacity/2) / capacity, nil
}

func recentAppointments(appointments []Appointment, limit int) []Appointment {
	recent := append([]Appointment(nil), appointments...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// resolveDay checks a YYYY-MM-DD label, defaulting to the day of now.
func resolveDay(value string, now time.Time) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.Format(dateLayout), true
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return "", false
	}
	return value, true
}
