package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/barbershop-manager/internal/config"
)

func newTestApp(t *testing.T, seedDemo bool) *app {
	t.Helper()

	cfg := config.Config{
		SQLiteDSN:    ":memory:",
		SeedDemoData: seedDemo,
		DraftTTL:     time.Hour,
	}
	a, err := buildApp(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("buildApp failed: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func call(t *testing.T, h http.Handler, method, target string, body any, session string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

type barberList struct {
	Barbers []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	} `json:"barbers"`
}

type appointmentList struct {
	Appointments []struct {
		ID       string `json:"id"`
		Date     string `json:"date"`
		Start    string `json:"start"`
		BarberID string `json:"barberId"`
	} `json:"appointments"`
}

func TestBuildAppSeedsDemoData(t *testing.T) {
	h := newTestApp(t, true).handler

	var barbers barberList
	decode(t, call(t, h, http.MethodGet, "/barbers", nil, ""), &barbers)
	if len(barbers.Barbers) != 4 {
		t.Fatalf("expected 4 barbers, got %d", len(barbers.Barbers))
	}

	var appts appointmentList
	decode(t, call(t, h, http.MethodGet, "/appointments", nil, ""), &appts)
	if len(appts.Appointments) != 7 {
		t.Fatalf("expected 7 appointments, got %d", len(appts.Appointments))
	}

	var debts struct {
		Debts      []json.RawMessage `json:"debts"`
		TotalCents int64             `json:"totalCents"`
	}
	decode(t, call(t, h, http.MethodGet, "/debts", nil, ""), &debts)
	if len(debts.Debts) != 3 || debts.TotalCents != 17000 {
		t.Fatalf("expected 3 debts totalling 17000, got %d / %d", len(debts.Debts), debts.TotalCents)
	}
}

func TestBookingAndCheckoutFlow(t *testing.T) {
	h := newTestApp(t, true).handler

	var barbers barberList
	decode(t, call(t, h, http.MethodGet, "/barbers", nil, ""), &barbers)
	var renatoID string
	for _, b := range barbers.Barbers {
		if b.Name == "Renato Garcia" {
			renatoID = b.ID
		}
	}
	if renatoID == "" {
		t.Fatal("seeded barber Renato Garcia not found")
	}

	var appts appointmentList
	decode(t, call(t, h, http.MethodGet, "/appointments?barber_id="+renatoID, nil, ""), &appts)
	if len(appts.Appointments) == 0 {
		t.Fatal("expected seeded appointments for Renato")
	}
	date := appts.Appointments[0].Date

	clash := call(t, h, http.MethodPost, "/appointments", map[string]any{
		"clientName": "Carlos Silva",
		"barberId":   renatoID,
		"services":   []string{"Corte Simples"},
		"date":       date,
		"start":      "09:30",
	}, "")
	if clash.Code != http.StatusConflict {
		t.Fatalf("expected 409 for 09:30 inside the 09:00 booking, got %d: %s", clash.Code, clash.Body.String())
	}

	created := call(t, h, http.MethodPost, "/appointments", map[string]any{
		"clientName": "Carlos Silva",
		"barberId":   renatoID,
		"services":   []string{"corte simples"},
		"date":       date,
		"start":      "11:00",
	}, "")
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", created.Code, created.Body.String())
	}
	var booking struct {
		Appointment struct {
			ID       string   `json:"id"`
			End      string   `json:"end"`
			Services []string `json:"services"`
		} `json:"appointment"`
	}
	decode(t, created, &booking)
	if booking.Appointment.End != "11:30" || booking.Appointment.Services[0] != "Corte Simples" {
		t.Fatalf("unexpected booking %+v", booking.Appointment)
	}

	var availability struct {
		Slots []struct {
			Time     string `json:"time"`
			Disabled bool   `json:"disabled"`
		} `json:"slots"`
	}
	decode(t, call(t, h, http.MethodGet, "/schedule/availability?date="+date+"&barber_id="+renatoID, nil, ""), &availability)
	disabled := map[string]bool{}
	for _, slot := range availability.Slots {
		disabled[slot.Time] = slot.Disabled
	}
	if !disabled["09:00"] || !disabled["11:00"] || disabled["11:30"] {
		t.Fatalf("unexpected availability %+v", disabled)
	}

	const session = "caixa-1"
	checkout := call(t, h, http.MethodPost, "/appointments/"+booking.Appointment.ID+"/checkout", nil, session)
	if checkout.Code != http.StatusCreated {
		t.Fatalf("expected 201 from checkout, got %d: %s", checkout.Code, checkout.Body.String())
	}
	var draft struct {
		Draft struct {
			AmountCents int64  `json:"amountCents"`
			Amount      string `json:"amount"`
		} `json:"draft"`
	}
	decode(t, call(t, h, http.MethodGet, "/payments/draft", nil, session), &draft)
	if draft.Draft.AmountCents != 3500 || draft.Draft.Amount != "R$ 35,00" {
		t.Fatalf("unexpected draft %+v", draft.Draft)
	}
	if rec := call(t, h, http.MethodGet, "/payments/draft", nil, "another-session"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected drafts to be per session, got %d", rec.Code)
	}

	paid := call(t, h, http.MethodPost, "/payments", map[string]any{
		"clientName":  "Carlos Silva",
		"services":    []string{"Corte Simples"},
		"amountCents": 3500,
		"method":      "pix",
	}, session)
	if paid.Code != http.StatusCreated {
		t.Fatalf("expected 201 from payment, got %d: %s", paid.Code, paid.Body.String())
	}
	if rec := call(t, h, http.MethodGet, "/payments/draft", nil, session); rec.Code != http.StatusNotFound {
		t.Fatalf("expected draft cleared after payment, got %d", rec.Code)
	}
}

func TestBuildAppWithoutSeedOrAnalytics(t *testing.T) {
	h := newTestApp(t, false).handler

	var barbers barberList
	decode(t, call(t, h, http.MethodGet, "/barbers", nil, ""), &barbers)
	if len(barbers.Barbers) != 0 {
		t.Fatalf("expected empty roster, got %d", len(barbers.Barbers))
	}

	rec := call(t, h, http.MethodPost, "/analytics/predictions", map[string]string{"historicalBookingData": "[]"}, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a Gemini key, got %d", rec.Code)
	}

	if rec := call(t, h, http.MethodGet, "/healthz", nil, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}
}

func TestSettingsPersistAcrossRequests(t *testing.T) {
	h := newTestApp(t, false).handler

	rec := call(t, h, http.MethodPut, "/settings", map[string]any{
		"shopName":     "Barbearia do Renato",
		"primaryColor": "#1A237E",
		"accentColor":  "#FF5722",
		"opening":      "09:00",
		"closing":      "18:00",
		"stepMinutes":  15,
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := call(t, h, http.MethodGet, "/settings", nil, "").Body.String()
	if !strings.Contains(body, `"shopName":"Barbearia do Renato"`) || !strings.Contains(body, `"stepMinutes":15`) {
		t.Fatalf("settings not persisted: %s", body)
	}
}

func TestSettingsChangeCannotStrandSeededBookings(t *testing.T) {
	h := newTestApp(t, true).handler

	rec := call(t, h, http.MethodPut, "/settings", map[string]any{
		"shopName":     "Barbearia",
		"primaryColor": "#1A237E",
		"accentColor":  "#FF5722",
		"opening":      "08:00",
		"closing":      "20:00",
		"stepMinutes":  45,
	}, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 when the 09:00 booking would fall between rows, got %d: %s", rec.Code, rec.Body.String())
	}

	grid := call(t, h, http.MethodGet, "/schedule", nil, "")
	if grid.Code != http.StatusOK {
		t.Fatalf("expected the day grid to render, got %d: %s", grid.Code, grid.Body.String())
	}
	var layout struct {
		StepMinutes int `json:"stepMinutes"`
		Rows        []struct {
			Time  string `json:"time"`
			Cells []struct {
				Kind       string `json:"kind"`
				ClientName string `json:"clientName"`
			} `json:"cells"`
		} `json:"rows"`
	}
	decode(t, grid, &layout)
	if layout.StepMinutes != 30 {
		t.Fatalf("expected the stored step to stay 30, got %d", layout.StepMinutes)
	}
	found := false
	for _, row := range layout.Rows {
		for _, cell := range row.Cells {
			if row.Time == "09:00" && cell.Kind == "start" && cell.ClientName == "João Silva" {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected the 09:00 booking to be drawn")
	}
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected log output %q", buf.String())
	}
}

func TestDashboardSummarisesSeededDay(t *testing.T) {
	h := newTestApp(t, true).handler

	rec := call(t, h, http.MethodGet, "/dashboard", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Dashboard struct {
			AppointmentCount int    `json:"appointmentCount"`
			RevenueCents     int64  `json:"revenueCents"`
			Revenue          string `json:"revenue"`
			NewClients       int    `json:"newClients"`
			OccupancyPercent int    `json:"occupancyPercent"`
			Barbers          []struct {
				Name          string `json:"name"`
				OccupiedSlots int    `json:"occupiedSlots"`
			} `json:"barbers"`
			Recent []json.RawMessage `json:"recentAppointments"`
		} `json:"dashboard"`
	}
	decode(t, rec, &resp)

	d := resp.Dashboard
	if d.AppointmentCount != 6 {
		t.Fatalf("expected the cancelled booking to be left out, got %d", d.AppointmentCount)
	}
	if d.RevenueCents != 12000 || d.Revenue != "R$ 120,00" {
		t.Fatalf("unexpected revenue %d %q", d.RevenueCents, d.Revenue)
	}
	if d.NewClients != 4 {
		t.Fatalf("expected 4 new clients, got %d", d.NewClients)
	}
	// 3 + 5 + 4 occupied cells over 24 slots for three barbers.
	if d.OccupancyPercent != 17 {
		t.Fatalf("expected 17%% occupancy, got %d", d.OccupancyPercent)
	}
	if len(d.Barbers) != 3 {
		t.Fatalf("expected the inactive barber to be hidden, got %+v", d.Barbers)
	}
	occupied := map[string]int{}
	for _, b := range d.Barbers {
		occupied[b.Name] = b.OccupiedSlots
	}
	if occupied["Renato Garcia"] != 3 || occupied["Marcos Andrade"] != 5 || occupied["Júlia Martins"] != 4 {
		t.Fatalf("unexpected occupancy per barber %v", occupied)
	}
	if len(d.Recent) != 5 {
		t.Fatalf("expected 5 recent appointments, got %d", len(d.Recent))
	}
}
