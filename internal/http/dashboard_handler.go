package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/barbershop-manager/internal/application"
	"github.com/example/barbershop-manager/internal/money"
)

type dashboardService interface {
	DashboardSummary(ctx context.Context, date string) (application.DashboardSummary, error)
}

// DashboardHandler serves the day's overview.
type DashboardHandler struct {
	service   dashboardService
	responder responder
	logger    *slog.Logger
}

func NewDashboardHandler(service dashboardService, logger *slog.Logger) *DashboardHandler {
	base := defaultLogger(logger)
	return &DashboardHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	logger := handlerLogger(r.Context(), h.logger, "DashboardHandler", "Summary", "date", date)

	summary, err := h.service.DashboardSummary(r.Context(), date)
	if err != nil {
		logger.ErrorContext(r.Context(), "dashboard failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, dashboardResponse{Dashboard: toDashboardDTO(summary)})
}

type dashboardResponse struct {
	Dashboard dashboardDTO `json:"dashboard"`
}

type dashboardDTO struct {
	Date             string              `json:"date"`
	RevenueCents     int64               `json:"revenueCents"`
	Revenue          string              `json:"revenue"`
	TabCents         int64               `json:"tabCents"`
	Tab              string              `json:"tab"`
	AppointmentCount int                 `json:"appointmentCount"`
	NewClients       int                 `json:"newClients"`
	OccupancyPercent int                 `json:"occupancyPercent"`
	Barbers          []barberActivityDTO `json:"barbers"`
	Recent           []appointmentDTO    `json:"recentAppointments"`
}

type barberActivityDTO struct {
	BarberID      string `json:"barberId"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	Appointments  int    `json:"appointments"`
	OccupiedSlots int    `json:"occupiedSlots"`
	CapacitySlots int    `json:"capacitySlots"`
}

func toDashboardDTO(summary application.DashboardSummary) dashboardDTO {
	barbers := make([]barberActivityDTO, len(summary.Barbers))
	for i, activity := range summary.Barbers {
		barbers[i] = barberActivityDTO{
			BarberID:      activity.Barber.ID,
			Name:          activity.Barber.Name,
			Status:        string(activity.Barber.Status),
			Appointments:  activity.Appointments,
			OccupiedSlots: activity.OccupiedSlots,
			CapacitySlots: activity.CapacitySlots,
		}
	}
	return dashboardDTO{
		Date:             summary.Date,
		RevenueCents:     summary.RevenueCents,
		Revenue:          money.FormatBRL(summary.RevenueCents),
		TabCents:         summary.TabCents,
		Tab:              money.FormatBRL(summary.TabCents),
		AppointmentCount: summary.AppointmentCount,
		NewClients:       summary.NewClients,
		OccupancyPercent: summary.OccupancyPercent,
		Barbers:          barbers,
		Recent:           toAppointmentDTOs(summary.Recent),
	}
}
