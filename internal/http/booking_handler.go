package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/barbershop-manager/internal/application"
)

type bookingService interface {
	CreateAppointment(ctx context.Context, input application.CreateAppointmentInput) (application.Appointment, error)
	ListAppointments(ctx context.Context, filter application.AppointmentFilter) ([]application.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status application.AppointmentStatus) (application.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
	DayGrid(ctx context.Context, date string, barberIDs []string) (application.DayGrid, error)
	Availability(ctx context.Context, date, barberID string, serviceNames []string) ([]application.SlotAvailability, error)
}

// BookingHandler serves the day grid, the booking form and appointment changes.
type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

func (h *BookingHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *BookingHandler) Grid(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	query := r.URL.Query()
	date := strings.TrimSpace(query.Get("date"))
	barberIDs := splitList(query.Get("barbers"))
	logger := h.log(r.Context(), "Grid", "date", date, "barber_count", len(barberIDs))

	grid, err := h.service.DayGrid(r.Context(), date, barberIDs)
	if err != nil {
		logger.ErrorContext(r.Context(), "day grid failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("rows", len(grid.Rows)).InfoContext(r.Context(), "day grid built")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toDayGridDTO(grid))
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	query := r.URL.Query()
	date := strings.TrimSpace(query.Get("date"))
	barberID := strings.TrimSpace(query.Get("barber_id"))
	services := splitList(query.Get("services"))
	logger := h.log(r.Context(), "Availability", "date", date, "barber_id", barberID)

	slots, err := h.service.Availability(r.Context(), date, barberID, services)
	if err != nil {
		logger.ErrorContext(r.Context(), "availability failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]slotDTO, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slotDTO{Time: slot.Time.String(), Disabled: slot.Disabled})
	}
	logger.With("result_count", len(out)).InfoContext(r.Context(), "availability listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, availabilityResponse{Slots: out})
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	query := r.URL.Query()
	filter := application.AppointmentFilter{
		Date:     strings.TrimSpace(query.Get("date")),
		BarberID: strings.TrimSpace(query.Get("barber_id")),
	}
	logger := h.log(r.Context(), "List", "date", filter.Date, "barber_id", filter.BarberID)

	appointments, err := h.service.ListAppointments(r.Context(), filter)
	if err != nil {
		logger.ErrorContext(r.Context(), "appointment list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(appointments)).InfoContext(r.Context(), "appointments listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAppointmentsResponse{Appointments: toAppointmentDTOs(appointments)})
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var req appointmentRequest
	if err := h.responder.decode(w, r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode appointment request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "barber_id", req.BarberID, "date", req.Date, "start", req.Start)

	appointment, err := h.service.CreateAppointment(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "appointment creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("appointment_id", appointment.ID).InfoContext(r.Context(), "appointment created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, appointmentResponse{Appointment: toAppointmentDTO(appointment)})
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.log(r.Context(), "UpdateStatus", "error_kind", "bad_request").ErrorContext(r.Context(), "missing appointment id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	var req appointmentStatusRequest
	if err := h.responder.decode(w, r, &req); err != nil {
		h.log(r.Context(), "UpdateStatus", "appointment_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode status request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateStatus", "appointment_id", id, "status", req.Status)

	appointment, err := h.service.UpdateAppointmentStatus(r.Context(), id, application.AppointmentStatus(strings.TrimSpace(req.Status)))
	if err != nil {
		logger.ErrorContext(r.Context(), "appointment status update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "appointment status updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, appointmentResponse{Appointment: toAppointmentDTO(appointment)})
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing appointment id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	logger := h.log(r.Context(), "Delete", "appointment_id", id)
	if err := h.service.DeleteAppointment(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "appointment delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "appointment deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type appointmentRequest struct {
	ClientName string   `json:"clientName"`
	BarberID   string   `json:"barberId"`
	Services   []string `json:"services"`
	Date       string   `json:"date"`
	Start      string   `json:"start"`
}

func (r appointmentRequest) toInput() application.CreateAppointmentInput {
	return application.CreateAppointmentInput{
		ClientName:   strings.TrimSpace(r.ClientName),
		BarberID:     strings.TrimSpace(r.BarberID),
		ServiceNames: r.Services,
		Date:         strings.TrimSpace(r.Date),
		Start:        strings.TrimSpace(r.Start),
	}
}

type appointmentStatusRequest struct {
	Status string `json:"status"`
}

type appointmentResponse struct {
	Appointment appointmentDTO `json:"appointment"`
}

type listAppointmentsResponse struct {
	Appointments []appointmentDTO `json:"appointments"`
}

type availabilityResponse struct {
	Slots []slotDTO `json:"slots"`
}

type appointmentDTO struct {
	ID              string   `json:"id"`
	Date            string   `json:"date"`
	Start           string   `json:"start"`
	End             string   `json:"end"`
	DurationMinutes int      `json:"durationMinutes"`
	ClientName      string   `json:"clientName"`
	BarberID        string   `json:"barberId"`
	Services        []string `json:"services"`
	Status          string   `json:"status"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

type slotDTO struct {
	Time     string `json:"time"`
	Disabled bool   `json:"disabled"`
}

type dayGridDTO struct {
	Date    string       `json:"date"`
	Step    int          `json:"stepMinutes"`
	Barbers []barberDTO  `json:"barbers"`
	Rows    []gridRowDTO `json:"rows"`
}

type gridRowDTO struct {
	Time  string        `json:"time"`
	Cells []gridCellDTO `json:"cells"`
}

type gridCellDTO struct {
	BarberID      string `json:"barberId"`
	Kind          string `json:"kind"`
	RowSpan       int    `json:"rowSpan,omitempty"`
	AppointmentID string `json:"appointmentId,omitempty"`
	ClientName    string `json:"clientName,omitempty"`
	Services      string `json:"services,omitempty"`
	Status        string `json:"status,omitempty"`
}

func toAppointmentDTO(appointment application.Appointment) appointmentDTO {
	services := appointment.ServiceNames
	if services == nil {
		services = []string{}
	}
	return appointmentDTO{
		ID:              appointment.ID,
		Date:            appointment.Date,
		Start:           appointment.Start.String(),
		End:             appointment.End().String(),
		DurationMinutes: appointment.DurationMinutes,
		ClientName:      appointment.ClientName,
		BarberID:        appointment.BarberID,
		Services:        services,
		Status:          string(appointment.Status),
		CreatedAt:       appointment.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       appointment.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toAppointmentDTOs(appointments []application.Appointment) []appointmentDTO {
	out := make([]appointmentDTO, 0, len(appointments))
	for _, appointment := range appointments {
		out = append(out, toAppointmentDTO(appointment))
	}
	return out
}

func toDayGridDTO(grid application.DayGrid) dayGridDTO {
	rows := make([]gridRowDTO, 0, len(grid.Rows))
	for _, row := range grid.Rows {
		cells := make([]gridCellDTO, 0, len(row.Cells))
		for _, cell := range row.Cells {
			dto := gridCellDTO{BarberID: cell.BarberID, Kind: string(cell.Kind), RowSpan: cell.RowSpan}
			if cell.Appointment != nil {
				dto.AppointmentID = cell.Appointment.ID
				dto.ClientName = cell.Appointment.ClientName
				dto.Services = strings.Join(cell.Appointment.ServiceNames, ", ")
				dto.Status = string(cell.Appointment.Status)
			}
			cells = append(cells, dto)
		}
		rows = append(rows, gridRowDTO{Time: row.Time.String(), Cells: cells})
	}
	return dayGridDTO{
		Date:    grid.Date,
		Step:    grid.Step,
		Barbers: toBarberDTOs(grid.Barbers),
		Rows:    rows,
	}
}
