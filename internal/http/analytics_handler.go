package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/example/barbershop-manager/internal/application"
)

type analyticsService interface {
	PredictScheduling(ctx context.Context, historicalBookingData string) (application.Prediction, error)
}

// AnalyticsHandler serves the scheduling prediction panel.
type AnalyticsHandler struct {
	service   analyticsService
	responder responder
	logger    *slog.Logger
}

func NewAnalyticsHandler(service analyticsService, logger *slog.Logger) *AnalyticsHandler {
	base := defaultLogger(logger)
	return &AnalyticsHandler{service: service, responder: newResponder(base), logger: base}
}

// Predict accepts an optional body; an empty one predicts from the stored
// appointments.
func (h *AnalyticsHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req predictionRequest
	if err := h.responder.decode(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		handlerLogger(r.Context(), h.logger, "AnalyticsHandler", "Predict", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode prediction request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "AnalyticsHandler", "Predict", "data_bytes", len(req.HistoricalBookingData))
	prediction, err := h.service.PredictScheduling(r.Context(), req.HistoricalBookingData)
	if err != nil {
		logger.ErrorContext(r.Context(), "prediction failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "prediction produced")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, predictionResponse{
		PeakHours:         prediction.PeakHours,
		PopularServices:   prediction.PopularServices,
		SuggestedSchedule: prediction.SuggestedSchedule,
	})
}

type predictionRequest struct {
	HistoricalBookingData string `json:"historicalBookingData"`
}

type predictionResponse struct {
	PeakHours         string `json:"peakHours"`
	PopularServices   string `json:"popularServices"`
	SuggestedSchedule string `json:"suggestedSchedule"`
}
