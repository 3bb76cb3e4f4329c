package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// SchedulingPredictor produces scheduling advice from booking history
// serialised as JSON.
type SchedulingPredictor interface {
	PredictScheduling(ctx context.Context, historicalBookingData string) (Prediction, error)
}

type bookingRecord struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Barber  string `json:"barber"`
	Service string `json:"service"`
}

// AnalyticsService feeds booking history to a predictor.
type AnalyticsService struct {
	predictor    SchedulingPredictor
	appointments AppointmentRepository
	barbers      BarberRepository
	logger       *slog.Logger
}

// NewAnalyticsService constructs an analytics service. A nil predictor makes
// every prediction fail with ErrAnalyticsUnavailable.
func NewAnalyticsService(predictor SchedulingPredictor, appointments AppointmentRepository, barbers BarberRepository) *AnalyticsService {
	return NewAnalyticsServiceWithLogger(predictor, appointments, barbers, nil)
}

// NewAnalyticsServiceWithLogger constructs an analytics service with a specified logger.
func NewAnalyticsServiceWithLogger(predictor SchedulingPredictor, appointments AppointmentRepository, barbers BarberRepository, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		predictor:    predictor,
		appointments: appointments,
		barbers:      barbers,
		logger:       defaultLogger(logger),
	}
}

func (s *AnalyticsService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AnalyticsService", operation, attrs...)
}

// PredictScheduling returns peak hours, popular services and a suggested
// schedule. When historicalBookingData is empty the stored appointments are
// used.
func (s *AnalyticsService) PredictScheduling(ctx context.Context, historicalBookingData string) (prediction Prediction, err error) {
	if s == nil || s.predictor == nil {
		err = ErrAnalyticsUnavailable
		return
	}

	logger := s.loggerWith(ctx, "PredictScheduling")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to predict scheduling", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "scheduling predicted")
	}()

	data := strings.TrimSpace(historicalBookingData)
	if data == "" {
		if data, err = s.bookingHistory(ctx); err != nil {
			return
		}
	}
	if !json.Valid([]byte(data)) {
		err = newValidationError("historicalBookingData", "booking data must be valid JSON")
		return
	}

	prediction, err = s.predictor.PredictScheduling(ctx, data)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrAnalyticsUnavailable, err)
	}
	return
}

func (s *AnalyticsService) bookingHistory(ctx context.Context) (string, error) {
	if s.appointments == nil {
		return "", newValidationError("historicalBookingData", "no booking history available")
	}
	appointments, err := s.appointments.ListAppointments(ctx, AppointmentFilter{})
	if err != nil {
		return "", mapAppointmentRepoError(err)
	}
	if len(appointments) == 0 {
		return "", newValidationError("historicalBookingData", "no booking history available")
	}
	sortAppointments(appointments)

	names := make(map[string]string)
	if s.barbers != nil {
		barbers, err := s.barbers.ListBarbers(ctx)
		if err != nil {
			return "", mapCatalogRepoError(err, "barber")
		}
		for _, barber := range barbers {
			names[barber.ID] = barber.Name
		}
	}

	records := make([]bookingRecord, 0, len(appointments))
	for _, appointment := range appointments {
		barber := names[appointment.BarberID]
		if barber == "" {
			barber = appointment.BarberID
		}
		records = append(records, bookingRecord{
			Date:    appointment.Date,
			Time:    appointment.Start.String(),
			Barber:  barber,
			Service: strings.Join(appointment.ServiceNames, ", "),
		})
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode booking history: %w", err)
	}
	return string(encoded), nil
}
