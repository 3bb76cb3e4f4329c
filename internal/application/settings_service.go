package application

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/example/barbershop-manager/internal/occupancy"
	"github.com/example/barbershop-manager/internal/persistence"
)

// SettingsRepository captures the persistence operations needed by the service.
type SettingsRepository interface {
	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings) (Settings, error)
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var logoPrefixes = []string{"data:image/png;base64,", "data:image/jpeg;base64,"}

// DefaultSettings is used until the shop saves its own configuration.
func DefaultSettings() Settings {
	return Settings{
		ShopName:     "Barbearia",
		PrimaryColor: "#1A237E",
		AccentColor:  "#FF5722",
		Opening:      occupancy.MustParseClockTime("08:00"),
		Closing:      occupancy.MustParseClockTime("20:00"),
		StepMinutes:  occupancy.DefaultStepMinutes,
	}
}

// AppointmentLister reads stored appointments.
type AppointmentLister interface {
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error)
}

// SettingsService reads and updates the shop configuration.
type SettingsService struct {
	settings     SettingsRepository
	appointments AppointmentLister
	now          func() time.Time
	logger       *slog.Logger
}

// NewSettingsService constructs a settings service with the provided dependencies.
func NewSettingsService(settings SettingsRepository, appointments AppointmentLister, now func() time.Time) *SettingsService {
	return NewSettingsServiceWithLogger(settings, appointments, now, nil)
}

// NewSettingsServiceWithLogger constructs a settings service with a specified
// logger. When appointments is nil, hour changes are not checked against
// existing bookings.
func NewSettingsServiceWithLogger(settings SettingsRepository, appointments AppointmentLister, now func() time.Time, logger *slog.Logger) *SettingsService {
	if now == nil {
		now = time.Now
	}
	return &SettingsService{settings: settings, appointments: appointments, now: now, logger: defaultLogger(logger)}
}

func (s *SettingsService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SettingsService", operation, attrs...)
}

// Current returns the saved settings, or the defaults when none were saved.
func (s *SettingsService) Current(ctx context.Context) (Settings, error) {
	if s == nil || s.settings == nil {
		return DefaultSettings(), nil
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
			return DefaultSettings(), nil
		}
		return Settings{}, err
	}
	return settings, nil
}

// UpdateSettings validates and stores a new configuration.
func (s *SettingsService) UpdateSettings(ctx context.Context, input SettingsInput) (settings Settings, err error) {
	if s == nil {
		err = fmt.Errorf("SettingsService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateSettings")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update settings", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "settings updated",
			"opening", settings.Opening.String(),
			"closing", settings.Closing.String(),
			"step_minutes", settings.StepMinutes,
		)
	}()

	var vErr *ValidationError
	settings, vErr = validateSettingsInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	if err = s.checkBookingsFit(ctx, settings); err != nil {
		return
	}
	settings.UpdatedAt = s.now()

	if s.settings == nil {
		return
	}
	settings, err = s.settings.SaveSettings(ctx, settings)
	if err != nil {
		err = mapSettingsRepoError(err)
	}
	return
}

// Slots returns the bookable slots for the current operating hours.
func (s *SettingsService) Slots(ctx context.Context) (Settings, []occupancy.ClockTime, error) {
	settings, err := s.Current(ctx)
	if err != nil {
		return Settings{}, nil, err
	}
	slots, err := occupancy.GenerateTimeSlots(settings.Opening, settings.Closing, settings.StepMinutes)
	if err != nil {
		return Settings{}, nil, err
	}
	return settings, slots, nil
}

// checkBookingsFit rejects hours that would leave a booking of today or a
// later day outside the grid.
func (s *SettingsService) checkBookingsFit(ctx context.Context, settings Settings) error {
	if s.appointments == nil {
		return nil
	}
	slots, err := occupancy.GenerateTimeSlots(settings.Opening, settings.Closing, settings.StepMinutes)
	if err != nil {
		return err
	}
	appointments, err := s.appointments.ListAppointments(ctx, AppointmentFilter{})
	if err != nil {
		return mapAppointmentRepoError(err)
	}

	today := s.now().Format(dateLayout)
	vErr := &ValidationError{}
	for _, appointment := range appointments {
		if appointment.Date < today {
			continue
		}
		switch {
		case appointment.Start < settings.Opening:
			vErr.add("opening", "appointments start before opening")
		case appointment.Start.Add(appointment.DurationMinutes) > settings.Closing:
			vErr.add("closing", "appointments end after closing")
		case !containsSlot(slots, appointment.Start):
			vErr.add("stepMinutes", "appointments fall between grid rows")
		}
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func validateSettingsInput(input SettingsInput) (Settings, *ValidationError) {
	vErr := &ValidationError{}
	settings := Settings{
		ShopName:     strings.TrimSpace(input.ShopName),
		LogoDataURL:  strings.TrimSpace(input.LogoDataURL),
		PrimaryColor: strings.ToUpper(strings.TrimSpace(input.PrimaryColor)),
		AccentColor:  strings.ToUpper(strings.TrimSpace(input.AccentColor)),
		StepMinutes:  input.StepMinutes,
	}

	if settings.ShopName == "" {
		vErr.add("shopName", "shop name is required")
	}
	if !hexColorPattern.MatchString(settings.PrimaryColor) {
		vErr.add("primaryColor", "color must be #RRGGBB")
	}
	if !hexColorPattern.MatchString(settings.AccentColor) {
		vErr.add("accentColor", "color must be #RRGGBB")
	}
	if settings.LogoDataURL != "" && !validLogo(settings.LogoDataURL) {
		vErr.add("logo", "logo must be a PNG or JPEG image")
	}

	opening, openErr := occupancy.ParseClockTime(strings.TrimSpace(input.Opening))
	if openErr != nil || opening == occupancy.EndOfDay {
		vErr.add("opening", "time must be HH:MM")
	}
	closing, closeErr := occupancy.ParseClockTime(strings.TrimSpace(input.Closing))
	if closeErr != nil {
		vErr.add("closing", "time must be HH:MM")
	}
	if settings.StepMinutes <= 0 {
		vErr.add("stepMinutes", "step must be positive")
	}
	if !vErr.HasErrors() {
		span := closing.Minutes() - opening.Minutes()
		switch {
		case span <= 0:
			vErr.add("closing", "closing must be after opening")
		case span%settings.StepMinutes != 0:
			vErr.add("stepMinutes", "step must divide the opening hours")
		}
	}

	settings.Opening = opening
	settings.Closing = closing
	return settings, vErr
}

func validLogo(dataURL string) bool {
	for _, prefix := range logoPrefixes {
		if payload, ok := strings.CutPrefix(dataURL, prefix); ok {
			_, err := base64.StdEncoding.DecodeString(payload)
			return err == nil && payload != ""
		}
	}
	return false
}

func mapSettingsRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		return newValidationError("closing", "closing must be after opening")
	}
	return err
}
