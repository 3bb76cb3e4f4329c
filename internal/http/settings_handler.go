package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/barbershop-manager/internal/application"
)

type settingsService interface {
	Current(ctx context.Context) (application.Settings, error)
	UpdateSettings(ctx context.Context, input application.SettingsInput) (application.Settings, error)
}

// SettingsHandler serves the shop configuration.
type SettingsHandler struct {
	service   settingsService
	responder responder
	logger    *slog.Logger
}

func NewSettingsHandler(service settingsService, logger *slog.Logger) *SettingsHandler {
	base := defaultLogger(logger)
	return &SettingsHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SettingsHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SettingsHandler", operation, attrs...)
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	settings, err := h.service.Current(r.Context())
	if err != nil {
		h.log(r.Context(), "Get").ErrorContext(r.Context(), "settings lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, settingsResponse{Settings: toSettingsDTO(settings)})
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req settingsRequest
	if err := h.responder.decode(w, r, &req); err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode settings request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update")
	settings, err := h.service.UpdateSettings(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "settings update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "settings updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, settingsResponse{Settings: toSettingsDTO(settings)})
}

type settingsRequest struct {
	ShopName     string `json:"shopName"`
	Logo         string `json:"logo"`
	PrimaryColor string `json:"primaryColor"`
	AccentColor  string `json:"accentColor"`
	Opening      string `json:"opening"`
	Closing      string `json:"closing"`
	StepMinutes  int    `json:"stepMinutes"`
}

func (r settingsRequest) toInput() application.SettingsInput {
	return application.SettingsInput{
		ShopName:     strings.TrimSpace(r.ShopName),
		LogoDataURL:  strings.TrimSpace(r.Logo),
		PrimaryColor: strings.TrimSpace(r.PrimaryColor),
		AccentColor:  strings.TrimSpace(r.AccentColor),
		Opening:      strings.TrimSpace(r.Opening),
		Closing:      strings.TrimSpace(r.Closing),
		StepMinutes:  r.StepMinutes,
	}
}

type settingsResponse struct {
	Settings settingsDTO `json:"settings"`
}

type settingsDTO struct {
	ShopName     string `json:"shopName"`
	Logo         string `json:"logo,omitempty"`
	PrimaryColor string `json:"primaryColor"`
	AccentColor  string `json:"accentColor"`
	Opening      string `json:"opening"`
	Closing      string `json:"closing"`
	StepMinutes  int    `json:"stepMinutes"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

func toSettingsDTO(settings application.Settings) settingsDTO {
	dto := settingsDTO{
		ShopName:     settings.ShopName,
		Logo:         settings.LogoDataURL,
		PrimaryColor: settings.PrimaryColor,
		AccentColor:  settings.AccentColor,
		Opening:      settings.Opening.String(),
		Closing:      settings.Closing.String(),
		StepMinutes:  settings.StepMinutes,
	}
	if !settings.UpdatedAt.IsZero() {
		dto.UpdatedAt = settings.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return dto
}
