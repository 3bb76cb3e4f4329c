package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/barbershop-manager/internal/application"
)

const maxBodyBytes = 5 << 20

var (
	errBadRequestBody = errors.New("Formato de requisição inválido.")
	errMissingID      = errors.New("Identificador ausente.")
	errMissingSession = errors.New("Sessão não identificada.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: localizedStatusMessage(http.StatusNotFound)})
	case errors.Is(err, application.ErrSlotTaken):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "SLOT_TAKEN",
			Message:   "O horário escolhido já está ocupado para este barbeiro.",
		})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ALREADY_EXISTS",
			Message:   "Já existe um registro com este nome.",
		})
	case errors.Is(err, application.ErrAnalyticsUnavailable):
		r.writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{
			ErrorCode: "ANALYTICS_UNAVAILABLE",
			Message:   "A análise preditiva não está disponível no momento.",
		})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: localizedStatusMessage(http.StatusUnprocessableEntity),
				Errors:  localizeValidationErrors(vErr),
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: localizedStatusMessage(http.StatusInternalServerError)})
	}
}

func (r responder) decode(w http.ResponseWriter, req *http.Request, dst any) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	return json.NewDecoder(req.Body).Decode(dst)
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "A requisição é inválida."
	case http.StatusNotFound:
		return "O recurso solicitado não foi encontrado."
	case http.StatusConflict:
		return "A requisição conflita com o estado atual do recurso."
	case http.StatusUnprocessableEntity:
		return "Há erros nos dados informados."
	case http.StatusServiceUnavailable:
		return "Serviço indisponível."
	default:
		return "Ocorreu um erro interno no servidor."
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

var validationMessages = map[string]string{
	"name is required":                    "O nome é obrigatório.",
	"email is invalid":                    "O e-mail é inválido.",
	"status is invalid":                   "Status inválido.",
	"duration must be positive":           "A duração deve ser maior que zero.",
	"price must be positive":              "O preço deve ser maior que zero.",
	"price cannot be negative":            "O preço não pode ser negativo.",
	"stock cannot be negative":            "O estoque não pode ser negativo.",
	"phone is required":                   "O telefone é obrigatório.",
	"barber has appointments":             "O barbeiro possui agendamentos e não pode ser removido.",
	"value violates a constraint":         "Valor inválido.",
	"client name is required":             "O nome do cliente é obrigatório.",
	"barber is required":                  "Selecione um barbeiro.",
	"barber does not exist":               "Barbeiro não encontrado.",
	"date must be YYYY-MM-DD":             "A data deve estar no formato AAAA-MM-DD.",
	"time must be HH:MM":                  "O horário deve estar no formato HH:MM.",
	"at least one service is required":    "Selecione pelo menos um serviço.",
	"start is not an available slot":      "O horário não faz parte da grade de atendimento.",
	"services run past midnight":          "Os serviços ultrapassam a meia-noite.",
	"services run past closing time":      "Os serviços ultrapassam o horário de fechamento.",
	"appointments start before opening":   "Há agendamentos antes do novo horário de abertura.",
	"appointments end after closing":      "Há agendamentos depois do novo horário de fechamento.",
	"appointments fall between grid rows": "Há agendamentos fora da nova grade de horários.",
	"appointment does not fit in the day": "O agendamento não cabe no dia.",
	"amount must be positive":             "O valor deve ser maior que zero.",
	"payment method is invalid":           "Forma de pagamento inválida.",
	"payment violates a constraint":       "Pagamento inválido.",
	"description is required":             "A descrição é obrigatória.",
	"session is required":                 "Sessão não identificada.",
	"product is out of stock":             "Produto sem estoque.",
	"shop name is required":               "O nome da barbearia é obrigatório.",
	"color must be #RRGGBB":               "A cor deve estar no formato #RRGGBB.",
	"logo must be a PNG or JPEG image":    "O logotipo deve ser uma imagem PNG ou JPEG.",
	"step must be positive":               "O intervalo deve ser maior que zero.",
	"closing must be after opening":       "O fechamento deve ser depois da abertura.",
	"step must divide the opening hours":  "O intervalo deve dividir o horário de funcionamento.",
	"booking data must be valid JSON":     "Os dados de agendamento devem ser um JSON válido.",
	"no booking history available":        "Não há histórico de agendamentos.",
}

func translateValidationMessage(message string) string {
	if translated, ok := validationMessages[message]; ok {
		return translated
	}
	switch {
	case strings.HasPrefix(message, "unknown services:"):
		return "Serviços desconhecidos: " + strings.TrimSpace(strings.TrimPrefix(message, "unknown services:"))
	case strings.HasPrefix(message, "unknown barber ids:"):
		return "Barbeiros desconhecidos: " + strings.TrimSpace(strings.TrimPrefix(message, "unknown barber ids:"))
	}
	return message
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
