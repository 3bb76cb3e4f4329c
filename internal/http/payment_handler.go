package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/barbershop-manager/internal/application"
	"github.com/example/barbershop-manager/internal/money"
)

type paymentService interface {
	RecordPayment(ctx context.Context, input application.RecordPaymentInput) (application.Payment, error)
	ListPayments(ctx context.Context) ([]application.Payment, error)
	OpenDebt(ctx context.Context, input application.OpenDebtInput) (application.Debt, error)
	ListDebts(ctx context.Context) ([]application.Debt, error)
	SettleDebt(ctx context.Context, id string) (application.Debt, error)
	CheckoutAppointment(ctx context.Context, sessionID, appointmentID string) (application.PaymentDraft, error)
	CheckoutProduct(ctx context.Context, sessionID, productID string) (application.PaymentDraft, error)
	PaymentDraft(ctx context.Context, sessionID string) (application.PaymentDraft, error)
	ClearPaymentDraft(ctx context.Context, sessionID string)
}

// PaymentHandler serves payments, open tabs and the checkout hand-off.
type PaymentHandler struct {
	service   paymentService
	responder responder
	logger    *slog.Logger
}

func NewPaymentHandler(service paymentService, logger *slog.Logger) *PaymentHandler {
	base := defaultLogger(logger)
	return &PaymentHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PaymentHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PaymentHandler", operation, attrs...)
}

func (h *PaymentHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *PaymentHandler) session(w http.ResponseWriter, r *http.Request, operation string) (string, bool) {
	sessionID, ok := SessionIDFromContext(r.Context())
	if !ok {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "missing session identity")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingSession)
		return "", false
	}
	return sessionID, true
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	logger := h.log(r.Context(), "List")
	payments, err := h.service.ListPayments(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "payment list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]paymentDTO, 0, len(payments))
	for _, payment := range payments {
		out = append(out, toPaymentDTO(payment))
	}
	logger.With("result_count", len(out)).InfoContext(r.Context(), "payments listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listPaymentsResponse{Payments: out})
}

// Create records a payment and discards the caller's pending draft.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var req paymentRequest
	if err := h.responder.decode(w, r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode payment request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "method", req.Method)
	payment, err := h.service.RecordPayment(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "payment recording failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if sessionID, ok := SessionIDFromContext(r.Context()); ok {
		h.service.ClearPaymentDraft(r.Context(), sessionID)
	}

	logger.With("payment_id", payment.ID).InfoContext(r.Context(), "payment recorded")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, paymentResponse{Payment: toPaymentDTO(payment)})
}

func (h *PaymentHandler) Draft(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	sessionID, ok := h.session(w, r, "Draft")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "Draft")
	draft, err := h.service.PaymentDraft(r.Context(), sessionID)
	if err != nil {
		logger.InfoContext(r.Context(), "payment draft unavailable", "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, draftResponse{Draft: toDraftDTO(draft)})
}

func (h *PaymentHandler) ClearDraft(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	sessionID, ok := h.session(w, r, "ClearDraft")
	if !ok {
		return
	}

	h.service.ClearPaymentDraft(r.Context(), sessionID)
	h.log(r.Context(), "ClearDraft").InfoContext(r.Context(), "payment draft cleared")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *PaymentHandler) CheckoutAppointment(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	h.checkout(w, r, "CheckoutAppointment", h.service.CheckoutAppointment)
}

func (h *PaymentHandler) CheckoutProduct(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	h.checkout(w, r, "CheckoutProduct", h.service.CheckoutProduct)
}

func (h *PaymentHandler) checkout(w http.ResponseWriter, r *http.Request, operation string, run func(ctx context.Context, sessionID, id string) (application.PaymentDraft, error)) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "missing checkout id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}
	sessionID, ok := h.session(w, r, operation)
	if !ok {
		return
	}

	logger := h.log(r.Context(), operation, "source_id", id)
	draft, err := run(r.Context(), sessionID, id)
	if err != nil {
		logger.ErrorContext(r.Context(), "checkout failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "payment draft created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, draftResponse{Draft: toDraftDTO(draft)})
}

func (h *PaymentHandler) ListDebts(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	logger := h.log(r.Context(), "ListDebts")
	debts, err := h.service.ListDebts(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "debt list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]debtDTO, 0, len(debts))
	var total int64
	for _, debt := range debts {
		out = append(out, toDebtDTO(debt))
		total = money.Sum(total, debt.AmountCents)
	}
	logger.With("result_count", len(out)).InfoContext(r.Context(), "debts listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listDebtsResponse{
		Debts:      out,
		TotalCents: total,
		Total:      money.FormatBRL(total),
	})
}

func (h *PaymentHandler) OpenDebt(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var req debtRequest
	if err := h.responder.decode(w, r, &req); err != nil {
		h.log(r.Context(), "OpenDebt", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode debt request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "OpenDebt")
	debt, err := h.service.OpenDebt(r.Context(), application.OpenDebtInput{
		ClientName:  strings.TrimSpace(req.ClientName),
		Description: strings.TrimSpace(req.Description),
		AmountCents: req.AmountCents,
		IncurredAt:  req.IncurredAt,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "debt creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("debt_id", debt.ID).InfoContext(r.Context(), "debt opened")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, debtResponse{Debt: toDebtDTO(debt)})
}

func (h *PaymentHandler) SettleDebt(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.log(r.Context(), "SettleDebt", "error_kind", "bad_request").ErrorContext(r.Context(), "missing debt id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	logger := h.log(r.Context(), "SettleDebt", "debt_id", id)
	debt, err := h.service.SettleDebt(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "debt settlement failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "debt settled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, debtResponse{Debt: toDebtDTO(debt)})
}

type paymentRequest struct {
	ClientName  string     `json:"clientName"`
	Services    []string   `json:"services"`
	AmountCents int64      `json:"amountCents"`
	Method      string     `json:"method"`
	PaidAt      *time.Time `json:"paidAt"`
}

func (r paymentRequest) toInput() application.RecordPaymentInput {
	return application.RecordPaymentInput{
		ClientName:   strings.TrimSpace(r.ClientName),
		ServiceNames: r.Services,
		AmountCents:  r.AmountCents,
		Method:       application.PaymentMethod(strings.TrimSpace(r.Method)),
		PaidAt:       r.PaidAt,
	}
}

type debtRequest struct {
	ClientName  string     `json:"clientName"`
	Description string     `json:"description"`
	AmountCents int64      `json:"amountCents"`
	IncurredAt  *time.Time `json:"incurredAt"`
}

type paymentResponse struct {
	Payment paymentDTO `json:"payment"`
}

type listPaymentsResponse struct {
	Payments []paymentDTO `json:"payments"`
}

type debtResponse struct {
	Debt debtDTO `json:"debt"`
}

type listDebtsResponse struct {
	Debts      []debtDTO `json:"debts"`
	TotalCents int64     `json:"totalCents"`
	Total      string    `json:"total"`
}

type draftResponse struct {
	Draft draftDTO `json:"draft"`
}

type paymentDTO struct {
	ID          string   `json:"id"`
	ClientName  string   `json:"clientName"`
	Services    []string `json:"services"`
	AmountCents int64    `json:"amountCents"`
	Amount      string   `json:"amount"`
	Method      string   `json:"method"`
	PaidAt      string   `json:"paidAt"`
}

type debtDTO struct {
	ID          string  `json:"id"`
	PaymentID   *string `json:"paymentId,omitempty"`
	ClientName  string  `json:"clientName"`
	Description string  `json:"description"`
	AmountCents int64   `json:"amountCents"`
	Amount      string  `json:"amount"`
	IncurredAt  string  `json:"incurredAt"`
}

type draftDTO struct {
	ClientName  string   `json:"clientName"`
	Services    []string `json:"services"`
	AmountCents int64    `json:"amountCents"`
	Amount      string   `json:"amount"`
	Source      string   `json:"source"`
	SourceID    string   `json:"sourceId"`
}

func toPaymentDTO(payment application.Payment) paymentDTO {
	services := payment.ServiceNames
	if services == nil {
		services = []string{}
	}
	return paymentDTO{
		ID:          payment.ID,
		ClientName:  payment.ClientName,
		Services:    services,
		AmountCents: payment.AmountCents,
		Amount:      money.FormatBRL(payment.AmountCents),
		Method:      string(payment.Method),
		PaidAt:      payment.PaidAt.UTC().Format(time.RFC3339Nano),
	}
}

func toDebtDTO(debt application.Debt) debtDTO {
	return debtDTO{
		ID:          debt.ID,
		PaymentID:   debt.PaymentID,
		ClientName:  debt.ClientName,
		Description: debt.Description,
		AmountCents: debt.AmountCents,
		Amount:      money.FormatBRL(debt.AmountCents),
		IncurredAt:  debt.IncurredAt.UTC().Format(time.RFC3339Nano),
	}
}

func toDraftDTO(draft application.PaymentDraft) draftDTO {
	services := draft.ServiceNames
	if services == nil {
		services = []string{}
	}
	return draftDTO{
		ClientName:  draft.ClientName,
		Services:    services,
		AmountCents: draft.AmountCents,
		Amount:      money.FormatBRL(draft.AmountCents),
		Source:      string(draft.Source),
		SourceID:    draft.SourceID,
	}
}
