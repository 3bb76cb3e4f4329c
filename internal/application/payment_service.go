package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/barbershop-manager/internal/money"
	"github.com/example/barbershop-manager/internal/persistence"
)

// PaymentRepository captures the payment persistence operations. A non-nil
// debt is stored atomically with the payment.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment Payment, debt *Debt) (Payment, error)
	ListPayments(ctx context.Context) ([]Payment, error)
}

// DebtRepository captures the debt persistence operations.
type DebtRepository interface {
	CreateDebt(ctx context.Context, debt Debt) (Debt, error)
	GetDebt(ctx context.Context, id string) (Debt, error)
	DeleteDebt(ctx context.Context, id string) error
	ListDebts(ctx context.Context) ([]Debt, error)
}

// PaymentRepositories groups the stores the payment flow reads and writes.
type PaymentRepositories struct {
	Payments     PaymentRepository
	Debts        DebtRepository
	Appointments AppointmentRepository
	Services     ServiceRepository
	Products     ProductRepository
}

// OpenDebtInput records a tab that was not opened through RecordPayment.
type OpenDebtInput struct {
	ClientName  string
	Description string
	AmountCents int64
	IncurredAt  *time.Time
}

// PaymentService records sales, tracks tabs and owns the per-session payment
// drafts created by checkouts.
type PaymentService struct {
	repos       PaymentRepositories
	drafts      *draftStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewPaymentService constructs a payment service with the provided dependencies.
func NewPaymentService(repos PaymentRepositories, draftTTL time.Duration, idGenerator func() string, now func() time.Time) *PaymentService {
	return NewPaymentServiceWithLogger(repos, draftTTL, idGenerator, now, nil)
}

// NewPaymentServiceWithLogger constructs a payment service with a specified logger.
func NewPaymentServiceWithLogger(repos PaymentRepositories, draftTTL time.Duration, idGenerator func() string, now func() time.Time, logger *slog.Logger) *PaymentService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PaymentService{
		repos:       repos,
		drafts:      newDraftStore(draftTTL, 0, now),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *PaymentService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PaymentService", operation, attrs...)
}

// RecordPayment stores a sale. A tab payment also opens a debt for the same
// amount.
func (s *PaymentService) RecordPayment(ctx context.Context, input RecordPaymentInput) (payment Payment, err error) {
	if s == nil || s.repos.Payments == nil {
		err = fmt.Errorf("payment repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "RecordPayment", "method", string(input.Method))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to record payment", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("payment_id", payment.ID, "amount", money.FormatBRL(payment.AmountCents)).InfoContext(ctx, "payment recorded")
	}()

	names := trimNames(input.ServiceNames)
	vErr := &ValidationError{}
	clientName := strings.TrimSpace(input.ClientName)
	if clientName == "" {
		vErr.add("clientName", "client name is required")
	}
	if len(names) == 0 {
		vErr.add("services", "at least one service is required")
	}
	if input.AmountCents <= 0 {
		vErr.add("amountCents", "amount must be positive")
	}
	if !input.Method.valid() {
		vErr.add("method", "payment method is invalid")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	paidAt := now
	if input.PaidAt != nil && !input.PaidAt.IsZero() {
		paidAt = *input.PaidAt
	}

	payment = Payment{
		ID:           s.idGenerator(),
		ClientName:   clientName,
		ServiceNames: names,
		AmountCents:  input.AmountCents,
		Method:       input.Method,
		PaidAt:       paidAt,
		CreatedAt:    now,
	}

	var debt *Debt
	if payment.Method == PaymentTab {
		paymentID := payment.ID
		debt = &Debt{
			ID:          s.idGenerator(),
			PaymentID:   &paymentID,
			ClientName:  clientName,
			Description: strings.Join(names, ", "),
			AmountCents: payment.AmountCents,
			IncurredAt:  paidAt,
			CreatedAt:   now,
		}
	}

	payment, err = s.repos.Payments.CreatePayment(ctx, payment, debt)
	if err != nil {
		err = mapPaymentRepoError(err)
	}
	return
}

// ListPayments returns all payments, most recent first.
func (s *PaymentService) ListPayments(ctx context.Context) ([]Payment, error) {
	if s == nil || s.repos.Payments == nil {
		return nil, nil
	}
	payments, err := s.repos.Payments.ListPayments(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListPayments").ErrorContext(ctx, "failed to list payments", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	sort.SliceStable(payments, func(i, j int) bool { return payments[i].PaidAt.After(payments[j].PaidAt) })
	return payments, nil
}

// OpenDebt records a tab directly.
func (s *PaymentService) OpenDebt(ctx context.Context, input OpenDebtInput) (debt Debt, err error) {
	if s == nil || s.repos.Debts == nil {
		err = fmt.Errorf("debt repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "OpenDebt")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to open debt", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("debt_id", debt.ID).InfoContext(ctx, "debt opened")
	}()

	vErr := &ValidationError{}
	clientName := strings.TrimSpace(input.ClientName)
	if clientName == "" {
		vErr.add("clientName", "client name is required")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		vErr.add("description", "description is required")
	}
	if input.AmountCents <= 0 {
		vErr.add("amountCents", "amount must be positive")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	incurredAt := now
	if input.IncurredAt != nil && !input.IncurredAt.IsZero() {
		incurredAt = *input.IncurredAt
	}
	debt = Debt{
		ID:          s.idGenerator(),
		ClientName:  clientName,
		Description: description,
		AmountCents: input.AmountCents,
		IncurredAt:  incurredAt,
		CreatedAt:   now,
	}
	debt, err = s.repos.Debts.CreateDebt(ctx, debt)
	if err != nil {
		err = mapPaymentRepoError(err)
	}
	return
}

// ListDebts returns the open tabs, most recent first.
func (s *PaymentService) ListDebts(ctx context.Context) ([]Debt, error) {
	if s == nil || s.repos.Debts == nil {
		return nil, nil
	}
	debts, err := s.repos.Debts.ListDebts(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListDebts").ErrorContext(ctx, "failed to list debts", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	sort.SliceStable(debts, func(i, j int) bool { return debts[i].IncurredAt.After(debts[j].IncurredAt) })
	return debts, nil
}

// SettleDebt closes a tab and returns it. Settled debts are removed.
func (s *PaymentService) SettleDebt(ctx context.Context, id string) (debt Debt, err error) {
	if s == nil || s.repos.Debts == nil {
		err = fmt.Errorf("debt repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "SettleDebt", "debt_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to settle debt", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("amount", money.FormatBRL(debt.AmountCents)).InfoContext(ctx, "debt settled")
	}()

	if debt, err = s.repos.Debts.GetDebt(ctx, id); err != nil {
		err = mapPaymentRepoError(err)
		return
	}
	if err = s.repos.Debts.DeleteDebt(ctx, id); err != nil {
		err = mapPaymentRepoError(err)
	}
	return
}

// CheckoutAppointment prices an appointment from the service list and keeps
// the result as the session's payment draft. Services no longer in the
// catalog are priced at zero.
func (s *PaymentService) CheckoutAppointment(ctx context.Context, sessionID, appointmentID string) (draft PaymentDraft, err error) {
	if s == nil || s.repos.Appointments == nil {
		err = fmt.Errorf("appointment repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CheckoutAppointment", "appointment_id", appointmentID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to check out appointment", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("amount", money.FormatBRL(draft.AmountCents)).InfoContext(ctx, "payment draft created")
	}()

	if strings.TrimSpace(sessionID) == "" {
		err = newValidationError("session", "session is required")
		return
	}

	var appointment Appointment
	if appointment, err = s.repos.Appointments.GetAppointment(ctx, appointmentID); err != nil {
		err = mapAppointmentRepoError(err)
		return
	}

	var prices map[string]int64
	if prices, err = s.priceList(ctx); err != nil {
		return
	}
	var amount int64
	for _, name := range appointment.ServiceNames {
		amount += prices[strings.ToLower(name)]
	}

	draft = PaymentDraft{
		ClientName:   appointment.ClientName,
		ServiceNames: append([]string(nil), appointment.ServiceNames...),
		AmountCents:  amount,
		Source:       DraftFromAppointment,
		SourceID:     appointment.ID,
		CreatedAt:    s.now(),
	}
	s.drafts.Store(sessionID, draft)
	return
}

// CheckoutProduct keeps a product sale as the session's payment draft.
func (s *PaymentService) CheckoutProduct(ctx context.Context, sessionID, productID string) (draft PaymentDraft, err error) {
	if s == nil || s.repos.Products == nil {
		err = fmt.Errorf("product repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CheckoutProduct", "product_id", productID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to check out product", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("amount", money.FormatBRL(draft.AmountCents)).InfoContext(ctx, "payment draft created")
	}()

	if strings.TrimSpace(sessionID) == "" {
		err = newValidationError("session", "session is required")
		return
	}

	var product Product
	if product, err = s.repos.Products.GetProduct(ctx, productID); err != nil {
		err = mapCatalogRepoError(err, "product")
		return
	}
	if product.StockStatus() == OutOfStock {
		err = newValidationError("product", "product is out of stock")
		return
	}

	draft = PaymentDraft{
		ServiceNames: []string{product.Name},
		AmountCents:  product.PriceCents,
		Source:       DraftFromProduct,
		SourceID:     product.ID,
		CreatedAt:    s.now(),
	}
	s.drafts.Store(sessionID, draft)
	return
}

// PaymentDraft returns the session's pending draft or ErrNotFound.
func (s *PaymentService) PaymentDraft(ctx context.Context, sessionID string) (PaymentDraft, error) {
	if s == nil {
		return PaymentDraft{}, ErrNotFound
	}
	draft, ok := s.drafts.Get(sessionID)
	if !ok {
		return PaymentDraft{}, ErrNotFound
	}
	return draft, nil
}

// ClearPaymentDraft drops the session's pending draft, if any.
func (s *PaymentService) ClearPaymentDraft(ctx context.Context, sessionID string) {
	if s == nil {
		return
	}
	s.drafts.Delete(sessionID)
	s.loggerWith(ctx, "ClearPaymentDraft").DebugContext(ctx, "payment draft cleared")
}

func (s *PaymentService) priceList(ctx context.Context) (map[string]int64, error) {
	prices := make(map[string]int64)
	if s.repos.Services == nil {
		return prices, nil
	}
	services, err := s.repos.Services.ListServices(ctx)
	if err != nil {
		return nil, mapCatalogRepoError(err, "services")
	}
	for _, service := range services {
		prices[strings.ToLower(service.Name)] = service.PriceCents
	}
	return prices, nil
}

func trimNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func mapPaymentRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrConstraintViolation), errors.Is(err, persistence.ErrForeignKeyViolation):
		return newValidationError("amountCents", "payment violates a constraint")
	}
	return err
}
