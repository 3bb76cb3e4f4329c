package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type paymentFixture struct {
	svc          *PaymentService
	payments     *paymentRepoStub
	debts        *debtRepoStub
	appointments *appointmentRepoStub
	products     *productRepoStub
}

func newPaymentFixture() paymentFixture {
	debts := &debtRepoStub{}
	f := paymentFixture{
		payments:     &paymentRepoStub{debts: debts},
		debts:        debts,
		appointments: &appointmentRepoStub{},
		products:     &productRepoStub{},
	}
	f.svc = NewPaymentService(PaymentRepositories{
		Payments:     f.payments,
		Debts:        f.debts,
		Appointments: f.appointments,
		Services:     &serviceRepoStub{services: testServices()},
		Products:     f.products,
	}, time.Hour, sequenceIDs("pay"), fixedClock(testNow))
	return f
}

func TestPaymentService_RecordPayment(t *testing.T) {
	t.Run("a tab payment opens a debt", func(t *testing.T) {
		f := newPaymentFixture()

		payment, err := f.svc.RecordPayment(context.Background(), RecordPaymentInput{
			ClientName:   "Ana Beatriz",
			ServiceNames: []string{"Penteado"},
			AmountCents:  5000,
			Method:       PaymentTab,
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if !payment.PaidAt.Equal(testNow) {
			t.Fatalf("expected paid at to default to now, got %v", payment.PaidAt)
		}

		debts, err := f.svc.ListDebts(context.Background())
		if err != nil {
			t.Fatalf("expected debts, got %v", err)
		}
		if len(debts) != 1 {
			t.Fatalf("expected one debt, got %d", len(debts))
		}
		debt := debts[0]
		if debt.PaymentID == nil || *debt.PaymentID != payment.ID {
			t.Fatalf("expected debt to reference payment %s, got %v", payment.ID, debt.PaymentID)
		}
		if debt.AmountCents != 5000 || debt.Description != "Penteado" || debt.ClientName != "Ana Beatriz" {
			t.Fatalf("unexpected debt %+v", debt)
		}
	})

	t.Run("other methods do not open debts", func(t *testing.T) {
		f := newPaymentFixture()

		if _, err := f.svc.RecordPayment(context.Background(), RecordPaymentInput{
			ClientName:   "Carlos Silva",
			ServiceNames: []string{"Corte Degradê"},
			AmountCents:  4500,
			Method:       PaymentPix,
		}); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if len(f.debts.debts) != 0 {
			t.Fatalf("expected no debts, got %d", len(f.debts.debts))
		}
	})

	t.Run("validates input", func(t *testing.T) {
		f := newPaymentFixture()

		_, err := f.svc.RecordPayment(context.Background(), RecordPaymentInput{Method: "cheque"})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"clientName", "services", "amountCents", "method"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected %s error, got %v", field, vErr.FieldErrors)
			}
		}
	})
}

func TestPaymentService_ListPaymentsNewestFirst(t *testing.T) {
	f := newPaymentFixture()
	earlier := testNow.Add(-time.Hour)
	for _, input := range []RecordPaymentInput{
		{ClientName: "A", ServiceNames: []string{"Barba"}, AmountCents: 3000, Method: PaymentCash, PaidAt: &earlier},
		{ClientName: "B", ServiceNames: []string{"Barba"}, AmountCents: 3000, Method: PaymentCard},
	} {
		if _, err := f.svc.RecordPayment(context.Background(), input); err != nil {
			t.Fatalf("record payment: %v", err)
		}
	}

	payments, err := f.svc.ListPayments(context.Background())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if payments[0].ClientName != "B" || payments[1].ClientName != "A" {
		t.Fatalf("expected newest first, got %+v", payments)
	}
}

func TestPaymentService_SettleDebt(t *testing.T) {
	f := newPaymentFixture()

	debt, err := f.svc.OpenDebt(context.Background(), OpenDebtInput{ClientName: "Ricardo Gomes", Description: "Corte e Barba", AmountCents: 7500})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if debt.PaymentID != nil {
		t.Fatalf("expected a debt without payment")
	}

	settled, err := f.svc.SettleDebt(context.Background(), debt.ID)
	if err != nil {
		t.Fatalf("expected settle to succeed, got %v", err)
	}
	if settled.AmountCents != 7500 {
		t.Fatalf("expected settled debt to be returned, got %+v", settled)
	}
	if _, err := f.svc.SettleDebt(context.Background(), debt.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second settle, got %v", err)
	}
}

func TestPaymentService_CheckoutAppointment(t *testing.T) {
	f := newPaymentFixture()
	f.appointments.appointments = []Appointment{bookedAt("apt", "b-renato", "09:00", 105, "Corte Degradê", "Barba", "Serviço Removido")}

	draft, err := f.svc.CheckoutAppointment(context.Background(), "session-1", "apt")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if draft.AmountCents != 7500 {
		t.Fatalf("expected known prices to be summed, got %d", draft.AmountCents)
	}
	if draft.ClientName != "Cliente apt" || draft.Source != DraftFromAppointment || draft.SourceID != "apt" {
		t.Fatalf("unexpected draft %+v", draft)
	}

	stored, err := f.svc.PaymentDraft(context.Background(), "session-1")
	if err != nil || stored.AmountCents != 7500 {
		t.Fatalf("expected draft for session, got %+v / %v", stored, err)
	}
	if _, err := f.svc.PaymentDraft(context.Background(), "session-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected other sessions to have no draft, got %v", err)
	}

	f.svc.ClearPaymentDraft(context.Background(), "session-1")
	if _, err := f.svc.PaymentDraft(context.Background(), "session-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected draft to be cleared, got %v", err)
	}

	if _, err := f.svc.CheckoutAppointment(context.Background(), "session-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var vErr *ValidationError
	if _, err := f.svc.CheckoutAppointment(context.Background(), "", "apt"); !errors.As(err, &vErr) {
		t.Fatalf("expected session to be required, got %v", err)
	}
}

func TestPaymentService_CheckoutProduct(t *testing.T) {
	f := newPaymentFixture()
	f.products.products = []Product{
		{ID: "p-pomada", Name: "Pomada Modeladora", PriceCents: 2500, Stock: 10},
		{ID: "p-oleo", Name: "Óleo para Barba", PriceCents: 3000, Stock: 0},
	}

	draft, err := f.svc.CheckoutProduct(context.Background(), "session-1", "p-pomada")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if draft.AmountCents != 2500 || draft.Source != DraftFromProduct || draft.ServiceNames[0] != "Pomada Modeladora" {
		t.Fatalf("unexpected draft %+v", draft)
	}

	var vErr *ValidationError
	if _, err := f.svc.CheckoutProduct(context.Background(), "session-1", "p-oleo"); !errors.As(err, &vErr) {
		t.Fatalf("expected out of stock product to be rejected, got %v", err)
	}
}
