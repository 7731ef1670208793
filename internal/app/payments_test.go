package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

// acceptedQuote drives a request through quoting and acceptance so payment
// tests start from a payable state.
func acceptedQuote(t *testing.T) (*app.PaymentService, *fakePayments, *fakeNotify, domain.ServiceRequest, domain.Quote) {
	t.Helper()
	reqSvc, _, requests, _, _, sr := marketplace(t)
	ctx := context.Background()

	q, err := reqSvc.SubmitQuote(ctx, 2, sr.ID, app.SubmitQuoteInput{Amount: 150})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if _, err := reqSvc.AcceptQuote(ctx, sr.ClientID, q.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	q, _ = requests.GetQuote(ctx, q.ID)

	payments := newFakePayments()
	notify := &fakeNotify{}
	return app.NewPaymentService(payments, requests, notify), payments, notify, sr, q
}

func TestCreatePayment_SucceedsAndIssuesInvoice(t *testing.T) {
	svc, payments, notify, sr, q := acceptedQuote(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, sr.ClientID, app.CreatePaymentInput{QuoteID: q.ID})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if p.Status != domain.PaymentSucceeded || p.Amount != 150 || p.Currency != "EUR" {
		t.Fatalf("unexpected payment: %+v", p)
	}
	if p.Reference == "" {
		t.Fatalf("missing reference")
	}
	if !notify.has(q.ProfessionalID, domain.NotifyPaymentDone) {
		t.Fatalf("payee not notified: %v", notify.calls)
	}

	var inv domain.Invoice
	for _, v := range payments.invoices {
		inv = v
	}
	if inv.PaymentID != p.ID || !strings.HasPrefix(inv.Number, "INV-") {
		t.Fatalf("unexpected invoice: %+v", inv)
	}
	var items []map[string]any
	if err := json.Unmarshal(inv.ItemsJSON, &items); err != nil || len(items) != 1 {
		t.Fatalf("invoice items: %v %v", err, items)
	}
}

func TestCreatePayment_PendingQuoteConflicts(t *testing.T) {
	reqSvc, _, requests, _, _, sr := marketplace(t)
	ctx := context.Background()
	q, err := reqSvc.SubmitQuote(ctx, 2, sr.ID, app.SubmitQuoteInput{Amount: 80})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	svc := app.NewPaymentService(newFakePayments(), requests, &fakeNotify{})
	if _, err := svc.Create(ctx, sr.ClientID, app.CreatePaymentInput{QuoteID: q.ID}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestCreatePayment_OnlyRequestClientPays(t *testing.T) {
	svc, _, _, _, q := acceptedQuote(t)
	if _, err := svc.Create(context.Background(), 3, app.CreatePaymentInput{QuoteID: q.ID}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want forbidden, got %v", err)
	}
}

func TestRefund_PayerOnlyAndOnce(t *testing.T) {
	svc, _, _, sr, q := acceptedQuote(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, sr.ClientID, app.CreatePaymentInput{QuoteID: q.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Refund(ctx, q.ProfessionalID, p.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("payee refund: want forbidden, got %v", err)
	}
	r, err := svc.Refund(ctx, sr.ClientID, p.ID)
	if err != nil || r.Status != domain.PaymentRefunded {
		t.Fatalf("refund: %v %+v", err, r)
	}
	if _, err := svc.Refund(ctx, sr.ClientID, p.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("double refund: want conflict, got %v", err)
	}
}

func TestGetPayment_PartyOrAdmin(t *testing.T) {
	svc, _, _, sr, q := acceptedQuote(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, sr.ClientID, app.CreatePaymentInput{QuoteID: q.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, 42, domain.RoleClient, p.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger read: want forbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, q.ProfessionalID, domain.RoleProfessional, p.ID); err != nil {
		t.Fatalf("payee read: %v", err)
	}
	if _, err := svc.Get(ctx, 42, domain.RoleAdmin, p.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
}

func TestPaymentMethods_DeleteScopedToOwner(t *testing.T) {
	svc, _, _, _, _ := acceptedQuote(t)
	ctx := context.Background()

	id, err := svc.AddMethod(ctx, 1, app.PaymentMethodInput{Kind: "card", Label: "Visa", Last4: pstr("4242")})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.DeleteMethod(ctx, 2, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign delete: want not found, got %v", err)
	}
	if err := svc.DeleteMethod(ctx, 1, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
