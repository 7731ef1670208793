package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

type PaymentService struct {
	payments domain.PaymentRepository
	requests domain.RequestRepository
	notify   Notifier
}

func NewPaymentService(payments domain.PaymentRepository, requests domain.RequestRepository, notify Notifier) *PaymentService {
	return &PaymentService{payments: payments, requests: requests, notify: notify}
}

type CreatePaymentInput struct {
	QuoteID  int64
	Currency string
}

// Create records a payment against an accepted quote. Provider capture is
// external; the record is created as succeeded once the provider callback
// confirms, but we model the full lifecycle so a pending record can exist.
func (s *PaymentService) Create(ctx context.Context, payerID int64, in CreatePaymentInput) (domain.Payment, error) {
	q, err := s.requests.GetQuote(ctx, in.QuoteID)
	if err != nil {
		return domain.Payment{}, err
	}
	if q.Status != domain.QuoteAccepted {
		return domain.Payment{}, fmt.Errorf("%w: quote is %s", domain.ErrConflict, q.Status)
	}
	sr, err := s.requests.GetRequest(ctx, q.RequestID)
	if err != nil {
		return domain.Payment{}, err
	}
	if sr.ClientID != payerID {
		return domain.Payment{}, domain.ErrForbidden
	}

	currency := in.Currency
	if currency == "" {
		currency = "EUR"
	}
	p := domain.Payment{
		QuoteID:   in.QuoteID,
		PayerID:   payerID,
		PayeeID:   q.ProfessionalID,
		Amount:    q.Amount,
		Currency:  currency,
		Reference: uuid.NewString(),
		Status:    domain.PaymentSucceeded,
	}
	id, err := s.payments.CreatePayment(ctx, p)
	if err != nil {
		return domain.Payment{}, err
	}
	p.ID = id

	// Invoice is issued alongside the successful payment.
	items, _ := json.Marshal([]map[string]any{{
		"description": sr.Title,
		"quote_id":    q.ID,
		"amount":      q.Amount,
		"currency":    currency,
	}})
	if _, err := s.payments.CreateInvoice(ctx, domain.Invoice{
		PaymentID: id,
		Number:    invoiceNumber(id),
		ItemsJSON: items,
	}); err != nil {
		return domain.Payment{}, fmt.Errorf("issue invoice: %w", err)
	}

	s.notify.Notify(ctx, p.PayeeID, domain.NotifyPaymentDone, map[string]any{
		"payment_id": id,
		"amount":     p.Amount,
		"currency":   currency,
	})
	return s.payments.GetPayment(ctx, id)
}

// Get enforces that only a party to the payment (or an admin) can read it.
func (s *PaymentService) Get(ctx context.Context, actorID int64, actorRole domain.Role, id int64) (domain.Payment, error) {
	p, err := s.payments.GetPayment(ctx, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if actorRole != domain.RoleAdmin && p.PayerID != actorID && p.PayeeID != actorID {
		return domain.Payment{}, domain.ErrForbidden
	}
	return p, nil
}

func (s *PaymentService) List(ctx context.Context, q domain.PaymentsQuery) ([]domain.Payment, domain.PageMeta, error) {
	items, total, err := s.payments.ListPayments(ctx, q)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return items, domain.NewPageMeta(q.Page, q.PerPage, total), nil
}

// Refund flips a succeeded payment to refunded. Only the payer may ask.
func (s *PaymentService) Refund(ctx context.Context, actorID int64, id int64) (domain.Payment, error) {
	p, err := s.payments.GetPayment(ctx, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if p.PayerID != actorID {
		return domain.Payment{}, domain.ErrForbidden
	}
	if p.Status != domain.PaymentSucceeded {
		return domain.Payment{}, fmt.Errorf("%w: payment is %s", domain.ErrConflict, p.Status)
	}
	if err := s.payments.SetPaymentStatus(ctx, id, domain.PaymentRefunded); err != nil {
		return domain.Payment{}, err
	}
	p.Status = domain.PaymentRefunded
	return p, nil
}

func (s *PaymentService) GetInvoice(ctx context.Context, actorID int64, actorRole domain.Role, id int64) (domain.Invoice, error) {
	inv, err := s.payments.GetInvoice(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if _, err := s.Get(ctx, actorID, actorRole, inv.PaymentID); err != nil {
		return domain.Invoice{}, err
	}
	return inv, nil
}

type PaymentMethodInput struct {
	Kind      string
	Label     string
	Last4     *string
	IsDefault bool
}

func (s *PaymentService) AddMethod(ctx context.Context, userID int64, in PaymentMethodInput) (int64, error) {
	return s.payments.AddPaymentMethod(ctx, domain.PaymentMethod{
		UserID:    userID,
		Kind:      in.Kind,
		Label:     in.Label,
		Last4:     in.Last4,
		IsDefault: in.IsDefault,
	})
}

func (s *PaymentService) DeleteMethod(ctx context.Context, userID, id int64) error {
	return s.payments.DeletePaymentMethod(ctx, userID, id)
}

func (s *PaymentService) ListMethods(ctx context.Context, userID int64) ([]domain.PaymentMethod, error) {
	return s.payments.ListPaymentMethods(ctx, userID)
}

func invoiceNumber(paymentID int64) string {
	return fmt.Sprintf("INV-%s-%06d", time.Now().UTC().Format("200601"), paymentID)
}
