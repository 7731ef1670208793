package app

import (
	"context"
	"fmt"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

type RequestService struct {
	requests domain.RequestRepository
	users    domain.UserRepository
	chats    domain.ChatRepository
	notify   Notifier
}

func NewRequestService(requests domain.RequestRepository, users domain.UserRepository, chats domain.ChatRepository, notify Notifier) *RequestService {
	return &RequestService{requests: requests, users: users, chats: chats, notify: notify}
}

type CreateRequestInput struct {
	Category    string
	Title       string
	Description string
	Address     *string
	Budget      *float64
	Draft       bool
}

func (s *RequestService) Create(ctx context.Context, clientID int64, in CreateRequestInput) (domain.ServiceRequest, error) {
	sr := domain.ServiceRequest{
		ClientID:    clientID,
		Category:    in.Category,
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		Budget:      in.Budget,
		Status:      domain.RequestOpen,
	}
	if in.Draft {
		sr.Status = domain.RequestDraft
	}
	id, err := s.requests.CreateRequest(ctx, sr)
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	return s.requests.GetRequest(ctx, id)
}

// Get returns the request. Drafts are unpublished: to anyone but the owning
// client they do not exist.
func (s *RequestService) Get(ctx context.Context, actorID, id int64) (domain.ServiceRequest, error) {
	sr, err := s.requests.GetRequest(ctx, id)
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if sr.Status == domain.RequestDraft && sr.ClientID != actorID {
		return domain.ServiceRequest{}, domain.ErrNotFound
	}
	return sr, nil
}

func (s *RequestService) List(ctx context.Context, q domain.RequestsQuery) ([]domain.ServiceRequest, domain.PageMeta, error) {
	items, total, err := s.requests.ListRequests(ctx, q)
	if err != nil {
		return nil, domain.PageMeta{}, err
	}
	return items, domain.NewPageMeta(q.Page, q.PerPage, total), nil
}

// Move transitions the request through its lifecycle. Only the owning client
// may move it, and only along the legal edges.
func (s *RequestService) Move(ctx context.Context, actorID, requestID int64, next domain.RequestStatus) (domain.ServiceRequest, error) {
	sr, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return domain.ServiceRequest{}, err
	}
	if sr.ClientID != actorID {
		return domain.ServiceRequest{}, domain.ErrForbidden
	}
	if !sr.Status.CanMoveTo(next) {
		return domain.ServiceRequest{}, fmt.Errorf("%w: cannot move %s to %s", domain.ErrConflict, sr.Status, next)
	}
	if err := s.requests.SetRequestStatus(ctx, requestID, next); err != nil {
		return domain.ServiceRequest{}, err
	}
	sr.Status = next
	return sr, nil
}

type SubmitQuoteInput struct {
	Amount  float64
	Message *string
}

// SubmitQuote lets a professional quote an open (or already quoted) request.
// The first quote moves the request from open to quoted.
func (s *RequestService) SubmitQuote(ctx context.Context, proID, requestID int64, in SubmitQuoteInput) (domain.Quote, error) {
	pro, err := s.users.GetUser(ctx, proID)
	if err != nil {
		return domain.Quote{}, err
	}
	if pro.Role != domain.RoleProfessional {
		return domain.Quote{}, domain.ErrForbidden
	}
	sr, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return domain.Quote{}, err
	}
	if sr.ClientID == proID {
		return domain.Quote{}, domain.ErrForbidden
	}
	if sr.Status != domain.RequestOpen && sr.Status != domain.RequestQuoted {
		return domain.Quote{}, fmt.Errorf("%w: request is %s", domain.ErrConflict, sr.Status)
	}

	q := domain.Quote{
		RequestID:      requestID,
		ProfessionalID: proID,
		Amount:         in.Amount,
		Message:        in.Message,
		Status:         domain.QuotePending,
	}
	id, err := s.requests.CreateQuote(ctx, q)
	if err != nil {
		return domain.Quote{}, err
	}
	if sr.Status == domain.RequestOpen {
		if err := s.requests.SetRequestStatus(ctx, requestID, domain.RequestQuoted); err != nil {
			return domain.Quote{}, err
		}
	}

	s.notify.Notify(ctx, sr.ClientID, domain.NotifyQuoteReceived, map[string]any{
		"request_id": requestID,
		"quote_id":   id,
		"amount":     in.Amount,
	})
	return s.requests.GetQuote(ctx, id)
}

func (s *RequestService) ListRequestQuotes(ctx context.Context, actorID, requestID int64) ([]domain.Quote, error) {
	sr, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	quotes, err := s.requests.ListQuotes(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if sr.ClientID == actorID {
		return quotes, nil
	}
	// A professional sees only its own quote on someone else's request.
	var own []domain.Quote
	for _, q := range quotes {
		if q.ProfessionalID == actorID {
			own = append(own, q)
		}
	}
	return own, nil
}

// AcceptQuote accepts one pending quote: siblings are rejected, the request
// moves to accepted, and a chat is opened between the two parties.
func (s *RequestService) AcceptQuote(ctx context.Context, clientID, quoteID int64) (domain.Quote, error) {
	q, sr, err := s.quoteWithRequest(ctx, quoteID)
	if err != nil {
		return domain.Quote{}, err
	}
	if sr.ClientID != clientID {
		return domain.Quote{}, domain.ErrForbidden
	}
	if q.Status != domain.QuotePending {
		return domain.Quote{}, fmt.Errorf("%w: quote is %s", domain.ErrConflict, q.Status)
	}
	if sr.Status != domain.RequestQuoted {
		return domain.Quote{}, fmt.Errorf("%w: request is %s", domain.ErrConflict, sr.Status)
	}

	// The accept commits atomically: the repo re-checks both states under
	// lock, so two racing accepts cannot both win.
	rejected, err := s.requests.AcceptQuote(ctx, q.RequestID, quoteID)
	if err != nil {
		return domain.Quote{}, err
	}

	if _, err := s.chats.EnsureChat(ctx, domain.Chat{
		RequestID:      q.RequestID,
		ClientID:       sr.ClientID,
		ProfessionalID: q.ProfessionalID,
	}); err != nil {
		return domain.Quote{}, fmt.Errorf("open chat: %w", err)
	}

	s.notify.Notify(ctx, q.ProfessionalID, domain.NotifyQuoteAccepted, map[string]any{
		"request_id": q.RequestID,
		"quote_id":   quoteID,
	})
	for _, proID := range rejected {
		s.notify.Notify(ctx, proID, domain.NotifyQuoteRejected, map[string]any{
			"request_id": q.RequestID,
		})
	}

	q.Status = domain.QuoteAccepted
	return q, nil
}

func (s *RequestService) RejectQuote(ctx context.Context, clientID, quoteID int64) (domain.Quote, error) {
	q, sr, err := s.quoteWithRequest(ctx, quoteID)
	if err != nil {
		return domain.Quote{}, err
	}
	if sr.ClientID != clientID {
		return domain.Quote{}, domain.ErrForbidden
	}
	if q.Status != domain.QuotePending {
		return domain.Quote{}, fmt.Errorf("%w: quote is %s", domain.ErrConflict, q.Status)
	}
	if err := s.requests.SetQuoteStatus(ctx, quoteID, domain.QuoteRejected); err != nil {
		return domain.Quote{}, err
	}
	s.notify.Notify(ctx, q.ProfessionalID, domain.NotifyQuoteRejected, map[string]any{
		"request_id": q.RequestID,
		"quote_id":   quoteID,
	})
	q.Status = domain.QuoteRejected
	return q, nil
}

func (s *RequestService) WithdrawQuote(ctx context.Context, proID, quoteID int64) (domain.Quote, error) {
	q, err := s.requests.GetQuote(ctx, quoteID)
	if err != nil {
		return domain.Quote{}, err
	}
	if q.ProfessionalID != proID {
		return domain.Quote{}, domain.ErrForbidden
	}
	if q.Status != domain.QuotePending {
		return domain.Quote{}, fmt.Errorf("%w: quote is %s", domain.ErrConflict, q.Status)
	}
	if err := s.requests.SetQuoteStatus(ctx, quoteID, domain.QuoteWithdrawn); err != nil {
		return domain.Quote{}, err
	}
	q.Status = domain.QuoteWithdrawn
	return q, nil
}

func (s *RequestService) quoteWithRequest(ctx context.Context, quoteID int64) (domain.Quote, domain.ServiceRequest, error) {
	q, err := s.requests.GetQuote(ctx, quoteID)
	if err != nil {
		return domain.Quote{}, domain.ServiceRequest{}, err
	}
	sr, err := s.requests.GetRequest(ctx, q.RequestID)
	if err != nil {
		return domain.Quote{}, domain.ServiceRequest{}, err
	}
	return q, sr, nil
}
