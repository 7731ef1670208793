package domain

import "context"

// PageMeta is the pagination block attached to list responses.
type PageMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPageMeta(page, perPage, total int) PageMeta {
	tp := 0
	if perPage > 0 {
		tp = (total + perPage - 1) / perPage
	}
	return PageMeta{Page: page, PerPage: perPage, Total: total, TotalPages: tp}
}

type PageQuery struct {
	Page    int
	PerPage int
}

func (q PageQuery) Offset() int { return (q.Page - 1) * q.PerPage }

type UserRepository interface {
	CreateUser(ctx context.Context, u User) (int64, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, u User) error
	SetUserStatus(ctx context.Context, id int64, status UserStatus) error
	ListUsers(ctx context.Context, pg PageQuery) ([]User, int, error)

	UpsertProfile(ctx context.Context, p ProfessionalProfile) error
	GetProfile(ctx context.Context, userID int64) (ProfessionalProfile, error)
	ListProfessionals(ctx context.Context, q ProfessionalsQuery) ([]ProfessionalView, int, error)
}

type RequestRepository interface {
	CreateRequest(ctx context.Context, r ServiceRequest) (int64, error)
	GetRequest(ctx context.Context, id int64) (ServiceRequest, error)
	SetRequestStatus(ctx context.Context, id int64, status RequestStatus) error
	ListRequests(ctx context.Context, q RequestsQuery) ([]ServiceRequest, int, error)

	CreateQuote(ctx context.Context, q Quote) (int64, error)
	GetQuote(ctx context.Context, id int64) (Quote, error)
	SetQuoteStatus(ctx context.Context, id int64, status QuoteStatus) error
	// AcceptQuote accepts the quote, rejects its pending siblings, and moves
	// the request to accepted, all in one transaction. The quote must still
	// be pending and the request still quoted, re-checked under lock;
	// otherwise ErrConflict. Returns the professional ids whose quotes were
	// rejected.
	AcceptQuote(ctx context.Context, requestID, quoteID int64) ([]int64, error)
	ListQuotes(ctx context.Context, requestID int64) ([]Quote, error)
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, p Payment) (int64, error)
	GetPayment(ctx context.Context, id int64) (Payment, error)
	SetPaymentStatus(ctx context.Context, id int64, status PaymentStatus) error
	ListPayments(ctx context.Context, q PaymentsQuery) ([]Payment, int, error)

	CreateInvoice(ctx context.Context, inv Invoice) (int64, error)
	GetInvoice(ctx context.Context, id int64) (Invoice, error)

	AddPaymentMethod(ctx context.Context, m PaymentMethod) (int64, error)
	DeletePaymentMethod(ctx context.Context, userID, id int64) error
	ListPaymentMethods(ctx context.Context, userID int64) ([]PaymentMethod, error)
}

type ReviewRepository interface {
	// CreateReview persists the review; when rollRating is set the reviewee's
	// professional rating aggregate is folded forward in the same
	// transaction.
	CreateReview(ctx context.Context, r Review, rollRating bool) (int64, error)
	// HasReview reports whether reviewer already reviewed this request.
	HasReview(ctx context.Context, requestID, reviewerID int64) (bool, error)
	ListReviewsFor(ctx context.Context, revieweeID int64, pg PageQuery) ([]Review, int, error)
}

type ChatRepository interface {
	EnsureChat(ctx context.Context, c Chat) (Chat, error)
	GetChat(ctx context.Context, id int64) (Chat, error)
	ListChatsFor(ctx context.Context, userID int64) ([]Chat, error)
	AppendMessage(ctx context.Context, m Message) error
	ListMessages(ctx context.Context, chatID int64, pg PageQuery) ([]Message, int, error)
	MarkRead(ctx context.Context, chatID int64, readerID int64, messageIDs []string) error
}

type NotificationRepository interface {
	CreateNotifications(ctx context.Context, ns []Notification) error
	ListNotifications(ctx context.Context, userID int64, pg PageQuery) ([]Notification, int, error)
	MarkNotificationsRead(ctx context.Context, userID int64, ids []int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)
	// DequeueBatch claims up to limit queued notifications for the fanout
	// worker, flipping queued off so a crashed worker cannot double-claim
	// the same rows on restart.
	DequeueBatch(ctx context.Context, limit int) ([]Notification, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
