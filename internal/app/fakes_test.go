package app_test

import (
	"context"
	"fmt"

	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

// ---- fakes shared by the service tests ----

type fakeUsers struct {
	users    map[int64]domain.User
	profiles map[int64]domain.ProfessionalProfile
	pros     []domain.ProfessionalView
	nextID   int64
	ratings  []int // rating rolls, in order
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:    map[int64]domain.User{},
		profiles: map[int64]domain.ProfessionalProfile{},
	}
}

func (f *fakeUsers) add(u domain.User) domain.User {
	if u.ID == 0 {
		f.nextID++
		u.ID = f.nextID
	} else if u.ID > f.nextID {
		f.nextID = u.ID
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUsers) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	for _, ex := range f.users {
		if ex.Email == u.Email {
			return 0, domain.ErrConflict
		}
	}
	return f.add(u).ID, nil
}

func (f *fakeUsers) GetUser(ctx context.Context, id int64) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) UpdateUser(ctx context.Context, u domain.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) SetUserStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	u := f.users[id]
	u.Status = status
	f.users[id] = u
	return nil
}

func (f *fakeUsers) ListUsers(ctx context.Context, pg domain.PageQuery) ([]domain.User, int, error) {
	var out []domain.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (f *fakeUsers) UpsertProfile(ctx context.Context, p domain.ProfessionalProfile) error {
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeUsers) GetProfile(ctx context.Context, userID int64) (domain.ProfessionalProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return domain.ProfessionalProfile{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeUsers) ListProfessionals(ctx context.Context, q domain.ProfessionalsQuery) ([]domain.ProfessionalView, int, error) {
	// Return a copy: a real repo yields fresh rows per query, so cached pages
	// must not alias the fake's backing slice.
	out := append([]domain.ProfessionalView(nil), f.pros...)
	return out, len(out), nil
}

type fakeRequests struct {
	requests map[int64]domain.ServiceRequest
	quotes   map[int64]domain.Quote
	nextID   int64
}

func newFakeRequests() *fakeRequests {
	return &fakeRequests{
		requests: map[int64]domain.ServiceRequest{},
		quotes:   map[int64]domain.Quote{},
	}
}

func (f *fakeRequests) CreateRequest(ctx context.Context, r domain.ServiceRequest) (int64, error) {
	f.nextID++
	r.ID = f.nextID
	f.requests[r.ID] = r
	return r.ID, nil
}

func (f *fakeRequests) GetRequest(ctx context.Context, id int64) (domain.ServiceRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return domain.ServiceRequest{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRequests) SetRequestStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	r := f.requests[id]
	r.Status = status
	f.requests[id] = r
	return nil
}

func (f *fakeRequests) ListRequests(ctx context.Context, q domain.RequestsQuery) ([]domain.ServiceRequest, int, error) {
	var out []domain.ServiceRequest
	for _, r := range f.requests {
		out = append(out, r)
	}
	return out, len(out), nil
}

func (f *fakeRequests) CreateQuote(ctx context.Context, q domain.Quote) (int64, error) {
	for _, ex := range f.quotes {
		if ex.RequestID == q.RequestID && ex.ProfessionalID == q.ProfessionalID {
			return 0, domain.ErrConflict
		}
	}
	f.nextID++
	q.ID = f.nextID
	f.quotes[q.ID] = q
	return q.ID, nil
}

func (f *fakeRequests) GetQuote(ctx context.Context, id int64) (domain.Quote, error) {
	q, ok := f.quotes[id]
	if !ok {
		return domain.Quote{}, domain.ErrNotFound
	}
	return q, nil
}

func (f *fakeRequests) SetQuoteStatus(ctx context.Context, id int64, status domain.QuoteStatus) error {
	q := f.quotes[id]
	q.Status = status
	f.quotes[id] = q
	return nil
}

func (f *fakeRequests) AcceptQuote(ctx context.Context, requestID, quoteID int64) ([]int64, error) {
	r, ok := f.requests[requestID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	q, ok := f.quotes[quoteID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	// Same re-validation the real repo does under lock.
	if r.Status != domain.RequestQuoted || q.Status != domain.QuotePending {
		return nil, domain.ErrConflict
	}
	q.Status = domain.QuoteAccepted
	f.quotes[quoteID] = q
	var pros []int64
	for id, sib := range f.quotes {
		if sib.RequestID == requestID && id != quoteID && sib.Status == domain.QuotePending {
			sib.Status = domain.QuoteRejected
			f.quotes[id] = sib
			pros = append(pros, sib.ProfessionalID)
		}
	}
	r.Status = domain.RequestAccepted
	f.requests[requestID] = r
	return pros, nil
}

func (f *fakeRequests) ListQuotes(ctx context.Context, requestID int64) ([]domain.Quote, error) {
	var out []domain.Quote
	for _, q := range f.quotes {
		if q.RequestID == requestID {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeChats struct {
	chats    map[int64]domain.Chat
	messages map[int64][]domain.Message
	nextID   int64
}

func newFakeChats() *fakeChats {
	return &fakeChats{chats: map[int64]domain.Chat{}, messages: map[int64][]domain.Message{}}
}

func (f *fakeChats) EnsureChat(ctx context.Context, c domain.Chat) (domain.Chat, error) {
	for _, ex := range f.chats {
		if ex.RequestID == c.RequestID {
			return ex, nil
		}
	}
	f.nextID++
	c.ID = f.nextID
	f.chats[c.ID] = c
	return c, nil
}

func (f *fakeChats) GetChat(ctx context.Context, id int64) (domain.Chat, error) {
	c, ok := f.chats[id]
	if !ok {
		return domain.Chat{}, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeChats) ListChatsFor(ctx context.Context, userID int64) ([]domain.Chat, error) {
	var out []domain.Chat
	for _, c := range f.chats {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChats) AppendMessage(ctx context.Context, m domain.Message) error {
	f.messages[m.ChatID] = append(f.messages[m.ChatID], m)
	return nil
}

func (f *fakeChats) ListMessages(ctx context.Context, chatID int64, pg domain.PageQuery) ([]domain.Message, int, error) {
	ms := f.messages[chatID]
	return ms, len(ms), nil
}

func (f *fakeChats) MarkRead(ctx context.Context, chatID, readerID int64, messageIDs []string) error {
	return nil
}

type fakeReviews struct {
	reviews []domain.Review
	users   *fakeUsers // rating rolls land on this aggregate
	nextID  int64
}

func (f *fakeReviews) CreateReview(ctx context.Context, r domain.Review, rollRating bool) (int64, error) {
	for _, ex := range f.reviews {
		if ex.RequestID == r.RequestID && ex.ReviewerID == r.ReviewerID {
			return 0, domain.ErrConflict
		}
	}
	f.nextID++
	r.ID = f.nextID
	f.reviews = append(f.reviews, r)
	if rollRating && f.users != nil {
		f.users.ratings = append(f.users.ratings, r.Rating)
		p := f.users.profiles[r.RevieweeID]
		p.RatingAvg = (p.RatingAvg*float64(p.RatingCount) + float64(r.Rating)) / float64(p.RatingCount+1)
		p.RatingCount++
		f.users.profiles[r.RevieweeID] = p
	}
	return r.ID, nil
}

func (f *fakeReviews) HasReview(ctx context.Context, requestID, reviewerID int64) (bool, error) {
	for _, r := range f.reviews {
		if r.RequestID == requestID && r.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviews) ListReviewsFor(ctx context.Context, revieweeID int64, pg domain.PageQuery) ([]domain.Review, int, error) {
	var out []domain.Review
	for _, r := range f.reviews {
		if r.RevieweeID == revieweeID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

type fakePayments struct {
	payments map[int64]domain.Payment
	invoices map[int64]domain.Invoice
	methods  map[int64]domain.PaymentMethod
	nextID   int64
}

func newFakePayments() *fakePayments {
	return &fakePayments{
		payments: map[int64]domain.Payment{},
		invoices: map[int64]domain.Invoice{},
		methods:  map[int64]domain.PaymentMethod{},
	}
}

func (f *fakePayments) CreatePayment(ctx context.Context, p domain.Payment) (int64, error) {
	f.nextID++
	p.ID = f.nextID
	f.payments[p.ID] = p
	return p.ID, nil
}

func (f *fakePayments) GetPayment(ctx context.Context, id int64) (domain.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return domain.Payment{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakePayments) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	p := f.payments[id]
	p.Status = status
	f.payments[id] = p
	return nil
}

func (f *fakePayments) ListPayments(ctx context.Context, q domain.PaymentsQuery) ([]domain.Payment, int, error) {
	var out []domain.Payment
	for _, p := range f.payments {
		if p.PayerID == q.UserID || p.PayeeID == q.UserID {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (f *fakePayments) CreateInvoice(ctx context.Context, inv domain.Invoice) (int64, error) {
	f.nextID++
	inv.ID = f.nextID
	f.invoices[inv.ID] = inv
	return inv.ID, nil
}

func (f *fakePayments) GetInvoice(ctx context.Context, id int64) (domain.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return inv, nil
}

func (f *fakePayments) AddPaymentMethod(ctx context.Context, m domain.PaymentMethod) (int64, error) {
	f.nextID++
	m.ID = f.nextID
	f.methods[m.ID] = m
	return m.ID, nil
}

func (f *fakePayments) DeletePaymentMethod(ctx context.Context, userID, id int64) error {
	m, ok := f.methods[id]
	if !ok || m.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.methods, id)
	return nil
}

func (f *fakePayments) ListPaymentMethods(ctx context.Context, userID int64) ([]domain.PaymentMethod, error) {
	var out []domain.PaymentMethod
	for _, m := range f.methods {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeNotify records Notify calls as "userID:kind" strings.
type fakeNotify struct{ calls []string }

func (f *fakeNotify) Notify(ctx context.Context, userID int64, kind domain.NotificationKind, payload any) {
	f.calls = append(f.calls, fmt.Sprintf("%d:%s", userID, kind))
}

func (f *fakeNotify) has(userID int64, kind domain.NotificationKind) bool {
	want := fmt.Sprintf("%d:%s", userID, kind)
	for _, c := range f.calls {
		if c == want {
			return true
		}
	}
	return false
}

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.ProfessionalView:
		*d = v.(domain.ProfessionalView)
	case *app.ProfessionalsPage:
		*d = v.(app.ProfessionalsPage)
	case *int:
		*d = v.(int)
	default:
		return false, nil
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }
