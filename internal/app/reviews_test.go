package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

// completedJob runs a request to completed with professional 2's quote
// accepted, which is the only state reviews are allowed in.
func completedJob(t *testing.T) (*app.ReviewService, *fakeUsers, *fakeCache, *fakeNotify, domain.ServiceRequest) {
	t.Helper()
	reqSvc, users, requests, _, _, sr := marketplace(t)
	ctx := context.Background()

	q, err := reqSvc.SubmitQuote(ctx, 2, sr.ID, app.SubmitQuoteInput{Amount: 100})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if _, err := reqSvc.AcceptQuote(ctx, sr.ClientID, q.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	for _, next := range []domain.RequestStatus{domain.RequestInProgress, domain.RequestCompleted} {
		if _, err := reqSvc.Move(ctx, sr.ClientID, sr.ID, next); err != nil {
			t.Fatalf("move to %s: %v", next, err)
		}
	}

	cache := &fakeCache{}
	notify := &fakeNotify{}
	pros := app.NewProfessionalService(users, cache, 10*time.Minute)
	svc := app.NewReviewService(&fakeReviews{users: users}, requests, pros, notify)
	return svc, users, cache, notify, sr
}

func TestCreateReview_ClientReviewsProfessional(t *testing.T) {
	svc, users, cache, notify, sr := completedJob(t)
	ctx := context.Background()

	// Prime the professional's cached view so invalidation is observable.
	users.profiles[2] = domain.ProfessionalProfile{UserID: 2, BusinessName: "Pro One", Category: "plumbing"}
	cache.store = map[string]any{"pros:profile:2": domain.ProfessionalView{UserID: 2}}

	rv, err := svc.Create(ctx, sr.ClientID, app.CreateReviewInput{
		RequestID: sr.ID, RevieweeID: 2, Rating: 5, Comment: pstr("great work"),
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if rv.ID == 0 || rv.Rating != 5 {
		t.Fatalf("unexpected review: %+v", rv)
	}
	if len(users.ratings) != 1 || users.ratings[0] != 5 {
		t.Fatalf("rating not applied: %v", users.ratings)
	}
	if _, still := cache.store["pros:profile:2"]; still {
		t.Fatalf("professional cache entry not invalidated")
	}
	if !notify.has(2, domain.NotifyReviewReceived) {
		t.Fatalf("reviewee not notified: %v", notify.calls)
	}
}

func TestCreateReview_ProfessionalReviewsClient_NoRatingRoll(t *testing.T) {
	svc, users, _, _, sr := completedJob(t)

	rv, err := svc.Create(context.Background(), 2, app.CreateReviewInput{
		RequestID: sr.ID, RevieweeID: sr.ClientID, Rating: 4,
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if rv.RevieweeID != sr.ClientID {
		t.Fatalf("unexpected reviewee: %+v", rv)
	}
	// Client ratings do not feed the professional aggregate.
	if len(users.ratings) != 0 {
		t.Fatalf("rating applied for client reviewee: %v", users.ratings)
	}
}

func TestCreateReview_Invariants(t *testing.T) {
	svc, _, _, _, sr := completedJob(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		reviewer int64
		in       app.CreateReviewInput
		want     error
	}{
		{"rating out of range", sr.ClientID, app.CreateReviewInput{RequestID: sr.ID, RevieweeID: 2, Rating: 6}, domain.ErrValidation},
		{"self review", sr.ClientID, app.CreateReviewInput{RequestID: sr.ID, RevieweeID: sr.ClientID, Rating: 3}, domain.ErrValidation},
		{"outsider reviewer", 3, app.CreateReviewInput{RequestID: sr.ID, RevieweeID: 2, Rating: 3}, domain.ErrForbidden},
		{"outsider reviewee", sr.ClientID, app.CreateReviewInput{RequestID: sr.ID, RevieweeID: 3, Rating: 3}, domain.ErrForbidden},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.reviewer, tc.in); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestCreateReview_OncePerRequestPerReviewer(t *testing.T) {
	svc, _, _, _, sr := completedJob(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, sr.ClientID, app.CreateReviewInput{RequestID: sr.ID, RevieweeID: 2, Rating: 4}); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if _, err := svc.Create(ctx, sr.ClientID, app.CreateReviewInput{RequestID: sr.ID, RevieweeID: 2, Rating: 2}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second review: want conflict, got %v", err)
	}
	// The other party still gets its own review.
	if _, err := svc.Create(ctx, 2, app.CreateReviewInput{RequestID: sr.ID, RevieweeID: sr.ClientID, Rating: 5}); err != nil {
		t.Fatalf("counterparty review: %v", err)
	}
}

func TestCreateReview_RequestMustBeCompleted(t *testing.T) {
	reqSvc, users, requests, _, _, sr := marketplace(t)
	ctx := context.Background()
	q, err := reqSvc.SubmitQuote(ctx, 2, sr.ID, app.SubmitQuoteInput{Amount: 100})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if _, err := reqSvc.AcceptQuote(ctx, sr.ClientID, q.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	pros := app.NewProfessionalService(users, &fakeCache{}, 10*time.Minute)
	svc := app.NewReviewService(&fakeReviews{users: users}, requests, pros, &fakeNotify{})
	if _, err := svc.Create(ctx, sr.ClientID, app.CreateReviewInput{RequestID: sr.ID, RevieweeID: 2, Rating: 4}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want conflict on accepted request, got %v", err)
	}
}
