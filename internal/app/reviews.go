package app

import (
	"context"
	"fmt"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

type ReviewService struct {
	reviews  domain.ReviewRepository
	requests domain.RequestRepository
	pros     *ProfessionalService
	notify   Notifier
}

func NewReviewService(reviews domain.ReviewRepository, requests domain.RequestRepository, pros *ProfessionalService, notify Notifier) *ReviewService {
	return &ReviewService{reviews: reviews, requests: requests, pros: pros, notify: notify}
}

type CreateReviewInput struct {
	RequestID  int64
	RevieweeID int64
	Rating     int
	Comment    *string
}

// Create enforces the review invariants: the request must be completed, the
// reviewer must be a party to it, reviewer and reviewee must differ, and a
// reviewer gets one review per request.
func (s *ReviewService) Create(ctx context.Context, reviewerID int64, in CreateReviewInput) (domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return domain.Review{}, fmt.Errorf("%w: rating must be 1..5", domain.ErrValidation)
	}
	if reviewerID == in.RevieweeID {
		return domain.Review{}, fmt.Errorf("%w: reviewer and reviewee must differ", domain.ErrValidation)
	}

	sr, err := s.requests.GetRequest(ctx, in.RequestID)
	if err != nil {
		return domain.Review{}, err
	}
	if sr.Status != domain.RequestCompleted {
		return domain.Review{}, fmt.Errorf("%w: request is %s", domain.ErrConflict, sr.Status)
	}

	// Both parties of the accepted quote may review each other.
	quotes, err := s.requests.ListQuotes(ctx, in.RequestID)
	if err != nil {
		return domain.Review{}, err
	}
	var acceptedPro int64
	for _, q := range quotes {
		if q.Status == domain.QuoteAccepted {
			acceptedPro = q.ProfessionalID
			break
		}
	}
	parties := map[int64]bool{sr.ClientID: true, acceptedPro: acceptedPro != 0}
	if !parties[reviewerID] || !parties[in.RevieweeID] {
		return domain.Review{}, domain.ErrForbidden
	}

	if done, err := s.reviews.HasReview(ctx, in.RequestID, reviewerID); err != nil {
		return domain.Review{}, err
	} else if done {
		return domain.Review{}, fmt.Errorf("%w: already reviewed", domain.ErrConflict)
	}

	rv := domain.Review{
		RequestID:  in.RequestID,
		ReviewerID: reviewerID,
		RevieweeID: in.RevieweeID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	// Reviews of the professional roll its public rating aggregate forward,
	// in the same transaction as the insert.
	rollRating := in.RevieweeID == acceptedPro
	id, err := s.reviews.CreateReview(ctx, rv, rollRating)
	if err != nil {
		return domain.Review{}, err
	}
	rv.ID = id
	if rollRating {
		s.pros.Invalidate(ctx, acceptedPro)
	}

	s.notify.Notify(ctx, in.RevieweeID, domain.NotifyReviewReceived, map[string]any{
		"request_id": in.RequestID,
		"review_id":  id,
		"rating":     in.Rating,
	})
	return rv, nil
}

func (s *ReviewService) ListFor(ctx context.Context, revieweeID int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	items, total, err := s.reviews.ListReviewsFor(ctx, revieweeID, pg)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.ReviewsPage{Items: items, Meta: domain.NewPageMeta(pg.Page, pg.PerPage, total)}, nil
}
