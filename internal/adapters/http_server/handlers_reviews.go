package httpserver

import (
	"net/http"

	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
)

type createReviewRequest struct {
	RequestID  int64   `json:"request_id" validate:"required,gt=0"`
	RevieweeID int64   `json:"reviewee_id" validate:"required,gt=0"`
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string `json:"comment" validate:"omitempty,max=5000"`
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	var req createReviewRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err, "invalid review payload")
		return
	}
	rv, err := h.Reviews.Create(r.Context(), c.UserID, app.CreateReviewInput{
		RequestID:  req.RequestID,
		RevieweeID: req.RevieweeID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusCreated, "review posted", rv)
}
