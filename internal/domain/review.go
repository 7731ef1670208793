package domain

import "time"

type Review struct {
	ID         int64     `json:"id"`
	RequestID  int64     `json:"request_id"`
	ReviewerID int64     `json:"reviewer_id"`
	RevieweeID int64     `json:"reviewee_id"`
	Rating     int       `json:"rating"` // 1..5
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReviewsPage struct {
	Items []Review
	Meta  PageMeta
}
