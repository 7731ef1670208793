package domain

import "time"

type RequestStatus string

const (
	RequestDraft      RequestStatus = "draft"
	RequestOpen       RequestStatus = "open"
	RequestQuoted     RequestStatus = "quoted"
	RequestAccepted   RequestStatus = "accepted"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
	RequestCancelled  RequestStatus = "cancelled"
)

// requestTransitions lists the legal status moves. Everything else is a 409.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestDraft:      {RequestOpen, RequestCancelled},
	RequestOpen:       {RequestQuoted, RequestCancelled},
	RequestQuoted:     {RequestAccepted, RequestCancelled},
	RequestAccepted:   {RequestInProgress, RequestCancelled},
	RequestInProgress: {RequestCompleted, RequestCancelled},
}

func (s RequestStatus) CanMoveTo(next RequestStatus) bool {
	for _, n := range requestTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

type ServiceRequest struct {
	ID          int64         `json:"id"`
	ClientID    int64         `json:"client_id"`
	Category    string        `json:"category"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Address     *string       `json:"address,omitempty"`
	Budget      *float64      `json:"budget,omitempty"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type RequestsQuery struct {
	ClientID *int64
	Category *string
	Status   *RequestStatus
	Page     int
	PerPage  int
}

type QuoteStatus string

const (
	QuotePending   QuoteStatus = "pending"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteRejected  QuoteStatus = "rejected"
	QuoteWithdrawn QuoteStatus = "withdrawn"
)

type Quote struct {
	ID             int64       `json:"id"`
	RequestID      int64       `json:"request_id"`
	ProfessionalID int64       `json:"professional_id"`
	Amount         float64     `json:"amount"`
	Message        *string     `json:"message,omitempty"`
	Status         QuoteStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
