package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	ID        int64         `json:"id"`
	QuoteID   int64         `json:"quote_id"`
	PayerID   int64         `json:"payer_id"`
	PayeeID   int64         `json:"payee_id"`
	Amount    float64       `json:"amount"`
	Currency  string        `json:"currency"`
	Reference string        `json:"reference"` // uuid, stable across provider callbacks
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type PaymentsQuery struct {
	UserID  int64 // payer or payee
	Status  *PaymentStatus
	Page    int
	PerPage int
}

type Invoice struct {
	ID        int64
	PaymentID int64
	Number    string
	IssuedAt  time.Time
	ItemsJSON []byte // line items as stored
}

type PaymentMethod struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Kind      string    `json:"kind"` // card|bank|wallet
	Label     string    `json:"label"`
	Last4     *string   `json:"last4,omitempty"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}
