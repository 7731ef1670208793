package domain

import "time"

// Chat is the per-request conversation between the request's client and a
// quoting professional. One chat per service request.
type Chat struct {
	ID             int64
	RequestID      int64
	ClientID       int64
	ProfessionalID int64
	CreatedAt      time.Time
}

func (c Chat) HasParticipant(userID int64) bool {
	return c.ClientID == userID || c.ProfessionalID == userID
}

// OtherParticipant returns the peer of userID, or 0 if userID is not a member.
func (c Chat) OtherParticipant(userID int64) int64 {
	switch userID {
	case c.ClientID:
		return c.ProfessionalID
	case c.ProfessionalID:
		return c.ClientID
	}
	return 0
}

type Message struct {
	ID        string // uuid, assigned on persist
	ChatID    int64
	SenderID  int64
	Body      string
	CreatedAt time.Time
	ReadAt    *time.Time
}

type MessagesPage struct {
	Items []Message
	Meta  PageMeta
}
