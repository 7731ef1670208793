package chat

import (
	"encoding/json"
	"time"
)

// Client-to-server event names.
const (
	EvMessageSend = "message:send"
	EvRoomJoin    = "room:join"
	EvRoomLeave   = "room:leave"
	EvTypingStart = "typing:start"
	EvTypingStop  = "typing:stop"
	EvMessageRead = "message:read"
)

// Server-to-client event names.
const (
	EvMessageNew      = "message:new"
	EvMessageReadAck  = "message:read"
	EvTyping          = "typing"
	EvPresenceOnline  = "presence:online"
	EvPresenceOffline = "presence:offline"
	EvError           = "error"
)

// inbound is the envelope every client frame must fit.
type inbound struct {
	Event      string   `json:"event"`
	ChatID     int64    `json:"chat_id"`
	Body       string   `json:"body,omitempty"`
	MessageIDs []string `json:"message_ids,omitempty"`
}

// outbound is the envelope for every server frame.
type outbound struct {
	Event      string    `json:"event"`
	ChatID     int64     `json:"chat_id,omitempty"`
	UserID     int64     `json:"user_id,omitempty"`
	MessageID  string    `json:"message_id,omitempty"`
	Body       string    `json:"body,omitempty"`
	MessageIDs []string  `json:"message_ids,omitempty"`
	Typing     bool      `json:"typing,omitempty"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

func encode(o outbound) []byte {
	o.At = time.Now().UTC()
	b, _ := json.Marshal(o)
	return b
}
