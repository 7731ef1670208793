// Package chat implements the realtime messaging hub: the presence registry,
// chat-room membership, typing indicators, and read receipts, layered over
// per-connection websocket pumps.
package chat

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/JooruBackend/jooru-backend-sub001/internal/adapters/observability"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

// Service is the slice of the chat application service the hub needs.
type Service interface {
	Authorize(ctx context.Context, chatID, userID int64) (domain.Chat, error)
	Send(ctx context.Context, chatID, senderID int64, body string, recipientOffline bool) (domain.Message, error)
	MarkRead(ctx context.Context, chatID, readerID int64, messageIDs []string) error
	ListFor(ctx context.Context, userID int64) ([]domain.Chat, error)
}

// Hub owns all shared chat state. Every map below is guarded by mu; socket
// goroutines never touch them directly.
type Hub struct {
	svc Service

	mu      sync.Mutex
	clients map[int64]map[*Client]struct{}   // userID -> open sockets
	rooms   map[int64]map[*Client]struct{}   // chatID -> joined sockets
	typing  map[int64]map[int64]struct{}     // chatID -> userIDs typing
}

func NewHub(svc Service) *Hub {
	return &Hub{
		svc:     svc,
		clients: make(map[int64]map[*Client]struct{}),
		rooms:   make(map[int64]map[*Client]struct{}),
		typing:  make(map[int64]map[int64]struct{}),
	}
}

// register adds the socket to the presence registry and announces the user to
// the peers of every chat it belongs to.
func (h *Hub) register(ctx context.Context, c *Client) {
	h.mu.Lock()
	first := len(h.clients[c.userID]) == 0
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*Client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
	h.mu.Unlock()

	observability.ChatConnections.Inc()
	observability.ObserveChatEvent("connect")

	if first {
		h.announcePresence(ctx, c.userID, EvPresenceOnline)
	}
}

// unregister tears the socket down: presence, room membership, and any typing
// state it left behind.
func (h *Hub) unregister(ctx context.Context, c *Client) {
	h.mu.Lock()
	delete(h.clients[c.userID], c)
	last := len(h.clients[c.userID]) == 0
	if last {
		delete(h.clients, c.userID)
	}
	var stoppedTyping []int64
	for chatID := range c.joined {
		delete(h.rooms[chatID], c)
		if len(h.rooms[chatID]) == 0 {
			delete(h.rooms, chatID)
		}
		if last {
			if _, ok := h.typing[chatID][c.userID]; ok {
				delete(h.typing[chatID], c.userID)
				stoppedTyping = append(stoppedTyping, chatID)
			}
		}
	}
	h.mu.Unlock()

	observability.ChatConnections.Dec()
	observability.ObserveChatEvent("disconnect")

	for _, chatID := range stoppedTyping {
		h.broadcast(chatID, c.userID, encode(outbound{
			Event: EvTyping, ChatID: chatID, UserID: c.userID, Typing: false,
		}))
	}
	if last {
		h.announcePresence(ctx, c.userID, EvPresenceOffline)
	}
}

// IsOnline reports whether the user has at least one open socket.
func (h *Hub) IsOnline(userID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID]) > 0
}

func (h *Hub) announcePresence(ctx context.Context, userID int64, event string) {
	chats, err := h.svc.ListFor(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("presence announce: list chats")
		return
	}
	for _, c := range chats {
		peer := c.OtherParticipant(userID)
		h.sendToUser(peer, encode(outbound{Event: event, UserID: userID}))
	}
}

// broadcast delivers frame to every socket joined to chatID except those of
// skipUserID (0 skips nobody).
func (h *Hub) broadcast(chatID, skipUserID int64, frame []byte) {
	h.mu.Lock()
	targets := make([]*Client, 0, len(h.rooms[chatID]))
	for c := range h.rooms[chatID] {
		if c.userID != skipUserID {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	for _, c := range targets {
		c.enqueue(frame)
	}
}

func (h *Hub) sendToUser(userID int64, frame []byte) {
	h.mu.Lock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		c.enqueue(frame)
	}
}

// ---- event handling ----

func (h *Hub) handle(ctx context.Context, c *Client, in inbound) {
	observability.ObserveChatEvent(in.Event)
	switch in.Event {
	case EvRoomJoin:
		h.handleJoin(ctx, c, in.ChatID)
	case EvRoomLeave:
		h.handleLeave(c, in.ChatID)
	case EvMessageSend:
		h.handleSend(ctx, c, in)
	case EvTypingStart:
		h.handleTyping(c, in.ChatID, true)
	case EvTypingStop:
		h.handleTyping(c, in.ChatID, false)
	case EvMessageRead:
		h.handleRead(ctx, c, in)
	default:
		c.enqueue(encode(outbound{Event: EvError, Error: "unknown event"}))
	}
}

func (h *Hub) handleJoin(ctx context.Context, c *Client, chatID int64) {
	if _, err := h.svc.Authorize(ctx, chatID, c.userID); err != nil {
		c.enqueue(encode(outbound{Event: EvError, ChatID: chatID, Error: "not a chat participant"}))
		return
	}
	h.mu.Lock()
	if h.rooms[chatID] == nil {
		h.rooms[chatID] = make(map[*Client]struct{})
	}
	h.rooms[chatID][c] = struct{}{}
	c.joined[chatID] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) handleLeave(c *Client, chatID int64) {
	h.mu.Lock()
	delete(h.rooms[chatID], c)
	if len(h.rooms[chatID]) == 0 {
		delete(h.rooms, chatID)
	}
	delete(c.joined, chatID)
	stillTyping := false
	if _, ok := h.typing[chatID][c.userID]; ok {
		delete(h.typing[chatID], c.userID)
		stillTyping = true
	}
	h.mu.Unlock()

	if stillTyping {
		h.broadcast(chatID, c.userID, encode(outbound{
			Event: EvTyping, ChatID: chatID, UserID: c.userID, Typing: false,
		}))
	}
}

func (h *Hub) handleSend(ctx context.Context, c *Client, in inbound) {
	if !c.limiter.Allow() {
		c.enqueue(encode(outbound{Event: EvError, ChatID: in.ChatID, Error: "rate limit exceeded"}))
		observability.ObserveChatEvent("rate_limited")
		return
	}
	chat, err := h.svc.Authorize(ctx, in.ChatID, c.userID)
	if err != nil {
		c.enqueue(encode(outbound{Event: EvError, ChatID: in.ChatID, Error: "not a chat participant"}))
		return
	}
	peerOffline := !h.IsOnline(chat.OtherParticipant(c.userID))
	m, err := h.svc.Send(ctx, in.ChatID, c.userID, in.Body, peerOffline)
	if err != nil {
		c.enqueue(encode(outbound{Event: EvError, ChatID: in.ChatID, Error: "message rejected"}))
		return
	}

	frame := encode(outbound{
		Event:     EvMessageNew,
		ChatID:    m.ChatID,
		UserID:    m.SenderID,
		MessageID: m.ID,
		Body:      m.Body,
	})
	h.broadcast(in.ChatID, 0, frame)
}

func (h *Hub) handleTyping(c *Client, chatID int64, start bool) {
	h.mu.Lock()
	member := false
	if _, ok := c.joined[chatID]; ok {
		member = true
		if start {
			if h.typing[chatID] == nil {
				h.typing[chatID] = make(map[int64]struct{})
			}
			h.typing[chatID][c.userID] = struct{}{}
		} else {
			delete(h.typing[chatID], c.userID)
		}
	}
	h.mu.Unlock()

	if !member {
		return
	}
	h.broadcast(chatID, c.userID, encode(outbound{
		Event: EvTyping, ChatID: chatID, UserID: c.userID, Typing: start,
	}))
}

func (h *Hub) handleRead(ctx context.Context, c *Client, in inbound) {
	if len(in.MessageIDs) == 0 {
		return
	}
	if err := h.svc.MarkRead(ctx, in.ChatID, c.userID, in.MessageIDs); err != nil {
		c.enqueue(encode(outbound{Event: EvError, ChatID: in.ChatID, Error: "read receipt rejected"}))
		return
	}
	h.broadcast(in.ChatID, c.userID, encode(outbound{
		Event:      EvMessageReadAck,
		ChatID:     in.ChatID,
		UserID:     c.userID,
		MessageIDs: in.MessageIDs,
	}))
}

// TypingUsers returns the users currently typing in a chat.
func (h *Hub) TypingUsers(chatID int64) []int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]int64, 0, len(h.typing[chatID]))
	for id := range h.typing[chatID] {
		out = append(out, id)
	}
	return out
}
