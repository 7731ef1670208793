package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

const maxMessageLen = 4000

type ChatService struct {
	chats  domain.ChatRepository
	notify Notifier
}

func NewChatService(chats domain.ChatRepository, notify Notifier) *ChatService {
	return &ChatService{chats: chats, notify: notify}
}

func (s *ChatService) ListFor(ctx context.Context, userID int64) ([]domain.Chat, error) {
	return s.chats.ListChatsFor(ctx, userID)
}

// Authorize returns the chat if userID is one of its two participants.
func (s *ChatService) Authorize(ctx context.Context, chatID, userID int64) (domain.Chat, error) {
	c, err := s.chats.GetChat(ctx, chatID)
	if err != nil {
		return domain.Chat{}, err
	}
	if !c.HasParticipant(userID) {
		return domain.Chat{}, domain.ErrForbidden
	}
	return c, nil
}

func (s *ChatService) Messages(ctx context.Context, chatID, userID int64, pg domain.PageQuery) (domain.MessagesPage, error) {
	if _, err := s.Authorize(ctx, chatID, userID); err != nil {
		return domain.MessagesPage{}, err
	}
	items, total, err := s.chats.ListMessages(ctx, chatID, pg)
	if err != nil {
		return domain.MessagesPage{}, err
	}
	return domain.MessagesPage{Items: items, Meta: domain.NewPageMeta(pg.Page, pg.PerPage, total)}, nil
}

// Send persists a message and returns it. recipientOffline controls whether a
// new-message notification is queued; the hub passes true when the peer has no
// open socket.
func (s *ChatService) Send(ctx context.Context, chatID, senderID int64, body string, recipientOffline bool) (domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" || len(body) > maxMessageLen {
		return domain.Message{}, domain.ErrValidation
	}
	c, err := s.Authorize(ctx, chatID, senderID)
	if err != nil {
		return domain.Message{}, err
	}
	m := domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.chats.AppendMessage(ctx, m); err != nil {
		return domain.Message{}, err
	}
	if recipientOffline {
		s.notify.Notify(ctx, c.OtherParticipant(senderID), domain.NotifyNewMessage, map[string]any{
			"chat_id":    chatID,
			"message_id": m.ID,
			"sender_id":  senderID,
		})
	}
	return m, nil
}

// MarkRead stamps the given peer messages as read by readerID.
func (s *ChatService) MarkRead(ctx context.Context, chatID, readerID int64, messageIDs []string) error {
	if _, err := s.Authorize(ctx, chatID, readerID); err != nil {
		return err
	}
	return s.chats.MarkRead(ctx, chatID, readerID, messageIDs)
}
