package httpserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/JooruBackend/jooru-backend-sub001/internal/adapters/chat"
	"github.com/JooruBackend/jooru-backend-sub001/internal/auth"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

type chatDTO struct {
	ID             int64     `json:"id"`
	RequestID      int64     `json:"request_id"`
	ClientID       int64     `json:"client_id"`
	ProfessionalID int64     `json:"professional_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type messageDTO struct {
	ID        string     `json:"id"`
	ChatID    int64      `json:"chat_id"`
	SenderID  int64      `json:"sender_id"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toMessageDTO(m domain.Message) messageDTO {
	return messageDTO{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Body:      m.Body,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}

func (h *Handlers) listChats(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)
	chats, err := h.Chats.ListFor(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, err, "")
		return
	}
	out := lo.Map(chats, func(c domain.Chat, _ int) chatDTO {
		return chatDTO{
			ID:             c.ID,
			RequestID:      c.RequestID,
			ClientID:       c.ClientID,
			ProfessionalID: c.ProfessionalID,
			CreatedAt:      c.CreatedAt,
		}
	})
	writeData(w, http.StatusOK, "chats", out)
}

func (h *Handlers) listMessages(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)
	chatID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "")
		return
	}
	page := pageQuery(r)
	msgs, err := h.Chats.Messages(r.Context(), chatID, caller.UserID, page)
	if err != nil {
		writeError(w, err, "")
		return
	}
	out := lo.Map(msgs.Items, func(m domain.Message, _ int) messageDTO { return toMessageDTO(m) })
	writePage(w, "messages", out, msgs.Meta)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Origin policy is enforced at the edge.
	CheckOrigin: func(*http.Request) bool { return true },
}

// serveWS upgrades the connection and runs the socket until it closes. Auth
// uses the access token from the query string.
func (h *Handlers) serveWS(issuer *auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := issuer.Verify(r.URL.Query().Get("token"), "access")
		if err != nil {
			writeError(w, err, "")
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		c := chat.NewClient(h.Hub, conn, claims.UserID, h.ChatMsgRate, h.ChatMsgBurst)
		c.Run(r.Context())
	}
}
