package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

type notificationDTO struct {
	ID        int64           `json:"id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"created_at"`
}

func (h *Handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	page, err := h.Notifications.List(r.Context(), c.UserID, pageQuery(r))
	if err != nil {
		writeError(w, err, "")
		return
	}
	dtos := lo.Map(page.Items, func(n domain.Notification, _ int) notificationDTO {
		return notificationDTO{
			ID:        n.ID,
			Kind:      string(n.Kind),
			Payload:   json.RawMessage(n.Payload),
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
	})
	writePage(w, "ok", dtos, page.Meta)
}

func (h *Handlers) unreadCount(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	n, err := h.Notifications.CountUnread(r.Context(), c.UserID)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusOK, "ok", map[string]int{"unread": n})
}

type markReadRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

func (h *Handlers) markNotificationsRead(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	var req markReadRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err, "invalid ids payload")
		return
	}
	if err := h.Notifications.MarkRead(r.Context(), c.UserID, req.IDs); err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusOK, "marked read", nil)
}
