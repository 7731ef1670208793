package httpserver

import (
	"net/http"

	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
	"github.com/samber/lo"
)

func (h *Handlers) getMe(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	u, err := h.Users.Get(r.Context(), c.UserID)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusOK, "ok", toUserDTO(u))
}

type patchUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	City     *string `json:"city" validate:"omitempty,max=128"`
}

func (h *Handlers) patchMe(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	var req patchUserRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err, "invalid user payload")
		return
	}
	u, err := h.Users.Update(r.Context(), c.UserID, app.UpdateUserInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		City:     req.City,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusOK, "updated", toUserDTO(u))
}

// getUser serves a trimmed public view of another account.
func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "id must be a positive integer")
		return
	}
	u, err := h.Users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "user not found")
		return
	}
	writeData(w, http.StatusOK, "ok", map[string]any{
		"id":        u.ID,
		"full_name": u.FullName,
		"role":      u.Role,
		"city":      u.City,
	})
}

// ---- admin ----

func (h *Handlers) adminListUsers(w http.ResponseWriter, r *http.Request) {
	pg := pageQuery(r)
	users, meta, err := h.Users.List(r.Context(), pg)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writePage(w, "ok", lo.Map(users, func(u domain.User, _ int) userDTO { return toUserDTO(u) }), meta)
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended"`
}

func (h *Handlers) adminSetUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "id must be a positive integer")
		return
	}
	var req setStatusRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err, "invalid status payload")
		return
	}
	if err := h.Users.SetStatus(r.Context(), id, domain.UserStatus(req.Status)); err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusOK, "status updated", nil)
}

func (h *Handlers) adminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.CollectStats(r.Context())
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusOK, "ok", stats)
}
