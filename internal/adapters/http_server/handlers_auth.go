package httpserver

import (
	"net/http"

	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

type registerRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Role     string  `json:"role" validate:"required,oneof=client professional"`
	FullName string  `json:"full_name" validate:"required,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	City     *string `json:"city" validate:"omitempty,max=128"`
}

type userDTO struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Status   string  `json:"status"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
	City     *string `json:"city,omitempty"`
}

func toUserDTO(u domain.User) userDTO {
	return userDTO{
		ID:       u.ID,
		Email:    u.Email,
		Role:     string(u.Role),
		Status:   string(u.Status),
		FullName: u.FullName,
		Phone:    u.Phone,
		City:     u.City,
	}
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err, "invalid registration payload")
		return
	}
	u, toks, err := h.Auth.Register(r.Context(), app.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
		FullName: req.FullName,
		Phone:    req.Phone,
		City:     req.City,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusCreated, "registered", map[string]any{
		"user":   toUserDTO(u),
		"tokens": toks,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err, "invalid login payload")
		return
	}
	u, toks, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err, "invalid credentials")
		return
	}
	writeData(w, http.StatusOK, "logged in", map[string]any{
		"user":   toUserDTO(u),
		"tokens": toks,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err, "invalid refresh payload")
		return
	}
	toks, err := h.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err, "invalid refresh token")
		return
	}
	writeData(w, http.StatusOK, "refreshed", toks)
}
