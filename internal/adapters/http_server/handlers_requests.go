package httpserver

import (
	"context"
	"net/http"

	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

type createRequestRequest struct {
	Category    string   `json:"category" validate:"required,max=128"`
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required,max=10000"`
	Address     *string  `json:"address" validate:"omitempty,max=512"`
	Budget      *float64 `json:"budget" validate:"omitempty,gt=0"`
	Draft       bool     `json:"draft"`
}

func (h *Handlers) createRequest(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	var req createRequestRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err, "invalid request payload")
		return
	}
	sr, err := h.Requests.Create(r.Context(), c.UserID, app.CreateRequestInput{
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Budget:      req.Budget,
		Draft:       req.Draft,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusCreated, "request created", sr)
}

func (h *Handlers) listRequests(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	pg := pageQuery(r)
	q := domain.RequestsQuery{
		Category: queryStr(r, "category"),
		Page:     pg.Page,
		PerPage:  pg.PerPage,
	}
	if v := queryStr(r, "status"); v != nil {
		st := domain.RequestStatus(*v)
		q.Status = &st
	}
	// Clients see their own requests; professionals browse the open board.
	switch domain.Role(c.Role) {
	case domain.RoleClient:
		q.ClientID = &c.UserID
	case domain.RoleProfessional:
		if q.Status == nil {
			open := domain.RequestOpen
			q.Status = &open
		}
	}
	items, meta, err := h.Requests.List(r.Context(), q)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writePage(w, "ok", items, meta)
}

func (h *Handlers) getRequest(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "id must be a positive integer")
		return
	}
	sr, err := h.Requests.Get(r.Context(), c.UserID, id)
	if err != nil {
		writeError(w, err, "request not found")
		return
	}
	writeData(w, http.StatusOK, "ok", sr)
}

type moveRequestRequest struct {
	Status string `json:"status" validate:"required,oneof=open quoted accepted in_progress completed cancelled"`
}

func (h *Handlers) moveRequest(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "id must be a positive integer")
		return
	}
	var req moveRequestRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err, "invalid status payload")
		return
	}
	sr, err := h.Requests.Move(r.Context(), c.UserID, id, domain.RequestStatus(req.Status))
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusOK, "status updated", sr)
}

func (h *Handlers) listQuotes(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "id must be a positive integer")
		return
	}
	quotes, err := h.Requests.ListRequestQuotes(r.Context(), c.UserID, id)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusOK, "ok", quotes)
}

type submitQuoteRequest struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Message *string `json:"message" validate:"omitempty,max=5000"`
}

func (h *Handlers) submitQuote(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "id must be a positive integer")
		return
	}
	var req submitQuoteRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err, "invalid quote payload")
		return
	}
	q, err := h.Requests.SubmitQuote(r.Context(), c.UserID, id, app.SubmitQuoteInput{
		Amount:  req.Amount,
		Message: req.Message,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusCreated, "quote submitted", q)
}

func (h *Handlers) acceptQuote(w http.ResponseWriter, r *http.Request) {
	h.quoteAction(w, r, h.Requests.AcceptQuote, "quote accepted")
}

func (h *Handlers) rejectQuote(w http.ResponseWriter, r *http.Request) {
	h.quoteAction(w, r, h.Requests.RejectQuote, "quote rejected")
}

func (h *Handlers) withdrawQuote(w http.ResponseWriter, r *http.Request) {
	h.quoteAction(w, r, h.Requests.WithdrawQuote, "quote withdrawn")
}

func (h *Handlers) quoteAction(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, actorID, quoteID int64) (domain.Quote, error), msg string) {
	c := callerFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "id must be a positive integer")
		return
	}
	q, err := fn(r.Context(), c.UserID, id)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusOK, msg, q)
}
