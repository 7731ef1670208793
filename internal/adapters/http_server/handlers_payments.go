package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

type createPaymentRequest struct {
	QuoteID  int64  `json:"quote_id" validate:"required,gt=0"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

func (h *Handlers) createPayment(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	var req createPaymentRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err, "invalid payment payload")
		return
	}
	p, err := h.Payments.Create(r.Context(), c.UserID, app.CreatePaymentInput{
		QuoteID:  req.QuoteID,
		Currency: req.Currency,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusCreated, "payment recorded", p)
}

func (h *Handlers) listPayments(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	pg := pageQuery(r)
	q := domain.PaymentsQuery{UserID: c.UserID, Page: pg.Page, PerPage: pg.PerPage}
	if v := queryStr(r, "status"); v != nil {
		st := domain.PaymentStatus(*v)
		q.Status = &st
	}
	items, meta, err := h.Payments.List(r.Context(), q)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writePage(w, "ok", items, meta)
}

func (h *Handlers) getPayment(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "id must be a positive integer")
		return
	}
	p, err := h.Payments.Get(r.Context(), c.UserID, domain.Role(c.Role), id)
	if err != nil {
		writeError(w, err, "payment not found")
		return
	}
	writeData(w, http.StatusOK, "ok", p)
}

func (h *Handlers) refundPayment(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "id must be a positive integer")
		return
	}
	p, err := h.Payments.Refund(r.Context(), c.UserID, id)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusOK, "payment refunded", p)
}

func (h *Handlers) getInvoice(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "id must be a positive integer")
		return
	}
	inv, err := h.Payments.GetInvoice(r.Context(), c.UserID, domain.Role(c.Role), id)
	if err != nil {
		writeError(w, err, "invoice not found")
		return
	}
	var items any
	if len(inv.ItemsJSON) > 0 {
		_ = json.Unmarshal(inv.ItemsJSON, &items)
	}
	writeData(w, http.StatusOK, "ok", map[string]any{
		"id":         inv.ID,
		"payment_id": inv.PaymentID,
		"number":     inv.Number,
		"issued_at":  inv.IssuedAt,
		"items":      items,
	})
}

type paymentMethodRequest struct {
	Kind      string  `json:"kind" validate:"required,oneof=card bank wallet"`
	Label     string  `json:"label" validate:"required,max=128"`
	Last4     *string `json:"last4" validate:"omitempty,len=4,numeric"`
	IsDefault bool    `json:"is_default"`
}

func (h *Handlers) addPaymentMethod(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	var req paymentMethodRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err, "invalid payment method payload")
		return
	}
	id, err := h.Payments.AddMethod(r.Context(), c.UserID, app.PaymentMethodInput{
		Kind:      req.Kind,
		Label:     req.Label,
		Last4:     req.Last4,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusCreated, "payment method added", map[string]any{"id": id})
}

func (h *Handlers) deletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "id must be a positive integer")
		return
	}
	if err := h.Payments.DeleteMethod(r.Context(), c.UserID, id); err != nil {
		writeError(w, err, "payment method not found")
		return
	}
	writeData(w, http.StatusOK, "payment method deleted", nil)
}

func (h *Handlers) listPaymentMethods(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	ms, err := h.Payments.ListMethods(r.Context(), c.UserID)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusOK, "ok", ms)
}
