package httpserver

import (
	"net/http"
	"strconv"

	"github.com/JooruBackend/jooru-backend-sub001/internal/app"
	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

func (h *Handlers) listProfessionals(w http.ResponseWriter, r *http.Request) {
	pg := pageQuery(r)
	q := domain.ProfessionalsQuery{
		Category: queryStr(r, "category"),
		City:     queryStr(r, "city"),
		Page:     pg.Page,
		PerPage:  pg.PerPage,
	}
	if v := r.URL.Query().Get("min_rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 5 {
			writeError(w, domain.ErrValidation, "min_rating must be between 0 and 5")
			return
		}
		q.MinRating = &f
	}
	page, err := h.Professionals.List(r.Context(), q)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writePage(w, "ok", page.Items, page.Meta)
}

func (h *Handlers) getProfessional(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "id must be a positive integer")
		return
	}
	v, err := h.Professionals.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "professional not found")
		return
	}
	writeData(w, http.StatusOK, "ok", v)
}

type profileRequest struct {
	BusinessName string   `json:"business_name" validate:"required,max=255"`
	Category     string   `json:"category" validate:"required,max=128"`
	Bio          *string  `json:"bio" validate:"omitempty,max=5000"`
	HourlyRate   *float64 `json:"hourly_rate" validate:"omitempty,gt=0"`
	ServiceArea  *string  `json:"service_area" validate:"omitempty,max=255"`
}

func (h *Handlers) putProfile(w http.ResponseWriter, r *http.Request) {
	c := callerFrom(r)
	var req profileRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, err, "invalid profile payload")
		return
	}
	p, err := h.Professionals.PutProfile(r.Context(), c.UserID, app.ProfileInput{
		BusinessName: req.BusinessName,
		Category:     req.Category,
		Bio:          req.Bio,
		HourlyRate:   req.HourlyRate,
		ServiceArea:  req.ServiceArea,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeData(w, http.StatusOK, "profile saved", p)
}

func (h *Handlers) listProfessionalReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err, "id must be a positive integer")
		return
	}
	page, err := h.Reviews.ListFor(r.Context(), id, pageQuery(r))
	if err != nil {
		writeError(w, err, "")
		return
	}
	writePage(w, "ok", page.Items, page.Meta)
}
