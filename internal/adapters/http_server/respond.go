package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

var validate = validator.New()

// envelope is the uniform response shape.
type envelope struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Data      any              `json:"data,omitempty"`
	Meta      *domain.PageMeta `json:"meta,omitempty"`
	Timestamp string           `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	env.Timestamp = time.Now().UTC().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writePage(w http.ResponseWriter, message string, data any, meta domain.PageMeta) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data, Meta: &meta})
}

// writeError maps domain sentinels onto the HTTP status convention.
func writeError(w http.ResponseWriter, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	}
	if message == "" {
		message = err.Error()
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
		message = "internal error"
	}
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// decodeValid decodes the JSON body into dst and runs validator tags.
func decodeValid(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.ErrValidation
	}
	if err := validate.Struct(dst); err != nil {
		return domain.ErrValidation
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation
	}
	return id, nil
}

func pageQuery(r *http.Request) domain.PageQuery {
	page := queryInt(r, "page", 1)
	per := queryInt(r, "per_page", 20)
	if page < 1 {
		page = 1
	}
	if per < 1 || per > 100 {
		per = 20
	}
	return domain.PageQuery{Page: page, PerPage: per}
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func queryStr(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}
