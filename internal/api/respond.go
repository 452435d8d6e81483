package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"medtrack/m/internal/errs"
)

const maxBodyBytes = 1 << 20

const invalidBodyMessage = "Invalid request body"

// failure is the body of every unsuccessful POST.
type failure struct {
	Message string            `json:"message"`
	Success bool              `json:"success"`
	Errors  []errs.FieldError `json:"errors,omitempty"`
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.Validation("All fields are required")
		}
		return &errs.Error{Kind: errs.KindValidation, Message: invalidBodyMessage, Err: err}
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

// logFailure records the full error, driver text included, which never
// reaches the response body.
func logFailure(r *http.Request, e *errs.Error, err error) {
	log := hlog.FromRequest(r)
	if e.Kind == errs.KindStorage {
		log.Error().Err(err).Str("kind", string(e.Kind)).Msg(e.Message)
		return
	}
	log.Debug().Err(err).Str("kind", string(e.Kind)).Msg(e.Message)
}

// respondFailure writes {message, success:false[, errors]}.
func (h *Handler) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	e := errs.As(err)
	logFailure(r, e, err)
	respondJSON(w, e.Status(), failure{Message: e.Message, Success: false, Errors: e.Fields})
}

// respondMessage writes {message} for read endpoints.
func (h *Handler) respondMessage(w http.ResponseWriter, r *http.Request, err error) {
	e := errs.As(err)
	logFailure(r, e, err)
	respondJSON(w, e.Status(), map[string]string{"message": e.Message})
}
