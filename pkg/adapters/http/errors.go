package http

import (
	"errors"
	"net/http"

	"github.com/aretw0/rentdesk"
	"github.com/aretw0/rentdesk/pkg/domain"
)

type errorBody struct {
	Error      string                  `json:"error"`
	Validation *domain.ValidationError `json:"validation,omitempty"`
	Candidates int                     `json:"candidates,omitempty"`
}

type replyError struct {
	rentdesk.Reply
	Error string `json:"error"`
}

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) int {
	var (
		verr *domain.ValidationError
		lerr *domain.LookupError
		perr *domain.PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &lerr):
		if lerr.IsAmbiguous() {
			return http.StatusConflict
		}
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoActiveConversation),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownField):
		return http.StatusBadRequest
	case errors.As(err, &perr), errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}

	var (
		verr *domain.ValidationError
		lerr *domain.LookupError
	)
	if errors.As(err, &verr) {
		body.Validation = verr
	}
	if errors.As(err, &lerr) {
		body.Candidates = lerr.Candidates
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, body)
}
