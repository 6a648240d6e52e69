package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/aretw0/rentdesk/pkg/edit"
	"github.com/go-chi/chi/v5"
)

// ListRecords handles GET /records?date=.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	var recs []domain.RentalRecord
	if date == "" {
		recs = s.Desk.Records()
	} else {
		recs = s.Desk.ForDate(date)
	}
	s.writeJSON(w, http.StatusOK, nonNil(recs))
}

// SearchRecords handles GET /records/search?q=.
func (s *Server) SearchRecords(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "query parameter q is required"})
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(s.Desk.Search(q)))
}

// Clients handles GET /records/clients?date=.
func (s *Server) Clients(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "query parameter date is required"})
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(s.Desk.Clients(date)))
}

// Timeline handles GET /records/timeline?last=.
func (s *Server) Timeline(w http.ResponseWriter, r *http.Request) {
	last := 0
	if v := r.URL.Query().Get("last"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "last must be a non-negative integer"})
			return
		}
		last = n
	}
	s.writeJSON(w, http.StatusOK, nonNil(s.Desk.Timeline(last)))
}

// Receipts handles GET /records/receipts.
func (s *Server) Receipts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Desk.Receipts())
}

// ExportCSV handles GET /records/export.csv.
func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="rentals.csv"`)
	if err := s.Desk.ExportCSV(w); err != nil {
		s.logger.Error("csv export failed", "err", err)
	}
}

// Candidates handles GET /records/candidates?q=: the records an edit could target.
func (s *Server) Candidates(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	matches := s.Desk.FindCandidates(q)
	if len(matches) == 0 {
		s.writeError(w, r, &domain.LookupError{Query: q})
		return
	}
	s.writeJSON(w, http.StatusOK, matches)
}

type editBody struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// EditRecord handles PATCH /records/{index}.
func (s *Server) EditRecord(w http.ResponseWriter, r *http.Request) {
	idx, err := edit.ParseIndex(chi.URLParam(r, "index"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	var body editBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	change, err := s.Desk.ApplyFieldEdit(r.Context(), idx, body.Field, body.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, change)
}

// nonNil keeps empty results encoded as [] rather than null.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
