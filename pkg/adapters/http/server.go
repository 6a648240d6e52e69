// Package http exposes a Desk over JSON/HTTP so any chat bridge can act as
// the conversational interface.
package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/rentdesk"
	"github.com/aretw0/rentdesk/internal/logging"
	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/aretw0/rentdesk/pkg/edit"
	"github.com/aretw0/rentdesk/pkg/records"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Desk defines the part of rentdesk.Desk served over HTTP.
type Desk interface {
	Begin(ctx context.Context, conversationID string) (rentdesk.Reply, error)
	OnText(ctx context.Context, conversationID, text string) (rentdesk.Reply, error)
	OnPhoto(ctx context.Context, conversationID, photoRef string) (rentdesk.Reply, error)
	OnButton(ctx context.Context, conversationID, token string) (rentdesk.Reply, error)
	OnCancel(ctx context.Context, conversationID string) (rentdesk.Reply, error)

	Records() []domain.RentalRecord
	ForDate(date string) []domain.RentalRecord
	Search(query string) []records.Match
	Clients(date string) []records.ClientGroup
	Timeline(last int) []records.DateGroup
	Receipts() records.ReceiptReport
	ExportCSV(w io.Writer) error
	FindCandidates(query string) []records.Match
	ApplyFieldEdit(ctx context.Context, index int, field, value string) (edit.Change, error)
}

// Server serves the dialogue and record endpoints.
type Server struct {
	Desk    Desk
	Streams *StreamManager
	Metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts a Prometheus handler on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithStreams shares a StreamManager, typically the one whose Emitter was
// given to the Desk so prompts reach SSE subscribers.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// NewServer creates a server over desk.
func NewServer(desk Desk, opts ...Option) *Server {
	s := &Server{Desk: desk}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}
	return s
}

// NewHandler creates the HTTP handler for the desk.
func NewHandler(desk Desk, opts ...Option) http.Handler {
	return NewServer(desk, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	r.Route("/conversations", func(r chi.Router) {
		r.Post("/", s.CreateConversation)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/start", s.Start)
			r.Post("/text", s.Text)
			r.Post("/photo", s.Photo)
			r.Post("/button", s.Button)
			r.Post("/cancel", s.Cancel)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	r.Route("/records", func(r chi.Router) {
		r.Get("/", s.ListRecords)
		r.Get("/search", s.SearchRecords)
		r.Get("/clients", s.Clients)
		r.Get("/timeline", s.Timeline)
		r.Get("/receipts", s.Receipts)
		r.Get("/export.csv", s.ExportCSV)
		r.Get("/candidates", s.Candidates)
		r.Patch("/{index}", s.EditRecord)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "rentdesk-http",
		"version": rentdesk.Version,
	})
}

// inputBody is the payload of /text, /photo and /button.
type inputBody struct {
	Text     string `json:"text,omitempty"`
	PhotoRef string `json:"photoRef,omitempty"`
	Token    string `json:"token,omitempty"`
}

// conversationResponse is returned by POST /conversations.
type conversationResponse struct {
	ConversationID string `json:"conversationId"`
	rentdesk.Reply
}

// CreateConversation handles POST /conversations: a new id and its first prompt.
func (s *Server) CreateConversation(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	reply, err := s.Desk.Begin(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, conversationResponse{ConversationID: id, Reply: reply})
}

// Start handles POST /conversations/{id}/start.
func (s *Server) Start(w http.ResponseWriter, r *http.Request) {
	reply, err := s.Desk.Begin(r.Context(), chi.URLParam(r, "id"))
	s.writeReply(w, r, reply, err)
}

// Text handles POST /conversations/{id}/text.
func (s *Server) Text(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	reply, err := s.Desk.OnText(r.Context(), chi.URLParam(r, "id"), body.Text)
	s.writeReply(w, r, reply, err)
}

// Photo handles POST /conversations/{id}/photo.
func (s *Server) Photo(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	reply, err := s.Desk.OnPhoto(r.Context(), chi.URLParam(r, "id"), body.PhotoRef)
	s.writeReply(w, r, reply, err)
}

// Button handles POST /conversations/{id}/button.
func (s *Server) Button(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	reply, err := s.Desk.OnButton(r.Context(), chi.URLParam(r, "id"), body.Token)
	s.writeReply(w, r, reply, err)
}

// Cancel handles POST /conversations/{id}/cancel. It is idempotent.
func (s *Server) Cancel(w http.ResponseWriter, r *http.Request) {
	reply, err := s.Desk.OnCancel(r.Context(), chi.URLParam(r, "id"))
	s.writeReply(w, r, reply, err)
}

func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (inputBody, bool) {
	var body inputBody
	if err := decodeJSON(r, &body); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return body, false
	}
	return body, true
}

// writeReply answers a dialogue call. A rejection is 422 with the reprompt in
// the body; a persistence failure is 503 with the prompt telling the operator
// to start over.
func (s *Server) writeReply(w http.ResponseWriter, r *http.Request, reply rentdesk.Reply, err error) {
	if err != nil {
		if len(reply.Prompts) > 0 {
			s.writeJSON(w, statusFor(err), replyError{Reply: reply, Error: err.Error()})
			return
		}
		s.writeError(w, r, err)
		return
	}
	if reply.Rejection != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, reply)
		return
	}
	s.writeJSON(w, http.StatusOK, reply)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// maxBodySize bounds request bodies; dialogue inputs are short.
const maxBodySize = 64 << 10

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v)
}
