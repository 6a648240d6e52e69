package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/rentdesk/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
//
// Each output is one line holding {"prompts": [...]} or {"system": "..."}.
// Each input line is either a JSON string, a domain.Input object such as
// {"kind":"photo","value":"ref-1"}, or raw text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

type jsonOutput struct {
	Prompts []domain.Prompt `json:"prompts,omitempty"`
	System  string          `json:"system,omitempty"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, prompts []domain.Prompt) error {
	if len(prompts) == 0 {
		return nil
	}
	return h.Encoder.Encode(jsonOutput{Prompts: prompts})
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var s string
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return s, nil
	}

	var in domain.Input
	if err := json.Unmarshal([]byte(text), &in); err == nil && in.Kind != "" {
		switch in.Kind {
		case domain.InputPhoto:
			return cmdPhoto + " " + in.Value, nil
		default:
			return in.Value, nil
		}
	}

	return text, nil
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(jsonOutput{System: msg})
}
