package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/rentdesk/internal/presentation/tui"
	"github.com/aretw0/rentdesk/pkg/domain"
)

// TextHandler implements the interactive terminal interface.
type TextHandler struct {
	Reader *bufio.Reader
	Writer io.Writer
	style  *tui.Style

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		style:  tui.NewStyle(w),
	}
}

// initPump starts the reader goroutine so Input can honor context cancellation
// while a read is blocked.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff so a persistent read failure does not spin.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, prompts []domain.Prompt) error {
	for _, p := range prompts {
		if p.Reason != "" {
			fmt.Fprintln(h.Writer, h.style.Warning("✗ "+p.Reason))
		}
		lines := strings.Split(strings.TrimSpace(p.Text), "\n")
		for i, line := range lines {
			if i == len(lines)-1 {
				line = h.style.Prompt(line)
			}
			fmt.Fprintln(h.Writer, line)
		}
		if len(p.Choices) > 0 {
			parts := make([]string, len(p.Choices))
			for i, c := range p.Choices {
				parts[i] = fmt.Sprintf("%d) %s", i+1, h.style.Choice(c))
			}
			fmt.Fprintln(h.Writer, "  "+strings.Join(parts, "  "))
		}
	}
	return nil
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
		fmt.Fprint(h.Writer, "> ")
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintln(h.Writer, h.style.Faint("[System] "+msg))
	return err
}
