// Package graph renders the registration dialogue as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/rentdesk/pkg/domain"
)

// Overlay marks a conversation's position on the diagram.
type Overlay struct {
	Visited []domain.StateID
	Current domain.StateID
}

// GenerateMermaid produces a Mermaid flowchart from the dialogue states and transitions.
// Shapes:
// - initial state: ((Circle))
// - persistence: [[Subroutine]]
// - terminal states: ([Stadium])
// - input states: [/Parallelogram/]
// Cancel edges are dotted and grouped into a single edge per state.
func GenerateMermaid(states []domain.StateID, transitions []domain.Transition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, id := range states {
		opener, closer := "[/", "/]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case id == domain.StatePersistRecord:
			opener, closer = "[[", "]]"
		case id.IsTerminal():
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeID(id), opener, id, closer)
	}

	for _, t := range transitions {
		from, to := sanitizeID(t.From), sanitizeID(t.To)
		switch {
		case t.Cancel:
			fmt.Fprintf(&sb, "    %s -. /cancel .-> %s\n", from, to)
		case t.Label != "":
			label := strings.ReplaceAll(t.Label, "\"", "'")
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", from, label, to)
		default:
			fmt.Fprintf(&sb, "    %s --> %s\n", from, to)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Visited {
			safe := sanitizeID(id)
			if safe != "" && !seen[safe] {
				seen[safe] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safe)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeID(overlay.Current))
		}
	}

	return sb.String()
}

func sanitizeID(id domain.StateID) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_").Replace(string(id))
}
