package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/rentdesk/internal/presentation/graph"
	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	states := []domain.StateID{
		domain.StateCollectDate,
		domain.StateCollectRentalKind,
		domain.StatePersistRecord,
		domain.StateFinished,
		domain.StateCancelled,
	}
	transitions := []domain.Transition{
		{From: domain.StateCollectDate, To: domain.StateCollectRentalKind},
		{From: domain.StateCollectRentalKind, To: domain.StatePersistRecord, Label: `SUP "board"`},
		{From: domain.StateCollectDate, To: domain.StateCancelled, Cancel: true},
	}

	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes And Edges",
			contains: []string{
				"graph TD\n",
				`collect_date(("collect_date"))`,
				`collect_rental_kind[/"collect_rental_kind"/]`,
				`persist_record[["persist_record"]]`,
				`finished(["finished"])`,
				"collect_date --> collect_rental_kind",
				`collect_rental_kind -- "SUP 'board'" --> persist_record`,
				"collect_date -. /cancel .-> cancelled",
			},
			excludes: []string{"classDef"},
		},
		{
			name: "Overlay",
			overlay: &graph.Overlay{
				Visited: []domain.StateID{domain.StateCollectDate, domain.StateCollectDate},
				Current: domain.StateCollectRentalKind,
			},
			contains: []string{
				"classDef visited",
				"class collect_date visited;",
				"class collect_rental_kind current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(states, transitions, tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, not := range tt.excludes {
				assert.NotContains(t, out, not)
			}
			if tt.overlay != nil {
				assert.Equal(t, 1, strings.Count(out, "class collect_date visited;"))
			}
		})
	}
}
