package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the rentdesk banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"                 _      _           _    ", "#38bdf8"},
		{"  _ __ ___ _ __ | |_ __| | ___  ___| | __", "#22d3ee"},
		{" | '__/ _ \\ '_ \\| __/ _` |/ _ \\/ __| |/ /", "#2dd4bf"},
		{" | | |  __/ | | | || (_| |  __/\\__ \\   < ", "#34d399"},
		{" |_|  \\___|_| |_|\\__\\__,_|\\___||___/_|\\_\\", "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
