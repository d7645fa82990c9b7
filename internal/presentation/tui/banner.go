package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tropelink banner to w, colored when the terminal supports it.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Warm gradient, from amber to rose
	lines := []struct {
		text, color string
	}{
		{" _                       _ _       _    ", "#fbbf24"},
		{"| |_ _ __ ___  _ __   ___| (_)_ __ | | __", "#fb923c"},
		{"| __| '__/ _ \\| '_ \\ / _ \\ | | '_ \\| |/ /", "#f87171"},
		{"| |_| | | (_) | |_) |  __/ | | | | |   < ", "#f472b6"},
		{" \\__|_|  \\___/| .__/ \\___|_|_|_| |_|_|\\_\\", "#e879f9"},
		{"              |_|                         ", "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
