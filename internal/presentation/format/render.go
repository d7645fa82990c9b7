package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/tropelink/pkg/domain"
)

const (
	msgNotConnected = "works are not connected."
	msgSameWork     = "It's the same work."
)

// Summary is the headline of a result: no connection, same work, or the degrees of separation.
func (v *View) Summary() string {
	switch v.Outcome {
	case domain.OutcomeNoPath:
		return msgNotConnected
	case domain.OutcomeSameEntity:
		return msgSameWork
	}
	if v.Degrees == 1 {
		return "1 degree of separation."
	}
	return fmt.Sprintf("%d degrees of separation.", v.Degrees)
}

// Text writes the plain terminal report.
func Text(w io.Writer, v *View) error {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(v.Summary())
	sb.WriteString("\n")
	if len(v.Steps) > 0 {
		sb.WriteString("\n")
	}
	for i, s := range v.Steps {
		fmt.Fprintf(&sb, "%d: %s and %s feature the %s trope\n", i+1, s.From.Name, s.To.Name, s.Relation.Name)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Markdown returns the report as a markdown document with links to every page.
func Markdown(v *View) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s → %s\n\n", v.Source.Name, v.Target.Name)
	fmt.Fprintf(&sb, "**%s**\n\n", v.Summary())
	for i, s := range v.Steps {
		fmt.Fprintf(&sb, "%d. %s and %s feature the %s trope\n", i+1, link(s.From), link(s.To), link(s.Relation))
	}
	if len(v.Steps) > 0 {
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "_%d works explored._\n", v.Explored)
	return sb.String()
}

func link(l Label) string {
	if strings.HasPrefix(l.ID, "http://") || strings.HasPrefix(l.ID, "https://") {
		return fmt.Sprintf("[%s](%s)", l.Name, l.ID)
	}
	return l.Name
}

// JSON writes the view as indented JSON.
func JSON(w io.Writer, v *View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
