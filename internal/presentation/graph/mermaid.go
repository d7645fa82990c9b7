package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tropelink/internal/presentation/format"
	"github.com/aretw0/tropelink/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of a connection.
// It applies semantic styling:
// - Source and target: ((Circle))
// - Intermediate works: [Rectangle]
// - Edges are labelled with the shared trope.
// Results without a chain render the two endpoints, unlinked when not connected.
func GenerateMermaid(v *format.View) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	ids := make(map[string]string)
	declare := func(l format.Label, opener, closer string) string {
		if id, ok := ids[l.ID]; ok {
			return id
		}
		id := fmt.Sprintf("n%d", len(ids))
		ids[l.ID] = id
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, escapeLabel(l.Name), closer))
		return id
	}

	src := declare(v.Source, "((", "))")
	dst := declare(v.Target, "((", "))")

	for _, s := range v.Steps {
		from := declare(s.From, "[", "]")
		to := declare(s.To, "[", "]")
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", from, escapeLabel(s.Relation.Name), to))
	}

	if v.Outcome == domain.OutcomeNoPath {
		sb.WriteString(fmt.Sprintf("    %s -. \"not connected\" .- %s\n", src, dst))
	}

	sb.WriteString("\n    %% Endpoint Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef endpoint fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
	sb.WriteString(fmt.Sprintf("    class %s endpoint;\n", src))
	if dst != src {
		sb.WriteString(fmt.Sprintf("    class %s endpoint;\n", dst))
	}

	return sb.String()
}

// escapeLabel keeps names from terminating the quoted Mermaid label.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
