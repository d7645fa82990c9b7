package format

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/tropelink/pkg/domain"
	"github.com/aretw0/tropelink/pkg/ports"
)

// Format selects how a result is printed.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatMermaid  Format = "mermaid"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatMarkdown, FormatJSON, FormatMermaid:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text, markdown, json or mermaid)", s)
	}
}

// View is a search result with every identifier resolved to a display name.
type View struct {
	Source   Label          `json:"source"`
	Target   Label          `json:"target"`
	Outcome  domain.Outcome `json:"outcome"`
	Degrees  int            `json:"degrees"`
	Explored int            `json:"explored"`
	Steps    []StepView     `json:"steps"`
}

// Label pairs an identifier with its display name.
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StepView is one hop: From and To both feature Relation.
type StepView struct {
	From     Label `json:"from"`
	Relation Label `json:"relation"`
	To       Label `json:"to"`
}

// Resolve builds the View of path. Names that cannot be resolved fall back to the identifier.
// names may be nil.
func Resolve(ctx context.Context, path *domain.Path, names ports.NameResolver) *View {
	cache := make(map[string]string)
	label := func(id string) Label {
		if name, ok := cache[id]; ok {
			return Label{ID: id, Name: name}
		}
		name := id
		if names != nil {
			if n, err := names.DisplayName(ctx, id); err == nil && n != "" {
				name = n
			}
		}
		cache[id] = name
		return Label{ID: id, Name: name}
	}

	v := &View{
		Source:   label(path.Source),
		Target:   label(path.Target),
		Outcome:  path.Outcome,
		Degrees:  path.Degrees(),
		Explored: path.Explored,
		Steps:    make([]StepView, 0, len(path.Steps)),
	}
	prev := v.Source
	for _, s := range path.Steps {
		to := label(s.Entity)
		v.Steps = append(v.Steps, StepView{From: prev, Relation: label(s.Relation), To: to})
		prev = to
	}
	return v
}
