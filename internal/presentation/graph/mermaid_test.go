package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/tropelink/internal/presentation/format"
	"github.com/aretw0/tropelink/internal/presentation/graph"
	"github.com/aretw0/tropelink/pkg/domain"
)

func label(id string) format.Label {
	return format.Label{ID: "https://w/" + id, Name: id}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		view        *format.View
		contains    []string
		notContains []string
	}{
		{
			name: "Chain",
			view: &format.View{
				Source:  label("Firefly"),
				Target:  label("Alien"),
				Outcome: domain.OutcomeFound,
				Degrees: 2,
				Steps: []format.StepView{
					{From: label("Firefly"), Relation: label("Space Western"), To: label("Serenity")},
					{From: label("Serenity"), Relation: label("Mooks"), To: label("Alien")},
				},
			},
			contains: []string{
				"graph LR",
				"n0((\"Firefly\"))",
				"n1((\"Alien\"))",
				"n2[\"Serenity\"]",
				"n0 -- \"Space Western\" --> n2",
				"n2 -- \"Mooks\" --> n1",
				"class n0 endpoint;",
				"class n1 endpoint;",
			},
			notContains: []string{"not connected"},
		},
		{
			name: "Not Connected",
			view: &format.View{
				Source:  label("Firefly"),
				Target:  label("Alien"),
				Outcome: domain.OutcomeNoPath,
			},
			contains: []string{"n0 -. \"not connected\" .- n1"},
		},
		{
			name: "Same Work",
			view: &format.View{
				Source:  label("Firefly"),
				Target:  label("Firefly"),
				Outcome: domain.OutcomeSameEntity,
			},
			contains:    []string{"n0((\"Firefly\"))", "class n0 endpoint;"},
			notContains: []string{"n1"},
		},
		{
			name: "Label Escaping",
			view: &format.View{
				Source:  format.Label{ID: "a", Name: `The "Show"`},
				Target:  label("B"),
				Outcome: domain.OutcomeNoPath,
			},
			contains: []string{"n0((\"The 'Show'\"))"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.view)
			for _, c := range tt.contains {
				if !strings.Contains(got, c) {
					t.Errorf("expected output to contain %q, got:\n%s", c, got)
				}
			}
			for _, c := range tt.notContains {
				if strings.Contains(got, c) {
					t.Errorf("expected output to not contain %q, got:\n%s", c, got)
				}
			}
		})
	}
}
