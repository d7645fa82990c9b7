package format_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tropelink/internal/presentation/format"
	"github.com/aretw0/tropelink/pkg/adapters/memory"
	"github.com/aretw0/tropelink/pkg/domain"
)

func names() *memory.Graph {
	return memory.NewGraph().
		SetName("https://w/Firefly", "Firefly").
		SetName("https://w/Serenity", "Serenity").
		SetName("https://w/Alien", "Alien").
		SetName("https://t/SpaceWestern", "Space Western").
		SetName("https://t/Mooks", "Mooks")
}

func twoSteps() *domain.Path {
	return &domain.Path{
		Source:  "https://w/Firefly",
		Target:  "https://w/Alien",
		Outcome: domain.OutcomeFound,
		Steps: []domain.Step{
			{Relation: "https://t/SpaceWestern", Entity: "https://w/Serenity"},
			{Relation: "https://t/Mooks", Entity: "https://w/Alien"},
		},
		Explored: 7,
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		path *domain.Path
		want string
	}{
		{
			name: "Found",
			path: twoSteps(),
			want: "\n2 degrees of separation.\n\n" +
				"1: Firefly and Serenity feature the Space Western trope\n" +
				"2: Serenity and Alien feature the Mooks trope\n",
		},
		{
			name: "Single Degree",
			path: &domain.Path{
				Source: "https://w/Firefly", Target: "https://w/Serenity", Outcome: domain.OutcomeFound,
				Steps: []domain.Step{{Relation: "https://t/SpaceWestern", Entity: "https://w/Serenity"}},
			},
			want: "\n1 degree of separation.\n\n1: Firefly and Serenity feature the Space Western trope\n",
		},
		{
			name: "Not Connected",
			path: &domain.Path{Source: "https://w/Firefly", Target: "https://w/Alien", Outcome: domain.OutcomeNoPath},
			want: "\nworks are not connected.\n",
		},
		{
			name: "Same Work",
			path: &domain.Path{Source: "https://w/Firefly", Target: "https://w/Firefly", Outcome: domain.OutcomeSameEntity},
			want: "\nIt's the same work.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, format.Text(&buf, format.Resolve(context.Background(), tt.path, names())))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestResolve_FallsBackToIDs(t *testing.T) {
	v := format.Resolve(context.Background(), twoSteps(), nil)
	assert.Equal(t, "https://w/Firefly", v.Source.Name)
	assert.Equal(t, "https://t/Mooks", v.Steps[1].Relation.Name)
	assert.Equal(t, v.Steps[0].To, v.Steps[1].From)
}

func TestMarkdown(t *testing.T) {
	md := format.Markdown(format.Resolve(context.Background(), twoSteps(), names()))
	assert.Contains(t, md, "# Firefly → Alien")
	assert.Contains(t, md, "**2 degrees of separation.**")
	assert.Contains(t, md, "1. [Firefly](https://w/Firefly) and [Serenity](https://w/Serenity) feature the [Space Western](https://t/SpaceWestern) trope")
	assert.Contains(t, md, "_7 works explored._")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, format.JSON(&buf, format.Resolve(context.Background(), twoSteps(), names())))

	var got format.View
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, domain.OutcomeFound, got.Outcome)
	assert.Equal(t, 2, got.Degrees)
	assert.Equal(t, "Space Western", got.Steps[0].Relation.Name)
	assert.Equal(t, "https://w/Alien", got.Target.ID)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]format.Format{
		"":        format.FormatText,
		"TEXT":    format.FormatText,
		"md":      format.FormatMarkdown,
		"json":    format.FormatJSON,
		"mermaid": format.FormatMermaid,
	} {
		got, err := format.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := format.ParseFormat("yaml")
	assert.Error(t, err)
}
