package domain

// Outcome classifies a finished search.
type Outcome string

const (
	// OutcomeFound means a chain of relations connects source and target.
	OutcomeFound Outcome = "found"
	// OutcomeSameEntity means source and target are the same entity (zero-length chain).
	OutcomeSameEntity Outcome = "same_entity"
	// OutcomeNoPath means the reachable graph was exhausted without meeting the target.
	OutcomeNoPath Outcome = "no_path"
)

// Step is one hop of a connection: the Relation shared with the previous entity, and the Entity reached.
type Step struct {
	Relation string `json:"relation"`
	Entity   string `json:"entity"`
}

// Path is the immutable result of a search.
type Path struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Outcome  Outcome `json:"outcome"`
	Steps    []Step  `json:"steps,omitempty"`
	Explored int     `json:"explored"`
}

// Degrees returns the number of hops between source and target.
func (p *Path) Degrees() int {
	return len(p.Steps)
}

// Found reports whether the path connects two distinct entities.
func (p *Path) Found() bool {
	return p.Outcome == OutcomeFound
}

// Entities returns every entity on the chain, source first.
func (p *Path) Entities() []string {
	out := make([]string, 0, len(p.Steps)+1)
	out = append(out, p.Source)
	for _, s := range p.Steps {
		out = append(out, s.Entity)
	}
	return out
}
