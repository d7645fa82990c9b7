package domain

import "sort"

// Edge is a one-hop link discovered for an entity: the entity shares Relation with Entity.
type Edge struct {
	Relation string `json:"relation" yaml:"relation"`
	Entity   string `json:"entity" yaml:"entity"`
}

// DedupeEdges returns edges without duplicates and without any edge pointing back to self,
// sorted by relation then entity so that enumeration order is reproducible.
func DedupeEdges(self string, edges []Edge) []Edge {
	seen := make(map[Edge]struct{}, len(edges))
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.Entity == self || e.Entity == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Relation != out[j].Relation {
			return out[i].Relation < out[j].Relation
		}
		return out[i].Entity < out[j].Entity
	})
	return out
}
