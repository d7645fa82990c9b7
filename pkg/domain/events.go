package domain

import (
	"context"
	"time"
)

// ExpandEvent is emitted each time the engine asks for the neighbors of an entity.
type ExpandEvent struct {
	Entity    string        `json:"entity"`
	Depth     int           `json:"depth"`
	Neighbors int           `json:"neighbors"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// SearchEvent is emitted when a search starts and when it finishes.
type SearchEvent struct {
	Source   string        `json:"source"`
	Target   string        `json:"target"`
	Outcome  Outcome       `json:"outcome,omitempty"`
	Explored int           `json:"explored"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// SearchHooks defines callbacks for engine observability.
type SearchHooks struct {
	OnSearchStart func(context.Context, *SearchEvent)
	OnExpand      func(context.Context, *ExpandEvent)
	OnSearchEnd   func(context.Context, *SearchEvent)
}

// MergeHooks chains several hook sets; nil callbacks are skipped.
func MergeHooks(all ...SearchHooks) SearchHooks {
	return SearchHooks{
		OnSearchStart: func(ctx context.Context, ev *SearchEvent) {
			for _, h := range all {
				if h.OnSearchStart != nil {
					h.OnSearchStart(ctx, ev)
				}
			}
		},
		OnExpand: func(ctx context.Context, ev *ExpandEvent) {
			for _, h := range all {
				if h.OnExpand != nil {
					h.OnExpand(ctx, ev)
				}
			}
		},
		OnSearchEnd: func(ctx context.Context, ev *SearchEvent) {
			for _, h := range all {
				if h.OnSearchEnd != nil {
					h.OnSearchEnd(ctx, ev)
				}
			}
		},
	}
}
