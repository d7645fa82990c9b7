package ports

import (
	"context"

	"github.com/aretw0/tropelink/pkg/domain"
)

// Connector is the entry point used by outer adapters (HTTP, MCP).
// It validates both endpoints and runs a search between them.
type Connector interface {
	Connect(ctx context.Context, source, target string) (*domain.Path, error)
}
