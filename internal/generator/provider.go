// Package generator produces the answer for a query. The default provider
// serves the demo's canned per-objective answers; an OpenAI-backed provider
// can be swapped in for live generation. Retrieval and context selection
// belong to the external pipeline and are not performed here.
package generator

import (
	"context"

	"github.com/fernandadias/DiscoveryRAGAgentV2/internal/api"
)

// Answer is a generated response.
type Answer struct {
	Markdown   string
	TokensUsed int
	Model      string
}

// Provider generates an answer for a query under a given objective.
type Provider interface {
	// Generate produces the answer. Unknown objectives fall back to
	// informative framing rather than failing.
	Generate(ctx context.Context, query string, objective api.Objective) (*Answer, error)
	// Name identifies the provider.
	Name() string
}
