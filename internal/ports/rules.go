package ports

import (
	"context"

	"doko/internal/domain"
)

// RulesPort loads the scoring parameters from the external store.
type RulesPort interface {
	// Load returns the configured rule set. An absent store yields the
	// built-in defaults, not an error; store failures are returned as-is.
	Load(ctx context.Context) (domain.RuleSet, error)
}
