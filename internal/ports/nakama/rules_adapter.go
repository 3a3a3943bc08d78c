package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"doko/internal/domain"
	"doko/internal/ports"
)

// NakamaRulesAdapter implements ports.RulesPort on top of Nakama storage.
type NakamaRulesAdapter struct {
	nk storageAPI
}

// NewNakamaRulesAdapter creates a new rules adapter.
func NewNakamaRulesAdapter(nk storageAPI) *NakamaRulesAdapter {
	return &NakamaRulesAdapter{nk: nk}
}

// Load returns the stored rule set merged over the built-in defaults, so a
// sheet that only overrides one parameter keeps the rest at their defaults.
func (a *NakamaRulesAdapter) Load(ctx context.Context) (domain.RuleSet, error) {
	value, _, err := readObject(ctx, a.nk, settingsCollection, rulesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}

	rules := domain.DefaultRules()
	if value == "" {
		return rules, nil
	}

	var stored map[string]any
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rules: %w", err)
	}
	for k, v := range stored {
		rules[k] = v
	}
	return rules, nil
}

var _ ports.RulesPort = (*NakamaRulesAdapter)(nil)
