package domain

import (
	"fmt"
	"strconv"
)

// Rule keys stored in the settings sheet. Unknown keys are carried along but
// never interpreted by the scorer.
const (
	RuleBasePoint      = "BasePoint"
	RuleSoloMultiplier = "SoloMultiplier"
	RuleCentFactor     = "CentFactor"
	RuleFuchs          = "Fuchs"
	RuleKarlchen       = "Karlchen"
	RuleDoppelkopf     = "Doppelkopf"
)

// Built-in defaults, used when the rules store is absent or a key is missing.
const (
	DefaultBasePoint      = 1
	DefaultSoloMultiplier = 3
	DefaultCentFactor     = 0.05
)

// RuleSet maps rule names to their configured values. Values come from an
// external store so they may arrive as numbers or strings; the typed accessors
// coerce them and fall back to defaults for missing keys.
type RuleSet map[string]any

// DefaultRules returns the built-in rule set used when no store is configured.
func DefaultRules() RuleSet {
	return RuleSet{
		RuleBasePoint:      DefaultBasePoint,
		RuleSoloMultiplier: DefaultSoloMultiplier,
		RuleCentFactor:     DefaultCentFactor,
		RuleFuchs:          1,
		RuleKarlchen:       1,
		RuleDoppelkopf:     1,
	}
}

// BasePoint returns the base point value of a round.
func (r RuleSet) BasePoint() (int, error) {
	return r.intValue(RuleBasePoint, DefaultBasePoint)
}

// SoloMultiplier returns the soloist's score multiplier.
func (r RuleSet) SoloMultiplier() (int, error) {
	return r.intValue(RuleSoloMultiplier, DefaultSoloMultiplier)
}

// CentFactor returns the EUR value of a single point.
func (r RuleSet) CentFactor() (float64, error) {
	return r.floatValue(RuleCentFactor, DefaultCentFactor)
}

func (r RuleSet) intValue(key string, def int) (int, error) {
	raw, ok := r[key]
	if !ok || raw == nil {
		return def, nil
	}
	var v int
	switch t := raw.(type) {
	case int:
		v = t
	case int64:
		v = int(t)
	case float64:
		v = int(t)
	case string:
		parsed, err := strconv.Atoi(t)
		if err != nil {
			return 0, fmt.Errorf("rule %s: cannot parse %q as integer", key, t)
		}
		v = parsed
	default:
		return 0, fmt.Errorf("rule %s: unsupported value type %T", key, raw)
	}
	if v < 1 {
		return 0, fmt.Errorf("rule %s: value %d must be at least 1", key, v)
	}
	return v, nil
}

func (r RuleSet) floatValue(key string, def float64) (float64, error) {
	raw, ok := r[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch t := raw.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("rule %s: cannot parse %q as number", key, t)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("rule %s: unsupported value type %T", key, raw)
	}
}
