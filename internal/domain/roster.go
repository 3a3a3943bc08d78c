package domain

import (
	"errors"
	"fmt"
)

// Roster size limits for a Doppelkopf table.
const (
	MinRosterSize = 4
	MaxRosterSize = 5
)

// ErrInvalidRoster is returned when a proposed roster cannot seat a table.
var ErrInvalidRoster = errors.New("invalid roster")

// ValidateRoster checks that names form a playable roster: 4 or 5 unique,
// non-empty player names. Order is significant and defines reporting columns.
func ValidateRoster(names []string) error {
	if len(names) < MinRosterSize || len(names) > MaxRosterSize {
		return fmt.Errorf("%w: got %d players, want %d or %d", ErrInvalidRoster, len(names), MinRosterSize, MaxRosterSize)
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("%w: empty player name", ErrInvalidRoster)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate player %q", ErrInvalidRoster, name)
		}
		seen[name] = true
	}
	return nil
}
