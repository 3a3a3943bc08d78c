package ports

import "context"

// RosterPort persists the ordered player roster for the table.
type RosterPort interface {
	// Load returns the registered players in seat order. An absent store
	// yields an empty roster.
	Load(ctx context.Context) ([]string, error)

	// Save replaces the roster. An empty slice clears the registration.
	Save(ctx context.Context, players []string) error
}
