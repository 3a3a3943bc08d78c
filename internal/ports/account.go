package ports

import "context"

// AccountPort resolves display information for platform accounts.
type AccountPort interface {
	// DisplayName returns the best human-readable name for the account:
	// the display name when set, otherwise the username.
	DisplayName(ctx context.Context, userID string) (string, error)
}
