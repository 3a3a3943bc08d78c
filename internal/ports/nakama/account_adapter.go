package nakama

import (
	"context"
	"fmt"

	"doko/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
)

// accountAPI is the subset of runtime.NakamaModule the account adapter needs.
type accountAPI interface {
	AccountGetId(ctx context.Context, userID string) (*api.Account, error)
}

// NakamaAccountAdapter implements ports.AccountPort using Nakama's account API.
type NakamaAccountAdapter struct {
	nk accountAPI
}

// NewNakamaAccountAdapter creates a new account adapter.
func NewNakamaAccountAdapter(nk accountAPI) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

// DisplayName returns the account's display name, falling back to the
// username when no display name is set.
func (a *NakamaAccountAdapter) DisplayName(ctx context.Context, userID string) (string, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load account %s: %w", userID, err)
	}
	if account.User == nil {
		return "", fmt.Errorf("account %s has no user record", userID)
	}
	if account.User.DisplayName != "" {
		return account.User.DisplayName, nil
	}
	return account.User.Username, nil
}

var _ ports.AccountPort = (*NakamaAccountAdapter)(nil)
