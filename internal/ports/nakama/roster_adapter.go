package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"doko/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

type rosterRecord struct {
	Players []string `json:"players"`
}

// NakamaRosterAdapter implements ports.RosterPort on top of Nakama storage.
type NakamaRosterAdapter struct {
	nk storageAPI
}

// NewNakamaRosterAdapter creates a new roster adapter.
func NewNakamaRosterAdapter(nk storageAPI) *NakamaRosterAdapter {
	return &NakamaRosterAdapter{nk: nk}
}

// Load returns the registered players in seat order, or an empty roster when
// none has been registered yet.
func (a *NakamaRosterAdapter) Load(ctx context.Context) ([]string, error) {
	value, _, err := readObject(ctx, a.nk, settingsCollection, rosterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	if value == "" {
		return nil, nil
	}

	var record rosterRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster: %w", err)
	}
	return record.Players, nil
}

// Save replaces the stored roster. The write is unconditional; roster changes
// come from a single admin flow, not from concurrent writers.
func (a *NakamaRosterAdapter) Save(ctx context.Context, players []string) error {
	value, err := json.Marshal(rosterRecord{Players: players})
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		systemWrite(settingsCollection, rosterKey, string(value), ""),
	})
	if err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}
	return nil
}

var _ ports.RosterPort = (*NakamaRosterAdapter)(nil)
