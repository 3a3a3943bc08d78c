package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"doko/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

type bockRecord struct {
	Count int `json:"count"`
}

// NakamaBockAdapter implements ports.BockPort on top of Nakama storage.
// Round finalization does not use this adapter; the counter is written
// together with the ledger append in NakamaLedgerAdapter.CommitRound.
type NakamaBockAdapter struct {
	nk storageAPI
}

// NewNakamaBockAdapter creates a new bock counter adapter.
func NewNakamaBockAdapter(nk storageAPI) *NakamaBockAdapter {
	return &NakamaBockAdapter{nk: nk}
}

// Count returns the pending bock rounds, 0 when the cell is absent.
func (a *NakamaBockAdapter) Count(ctx context.Context) (int, error) {
	value, _, err := readObject(ctx, a.nk, settingsCollection, bockKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read bock counter: %w", err)
	}
	if value == "" {
		return 0, nil
	}

	var record bockRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return 0, fmt.Errorf("failed to unmarshal bock counter: %w", err)
	}
	return record.Count, nil
}

// Set overwrites the counter. Admin resets only.
func (a *NakamaBockAdapter) Set(ctx context.Context, count int) error {
	value, err := json.Marshal(bockRecord{Count: count})
	if err != nil {
		return fmt.Errorf("failed to marshal bock counter: %w", err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		systemWrite(settingsCollection, bockKey, string(value), ""),
	})
	if err != nil {
		return fmt.Errorf("failed to write bock counter: %w", err)
	}
	return nil
}

var _ ports.BockPort = (*NakamaBockAdapter)(nil)
