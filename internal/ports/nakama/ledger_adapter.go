package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"doko/internal/app"
	"doko/internal/domain"
	"doko/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// commitAttempts bounds the optimistic concurrency retry loop. The match loop
// is the only writer in practice, so a second attempt is already rare.
const commitAttempts = 3

const ledgerPageSize = 100

type ledgerPartition struct {
	Rows []domain.LedgerEntry `json:"rows"`
}

// NakamaLedgerAdapter implements ports.LedgerPort on top of Nakama storage.
// Each day of play is one object keyed by its day string, holding the rounds
// of that day in append order.
type NakamaLedgerAdapter struct {
	nk storageAPI
}

// NewNakamaLedgerAdapter creates a new ledger adapter.
func NewNakamaLedgerAdapter(nk storageAPI) *NakamaLedgerAdapter {
	return &NakamaLedgerAdapter{nk: nk}
}

// CommitRound appends the entry to the day partition and writes the post-round
// bock count in a single MultiUpdate. Both writes land or neither does. The
// partition write is version-conditioned; on a rejected version the read and
// append are retried.
func (a *NakamaLedgerAdapter) CommitRound(ctx context.Context, day string, entry domain.LedgerEntry, bockCount int) error {
	bockValue, err := json.Marshal(bockRecord{Count: bockCount})
	if err != nil {
		return fmt.Errorf("failed to marshal bock counter: %w", err)
	}

	for attempt := 0; attempt < commitAttempts; attempt++ {
		rows, version, err := a.readPartition(ctx, day)
		if err != nil {
			return err
		}
		if version == "" {
			// Partition does not exist yet; create-only write.
			version = "*"
		}

		value, err := json.Marshal(ledgerPartition{Rows: append(rows, entry)})
		if err != nil {
			return fmt.Errorf("failed to marshal ledger partition: %w", err)
		}

		writes := []*runtime.StorageWrite{
			systemWrite(ledgerCollection, day, string(value), version),
			systemWrite(settingsCollection, bockKey, string(bockValue), ""),
		}
		_, _, err = a.nk.MultiUpdate(ctx, nil, writes, nil, nil, false)
		if err == nil {
			return nil
		}
		if !errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return fmt.Errorf("failed to commit round: %w", err)
		}
	}
	return fmt.Errorf("failed to commit round for %s: version conflict persisted", day)
}

// Entries returns the rounds of one day partition in append order.
func (a *NakamaLedgerAdapter) Entries(ctx context.Context, day string) ([]domain.LedgerEntry, error) {
	rows, _, err := a.readPartition(ctx, day)
	return rows, err
}

// AllEntries returns every recorded round, day partitions in chronological
// order and rounds within a day in append order.
func (a *NakamaLedgerAdapter) AllEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	var objects []partitionObject

	cursor := ""
	for {
		page, next, err := a.nk.StorageList(ctx, "", "", ledgerCollection, ledgerPageSize, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list ledger partitions: %w", err)
		}
		for _, object := range page {
			day, err := time.Parse(app.DayKeyLayout, object.Key)
			if err != nil {
				return nil, fmt.Errorf("unexpected ledger key %q: %w", object.Key, err)
			}
			var partition ledgerPartition
			if err := json.Unmarshal([]byte(object.Value), &partition); err != nil {
				return nil, fmt.Errorf("failed to unmarshal ledger partition %s: %w", object.Key, err)
			}
			objects = append(objects, partitionObject{day: day, rows: partition.Rows})
		}
		if next == "" {
			break
		}
		cursor = next
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].day.Before(objects[j].day) })

	var entries []domain.LedgerEntry
	for _, object := range objects {
		entries = append(entries, object.rows...)
	}
	return entries, nil
}

// DeleteLast removes the newest entry of the day partition and returns it.
func (a *NakamaLedgerAdapter) DeleteLast(ctx context.Context, day string) (domain.LedgerEntry, error) {
	for attempt := 0; attempt < commitAttempts; attempt++ {
		rows, version, err := a.readPartition(ctx, day)
		if err != nil {
			return domain.LedgerEntry{}, err
		}
		if len(rows) == 0 {
			return domain.LedgerEntry{}, domain.ErrEmptyLedger
		}

		removed := rows[len(rows)-1]
		value, err := json.Marshal(ledgerPartition{Rows: rows[:len(rows)-1]})
		if err != nil {
			return domain.LedgerEntry{}, fmt.Errorf("failed to marshal ledger partition: %w", err)
		}

		_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
			systemWrite(ledgerCollection, day, string(value), version),
		})
		if err == nil {
			return removed, nil
		}
		if !errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return domain.LedgerEntry{}, fmt.Errorf("failed to delete last round: %w", err)
		}
	}
	return domain.LedgerEntry{}, fmt.Errorf("failed to delete last round for %s: version conflict persisted", day)
}

func (a *NakamaLedgerAdapter) readPartition(ctx context.Context, day string) ([]domain.LedgerEntry, string, error) {
	value, version, err := readObject(ctx, a.nk, ledgerCollection, day)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read ledger partition %s: %w", day, err)
	}
	if value == "" {
		return nil, "", nil
	}

	var partition ledgerPartition
	if err := json.Unmarshal([]byte(value), &partition); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal ledger partition %s: %w", day, err)
	}
	return partition.Rows, version, nil
}

type partitionObject struct {
	day  time.Time
	rows []domain.LedgerEntry
}

var _ ports.LedgerPort = (*NakamaLedgerAdapter)(nil)
