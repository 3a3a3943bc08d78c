package domain

import (
	"errors"
	"time"
)

// ErrEmptyLedger is returned by undo and reporting operations when the
// requested partition holds no rounds. Informational, not fatal.
var ErrEmptyLedger = errors.New("no rounds recorded")

// LedgerEntry is one finalized round as recorded in a day partition. Entries
// are immutable once appended; only the newest entry of the current day may be
// removed again by an undo.
type LedgerEntry struct {
	Time        time.Time      `json:"time"`
	Variant     Variant        `json:"variant"`
	Winner      Side           `json:"winner"`
	TotalPoints int            `json:"total_points"`
	Deltas      map[string]int `json:"deltas"`
}
