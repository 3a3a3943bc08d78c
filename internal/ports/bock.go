package ports

import "context"

// BockPort reads and resets the shared bock counter cell. Round finalization
// writes the counter through LedgerPort.CommitRound instead, so the ledger
// append and the counter update cannot diverge.
type BockPort interface {
	// Count returns the current number of pending bock rounds. An absent or
	// non-numeric cell yields 0.
	Count(ctx context.Context) (int, error)

	// Set overwrites the counter. Used by admin resets only.
	Set(ctx context.Context, count int) error
}
