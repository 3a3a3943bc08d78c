package ports

import (
	"context"

	"doko/internal/domain"
)

// LedgerPort persists finalized rounds in per-day partitions together with the
// bock counter cell.
type LedgerPort interface {
	// CommitRound appends the entry to the given day partition and writes the
	// post-round bock count in one atomic update. Either both changes land or
	// neither does.
	CommitRound(ctx context.Context, day string, entry domain.LedgerEntry, bockCount int) error

	// Entries returns the rounds of one day partition in append order.
	// A missing partition yields an empty slice.
	Entries(ctx context.Context, day string) ([]domain.LedgerEntry, error)

	// AllEntries returns every recorded round across all day partitions.
	AllEntries(ctx context.Context) ([]domain.LedgerEntry, error)

	// DeleteLast removes the newest entry of the given day partition and
	// returns it. Deleting from an empty partition is an error.
	DeleteLast(ctx context.Context, day string) (domain.LedgerEntry, error)
}
