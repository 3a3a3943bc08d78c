package app

import (
	"context"
	"fmt"
	"time"

	"doko/internal/domain"
	"doko/internal/ports"
)

// DayKeyLayout is the ledger partition key format, one partition per calendar
// day (dd.mm.yy, as the original score sheets were named).
const DayKeyLayout = "02.01.06"

// DayKey returns the ledger partition key for the given time.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// Finalizer turns a completed round description into a ledger entry. It owns
// the ordering contract around the bock counter: the bonus flag is captured
// before scoring, the trigger applies after, and both land in the same atomic
// commit as the ledger append.
type Finalizer struct {
	rules  ports.RulesPort
	ledger ports.LedgerPort
	bock   ports.BockPort
	now    func() time.Time
}

// NewFinalizer constructs a Finalizer with the required ports. now may be nil
// to use the wall clock.
func NewFinalizer(rules ports.RulesPort, ledger ports.LedgerPort, bock ports.BockPort, now func() time.Time) *Finalizer {
	if now == nil {
		now = time.Now
	}
	return &Finalizer{rules: rules, ledger: ledger, bock: bock, now: now}
}

// RoundResult reports the outcome of a successful finalization.
type RoundResult struct {
	Entry         domain.LedgerEntry
	Scores        map[string]int
	WasBock       bool
	BockRemaining int
	BockTriggered bool
}

// FinalizeRound scores the round, appends it to today's ledger partition and
// updates the bock counter, all-or-nothing. On any error nothing is persisted
// and the caller must restart collection from scratch.
func (f *Finalizer) FinalizeRound(ctx context.Context, round *domain.Round, roster []string) (*RoundResult, error) {
	if err := round.Validate(roster); err != nil {
		return nil, err
	}

	rules, err := f.rules.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	current, err := f.bock.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("read bock counter: %w", err)
	}

	// Capture the bonus flag before scoring; the counter is decremented at
	// most once per round.
	counter := domain.NewBockCounter(current)
	wasBock := counter.Consume()

	scores, err := domain.ScoreRound(round, rules, wasBock, roster)
	if err != nil {
		return nil, err
	}

	triggered := round.HasSpecial(domain.TagHerzRundlauf)
	if triggered {
		counter.Trigger()
	}

	entry := domain.LedgerEntry{
		Time:        f.now(),
		Variant:     round.Variant,
		Winner:      round.Winner,
		TotalPoints: domain.TotalPositive(scores),
		Deltas:      scores,
	}

	if err := f.ledger.CommitRound(ctx, DayKey(entry.Time), entry, counter.Count()); err != nil {
		return nil, fmt.Errorf("commit round: %w", err)
	}

	return &RoundResult{
		Entry:         entry,
		Scores:        scores,
		WasBock:       wasBock,
		BockRemaining: counter.Count(),
		BockTriggered: triggered,
	}, nil
}

// LoggedEvent converts a finalization result into the broadcast event the
// transport renders as the round summary.
func (r *RoundResult) LoggedEvent(round *domain.Round) Event {
	return Event{
		Kind: EventRoundLogged,
		Payload: RoundLoggedPayload{
			Variant:       round.Variant,
			Winner:        round.Winner,
			Announcements: round.AnnouncementList(),
			Specials:      round.SpecialList(),
			Scores:        r.Scores,
			TotalPoints:   r.Entry.TotalPoints,
			WasBock:       r.WasBock,
			BockRemaining: r.BockRemaining,
			BockTriggered: r.BockTriggered,
		},
	}
}
