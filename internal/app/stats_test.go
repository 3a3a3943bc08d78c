package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"doko/internal/domain"
)

func entry(deltas map[string]int) domain.LedgerEntry {
	return domain.LedgerEntry{
		Time:        time.Date(2026, time.August, 27, 19, 0, 0, 0, time.UTC),
		Variant:     domain.VariantTeam,
		Winner:      domain.SideRe,
		TotalPoints: domain.TotalPositive(deltas),
		Deltas:      deltas,
	}
}

func seededLedger() *fakeLedgerPort {
	ledger := newFakeLedgerPort()
	ledger.partitions["26.08.26"] = []domain.LedgerEntry{
		entry(map[string]int{"Anna": 2, "Ben": 2, "Clara": -2, "David": -2}),
		entry(map[string]int{"Anna": -1, "Ben": 1, "Clara": 1, "David": -1}),
	}
	ledger.partitions["27.08.26"] = []domain.LedgerEntry{
		entry(map[string]int{"Anna": 3, "Ben": -1, "Clara": -1, "David": -1}),
	}
	return ledger
}

func TestTotalsAcrossDays(t *testing.T) {
	stats := NewStats(seededLedger(), &fakeRulesPort{})

	totals, err := stats.Totals(context.Background(), sessionRoster)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	want := map[string]int{"Anna": 4, "Ben": 2, "Clara": -2, "David": -4}
	for p, w := range want {
		if totals[p] != w {
			t.Errorf("totals[%s] = %d, want %d", p, totals[p], w)
		}
	}
}

func TestTotalsAreIdempotent(t *testing.T) {
	stats := NewStats(seededLedger(), &fakeRulesPort{})

	first, err := stats.Totals(context.Background(), sessionRoster)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	second, err := stats.Totals(context.Background(), sessionRoster)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	for p := range first {
		if first[p] != second[p] {
			t.Fatalf("totals changed between calls for %s: %d vs %d", p, first[p], second[p])
		}
	}
}

func TestReportLeaderboard(t *testing.T) {
	stats := NewStats(seededLedger(), &fakeRulesPort{})

	report, err := stats.Report(context.Background(), sessionRoster)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.MVP != "Anna" {
		t.Errorf("MVP = %s, want Anna", report.MVP)
	}
	if report.LowScorer != "David" {
		t.Errorf("low scorer = %s, want David", report.LowScorer)
	}

	for _, line := range report.Lines {
		if line.Name != "Anna" {
			continue
		}
		if line.Games != 3 || line.Wins != 2 {
			t.Errorf("Anna games/wins = %d/%d, want 3/2", line.Games, line.Wins)
		}
		wantRate := float64(2) / 3 * 100
		if line.WinRate != wantRate {
			t.Errorf("Anna win rate = %v, want %v", line.WinRate, wantRate)
		}
	}
}

func TestReportEmptyLedger(t *testing.T) {
	stats := NewStats(newFakeLedgerPort(), &fakeRulesPort{})

	_, err := stats.Report(context.Background(), sessionRoster)
	if !errors.Is(err, domain.ErrEmptyLedger) {
		t.Fatalf("err = %v, want ErrEmptyLedger", err)
	}
}

func TestSettleAll(t *testing.T) {
	rules := &fakeRulesPort{rules: domain.RuleSet{domain.RuleCentFactor: 0.05}}
	stats := NewStats(seededLedger(), rules)

	settlements, err := stats.SettleAll(context.Background(), sessionRoster)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	anna := settlements["Anna"]
	if anna.Points != 4 || anna.Euros != 0.2 || anna.Direction != DirectionReceives {
		t.Errorf("Anna settlement = %+v, want 4 points, 0.2 EUR, receives", anna)
	}
	david := settlements["David"]
	if david.Points != -4 || david.Euros != -0.2 || david.Direction != DirectionOwes {
		t.Errorf("David settlement = %+v, want -4 points, -0.2 EUR, owes", david)
	}
}

func TestUndoRemovesExactlyOneEntry(t *testing.T) {
	ledger := seededLedger()
	stats := NewStats(ledger, &fakeRulesPort{})

	removed, err := stats.Undo(context.Background(), "27.08.26")
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if removed.Deltas["Anna"] != 3 {
		t.Fatalf("removed wrong entry: %v", removed.Deltas)
	}
	if len(ledger.partitions["27.08.26"]) != 0 {
		t.Fatalf("partition still has %d entries", len(ledger.partitions["27.08.26"]))
	}
	if len(ledger.partitions["26.08.26"]) != 2 {
		t.Fatal("undo must not touch other partitions")
	}
}

func TestUndoOnEmptyPartition(t *testing.T) {
	stats := NewStats(newFakeLedgerPort(), &fakeRulesPort{})

	_, err := stats.Undo(context.Background(), "27.08.26")
	if !errors.Is(err, domain.ErrEmptyLedger) {
		t.Fatalf("err = %v, want ErrEmptyLedger", err)
	}
}

func TestPlayerReport(t *testing.T) {
	stats := NewStats(seededLedger(), &fakeRulesPort{})

	line, err := stats.PlayerReport(context.Background(), "Ben")
	if err != nil {
		t.Fatalf("player report: %v", err)
	}
	if line.Points != 2 || line.Games != 3 || line.Wins != 2 {
		t.Fatalf("Ben line = %+v, want 2 points over 3 games with 2 wins", line)
	}
}
