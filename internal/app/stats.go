package app

import (
	"context"
	"fmt"

	"doko/internal/domain"
	"doko/internal/ports"
)

// Settlement direction values.
const (
	DirectionOwes     = "owes"
	DirectionReceives = "receives"
)

// Settlement is one player's monetary position.
type Settlement struct {
	Points    int     `json:"points"`
	Euros     float64 `json:"euros"`
	Direction string  `json:"direction"`
}

// PlayerLine is one player's aggregate standing.
type PlayerLine struct {
	Name    string  `json:"name"`
	Points  int     `json:"points"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"` // percent
}

// TableReport is the full leaderboard with the best and worst performer.
type TableReport struct {
	Lines     []PlayerLine `json:"lines"`
	MVP       string       `json:"mvp"`
	LowScorer string       `json:"low_scorer"`
}

// Stats derives aggregates from the ledger. Every call recomputes from the
// full entry list; at tens of rounds per session, correctness beats caching.
type Stats struct {
	ledger ports.LedgerPort
	rules  ports.RulesPort
}

// NewStats constructs the read-side reporting service.
func NewStats(ledger ports.LedgerPort, rules ports.RulesPort) *Stats {
	return &Stats{ledger: ledger, rules: rules}
}

// Totals returns the running point total per roster player across all days.
func (s *Stats) Totals(ctx context.Context, roster []string) (map[string]int, error) {
	entries, err := s.ledger.AllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	totals := make(map[string]int, len(roster))
	for _, p := range roster {
		totals[p] = 0
	}
	for _, e := range entries {
		for _, p := range roster {
			totals[p] += e.Deltas[p]
		}
	}
	return totals, nil
}

// Report builds the leaderboard across all recorded days.
func (s *Stats) Report(ctx context.Context, roster []string) (*TableReport, error) {
	entries, err := s.ledger.AllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if len(entries) == 0 {
		return nil, domain.ErrEmptyLedger
	}

	report := &TableReport{Lines: make([]PlayerLine, 0, len(roster))}
	for _, p := range roster {
		report.Lines = append(report.Lines, playerLine(entries, p))
	}

	// Ties resolve to the earliest roster seat.
	best, worst := report.Lines[0], report.Lines[0]
	for _, line := range report.Lines[1:] {
		if line.Points > best.Points {
			best = line
		}
		if line.Points < worst.Points {
			worst = line
		}
	}
	report.MVP = best.Name
	report.LowScorer = worst.Name
	return report, nil
}

// PlayerReport builds the aggregate line for a single roster player.
func (s *Stats) PlayerReport(ctx context.Context, name string) (PlayerLine, error) {
	entries, err := s.ledger.AllEntries(ctx)
	if err != nil {
		return PlayerLine{}, fmt.Errorf("load ledger: %w", err)
	}
	if len(entries) == 0 {
		return PlayerLine{}, domain.ErrEmptyLedger
	}
	return playerLine(entries, name), nil
}

// SettleAll computes the monetary settlement over the whole ledger.
func (s *Stats) SettleAll(ctx context.Context, roster []string) (map[string]Settlement, error) {
	entries, err := s.ledger.AllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	if len(entries) == 0 {
		return nil, domain.ErrEmptyLedger
	}
	rules, err := s.rules.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return Settle(entries, rules, roster)
}

// Undo removes the newest round of the given day partition and returns it.
func (s *Stats) Undo(ctx context.Context, day string) (domain.LedgerEntry, error) {
	return s.ledger.DeleteLast(ctx, day)
}

// Settle is the pure settlement computation: points per player over the given
// entries, converted to euros via the cent factor. No hidden state.
func Settle(entries []domain.LedgerEntry, rules domain.RuleSet, roster []string) (map[string]Settlement, error) {
	centFactor, err := rules.CentFactor()
	if err != nil {
		return nil, err
	}

	out := make(map[string]Settlement, len(roster))
	for _, p := range roster {
		points := 0
		for _, e := range entries {
			points += e.Deltas[p]
		}
		direction := DirectionReceives
		if points < 0 {
			direction = DirectionOwes
		}
		out[p] = Settlement{
			Points:    points,
			Euros:     float64(points) * centFactor,
			Direction: direction,
		}
	}
	return out, nil
}

func playerLine(entries []domain.LedgerEntry, name string) PlayerLine {
	line := PlayerLine{Name: name}
	for _, e := range entries {
		pts := e.Deltas[name]
		line.Points += pts
		if pts != 0 {
			line.Games++
			if pts > 0 {
				line.Wins++
			}
		}
	}
	if line.Games > 0 {
		line.WinRate = float64(line.Wins) / float64(line.Games) * 100
	}
	return line
}
