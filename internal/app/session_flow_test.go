package app

import (
	"context"
	"testing"

	"doko/internal/domain"
)

// Drives a full round entry through the session machine and finalizer against
// in-memory ports, the way the match handler does in production.
func TestFullRoundEntryFlow(t *testing.T) {
	ledger := newFakeLedgerPort()
	bock := &fakeBockPort{}
	finalizer := NewFinalizer(&fakeRulesPort{}, ledger, bock, fixedClock)

	s := NewSession("u1", sessionRoster)
	steps := []func() (Event, error){
		func() (Event, error) { return s.ChooseVariant(domain.VariantTeam) },
		func() (Event, error) { return s.ToggleTeamMember("Anna") },
		func() (Event, error) { return s.ToggleTeamMember("Ben") },
		func() (Event, error) { return s.ConfirmTeam() },
		func() (Event, error) { return s.ChooseWinner(domain.SideRe) },
		func() (Event, error) { return s.ToggleAnnouncement(domain.TagRe) },
		func() (Event, error) { return s.ConfirmAnnouncements() },
		func() (Event, error) { return s.ToggleSpecial(domain.TagFuchs) },
		func() (Event, error) { return s.ToggleSpecial(domain.TagKarlchen) },
	}
	for i, step := range steps {
		if _, err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	round, err := s.CompleteRound()
	if err != nil {
		t.Fatalf("complete round: %v", err)
	}
	result, err := finalizer.FinalizeRound(context.Background(), round, sessionRoster)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	// (1 base + 2 specials) * 2 for one announcement = 6.
	want := map[string]int{"Anna": 6, "Ben": 6, "Clara": -6, "David": -6}
	for p, w := range want {
		if result.Scores[p] != w {
			t.Errorf("scores[%s] = %d, want %d", p, result.Scores[p], w)
		}
	}

	ev := result.LoggedEvent(round)
	payload := ev.Payload.(RoundLoggedPayload)
	if payload.TotalPoints != 12 {
		t.Errorf("total points = %d, want 12", payload.TotalPoints)
	}
	if len(payload.Announcements) != 1 || len(payload.Specials) != 2 {
		t.Errorf("payload tags = %v / %v, want 1 announcement and 2 specials", payload.Announcements, payload.Specials)
	}

	// A second round requires a fresh session.
	if _, err := s.ChooseVariant(domain.VariantSolo); err == nil {
		t.Fatal("finalized session must not accept further input")
	}
}
