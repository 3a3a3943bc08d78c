package app

import (
	"errors"
	"testing"

	"doko/internal/domain"
)

var sessionRoster = []string{"Anna", "Ben", "Clara", "David"}

func TestSessionTeamFlow(t *testing.T) {
	s := NewSession("u1", sessionRoster)

	ev, err := s.ChooseVariant(domain.VariantTeam)
	if err != nil {
		t.Fatalf("choose variant: %v", err)
	}
	prompt := ev.Payload.(PromptPayload)
	if prompt.Step != StateAwaitingTeam {
		t.Fatalf("step = %s, want %s", prompt.Step, StateAwaitingTeam)
	}
	if prompt.CanConfirm {
		t.Fatal("confirm must not be offered before two members are selected")
	}

	if _, err := s.ToggleTeamMember("Anna"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	ev, err = s.ToggleTeamMember("Ben")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	prompt = ev.Payload.(PromptPayload)
	if !prompt.CanConfirm {
		t.Fatal("confirm must be offered at exactly two members")
	}
	if len(prompt.Selected) != 2 {
		t.Fatalf("selected = %v, want two members", prompt.Selected)
	}

	if _, err := s.ConfirmTeam(); err != nil {
		t.Fatalf("confirm team: %v", err)
	}
	ev, err = s.ChooseWinner(domain.SideRe)
	if err != nil {
		t.Fatalf("choose winner: %v", err)
	}
	if ev.Payload.(PromptPayload).Step != StateAwaitingAnnouncements {
		t.Fatalf("step = %s, want announcements", ev.Payload.(PromptPayload).Step)
	}

	if _, err := s.ToggleAnnouncement(domain.TagRe); err != nil {
		t.Fatalf("toggle announcement: %v", err)
	}
	if _, err := s.ConfirmAnnouncements(); err != nil {
		t.Fatalf("confirm announcements: %v", err)
	}
	if _, err := s.ToggleSpecial(domain.TagFuchs); err != nil {
		t.Fatalf("toggle special: %v", err)
	}

	round, err := s.CompleteRound()
	if err != nil {
		t.Fatalf("complete round: %v", err)
	}
	if round.Variant != domain.VariantTeam || round.Winner != domain.SideRe {
		t.Fatalf("round = %+v, want team round won by re", round)
	}
	if s.State != StateFinalized {
		t.Fatalf("state = %s, want finalized", s.State)
	}
}

func TestSessionSoloFlow(t *testing.T) {
	s := NewSession("u1", sessionRoster)

	if _, err := s.ChooseVariant(domain.VariantSolo); err != nil {
		t.Fatalf("choose variant: %v", err)
	}
	if _, err := s.ChooseSoloist("Clara"); err != nil {
		t.Fatalf("choose soloist: %v", err)
	}

	ev := s.Prompt()
	prompt := ev.Payload.(PromptPayload)
	if prompt.Options[0] != string(domain.SideSoloist) {
		t.Fatalf("winner options = %v, want solo sides", prompt.Options)
	}

	if _, err := s.ChooseWinner(domain.SideSoloist); err != nil {
		t.Fatalf("choose winner: %v", err)
	}
	if _, err := s.ConfirmAnnouncements(); err != nil {
		t.Fatalf("confirm announcements: %v", err)
	}
	round, err := s.CompleteRound()
	if err != nil {
		t.Fatalf("complete round: %v", err)
	}
	if round.Soloist != "Clara" {
		t.Fatalf("soloist = %q, want Clara", round.Soloist)
	}
}

func TestSessionRejectsOutOfStepInputs(t *testing.T) {
	s := NewSession("u1", sessionRoster)

	if _, err := s.ToggleTeamMember("Anna"); !errors.Is(err, ErrWrongStep) {
		t.Errorf("toggle before variant: err = %v, want ErrWrongStep", err)
	}
	if _, err := s.ChooseWinner(domain.SideRe); !errors.Is(err, ErrWrongStep) {
		t.Errorf("winner before variant: err = %v, want ErrWrongStep", err)
	}
	if _, err := s.CompleteRound(); !errors.Is(err, ErrWrongStep) {
		t.Errorf("complete before specials: err = %v, want ErrWrongStep", err)
	}
}

func TestSessionRejectsBadInputs(t *testing.T) {
	s := NewSession("u1", sessionRoster)

	if _, err := s.ChooseVariant("dreierlei"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("bad variant: err = %v, want ErrUnknownVariant", err)
	}
	if _, err := s.ChooseVariant(domain.VariantTeam); err != nil {
		t.Fatalf("choose variant: %v", err)
	}
	if _, err := s.ToggleTeamMember("Zoe"); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("off-roster toggle: err = %v, want ErrUnknownPlayer", err)
	}
	if _, err := s.ConfirmTeam(); !errors.Is(err, ErrTeamIncomplete) {
		t.Errorf("confirm with no members: err = %v, want ErrTeamIncomplete", err)
	}
}

func TestSessionRejectsMismatchedWinnerSide(t *testing.T) {
	s := NewSession("u1", sessionRoster)
	if _, err := s.ChooseVariant(domain.VariantSolo); err != nil {
		t.Fatalf("choose variant: %v", err)
	}
	if _, err := s.ChooseSoloist("Anna"); err != nil {
		t.Fatalf("choose soloist: %v", err)
	}
	if _, err := s.ChooseWinner(domain.SideRe); !errors.Is(err, ErrUnknownSide) {
		t.Errorf("team side on solo round: err = %v, want ErrUnknownSide", err)
	}
}

func TestSessionWinnerStepClearsTags(t *testing.T) {
	s := NewSession("u1", sessionRoster)
	if _, err := s.ChooseVariant(domain.VariantTeam); err != nil {
		t.Fatal(err)
	}
	s.Round.ToggleAnnouncement(domain.TagRe)
	s.Round.ToggleSpecial(domain.TagFuchs)

	if _, err := s.ToggleTeamMember("Anna"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToggleTeamMember("Ben"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ConfirmTeam(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ChooseWinner(domain.SideKontra); err != nil {
		t.Fatal(err)
	}

	if len(s.Round.Announcements) != 0 || len(s.Round.Specials) != 0 {
		t.Fatal("winner step must clear prior tag accumulation")
	}
}

func TestSessionUnknownTag(t *testing.T) {
	s := NewSession("u1", sessionRoster)
	if _, err := s.ChooseVariant(domain.VariantSolo); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ChooseSoloist("Anna"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ChooseWinner(domain.SideOthers); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToggleAnnouncement("Schwarz"); !errors.Is(err, ErrUnknownTag) {
		t.Errorf("special tag in announcement step: err = %v, want ErrUnknownTag", err)
	}
}
