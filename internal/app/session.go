package app

import (
	"errors"

	"doko/internal/domain"
)

// SessionState is the current step of the round-entry conversation.
type SessionState string

const (
	StateAwaitingVariant       SessionState = "awaiting_variant"
	StateAwaitingTeam          SessionState = "awaiting_team"
	StateAwaitingSoloist       SessionState = "awaiting_soloist"
	StateAwaitingWinner        SessionState = "awaiting_winner"
	StateAwaitingAnnouncements SessionState = "awaiting_announcements"
	StateAwaitingSpecials      SessionState = "awaiting_specials"
	StateFinalized             SessionState = "finalized"
)

var (
	ErrWrongStep      = errors.New("input does not match current step")
	ErrUnknownVariant = errors.New("unknown variant")
	ErrUnknownPlayer  = errors.New("player not on roster")
	ErrUnknownTag     = errors.New("unknown tag")
	ErrUnknownSide    = errors.New("winner side does not match variant")
	ErrTeamIncomplete = errors.New("team selection incomplete")
)

// Session is the per-round conversational state machine. It incrementally
// collects one round description and owns it exclusively until the round is
// completed or the session is discarded. Inputs are strictly sequential; the
// transport serializes them.
type Session struct {
	OwnerID string
	Roster  []string
	State   SessionState
	Round   *domain.Round
}

// NewSession starts a round entry owned by the given user against a fixed
// roster snapshot.
func NewSession(ownerID string, roster []string) *Session {
	return &Session{
		OwnerID: ownerID,
		Roster:  roster,
		State:   StateAwaitingVariant,
		Round:   domain.NewRound(),
	}
}

// Prompt returns the rendering payload for the current step.
func (s *Session) Prompt() Event {
	p := PromptPayload{Step: s.State}
	switch s.State {
	case StateAwaitingVariant:
		p.Options = []string{string(domain.VariantTeam), string(domain.VariantSolo)}
	case StateAwaitingTeam:
		p.Options = append([]string(nil), s.Roster...)
		p.Selected = append([]string(nil), s.Round.Team...)
		p.CanConfirm = len(s.Round.Team) == domain.TeamSize
	case StateAwaitingSoloist:
		p.Options = append([]string(nil), s.Roster...)
	case StateAwaitingWinner:
		if s.Round.Variant == domain.VariantSolo {
			p.Options = []string{string(domain.SideSoloist), string(domain.SideOthers)}
		} else {
			p.Options = []string{string(domain.SideRe), string(domain.SideKontra)}
		}
	case StateAwaitingAnnouncements:
		p.Options = append([]string(nil), domain.AnnouncementTags...)
		p.Selected = s.Round.AnnouncementList()
		p.CanConfirm = true
	case StateAwaitingSpecials:
		p.Options = append([]string(nil), domain.SpecialTags...)
		p.Selected = s.Round.SpecialList()
		p.CanConfirm = true
	}
	return Event{Kind: EventPrompt, Payload: p}
}

// ChooseVariant records the game variant and advances to side selection.
func (s *Session) ChooseVariant(variant domain.Variant) (Event, error) {
	if s.State != StateAwaitingVariant {
		return Event{}, ErrWrongStep
	}
	switch variant {
	case domain.VariantTeam:
		s.Round.Variant = variant
		s.Round.Team = nil
		s.State = StateAwaitingTeam
	case domain.VariantSolo:
		s.Round.Variant = variant
		s.State = StateAwaitingSoloist
	default:
		return Event{}, ErrUnknownVariant
	}
	return s.Prompt(), nil
}

// ToggleTeamMember flips a player's Re-team selection and re-renders the
// selection state. The confirm affordance appears at exactly two members.
func (s *Session) ToggleTeamMember(name string) (Event, error) {
	if s.State != StateAwaitingTeam {
		return Event{}, ErrWrongStep
	}
	if !s.onRoster(name) {
		return Event{}, ErrUnknownPlayer
	}
	s.Round.ToggleTeamMember(name)
	return s.Prompt(), nil
}

// ConfirmTeam locks the two-member Re team and advances to the winner step.
func (s *Session) ConfirmTeam() (Event, error) {
	if s.State != StateAwaitingTeam {
		return Event{}, ErrWrongStep
	}
	if len(s.Round.Team) != domain.TeamSize {
		return Event{}, ErrTeamIncomplete
	}
	s.State = StateAwaitingWinner
	return s.Prompt(), nil
}

// ChooseSoloist records the soloist and advances to the winner step.
func (s *Session) ChooseSoloist(name string) (Event, error) {
	if s.State != StateAwaitingSoloist {
		return Event{}, ErrWrongStep
	}
	if !s.onRoster(name) {
		return Event{}, ErrUnknownPlayer
	}
	s.Round.Soloist = name
	s.State = StateAwaitingWinner
	return s.Prompt(), nil
}

// ChooseWinner records the winning side and opens announcement collection.
// Any previously accumulated tags are dropped.
func (s *Session) ChooseWinner(side domain.Side) (Event, error) {
	if s.State != StateAwaitingWinner {
		return Event{}, ErrWrongStep
	}
	if s.Round.Variant == domain.VariantSolo {
		if side != domain.SideSoloist && side != domain.SideOthers {
			return Event{}, ErrUnknownSide
		}
	} else {
		if side != domain.SideRe && side != domain.SideKontra {
			return Event{}, ErrUnknownSide
		}
	}
	s.Round.Winner = side
	s.Round.ClearTags()
	s.State = StateAwaitingAnnouncements
	return s.Prompt(), nil
}

// ToggleAnnouncement flips an announcement tag.
func (s *Session) ToggleAnnouncement(tag string) (Event, error) {
	if s.State != StateAwaitingAnnouncements {
		return Event{}, ErrWrongStep
	}
	if !domain.IsAnnouncementTag(tag) {
		return Event{}, ErrUnknownTag
	}
	s.Round.ToggleAnnouncement(tag)
	return s.Prompt(), nil
}

// ConfirmAnnouncements closes announcement collection and opens the special
// events step.
func (s *Session) ConfirmAnnouncements() (Event, error) {
	if s.State != StateAwaitingAnnouncements {
		return Event{}, ErrWrongStep
	}
	s.State = StateAwaitingSpecials
	return s.Prompt(), nil
}

// ToggleSpecial flips a special event tag.
func (s *Session) ToggleSpecial(tag string) (Event, error) {
	if s.State != StateAwaitingSpecials {
		return Event{}, ErrWrongStep
	}
	if !domain.IsSpecialTag(tag) {
		return Event{}, ErrUnknownTag
	}
	s.Round.ToggleSpecial(tag)
	return s.Prompt(), nil
}

// CompleteRound validates the collected description and hands it over for
// finalization. A failed validation leaves the session in its current state;
// the caller decides whether to discard it.
func (s *Session) CompleteRound() (*domain.Round, error) {
	if s.State != StateAwaitingSpecials {
		return nil, ErrWrongStep
	}
	if err := s.Round.Validate(s.Roster); err != nil {
		return nil, err
	}
	s.State = StateFinalized
	return s.Round, nil
}

func (s *Session) onRoster(name string) bool {
	for _, p := range s.Roster {
		if p == name {
			return true
		}
	}
	return false
}
