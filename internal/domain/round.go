package domain

import (
	"errors"
	"fmt"
)

// TeamSize is the number of players on the declared Re team in a team round.
const TeamSize = 2

// ErrInvalidRound is returned when a round description is incomplete or
// inconsistent at scoring time.
var ErrInvalidRound = errors.New("invalid round")

// Round is one in-progress or finalized round description. The session machine
// owns it while it is being collected; after finalization it is read-only.
type Round struct {
	Variant Variant
	Team    []string // declared Re team, exactly TeamSize members when complete
	Soloist string
	Winner  Side

	Announcements map[string]bool
	Specials      map[string]bool
}

// NewRound returns an empty round ready for collection.
func NewRound() *Round {
	return &Round{
		Announcements: make(map[string]bool),
		Specials:      make(map[string]bool),
	}
}

// ToggleTeamMember flips a player's membership in the Re team. Adding a third
// member is ignored, matching the selection UI which caps the team at two.
// It reports whether the selection changed.
func (r *Round) ToggleTeamMember(name string) bool {
	for i, member := range r.Team {
		if member == name {
			r.Team = append(r.Team[:i], r.Team[i+1:]...)
			return true
		}
	}
	if len(r.Team) >= TeamSize {
		return false
	}
	r.Team = append(r.Team, name)
	return true
}

// OnTeam reports whether the player is currently selected for the Re team.
func (r *Round) OnTeam(name string) bool {
	for _, member := range r.Team {
		if member == name {
			return true
		}
	}
	return false
}

// ToggleAnnouncement flips an announcement tag's membership.
func (r *Round) ToggleAnnouncement(tag string) {
	toggle(r.Announcements, tag)
}

// ToggleSpecial flips a special event tag's membership.
func (r *Round) ToggleSpecial(tag string) {
	toggle(r.Specials, tag)
}

// ClearTags drops any accumulated announcements and special events. The winner
// step calls this so a restarted tag selection never inherits stale state.
func (r *Round) ClearTags() {
	r.Announcements = make(map[string]bool)
	r.Specials = make(map[string]bool)
}

// HasSpecial reports whether the given special event tag was recorded.
func (r *Round) HasSpecial(tag string) bool {
	return r.Specials[tag]
}

// AnnouncementList returns the selected announcements in canonical tag order.
func (r *Round) AnnouncementList() []string {
	return selectedTags(AnnouncementTags, r.Announcements)
}

// SpecialList returns the selected special events in canonical tag order.
func (r *Round) SpecialList() []string {
	return selectedTags(SpecialTags, r.Specials)
}

// Validate checks that the round is complete and consistent against the
// roster. Incomplete rounds must never reach the scorer.
func (r *Round) Validate(roster []string) error {
	switch r.Variant {
	case VariantTeam:
		if len(r.Team) != TeamSize {
			return fmt.Errorf("%w: team has %d members, want %d", ErrInvalidRound, len(r.Team), TeamSize)
		}
		for _, member := range r.Team {
			if !onRoster(roster, member) {
				return fmt.Errorf("%w: team member %q not on roster", ErrInvalidRound, member)
			}
		}
		if r.Winner != SideRe && r.Winner != SideKontra {
			return fmt.Errorf("%w: winner %q is not a team side", ErrInvalidRound, r.Winner)
		}
	case VariantSolo:
		if r.Soloist == "" {
			return fmt.Errorf("%w: soloist not set", ErrInvalidRound)
		}
		if !onRoster(roster, r.Soloist) {
			return fmt.Errorf("%w: soloist %q not on roster", ErrInvalidRound, r.Soloist)
		}
		if r.Winner != SideSoloist && r.Winner != SideOthers {
			return fmt.Errorf("%w: winner %q is not a solo side", ErrInvalidRound, r.Winner)
		}
	default:
		return fmt.Errorf("%w: variant not set", ErrInvalidRound)
	}
	return nil
}

func toggle(set map[string]bool, tag string) {
	if set[tag] {
		delete(set, tag)
		return
	}
	set[tag] = true
}

func selectedTags(order []string, set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for _, tag := range order {
		if set[tag] {
			out = append(out, tag)
		}
	}
	return out
}

func onRoster(roster []string, name string) bool {
	for _, p := range roster {
		if p == name {
			return true
		}
	}
	return false
}
