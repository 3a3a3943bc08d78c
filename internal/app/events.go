package app

import "doko/internal/domain"

// EventKind identifies emitted session events for transport dispatch.
type EventKind string

const (
	EventPrompt           EventKind = "prompt"
	EventRoundLogged      EventKind = "round_logged"
	EventSessionCancelled EventKind = "session_cancelled"
)

// Event is a session/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

// PromptPayload describes the current collection step for rendering. The
// transport decides how to present it; the core only supplies options and the
// current selection.
type PromptPayload struct {
	Step       SessionState `json:"step"`
	Options    []string     `json:"options"`
	Selected   []string     `json:"selected,omitempty"`
	CanConfirm bool         `json:"can_confirm"`
}

// RoundLoggedPayload summarizes a finalized round.
type RoundLoggedPayload struct {
	Variant       domain.Variant `json:"variant"`
	Winner        domain.Side    `json:"winner"`
	Announcements []string       `json:"announcements,omitempty"`
	Specials      []string       `json:"specials,omitempty"`
	Scores        map[string]int `json:"scores"`
	TotalPoints   int            `json:"total_points"`
	WasBock       bool           `json:"was_bock"`
	BockRemaining int            `json:"bock_remaining"`
	BockTriggered bool           `json:"bock_triggered"`
}

// SessionCancelledPayload explains why an in-progress round entry was dropped.
type SessionCancelledPayload struct {
	Reason string `json:"reason"`
}
