package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"

	"doko/internal/app"
	"doko/internal/config"
	"doko/internal/domain"
	"doko/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const tableConfigPath = "data/table_config.json"

// matchLabel is the queryable label for table matches.
type matchLabel struct {
	Game    string `json:"game"`
	State   string `json:"state"` // "idle" or "entry"
	Players int    `json:"players"`
}

const (
	labelStateIdle  = "idle"
	labelStateEntry = "entry"
)

// TableState holds the authoritative runtime state for one scorekeeper table.
// The match loop is single-threaded, so the in-progress round entry needs no
// locking; every client message is applied in arrival order.
type TableState struct {
	Presences map[string]runtime.Presence `json:"-"`
	Tick      int64                       `json:"tick"`

	Session       *app.Session `json:"-"` // nil when no round entry is in progress
	LastInputTick int64        `json:"last_input_tick"`
	IdleTicks     int64        `json:"idle_ticks"` // ticks without input before the entry is dropped

	Roster    ports.RosterPort `json:"-"`
	Finalizer *app.Finalizer   `json:"-"`
}

// clientCommand is the JSON payload of value-carrying client messages:
// the variant, player name, winner side, or tag being selected.
type clientCommand struct {
	Value string `json:"value"`
}

type errorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewMatchHandler is the factory function registered with Nakama.
func NewMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing table handler.")

	if err := config.LoadTableConfig(tableConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load table config: %v", err)
	}

	idleSeconds := config.SessionIdleSeconds()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["doko_session_idle_sec"]; ok {
			if i, err := strconv.Atoi(val); err == nil && i > 0 {
				idleSeconds = i
			}
		}
	}

	state := &TableState{
		Presences: make(map[string]runtime.Presence),
		IdleTicks: int64(idleSeconds),
		Roster:    NewNakamaRosterAdapter(nk),
		Finalizer: app.NewFinalizer(
			NewNakamaRulesAdapter(nk),
			NewNakamaLedgerAdapter(nk),
			NewNakamaBockAdapter(nk),
			nil,
		),
	}

	labelBytes, err := json.Marshal(matchLabel{Game: "doko", State: labelStateIdle})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // one tick per second drives the idle timeout
	return state, tickRate, string(labelBytes)
}

// MatchJoinAttempt admits everyone; the table is a shared scoreboard, not a
// seated game, so spectators are welcome.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	if _, ok := state.(*TableState); !ok {
		return state, false, "state not found"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	tableState, ok := state.(*TableState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		tableState.Presences[p.GetUserId()] = p
	}

	// Late joiners see the current step, not a blank screen.
	if tableState.Session != nil {
		prompt := tableState.Session.Prompt()
		for _, p := range presences {
			prompt.Recipients = append(prompt.Recipients, p.GetUserId())
		}
		mh.broadcastEvent(tableState, dispatcher, logger, prompt)
	}

	mh.updateLabel(tableState, dispatcher, logger)
	return tableState
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	tableState, ok := state.(*TableState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(tableState.Presences, p.GetUserId())

		// Anyone at the table may continue a leaver's entry except that an
		// ownerless entry with nobody left would linger until the idle
		// timeout; drop it right away instead.
		if tableState.Session != nil && tableState.Session.OwnerID == p.GetUserId() && len(tableState.Presences) == 0 {
			tableState.Session = nil
		}
	}

	if len(tableState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating empty table.")
		return nil
	}

	mh.updateLabel(tableState, dispatcher, logger)
	return tableState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	tableState, ok := state.(*TableState)
	if !ok {
		return state
	}

	tableState.Tick = tick

	for _, msg := range messages {
		mh.handleClientMessage(ctx, tableState, dispatcher, logger, msg.GetUserId(), msg.GetOpCode(), msg.GetData())
	}

	mh.expireIdleSession(tableState, dispatcher, logger)

	return tableState
}

// handleClientMessage applies one client message to the round-entry session.
func (mh *matchHandler) handleClientMessage(ctx context.Context, state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string, opCode int64, data []byte) {
	if opCode == OpStartRound {
		mh.handleStartRound(ctx, state, dispatcher, logger, senderID)
		return
	}

	if state.Session == nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "no round entry in progress")
		return
	}
	state.LastInputTick = state.Tick

	switch opCode {
	case OpFinishRound:
		mh.handleFinishRound(ctx, state, dispatcher, logger, senderID)
		return
	case OpCancelRound:
		mh.dropSession(state, dispatcher, logger, "cancelled")
		return
	}

	var cmd clientCommand
	if len(data) > 0 {
		if err := json.Unmarshal(data, &cmd); err != nil {
			logger.Warn("MatchLoop: Invalid payload from %s on opcode %d: %v", senderID, opCode, err)
			mh.sendError(state, dispatcher, logger, senderID, 400, "invalid payload")
			return
		}
	}

	var ev app.Event
	var err error
	switch opCode {
	case OpChooseVariant:
		ev, err = state.Session.ChooseVariant(domain.Variant(cmd.Value))
	case OpTogglePlayer:
		if state.Session.State == app.StateAwaitingSoloist {
			ev, err = state.Session.ChooseSoloist(cmd.Value)
		} else {
			ev, err = state.Session.ToggleTeamMember(cmd.Value)
		}
	case OpConfirmTeam:
		ev, err = state.Session.ConfirmTeam()
	case OpChooseSoloist:
		ev, err = state.Session.ChooseSoloist(cmd.Value)
	case OpChooseWinner:
		ev, err = state.Session.ChooseWinner(domain.Side(cmd.Value))
	case OpToggleAnnouncement:
		ev, err = state.Session.ToggleAnnouncement(cmd.Value)
	case OpAnnouncementsDone:
		ev, err = state.Session.ConfirmAnnouncements()
	case OpToggleSpecial:
		ev, err = state.Session.ToggleSpecial(cmd.Value)
	default:
		logger.Warn("MatchLoop: Unknown opcode received: %d", opCode)
		return
	}
	if err != nil {
		logger.Warn("MatchLoop: User %s failed opcode %d: %v", senderID, opCode, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	mh.broadcastEvent(state, dispatcher, logger, ev)
}

func (mh *matchHandler) handleStartRound(ctx context.Context, state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string) {
	if state.Session != nil {
		mh.sendError(state, dispatcher, logger, senderID, 409, "a round entry is already in progress")
		return
	}

	roster, err := state.Roster.Load(ctx)
	if err != nil {
		logger.Error("StartRound: Failed to load roster: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 500, "failed to load roster")
		return
	}
	if len(roster) == 0 {
		mh.sendError(state, dispatcher, logger, senderID, 400, "no roster registered")
		return
	}

	state.Session = app.NewSession(senderID, roster)
	state.LastInputTick = state.Tick
	logger.Info("StartRound: User %s opened a round entry for %d players.", senderID, len(roster))

	mh.broadcastEvent(state, dispatcher, logger, state.Session.Prompt())
	mh.updateLabel(state, dispatcher, logger)
}

func (mh *matchHandler) handleFinishRound(ctx context.Context, state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string) {
	round, err := state.Session.CompleteRound()
	if err != nil {
		logger.Warn("FinishRound: User %s cannot finish: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		if !errors.Is(err, app.ErrWrongStep) {
			// An invalid round description is discarded, never finalized.
			mh.dropSession(state, dispatcher, logger, "invalid round")
		}
		return
	}

	result, err := state.Finalizer.FinalizeRound(ctx, round, state.Session.Roster)
	if err != nil {
		logger.Error("FinishRound: Failed to finalize round: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 500, "failed to record round")
		// No automatic retry: the entry is discarded and must be re-collected,
		// so a recovered store never sees the round twice.
		mh.dropSession(state, dispatcher, logger, "store failure")
		return
	}

	logger.Info("FinishRound: Round recorded (variant=%s, winner=%s, total=%d, bock=%t).",
		round.Variant, round.Winner, result.Entry.TotalPoints, result.WasBock)

	state.Session = nil
	mh.broadcastEvent(state, dispatcher, logger, result.LoggedEvent(round))
	mh.updateLabel(state, dispatcher, logger)
}

// expireIdleSession drops a round entry that has seen no input for the
// configured idle window.
func (mh *matchHandler) expireIdleSession(state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Session == nil || state.IdleTicks <= 0 {
		return
	}
	if state.Tick-state.LastInputTick < state.IdleTicks {
		return
	}

	logger.Info("MatchLoop: Dropping idle round entry owned by %s.", state.Session.OwnerID)
	mh.dropSession(state, dispatcher, logger, "idle timeout")
}

// dropSession discards the in-progress round entry and tells every client.
func (mh *matchHandler) dropSession(state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, reason string) {
	state.Session = nil
	mh.broadcastEvent(state, dispatcher, logger, app.Event{
		Kind:    app.EventSessionCancelled,
		Payload: app.SessionCancelledPayload{Reason: reason},
	})
	mh.updateLabel(state, dispatcher, logger)
}

// broadcastEvent converts an app event to its opcode and dispatches it.
func (mh *matchHandler) broadcastEvent(state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	switch ev.Kind {
	case app.EventPrompt:
		opCode = OpPrompt
	case app.EventRoundLogged:
		opCode = OpRoundLogged
	case app.EventSessionCancelled:
		opCode = OpSessionCancelled
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// sendError sends an error event to a specific user.
func (mh *matchHandler) sendError(state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(errorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error event: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpRoundError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *TableState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelState := labelStateIdle
	if state.Session != nil {
		labelState = labelStateEntry
	}

	labelBytes, err := json.Marshal(matchLabel{
		Game:    "doko",
		State:   labelState,
		Players: len(state.Presences),
	})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Table terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
