package nakama

const (
	// MatchNameDokoTable is the authoritative match handler name registered with Nakama.
	MatchNameDokoTable = "doko_table"

	// RPC ids clients call outside of a running match.
	RpcFindTable      = "find_table"
	RpcRegisterRoster = "register_roster"
	RpcShuffleSeats   = "shuffle_seats"
	RpcSettlement     = "settlement"
	RpcTableStats     = "table_stats"
	RpcMyStats        = "my_stats"
	RpcUndoRound      = "undo_round"
	RpcListRules      = "list_rules"
	RpcDashboardLink  = "dashboard_link"
	RpcResetBock      = "reset_bock"
	RpcResetRoster    = "reset_roster"
	RpcInvite         = "invite"
)

// Storage layout. All table data is system-owned (empty user id) so every
// client of the table reads the same sheet.
const (
	settingsCollection = "settings"
	rulesKey           = "rules"
	rosterKey          = "roster"
	bockKey            = "bock"

	ledgerCollection = "ledger"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartRound         int64 = 1
	OpChooseVariant      int64 = 2
	OpTogglePlayer       int64 = 3
	OpConfirmTeam        int64 = 4
	OpChooseSoloist      int64 = 5
	OpChooseWinner       int64 = 6
	OpToggleAnnouncement int64 = 7
	OpAnnouncementsDone  int64 = 8
	OpToggleSpecial      int64 = 9
	OpFinishRound        int64 = 10
	OpCancelRound        int64 = 11

	// Server -> Client events
	OpPrompt           int64 = 101
	OpRoundLogged      int64 = 102
	OpSessionCancelled int64 = 103
	OpRoundError       int64 = 104
)
