package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"doko/internal/app"
	"doko/internal/app/setup"
	"doko/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcFindTable:      rpcFindTable,
		RpcRegisterRoster: rpcRegisterRoster,
		RpcShuffleSeats:   rpcShuffleSeats,
		RpcSettlement:     rpcSettlement,
		RpcTableStats:     rpcTableStats,
		RpcMyStats:        rpcMyStats,
		RpcUndoRound:      rpcUndoRound,
		RpcListRules:      rpcListRules,
		RpcDashboardLink:  rpcDashboardLink,
		RpcResetBock:      rpcResetBock,
		RpcResetRoster:    rpcResetRoster,
		RpcInvite:         rpcInvite,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return err
		}
	}
	return nil
}

// FindTableResponse is the payload returned to clients looking for the
// group's scorekeeper table.
type FindTableResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// rpcFindTable returns the running table match, creating it if none exists.
// One group, one table; the label query keeps everyone on the same sheet.
func rpcFindTable(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	matchID, isNew, err := findOrCreateTable(ctx, logger, nk)
	if err != nil {
		return "", err
	}

	b, _ := json.Marshal(FindTableResponse{MatchID: matchID, IsNew: isNew})
	return string(b), nil
}

func findOrCreateTable(ctx context.Context, logger runtime.Logger, nk runtime.NakamaModule) (string, bool, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	limit := 1
	authoritative := true
	query := "+label.game:doko"

	matches, err := nk.MatchList(ctx, limit, authoritative, "", nil, nil, query)
	if err != nil {
		logger.Error("FindTable [User:%s]: Failed to list matches: %v", userID, err)
		return "", false, err
	}
	if len(matches) > 0 {
		return matches[0].MatchId, false, nil
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameDokoTable, nil)
	if err != nil {
		logger.Error("FindTable [User:%s]: Failed to create match: %v", userID, err)
		return "", false, err
	}

	logger.Info("FindTable [User:%s]: Created new table %s", userID, matchID)
	return matchID, true, nil
}

// RegisterRosterRequest carries the players for the table in seat order.
type RegisterRosterRequest struct {
	Players []string `json:"players"`
}

func rpcRegisterRoster(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var request RegisterRosterRequest
	if err := json.Unmarshal([]byte(payload), &request); err != nil {
		return "", fmt.Errorf("invalid payload: %w", err)
	}

	service := setup.NewService(NewNakamaRosterAdapter(nk), nil)
	if err := service.RegisterRoster(ctx, request.Players); err != nil {
		return "", err
	}

	logger.Info("RpcRegisterRoster: Registered %d players.", len(request.Players))
	b, _ := json.Marshal(RegisterRosterRequest{Players: request.Players})
	return string(b), nil
}

// ShuffleSeatsResponse is a freshly dealt seating order.
type ShuffleSeatsResponse struct {
	Seats []string `json:"seats"`
}

func rpcShuffleSeats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	service := setup.NewService(NewNakamaRosterAdapter(nk), nil)
	seats, err := service.ShuffleSeats(ctx)
	if err != nil {
		return "", err
	}

	b, _ := json.Marshal(ShuffleSeatsResponse{Seats: seats})
	return string(b), nil
}

func rpcSettlement(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	roster, err := NewNakamaRosterAdapter(nk).Load(ctx)
	if err != nil {
		return "", err
	}

	stats := app.NewStats(NewNakamaLedgerAdapter(nk), NewNakamaRulesAdapter(nk))
	settlements, err := stats.SettleAll(ctx, roster)
	if err != nil {
		return "", err
	}

	b, err := json.Marshal(settlements)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func rpcTableStats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	roster, err := NewNakamaRosterAdapter(nk).Load(ctx)
	if err != nil {
		return "", err
	}

	stats := app.NewStats(NewNakamaLedgerAdapter(nk), NewNakamaRulesAdapter(nk))
	report, err := stats.Report(ctx, roster)
	if err != nil {
		return "", err
	}

	b, err := json.Marshal(report)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// rpcMyStats resolves the caller's account name against the roster and
// returns that player's line.
func rpcMyStats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("no user in context")
	}

	name, err := NewNakamaAccountAdapter(nk).DisplayName(ctx, userID)
	if err != nil {
		return "", err
	}

	roster, err := NewNakamaRosterAdapter(nk).Load(ctx)
	if err != nil {
		return "", err
	}

	player := matchRosterName(roster, name)
	if player == "" {
		return "", fmt.Errorf("account name %q matches no roster player", name)
	}

	stats := app.NewStats(NewNakamaLedgerAdapter(nk), NewNakamaRulesAdapter(nk))
	line, err := stats.PlayerReport(ctx, player)
	if err != nil {
		return "", err
	}

	b, err := json.Marshal(line)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// matchRosterName maps an account name onto a roster player. Accounts rarely
// spell the roster name exactly, so a case-insensitive exact match is tried
// first and a one-sided prefix match second. Ambiguous prefixes match nothing.
func matchRosterName(roster []string, name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	for _, player := range roster {
		if strings.ToLower(player) == name {
			return player
		}
	}

	match := ""
	for _, player := range roster {
		p := strings.ToLower(player)
		if strings.HasPrefix(p, name) || strings.HasPrefix(name, p) {
			if match != "" {
				return ""
			}
			match = player
		}
	}
	return match
}

// rpcUndoRound removes the newest round of the current day and returns it.
func rpcUndoRound(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	stats := app.NewStats(NewNakamaLedgerAdapter(nk), NewNakamaRulesAdapter(nk))
	removed, err := stats.Undo(ctx, app.DayKey(time.Now()))
	if err != nil {
		return "", err
	}

	logger.Info("RpcUndoRound: Removed round worth %d points.", removed.TotalPoints)
	b, err := json.Marshal(removed)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func rpcListRules(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	rules, err := NewNakamaRulesAdapter(nk).Load(ctx)
	if err != nil {
		return "", err
	}

	b, err := json.Marshal(rules)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DashboardLinkResponse carries a signed link to the external score dashboard.
type DashboardLinkResponse struct {
	URL string `json:"url"`
}

func rpcDashboardLink(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("no user in context")
	}

	cfg := config.GetTableConfig()
	if cfg == nil || cfg.DashboardURL == "" {
		return "", fmt.Errorf("dashboard is not configured")
	}

	secret := ""
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		secret = env["doko_dashboard_secret"]
	}

	service := app.NewDashboardService(secret, cfg.DashboardIssuer, cfg.DashboardURL)
	link, err := service.ShareLink(userID)
	if err != nil {
		return "", err
	}

	b, _ := json.Marshal(DashboardLinkResponse{URL: link})
	return string(b), nil
}

func rpcResetBock(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if err := requireAdmin(ctx); err != nil {
		return "", err
	}

	if err := NewNakamaBockAdapter(nk).Set(ctx, 0); err != nil {
		return "", err
	}

	logger.Info("RpcResetBock: Bock counter reset.")
	return `{"count":0}`, nil
}

func rpcResetRoster(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if err := requireAdmin(ctx); err != nil {
		return "", err
	}

	service := setup.NewService(NewNakamaRosterAdapter(nk), nil)
	if err := service.ResetRoster(ctx); err != nil {
		return "", err
	}

	logger.Info("RpcResetRoster: Roster cleared.")
	return `{"players":[]}`, nil
}

// InviteResponse carries a ready-to-share invite for new table members.
type InviteResponse struct {
	Text    string `json:"text"`
	MatchID string `json:"match_id"`
}

func rpcInvite(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if err := requireAdmin(ctx); err != nil {
		return "", err
	}

	matchID, _, err := findOrCreateTable(ctx, logger, nk)
	if err != nil {
		return "", err
	}

	roster, err := NewNakamaRosterAdapter(nk).Load(ctx)
	if err != nil {
		return "", err
	}

	text := "Join our Doppelkopf table and keep score with us!"
	if len(roster) > 0 {
		text = fmt.Sprintf("Join the Doppelkopf table of %s and keep score with us!", strings.Join(roster, ", "))
	}

	b, _ := json.Marshal(InviteResponse{Text: text, MatchID: matchID})
	return string(b), nil
}

// requireAdmin rejects callers other than the configured admin account.
// An unset admin id leaves the reset operations open to everyone, which is
// the norm for a private table.
func requireAdmin(ctx context.Context) error {
	admin := config.AdminUserID()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env["doko_admin_user_id"]; ok && val != "" {
			admin = val
		}
	}
	if admin == "" {
		return nil
	}

	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID != admin {
		return fmt.Errorf("permission denied")
	}
	return nil
}
