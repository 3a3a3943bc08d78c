package nakama

import (
	"context"
	"database/sql"

	"doko/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs and the table match handler for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadTableConfig(tableConfigPath); err != nil {
		logger.Warn("InitModule: Could not load table config: %v", err)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameDokoTable, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return NewMatchHandler(), nil
	}); err != nil {
		return err
	}

	logger.Info("Doko scorekeeper module loaded.")
	return nil
}
