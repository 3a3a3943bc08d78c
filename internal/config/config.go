package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// TableConfig holds transport-level settings for the scorekeeper table.
// Scoring rules are not configured here; they live in the rules store so the
// group can change them without a redeploy.
type TableConfig struct {
	// SessionIdleSeconds is how long an in-progress round entry may sit
	// without input before the match loop discards it.
	SessionIdleSeconds int `json:"session_idle_seconds"`
	// DashboardURL is the externally hosted score dashboard.
	DashboardURL    string `json:"dashboard_url"`
	DashboardIssuer string `json:"dashboard_issuer"`
	// AdminUserID gates the reset operations. Empty means any user may
	// perform them.
	AdminUserID string `json:"admin_user_id"`
}

const defaultSessionIdleSeconds = 300

var (
	cfg      *TableConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadTableConfig loads the table configuration from the given path.
func LoadTableConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read table config: %w", err)
			return
		}

		var c TableConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal table config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetTableConfig returns the global table configuration, or nil if unloaded.
func GetTableConfig() *TableConfig {
	return cfg
}

// SessionIdleSeconds returns the configured idle timeout, or the default.
func SessionIdleSeconds() int {
	if cfg == nil || cfg.SessionIdleSeconds <= 0 {
		return defaultSessionIdleSeconds
	}
	return cfg.SessionIdleSeconds
}

// AdminUserID returns the configured admin account id, empty if unset.
func AdminUserID() string {
	if cfg == nil {
		return ""
	}
	return cfg.AdminUserID
}
