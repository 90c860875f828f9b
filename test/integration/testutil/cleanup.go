//go:build integration

package testutil

import (
	"context"
	"time"
)

// CleanAll truncates all tables in reverse-dependency order and restores the
// seeded settings rows.
func (env *TestEnv) CleanAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tables := []string{
		"login_attempts",
		"activity_log",
		"player_skills",
		"page_sections",
		"announcements",
		"commands",
		"sessions",
		"site_settings",
		"users",
	}

	for _, table := range tables {
		_, _ = env.Pool.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
	}

	_, _ = env.Pool.Exec(ctx, `
		INSERT INTO site_settings (setting_key, setting_value) VALUES
			('session_days', '30'),
			('registration_open', '0'),
			('min_password_len', '6')`)
}
