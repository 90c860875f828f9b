package guard

import (
	"context"
	"time"

	"github.com/foxafamily/community/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	MaxAttempts   = 5
	LockoutWindow = 15 * time.Minute
)

// Lockout tracks failed logins per username in the login_attempts table.
type Lockout struct {
	pool *pgxpool.Pool
}

// NewLockout creates a Lockout backed by the given pool.
func NewLockout(pool *pgxpool.Pool) *Lockout {
	return &Lockout{pool: pool}
}

// RecordAttempt inserts a login attempt row. Best effort.
func (l *Lockout) RecordAttempt(ctx context.Context, username, ip string, success bool) {
	_, _ = l.pool.Exec(ctx, `
		INSERT INTO login_attempts (username, ip_address, success)
		VALUES ($1, $2, $3)`,
		username, ip, success)
}

// CheckLocked returns ErrAccountLocked if the username has >= MaxAttempts
// failed logins within the lockout window.
func (l *Lockout) CheckLocked(ctx context.Context, username string) error {
	var count int
	err := l.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM login_attempts
		WHERE username = $1 AND success = false
		  AND created_at > $2`,
		username, time.Now().Add(-LockoutWindow)).Scan(&count)
	if err != nil {
		return nil // fail open on DB error, don't block login
	}
	if count >= MaxAttempts {
		return domain.ErrAccountLocked("too many failed login attempts, try again later")
	}
	return nil
}

// ClearAttempts removes a username's failed attempts after a successful login.
func (l *Lockout) ClearAttempts(ctx context.Context, username string) {
	_, _ = l.pool.Exec(ctx,
		`DELETE FROM login_attempts WHERE username = $1 AND success = false`, username)
}
