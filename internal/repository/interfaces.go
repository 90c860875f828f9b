package repository

import (
	"context"
	"errors"
	"time"

	"github.com/foxafamily/community/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// UserRepository provides access to users.
type UserRepository interface {
	// FindByID returns a user by ID, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.User, error)

	// FindByUsername returns a user by username, or nil if not found.
	FindByUsername(ctx context.Context, db DBTX, username string) (*domain.User, error)

	// Create inserts a new user. A duplicate username surfaces as CONFLICT
	// straight from the unique index, closing the concurrent-registration race.
	Create(ctx context.Context, db DBTX, user *domain.User) error

	// RecordLogin stamps last_login and last_ip.
	RecordLogin(ctx context.Context, db DBTX, id uuid.UUID, ip string) error

	// ApplyProfilePatch applies a self-service partial update as one atomic
	// statement and returns the number of rows matched.
	ApplyProfilePatch(ctx context.Context, db DBTX, id uuid.UUID, patch domain.ProfilePatch) (int64, error)

	// ApplyAdminPatch applies an admin partial update as one atomic statement
	// and returns the number of rows matched.
	ApplyAdminPatch(ctx context.Context, db DBTX, id uuid.UUID, patch domain.UserAdminPatch) (int64, error)

	// Search returns users matching the username filter, newest first, with a
	// total count for pagination.
	Search(ctx context.Context, db DBTX, search string, limit, offset int) ([]domain.User, int, error)
}

// SessionRepository provides access to sessions.
type SessionRepository interface {
	// Create inserts a new session.
	Create(ctx context.Context, db DBTX, session *domain.Session) error

	// FindByToken returns the session and its owning user in one joined read,
	// or (nil, nil) when the token is unknown. Expiry and ban are judged by
	// the caller so the merge into INVALID_SESSION happens in one place.
	FindByToken(ctx context.Context, db DBTX, token string) (*domain.Session, *domain.User, error)

	// DeleteByToken removes a session. Used by logout.
	DeleteByToken(ctx context.Context, db DBTX, token string) error

	// DeleteExpired removes sessions dead before the given instant. Purely an
	// optimization; lookup-time expiry is authoritative.
	DeleteExpired(ctx context.Context, db DBTX, before time.Time) (int64, error)
}

// SettingRepository provides access to site_settings.
type SettingRepository interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, db DBTX, key string) (value string, ok bool, err error)

	// Upsert writes a setting as a single atomic insert-or-update.
	Upsert(ctx context.Context, db DBTX, key, value string) error

	// List returns all settings ordered by key.
	List(ctx context.Context, db DBTX) ([]domain.Setting, error)
}

// CommandRepository provides access to commands.
type CommandRepository interface {
	// Insert creates a command and returns its ID.
	Insert(ctx context.Context, db DBTX, cmd *domain.Command) (int64, error)

	// ApplyPatch applies a partial update and returns rows matched.
	ApplyPatch(ctx context.Context, db DBTX, id int64, patch domain.CommandPatch) (int64, error)

	// Delete removes a command and returns rows matched.
	Delete(ctx context.Context, db DBTX, id int64) (int64, error)

	// ListActive returns active commands, optionally filtered by category.
	ListActive(ctx context.Context, db DBTX, category string) ([]domain.Command, error)
}

// AnnouncementRepository provides access to announcements.
type AnnouncementRepository interface {
	// Insert creates an announcement and returns its ID.
	Insert(ctx context.Context, db DBTX, a *domain.Announcement) (int64, error)

	// Deactivate soft-deletes an announcement and returns rows matched.
	Deactivate(ctx context.Context, db DBTX, id int64) (int64, error)

	// ListActive returns active announcements, pinned first then newest.
	ListActive(ctx context.Context, db DBTX, limit int) ([]domain.Announcement, error)
}

// SectionRepository provides access to page_sections.
type SectionRepository interface {
	// Upsert writes a page section keyed by section_key as a single atomic
	// insert-or-update.
	Upsert(ctx context.Context, db DBTX, up domain.SectionUpsert, updatedBy *uuid.UUID) error

	// ListActive returns active sections, optionally filtered by page.
	ListActive(ctx context.Context, db DBTX, page string) ([]domain.PageSection, error)
}

// SkillRepository provides access to player_skills.
type SkillRepository interface {
	// Upsert writes a skill value keyed by (user, skill name) as a single
	// atomic insert-or-update.
	Upsert(ctx context.Context, db DBTX, userID uuid.UUID, name string, value int) error

	// ListByUser returns a user's skills, highest value first.
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Skill, error)
}

// ActivityLogRepository provides append-only access to activity_log.
type ActivityLogRepository interface {
	// Insert appends one entry. Entries are never updated or deleted.
	Insert(ctx context.Context, db DBTX, entry *domain.ActivityLogEntry) error

	// ListRecent returns the newest entries.
	ListRecent(ctx context.Context, db DBTX, limit int) ([]domain.ActivityLogEntry, error)

	// ListByUser returns the newest entries for one user.
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.ActivityLogEntry, error)
}

// isUniqueViolation reports whether err is a Postgres duplicate-key error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
