package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/foxafamily/community/internal/cache"
	"github.com/foxafamily/community/internal/domain"
	"github.com/foxafamily/community/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Setting keys consulted by the core flows. Absent or malformed values fall
// back to the defaults below rather than failing the caller.
const (
	SettingSessionDays      = "session_days"
	SettingRegistrationOpen = "registration_open"
	SettingMinPasswordLen   = "min_password_len"

	DefaultSessionDays    = 30
	DefaultMinPasswordLen = 6
)

// Auditor records activity log entries. Satisfied by audit.Recorder.
type Auditor interface {
	Record(ctx context.Context, entry domain.ActivityLogEntry)
}

// SettingsService reads and writes site settings through a Redis cache.
type SettingsService struct {
	pool     *pgxpool.Pool
	settings repository.SettingRepository
	cache    *cache.SettingsCache
	auditor  Auditor
	logger   *slog.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(
	pool *pgxpool.Pool,
	settings repository.SettingRepository,
	settingsCache *cache.SettingsCache,
	auditor Auditor,
	logger *slog.Logger,
) *SettingsService {
	return &SettingsService{
		pool:     pool,
		settings: settings,
		cache:    settingsCache,
		auditor:  auditor,
		logger:   logger,
	}
}

// raw returns the stored value for key. ok is false when the key is absent or
// the store is unreachable; typed getters then apply their defaults.
func (s *SettingsService) raw(ctx context.Context, key string) (string, bool) {
	if val, ok := s.cache.Get(ctx, key); ok {
		return val, true
	}
	val, ok, err := s.settings.Get(ctx, s.pool, key)
	if err != nil {
		s.logger.Warn("setting read failed, using default", "key", key, "error", err)
		return "", false
	}
	if ok {
		s.cache.Set(ctx, key, val)
	}
	return val, ok
}

// SessionDays returns the session lifetime in days.
func (s *SettingsService) SessionDays(ctx context.Context) int {
	val, ok := s.raw(ctx, SettingSessionDays)
	if !ok {
		return DefaultSessionDays
	}
	days, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || days <= 0 {
		return DefaultSessionDays
	}
	return days
}

// RegistrationOpen reports whether new accounts may register. Closed unless
// explicitly opened.
func (s *SettingsService) RegistrationOpen(ctx context.Context) bool {
	val, ok := s.raw(ctx, SettingRegistrationOpen)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// MinPasswordLen returns the minimum password length for registration.
func (s *SettingsService) MinPasswordLen(ctx context.Context) int {
	val, ok := s.raw(ctx, SettingMinPasswordLen)
	if !ok {
		return DefaultMinPasswordLen
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || n <= 0 {
		return DefaultMinPasswordLen
	}
	return n
}

// Upsert writes a setting and invalidates its cache entry.
func (s *SettingsService) Upsert(ctx context.Context, actor *domain.User, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrValidation("setting key is required")
	}
	if err := s.settings.Upsert(ctx, s.pool, key, value); err != nil {
		return domain.ErrStore("upsert setting", err)
	}
	s.cache.Invalidate(ctx, key)

	s.auditor.Record(ctx, domain.ActivityLogEntry{
		UserID:   &actor.ID,
		Username: actor.Username,
		Action:   "setting_update",
		Details:  "set " + key + " = " + value,
	})
	return nil
}

// List returns all settings.
func (s *SettingsService) List(ctx context.Context) ([]domain.Setting, error) {
	settings, err := s.settings.List(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrStore("list settings", err)
	}
	return settings, nil
}
