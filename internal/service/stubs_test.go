package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/foxafamily/community/internal/cache"
	"github.com/foxafamily/community/internal/domain"
	"github.com/foxafamily/community/internal/repository"
	"github.com/google/uuid"
)

// Stub repositories for service unit tests. Each embeds its interface so only
// the methods a test exercises need implementing; an unexpected call panics.

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type stubUsers struct {
	repository.UserRepository
	byUsername map[string]*domain.User
	byID       map[uuid.UUID]*domain.User
	findErr    error

	loginRecorded []uuid.UUID

	profileRows  int64
	profileErr   error
	profilePatch *domain.ProfilePatch

	adminRows  int64
	adminErr   error
	adminPatch *domain.UserAdminPatch
}

func (s *stubUsers) FindByUsername(ctx context.Context, db repository.DBTX, username string) (*domain.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.byUsername[username], nil
}

func (s *stubUsers) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.byID[id], nil
}

func (s *stubUsers) RecordLogin(ctx context.Context, db repository.DBTX, id uuid.UUID, ip string) error {
	s.loginRecorded = append(s.loginRecorded, id)
	return nil
}

func (s *stubUsers) ApplyProfilePatch(ctx context.Context, db repository.DBTX, id uuid.UUID, patch domain.ProfilePatch) (int64, error) {
	s.profilePatch = &patch
	return s.profileRows, s.profileErr
}

func (s *stubUsers) ApplyAdminPatch(ctx context.Context, db repository.DBTX, id uuid.UUID, patch domain.UserAdminPatch) (int64, error) {
	s.adminPatch = &patch
	return s.adminRows, s.adminErr
}

type stubSessions struct {
	repository.SessionRepository
	created   *domain.Session
	createErr error

	session *domain.Session
	user    *domain.User
	findErr error

	deleted []string
	swept   int64
}

func (s *stubSessions) Create(ctx context.Context, db repository.DBTX, session *domain.Session) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = session
	return nil
}

func (s *stubSessions) FindByToken(ctx context.Context, db repository.DBTX, token string) (*domain.Session, *domain.User, error) {
	if s.findErr != nil {
		return nil, nil, s.findErr
	}
	if s.session == nil || s.session.Token != token {
		return nil, nil, nil
	}
	return s.session, s.user, nil
}

func (s *stubSessions) DeleteByToken(ctx context.Context, db repository.DBTX, token string) error {
	s.deleted = append(s.deleted, token)
	return nil
}

func (s *stubSessions) DeleteExpired(ctx context.Context, db repository.DBTX, before time.Time) (int64, error) {
	return s.swept, nil
}

type stubSkills struct {
	repository.SkillRepository
	byUser   map[uuid.UUID][]domain.Skill
	upserted map[string]int
}

func (s *stubSkills) ListByUser(ctx context.Context, db repository.DBTX, userID uuid.UUID) ([]domain.Skill, error) {
	return s.byUser[userID], nil
}

func (s *stubSkills) Upsert(ctx context.Context, db repository.DBTX, userID uuid.UUID, name string, value int) error {
	if s.upserted == nil {
		s.upserted = make(map[string]int)
	}
	s.upserted[name] = value
	return nil
}

type stubSettings struct {
	repository.SettingRepository
	values map[string]string
	getErr error
	upErr  error
	writes map[string]string
	list   []domain.Setting
}

func (s *stubSettings) Get(ctx context.Context, db repository.DBTX, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	val, ok := s.values[key]
	return val, ok, nil
}

func (s *stubSettings) Upsert(ctx context.Context, db repository.DBTX, key, value string) error {
	if s.upErr != nil {
		return s.upErr
	}
	if s.writes == nil {
		s.writes = make(map[string]string)
	}
	s.writes[key] = value
	return nil
}

func (s *stubSettings) List(ctx context.Context, db repository.DBTX) ([]domain.Setting, error) {
	return s.list, nil
}

type stubCommands struct {
	repository.CommandRepository
	inserted  *domain.Command
	insertID  int64
	insertErr error
	patchRows int64
	patch     *domain.CommandPatch
	delRows   int64
	active    []domain.Command
}

func (s *stubCommands) Insert(ctx context.Context, db repository.DBTX, cmd *domain.Command) (int64, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	s.inserted = cmd
	return s.insertID, nil
}

func (s *stubCommands) ApplyPatch(ctx context.Context, db repository.DBTX, id int64, patch domain.CommandPatch) (int64, error) {
	s.patch = &patch
	return s.patchRows, nil
}

func (s *stubCommands) Delete(ctx context.Context, db repository.DBTX, id int64) (int64, error) {
	return s.delRows, nil
}

func (s *stubCommands) ListActive(ctx context.Context, db repository.DBTX, category string) ([]domain.Command, error) {
	return s.active, nil
}

type stubAnnouncements struct {
	repository.AnnouncementRepository
	inserted *domain.Announcement
	insertID int64
	deactRows int64
	active   []domain.Announcement
}

func (s *stubAnnouncements) Insert(ctx context.Context, db repository.DBTX, a *domain.Announcement) (int64, error) {
	s.inserted = a
	return s.insertID, nil
}

func (s *stubAnnouncements) Deactivate(ctx context.Context, db repository.DBTX, id int64) (int64, error) {
	return s.deactRows, nil
}

func (s *stubAnnouncements) ListActive(ctx context.Context, db repository.DBTX, limit int) ([]domain.Announcement, error) {
	return s.active, nil
}

type stubSections struct {
	repository.SectionRepository
	upserted  *domain.SectionUpsert
	updatedBy *uuid.UUID
	active    []domain.PageSection
}

func (s *stubSections) Upsert(ctx context.Context, db repository.DBTX, up domain.SectionUpsert, updatedBy *uuid.UUID) error {
	s.upserted = &up
	s.updatedBy = updatedBy
	return nil
}

func (s *stubSections) ListActive(ctx context.Context, db repository.DBTX, page string) ([]domain.PageSection, error) {
	return s.active, nil
}

type stubAuditor struct {
	entries []domain.ActivityLogEntry
}

func (s *stubAuditor) Record(ctx context.Context, entry domain.ActivityLogEntry) {
	s.entries = append(s.entries, entry)
}

func (s *stubAuditor) actions() []string {
	var out []string
	for _, e := range s.entries {
		out = append(out, e.Action)
	}
	return out
}

type stubGuard struct {
	locked   error
	attempts []bool
	cleared  int
}

func (s *stubGuard) CheckLocked(ctx context.Context, username string) error { return s.locked }

func (s *stubGuard) RecordAttempt(ctx context.Context, username, ip string, success bool) {
	s.attempts = append(s.attempts, success)
}

func (s *stubGuard) ClearAttempts(ctx context.Context, username string) { s.cleared++ }

// newSettingsService wires a SettingsService over an in-memory repository and
// a disabled cache.
func newSettingsService(values map[string]string, auditor Auditor) (*SettingsService, *stubSettings) {
	repo := &stubSettings{values: values}
	if auditor == nil {
		auditor = &stubAuditor{}
	}
	svc := NewSettingsService(nil, repo, cache.NewSettingsCache(nil, time.Minute, discard()), auditor, discard())
	return svc, repo
}
