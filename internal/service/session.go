package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/foxafamily/community/internal/auth"
	"github.com/foxafamily/community/internal/domain"
	"github.com/foxafamily/community/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost accounts were historically hashed with.
const bcryptCost = 12

// defaultSkills are seeded for every new account with a small random spread.
var defaultSkills = []string{"driving", "combat", "roleplay", "negotiation", "mechanics"}

var avatarPool = []string{"🦊", "🐺", "🦝", "🐻", "🦅", "🐍", "🦂", "🐆"}

// LoginGuard tracks failed login attempts. Satisfied by guard.Lockout.
type LoginGuard interface {
	CheckLocked(ctx context.Context, username string) error
	RecordAttempt(ctx context.Context, username, ip string, success bool)
	ClearAttempts(ctx context.Context, username string)
}

// SessionService handles registration, login, and opaque-token sessions.
// It implements auth.TokenResolver.
type SessionService struct {
	pool     *pgxpool.Pool
	users    repository.UserRepository
	sessions repository.SessionRepository
	skills   repository.SkillRepository
	settings *SettingsService
	lockout  LoginGuard
	auditor  Auditor
	logger   *slog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	pool *pgxpool.Pool,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	skills repository.SkillRepository,
	settings *SettingsService,
	lockout LoginGuard,
	auditor Auditor,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		pool:     pool,
		users:    users,
		sessions: sessions,
		skills:   skills,
		settings: settings,
		lockout:  lockout,
		auditor:  auditor,
		logger:   logger,
	}
}

// LoginInput holds the login request fields.
type LoginInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *domain.User   `json:"user"`
	Skills    []domain.Skill `json:"skills"`
}

// Login verifies credentials and opens a session. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrValidation("username and password are required")
	}
	if err := s.lockout.CheckLocked(ctx, input.Username); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, s.pool, input.Username)
	if err != nil {
		return nil, domain.ErrStore("find user", err)
	}
	if user == nil {
		s.lockout.RecordAttempt(ctx, input.Username, input.IP, false)
		return nil, domain.ErrInvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.lockout.RecordAttempt(ctx, input.Username, input.IP, false)
		return nil, domain.ErrInvalidCredentials()
	}
	if user.IsBanned {
		return nil, domain.ErrBanned(user.BanReason)
	}

	token, err := auth.NewToken()
	if err != nil {
		return nil, domain.ErrInternal("generate token", err)
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		IPAddress: input.IP,
		UserAgent: input.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.AddDate(0, 0, s.settings.SessionDays(ctx)),
	}
	if err := s.sessions.Create(ctx, s.pool, session); err != nil {
		return nil, domain.ErrStore("create session", err)
	}

	if err := s.users.RecordLogin(ctx, s.pool, user.ID, input.IP); err != nil {
		s.logger.Warn("record login failed", "user_id", user.ID, "error", err)
	}
	s.lockout.RecordAttempt(ctx, input.Username, input.IP, true)
	s.lockout.ClearAttempts(ctx, input.Username)

	s.auditor.Record(ctx, domain.ActivityLogEntry{
		UserID:    &user.ID,
		Username:  user.Username,
		Action:    "login",
		IPAddress: input.IP,
	})

	skills, err := s.skills.ListByUser(ctx, s.pool, user.ID)
	if err != nil {
		s.logger.Warn("list skills failed", "user_id", user.ID, "error", err)
	}

	return &LoginResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
		Skills:    skills,
	}, nil
}

// RegisterInput holds the registration request fields.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IP       string `json:"-"`
}

// Register creates a new player account. The users unique index is the only
// duplicate check, so two concurrent registrations for one name cannot both
// succeed.
func (s *SessionService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if !s.settings.RegistrationOpen(ctx) {
		return nil, domain.ErrValidation("registration is currently closed")
	}
	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateSecret(input.Password, s.settings.MinPasswordLen(ctx)); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         domain.RolePlayer,
		Level:        1,
		AvatarEmoji:  avatarPool[rand.IntN(len(avatarPool))],
		RankTitle:    "Newcomer",
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrStore("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.users.Create(ctx, tx, user); err != nil {
		return nil, storeOrAppError("create user", err)
	}
	for _, name := range defaultSkills {
		if err := s.skills.Upsert(ctx, tx, user.ID, name, 5+rand.IntN(21)); err != nil {
			return nil, domain.ErrStore("seed skills", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrStore("commit tx", err)
	}

	s.auditor.Record(ctx, domain.ActivityLogEntry{
		UserID:    &user.ID,
		Username:  user.Username,
		Action:    "register",
		IPAddress: input.IP,
	})
	return user, nil
}

// Resolve validates an opaque session token and returns its owner. Unknown,
// expired, and banned-owner tokens all fail identically.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	session, user, err := s.sessions.FindByToken(ctx, s.pool, token)
	if err != nil {
		return nil, domain.ErrStore("find session", err)
	}
	if session == nil {
		return nil, domain.ErrInvalidSession()
	}
	if !session.Usable(time.Now().UTC()) {
		// The row is already dead; removing it is an optimization only.
		if err := s.sessions.DeleteByToken(ctx, s.pool, token); err != nil {
			s.logger.Warn("delete expired session failed", "error", err)
		}
		return nil, domain.ErrInvalidSession()
	}
	if user == nil || user.IsBanned {
		return nil, domain.ErrInvalidSession()
	}
	return user, nil
}

// Logout deletes the session for the given token. Deleting an unknown token
// is not an error.
func (s *SessionService) Logout(ctx context.Context, user *domain.User, token string) error {
	if err := s.sessions.DeleteByToken(ctx, s.pool, token); err != nil {
		return domain.ErrStore("delete session", err)
	}
	s.auditor.Record(ctx, domain.ActivityLogEntry{
		UserID:   &user.ID,
		Username: user.Username,
		Action:   "logout",
	})
	return nil
}

// SweepExpired removes sessions past their expiry. Lookup-time expiry stays
// authoritative; this just keeps the table small.
func (s *SessionService) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.pool, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep expired sessions: %w", err)
	}
	return n, nil
}
