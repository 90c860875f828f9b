package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foxafamily/community/internal/domain"
	"github.com/foxafamily/community/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UsersService handles profile self-service and admin user management.
type UsersService struct {
	pool    *pgxpool.Pool
	users   repository.UserRepository
	skills  repository.SkillRepository
	auditor Auditor
	logger  *slog.Logger
}

// NewUsersService creates a new UsersService.
func NewUsersService(
	pool *pgxpool.Pool,
	users repository.UserRepository,
	skills repository.SkillRepository,
	auditor Auditor,
	logger *slog.Logger,
) *UsersService {
	return &UsersService{pool: pool, users: users, skills: skills, auditor: auditor, logger: logger}
}

// Profile returns a user with their skills.
func (s *UsersService) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, []domain.Skill, error) {
	user, err := s.users.FindByID(ctx, s.pool, userID)
	if err != nil {
		return nil, nil, domain.ErrStore("find user", err)
	}
	if user == nil {
		return nil, nil, domain.ErrNotFound("user", userID.String())
	}
	skills, err := s.skills.ListByUser(ctx, s.pool, userID)
	if err != nil {
		return nil, nil, domain.ErrStore("list skills", err)
	}
	return user, skills, nil
}

// UpdateProfile applies a self-service patch to the actor's own account.
func (s *UsersService) UpdateProfile(ctx context.Context, actor *domain.User, patch domain.ProfilePatch) error {
	if patch.IsZero() {
		return domain.ErrNoFields()
	}
	rows, err := s.users.ApplyProfilePatch(ctx, s.pool, actor.ID, patch)
	if err != nil {
		return storeOrAppError("update profile", err)
	}
	if rows == 0 {
		return domain.ErrNotFound("user", actor.ID.String())
	}
	s.auditor.Record(ctx, domain.ActivityLogEntry{
		UserID:   &actor.ID,
		Username: actor.Username,
		Action:   "profile_update",
	})
	return nil
}

// AdminUpdate applies an admin patch to another user's account. A superadmin
// target can only be modified by a superadmin, and granting the superadmin
// role requires holding it.
func (s *UsersService) AdminUpdate(ctx context.Context, actor *domain.User, targetID uuid.UUID, patch domain.UserAdminPatch) error {
	if patch.IsZero() {
		return domain.ErrNoFields()
	}
	if actor.ID == targetID {
		return domain.ErrValidation("cannot modify your own account through user management")
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return domain.ErrValidation(fmt.Sprintf("unknown role %q", string(*patch.Role)))
		}
		if *patch.Role == domain.RoleSuperadmin && !actor.Role.AtLeast(domain.RoleSuperadmin) {
			return domain.ErrInsufficientPermission(domain.RoleSuperadmin)
		}
	}

	target, err := s.users.FindByID(ctx, s.pool, targetID)
	if err != nil {
		return domain.ErrStore("find user", err)
	}
	if target == nil {
		return domain.ErrNotFound("user", targetID.String())
	}
	if target.Role == domain.RoleSuperadmin && !actor.Role.AtLeast(domain.RoleSuperadmin) {
		return domain.ErrInsufficientPermission(domain.RoleSuperadmin)
	}

	rows, err := s.users.ApplyAdminPatch(ctx, s.pool, targetID, patch)
	if err != nil {
		return storeOrAppError("update user", err)
	}
	if rows == 0 {
		return domain.ErrNotFound("user", targetID.String())
	}

	s.auditor.Record(ctx, domain.ActivityLogEntry{
		UserID:   &actor.ID,
		Username: actor.Username,
		Action:   "user_update",
		Details:  fmt.Sprintf("updated user %s", target.Username),
	})
	return nil
}

// Search lists users matching a username filter, newest first.
func (s *UsersService) Search(ctx context.Context, search string, limit, offset int) ([]domain.User, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}
	users, total, err := s.users.Search(ctx, s.pool, search, limit, offset)
	if err != nil {
		return nil, 0, domain.ErrStore("search users", err)
	}
	return users, total, nil
}

// UpdateSkill sets one of a user's skill values, clamped to the valid range.
func (s *UsersService) UpdateSkill(ctx context.Context, actor *domain.User, targetID uuid.UUID, name string, value int) error {
	if name == "" {
		return domain.ErrValidation("skill name is required")
	}
	target, err := s.users.FindByID(ctx, s.pool, targetID)
	if err != nil {
		return domain.ErrStore("find user", err)
	}
	if target == nil {
		return domain.ErrNotFound("user", targetID.String())
	}

	value = domain.ClampSkillValue(value)
	if err := s.skills.Upsert(ctx, s.pool, targetID, name, value); err != nil {
		return domain.ErrStore("upsert skill", err)
	}

	s.auditor.Record(ctx, domain.ActivityLogEntry{
		UserID:   &actor.ID,
		Username: actor.Username,
		Action:   "skill_update",
		Details:  fmt.Sprintf("set %s = %d for %s", name, value, target.Username),
	})
	return nil
}
