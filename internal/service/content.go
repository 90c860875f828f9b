package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/foxafamily/community/internal/domain"
	"github.com/foxafamily/community/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContentService manages the command catalog, announcements, and page
// sections.
type ContentService struct {
	pool          *pgxpool.Pool
	commands      repository.CommandRepository
	announcements repository.AnnouncementRepository
	sections      repository.SectionRepository
	auditor       Auditor
	logger        *slog.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(
	pool *pgxpool.Pool,
	commands repository.CommandRepository,
	announcements repository.AnnouncementRepository,
	sections repository.SectionRepository,
	auditor Auditor,
	logger *slog.Logger,
) *ContentService {
	return &ContentService{
		pool:          pool,
		commands:      commands,
		announcements: announcements,
		sections:      sections,
		auditor:       auditor,
		logger:        logger,
	}
}

// CreateCommand adds a command catalog entry.
func (s *ContentService) CreateCommand(ctx context.Context, actor *domain.User, cmd *domain.Command) (int64, error) {
	if cmd.Category == "" || cmd.CommandCode == "" || cmd.Label == "" {
		return 0, domain.ErrValidation("category, command_code and label are required")
	}
	if cmd.RequiresRole == "" {
		cmd.RequiresRole = domain.RolePlayer
	}
	if !cmd.RequiresRole.Valid() {
		return 0, domain.ErrValidation(fmt.Sprintf("unknown role %q", string(cmd.RequiresRole)))
	}
	cmd.IsActive = true
	cmd.AddedBy = &actor.ID

	id, err := s.commands.Insert(ctx, s.pool, cmd)
	if err != nil {
		return 0, domain.ErrStore("insert command", err)
	}

	s.auditor.Record(ctx, domain.ActivityLogEntry{
		UserID:   &actor.ID,
		Username: actor.Username,
		Action:   "command_create",
		Details:  "added command " + cmd.CommandCode,
	})
	return id, nil
}

// EditCommand applies a partial update to a command.
func (s *ContentService) EditCommand(ctx context.Context, actor *domain.User, id int64, patch domain.CommandPatch) error {
	if patch.IsZero() {
		return domain.ErrNoFields()
	}
	if patch.RequiresRole != nil && !patch.RequiresRole.Valid() {
		return domain.ErrValidation(fmt.Sprintf("unknown role %q", string(*patch.RequiresRole)))
	}

	rows, err := s.commands.ApplyPatch(ctx, s.pool, id, patch)
	if err != nil {
		return storeOrAppError("update command", err)
	}
	if rows == 0 {
		return domain.ErrNotFound("command", strconv.FormatInt(id, 10))
	}

	s.auditor.Record(ctx, domain.ActivityLogEntry{
		UserID:   &actor.ID,
		Username: actor.Username,
		Action:   "command_edit",
		Details:  fmt.Sprintf("edited command %d", id),
	})
	return nil
}

// DeleteCommand removes a command permanently.
func (s *ContentService) DeleteCommand(ctx context.Context, actor *domain.User, id int64) error {
	rows, err := s.commands.Delete(ctx, s.pool, id)
	if err != nil {
		return domain.ErrStore("delete command", err)
	}
	if rows == 0 {
		return domain.ErrNotFound("command", strconv.FormatInt(id, 10))
	}

	s.auditor.Record(ctx, domain.ActivityLogEntry{
		UserID:   &actor.ID,
		Username: actor.Username,
		Action:   "command_delete",
		Details:  fmt.Sprintf("deleted command %d", id),
	})
	return nil
}

// ListCommands returns active commands the viewer's role can use, optionally
// filtered by category. Anonymous viewers rank as players.
func (s *ContentService) ListCommands(ctx context.Context, viewer *domain.User, category string) ([]domain.Command, error) {
	rank := domain.RolePlayer
	if viewer != nil {
		rank = viewer.Role
	}
	cmds, err := s.commands.ListActive(ctx, s.pool, category)
	if err != nil {
		return nil, domain.ErrStore("list commands", err)
	}
	visible := cmds[:0]
	for _, cmd := range cmds {
		if rank.AtLeast(cmd.RequiresRole) {
			visible = append(visible, cmd)
		}
	}
	return visible, nil
}

// CreateAnnouncement publishes a site announcement.
func (s *ContentService) CreateAnnouncement(ctx context.Context, actor *domain.User, a *domain.Announcement) (int64, error) {
	if a.Title == "" || a.Body == "" {
		return 0, domain.ErrValidation("title and body are required")
	}
	if a.Type == "" {
		a.Type = "info"
	}
	a.CreatedBy = &actor.ID

	id, err := s.announcements.Insert(ctx, s.pool, a)
	if err != nil {
		return 0, domain.ErrStore("insert announcement", err)
	}

	s.auditor.Record(ctx, domain.ActivityLogEntry{
		UserID:   &actor.ID,
		Username: actor.Username,
		Action:   "announcement_create",
		Details:  "published " + a.Title,
	})
	return id, nil
}

// DeleteAnnouncement deactivates an announcement. The row stays for history.
func (s *ContentService) DeleteAnnouncement(ctx context.Context, actor *domain.User, id int64) error {
	rows, err := s.announcements.Deactivate(ctx, s.pool, id)
	if err != nil {
		return domain.ErrStore("deactivate announcement", err)
	}
	if rows == 0 {
		return domain.ErrNotFound("announcement", strconv.FormatInt(id, 10))
	}

	s.auditor.Record(ctx, domain.ActivityLogEntry{
		UserID:   &actor.ID,
		Username: actor.Username,
		Action:   "announcement_delete",
		Details:  fmt.Sprintf("removed announcement %d", id),
	})
	return nil
}

// ListAnnouncements returns active announcements, pinned first.
func (s *ContentService) ListAnnouncements(ctx context.Context, limit int) ([]domain.Announcement, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	anns, err := s.announcements.ListActive(ctx, s.pool, limit)
	if err != nil {
		return nil, domain.ErrStore("list announcements", err)
	}
	return anns, nil
}

// UpsertSection creates or replaces a page section by its natural key.
func (s *ContentService) UpsertSection(ctx context.Context, actor *domain.User, up domain.SectionUpsert) error {
	if up.SectionKey == "" {
		return domain.ErrValidation("section_key is required")
	}
	if up.ContentType == "" {
		up.ContentType = "html"
	}
	if up.Page == "" {
		up.Page = "home"
	}

	if err := s.sections.Upsert(ctx, s.pool, up, &actor.ID); err != nil {
		return domain.ErrStore("upsert section", err)
	}

	s.auditor.Record(ctx, domain.ActivityLogEntry{
		UserID:   &actor.ID,
		Username: actor.Username,
		Action:   "section_upsert",
		Details:  "wrote section " + up.SectionKey,
	})
	return nil
}

// ListSections returns active page sections, optionally for one page.
func (s *ContentService) ListSections(ctx context.Context, page string) ([]domain.PageSection, error) {
	sections, err := s.sections.ListActive(ctx, s.pool, page)
	if err != nil {
		return nil, domain.ErrStore("list sections", err)
	}
	return sections, nil
}
