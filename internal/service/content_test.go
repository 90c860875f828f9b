package service

import (
	"context"
	"testing"

	"github.com/foxafamily/community/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentService(cmds *stubCommands, anns *stubAnnouncements, secs *stubSections, auditor *stubAuditor) *ContentService {
	return NewContentService(nil, cmds, anns, secs, auditor, discard())
}

func TestCreateCommand(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: uuid.New(), Username: "mod-boss", Role: domain.RoleAdmin}

	t.Run("requires category, code and label", func(t *testing.T) {
		svc := newContentService(&stubCommands{}, &stubAnnouncements{}, &stubSections{}, &stubAuditor{})
		_, err := svc.CreateCommand(ctx, admin, &domain.Command{Category: "vehicles"})
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	})

	t.Run("defaults and audit", func(t *testing.T) {
		cmds := &stubCommands{insertID: 7}
		auditor := &stubAuditor{}
		svc := newContentService(cmds, &stubAnnouncements{}, &stubSections{}, auditor)

		id, err := svc.CreateCommand(ctx, admin, &domain.Command{
			Category: "vehicles", CommandCode: "/spawncar", Label: "Spawn vehicle",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.Equal(t, domain.RolePlayer, cmds.inserted.RequiresRole)
		assert.True(t, cmds.inserted.IsActive)
		assert.Equal(t, &admin.ID, cmds.inserted.AddedBy)
		assert.Equal(t, []string{"command_create"}, auditor.actions())
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		svc := newContentService(&stubCommands{}, &stubAnnouncements{}, &stubSections{}, &stubAuditor{})
		_, err := svc.CreateCommand(ctx, admin, &domain.Command{
			Category: "vehicles", CommandCode: "/x", Label: "X", RequiresRole: "owner",
		})
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	})
}

func TestEditCommand(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: uuid.New(), Username: "mod-boss", Role: domain.RoleAdmin}

	t.Run("empty patch", func(t *testing.T) {
		svc := newContentService(&stubCommands{}, &stubAnnouncements{}, &stubSections{}, &stubAuditor{})
		err := svc.EditCommand(ctx, admin, 7, domain.CommandPatch{})
		assert.Equal(t, "NO_FIELDS_PROVIDED", appCode(t, err))
	})

	t.Run("missing command is not found", func(t *testing.T) {
		cmds := &stubCommands{patchRows: 0}
		svc := newContentService(cmds, &stubAnnouncements{}, &stubSections{}, &stubAuditor{})
		err := svc.EditCommand(ctx, admin, 7, domain.CommandPatch{Label: strPtr("New label")})
		assert.Equal(t, "NOT_FOUND", appCode(t, err))
	})

	t.Run("success is audited", func(t *testing.T) {
		cmds := &stubCommands{patchRows: 1}
		auditor := &stubAuditor{}
		svc := newContentService(cmds, &stubAnnouncements{}, &stubSections{}, auditor)

		require.NoError(t, svc.EditCommand(ctx, admin, 7, domain.CommandPatch{Label: strPtr("New label")}))
		assert.Equal(t, []string{"command_edit"}, auditor.actions())
	})
}

func TestDeleteCommand(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: uuid.New(), Username: "mod-boss", Role: domain.RoleAdmin}

	t.Run("missing command is not found", func(t *testing.T) {
		svc := newContentService(&stubCommands{delRows: 0}, &stubAnnouncements{}, &stubSections{}, &stubAuditor{})
		err := svc.DeleteCommand(ctx, admin, 7)
		assert.Equal(t, "NOT_FOUND", appCode(t, err))
	})

	t.Run("success is audited", func(t *testing.T) {
		auditor := &stubAuditor{}
		svc := newContentService(&stubCommands{delRows: 1}, &stubAnnouncements{}, &stubSections{}, auditor)
		require.NoError(t, svc.DeleteCommand(ctx, admin, 7))
		assert.Equal(t, []string{"command_delete"}, auditor.actions())
	})
}

func TestListCommands(t *testing.T) {
	ctx := context.Background()
	cmds := &stubCommands{active: []domain.Command{
		{CommandCode: "/help", RequiresRole: domain.RolePlayer},
		{CommandCode: "/kick", RequiresRole: domain.RoleModerator},
		{CommandCode: "/ban", RequiresRole: domain.RoleAdmin},
	}}
	svc := newContentService(cmds, &stubAnnouncements{}, &stubSections{}, &stubAuditor{})

	codes := func(list []domain.Command) []string {
		var out []string
		for _, c := range list {
			out = append(out, c.CommandCode)
		}
		return out
	}

	player := &domain.User{Role: domain.RolePlayer}
	got, err := svc.ListCommands(ctx, player, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/help"}, codes(got))

	// anonymous viewers rank as players
	got, err = svc.ListCommands(ctx, nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/help"}, codes(got))

	mod := &domain.User{Role: domain.RoleModerator}
	got, err = svc.ListCommands(ctx, mod, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/help", "/kick"}, codes(got))

	admin := &domain.User{Role: domain.RoleAdmin}
	got, err = svc.ListCommands(ctx, admin, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/help", "/kick", "/ban"}, codes(got))
}

func TestAnnouncements(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: uuid.New(), Username: "mod-boss", Role: domain.RoleAdmin}

	t.Run("requires title and body", func(t *testing.T) {
		svc := newContentService(&stubCommands{}, &stubAnnouncements{}, &stubSections{}, &stubAuditor{})
		_, err := svc.CreateAnnouncement(ctx, admin, &domain.Announcement{Title: "Patch notes"})
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	})

	t.Run("create defaults type and stamps author", func(t *testing.T) {
		anns := &stubAnnouncements{insertID: 3}
		auditor := &stubAuditor{}
		svc := newContentService(&stubCommands{}, anns, &stubSections{}, auditor)

		id, err := svc.CreateAnnouncement(ctx, admin, &domain.Announcement{Title: "Patch notes", Body: "..."})
		require.NoError(t, err)
		assert.Equal(t, int64(3), id)
		assert.Equal(t, "info", anns.inserted.Type)
		assert.Equal(t, &admin.ID, anns.inserted.CreatedBy)
		assert.Equal(t, []string{"announcement_create"}, auditor.actions())
	})

	t.Run("delete of a missing announcement is not found", func(t *testing.T) {
		svc := newContentService(&stubCommands{}, &stubAnnouncements{deactRows: 0}, &stubSections{}, &stubAuditor{})
		err := svc.DeleteAnnouncement(ctx, admin, 3)
		assert.Equal(t, "NOT_FOUND", appCode(t, err))
	})
}

func TestUpsertSection(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: uuid.New(), Username: "mod-boss", Role: domain.RoleAdmin}

	t.Run("requires section key", func(t *testing.T) {
		svc := newContentService(&stubCommands{}, &stubAnnouncements{}, &stubSections{}, &stubAuditor{})
		err := svc.UpsertSection(ctx, admin, domain.SectionUpsert{Content: "hello"})
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	})

	t.Run("defaults and author stamp", func(t *testing.T) {
		secs := &stubSections{}
		auditor := &stubAuditor{}
		svc := newContentService(&stubCommands{}, &stubAnnouncements{}, secs, auditor)

		err := svc.UpsertSection(ctx, admin, domain.SectionUpsert{SectionKey: "welcome", Content: "hello"})
		require.NoError(t, err)
		assert.Equal(t, "html", secs.upserted.ContentType)
		assert.Equal(t, "home", secs.upserted.Page)
		assert.Equal(t, &admin.ID, secs.updatedBy)
		assert.Equal(t, []string{"section_upsert"}, auditor.actions())
	})
}
