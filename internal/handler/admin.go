package handler

import (
	"net/http"
	"strconv"

	"github.com/foxafamily/community/internal/audit"
	"github.com/foxafamily/community/internal/auth"
	"github.com/foxafamily/community/internal/domain"
	"github.com/foxafamily/community/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AdminHandler serves moderation and administration endpoints. Role
// enforcement happens in the router middleware; the services re-check the
// superadmin rules.
type AdminHandler struct {
	users    *service.UsersService
	content  *service.ContentService
	settings *service.SettingsService
	recorder *audit.Recorder
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	users *service.UsersService,
	content *service.ContentService,
	settings *service.SettingsService,
	recorder *audit.Recorder,
) *AdminHandler {
	return &AdminHandler{users: users, content: content, settings: settings, recorder: recorder}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func pathUserID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	users, total, err := h.users.Search(r.Context(), q.Get("search"), limit, offset)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
	})
}

// UpdateUser handles PATCH /api/admin/users/{id}.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	targetID, err := pathUserID(r)
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid user id"))
		return
	}
	var patch domain.UserAdminPatch
	if err := DecodeJSON(r, &patch); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	actor := auth.UserFromContext(r.Context())
	if err := h.users.AdminUpdate(r.Context(), actor, targetID, patch); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// UpdateSkill handles PUT /api/admin/users/{id}/skills.
func (h *AdminHandler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	targetID, err := pathUserID(r)
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid user id"))
		return
	}
	var input struct {
		SkillName  string `json:"skill_name"`
		SkillValue int    `json:"skill_value"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	actor := auth.UserFromContext(r.Context())
	if err := h.users.UpdateSkill(r.Context(), actor, targetID, input.SkillName, input.SkillValue); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// CreateCommand handles POST /api/admin/commands.
func (h *AdminHandler) CreateCommand(w http.ResponseWriter, r *http.Request) {
	var cmd domain.Command
	if err := DecodeJSON(r, &cmd); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	actor := auth.UserFromContext(r.Context())
	id, err := h.content.CreateCommand(r.Context(), actor, &cmd)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// UpdateCommand handles PATCH /api/admin/commands/{id}.
func (h *AdminHandler) UpdateCommand(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid command id"))
		return
	}
	var patch domain.CommandPatch
	if err := DecodeJSON(r, &patch); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	actor := auth.UserFromContext(r.Context())
	if err := h.content.EditCommand(r.Context(), actor, id, patch); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteCommand handles DELETE /api/admin/commands/{id}.
func (h *AdminHandler) DeleteCommand(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid command id"))
		return
	}

	actor := auth.UserFromContext(r.Context())
	if err := h.content.DeleteCommand(r.Context(), actor, id); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// CreateAnnouncement handles POST /api/admin/announcements.
func (h *AdminHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var a domain.Announcement
	if err := DecodeJSON(r, &a); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	actor := auth.UserFromContext(r.Context())
	id, err := h.content.CreateAnnouncement(r.Context(), actor, &a)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// DeleteAnnouncement handles DELETE /api/admin/announcements/{id}.
func (h *AdminHandler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid announcement id"))
		return
	}

	actor := auth.UserFromContext(r.Context())
	if err := h.content.DeleteAnnouncement(r.Context(), actor, id); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UpsertSection handles PUT /api/admin/sections.
func (h *AdminHandler) UpsertSection(w http.ResponseWriter, r *http.Request) {
	var up domain.SectionUpsert
	if err := DecodeJSON(r, &up); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	actor := auth.UserFromContext(r.Context())
	if err := h.content.UpsertSection(r.Context(), actor, up); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// ListActivity handles GET /api/admin/activity.
func (h *AdminHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.recorder.Recent(r.Context(), limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"activity": entries})
}

// ListSettings handles GET /api/admin/settings.
func (h *AdminHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.List(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"settings": settings})
}

// UpdateSetting handles PUT /api/admin/settings.
func (h *AdminHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}

	actor := auth.UserFromContext(r.Context())
	if err := h.settings.Upsert(r.Context(), actor, input.Key, input.Value); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
