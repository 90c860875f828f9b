package handler

import (
	"net/http"
	"strconv"

	"github.com/foxafamily/community/internal/auth"
	"github.com/foxafamily/community/internal/service"
)

// ContentHandler serves the read side of commands, announcements, and page
// sections.
type ContentHandler struct {
	content *service.ContentService
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(content *service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// ListCommands handles GET /api/commands. Public; the list is trimmed to
// what the viewer's role can use, with anonymous callers ranked as players.
func (h *ContentHandler) ListCommands(w http.ResponseWriter, r *http.Request) {
	viewer := auth.UserFromContext(r.Context())
	cmds, err := h.content.ListCommands(r.Context(), viewer, r.URL.Query().Get("category"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"commands": cmds})
}

// ListAnnouncements handles GET /api/announcements.
func (h *ContentHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	anns, err := h.content.ListAnnouncements(r.Context(), limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"announcements": anns})
}

// ListSections handles GET /api/sections.
func (h *ContentHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.content.ListSections(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"sections": sections})
}
