package handler

import (
	"net/http"

	"github.com/foxafamily/community/internal/auth"
	"github.com/foxafamily/community/internal/domain"
	"github.com/foxafamily/community/internal/service"
	"github.com/google/uuid"
)

// ProfileHandler serves the authenticated user's own profile.
type ProfileHandler struct {
	users *service.UsersService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(users *service.UsersService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

// Get handles GET /api/profile. A user_id query parameter selects another
// player's profile; otherwise the caller's own is served.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())

	targetID := actor.ID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(w, domain.ErrValidation("invalid user id"))
			return
		}
		targetID = id
	}

	user, skills, err := h.users.Profile(r.Context(), targetID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user":   user,
		"skills": skills,
	})
}

// Update handles PATCH /api/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())

	var patch domain.ProfilePatch
	if err := DecodeJSON(r, &patch); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}
	if err := h.users.UpdateProfile(r.Context(), actor, patch); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
