package handler

import (
	"net/http"

	"github.com/foxafamily/community/internal/auth"
	"github.com/foxafamily/community/internal/domain"
	"github.com/foxafamily/community/internal/guard"
	"github.com/foxafamily/community/internal/service"
)

// AuthHandler serves registration, login, logout, and session verification.
type AuthHandler struct {
	sessions *service.SessionService
	users    *service.UsersService
	limiter  *guard.RateLimiter
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *service.SessionService, users *service.UsersService, limiter *guard.RateLimiter) *AuthHandler {
	return &AuthHandler{sessions: sessions, users: users, limiter: limiter}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if res := h.limiter.Check(r.Context(), ClientIP(r)); !res.Allowed {
		RespondError(w, domain.ErrRateLimited())
		return
	}

	var input service.RegisterInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}
	input.IP = ClientIP(r)

	user, err := h.sessions.Register(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if res := h.limiter.Check(r.Context(), ClientIP(r)); !res.Allowed {
		RespondError(w, domain.ErrRateLimited())
		return
	}

	var input service.LoginInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid JSON body"))
		return
	}
	input.IP = ClientIP(r)
	input.UserAgent = r.UserAgent()

	result, err := h.sessions.Login(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// Logout handles POST /api/auth/logout. Requires authentication.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if err := h.sessions.Logout(r.Context(), user, auth.TokenFromRequest(r)); err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Verify handles GET /api/auth/verify. The middleware has already resolved
// the token; this just echoes the owner with their skills.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	user, skills, err := h.users.Profile(r.Context(), actor.ID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user":   user,
		"skills": skills,
	})
}
