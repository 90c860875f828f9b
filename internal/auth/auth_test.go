package auth

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/foxafamily/community/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Token Tests ---

func TestNewToken(t *testing.T) {
	tok, err := NewToken()
	require.NoError(t, err)
	assert.Len(t, tok, 64)

	_, err = hex.DecodeString(tok)
	require.NoError(t, err, "token must be hex")

	other, err := NewToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

// --- TokenFromRequest Tests ---

func TestTokenFromRequest(t *testing.T) {
	t.Run("header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(TokenHeader, "abc123")
		assert.Equal(t, "abc123", TokenFromRequest(r))
	})

	t.Run("query fallback", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?token=qrs456", nil)
		assert.Equal(t, "qrs456", TokenFromRequest(r))
	})

	t.Run("form body fallback", func(t *testing.T) {
		form := url.Values{TokenParam: {"form789"}}
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		assert.Equal(t, "form789", TokenFromRequest(r))
	})

	t.Run("header wins over query", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?token=fromquery", nil)
		r.Header.Set(TokenHeader, "fromheader")
		assert.Equal(t, "fromheader", TokenFromRequest(r))
	})

	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, TokenFromRequest(r))
	})
}

// --- Middleware Tests ---

type stubResolver struct {
	user *domain.User
	err  error
}

func (s *stubResolver) Resolve(_ context.Context, _ string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func okHandler(t *testing.T, wantUser string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())
		require.NotNil(t, u)
		assert.Equal(t, wantUser, u.Username)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		mw := Authenticate(&stubResolver{user: &domain.User{Username: "scout", Role: domain.RolePlayer}})
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(TokenHeader, "sometoken")
		w := httptest.NewRecorder()
		mw(okHandler(t, "scout")).ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		mw := Authenticate(&stubResolver{user: &domain.User{Username: "scout"}})
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		mw(okHandler(t, "scout")).ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
	})

	t.Run("unresolvable token", func(t *testing.T) {
		mw := Authenticate(&stubResolver{err: domain.ErrInvalidSession()})
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(TokenHeader, "expired")
		w := httptest.NewRecorder()
		mw(okHandler(t, "")).ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_SESSION")
	})
}

func TestMaybeAuthenticate(t *testing.T) {
	t.Run("valid token sets user", func(t *testing.T) {
		mw := MaybeAuthenticate(&stubResolver{user: &domain.User{Username: "scout", Role: domain.RolePlayer}})
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(TokenHeader, "sometoken")
		w := httptest.NewRecorder()
		mw(okHandler(t, "scout")).ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	anonHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Nil(t, UserFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing token continues anonymous", func(t *testing.T) {
		mw := MaybeAuthenticate(&stubResolver{user: &domain.User{Username: "scout"}})
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		mw(anonHandler).ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unresolvable token continues anonymous", func(t *testing.T) {
		mw := MaybeAuthenticate(&stubResolver{err: domain.ErrInvalidSession()})
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(TokenHeader, "expired")
		w := httptest.NewRecorder()
		mw(anonHandler).ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	pass := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		userRole   domain.Role
		minRole    domain.Role
		wantStatus int
	}{
		{"player meets player", domain.RolePlayer, domain.RolePlayer, 200},
		{"player below admin", domain.RolePlayer, domain.RoleAdmin, 403},
		{"moderator below admin", domain.RoleModerator, domain.RoleAdmin, 403},
		{"admin meets admin", domain.RoleAdmin, domain.RoleAdmin, 200},
		{"admin below superadmin", domain.RoleAdmin, domain.RoleSuperadmin, 403},
		{"superadmin meets everything", domain.RoleSuperadmin, domain.RolePlayer, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r = r.WithContext(WithUser(r.Context(), &domain.User{Role: tt.userRole}))
			w := httptest.NewRecorder()
			RequireRole(tt.minRole)(pass).ServeHTTP(w, r)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	t.Run("no auth context", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		RequireRole(domain.RolePlayer)(pass).ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
