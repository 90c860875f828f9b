package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/foxafamily/community/internal/domain"
)

// TokenHeader is the dedicated session token header. Query and form
// parameters are accepted as fallbacks for legacy callers.
const (
	TokenHeader = "X-Token"
	TokenParam  = "token"
)

type contextKey string

const userKey contextKey = "auth_user"

// TokenResolver resolves an opaque token to its owning user. Implemented by
// the session service.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// UserFromContext extracts the authenticated user from request context.
func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey).(*domain.User)
	return u
}

// WithUser returns a context carrying the authenticated user. Exposed for
// handler tests.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// TokenFromRequest extracts the session token from the X-Token header, the
// token query parameter, or a form-encoded body field, in that order.
func TokenFromRequest(r *http.Request) string {
	if tok := r.Header.Get(TokenHeader); tok != "" {
		return tok
	}
	if tok := r.URL.Query().Get(TokenParam); tok != "" {
		return tok
	}
	return r.PostFormValue(TokenParam)
}

// Authenticate returns middleware that resolves the presented token and
// stores the user in the request context. Missing token yields 401
// UNAUTHENTICATED; an unresolvable token yields 401 INVALID_SESSION.
func Authenticate(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				writeAuthError(w, domain.ErrUnauthenticated())
				return
			}

			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if appErr, ok := err.(*domain.AppError); ok {
					writeAuthError(w, appErr)
				} else {
					writeAuthError(w, domain.ErrInvalidSession())
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// MaybeAuthenticate returns middleware that resolves a token when one is
// presented but lets anonymous requests through. Used on public routes whose
// response varies by viewer rank.
func MaybeAuthenticate(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := TokenFromRequest(r); token != "" {
				if user, err := resolver.Resolve(r.Context(), token); err == nil {
					r = r.WithContext(WithUser(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole returns middleware enforcing a minimum rank. Must run after
// Authenticate.
func RequireRole(min domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				writeAuthError(w, domain.ErrUnauthenticated())
				return
			}
			if !user.Role.AtLeast(min) {
				writeAuthError(w, domain.ErrInsufficientPermission(min))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, err *domain.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    err.Code,
		"message": err.Message,
	})
}
