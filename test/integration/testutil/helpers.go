//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/foxafamily/community/internal/auth"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// OpenRegistration flips the registration_open setting directly in the DB.
func (env *TestEnv) OpenRegistration() {
	env.t.Helper()
	env.PutSetting("registration_open", "1")
}

// PutSetting upserts a site setting directly in the DB.
func (env *TestEnv) PutSetting(key, value string) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := env.Pool.Exec(ctx, `
		INSERT INTO site_settings (setting_key, setting_value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (setting_key) DO UPDATE
		SET setting_value = EXCLUDED.setting_value, updated_at = now()`,
		key, value)
	if err != nil {
		env.t.Fatalf("PutSetting %s: %v", key, err)
	}
}

// SeedUser inserts a user directly into the DB with the given role and
// returns the user ID. Registration stays closed and roles cannot be
// self-assigned, so tests seed privileged accounts this way.
func (env *TestEnv) SeedUser(username, password, role string) uuid.UUID {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		env.t.Fatalf("SeedUser: hash: %v", err)
	}

	userID := uuid.New()
	_, err = env.Pool.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, role, rank_title)
		VALUES ($1, $2, $3, $4, 'Newcomer')`,
		userID, username, string(hash), role)
	if err != nil {
		env.t.Fatalf("SeedUser: insert: %v", err)
	}
	return userID
}

// BanUser marks a user as banned directly in the DB.
func (env *TestEnv) BanUser(userID uuid.UUID, reason string) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := env.Pool.Exec(ctx,
		"UPDATE users SET is_banned = TRUE, ban_reason = $2 WHERE id = $1",
		userID, reason)
	if err != nil {
		env.t.Fatalf("BanUser: %v", err)
	}
}

// Login authenticates via the API and returns the session token.
func (env *TestEnv) Login(username, password string) string {
	env.t.Helper()
	resp := env.POST("/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		env.t.Fatalf("Login: expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.t.Fatalf("Login: decode: %v", err)
	}
	return result.Token
}

// SeedUserWithToken seeds a user and logs them in, returning their ID and token.
func (env *TestEnv) SeedUserWithToken(username, password, role string) (uuid.UUID, string) {
	env.t.Helper()
	id := env.SeedUser(username, password, role)
	return id, env.Login(username, password)
}

// GET performs an unauthenticated GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	return env.do("GET", path, nil, "")
}

// POST performs a POST request with optional session token.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.do("POST", path, body, token)
}

// AuthGET performs an authenticated GET request.
func (env *TestEnv) AuthGET(path, token string) *http.Response {
	env.t.Helper()
	return env.do("GET", path, nil, token)
}

// AuthPATCH performs an authenticated PATCH request.
func (env *TestEnv) AuthPATCH(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.do("PATCH", path, body, token)
}

// AuthPUT performs an authenticated PUT request.
func (env *TestEnv) AuthPUT(path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	return env.do("PUT", path, body, token)
}

// AuthDELETE performs an authenticated DELETE request.
func (env *TestEnv) AuthDELETE(path, token string) *http.Response {
	env.t.Helper()
	return env.do("DELETE", path, nil, token)
}

func (env *TestEnv) do(method, path string, body interface{}, token string) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("%s %s: encode: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("%s %s: new request: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}
