package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a users row.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsBanned     bool       `json:"is_banned"`
	BanReason    string     `json:"ban_reason,omitempty"`
	Level        int        `json:"level"`
	Score        int        `json:"score"`
	Money        int64      `json:"money"`
	Warnings     int        `json:"warnings"`
	Faction      string     `json:"faction,omitempty"`
	Gang         string     `json:"gang,omitempty"`
	RankTitle    string     `json:"rank_title,omitempty"`
	AvatarEmoji  string     `json:"avatar_emoji,omitempty"`
	Bio          string     `json:"bio,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	LastIP       string     `json:"-"`
}

// Session is an opaque-token login session. Created at login, never updated,
// expired lazily at lookup time.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Usable reports whether the session is still valid at the given instant.
// A session resolving exactly at its expiry is already dead.
func (s *Session) Usable(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// Skill is one player_skills row, keyed by (user, skill name).
type Skill struct {
	UserID     uuid.UUID `json:"user_id"`
	SkillName  string    `json:"skill_name"`
	SkillValue int       `json:"skill_value"`
}
