package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foxafamily/community/internal/domain"
	"github.com/jackc/pgx/v5"
)

type sessionRepo struct{}

// NewSessionRepository returns a pgx-backed SessionRepository.
func NewSessionRepository() SessionRepository {
	return &sessionRepo{}
}

func (r *sessionRepo) Create(ctx context.Context, db DBTX, s *domain.Session) error {
	_, err := db.Exec(ctx, `
		INSERT INTO sessions (id, user_id, token, ip_address, user_agent, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.UserID, s.Token, s.IPAddress, s.UserAgent, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *sessionRepo) FindByToken(ctx context.Context, db DBTX, token string) (*domain.Session, *domain.User, error) {
	row := db.QueryRow(ctx, `
		SELECT s.id, s.user_id, s.token, s.ip_address, s.user_agent, s.created_at, s.expires_at,
		       `+prefixedUserColumns("u")+`
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1`, token)

	var s domain.Session
	var u domain.User
	var role string
	err := row.Scan(
		&s.ID, &s.UserID, &s.Token, &s.IPAddress, &s.UserAgent, &s.CreatedAt, &s.ExpiresAt,
		&u.ID, &u.Username, &u.PasswordHash, &role, &u.IsBanned, &u.BanReason,
		&u.Level, &u.Score, &u.Money, &u.Warnings, &u.Faction, &u.Gang, &u.RankTitle,
		&u.AvatarEmoji, &u.Bio, &u.CreatedAt, &u.LastLogin, &u.LastIP,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("scan session: %w", err)
	}
	u.Role = domain.ParseRole(role)
	return &s, &u, nil
}

func (r *sessionRepo) DeleteByToken(ctx context.Context, db DBTX, token string) error {
	_, err := db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

func (r *sessionRepo) DeleteExpired(ctx context.Context, db DBTX, before time.Time) (int64, error) {
	tag, err := db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// prefixedUserColumns qualifies the shared user column list for joins.
func prefixedUserColumns(alias string) string {
	return alias + `.id, ` + alias + `.username, ` + alias + `.password_hash, ` +
		alias + `.role, ` + alias + `.is_banned, ` + alias + `.ban_reason, ` +
		alias + `.level, ` + alias + `.score, ` + alias + `.money, ` + alias + `.warnings, ` +
		alias + `.faction, ` + alias + `.gang, ` + alias + `.rank_title, ` +
		alias + `.avatar_emoji, ` + alias + `.bio, ` + alias + `.created_at, ` +
		alias + `.last_login, ` + alias + `.last_ip`
}
