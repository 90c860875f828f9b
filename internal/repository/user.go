package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foxafamily/community/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, password_hash, role, is_banned, ban_reason,
	level, score, money, warnings, faction, gang, rank_title, avatar_emoji, bio,
	created_at, last_login, last_ip`

type userRepo struct{}

// NewUserRepository returns a pgx-backed UserRepository.
func NewUserRepository() UserRepository {
	return &userRepo{}
}

func (r *userRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *userRepo) FindByUsername(ctx context.Context, db DBTX, username string) (*domain.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (r *userRepo) Create(ctx context.Context, db DBTX, user *domain.User) error {
	_, err := db.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, role, avatar_emoji, level, score, rank_title)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Username, user.PasswordHash, string(user.Role),
		user.AvatarEmoji, user.Level, user.Score, user.RankTitle)
	if isUniqueViolation(err) {
		return domain.ErrConflict("username already taken")
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) RecordLogin(ctx context.Context, db DBTX, id uuid.UUID, ip string) error {
	_, err := db.Exec(ctx,
		`UPDATE users SET last_login = now(), last_ip = $2 WHERE id = $1`, id, ip)
	return err
}

func (r *userRepo) ApplyProfilePatch(ctx context.Context, db DBTX, id uuid.UUID, patch domain.ProfilePatch) (int64, error) {
	clauses, args := profileSetClauses(patch)
	if len(clauses) == 0 {
		return 0, domain.ErrNoFields()
	}
	return applyUserPatch(ctx, db, id, clauses, args)
}

func (r *userRepo) ApplyAdminPatch(ctx context.Context, db DBTX, id uuid.UUID, patch domain.UserAdminPatch) (int64, error) {
	clauses, args := adminSetClauses(patch)
	if len(clauses) == 0 {
		return 0, domain.ErrNoFields()
	}
	return applyUserPatch(ctx, db, id, clauses, args)
}

// applyUserPatch issues a single UPDATE with the assembled SET clauses; the
// statement is the atomicity boundary.
func applyUserPatch(ctx context.Context, db DBTX, id uuid.UUID, clauses []string, args []interface{}) (int64, error) {
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`,
		strings.Join(clauses, ", "), len(args))

	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update user: %w", err)
	}
	return tag.RowsAffected(), nil
}

// profileSetClauses builds SET clauses from the self-service patch. Only the
// four profile fields can ever appear here.
func profileSetClauses(p domain.ProfilePatch) ([]string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(col string, val interface{}) {
		args = append(args, val)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Bio != nil {
		add("bio", *p.Bio)
	}
	if p.AvatarEmoji != nil {
		add("avatar_emoji", *p.AvatarEmoji)
	}
	if p.Faction != nil {
		add("faction", *p.Faction)
	}
	if p.Gang != nil {
		add("gang", *p.Gang)
	}
	return clauses, args
}

func adminSetClauses(p domain.UserAdminPatch) ([]string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(col string, val interface{}) {
		args = append(args, val)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Role != nil {
		add("role", string(*p.Role))
	}
	if p.IsBanned != nil {
		add("is_banned", *p.IsBanned)
	}
	if p.BanReason != nil {
		add("ban_reason", *p.BanReason)
	}
	if p.Warnings != nil {
		add("warnings", *p.Warnings)
	}
	if p.Level != nil {
		add("level", *p.Level)
	}
	if p.Score != nil {
		add("score", *p.Score)
	}
	if p.Money != nil {
		add("money", *p.Money)
	}
	if p.RankTitle != nil {
		add("rank_title", *p.RankTitle)
	}
	if p.Faction != nil {
		add("faction", *p.Faction)
	}
	if p.Gang != nil {
		add("gang", *p.Gang)
	}
	return clauses, args
}

func (r *userRepo) Search(ctx context.Context, db DBTX, search string, limit, offset int) ([]domain.User, int, error) {
	pattern := "%" + search + "%"

	rows, err := db.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE username ILIKE $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUserFromRows(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE username ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	u, err := scanUserFromRows(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func scanUserFromRows(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.IsBanned, &u.BanReason,
		&u.Level, &u.Score, &u.Money, &u.Warnings, &u.Faction, &u.Gang, &u.RankTitle,
		&u.AvatarEmoji, &u.Bio, &u.CreatedAt, &u.LastLogin, &u.LastIP)
	if err != nil {
		return nil, err
	}
	u.Role = domain.ParseRole(role)
	return &u, nil
}
