package repository

import (
	"context"
	"fmt"

	"github.com/foxafamily/community/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const activityColumns = `id, user_id, username, action, details, ip_address, created_at`

type activityLogRepo struct{}

// NewActivityLogRepository returns a pgx-backed ActivityLogRepository.
func NewActivityLogRepository() ActivityLogRepository {
	return &activityLogRepo{}
}

func (r *activityLogRepo) Insert(ctx context.Context, db DBTX, e *domain.ActivityLogEntry) error {
	_, err := db.Exec(ctx, `
		INSERT INTO activity_log (user_id, username, action, details, ip_address)
		VALUES ($1, $2, $3, $4, $5)`,
		e.UserID, e.Username, e.Action, e.Details, e.IPAddress)
	if err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}
	return nil
}

func (r *activityLogRepo) ListRecent(ctx context.Context, db DBTX, limit int) ([]domain.ActivityLogEntry, error) {
	rows, err := db.Query(ctx,
		`SELECT `+activityColumns+` FROM activity_log ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return scanActivityRows(rows)
}

func (r *activityLogRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.ActivityLogEntry, error) {
	rows, err := db.Query(ctx,
		`SELECT `+activityColumns+` FROM activity_log
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list user activity: %w", err)
	}
	return scanActivityRows(rows)
}

func scanActivityRows(rows pgx.Rows) ([]domain.ActivityLogEntry, error) {
	defer rows.Close()

	var entries []domain.ActivityLogEntry
	for rows.Next() {
		var e domain.ActivityLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.Action, &e.Details,
			&e.IPAddress, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
