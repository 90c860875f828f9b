package repository

import (
	"context"
	"fmt"

	"github.com/foxafamily/community/internal/domain"
)

type announcementRepo struct{}

// NewAnnouncementRepository returns a pgx-backed AnnouncementRepository.
func NewAnnouncementRepository() AnnouncementRepository {
	return &announcementRepo{}
}

func (r *announcementRepo) Insert(ctx context.Context, db DBTX, a *domain.Announcement) (int64, error) {
	var id int64
	err := db.QueryRow(ctx, `
		INSERT INTO announcements (title, body, type, is_pinned, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		a.Title, a.Body, a.Type, a.IsPinned, a.CreatedBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert announcement: %w", err)
	}
	return id, nil
}

func (r *announcementRepo) Deactivate(ctx context.Context, db DBTX, id int64) (int64, error) {
	tag, err := db.Exec(ctx,
		`UPDATE announcements SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("deactivate announcement: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *announcementRepo) ListActive(ctx context.Context, db DBTX, limit int) ([]domain.Announcement, error) {
	rows, err := db.Query(ctx, `
		SELECT id, title, body, type, is_pinned, is_active, created_by, created_at
		FROM announcements WHERE is_active = true
		ORDER BY is_pinned DESC, created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	var anns []domain.Announcement
	for rows.Next() {
		var a domain.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.Type, &a.IsPinned,
			&a.IsActive, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		anns = append(anns, a)
	}
	return anns, rows.Err()
}
