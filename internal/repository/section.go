package repository

import (
	"context"
	"fmt"

	"github.com/foxafamily/community/internal/domain"
	"github.com/google/uuid"
)

type sectionRepo struct{}

// NewSectionRepository returns a pgx-backed SectionRepository.
func NewSectionRepository() SectionRepository {
	return &sectionRepo{}
}

// Upsert is one atomic insert-or-update keyed by section_key, so a concurrent
// first write cannot be clobbered by a second process's insert.
func (r *sectionRepo) Upsert(ctx context.Context, db DBTX, up domain.SectionUpsert, updatedBy *uuid.UUID) error {
	_, err := db.Exec(ctx, `
		INSERT INTO page_sections (section_key, section_title, content, content_type, page, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (section_key) DO UPDATE SET
			section_title = EXCLUDED.section_title,
			content       = EXCLUDED.content,
			content_type  = EXCLUDED.content_type,
			updated_by    = EXCLUDED.updated_by,
			updated_at    = now()`,
		up.SectionKey, up.SectionTitle, up.Content, up.ContentType, up.Page, updatedBy)
	if err != nil {
		return fmt.Errorf("upsert section %s: %w", up.SectionKey, err)
	}
	return nil
}

func (r *sectionRepo) ListActive(ctx context.Context, db DBTX, page string) ([]domain.PageSection, error) {
	query := `SELECT section_key, section_title, content, content_type, page, is_active, updated_by, updated_at
		FROM page_sections WHERE is_active = true`
	args := []interface{}{}
	if page != "" {
		query += ` AND page = $1`
		args = append(args, page)
	} else {
		query += ` ORDER BY page`
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.PageSection
	for rows.Next() {
		var s domain.PageSection
		if err := rows.Scan(&s.SectionKey, &s.SectionTitle, &s.Content, &s.ContentType,
			&s.Page, &s.IsActive, &s.UpdatedBy, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}
