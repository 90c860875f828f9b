package repository

import (
	"context"
	"fmt"

	"github.com/foxafamily/community/internal/domain"
	"github.com/google/uuid"
)

type skillRepo struct{}

// NewSkillRepository returns a pgx-backed SkillRepository.
func NewSkillRepository() SkillRepository {
	return &skillRepo{}
}

// Upsert is one atomic insert-or-update keyed by (user_id, skill_name).
func (r *skillRepo) Upsert(ctx context.Context, db DBTX, userID uuid.UUID, name string, value int) error {
	_, err := db.Exec(ctx, `
		INSERT INTO player_skills (user_id, skill_name, skill_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, skill_name) DO UPDATE
		SET skill_value = EXCLUDED.skill_value`,
		userID, name, value)
	if err != nil {
		return fmt.Errorf("upsert skill %s: %w", name, err)
	}
	return nil
}

func (r *skillRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Skill, error) {
	rows, err := db.Query(ctx, `
		SELECT user_id, skill_name, skill_value
		FROM player_skills WHERE user_id = $1
		ORDER BY skill_value DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var skills []domain.Skill
	for rows.Next() {
		var s domain.Skill
		if err := rows.Scan(&s.UserID, &s.SkillName, &s.SkillValue); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}
