package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/foxafamily/community/internal/domain"
	"github.com/jackc/pgx/v5"
)

type settingRepo struct{}

// NewSettingRepository returns a pgx-backed SettingRepository.
func NewSettingRepository() SettingRepository {
	return &settingRepo{}
}

func (r *settingRepo) Get(ctx context.Context, db DBTX, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(ctx,
		`SELECT setting_value FROM site_settings WHERE setting_key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

// Upsert is a single atomic insert-or-update so concurrent first-writes
// cannot clobber each other.
func (r *settingRepo) Upsert(ctx context.Context, db DBTX, key, value string) error {
	_, err := db.Exec(ctx, `
		INSERT INTO site_settings (setting_key, setting_value)
		VALUES ($1, $2)
		ON CONFLICT (setting_key) DO UPDATE
		SET setting_value = EXCLUDED.setting_value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

func (r *settingRepo) List(ctx context.Context, db DBTX) ([]domain.Setting, error) {
	rows, err := db.Query(ctx,
		`SELECT setting_key, setting_value, updated_at FROM site_settings ORDER BY setting_key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []domain.Setting
	for rows.Next() {
		var s domain.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}
