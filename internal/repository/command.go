package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/foxafamily/community/internal/domain"
)

const commandColumns = `id, category, sub_category, command_code, label, description,
	requires_role, sort_order, is_active, added_by, created_at, updated_at`

type commandRepo struct{}

// NewCommandRepository returns a pgx-backed CommandRepository.
func NewCommandRepository() CommandRepository {
	return &commandRepo{}
}

func (r *commandRepo) Insert(ctx context.Context, db DBTX, cmd *domain.Command) (int64, error) {
	var id int64
	err := db.QueryRow(ctx, `
		INSERT INTO commands (category, sub_category, command_code, label, description, requires_role, sort_order, added_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		cmd.Category, cmd.SubCategory, cmd.CommandCode, cmd.Label, cmd.Description,
		string(cmd.RequiresRole), cmd.SortOrder, cmd.AddedBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert command: %w", err)
	}
	return id, nil
}

func (r *commandRepo) ApplyPatch(ctx context.Context, db DBTX, id int64, patch domain.CommandPatch) (int64, error) {
	clauses, args := commandSetClauses(patch)
	if len(clauses) == 0 {
		return 0, domain.ErrNoFields()
	}
	clauses = append(clauses, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE commands SET %s WHERE id = $%d`,
		strings.Join(clauses, ", "), len(args))

	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update command: %w", err)
	}
	return tag.RowsAffected(), nil
}

func commandSetClauses(p domain.CommandPatch) ([]string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(col string, val interface{}) {
		args = append(args, val)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Category != nil {
		add("category", *p.Category)
	}
	if p.SubCategory != nil {
		add("sub_category", *p.SubCategory)
	}
	if p.CommandCode != nil {
		add("command_code", *p.CommandCode)
	}
	if p.Label != nil {
		add("label", *p.Label)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.RequiresRole != nil {
		add("requires_role", string(*p.RequiresRole))
	}
	if p.SortOrder != nil {
		add("sort_order", *p.SortOrder)
	}
	if p.IsActive != nil {
		add("is_active", *p.IsActive)
	}
	return clauses, args
}

func (r *commandRepo) Delete(ctx context.Context, db DBTX, id int64) (int64, error) {
	tag, err := db.Exec(ctx, `DELETE FROM commands WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete command: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *commandRepo) ListActive(ctx context.Context, db DBTX, category string) ([]domain.Command, error) {
	query := `SELECT ` + commandColumns + ` FROM commands WHERE is_active = true`
	args := []interface{}{}
	if category != "" {
		query += ` AND category = $1 ORDER BY sort_order, id`
		args = append(args, category)
	} else {
		query += ` ORDER BY category, sort_order, id`
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list commands: %w", err)
	}
	defer rows.Close()

	var cmds []domain.Command
	for rows.Next() {
		var c domain.Command
		var role string
		if err := rows.Scan(&c.ID, &c.Category, &c.SubCategory, &c.CommandCode, &c.Label,
			&c.Description, &role, &c.SortOrder, &c.IsActive, &c.AddedBy,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.RequiresRole = domain.ParseRole(role)
		cmds = append(cmds, c)
	}
	return cmds, rows.Err()
}
