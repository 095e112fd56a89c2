package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finframe/internal/domain/category"
	"finframe/internal/domain/record"
)

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, user_id, name, type, icon, color, created_at, updated_at`

func scanCategory(row rowScanner) (*category.Category, error) {
	var c category.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func iconOrDefault(icon string) string {
	if icon == "" {
		return category.DefaultIcon
	}
	return icon
}

func (r *CategoryRepository) Create(ctx context.Context, userID int64, params category.CreateParams) (*category.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, type, icon, color)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(ctx, query,
		userID, params.Name, params.Type, iconOrDefault(params.Icon), params.Color,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) ListByUserID(ctx context.Context, userID int64, typ record.EntryType) ([]*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND ($2 = '' OR type = $2)
		ORDER BY type, name
	`

	rows, err := r.db.QueryContext(ctx, query, userID, string(typ))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// GetOrCreate inserts the category unless one with the same user, name and
// type exists, and returns whichever row is stored.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, userID int64, params category.CreateParams) (*category.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, type, icon, color)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, name, type) DO UPDATE SET name = EXCLUDED.name
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(ctx, query,
		userID, params.Name, params.Type, iconOrDefault(params.Icon), params.Color,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id int64, params category.UpdateParams) (*category.Category, error) {
	query := `
		UPDATE categories
		SET name = COALESCE($1, name),
		    icon = COALESCE($2, icon),
		    color = COALESCE($3, color),
		    updated_at = NOW()
		WHERE id = $4
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, params.Name, params.Icon, params.Color, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return category.ErrCategoryInUse
	}
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}
