package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finframe/internal/domain/limit"
)

type LimitRepository struct {
	db *DB
}

func NewLimitRepository(db *DB) *LimitRepository {
	return &LimitRepository{db: db}
}

const limitSelect = `
	SELECT l.id, l.user_id, l.category_id, c.name, l.amount, l.period, l.start_date,
	       l.created_at, l.updated_at
	FROM spending_limits l
	JOIN categories c ON c.id = l.category_id
`

func scanLimit(row rowScanner) (*limit.SpendingLimit, error) {
	var l limit.SpendingLimit
	err := row.Scan(
		&l.ID, &l.UserID, &l.CategoryID, &l.CategoryName, &l.Amount, &l.Period, &l.StartDate,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LimitRepository) Create(ctx context.Context, userID int64, params limit.SaveParams) (*limit.SpendingLimit, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO spending_limits (user_id, category_id, amount, period, start_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, userID, params.CategoryID, params.Amount, params.Period, params.StartDate).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create spending limit: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *LimitRepository) GetByID(ctx context.Context, id int64) (*limit.SpendingLimit, error) {
	l, err := scanLimit(r.db.QueryRowContext(ctx, limitSelect+` WHERE l.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, limit.ErrLimitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get spending limit: %w", err)
	}
	return l, nil
}

func (r *LimitRepository) Update(ctx context.Context, id int64, params limit.SaveParams) (*limit.SpendingLimit, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE spending_limits
		SET category_id = $1, amount = $2, period = $3, start_date = $4, updated_at = NOW()
		WHERE id = $5
	`, params.CategoryID, params.Amount, params.Period, params.StartDate, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update spending limit: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, limit.ErrLimitNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *LimitRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM spending_limits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete spending limit: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return limit.ErrLimitNotFound
	}
	return nil
}

func (r *LimitRepository) ListByUserID(ctx context.Context, userID int64) ([]*limit.SpendingLimit, error) {
	return r.list(ctx, limitSelect+` WHERE l.user_id = $1 ORDER BY c.name, l.period`, userID)
}

func (r *LimitRepository) ListByCategory(ctx context.Context, userID, categoryID int64) ([]*limit.SpendingLimit, error) {
	return r.list(ctx, limitSelect+` WHERE l.user_id = $1 AND l.category_id = $2 ORDER BY l.period`, userID, categoryID)
}

func (r *LimitRepository) list(ctx context.Context, query string, args ...any) ([]*limit.SpendingLimit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list spending limits: %w", err)
	}
	defer rows.Close()

	var limits []*limit.SpendingLimit
	for rows.Next() {
		l, err := scanLimit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spending limit: %w", err)
		}
		limits = append(limits, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating spending limits: %w", err)
	}
	return limits, nil
}
