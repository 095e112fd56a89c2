package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"finframe/internal/domain/goal"
)

type GoalRepository struct {
	db *DB
}

func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const savingColumns = `id, user_id, name, target_amount, current_amount, target_date, created_at, updated_at`

func scanSaving(row rowScanner) (*goal.SavingGoal, error) {
	var g goal.SavingGoal
	err := row.Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GoalRepository) CreateSaving(ctx context.Context, userID int64, params goal.SavingGoalParams) (*goal.SavingGoal, error) {
	query := `
		INSERT INTO saving_goals (user_id, name, target_amount, target_date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + savingColumns

	g, err := scanSaving(r.db.QueryRowContext(ctx, query, userID, params.Name, params.TargetAmount, params.TargetDate))
	if err != nil {
		return nil, fmt.Errorf("failed to create saving goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) GetSaving(ctx context.Context, id int64) (*goal.SavingGoal, error) {
	g, err := scanSaving(r.db.QueryRowContext(ctx, `SELECT `+savingColumns+` FROM saving_goals WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goal.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saving goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) UpdateSaving(ctx context.Context, id int64, params goal.SavingGoalParams) (*goal.SavingGoal, error) {
	query := `
		UPDATE saving_goals
		SET name = $1, target_amount = $2, target_date = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + savingColumns

	g, err := scanSaving(r.db.QueryRowContext(ctx, query, params.Name, params.TargetAmount, params.TargetDate, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goal.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update saving goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) DeleteSaving(ctx context.Context, id int64) error {
	return r.delete(ctx, `DELETE FROM saving_goals WHERE id = $1`, id)
}

func (r *GoalRepository) ListSaving(ctx context.Context, userID int64) ([]*goal.SavingGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+savingColumns+` FROM saving_goals WHERE user_id = $1 ORDER BY target_date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saving goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.SavingGoal
	for rows.Next() {
		g, err := scanSaving(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saving goal: %w", err)
		}
		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saving goals: %w", err)
	}
	return goals, nil
}

func (r *GoalRepository) AddToSaving(ctx context.Context, id int64, amount decimal.Decimal) (*goal.SavingGoal, error) {
	query := `
		UPDATE saving_goals
		SET current_amount = current_amount + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + savingColumns

	g, err := scanSaving(r.db.QueryRowContext(ctx, query, amount, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goal.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to deposit to saving goal: %w", err)
	}
	return g, nil
}

const purchaseColumns = `id, user_id, name, price, trigger_percentage, is_notified, created_at, updated_at`

func scanPurchase(row rowScanner) (*goal.PurchaseGoal, error) {
	var g goal.PurchaseGoal
	err := row.Scan(
		&g.ID, &g.UserID, &g.Name, &g.Price, &g.TriggerPercentage, &g.IsNotified,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GoalRepository) CreatePurchase(ctx context.Context, userID int64, params goal.PurchaseGoalParams) (*goal.PurchaseGoal, error) {
	query := `
		INSERT INTO purchase_goals (user_id, name, price, trigger_percentage)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + purchaseColumns

	g, err := scanPurchase(r.db.QueryRowContext(ctx, query, userID, params.Name, params.Price, params.Trigger()))
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) GetPurchase(ctx context.Context, id int64) (*goal.PurchaseGoal, error) {
	g, err := scanPurchase(r.db.QueryRowContext(ctx, `SELECT `+purchaseColumns+` FROM purchase_goals WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goal.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) DeletePurchase(ctx context.Context, id int64) error {
	return r.delete(ctx, `DELETE FROM purchase_goals WHERE id = $1`, id)
}

func (r *GoalRepository) ListPurchase(ctx context.Context, userID int64) ([]*goal.PurchaseGoal, error) {
	return r.listPurchase(ctx, `SELECT `+purchaseColumns+` FROM purchase_goals WHERE user_id = $1 ORDER BY price, id`, userID)
}

func (r *GoalRepository) ListPending(ctx context.Context, userID int64) ([]*goal.PurchaseGoal, error) {
	return r.listPurchase(ctx,
		`SELECT `+purchaseColumns+` FROM purchase_goals WHERE user_id = $1 AND NOT is_notified ORDER BY price, id`, userID)
}

func (r *GoalRepository) MarkNotified(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE purchase_goals SET is_notified = true, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark purchase goal notified: %w", err)
	}
	return nil
}

func (r *GoalRepository) listPurchase(ctx context.Context, query string, userID int64) ([]*goal.PurchaseGoal, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.PurchaseGoal
	for rows.Next() {
		g, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase goal: %w", err)
		}
		goals = append(goals, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase goals: %w", err)
	}
	return goals, nil
}

func (r *GoalRepository) delete(ctx context.Context, query string, id int64) error {
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return goal.ErrGoalNotFound
	}
	return nil
}
