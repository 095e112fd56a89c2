package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finframe/internal/domain/record"
	"finframe/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionSelect = `
	SELECT t.id, t.user_id, t.category_id, c.name, t.type, t.amount, t.description,
	       t.date, t.is_regular, t.created_at, t.updated_at
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
`

func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var t transaction.Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.CategoryID, &t.CategoryName, &t.Type, &t.Amount, &t.Description,
		&t.Date, &t.IsRegular, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, params transaction.SaveParams) (*transaction.Transaction, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, category_id, type, amount, description, date, is_regular)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		params.UserID, params.CategoryID, params.Type, params.Amount,
		params.Description, params.Date, params.IsRegular,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) Update(ctx context.Context, id int64, params transaction.SaveParams) (*transaction.Transaction, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = $1, type = $2, amount = $3, description = $4,
		    date = $5, is_regular = $6, updated_at = NOW()
		WHERE id = $7
	`,
		params.CategoryID, params.Type, params.Amount, params.Description,
		params.Date, params.IsRegular, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, transaction.ErrTransactionNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return transaction.ErrTransactionNotFound
	}
	return nil
}

// filterClause renders the WHERE clause shared by List and Count.
func filterClause(f transaction.Filter) (string, []any) {
	conds := []string{"t.user_id = $1"}
	args := []any{f.UserID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Type != "" {
		add("t.type = $%d", f.Type)
	}
	if f.CategoryID != nil {
		add("t.category_id = $%d", *f.CategoryID)
	}
	if !f.From.IsZero() {
		add("t.date >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("t.date <= $%d", f.To)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *TransactionRepository) List(ctx context.Context, f transaction.Filter) ([]*transaction.Transaction, error) {
	where, args := filterClause(f)
	query := transactionSelect + where + ` ORDER BY t.date DESC, t.id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) Count(ctx context.Context, f transaction.Filter) (int64, error) {
	where, args := filterClause(f)

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions t`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *TransactionRepository) SumExpenses(ctx context.Context, userID, categoryID int64, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND type = $3
		  AND date >= $4 AND date <= $5
	`, userID, categoryID, record.Expense, from, to).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return sum, nil
}

func (r *TransactionRepository) Totals(ctx context.Context, userID int64, from, to time.Time) (income, expense decimal.Decimal, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = $2 THEN amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN type = $3 THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= $4 AND date <= $5
	`, userID, record.Income, record.Expense, from, to).Scan(&income, &expense)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to total transactions: %w", err)
	}
	return income, expense, nil
}

// SumsByCategory returns one row per category of typ, zero sums included.
func (r *TransactionRepository) SumsByCategory(ctx context.Context, userID int64, typ record.EntryType, from, to time.Time) ([]transaction.CategorySum, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.icon, c.color, COALESCE(SUM(t.amount), 0)
		FROM categories c
		LEFT JOIN transactions t
		       ON t.category_id = c.id AND t.date >= $3 AND t.date <= $4
		WHERE c.user_id = $1 AND c.type = $2
		GROUP BY c.id, c.name, c.icon, c.color
		ORDER BY c.name
	`, userID, typ, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum by category: %w", err)
	}
	defer rows.Close()

	var sums []transaction.CategorySum
	for rows.Next() {
		var s transaction.CategorySum
		if err := rows.Scan(&s.CategoryID, &s.Name, &s.Icon, &s.Color, &s.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan category sum: %w", err)
		}
		sums = append(sums, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category sums: %w", err)
	}
	return sums, nil
}
