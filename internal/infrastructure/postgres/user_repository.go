package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"finframe/internal/domain/user"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, password_hash, is_staff, permissions, attributes, total_amount, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	var attrs []byte
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsStaff,
		pq.Array(&u.Permissions), &attrs, &u.TotalAmount, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Attributes = map[string]bool{}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &u.Attributes); err != nil {
			return nil, fmt.Errorf("failed to decode user attributes: %w", err)
		}
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	query := `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, params.Email, params.Username, params.PasswordHash))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("email %s is already registered: %w", params.Email, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, params user.UpdateParams) (*user.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($1, username),
		    updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, params.Username, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// AdjustTotal applies delta in a single statement so concurrent
// transactions never lose an update.
func (r *UserRepository) AdjustTotal(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`UPDATE users SET total_amount = total_amount + $1, updated_at = NOW() WHERE id = $2 RETURNING total_amount`,
		delta, id,
	).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, user.ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to adjust user total: %w", err)
	}
	return total, nil
}

func (r *UserRepository) SetAttribute(ctx context.Context, id int64, name string, value bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET attributes = jsonb_set(attributes, ARRAY[$1::text], to_jsonb($2::boolean)), updated_at = NOW() WHERE id = $3`,
		name, value, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set user attribute: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CompleteFinancialInfo(ctx context.Context, id int64, total decimal.Decimal) (*user.User, error) {
	query := `
		UPDATE users
		SET total_amount = $1,
		    attributes = jsonb_set(attributes, ARRAY[$2::text], 'true'::jsonb),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, total, user.AttrFinancialInfoCompleted, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save financial info: %w", err)
	}
	return u, nil
}

func (r *UserRepository) CreateResetToken(ctx context.Context, userID int64, token uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (token, user_id) VALUES ($1, $2)`,
		token, userID,
	)
	if isForeignKeyViolation(err) {
		return user.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// ResetPassword marks the token used and updates the hash in one statement,
// so a token can never be spent twice.
func (r *UserRepository) ResetPassword(ctx context.Context, token uuid.UUID, issuedAfter time.Time, hash string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		WITH spent AS (
			UPDATE password_reset_tokens
			SET is_used = true
			WHERE token = $1 AND NOT is_used AND created_at > $2
			RETURNING user_id
		)
		UPDATE users SET password_hash = $3, updated_at = NOW()
		FROM spent
		WHERE users.id = spent.user_id
		RETURNING users.id
	`, token, issuedAfter, hash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, user.ErrInvalidResetToken
	}
	if err != nil {
		return 0, fmt.Errorf("failed to reset password: %w", err)
	}
	return id, nil
}
