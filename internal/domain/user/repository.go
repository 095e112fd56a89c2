package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for user data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*User, error)
	// AdjustTotal adds delta to total_amount atomically and returns the new total.
	AdjustTotal(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error)
	SetAttribute(ctx context.Context, id int64, name string, value bool) error
	// CompleteFinancialInfo stores the starting total and sets
	// financial_info_completed in one statement.
	CompleteFinancialInfo(ctx context.Context, id int64, total decimal.Decimal) (*User, error)

	CreateResetToken(ctx context.Context, userID int64, token uuid.UUID) error
	// ResetPassword spends an unused token issued after issuedAfter and
	// stores hash for its user, atomically. It returns the user id, or
	// ErrInvalidResetToken when no such token exists.
	ResetPassword(ctx context.Context, token uuid.UUID, issuedAfter time.Time, hash string) (int64, error)
}
