package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finframe/internal/domain/record"
)

// Repository defines the interface for transaction data access.
// Date bounds are inclusive days.
type Repository interface {
	Create(ctx context.Context, params SaveParams) (*Transaction, error)
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	Update(ctx context.Context, id int64, params SaveParams) (*Transaction, error)
	Delete(ctx context.Context, id int64) error
	// List returns transactions newest first.
	List(ctx context.Context, filter Filter) ([]*Transaction, error)
	Count(ctx context.Context, filter Filter) (int64, error)

	SumExpenses(ctx context.Context, userID, categoryID int64, from, to time.Time) (decimal.Decimal, error)
	Totals(ctx context.Context, userID int64, from, to time.Time) (income, expense decimal.Decimal, err error)
	SumsByCategory(ctx context.Context, userID int64, typ record.EntryType, from, to time.Time) ([]CategorySum, error)
}
