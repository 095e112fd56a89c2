package goal

import (
	"context"

	"github.com/shopspring/decimal"
)

type SavingRepository interface {
	CreateSaving(ctx context.Context, userID int64, params SavingGoalParams) (*SavingGoal, error)
	GetSaving(ctx context.Context, id int64) (*SavingGoal, error)
	UpdateSaving(ctx context.Context, id int64, params SavingGoalParams) (*SavingGoal, error)
	DeleteSaving(ctx context.Context, id int64) error
	ListSaving(ctx context.Context, userID int64) ([]*SavingGoal, error)
	// AddToSaving increments current_amount in place and returns the row.
	AddToSaving(ctx context.Context, id int64, amount decimal.Decimal) (*SavingGoal, error)
}

type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, userID int64, params PurchaseGoalParams) (*PurchaseGoal, error)
	GetPurchase(ctx context.Context, id int64) (*PurchaseGoal, error)
	DeletePurchase(ctx context.Context, id int64) error
	ListPurchase(ctx context.Context, userID int64) ([]*PurchaseGoal, error)
	// ListPending returns goals the user has not been notified about yet.
	ListPending(ctx context.Context, userID int64) ([]*PurchaseGoal, error)
	MarkNotified(ctx context.Context, id int64) error
}
