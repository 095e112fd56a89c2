package limit

import "context"

type Repository interface {
	Create(ctx context.Context, userID int64, params SaveParams) (*SpendingLimit, error)
	GetByID(ctx context.Context, id int64) (*SpendingLimit, error)
	Update(ctx context.Context, id int64, params SaveParams) (*SpendingLimit, error)
	Delete(ctx context.Context, id int64) error
	ListByUserID(ctx context.Context, userID int64) ([]*SpendingLimit, error)
	ListByCategory(ctx context.Context, userID, categoryID int64) ([]*SpendingLimit, error)
}
