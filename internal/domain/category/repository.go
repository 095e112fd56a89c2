package category

import (
	"context"

	"finframe/internal/domain/record"
)

type Repository interface {
	Create(ctx context.Context, userID int64, params CreateParams) (*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	// ListByUserID filters by type unless typ is empty.
	ListByUserID(ctx context.Context, userID int64, typ record.EntryType) ([]*Category, error)
	// GetOrCreate matches on user, name and type.
	GetOrCreate(ctx context.Context, userID int64, params CreateParams) (*Category, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*Category, error)
	Delete(ctx context.Context, id int64) error
}
