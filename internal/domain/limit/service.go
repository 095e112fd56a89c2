package limit

import (
	"context"
	"fmt"

	"finframe/internal/domain/category"
	"finframe/internal/domain/record"
	"finframe/internal/shared/dates"
	"finframe/internal/shared/validate"
)

// CategoryGetter loads a category owned by userID.
type CategoryGetter interface {
	Get(ctx context.Context, userID, id int64) (*category.Category, error)
}

type Service struct {
	repo       Repository
	categories CategoryGetter
	spending   SpendingSource
	now        record.Clock
}

func NewService(repo Repository, categories CategoryGetter, spending SpendingSource) *Service {
	return &Service{repo: repo, categories: categories, spending: spending, now: record.Now}
}

// Get loads a limit and verifies user ownership
func (s *Service) Get(ctx context.Context, userID, id int64) (*SpendingLimit, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, ErrForbidden
	}
	return l, nil
}

// Save creates a limit when id is nil and updates it otherwise. The limit
// always belongs to userID.
func (s *Service) Save(ctx context.Context, userID int64, id *int64, params SaveParams) (*SpendingLimit, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, userID, params.CategoryID); err != nil {
		return nil, err
	}
	if params.StartDate.IsZero() {
		params.StartDate = s.now()
	}
	params.StartDate = dates.Day(params.StartDate)

	if id == nil {
		err := validate.MaxInstances(ctx, MaxPerUser, func(ctx context.Context) (int, error) {
			limits, err := s.repo.ListByUserID(ctx, userID)
			return len(limits), err
		})
		if err != nil {
			return nil, err
		}
		return s.repo.Create(ctx, userID, params)
	}
	if _, err := s.Get(ctx, userID, *id); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, *id, params)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// List returns the user's limits with their spending in the current window.
func (s *Service) List(ctx context.Context, userID int64) ([]Status, error) {
	limits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.statuses(ctx, limits)
}

// ForCategory returns the status of every limit the user set on categoryID.
func (s *Service) ForCategory(ctx context.Context, userID, categoryID int64) ([]Status, error) {
	limits, err := s.repo.ListByCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	return s.statuses(ctx, limits)
}

func (s *Service) statuses(ctx context.Context, limits []*SpendingLimit) ([]Status, error) {
	now := s.now()
	out := make([]Status, 0, len(limits))
	for _, l := range limits {
		spent, err := l.CurrentSpending(ctx, s.spending, now)
		if err != nil {
			return nil, fmt.Errorf("failed to compute spending for limit %d: %w", l.ID, err)
		}
		out = append(out, newStatus(l, spent, now))
	}
	return out, nil
}

func (s *Service) checkCategory(ctx context.Context, userID, categoryID int64) error {
	c, err := s.categories.Get(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if c.Type != record.Expense {
		return validate.Field("categoryId", "spending limits apply to expense categories")
	}
	return nil
}
