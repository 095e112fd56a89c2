package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"finframe/internal/domain/category"
	"finframe/internal/domain/record"
	"finframe/internal/shared/dates"
	"finframe/internal/shared/validate"
)

// CategoryResolver turns the category part of a form into a category.
type CategoryResolver interface {
	Resolve(ctx context.Context, userID int64, typ record.EntryType, id *int64, newName string) (*category.Category, bool, error)
}

// Transactor runs fn atomically: repository calls made with the context fn
// receives commit or roll back together. *postgres.DB implements it.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// direct runs fn without a transaction.
type direct struct{}

func (direct) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service contains the business logic for transaction operations
type Service struct {
	repo       Repository
	categories CategoryResolver
	hooks      Hooks
	tx         Transactor
	now        record.Clock
}

// NewService creates a new transaction service. hooks may be nil.
func NewService(repo Repository, categories CategoryResolver, hooks Hooks) *Service {
	if hooks == nil {
		hooks = NoopHooks{}
	}
	return &Service{repo: repo, categories: categories, hooks: hooks, tx: direct{}, now: record.Now}
}

// SetTransactor makes each row write and its write hooks one unit.
func (s *Service) SetTransactor(t Transactor) {
	s.tx = t
}

// Get retrieves a transaction and verifies user ownership
func (s *Service) Get(ctx context.Context, userID, id int64) (*Transaction, error) {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, ErrForbidden
	}
	return tx, nil
}

// List returns one page of the user's transactions and the total count.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Transaction, int64, error) {
	if filter.UserID <= 0 {
		return nil, 0, errors.New("valid user ID is required")
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, 0, validate.Field("type", "type must be income or expense")
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create saves a new transaction, then updates the user's total and checks
// spending limits for expenses.
func (s *Service) Create(ctx context.Context, userID int64, in Input) (*Transaction, error) {
	params, err := s.prepare(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	var tx *Transaction
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		created, err := s.repo.Create(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		if err := s.hooks.OnCreated(ctx, created); err != nil {
			return err
		}
		tx = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.checkLimits(ctx, tx)

	log.Debug().Int64("user_id", userID).Int64("transaction_id", tx.ID).Str("type", string(tx.Type)).Msg("transaction created")
	return tx, nil
}

// Update replaces a transaction with the form values. The hooks see the new
// values before the row is written. Expenses are checked against spending
// limits after commit, as on create.
func (s *Service) Update(ctx context.Context, userID, id int64, in Input) (*Transaction, error) {
	old, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	params, err := s.prepare(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	next := *old
	next.CategoryID = params.CategoryID
	next.Type = params.Type
	next.Amount = params.Amount
	next.Description = params.Description
	next.Date = params.Date
	next.IsRegular = params.IsRegular

	var tx *Transaction
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.hooks.OnUpdated(ctx, &next, old); err != nil {
			return err
		}
		updated, err := s.repo.Update(ctx, id, params)
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		tx = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.checkLimits(ctx, tx)
	return tx, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	tx, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.hooks.OnDeleted(ctx, tx); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *Service) prepare(ctx context.Context, userID int64, in Input) (SaveParams, error) {
	if err := in.Validate(); err != nil {
		return SaveParams{}, err
	}

	cat, ok, err := s.categories.Resolve(ctx, userID, in.Type, in.CategoryID, in.NewCategory)
	if err != nil {
		return SaveParams{}, err
	}
	if !ok {
		return SaveParams{}, validate.New(MsgCategoryRequired)
	}

	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	return SaveParams{
		UserID:      userID,
		CategoryID:  cat.ID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        dates.Day(date),
		IsRegular:   in.IsRegular,
	}, nil
}

func (s *Service) checkLimits(ctx context.Context, tx *Transaction) {
	if tx.Type != record.Expense {
		return
	}
	if err := s.hooks.CheckSpendingLimits(ctx, tx); err != nil {
		log.Warn().Err(err).Int64("transaction_id", tx.ID).Msg("spending limit check failed")
	}
}
