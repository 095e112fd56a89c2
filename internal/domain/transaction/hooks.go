package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Hooks run around transaction writes. OnCreated runs after the insert,
// OnUpdated and OnDeleted run before the row changes, all three inside the
// same Transactor call as the write. Errors from these three abort the
// operation and roll the write back. CheckSpendingLimits runs after an
// expense is committed; its error is only logged.
type Hooks interface {
	OnCreated(ctx context.Context, tx *Transaction) error
	OnUpdated(ctx context.Context, tx, old *Transaction) error
	OnDeleted(ctx context.Context, tx *Transaction) error
	CheckSpendingLimits(ctx context.Context, tx *Transaction) error
}

// NoopHooks does nothing. Embed it to implement a subset of Hooks.
type NoopHooks struct{}

func (NoopHooks) OnCreated(context.Context, *Transaction) error { return nil }
func (NoopHooks) OnUpdated(context.Context, *Transaction, *Transaction) error { return nil }
func (NoopHooks) OnDeleted(context.Context, *Transaction) error { return nil }
func (NoopHooks) CheckSpendingLimits(context.Context, *Transaction) error { return nil }

// TotalAdjuster moves a user's running total and returns the new value.
type TotalAdjuster interface {
	AdjustTotal(ctx context.Context, userID int64, delta decimal.Decimal) (decimal.Decimal, error)
}

// TotalWatcher is told about the new total after every adjustment.
type TotalWatcher interface {
	CheckPurchaseGoals(ctx context.Context, userID int64, total decimal.Decimal) error
}

// UserTotals keeps users.total_amount in step with transactions: income
// adds, expense subtracts, an update applies the difference.
type UserTotals struct {
	NoopHooks
	users   TotalAdjuster
	watcher TotalWatcher
}

// NewUserTotals creates the total-keeping hooks. watcher may be nil.
func NewUserTotals(users TotalAdjuster, watcher TotalWatcher) *UserTotals {
	return &UserTotals{users: users, watcher: watcher}
}

func (h *UserTotals) OnCreated(ctx context.Context, tx *Transaction) error {
	return h.adjust(ctx, tx.UserID, tx.Signed())
}

func (h *UserTotals) OnUpdated(ctx context.Context, tx, old *Transaction) error {
	return h.adjust(ctx, tx.UserID, tx.Signed().Sub(old.Signed()))
}

func (h *UserTotals) OnDeleted(ctx context.Context, tx *Transaction) error {
	return h.adjust(ctx, tx.UserID, tx.Signed().Neg())
}

func (h *UserTotals) adjust(ctx context.Context, userID int64, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	total, err := h.users.AdjustTotal(ctx, userID, delta)
	if err != nil {
		return fmt.Errorf("failed to update user total: %w", err)
	}
	if h.watcher != nil {
		if err := h.watcher.CheckPurchaseGoals(ctx, userID, total); err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("purchase goal check failed")
		}
	}
	return nil
}

type chain []Hooks

// Chain runs hooks in order. The first error from a write hook stops the
// chain; limit checks all run and their errors are joined.
func Chain(hooks ...Hooks) Hooks {
	return chain(hooks)
}

func (c chain) OnCreated(ctx context.Context, tx *Transaction) error {
	for _, h := range c {
		if err := h.OnCreated(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

func (c chain) OnUpdated(ctx context.Context, tx, old *Transaction) error {
	for _, h := range c {
		if err := h.OnUpdated(ctx, tx, old); err != nil {
			return err
		}
	}
	return nil
}

func (c chain) OnDeleted(ctx context.Context, tx *Transaction) error {
	for _, h := range c {
		if err := h.OnDeleted(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

func (c chain) CheckSpendingLimits(ctx context.Context, tx *Transaction) error {
	var errs []error
	for _, h := range c {
		if err := h.CheckSpendingLimits(ctx, tx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
