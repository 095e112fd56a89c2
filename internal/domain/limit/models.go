package limit

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"finframe/internal/domain/record"
	"finframe/internal/shared/dates"
	"finframe/internal/shared/money"
	"finframe/internal/shared/validate"
)

// MaxPerUser caps how many spending limits one user may keep.
const MaxPerUser = 50

var (
	ErrLimitNotFound = errors.New("spending limit not found")
	ErrForbidden     = errors.New("forbidden: spending limit does not belong to user")
)

type SpendingLimit struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"-"`
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
	Period       dates.Period    `json:"period"`
	StartDate    time.Time       `json:"startDate"`
	record.Timestamps
}

// SpendingSource sums a user's expenses in one category over an inclusive
// day range.
type SpendingSource interface {
	SumExpenses(ctx context.Context, userID, categoryID int64, from, to time.Time) (decimal.Decimal, error)
}

// Window returns the period window containing now.
func (l *SpendingLimit) Window(now time.Time) (time.Time, time.Time) {
	return dates.Range(l.Period, now)
}

// CurrentSpending sums the category's expenses in the window containing now.
func (l *SpendingLimit) CurrentSpending(ctx context.Context, src SpendingSource, now time.Time) (decimal.Decimal, error) {
	from, to := l.Window(now)
	return src.SumExpenses(ctx, l.UserID, l.CategoryID, from, to)
}

// IsExceeded reports whether spent is strictly over the limit.
func (l *SpendingLimit) IsExceeded(spent decimal.Decimal) bool {
	return spent.GreaterThan(l.Amount)
}

// Status is a limit with its spending in the current window.
type Status struct {
	*SpendingLimit
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
	Exceeded   bool            `json:"exceeded"`
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
}

func newStatus(l *SpendingLimit, spent decimal.Decimal, now time.Time) Status {
	from, to := l.Window(now)
	remaining := l.Amount.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return Status{
		SpendingLimit: l,
		Spent:         spent,
		Remaining:     remaining,
		Percentage:    money.Percentage(spent, l.Amount).Round(2),
		Exceeded:      l.IsExceeded(spent),
		From:          from,
		To:            to,
	}
}

type SaveParams struct {
	CategoryID int64           `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Period     dates.Period    `json:"period"`
	StartDate  time.Time       `json:"startDate"`
}

func (p *SaveParams) Validate() error {
	if p.CategoryID <= 0 {
		return validate.Field("categoryId", "category is required")
	}
	if !p.Amount.IsPositive() {
		return validate.Field("amount", "amount must be greater than zero")
	}
	if err := validate.Amount("amount", p.Amount); err != nil {
		return err
	}
	switch p.Period {
	case dates.Daily, dates.Weekly, dates.Monthly:
	default:
		return validate.Field("period", "period must be daily, weekly or monthly")
	}
	return nil
}
