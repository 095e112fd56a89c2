// Package analytics summarizes a user's transactions over calendar periods.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finframe/internal/domain/record"
	"finframe/internal/domain/transaction"
	"finframe/internal/shared/dates"
	"finframe/internal/shared/money"
)

// Source is the slice of the transaction repository the analyzer reads.
type Source interface {
	Totals(ctx context.Context, userID int64, from, to time.Time) (income, expense decimal.Decimal, err error)
	SumsByCategory(ctx context.Context, userID int64, typ record.EntryType, from, to time.Time) ([]transaction.CategorySum, error)
}

type Summary struct {
	Period      dates.Period    `json:"period"`
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	NetSavings  decimal.Decimal `json:"netSavings"`
	SavingsRate decimal.Decimal `json:"savingsRate"`
}

type CategoryShare struct {
	CategoryID int64           `json:"categoryId"`
	Name       string          `json:"name"`
	Icon       string          `json:"icon"`
	Color      string          `json:"color"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

type Breakdown struct {
	Type       record.EntryType `json:"type"`
	From       time.Time        `json:"from"`
	To         time.Time        `json:"to"`
	Total      decimal.Decimal  `json:"total"`
	Categories []CategoryShare  `json:"categories"`
}

type Month struct {
	Month   string          `json:"month"`
	Start   time.Time       `json:"start"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// Trends holds one entry per month, oldest first, plus the same numbers as
// parallel series for charting.
type Trends struct {
	Months   []Month           `json:"months"`
	Labels   []string          `json:"labels"`
	Incomes  []decimal.Decimal `json:"incomes"`
	Expenses []decimal.Decimal `json:"expenses"`
	Nets     []decimal.Decimal `json:"nets"`
}

type Analyzer struct {
	src Source
}

func NewAnalyzer(src Source) *Analyzer {
	return &Analyzer{src: src}
}

// SummaryByPeriod totals income and expense in the period window holding ref.
func (a *Analyzer) SummaryByPeriod(ctx context.Context, userID int64, period dates.Period, ref time.Time) (*Summary, error) {
	if !period.IsValid() {
		period = dates.Monthly
	}
	from, to := dates.Range(period, ref)

	income, expense, err := a.src.Totals(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load totals: %w", err)
	}

	net := income.Sub(expense)
	rate := decimal.Zero
	if income.IsPositive() {
		rate = net.Div(income).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return &Summary{
		Period:      period,
		From:        from,
		To:          to,
		Income:      income,
		Expense:     expense,
		NetSavings:  net,
		SavingsRate: rate,
	}, nil
}

// CategoryBreakdown splits the period's total of typ by category. Empty
// categories are left out; the rest are sorted by amount, largest first.
func (a *Analyzer) CategoryBreakdown(ctx context.Context, userID int64, typ record.EntryType, period dates.Period, ref time.Time) (*Breakdown, error) {
	if !typ.IsValid() {
		return nil, fmt.Errorf("invalid entry type %q", typ)
	}
	from, to := dates.Range(period, ref)

	sums, err := a.src.SumsByCategory(ctx, userID, typ, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load category sums: %w", err)
	}

	total := decimal.Zero
	for _, s := range sums {
		total = total.Add(s.Amount)
	}

	shares := make([]CategoryShare, 0, len(sums))
	for _, s := range sums {
		if !s.Amount.IsPositive() {
			continue
		}
		shares = append(shares, CategoryShare{
			CategoryID: s.CategoryID,
			Name:       s.Name,
			Icon:       s.Icon,
			Color:      s.Color,
			Amount:     s.Amount,
			Percentage: money.Percentage(s.Amount, total).Round(2),
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount.GreaterThan(shares[j].Amount)
	})

	return &Breakdown{Type: typ, From: from, To: to, Total: total, Categories: shares}, nil
}

// TrendsByMonth returns the last months calendar months ending with the
// month of now.
func (a *Analyzer) TrendsByMonth(ctx context.Context, userID int64, months int, now time.Time) (*Trends, error) {
	if months <= 0 {
		months = 6
	}

	tr := &Trends{}
	for _, start := range dates.MonthsBack(now, months) {
		from, to := dates.Range(dates.Monthly, start)
		income, expense, err := a.src.Totals(ctx, userID, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to load totals for %s: %w", start.Format("2006-01"), err)
		}

		m := Month{
			Month:   start.Format("2006-01"),
			Start:   from,
			Income:  income,
			Expense: expense,
			Net:     income.Sub(expense),
		}
		tr.Months = append(tr.Months, m)
		tr.Labels = append(tr.Labels, m.Month)
		tr.Incomes = append(tr.Incomes, m.Income)
		tr.Expenses = append(tr.Expenses, m.Expense)
		tr.Nets = append(tr.Nets, m.Net)
	}
	return tr, nil
}
