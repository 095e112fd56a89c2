package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finframe/internal/domain/record"
	"finframe/internal/domain/transaction"
	"finframe/internal/shared/dates"
)

type mockSource struct {
	TotalsFunc         func(ctx context.Context, userID int64, from, to time.Time) (decimal.Decimal, decimal.Decimal, error)
	SumsByCategoryFunc func(ctx context.Context, userID int64, typ record.EntryType, from, to time.Time) ([]transaction.CategorySum, error)
}

func (m *mockSource) Totals(ctx context.Context, userID int64, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	return m.TotalsFunc(ctx, userID, from, to)
}

func (m *mockSource) SumsByCategory(ctx context.Context, userID int64, typ record.EntryType, from, to time.Time) ([]transaction.CategorySum, error) {
	return m.SumsByCategoryFunc(ctx, userID, typ, from, to)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixedTotals(income, expense string) *mockSource {
	return &mockSource{
		TotalsFunc: func(ctx context.Context, userID int64, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
			return d(income), d(expense), nil
		},
	}
}

func TestSummaryByPeriod(t *testing.T) {
	ref := time.Date(2024, 8, 21, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		income   string
		expense  string
		wantNet  string
		wantRate string
	}{
		{"saving", "10000", "7500", "2500", "25"},
		{"overspending", "1000", "1500", "-500", "-50"},
		{"no income", "0", "300", "-300", "0"},
		{"rounded rate", "3000", "2000", "1000", "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(fixedTotals(tt.income, tt.expense))
			s, err := a.SummaryByPeriod(context.Background(), 1, dates.Monthly, ref)
			if err != nil {
				t.Fatal(err)
			}
			if !s.NetSavings.Equal(d(tt.wantNet)) {
				t.Errorf("NetSavings = %s, want %s", s.NetSavings, tt.wantNet)
			}
			if !s.SavingsRate.Equal(d(tt.wantRate)) {
				t.Errorf("SavingsRate = %s, want %s", s.SavingsRate, tt.wantRate)
			}
		})
	}
}

func TestSummaryByPeriod_Window(t *testing.T) {
	var gotFrom, gotTo time.Time
	src := &mockSource{
		TotalsFunc: func(ctx context.Context, userID int64, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
			gotFrom, gotTo = from, to
			return decimal.Zero, decimal.Zero, nil
		},
	}
	ref := time.Date(2024, 8, 21, 0, 0, 0, 0, time.UTC)

	s, err := NewAnalyzer(src).SummaryByPeriod(context.Background(), 1, "fortnight", ref)
	if err != nil {
		t.Fatal(err)
	}
	if s.Period != dates.Monthly {
		t.Errorf("unknown period should fall back to monthly, got %q", s.Period)
	}
	if gotFrom.Day() != 1 || gotTo.Day() != 31 {
		t.Errorf("window = %v..%v", gotFrom, gotTo)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	src := &mockSource{
		SumsByCategoryFunc: func(ctx context.Context, userID int64, typ record.EntryType, from, to time.Time) ([]transaction.CategorySum, error) {
			return []transaction.CategorySum{
				{CategoryID: 1, Name: "Rent", Amount: d("600")},
				{CategoryID: 2, Name: "Unused", Amount: d("0")},
				{CategoryID: 3, Name: "Groceries", Amount: d("900"), Icon: "cart"},
				{CategoryID: 4, Name: "Fun", Amount: d("0.00")},
			}, nil
		},
	}

	b, err := NewAnalyzer(src).CategoryBreakdown(context.Background(), 1, record.Expense, dates.Monthly, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !b.Total.Equal(d("1500")) {
		t.Errorf("Total = %s, want 1500", b.Total)
	}
	if len(b.Categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(b.Categories))
	}
	if b.Categories[0].Name != "Groceries" || !b.Categories[0].Percentage.Equal(d("60")) || b.Categories[0].Icon != "cart" {
		t.Errorf("first share = %+v", b.Categories[0])
	}
	if !b.Categories[1].Percentage.Equal(d("40")) {
		t.Errorf("second share = %+v", b.Categories[1])
	}

	if _, err := NewAnalyzer(src).CategoryBreakdown(context.Background(), 1, "both", dates.Monthly, time.Now()); err == nil {
		t.Error("expected error for invalid type")
	}
}

func TestTrendsByMonth(t *testing.T) {
	src := &mockSource{
		TotalsFunc: func(ctx context.Context, userID int64, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
			// income equals the month number, expense is constant
			return decimal.NewFromInt(int64(from.Month()) * 100), d("50"), nil
		},
	}
	now := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	tr, err := NewAnalyzer(src).TrendsByMonth(context.Background(), 1, 3, now)
	if err != nil {
		t.Fatal(err)
	}

	wantLabels := []string{"2023-12", "2024-01", "2024-02"}
	if len(tr.Labels) != len(wantLabels) {
		t.Fatalf("labels = %v", tr.Labels)
	}
	for i, l := range wantLabels {
		if tr.Labels[i] != l {
			t.Errorf("labels[%d] = %s, want %s", i, tr.Labels[i], l)
		}
	}
	if !tr.Nets[0].Equal(d("1150")) || !tr.Incomes[2].Equal(d("200")) {
		t.Errorf("nets = %v, incomes = %v", tr.Nets, tr.Incomes)
	}
	if len(tr.Months) != 3 || len(tr.Expenses) != 3 {
		t.Errorf("months = %d, expenses = %d", len(tr.Months), len(tr.Expenses))
	}
}

func TestTrendsByMonth_Error(t *testing.T) {
	src := &mockSource{
		TotalsFunc: func(ctx context.Context, userID int64, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
			return decimal.Zero, decimal.Zero, errors.New("db down")
		},
	}
	if _, err := NewAnalyzer(src).TrendsByMonth(context.Background(), 1, 0, time.Now()); err == nil {
		t.Error("expected error")
	}
}
