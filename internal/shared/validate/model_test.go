package validate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPriceRange(t *testing.T) {
	lo := decimal.NewFromInt(10)
	hi := decimal.NewFromInt(100)
	check := PriceRange(&lo, &hi)

	tests := []struct {
		value   int64
		wantErr string
	}{
		{10, ""},
		{100, ""},
		{9, "price must be at least 10"},
		{101, "price must be at most 100"},
	}
	for _, tt := range tests {
		assertValidation(t, check(decimal.NewFromInt(tt.value)), tt.wantErr)
	}

	open := PriceRange(nil, nil)
	if err := open(decimal.NewFromInt(-1)); err != nil {
		t.Errorf("open range rejected value: %v", err)
	}
}

func TestDateOrder(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	if err := DateOrder("start_date", "end_date", day, day, true); err != nil {
		t.Errorf("equal dates rejected with equalAllowed: %v", err)
	}
	if err := DateOrder("start_date", "end_date", day, next, false); err != nil {
		t.Errorf("ordered dates rejected: %v", err)
	}
	if err := DateOrder("start_date", "end_date", time.Time{}, day, false); err != nil {
		t.Errorf("zero start should skip the check: %v", err)
	}

	err := DateOrder("start_date", "end_date", day, day, false)
	verr, ok := As(err)
	if !ok {
		t.Fatalf("equal dates without equalAllowed: err = %v", err)
	}
	if verr.Fields["end_date"] == "" {
		t.Errorf("error not attached to end field: %+v", verr.Fields)
	}

	if _, ok := As(DateOrder("start_date", "end_date", next, day, true)); !ok {
		t.Error("reversed dates accepted")
	}
}

func TestUniqueField(t *testing.T) {
	ctx := context.Background()

	err := UniqueField(ctx, "email", func(context.Context) (bool, error) { return true, nil })
	verr, ok := As(err)
	if !ok || verr.Fields["email"] == "" {
		t.Errorf("duplicate not reported on field: %v", err)
	}

	if err := UniqueField(ctx, "email", func(context.Context) (bool, error) { return false, nil }); err != nil {
		t.Errorf("unique value rejected: %v", err)
	}

	dbErr := errors.New("connection reset")
	err = UniqueField(ctx, "email", func(context.Context) (bool, error) { return false, dbErr })
	if !errors.Is(err, dbErr) {
		t.Errorf("lookup error not wrapped: %v", err)
	}
	if _, ok := As(err); ok {
		t.Error("lookup error reported as validation error")
	}
}

func TestMaxInstances(t *testing.T) {
	ctx := context.Background()
	count := func(n int) CountFunc {
		return func(context.Context) (int, error) { return n, nil }
	}

	if err := MaxInstances(ctx, 3, count(2)); err != nil {
		t.Errorf("below limit rejected: %v", err)
	}
	assertValidation(t, MaxInstances(ctx, 3, count(3)), "you can create at most 3 records")
}

func TestError_Message(t *testing.T) {
	e := &Error{Fields: map[string]string{"name": "required", "amount": "must be positive"}}
	if got, want := e.Error(), "amount: must be positive; name: required"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := Field("name", "required").Error(); got != "required" {
		t.Errorf("Field().Error() = %q", got)
	}
}
