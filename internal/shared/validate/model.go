package validate

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PriceRange returns a validator bounding a price. A nil bound is open.
func PriceRange(lo, hi *decimal.Decimal) func(decimal.Decimal) error {
	return func(v decimal.Decimal) error {
		if lo != nil && v.LessThan(*lo) {
			return New(fmt.Sprintf("price must be at least %s", lo.String()))
		}
		if hi != nil && v.GreaterThan(*hi) {
			return New(fmt.Sprintf("price must be at most %s", hi.String()))
		}
		return nil
	}
}

// DateOrder checks that end does not come before start. With equalAllowed
// false the two may not be equal either. Zero dates are not checked.
func DateOrder(startField, endField string, start, end time.Time, equalAllowed bool) error {
	if start.IsZero() || end.IsZero() {
		return nil
	}
	if equalAllowed && start.After(end) {
		return Field(endField, "end date cannot be before "+startField)
	}
	if !equalAllowed && !start.Before(end) {
		return Field(endField, "end date must be after "+startField)
	}
	return nil
}

// ExistsFunc reports whether another record already holds a value. The
// implementation decides which columns form the key and which record to
// exclude when updating.
type ExistsFunc func(ctx context.Context) (bool, error)

// UniqueField fails when exists finds a conflicting record.
func UniqueField(ctx context.Context, field string, exists ExistsFunc) error {
	found, err := exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check uniqueness of %s: %w", field, err)
	}
	if found {
		return Field(field, "this value is already in use")
	}
	return nil
}

// CountFunc counts existing records, excluding the one being updated.
type CountFunc func(ctx context.Context) (int, error)

// MaxInstances fails when count already reached limit.
func MaxInstances(ctx context.Context, limit int, count CountFunc) error {
	n, err := count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}
	if n >= limit {
		return New(fmt.Sprintf("you can create at most %d records", limit))
	}
	return nil
}
