package record

import (
	"testing"
	"time"
)

func TestTimestamps_Touch(t *testing.T) {
	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	var ts Timestamps
	if !ts.IsNew() {
		t.Fatal("IsNew() = false for zero timestamps")
	}

	ts.Touch(first)
	if !ts.CreatedAt.Equal(first) || !ts.UpdatedAt.Equal(first) {
		t.Fatalf("after first Touch got created=%v updated=%v, want both %v", ts.CreatedAt, ts.UpdatedAt, first)
	}

	ts.Touch(second)
	if !ts.CreatedAt.Equal(first) {
		t.Errorf("CreatedAt changed on second Touch: got %v, want %v", ts.CreatedAt, first)
	}
	if !ts.UpdatedAt.Equal(second) {
		t.Errorf("UpdatedAt = %v, want %v", ts.UpdatedAt, second)
	}
	if ts.IsNew() {
		t.Error("IsNew() = true after Touch")
	}
}

func TestEntryType(t *testing.T) {
	tests := []struct {
		typ   EntryType
		valid bool
		sign  int64
	}{
		{Income, true, 1},
		{Expense, true, -1},
		{"gelir", false, 1},
		{"", false, 1},
	}

	for _, tt := range tests {
		if got := tt.typ.IsValid(); got != tt.valid {
			t.Errorf("%q.IsValid() = %v, want %v", tt.typ, got, tt.valid)
		}
		if got := tt.typ.Sign(); got != tt.sign {
			t.Errorf("%q.Sign() = %d, want %d", tt.typ, got, tt.sign)
		}
	}
}
