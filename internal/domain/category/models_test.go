package category

import (
	"strings"
	"testing"

	"finframe/internal/domain/record"
	"finframe/internal/shared/validate"
)

func TestCreateParams_Validate(t *testing.T) {
	tests := []struct {
		name      string
		params    CreateParams
		wantField string
	}{
		{"valid", CreateParams{Name: "Groceries", Type: record.Expense, Icon: "cart", Color: "#FF0000"}, ""},
		{"valid without icon and color", CreateParams{Name: "Salary", Type: record.Income}, ""},
		{"turkish name counts runes", CreateParams{Name: strings.Repeat("ş", 100), Type: record.Expense}, ""},
		{"missing name", CreateParams{Type: record.Expense}, "name"},
		{"name too long", CreateParams{Name: strings.Repeat("a", 101), Type: record.Expense}, "name"},
		{"invalid type", CreateParams{Name: "Rent", Type: "gider"}, "type"},
		{"icon too long", CreateParams{Name: "Rent", Type: record.Expense, Icon: strings.Repeat("i", 51)}, "icon"},
		{"color too long", CreateParams{Name: "Rent", Type: record.Expense, Color: "#FF00FF00FF00F"}, "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			verr, ok := validate.As(err)
			if !ok {
				t.Fatalf("Validate() error = %v, want *validate.Error", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("Validate() fields = %v, want %q", verr.Fields, tt.wantField)
			}
		})
	}
}

func TestUpdateParams_Validate(t *testing.T) {
	empty := ""
	long := strings.Repeat("a", 101)
	ok := "Food"

	if err := (&UpdateParams{}).Validate(); err != nil {
		t.Errorf("empty update should be valid: %v", err)
	}
	if err := (&UpdateParams{Name: &ok}).Validate(); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if err := (&UpdateParams{Name: &empty}).Validate(); err == nil {
		t.Error("empty name accepted")
	}
	if err := (&UpdateParams{Name: &long}).Validate(); err == nil {
		t.Error("long name accepted")
	}
}
