package goal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSavingGoal_Progress(t *testing.T) {
	tests := []struct {
		target, current string
		want            string
		reached         bool
	}{
		{"1000", "250", "25", false},
		{"3", "1", "33.33", false},
		{"0", "50", "0", false},
		{"100", "120", "120", true},
	}

	for _, tt := range tests {
		g := &SavingGoal{TargetAmount: d(tt.target), CurrentAmount: d(tt.current)}
		if got := g.ProgressPercentage(); !got.Equal(d(tt.want)) {
			t.Errorf("ProgressPercentage(%s/%s) = %s, want %s", tt.current, tt.target, got, tt.want)
		}
		if g.IsReached() != tt.reached {
			t.Errorf("IsReached(%s/%s) = %v", tt.current, tt.target, g.IsReached())
		}
	}

	g := &SavingGoal{TargetAmount: d("100"), CurrentAmount: d("150")}
	if !g.Remaining().IsZero() {
		t.Errorf("Remaining() = %s, want 0", g.Remaining())
	}
}

func TestSavingGoalParams_Validate(t *testing.T) {
	today := time.Date(2024, 4, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		params  SavingGoalParams
		wantErr bool
	}{
		{"valid", SavingGoalParams{Name: "Car", TargetAmount: d("50000"), TargetDate: today.AddDate(1, 0, 0)}, false},
		{"today is allowed", SavingGoalParams{Name: "Car", TargetAmount: d("1"), TargetDate: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)}, false},
		{"past date", SavingGoalParams{Name: "Car", TargetAmount: d("1"), TargetDate: today.AddDate(0, 0, -1)}, true},
		{"missing date", SavingGoalParams{Name: "Car", TargetAmount: d("1")}, true},
		{"zero target", SavingGoalParams{Name: "Car", TargetDate: today}, true},
		{"missing name", SavingGoalParams{TargetAmount: d("1"), TargetDate: today}, true},
		{"three decimals", SavingGoalParams{Name: "Car", TargetAmount: d("10.005"), TargetDate: today}, true},
		{"too large", SavingGoalParams{Name: "Car", TargetAmount: d("1e13"), TargetDate: today}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate(today)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPurchaseGoal_CanPurchase(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		trigger string
		total   string
		want    bool
	}{
		{"exactly at trigger", "500", "5", "10000", true},
		{"below trigger", "100", "5", "10000", true},
		{"above trigger", "501", "5", "10000", false},
		{"zero total", "1", "5", "0", false},
		{"negative total", "1", "5", "-100", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &PurchaseGoal{Price: d(tt.price), TriggerPercentage: d(tt.trigger)}
			if got := g.CanPurchase(d(tt.total)); got != tt.want {
				t.Errorf("CanPurchase(%s) = %v, want %v", tt.total, got, tt.want)
			}
		})
	}
}

func TestPurchaseGoalParams(t *testing.T) {
	p := PurchaseGoalParams{Name: "Laptop", Price: d("30000")}
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	if !p.Trigger().Equal(DefaultTriggerPercentage) {
		t.Errorf("Trigger() = %s, want default", p.Trigger())
	}

	for _, price := range []string{"10.005", "1e12"} {
		bad := PurchaseGoalParams{Name: "Laptop", Price: d(price)}
		if err := bad.Validate(); err == nil {
			t.Errorf("price %s accepted", price)
		}
	}

	for _, bad := range []string{"0", "-1", "101"} {
		v := d(bad)
		p.TriggerPercentage = &v
		if err := p.Validate(); err == nil {
			t.Errorf("trigger %s accepted", bad)
		}
	}
}
