package goal

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"finframe/internal/domain/record"
	"finframe/internal/shared/dates"
	"finframe/internal/shared/money"
	"finframe/internal/shared/validate"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrForbidden    = errors.New("forbidden: goal does not belong to user")
)

// DefaultTriggerPercentage is the share of the user's total a purchase may
// cost before the user is told they can afford it.
var DefaultTriggerPercentage = decimal.NewFromInt(5)

type SavingGoal struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"-"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetDate    time.Time       `json:"targetDate"`
	record.Timestamps
}

// ProgressPercentage is current/target*100 rounded to 2 places, 0 for a
// zero target.
func (g *SavingGoal) ProgressPercentage() decimal.Decimal {
	return money.Percentage(g.CurrentAmount, g.TargetAmount).Round(2)
}

// Remaining is what is left to save, never negative.
func (g *SavingGoal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

func (g *SavingGoal) IsReached() bool {
	return !g.TargetAmount.IsZero() && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// SavingGoalParams is the create/update form.
type SavingGoalParams struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	TargetDate   time.Time       `json:"targetDate"`
}

// Validate checks the form against today, the first day a target date may
// fall on.
func (p *SavingGoalParams) Validate(today time.Time) error {
	if err := validName(p.Name); err != nil {
		return err
	}
	if !p.TargetAmount.IsPositive() {
		return validate.Field("targetAmount", "target amount must be greater than zero")
	}
	if err := validate.Amount("targetAmount", p.TargetAmount); err != nil {
		return err
	}
	if p.TargetDate.IsZero() {
		return validate.Field("targetDate", "target date is required")
	}
	if dates.Day(p.TargetDate).Before(dates.Day(today)) {
		return validate.Field("targetDate", "target date cannot be in the past")
	}
	return nil
}

type PurchaseGoal struct {
	ID                int64           `json:"id"`
	UserID            int64           `json:"-"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	TriggerPercentage decimal.Decimal `json:"triggerPercentage"`
	IsNotified        bool            `json:"isNotified"`
	record.Timestamps
}

// CanPurchase reports whether the price is at most TriggerPercentage of
// total. A non-positive total can never afford anything.
func (g *PurchaseGoal) CanPurchase(total decimal.Decimal) bool {
	if !total.IsPositive() {
		return false
	}
	share := g.Price.Div(total).Mul(decimal.NewFromInt(100))
	return share.LessThanOrEqual(g.TriggerPercentage)
}

type PurchaseGoalParams struct {
	Name              string           `json:"name"`
	Price             decimal.Decimal  `json:"price"`
	TriggerPercentage *decimal.Decimal `json:"triggerPercentage"`
}

func (p *PurchaseGoalParams) Validate() error {
	if err := validName(p.Name); err != nil {
		return err
	}
	if !p.Price.IsPositive() {
		return validate.Field("price", "price must be greater than zero")
	}
	if err := validate.Amount("price", p.Price); err != nil {
		return err
	}
	if p.TriggerPercentage != nil {
		lo, hi := decimal.Zero, decimal.NewFromInt(100)
		if err := validate.PriceRange(&lo, &hi)(*p.TriggerPercentage); err != nil || p.TriggerPercentage.IsZero() {
			return validate.Field("triggerPercentage", "trigger percentage must be between 0 and 100")
		}
	}
	return nil
}

// Trigger returns the requested trigger or the default.
func (p *PurchaseGoalParams) Trigger() decimal.Decimal {
	if p.TriggerPercentage == nil {
		return DefaultTriggerPercentage
	}
	return *p.TriggerPercentage
}

func validName(name string) error {
	if name == "" {
		return validate.Field("name", "name is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return validate.Field("name", "name must be 100 characters or less")
	}
	return nil
}
