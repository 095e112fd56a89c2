// Package finance holds the calculator behind the finance tools: compound
// interest, loan and mortgage payments and investment growth. Rates are
// annual fractions (0.05 is 5%); results are rounded half-up to 2 places.
package finance

import (
	"github.com/shopspring/decimal"

	"finframe/internal/shared/validate"
)

// Frequency is how often a mortgage payment is made.
type Frequency string

const (
	Monthly  Frequency = "monthly"
	Biweekly Frequency = "biweekly"
	Weekly   Frequency = "weekly"
)

// PaymentsPerYear returns 12, 26 or 52. Unknown frequencies count as monthly.
func (f Frequency) PaymentsPerYear() int64 {
	switch f {
	case Biweekly:
		return 26
	case Weekly:
		return 52
	default:
		return 12
	}
}

// intermediate results keep this many places before the final rounding
const workPlaces = 24

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// pow raises base to a non-negative integer power by squaring.
func pow(base decimal.Decimal, n int64) decimal.Decimal {
	result := one
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(workPlaces)
		}
		base = base.Mul(base).Round(workPlaces)
		n >>= 1
	}
	return result
}

// CompoundInterest returns the final amount P(1+r/n)^(n*years).
// compoundsPerYear <= 0 means yearly compounding.
func CompoundInterest(principal, rate decimal.Decimal, years, compoundsPerYear int) (decimal.Decimal, error) {
	if years < 0 {
		return decimal.Zero, validate.Field("years", "years cannot be negative")
	}
	if compoundsPerYear <= 0 {
		compoundsPerYear = 1
	}
	n := decimal.NewFromInt(int64(compoundsPerYear))
	base := one.Add(rate.DivRound(n, workPlaces))
	return round(principal.Mul(pow(base, int64(years)*int64(compoundsPerYear)))), nil
}

// amortized is the annuity payment P*r*(1+r)^n / ((1+r)^n - 1).
func amortized(principal, periodicRate decimal.Decimal, payments int64) decimal.Decimal {
	if periodicRate.IsZero() {
		return round(principal.DivRound(decimal.NewFromInt(payments), workPlaces))
	}
	growth := pow(one.Add(periodicRate), payments)
	numerator := periodicRate.Mul(growth)
	denominator := growth.Sub(one)
	return round(principal.Mul(numerator.DivRound(denominator, workPlaces)))
}

// LoanPayment returns the monthly payment of a loan over months months.
// A zero rate splits the principal evenly.
func LoanPayment(principal, annualRate decimal.Decimal, months int) (decimal.Decimal, error) {
	if months <= 0 {
		return decimal.Zero, validate.Field("months", "months must be greater than zero")
	}
	return amortized(principal, annualRate.DivRound(twelve, workPlaces), int64(months)), nil
}

// MortgagePayment returns the payment per period for a mortgage of years
// years paid at frequency.
func MortgagePayment(principal, annualRate decimal.Decimal, years int, frequency Frequency) (decimal.Decimal, error) {
	if years <= 0 {
		return decimal.Zero, validate.Field("years", "years must be greater than zero")
	}
	perYear := frequency.PaymentsPerYear()
	rate := annualRate.DivRound(decimal.NewFromInt(perYear), workPlaces)
	return amortized(principal, rate, int64(years)*perYear), nil
}

// YearSnapshot is the state of an investment at the end of a year.
type YearSnapshot struct {
	Year       int             `json:"year"`
	Value      decimal.Decimal `json:"value"`
	Investment decimal.Decimal `json:"investment"`
	Growth     decimal.Decimal `json:"growth"`
}

type Growth struct {
	InitialInvestment   decimal.Decimal `json:"initialInvestment"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	AnnualRate          decimal.Decimal `json:"annualRate"`
	Years               int             `json:"years"`
	FinalValue          decimal.Decimal `json:"finalValue"`
	TotalInvestment     decimal.Decimal `json:"totalInvestment"`
	TotalGrowth         decimal.Decimal `json:"totalGrowth"`
	Results             []YearSnapshot  `json:"results"`
}

// InvestmentGrowth compounds monthly: each month the current value earns
// rate/12 and then the contribution is added.
func InvestmentGrowth(initial, monthly, annualRate decimal.Decimal, years int) (*Growth, error) {
	if years < 0 {
		return nil, validate.Field("years", "years cannot be negative")
	}
	monthlyRate := annualRate.DivRound(twelve, workPlaces)

	value := initial
	invested := initial
	earned := decimal.Zero
	results := make([]YearSnapshot, 0, years)

	for month := 1; month <= years*12; month++ {
		gain := value.Mul(monthlyRate).Round(workPlaces)
		value = value.Add(gain).Add(monthly)
		invested = invested.Add(monthly)
		earned = earned.Add(gain)

		if month%12 == 0 {
			results = append(results, YearSnapshot{
				Year:       month / 12,
				Value:      round(value),
				Investment: round(invested),
				Growth:     round(earned),
			})
		}
	}

	return &Growth{
		InitialInvestment:   initial,
		MonthlyContribution: monthly,
		AnnualRate:          annualRate,
		Years:               years,
		FinalValue:          round(value),
		TotalInvestment:     round(invested),
		TotalGrowth:         round(earned),
		Results:             results,
	}, nil
}
