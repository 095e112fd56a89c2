// Package money formats, parses and does percentage arithmetic on amounts.
// Amounts are shopspring decimals; formatting follows the Turkish
// convention of "." for thousands and "," for decimals.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Position places the currency symbol before or after the number.
type Position string

const (
	Prefix Position = "prefix"
	Suffix Position = "suffix"
)

// DefaultVATRate is the rate used when a caller does not supply one.
var DefaultVATRate = decimal.NewFromInt(18)

var hundred = decimal.NewFromInt(100)

// Formatter renders amounts as localized currency strings.
type Formatter struct {
	Places   int32
	Symbol   string
	Position Position
}

// DefaultFormatter renders "1.234,50 ₺".
var DefaultFormatter = Formatter{Places: 2, Symbol: "₺", Position: Suffix}

// Format renders amount with DefaultFormatter.
func Format(amount decimal.Decimal) string {
	return DefaultFormatter.Format(amount)
}

// Format rounds amount half away from zero to f.Places and renders it.
func (f Formatter) Format(amount decimal.Decimal) string {
	places := f.Places
	if places < 0 {
		places = 0
	}

	fixed := amount.Round(places).StringFixed(places)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	number := sign + groupThousands(intPart)
	if places > 0 {
		number += "," + fracPart
	}

	return f.attach(number)
}

// FormatString parses s as a plain decimal and formats it. Input that does
// not parse renders as zero, so templates never show a raw error.
func (f Formatter) FormatString(s string) string {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return f.Format(decimal.Zero)
	}
	return f.Format(amount)
}

func (f Formatter) attach(number string) string {
	if f.Position == Prefix {
		return f.Symbol + number
	}
	if f.Symbol == "" {
		return number
	}
	return number + " " + f.Symbol
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Parse reads a user-typed amount such as "1.234,56 ₺" or "$1,234.56".
// decimalSep is the decimal separator the user wrote (',' or '.'); the other
// one is treated as a thousands separator. Unparseable input yields zero.
func Parse(s string, decimalSep rune) decimal.Decimal {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if decimalSep == ',' {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return amount.Neg()
	}
	return amount
}

// Percentage returns part as a percentage of total, or zero when total is zero.
func Percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred)
}

// VAT adds tax at rate percent to a net amount and returns (vat, gross).
func VAT(net, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	vat := net.Mul(rate.Div(hundred))
	return vat, net.Add(vat)
}

// ExtractVAT splits a gross amount taxed at rate percent into (net, vat).
func ExtractVAT(gross, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	net := gross.Div(decimal.NewFromInt(1).Add(rate.Div(hundred)))
	return net, gross.Sub(net)
}
