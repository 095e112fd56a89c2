package validate

import (
	"path"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	nonDigitSeparators = regexp.MustCompile(`[\s\-()]`)
	currencySymbols    = regexp.MustCompile(`[₺$€£¥]`)
	plainText          = regexp.MustCompile(`^[a-zA-Z0-9ğüşöçıİĞÜŞÖÇ\s]+$`)
	upperCase          = regexp.MustCompile(`[A-Z]`)
	lowerCase          = regexp.MustCompile(`[a-z]`)
	digit              = regexp.MustCompile(`[0-9]`)
	specialChar        = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// operatorCodes are the mobile operator and landline area prefixes accepted
// for Turkish phone numbers.
var operatorCodes = map[string]bool{
	"501": true, "505": true, "506": true, "507": true,
	"551": true, "552": true, "553": true, "554": true, "555": true, "559": true,
	"530": true, "531": true, "532": true, "533": true, "534": true,
	"535": true, "536": true, "537": true, "538": true, "539": true,
	"540": true, "541": true, "542": true, "543": true, "544": true,
	"545": true, "546": true, "547": true, "548": true, "549": true,
	"561": true, "562": true, "563": true, "564": true, "565": true,
	"566": true, "567": true, "568": true, "569": true,
	"312": true, "216": true, "212": true, "232": true, "242": true,
	"224": true, "258": true, "352": true, "412": true,
}

var commonPasswords = map[string]bool{
	"12345678":    true,
	"qwerty123":   true,
	"password123": true,
	"123456789":   true,
	"admin123":    true,
}

func digits(s string, n int) ([]int, bool) {
	if len(s) != n {
		return nil, false
	}
	out := make([]int, n)
	for i, r := range s {
		if r < '0' || r > '9' {
			return nil, false
		}
		out[i] = int(r - '0')
	}
	return out, true
}

// TurkishIdentityNumber checks an 11 digit T.C. identity number and its two
// check digits.
func TurkishIdentityNumber(value string) error {
	d, ok := digits(strings.TrimSpace(value), 11)
	if !ok {
		return New("identity number must be 11 digits")
	}
	if d[0] == 0 {
		return New("identity number cannot start with 0")
	}

	odd := d[0] + d[2] + d[4] + d[6] + d[8]
	even := d[1] + d[3] + d[5] + d[7]
	tenth := ((odd*7-even)%10 + 10) % 10
	if tenth != d[9] {
		return New("invalid identity number")
	}

	sum := 0
	for _, v := range d[:10] {
		sum += v
	}
	if sum%10 != d[10] {
		return New("invalid identity number")
	}
	return nil
}

// TurkishTaxNumber checks a 10 digit tax number (VKN).
func TurkishTaxNumber(value string) error {
	d, ok := digits(strings.TrimSpace(value), 10)
	if !ok {
		return New("tax number must be 10 digits")
	}

	sum := 0
	for i := 0; i < 9; i++ {
		tmp := (d[i] + 9 - i) % 10
		sum += (tmp * (1 << (9 - i))) % 9
	}
	if (10-sum%10)%10 != d[9] {
		return New("invalid tax number")
	}
	return nil
}

// NormalizePhone strips separators and the +90 or 0 prefix.
func NormalizePhone(value string) string {
	value = nonDigitSeparators.ReplaceAllString(strings.TrimSpace(value), "")
	switch {
	case strings.HasPrefix(value, "+90"):
		return value[3:]
	case strings.HasPrefix(value, "0"):
		return value[1:]
	}
	return value
}

// TurkishPhone accepts mobile and major landline numbers in any of the
// usual spellings: "0532 123 45 67", "+90 (212) 555-12-34", "5321234567".
func TurkishPhone(value string) error {
	value = NormalizePhone(value)
	if _, ok := digits(value, 10); !ok {
		return New("phone number must be 10 digits")
	}
	if !operatorCodes[value[:3]] {
		return New("invalid operator code")
	}
	return nil
}

// FileExtension returns a validator that accepts file names whose extension
// (case-insensitive) is in allowed.
func FileExtension(allowed ...string) func(name string) error {
	set := make(map[string]bool, len(allowed))
	for _, ext := range allowed {
		set[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return func(name string) error {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
		if !set[ext] {
			return New("file extension not allowed, allowed extensions: " + strings.Join(allowed, ", "))
		}
		return nil
	}
}

// CurrencyFormat accepts a non-negative amount written the Turkish way,
// optionally with a currency symbol: "1.234,56 ₺".
func CurrencyFormat(value string) error {
	value = currencySymbols.ReplaceAllString(strings.TrimSpace(value), "")
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, ".", "")
	value = strings.ReplaceAll(value, ",", ".")

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return New("enter a valid currency amount")
	}
	if amount.IsNegative() {
		return New("currency amount cannot be negative")
	}
	return nil
}

// MaxAmount is the first money amount a NUMERIC(14, 2) column cannot hold.
var MaxAmount = decimal.New(1, 12)

// Amount checks that d fits a money column: at most two decimal places and
// below MaxAmount in magnitude. Sign rules are left to the caller.
func Amount(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(2)) {
		return Field(field, "amount can have at most 2 decimal places")
	}
	if d.Abs().GreaterThanOrEqual(MaxAmount) {
		return Field(field, "amount must be less than 1,000,000,000,000")
	}
	return nil
}

// NoSpecialChars accepts letters (Turkish included), digits and spaces.
func NoSpecialChars(value string) error {
	if !plainText.MatchString(value) {
		return New("only letters, digits and spaces are allowed")
	}
	return nil
}

// SecurePassword enforces length and character classes, then rejects a
// short list of common passwords.
func SecurePassword(value string) error {
	switch {
	case len(value) < 8:
		return New("password must be at least 8 characters")
	case len(value) > 72:
		return New("password must be at most 72 bytes")
	case !upperCase.MatchString(value):
		return New("password must contain an uppercase letter")
	case !lowerCase.MatchString(value):
		return New("password must contain a lowercase letter")
	case !digit.MatchString(value):
		return New("password must contain a digit")
	case !specialChar.MatchString(value):
		return New("password must contain a special character")
	case commonPasswords[strings.ToLower(value)]:
		return New("this password is too common, choose a safer one")
	}
	return nil
}
