package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTurkishIdentityNumber(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"valid", "10000000146", ""},
		{"valid with spaces", " 12345678950 ", ""},
		{"valid with negative tenth digit sum", "19090909018", ""},
		{"too short", "1234567895", "identity number must be 11 digits"},
		{"letters", "1234567895a", "identity number must be 11 digits"},
		{"leading zero", "02345678950", "identity number cannot start with 0"},
		{"bad tenth digit", "12345678960", "invalid identity number"},
		{"bad eleventh digit", "12345678951", "invalid identity number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValidation(t, TurkishIdentityNumber(tt.value), tt.wantErr)
		})
	}
}

func TestTurkishTaxNumber(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"valid", "1234567890", ""},
		{"wrong check digit", "1234567891", "invalid tax number"},
		{"too long", "12345678901", "tax number must be 10 digits"},
		{"not digits", "12345-7890", "tax number must be 10 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValidation(t, TurkishTaxNumber(tt.value), tt.wantErr)
		})
	}
}

func TestTurkishPhone(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"mobile with leading zero", "0532 123 45 67", ""},
		{"international landline", "+90 (212) 555-12-34", ""},
		{"bare mobile", "5051234567", ""},
		{"unknown operator", "0999 123 45 67", "invalid operator code"},
		{"too short", "0532 123 45", "phone number must be 10 digits"},
		{"letters", "0532 ABC 45 67", "phone number must be 10 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValidation(t, TurkishPhone(tt.value), tt.wantErr)
		})
	}
}

func TestFileExtension(t *testing.T) {
	check := FileExtension("pdf", "csv")

	if err := check("statement.PDF"); err != nil {
		t.Errorf("upper-case extension rejected: %v", err)
	}
	if err := check("export.csv"); err != nil {
		t.Errorf("csv rejected: %v", err)
	}
	err := check("photo.png")
	if err == nil {
		t.Fatal("png accepted")
	}
	if want := "file extension not allowed, allowed extensions: pdf, csv"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
	if err := check("README"); err == nil {
		t.Error("file without extension accepted")
	}
}

func TestCurrencyFormat(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"turkish", "1.234,56 ₺", ""},
		{"plain", "100", ""},
		{"dollar", "$12,5", ""},
		{"negative", "-5,00", "currency amount cannot be negative"},
		{"garbage", "12a", "enter a valid currency amount"},
		{"empty", "", "enter a valid currency amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValidation(t, CurrencyFormat(tt.value), tt.wantErr)
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"two places", "10.25", ""},
		{"trailing zeros", "10.500", ""},
		{"negative", "-99.99", ""},
		{"largest", "999999999999.99", ""},
		{"three places", "10.005", "amount can have at most 2 decimal places"},
		{"at the bound", "1000000000000", "amount must be less than 1,000,000,000,000"},
		{"exponent", "1e13", "amount must be less than 1,000,000,000,000"},
		{"negative overflow", "-1e12", "amount must be less than 1,000,000,000,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Amount("amount", decimal.RequireFromString(tt.value))
			assertValidation(t, err, tt.wantErr)
			if verr, ok := As(err); ok && verr.Fields["amount"] == "" {
				t.Errorf("fields = %v, want amount", verr.Fields)
			}
		})
	}
}

func TestNoSpecialChars(t *testing.T) {
	valid := []string{"Market alışverişi", "İstanbul 34", "Çiğköfte"}
	for _, v := range valid {
		if err := NoSpecialChars(v); err != nil {
			t.Errorf("NoSpecialChars(%q) = %v", v, err)
		}
	}

	invalid := []string{"rent!", "a-b", ""}
	for _, v := range invalid {
		if err := NoSpecialChars(v); err == nil {
			t.Errorf("NoSpecialChars(%q) accepted", v)
		}
	}
}

func TestSecurePassword(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"strong", "Str0ng!Pass", ""},
		{"short", "Ab1!", "password must be at least 8 characters"},
		{"too long", "Str0ng!" + strings.Repeat("a", 66), "password must be at most 72 bytes"},
		{"no upper", "str0ng!pass", "password must contain an uppercase letter"},
		{"no lower", "STR0NG!PASS", "password must contain a lowercase letter"},
		{"no digit", "Strong!Pass", "password must contain a digit"},
		{"no special", "Str0ngPass", "password must contain a special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValidation(t, SecurePassword(tt.value), tt.wantErr)
		})
	}
}

func assertValidation(t *testing.T, err error, want string) {
	t.Helper()
	if want == "" {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("error %v is not a *validate.Error", err)
	}
	if verr.Message != want {
		t.Errorf("error = %q, want %q", verr.Message, want)
	}
}
