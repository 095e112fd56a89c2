package transaction

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"finframe/internal/domain/record"
	"finframe/internal/shared/validate"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrForbidden           = errors.New("forbidden: transaction does not belong to user")
)

// MsgCategoryRequired is returned when a form names neither an existing
// category nor a new one.
const MsgCategoryRequired = "please choose a category or enter a new one"

type Transaction struct {
	ID           int64            `json:"id"`
	UserID       int64            `json:"-"`
	CategoryID   int64            `json:"categoryId"`
	CategoryName string           `json:"categoryName"`
	Type         record.EntryType `json:"type"`
	Amount       decimal.Decimal  `json:"amount"`
	Description  string           `json:"description"`
	Date         time.Time        `json:"date"`
	IsRegular    bool             `json:"isRegular"`
	record.Timestamps
}

// Signed returns the amount with the direction it moves the user's total.
func (t *Transaction) Signed() decimal.Decimal {
	return t.Amount.Mul(decimal.NewFromInt(t.Type.Sign()))
}

// Input is the transaction form. Either CategoryID or NewCategory must be
// set; NewCategory wins when both are.
type Input struct {
	Type        record.EntryType `json:"type"`
	Amount      decimal.Decimal  `json:"amount"`
	CategoryID  *int64           `json:"categoryId"`
	NewCategory string           `json:"newCategory"`
	Description string           `json:"description"`
	Date        time.Time        `json:"date"`
	IsRegular   bool             `json:"isRegular"`
}

func (in *Input) Validate() error {
	if !in.Type.IsValid() {
		return validate.Field("type", "type must be income or expense")
	}
	if !in.Amount.IsPositive() {
		return validate.Field("amount", "amount must be greater than zero")
	}
	if err := validate.Amount("amount", in.Amount); err != nil {
		return err
	}
	if utf8.RuneCountInString(in.Description) > 200 {
		return validate.Field("description", "description must be 200 characters or less")
	}
	return nil
}

// SaveParams is what the repository persists once the category is resolved.
type SaveParams struct {
	UserID      int64
	CategoryID  int64
	Type        record.EntryType
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	IsRegular   bool
}

// Filter narrows List and Count. Zero values mean "no constraint".
type Filter struct {
	UserID     int64
	Type       record.EntryType
	CategoryID *int64
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// CategorySum is one row of a per-category total.
type CategorySum struct {
	CategoryID int64
	Name       string
	Icon       string
	Color      string
	Amount     decimal.Decimal
}
