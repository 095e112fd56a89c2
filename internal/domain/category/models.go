package category

import (
	"errors"
	"unicode/utf8"

	"finframe/internal/domain/record"
	"finframe/internal/shared/validate"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrForbidden        = errors.New("forbidden: category does not belong to user")
	ErrCategoryInUse    = errors.New("category still has transactions")
	ErrTypeMismatch     = errors.New("category type does not match")
)

// DefaultIcon is used for categories created on the fly from a
// transaction form.
const DefaultIcon = "tag"

type Category struct {
	ID     int64            `json:"id"`
	UserID int64            `json:"-"`
	Name   string           `json:"name"`
	Type   record.EntryType `json:"type"`
	Icon   string           `json:"icon"`
	Color  string           `json:"color"`
	record.Timestamps
}

type CreateParams struct {
	Name  string
	Type  record.EntryType
	Icon  string
	Color string
}

func (p *CreateParams) Validate() error {
	if p.Name == "" {
		return validate.Field("name", "name is required")
	}
	if utf8.RuneCountInString(p.Name) > 100 {
		return validate.Field("name", "name must be 100 characters or less")
	}
	if !p.Type.IsValid() {
		return validate.Field("type", "type must be income or expense")
	}
	if utf8.RuneCountInString(p.Icon) > 50 {
		return validate.Field("icon", "icon must be 50 characters or less")
	}
	if len(p.Color) > 12 {
		return validate.Field("color", "color must be 12 characters or less")
	}
	return nil
}

type UpdateParams struct {
	Name  *string
	Icon  *string
	Color *string
}

func (p *UpdateParams) Validate() error {
	if p.Name != nil {
		if *p.Name == "" {
			return validate.Field("name", "name cannot be empty")
		}
		if utf8.RuneCountInString(*p.Name) > 100 {
			return validate.Field("name", "name must be 100 characters or less")
		}
	}
	if p.Icon != nil && utf8.RuneCountInString(*p.Icon) > 50 {
		return validate.Field("icon", "icon must be 50 characters or less")
	}
	if p.Color != nil && len(*p.Color) > 12 {
		return validate.Field("color", "color must be 12 characters or less")
	}
	return nil
}

// Defaults are seeded for every new user.
var Defaults = []CreateParams{
	{Name: "Salary", Type: record.Income, Icon: "briefcase", Color: "#2E7D32"},
	{Name: "Other Income", Type: record.Income, Icon: "plus-circle", Color: "#66BB6A"},
	{Name: "Groceries", Type: record.Expense, Icon: "shopping-cart", Color: "#EF6C00"},
	{Name: "Rent", Type: record.Expense, Icon: "home", Color: "#6D4C41"},
	{Name: "Transport", Type: record.Expense, Icon: "bus", Color: "#1565C0"},
	{Name: "Bills", Type: record.Expense, Icon: "file-text", Color: "#8E24AA"},
	{Name: "Entertainment", Type: record.Expense, Icon: "film", Color: "#D81B60"},
}
