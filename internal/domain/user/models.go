package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finframe/internal/domain/record"
	"finframe/internal/shared/auth"
	"finframe/internal/shared/validate"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrUnknownAttribute       = errors.New("unknown user attribute")
	ErrFinancialInfoCompleted = errors.New("financial information is already completed")
	ErrInvalidResetToken      = errors.New("invalid or used password reset token")
	ErrResetUnavailable       = errors.New("password reset email is not configured")
)

// Boolean attributes checked by middleware.UserHasAttribute. Users never
// set them directly: financial_info_completed follows CompleteFinancialInfo
// and staff set the rest.
const (
	AttrFinancialInfoCompleted = "financial_info_completed"
	AttrEmailVerified          = "is_email_verified"
)

var knownAttributes = map[string]struct{}{
	AttrFinancialInfoCompleted: {},
	AttrEmailVerified:          {},
}

func IsKnownAttribute(name string) bool {
	_, ok := knownAttributes[name]
	return ok
}

type User struct {
	ID           int64           `json:"id"`
	Email        string          `json:"email"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"`
	IsStaff      bool            `json:"isStaff"`
	Permissions  []string        `json:"permissions"`
	Attributes   map[string]bool `json:"attributes"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	record.Timestamps
}

// Subject is the identity put into the user's access token.
func (u *User) Subject() auth.Subject {
	return auth.Subject{
		UserID:      u.ID,
		Email:       u.Email,
		IsStaff:     u.IsStaff,
		Permissions: u.Permissions,
	}
}

type RegisterParams struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Normalize trims whitespace and lowercases the email.
func (p *RegisterParams) Normalize() {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Username = strings.TrimSpace(p.Username)
}

func (p *RegisterParams) Validate() error {
	if err := validEmail(p.Email); err != nil {
		return err
	}
	if err := validUsername(p.Username); err != nil {
		return err
	}
	if err := validate.SecurePassword(p.Password); err != nil {
		return validate.Field("password", err.Error())
	}
	return nil
}

type CreateParams struct {
	Email        string
	Username     string
	PasswordHash string
}

type UpdateParams struct {
	Username *string `json:"username"`
}

func (p *UpdateParams) Validate() error {
	if p.Username == nil {
		return nil
	}
	return validUsername(*p.Username)
}

func validUsername(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 3 || n > 150 {
		return validate.Field("username", "username must be between 3 and 150 characters")
	}
	if err := validate.NoSpecialChars(name); err != nil {
		return validate.Field("username", err.Error())
	}
	return nil
}

// FinancialInfoParams is the one-time starting balance form.
type FinancialInfoParams struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (p *FinancialInfoParams) Validate() error {
	if p.TotalAmount.IsNegative() {
		return validate.Field("totalAmount", "total amount cannot be negative")
	}
	return validate.Amount("totalAmount", p.TotalAmount)
}

// PasswordResetToken is a single-use reset link sent by email.
type PasswordResetToken struct {
	Token     uuid.UUID `json:"token"`
	UserID    int64     `json:"-"`
	IsUsed    bool      `json:"isUsed"`
	CreatedAt time.Time `json:"createdAt"`
}

// ResetParams is the new-password form opened from a reset link.
type ResetParams struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (p *ResetParams) Validate() error {
	if err := uuid.Validate(p.Token); err != nil {
		return ErrInvalidResetToken
	}
	if p.Password != p.PasswordConfirm {
		return validate.Field("passwordConfirm", "passwords do not match")
	}
	if err := validate.SecurePassword(p.Password); err != nil {
		return validate.Field("password", err.Error())
	}
	return nil
}

func validEmail(email string) error {
	if email == "" {
		return validate.Field("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return validate.Field("email", "enter a valid email address")
	}
	return nil
}
