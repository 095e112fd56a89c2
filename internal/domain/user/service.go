package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"finframe/internal/domain/record"
	"finframe/internal/shared/auth"
	"finframe/internal/shared/validate"
)

// DefaultResetTTL is how long a password reset link stays valid.
const DefaultResetTTL = 24 * time.Hour

// Mailer sends a plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ResetOptions configures password reset delivery.
type ResetOptions struct {
	Mailer Mailer
	// URL is the reset page; the token is appended to it.
	URL string
	TTL time.Duration
}

type Service struct {
	repo    Repository
	signals *Signals
	reset   ResetOptions
	now     record.Clock
}

// NewService creates the user service. signals may be nil.
func NewService(repo Repository, signals *Signals) *Service {
	if signals == nil {
		signals = NewSignals()
	}
	return &Service{repo: repo, signals: signals, reset: ResetOptions{TTL: DefaultResetTTL}, now: record.Now}
}

// SetResetOptions enables password reset emails. A zero TTL keeps the
// default.
func (s *Service) SetResetOptions(opts ResetOptions) {
	if opts.TTL <= 0 {
		opts.TTL = DefaultResetTTL
	}
	s.reset = opts
}

// Register validates the form, stores the user with a bcrypt hash and fires
// the created signal.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	err := validate.UniqueField(ctx, "email", func(ctx context.Context) (bool, error) {
		return s.repo.EmailExists(ctx, params.Email)
	})
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, CreateParams{
		Email:        params.Email,
		Username:     params.Username,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.signals.fireCreated(ctx, u)
	return u, nil
}

// Authenticate checks an email and password pair. Unknown emails and wrong
// passwords both return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	params := RegisterParams{Email: email}
	params.Normalize()

	u, err := s.repo.GetByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	ok, err := auth.CheckPassword(u.PasswordHash, password)
	if err != nil {
		log.Error().Err(err).Int64("user_id", u.ID).Msg("stored password hash is unreadable")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, params)
}

// SetAttribute is a staff operation; see the admin routes.
func (s *Service) SetAttribute(ctx context.Context, id int64, name string, value bool) error {
	if !IsKnownAttribute(name) {
		return fmt.Errorf("%w: %s", ErrUnknownAttribute, name)
	}
	return s.repo.SetAttribute(ctx, id, name, value)
}

// UserAttributes returns the user's boolean attributes for middleware
// checks. Unknown users have none.
func (s *Service) UserAttributes(ctx context.Context, userID int64) (map[string]bool, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return map[string]bool{}, nil
		}
		return nil, err
	}
	return u.Attributes, nil
}

// AdjustTotal moves the user's running total by delta.
func (s *Service) AdjustTotal(ctx context.Context, userID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	return s.repo.AdjustTotal(ctx, userID, delta)
}

// CompleteFinancialInfo records the user's starting balance once, marks the
// profile complete and fires the completion signal, which seeds default
// categories.
func (s *Service) CompleteFinancialInfo(ctx context.Context, id int64, params FinancialInfoParams) (*User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Attributes[AttrFinancialInfoCompleted] {
		return nil, ErrFinancialInfoCompleted
	}

	u, err := s.repo.CompleteFinancialInfo(ctx, id, params.TotalAmount.Round(2))
	if err != nil {
		return nil, err
	}
	s.signals.fireFinancialInfoCompleted(ctx, u)
	log.Info().Int64("user_id", id).Msg("financial info completed")
	return u, nil
}

// RequestPasswordReset emails a single-use reset link. Unknown addresses
// succeed silently so the endpoint does not reveal who is registered.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	params := RegisterParams{Email: email}
	params.Normalize()
	if err := validEmail(params.Email); err != nil {
		return err
	}

	u, err := s.repo.GetByEmail(ctx, params.Email)
	if errors.Is(err, ErrUserNotFound) {
		log.Info().Msg("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	if s.reset.Mailer == nil {
		return ErrResetUnavailable
	}

	token := uuid.New()
	if err := s.repo.CreateResetToken(ctx, u.ID, token); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	body := fmt.Sprintf("Use the link below to choose a new password. It expires in %s and works once.\n\n%s%s\n",
		s.reset.TTL, s.reset.URL, token)
	if err := s.reset.Mailer.Send(ctx, u.Email, "Password reset", body); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	log.Info().Int64("user_id", u.ID).Msg("password reset email sent")
	return nil
}

// ConfirmPasswordReset spends the token and sets the new password.
func (s *Service) ConfirmPasswordReset(ctx context.Context, params ResetParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	token, err := uuid.Parse(params.Token)
	if err != nil {
		return ErrInvalidResetToken
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return err
	}
	userID, err := s.repo.ResetPassword(ctx, token, s.now().Add(-s.reset.TTL), hash)
	if err != nil {
		return err
	}
	log.Info().Int64("user_id", userID).Msg("password reset")
	return nil
}
