package user

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finframe/internal/shared/auth"
	"finframe/internal/shared/validate"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc       func(ctx context.Context, params CreateParams) (*User, error)
	GetByIDFunc      func(ctx context.Context, id int64) (*User, error)
	GetByEmailFunc   func(ctx context.Context, email string) (*User, error)
	EmailExistsFunc  func(ctx context.Context, email string) (bool, error)
	UpdateFunc       func(ctx context.Context, id int64, params UpdateParams) (*User, error)
	AdjustTotalFunc  func(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error)
	SetAttributeFunc func(ctx context.Context, id int64, name string, value bool) error

	CompleteFinancialInfoFunc func(ctx context.Context, id int64, total decimal.Decimal) (*User, error)
	CreateResetTokenFunc      func(ctx context.Context, userID int64, token uuid.UUID) error
	ResetPasswordFunc         func(ctx context.Context, token uuid.UUID, issuedAfter time.Time, hash string) (int64, error)
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &User{ID: 1, Email: params.Email, Username: params.Username, PasswordHash: params.PasswordHash}, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *MockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.EmailExistsFunc != nil {
		return m.EmailExistsFunc(ctx, email)
	}
	return false, nil
}

func (m *MockRepository) Update(ctx context.Context, id int64, params UpdateParams) (*User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return &User{ID: id}, nil
}

func (m *MockRepository) AdjustTotal(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	if m.AdjustTotalFunc != nil {
		return m.AdjustTotalFunc(ctx, id, delta)
	}
	return delta, nil
}

func (m *MockRepository) SetAttribute(ctx context.Context, id int64, name string, value bool) error {
	if m.SetAttributeFunc != nil {
		return m.SetAttributeFunc(ctx, id, name, value)
	}
	return nil
}

func (m *MockRepository) CompleteFinancialInfo(ctx context.Context, id int64, total decimal.Decimal) (*User, error) {
	if m.CompleteFinancialInfoFunc != nil {
		return m.CompleteFinancialInfoFunc(ctx, id, total)
	}
	return &User{ID: id, TotalAmount: total, Attributes: map[string]bool{AttrFinancialInfoCompleted: true}}, nil
}

func (m *MockRepository) CreateResetToken(ctx context.Context, userID int64, token uuid.UUID) error {
	if m.CreateResetTokenFunc != nil {
		return m.CreateResetTokenFunc(ctx, userID, token)
	}
	return nil
}

func (m *MockRepository) ResetPassword(ctx context.Context, token uuid.UUID, issuedAfter time.Time, hash string) (int64, error) {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, issuedAfter, hash)
	}
	return 0, ErrInvalidResetToken
}

const goodPassword = "Kahve#2024x"

func TestService_Register(t *testing.T) {
	tests := []struct {
		name      string
		params    RegisterParams
		exists    bool
		wantField string
	}{
		{"valid", RegisterParams{Email: " Ayse@Example.com ", Username: "ayse", Password: goodPassword}, false, ""},
		{"bad email", RegisterParams{Email: "not-an-email", Username: "ayse", Password: goodPassword}, false, "email"},
		{"short username", RegisterParams{Email: "a@example.com", Username: "ay", Password: goodPassword}, false, "username"},
		{"weak password", RegisterParams{Email: "a@example.com", Username: "ayse", Password: "password"}, false, "password"},
		{"email taken", RegisterParams{Email: "a@example.com", Username: "ayse", Password: goodPassword}, true, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *CreateParams
			repo := &MockRepository{
				EmailExistsFunc: func(ctx context.Context, email string) (bool, error) {
					return tt.exists, nil
				},
				CreateFunc: func(ctx context.Context, params CreateParams) (*User, error) {
					created = &params
					return &User{ID: 7, Email: params.Email, Username: params.Username}, nil
				},
			}
			signals := NewSignals()
			var fired []int64
			signals.OnCreated("record", func(ctx context.Context, u *User) error {
				fired = append(fired, u.ID)
				return nil
			})

			u, err := NewService(repo, signals).Register(context.Background(), tt.params)
			if tt.wantField != "" {
				verr, ok := validate.As(err)
				if !ok {
					t.Fatalf("error = %v, want validation error", err)
				}
				if _, ok := verr.Fields[tt.wantField]; !ok {
					t.Errorf("fields = %v, want %q", verr.Fields, tt.wantField)
				}
				if created != nil || len(fired) != 0 {
					t.Error("user stored or signal fired for invalid form")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.Email != "ayse@example.com" {
				t.Errorf("email = %q, want normalized", u.Email)
			}
			if created.PasswordHash == goodPassword || !checkPassword(t, created.PasswordHash, goodPassword) {
				t.Error("password was not hashed with bcrypt")
			}
			if len(fired) != 1 || fired[0] != 7 {
				t.Errorf("created signal fired for %v", fired)
			}
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	hash, err := auth.HashPassword(goodPassword)
	if err != nil {
		t.Fatal(err)
	}
	repo := &MockRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			if email != "ayse@example.com" {
				return nil, ErrUserNotFound
			}
			return &User{ID: 1, Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewService(repo, nil)

	if u, err := svc.Authenticate(context.Background(), "AYSE@example.com", goodPassword); err != nil || u.ID != 1 {
		t.Errorf("Authenticate() = %v, %v", u, err)
	}
	if _, err := svc.Authenticate(context.Background(), "ayse@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody@example.com", goodPassword); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v", err)
	}
}

func TestService_UserAttributes(t *testing.T) {
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*User, error) {
			if id != 1 {
				return nil, ErrUserNotFound
			}
			return &User{ID: 1, Attributes: map[string]bool{AttrFinancialInfoCompleted: true}}, nil
		},
	}
	svc := NewService(repo, nil)

	attrs, err := svc.UserAttributes(context.Background(), 1)
	if err != nil || !attrs[AttrFinancialInfoCompleted] {
		t.Errorf("attrs = %v, err = %v", attrs, err)
	}
	attrs, err = svc.UserAttributes(context.Background(), 2)
	if err != nil || len(attrs) != 0 {
		t.Errorf("unknown user attrs = %v, err = %v", attrs, err)
	}
}

func TestService_SetAttribute(t *testing.T) {
	svc := NewService(&MockRepository{}, nil)
	if err := svc.SetAttribute(context.Background(), 1, AttrEmailVerified, true); err != nil {
		t.Error(err)
	}
	if err := svc.SetAttribute(context.Background(), 1, "is_admin", true); !errors.Is(err, ErrUnknownAttribute) {
		t.Errorf("error = %v, want ErrUnknownAttribute", err)
	}
}

type seederFunc func(ctx context.Context, userID int64) error

func (f seederFunc) SeedDefaults(ctx context.Context, userID int64) error { return f(ctx, userID) }

func TestSignals_FailingHandlerDoesNotStopOthers(t *testing.T) {
	signals := NewSignals()
	var seeded int64
	signals.OnCreated("fail", func(ctx context.Context, u *User) error { return errors.New("boom") })
	signals.OnCreated("log", LogCreated)
	signals.OnCreated("seed", SeedCategories(seederFunc(func(ctx context.Context, userID int64) error {
		seeded = userID
		return nil
	})))

	signals.fireCreated(context.Background(), &User{ID: 12, Username: "mehmet"})
	if seeded != 12 {
		t.Errorf("seeded user = %d, want 12", seeded)
	}
}

func TestUser_Subject(t *testing.T) {
	u := &User{ID: 3, Email: "x@example.com", IsStaff: true, Permissions: []string{"reports.view"}}
	s := u.Subject()
	if s.UserID != 3 || s.Email != u.Email || !s.IsStaff || len(s.Permissions) != 1 {
		t.Errorf("Subject() = %+v", s)
	}
}

func checkPassword(t *testing.T, hash, password string) bool {
	t.Helper()
	ok, err := auth.CheckPassword(hash, password)
	if err != nil {
		t.Fatalf("CheckPassword() error = %v", err)
	}
	return ok
}

func TestService_CompleteFinancialInfo(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		completed bool
		wantField string
		wantErr   error
	}{
		{"valid", "15000.50", false, "", nil},
		{"zero is allowed", "0", false, "", nil},
		{"negative", "-1", false, "totalAmount", nil},
		{"three decimals", "10.005", false, "totalAmount", nil},
		{"too large", "1e12", false, "totalAmount", nil},
		{"already completed", "100", true, "", ErrFinancialInfoCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stored *decimal.Decimal
			repo := &MockRepository{
				GetByIDFunc: func(ctx context.Context, id int64) (*User, error) {
					return &User{ID: id, Attributes: map[string]bool{AttrFinancialInfoCompleted: tt.completed}}, nil
				},
				CompleteFinancialInfoFunc: func(ctx context.Context, id int64, total decimal.Decimal) (*User, error) {
					stored = &total
					return &User{ID: id, TotalAmount: total, Attributes: map[string]bool{AttrFinancialInfoCompleted: true}}, nil
				},
			}
			signals := NewSignals()
			var seeded int64
			signals.OnFinancialInfoCompleted("seed", SeedCategories(seederFunc(func(ctx context.Context, userID int64) error {
				seeded = userID
				return nil
			})))
			svc := NewService(repo, signals)

			u, err := svc.CompleteFinancialInfo(context.Background(), 4, FinancialInfoParams{TotalAmount: decimal.RequireFromString(tt.amount)})
			switch {
			case tt.wantField != "":
				verr, ok := validate.As(err)
				if !ok || verr.Fields[tt.wantField] == "" {
					t.Fatalf("error = %v, want validation error on %s", err, tt.wantField)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !u.Attributes[AttrFinancialInfoCompleted] || !u.TotalAmount.Equal(decimal.RequireFromString(tt.amount)) {
					t.Errorf("user = %+v", u)
				}
				if seeded != 4 {
					t.Errorf("seeded user = %d, want 4", seeded)
				}
				return
			}
			if stored != nil || seeded != 0 {
				t.Errorf("rejected form was stored (%v) or seeded (%d)", stored, seeded)
			}
		})
	}
}

type mailerFunc func(ctx context.Context, to, subject, body string) error

func (f mailerFunc) Send(ctx context.Context, to, subject, body string) error {
	return f(ctx, to, subject, body)
}

func TestService_RequestPasswordReset(t *testing.T) {
	var (
		tokenUser int64
		token     uuid.UUID
		sentTo    string
		sentBody  string
	)
	repo := &MockRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*User, error) {
			if email != "ayse@example.com" {
				return nil, ErrUserNotFound
			}
			return &User{ID: 5, Email: email}, nil
		},
		CreateResetTokenFunc: func(ctx context.Context, userID int64, tok uuid.UUID) error {
			tokenUser, token = userID, tok
			return nil
		},
	}
	svc := NewService(repo, nil)
	ctx := context.Background()

	if err := svc.RequestPasswordReset(ctx, "ayse@example.com"); !errors.Is(err, ErrResetUnavailable) {
		t.Fatalf("error without mailer = %v, want ErrResetUnavailable", err)
	}

	svc.SetResetOptions(ResetOptions{
		Mailer: mailerFunc(func(ctx context.Context, to, subject, body string) error {
			sentTo, sentBody = to, body
			return nil
		}),
		URL: "https://app.example.com/reset-password/",
	})

	if err := svc.RequestPasswordReset(ctx, " Ayse@Example.com "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokenUser != 5 || token == uuid.Nil {
		t.Errorf("token = %s for user %d", token, tokenUser)
	}
	if sentTo != "ayse@example.com" || !strings.Contains(sentBody, "https://app.example.com/reset-password/"+token.String()) {
		t.Errorf("sent to %q body %q", sentTo, sentBody)
	}

	sentTo = ""
	if err := svc.RequestPasswordReset(ctx, "nobody@example.com"); err != nil {
		t.Errorf("unknown email error = %v, want nil", err)
	}
	if sentTo != "" {
		t.Error("mail sent for unknown email")
	}

	if _, ok := validate.As(svc.RequestPasswordReset(ctx, "not-an-email")); !ok {
		t.Error("malformed email accepted")
	}
}

func TestService_ConfirmPasswordReset(t *testing.T) {
	issued := uuid.New()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var (
		cutoff time.Time
		hash   string
		spent  = map[uuid.UUID]bool{}
	)
	repo := &MockRepository{
		ResetPasswordFunc: func(ctx context.Context, token uuid.UUID, issuedAfter time.Time, h string) (int64, error) {
			if token != issued || spent[token] {
				return 0, ErrInvalidResetToken
			}
			spent[token] = true
			cutoff, hash = issuedAfter, h
			return 5, nil
		},
	}
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	tests := []struct {
		name      string
		params    ResetParams
		wantField string
		wantErr   error
	}{
		{"malformed token", ResetParams{Token: "abc", Password: goodPassword, PasswordConfirm: goodPassword}, "", ErrInvalidResetToken},
		{"mismatch", ResetParams{Token: issued.String(), Password: goodPassword, PasswordConfirm: "Other#2024x"}, "passwordConfirm", nil},
		{"weak", ResetParams{Token: issued.String(), Password: "password", PasswordConfirm: "password"}, "password", nil},
		{"unknown token", ResetParams{Token: uuid.NewString(), Password: goodPassword, PasswordConfirm: goodPassword}, "", ErrInvalidResetToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ConfirmPasswordReset(ctx, tt.params)
			if tt.wantField != "" {
				verr, ok := validate.As(err)
				if !ok || verr.Fields[tt.wantField] == "" {
					t.Fatalf("error = %v, want validation error on %s", err, tt.wantField)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	params := ResetParams{Token: issued.String(), Password: goodPassword, PasswordConfirm: goodPassword}
	if err := svc.ConfirmPasswordReset(ctx, params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cutoff.Equal(fixed.Add(-DefaultResetTTL)) {
		t.Errorf("issuedAfter = %v, want now minus the TTL", cutoff)
	}
	if !checkPassword(t, hash, goodPassword) {
		t.Error("stored hash does not match the new password")
	}
	if err := svc.ConfirmPasswordReset(ctx, params); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("second use error = %v, want ErrInvalidResetToken", err)
	}
}
