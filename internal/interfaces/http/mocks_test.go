package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finframe/internal/domain/category"
	"finframe/internal/domain/goal"
	"finframe/internal/domain/record"
	"finframe/internal/domain/transaction"
	"finframe/internal/domain/user"
	"finframe/internal/shared/middleware"
)

func withUser(r *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	return r.WithContext(ctx)
}

// MockUserRepo implements user.Repository for testing
type MockUserRepo struct {
	CreateFunc      func(ctx context.Context, params user.CreateParams) (*user.User, error)
	GetByIDFunc     func(ctx context.Context, id int64) (*user.User, error)
	GetByEmailFunc  func(ctx context.Context, email string) (*user.User, error)
	EmailExistsFunc func(ctx context.Context, email string) (bool, error)
	UpdateFunc      func(ctx context.Context, id int64, params user.UpdateParams) (*user.User, error)

	SetAttributeFunc  func(ctx context.Context, id int64, name string, value bool) error
	ResetPasswordFunc func(ctx context.Context, token uuid.UUID, issuedAfter time.Time, hash string) (int64, error)
}

func (m *MockUserRepo) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &user.User{ID: 1, Email: params.Email, Username: params.Username, PasswordHash: params.PasswordHash}, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.EmailExistsFunc != nil {
		return m.EmailExistsFunc(ctx, email)
	}
	return false, nil
}

func (m *MockUserRepo) Update(ctx context.Context, id int64, params user.UpdateParams) (*user.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserRepo) AdjustTotal(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	return delta, nil
}

func (m *MockUserRepo) SetAttribute(ctx context.Context, id int64, name string, value bool) error {
	if m.SetAttributeFunc != nil {
		return m.SetAttributeFunc(ctx, id, name, value)
	}
	return nil
}

func (m *MockUserRepo) CompleteFinancialInfo(ctx context.Context, id int64, total decimal.Decimal) (*user.User, error) {
	return &user.User{ID: id, TotalAmount: total, Attributes: map[string]bool{user.AttrFinancialInfoCompleted: true}}, nil
}

func (m *MockUserRepo) CreateResetToken(ctx context.Context, userID int64, token uuid.UUID) error {
	return nil
}

func (m *MockUserRepo) ResetPassword(ctx context.Context, token uuid.UUID, issuedAfter time.Time, hash string) (int64, error) {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, issuedAfter, hash)
	}
	return 0, user.ErrInvalidResetToken
}

// MockCategoryRepo implements category.Repository for testing
type MockCategoryRepo struct {
	CreateFunc       func(ctx context.Context, userID int64, params category.CreateParams) (*category.Category, error)
	GetByIDFunc      func(ctx context.Context, id int64) (*category.Category, error)
	ListByUserIDFunc func(ctx context.Context, userID int64, typ record.EntryType) ([]*category.Category, error)
	DeleteFunc       func(ctx context.Context, id int64) error
}

func (m *MockCategoryRepo) Create(ctx context.Context, userID int64, params category.CreateParams) (*category.Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, params)
	}
	return &category.Category{ID: 1, UserID: userID, Name: params.Name, Type: params.Type}, nil
}

func (m *MockCategoryRepo) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, category.ErrCategoryNotFound
}

func (m *MockCategoryRepo) ListByUserID(ctx context.Context, userID int64, typ record.EntryType) ([]*category.Category, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, typ)
	}
	return nil, nil
}

func (m *MockCategoryRepo) GetOrCreate(ctx context.Context, userID int64, params category.CreateParams) (*category.Category, error) {
	return &category.Category{ID: 99, UserID: userID, Name: params.Name, Type: params.Type}, nil
}

func (m *MockCategoryRepo) Update(ctx context.Context, id int64, params category.UpdateParams) (*category.Category, error) {
	return nil, category.ErrCategoryNotFound
}

func (m *MockCategoryRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockTransactionRepo implements transaction.Repository for testing
type MockTransactionRepo struct {
	CreateFunc  func(ctx context.Context, params transaction.SaveParams) (*transaction.Transaction, error)
	GetByIDFunc func(ctx context.Context, id int64) (*transaction.Transaction, error)
	ListFunc    func(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error)
	CountFunc   func(ctx context.Context, filter transaction.Filter) (int64, error)
	TotalsFunc  func(ctx context.Context, userID int64, from, to time.Time) (decimal.Decimal, decimal.Decimal, error)
	SumsFunc    func(ctx context.Context, userID int64, typ record.EntryType, from, to time.Time) ([]transaction.CategorySum, error)
}

func (m *MockTransactionRepo) Create(ctx context.Context, params transaction.SaveParams) (*transaction.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &transaction.Transaction{
		ID:          1,
		UserID:      params.UserID,
		CategoryID:  params.CategoryID,
		Type:        params.Type,
		Amount:      params.Amount,
		Description: params.Description,
		Date:        params.Date,
	}, nil
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, transaction.ErrTransactionNotFound
}

func (m *MockTransactionRepo) Update(ctx context.Context, id int64, params transaction.SaveParams) (*transaction.Transaction, error) {
	return nil, transaction.ErrTransactionNotFound
}

func (m *MockTransactionRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

func (m *MockTransactionRepo) List(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockTransactionRepo) Count(ctx context.Context, filter transaction.Filter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	return 0, nil
}

func (m *MockTransactionRepo) SumExpenses(ctx context.Context, userID, categoryID int64, from, to time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (m *MockTransactionRepo) Totals(ctx context.Context, userID int64, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx, userID, from, to)
	}
	return decimal.Zero, decimal.Zero, nil
}

func (m *MockTransactionRepo) SumsByCategory(ctx context.Context, userID int64, typ record.EntryType, from, to time.Time) ([]transaction.CategorySum, error) {
	if m.SumsFunc != nil {
		return m.SumsFunc(ctx, userID, typ, from, to)
	}
	return nil, nil
}

// MockGoalRepo implements goal.SavingRepository and goal.PurchaseRepository
type MockGoalRepo struct {
	GetSavingFunc   func(ctx context.Context, id int64) (*goal.SavingGoal, error)
	AddToSavingFunc func(ctx context.Context, id int64, amount decimal.Decimal) (*goal.SavingGoal, error)
}

func (m *MockGoalRepo) CreateSaving(ctx context.Context, userID int64, params goal.SavingGoalParams) (*goal.SavingGoal, error) {
	return &goal.SavingGoal{ID: 1, UserID: userID, Name: params.Name, TargetAmount: params.TargetAmount, TargetDate: params.TargetDate}, nil
}

func (m *MockGoalRepo) GetSaving(ctx context.Context, id int64) (*goal.SavingGoal, error) {
	if m.GetSavingFunc != nil {
		return m.GetSavingFunc(ctx, id)
	}
	return nil, goal.ErrGoalNotFound
}

func (m *MockGoalRepo) UpdateSaving(ctx context.Context, id int64, params goal.SavingGoalParams) (*goal.SavingGoal, error) {
	return nil, goal.ErrGoalNotFound
}

func (m *MockGoalRepo) DeleteSaving(ctx context.Context, id int64) error {
	return nil
}

func (m *MockGoalRepo) ListSaving(ctx context.Context, userID int64) ([]*goal.SavingGoal, error) {
	return nil, nil
}

func (m *MockGoalRepo) AddToSaving(ctx context.Context, id int64, amount decimal.Decimal) (*goal.SavingGoal, error) {
	if m.AddToSavingFunc != nil {
		return m.AddToSavingFunc(ctx, id, amount)
	}
	return nil, goal.ErrGoalNotFound
}

func (m *MockGoalRepo) CreatePurchase(ctx context.Context, userID int64, params goal.PurchaseGoalParams) (*goal.PurchaseGoal, error) {
	return &goal.PurchaseGoal{ID: 1, UserID: userID, Name: params.Name, Price: params.Price, TriggerPercentage: params.Trigger()}, nil
}

func (m *MockGoalRepo) GetPurchase(ctx context.Context, id int64) (*goal.PurchaseGoal, error) {
	return nil, goal.ErrGoalNotFound
}

func (m *MockGoalRepo) DeletePurchase(ctx context.Context, id int64) error {
	return nil
}

func (m *MockGoalRepo) ListPurchase(ctx context.Context, userID int64) ([]*goal.PurchaseGoal, error) {
	return nil, nil
}

func (m *MockGoalRepo) ListPending(ctx context.Context, userID int64) ([]*goal.PurchaseGoal, error) {
	return nil, nil
}

func (m *MockGoalRepo) MarkNotified(ctx context.Context, id int64) error {
	return nil
}
