package category

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"finframe/internal/domain/record"
	"finframe/internal/shared/validate"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID int64, typ record.EntryType) ([]*Category, error) {
	if typ != "" && !typ.IsValid() {
		return nil, validate.Field("type", "type must be income or expense")
	}
	return s.repo.ListByUserID(ctx, userID, typ)
}

func (s *Service) Create(ctx context.Context, userID int64, params CreateParams) (*Category, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, userID, params)
}

// Get loads a category and checks that it belongs to userID.
func (s *Service) Get(ctx context.Context, userID, id int64) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, ErrForbidden
	}
	return c, nil
}

// Resolve returns the category a transaction form points at. A new name wins
// over a selected id and is created with the default icon when missing.
// ok is false when neither was supplied.
func (s *Service) Resolve(ctx context.Context, userID int64, typ record.EntryType, id *int64, newName string) (c *Category, ok bool, err error) {
	if newName != "" {
		params := CreateParams{Name: newName, Type: typ, Icon: DefaultIcon}
		if err := params.Validate(); err != nil {
			return nil, true, err
		}
		c, err := s.repo.GetOrCreate(ctx, userID, params)
		if err != nil {
			return nil, true, fmt.Errorf("failed to get or create category: %w", err)
		}
		return c, true, nil
	}
	if id == nil {
		return nil, false, nil
	}

	c, err = s.Get(ctx, userID, *id)
	if err != nil {
		return nil, true, err
	}
	if c.Type != typ {
		return nil, true, fmt.Errorf("%w: category %q is not an %s category", ErrTypeMismatch, c.Name, typ)
	}
	return c, true, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, params UpdateParams) (*Category, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// SeedDefaults creates the default categories for a new user. Existing
// categories with the same name and type are left alone.
func (s *Service) SeedDefaults(ctx context.Context, userID int64) error {
	for _, params := range Defaults {
		if _, err := s.repo.GetOrCreate(ctx, userID, params); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", params.Name, err)
		}
	}
	log.Debug().Int64("user_id", userID).Int("count", len(Defaults)).Msg("seeded default categories")
	return nil
}
