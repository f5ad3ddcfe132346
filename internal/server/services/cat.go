package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rentacat/rentacat/internal/common"
	"github.com/rentacat/rentacat/internal/server/models"
	"github.com/rentacat/rentacat/internal/server/repositories/repomanager"
)

// CatService manages the rentable catalogue. Create/Update/Delete are
// admin-only; the authorization check lives in the HTTP layer.
type CatService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatService(db *sql.DB, m repomanager.RepositoryManager) *CatService {
	return &CatService{db: db, repomanager: m}
}

func validateCat(cat *models.Cat) error {
	if cat.Nom == "" || len(cat.Nom) > 100 {
		return fmt.Errorf("%w: nom is required (max 100 characters)", common.ErrValidation)
	}
	if cat.Age < 0 {
		return fmt.Errorf("%w: age cannot be negative", common.ErrValidation)
	}
	if cat.Prix <= 0 {
		return fmt.Errorf("%w: prix must be positive", common.ErrValidation)
	}
	if len(cat.Description) > 1000 {
		return fmt.Errorf("%w: description must be at most 1000 characters", common.ErrValidation)
	}
	return nil
}

// ListAvailable returns the cats shown in the catalogue.
func (s *CatService) ListAvailable(ctx context.Context) ([]*models.Cat, error) {
	result, err := s.repomanager.Cats(s.db).ListAvailable(ctx)
	if err != nil {
		return nil, common.ErrInternal
	}
	return result, nil
}

func (s *CatService) Get(ctx context.Context, id int64) (*models.Cat, error) {
	cat, err := s.repomanager.Cats(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.ErrInternal
	}
	return cat, nil
}

func (s *CatService) Create(ctx context.Context, cat *models.Cat) (*models.Cat, error) {
	if err := validateCat(cat); err != nil {
		return nil, err
	}

	created, err := s.repomanager.Cats(s.db).Create(ctx, cat)
	if err != nil {
		return nil, common.ErrInternal
	}
	return created, nil
}

func (s *CatService) Update(ctx context.Context, cat *models.Cat) error {
	if err := validateCat(cat); err != nil {
		return err
	}

	err := s.repomanager.Cats(s.db).Update(ctx, cat)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return common.ErrInternal
	}
	return nil
}

func (s *CatService) Delete(ctx context.Context, id int64) error {
	err := s.repomanager.Cats(s.db).Delete(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return common.ErrInternal
	}
	return nil
}
