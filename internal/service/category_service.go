package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusbooks/marketplace-backend/internal/authctx"
	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

type CategoryService interface {
	Create(ctx context.Context, p authctx.Principal, name, description string) (*model.Category, error)
	Get(ctx context.Context, id uint64) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, p authctx.Principal, id uint64, name, description string) (*model.Category, error)
	Delete(ctx context.Context, p authctx.Principal, id uint64) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	listingRepo  repository.ListingRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository, listingRepo repository.ListingRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, listingRepo: listingRepo}
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 120 {
		return "", fmt.Errorf("%w: name must be 1-120 characters", ErrValidation)
	}
	return name, nil
}

func (s *categoryService) Create(ctx context.Context, p authctx.Principal, name, description string) (*model.Category, error) {
	if !CanAct(p, ActionManageCategory, "") {
		return nil, ErrForbidden
	}
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	if existing, err := s.categoryRepo.FindByName(ctx, name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: category name already in use", ErrValidation)
	}
	category := &model.Category{Name: name, Description: strings.TrimSpace(description)}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id uint64) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) Update(ctx context.Context, p authctx.Principal, id uint64, name, description string) (*model.Category, error) {
	if !CanAct(p, ActionManageCategory, "") {
		return nil, ErrForbidden
	}
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err = validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	if existing, err := s.categoryRepo.FindByName(ctx, name); err != nil {
		return nil, err
	} else if existing != nil && existing.ID != id {
		return nil, fmt.Errorf("%w: category name already in use", ErrValidation)
	}
	category.Name = name
	category.Description = strings.TrimSpace(description)
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete refuses to remove a category that still has listings.
func (s *categoryService) Delete(ctx context.Context, p authctx.Principal, id uint64) error {
	if !CanAct(p, ActionManageCategory, "") {
		return ErrForbidden
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	total, err := s.listingRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if total > 0 {
		return fmt.Errorf("%w: category still has %d listings", ErrInvalidOperation, total)
	}
	return s.categoryRepo.Delete(ctx, id)
}
