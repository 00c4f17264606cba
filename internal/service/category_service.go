package service

import (
	"context"

	"moviepicker/internal/catalog"
	"moviepicker/internal/models"
	"moviepicker/internal/repository"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	catalog      CatalogLookup
}

func NewCategoryService(categoryRepo repository.CategoryRepository, lookup CatalogLookup) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, catalog: lookup}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// Titles returns the live titles of a persisted category. Names that are not
// persisted, including ones that fail validation, yield an empty list.
func (s *CategoryService) Titles(ctx context.Context, name string) (string, []string, error) {
	normalized, err := catalog.ValidateCategoryName(name)
	if err != nil {
		return name, []string{}, nil
	}

	category, err := s.categoryRepo.GetByName(ctx, normalized)
	if err != nil {
		return normalized, nil, err
	}
	if category == nil {
		return normalized, []string{}, nil
	}

	titles, err := s.catalog.FetchCategoryTitles(ctx, category.Name)
	if err != nil {
		return normalized, nil, err
	}
	return normalized, titles, nil
}

// Create validates and stores a new category on behalf of userID.
func (s *CategoryService) Create(ctx context.Context, userID uint, name string) (*models.Category, error) {
	normalized, err := catalog.ValidateCategoryName(name)
	if err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.GetByName(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewFieldError("category", "Category already exists")
	}

	category := &models.Category{Name: normalized}
	if userID != 0 {
		category.CreatedByID = &userID
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
