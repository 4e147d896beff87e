package service

import (
	"context"
	"strings"

	"github.com/spec-kit/supportdesk/internal/domain"
	"github.com/spec-kit/supportdesk/internal/repository"
	apperrors "github.com/spec-kit/supportdesk/pkg/util"
)

// CategoryService manages the dashboard category list.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// Create adds a category. The ID is a URL slug: lowercase, hyphen-separated.
func (s *CategoryService) Create(ctx context.Context, id, title string) (*domain.Category, error) {
	id = strings.TrimSpace(strings.ToLower(id))
	if id == "" || title == "" {
		return nil, apperrors.NewValidationError("id and title required", nil)
	}
	if strings.ContainsAny(id, " /") {
		return nil, apperrors.NewValidationError("category id must be a slug", map[string]any{"id": id})
	}

	category := &domain.Category{ID: id, Title: title}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}

// Seed inserts the stock categories when missing.
func (s *CategoryService) Seed(ctx context.Context) error {
	for _, category := range domain.SeedCategories() {
		c := category
		if err := s.categories.Create(ctx, &c); err != nil {
			return err
		}
	}
	return nil
}
