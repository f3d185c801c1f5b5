package service

import (
	"context"
	"fmt"

	"github.com/neurozen/neurozen/internal/core"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// CategoryServiceOptions groups dependencies for CategoryService.
type CategoryServiceOptions struct {
	Categories core.CategoryRepository
}

// CategoryService provides category CRUD scoped to the owning user.
type CategoryService struct {
	categories core.CategoryRepository
}

// NewCategoryService constructs a new CategoryService.
func NewCategoryService(opts CategoryServiceOptions) *CategoryService {
	if opts.Categories == nil {
		panic("CategoryRepository is required")
	}
	return &CategoryService{categories: opts.Categories}
}

// Create creates a category, applying the default color when none is given.
func (s *CategoryService) Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	return s.categories.Create(ctx, req)
}

// GetByID retrieves a category belonging to the user.
func (s *CategoryService) GetByID(ctx context.Context, userID, id string) (*model.Category, error) {
	return s.categories.GetByID(ctx, userID, id)
}

// List returns the user's categories with open task counts, ordered by name.
func (s *CategoryService) List(ctx context.Context, userID string) ([]*model.CategoryWithTaskCount, error) {
	return s.categories.ListForUser(ctx, userID)
}

// Update updates a category belonging to the user.
func (s *CategoryService) Update(ctx context.Context, userID, id string, req model.UpdateCategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	return s.categories.Update(ctx, userID, id, req)
}

// Delete removes a category. Tasks referencing it are detached, not deleted.
func (s *CategoryService) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.categories.Delete(ctx, userID, id)
}
