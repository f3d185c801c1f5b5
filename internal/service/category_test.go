package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
	"github.com/neurozen/neurozen/internal/mocks"
)

func newCategoryService(t *testing.T) (*mocks.MockCategoryRepository, *CategoryService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockCategoryRepository(ctrl)
	return repo, NewCategoryService(CategoryServiceOptions{Categories: repo})
}

func TestCategoryService_Create_DefaultsColor(t *testing.T) {
	t.Parallel()
	repo, service := newCategoryService(t)
	ctx := context.Background()

	req := &model.CreateCategoryRequest{UserID: testUserID, Name: "Work"}

	repo.EXPECT().
		Create(ctx, req).
		DoAndReturn(func(_ context.Context, got *model.CreateCategoryRequest) (*model.Category, error) {
			assert.Equal(t, "#FFF5E6", got.Color)
			return &model.Category{ID: "cat-1", Name: got.Name, Color: got.Color}, nil
		}).
		Times(1)

	category, err := service.Create(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "#FFF5E6", category.Color)
}

func TestCategoryService_Create_DuplicateName(t *testing.T) {
	t.Parallel()
	repo, service := newCategoryService(t)
	ctx := context.Background()

	repo.EXPECT().
		Create(ctx, gomock.Any()).
		Return(nil, data.ErrCategoryNameExists).
		Times(1)

	_, err := service.Create(ctx, &model.CreateCategoryRequest{UserID: testUserID, Name: "Work"})
	assert.ErrorIs(t, err, data.ErrCategoryNameExists)
}

func TestCategoryService_List(t *testing.T) {
	t.Parallel()
	repo, service := newCategoryService(t)
	ctx := context.Background()

	repo.EXPECT().
		ListForUser(ctx, testUserID).
		Return([]*model.CategoryWithTaskCount{
			{Category: model.Category{ID: "cat-1", Name: "Home"}, TaskCount: 2},
			{Category: model.Category{ID: "cat-2", Name: "Work"}, TaskCount: 0},
		}, nil).
		Times(1)

	categories, err := service.List(ctx, testUserID)

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, 2, categories[0].TaskCount)
}

func TestCategoryService_Delete(t *testing.T) {
	t.Parallel()
	repo, service := newCategoryService(t)
	ctx := context.Background()

	repo.EXPECT().Delete(ctx, testUserID, "cat-1").Return(true, nil).Times(1)

	deleted, err := service.Delete(ctx, testUserID, "cat-1")
	require.NoError(t, err)
	assert.True(t, deleted)
}
