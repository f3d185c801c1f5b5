package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/neurozen/neurozen/internal/domain/model"
	"github.com/neurozen/neurozen/internal/testutil"
)

func createTestUser(t *testing.T, db *sql.DB, name string) *model.User {
	t.Helper()
	ur := NewUserRepo(db)
	u, err := ur.Create(context.Background(), &model.CreateUserRequest{
		Username: name,
		Email:    name + "@example.com",
		Password: "sup3rsecret",
	}, "$2a$10$notarealhashnotarealhashnotarealhash")
	require.NoError(t, err)
	return u
}

func TestTaskRepo_Create_Get_Update_Delete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewTaskRepo(db)

		u := createTestUser(t, db, fmt.Sprintf("tasker-%d", time.Now().UnixNano()))

		// create with defaults
		task, err := repo.Create(ctx, &model.CreateTaskRequest{
			UserID: u.ID,
			Title:  "  Water the plants  ",
		})
		require.NoError(t, err)
		require.NotEmpty(t, task.ID)
		assert.Equal(t, "Water the plants", task.Title)
		assert.Equal(t, model.TaskStatusPending, task.Status)
		assert.Equal(t, model.TaskPriorityMedium, task.Priority)
		assert.Nil(t, task.CategoryID)

		// get by id
		got, err := repo.GetByID(ctx, u.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.Title, got.Title)

		// other users never see it
		_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000", task.ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)

		// update status and clear due date
		due := time.Now().Add(24 * time.Hour).UTC()
		_, err = repo.Update(ctx, u.ID, task.ID, model.UpdateTaskRequest{DueDate: &due})
		require.NoError(t, err)

		status := model.TaskStatusCompleted
		updated, err := repo.Update(ctx, u.ID, task.ID, model.UpdateTaskRequest{
			Status:   &status,
			ClearDue: true,
		})
		require.NoError(t, err)
		assert.Equal(t, model.TaskStatusCompleted, updated.Status)
		assert.Nil(t, updated.DueDate)

		// delete
		ok, err := repo.Delete(ctx, u.ID, task.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = repo.GetByID(ctx, u.ID, task.ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestTaskRepo_ListWithOptions_Filters(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewTaskRepo(db)
		catRepo := NewCategoryRepo(db)

		u := createTestUser(t, db, fmt.Sprintf("lister-%d", time.Now().UnixNano()))

		cat, err := catRepo.Create(ctx, &model.CreateCategoryRequest{
			UserID: u.ID,
			Name:   "Work",
		})
		require.NoError(t, err)
		assert.Equal(t, "#FFF5E6", cat.Color)

		_, err = repo.Create(ctx, testutil.NewTaskRequest(u.ID).
			WithTitle("Prepare slides").
			WithPriority(model.TaskPriorityHigh).
			WithCategory(cat.ID).
			Build())
		require.NoError(t, err)

		_, err = repo.Create(ctx, testutil.NewTaskRequest(u.ID).
			WithTitle("Buy groceries").
			Build())
		require.NoError(t, err)

		// filter by category, expect the joined label
		lst, err := repo.ListWithOptions(ctx, model.TasksListOptions{
			UserID:     u.ID,
			CategoryID: &cat.ID,
		})
		require.NoError(t, err)
		require.Len(t, lst, 1)
		assert.Equal(t, "Prepare slides", lst[0].Title)
		require.NotNil(t, lst[0].CategoryName)
		assert.Equal(t, "Work", *lst[0].CategoryName)

		// substring search
		q := "grocer"
		lst, err = repo.ListWithOptions(ctx, model.TasksListOptions{UserID: u.ID, Q: &q})
		require.NoError(t, err)
		require.Len(t, lst, 1)
		assert.Equal(t, "Buy groceries", lst[0].Title)

		// priority filter
		high := model.TaskPriorityHigh
		lst, err = repo.ListWithOptions(ctx, model.TasksListOptions{UserID: u.ID, Priority: &high})
		require.NoError(t, err)
		require.Len(t, lst, 1)
		assert.Equal(t, "Prepare slides", lst[0].Title)
	})
}

func TestUserRepo_DuplicateUsernameAndEmail(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewUserRepo(db)

		name := fmt.Sprintf("dupe-%d", time.Now().UnixNano())
		_, err := repo.Create(ctx, &model.CreateUserRequest{
			Username: name,
			Email:    name + "@example.com",
		}, "hash")
		require.NoError(t, err)

		_, err = repo.Create(ctx, &model.CreateUserRequest{
			Username: name,
			Email:    name + "-other@example.com",
		}, "hash")
		assert.ErrorIs(t, err, ErrUsernameExists)

		_, err = repo.Create(ctx, &model.CreateUserRequest{
			Username: name + "-other",
			Email:    name + "@example.com",
		}, "hash")
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

func TestMoodRepo_OneEntryPerDay(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewMoodRepo(db)

		u := createTestUser(t, db, fmt.Sprintf("moody-%d", time.Now().UnixNano()))
		day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

		entry, err := repo.Create(ctx, testutil.NewMoodEntryRequest(u.ID).
			WithDate(day).
			WithMood(model.MoodHappy).
			WithSleepHours(7.5).
			Build())
		require.NoError(t, err)
		assert.Equal(t, model.MoodHappy, entry.Mood)

		_, err = repo.Create(ctx, testutil.NewMoodEntryRequest(u.ID).
			WithDate(day).
			WithMood(model.MoodSad).
			Build())
		assert.ErrorIs(t, err, ErrMoodEntryExists)

		got, err := repo.GetByDate(ctx, u.ID, day)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, got.ID)
	})
}
