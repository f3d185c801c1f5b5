package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/neurozen/neurozen/internal/core"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// TaskServiceOptions groups dependencies for TaskService.
type TaskServiceOptions struct {
	Tasks      core.TaskRepository
	Categories core.CategoryRepository
}

// TaskService provides task CRUD with category ownership checks.
type TaskService struct {
	tasks      core.TaskRepository
	categories core.CategoryRepository
}

// NewTaskService constructs a new TaskService.
func NewTaskService(opts TaskServiceOptions) *TaskService {
	if opts.Tasks == nil {
		panic("TaskRepository is required")
	}
	return &TaskService{tasks: opts.Tasks, categories: opts.Categories}
}

// Create creates a task after verifying any referenced category belongs to the user.
func (s *TaskService) Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	if err := s.checkCategoryOwnership(ctx, req.UserID, req.CategoryID); err != nil {
		return nil, err
	}
	return s.tasks.Create(ctx, req)
}

// GetByID retrieves a task belonging to the user.
func (s *TaskService) GetByID(ctx context.Context, userID, id string) (*model.Task, error) {
	return s.tasks.GetByID(ctx, userID, id)
}

// List returns tasks for the user using the given filters.
func (s *TaskService) List(ctx context.Context, opts model.TasksListOptions) ([]*model.TaskWithCategory, error) {
	return s.tasks.ListWithOptions(ctx, normalizeTaskListOptions(opts))
}

// CountByStatus returns the user's task counts grouped by status.
func (s *TaskService) CountByStatus(ctx context.Context, userID string) (map[model.TaskStatus]int, error) {
	return s.tasks.CountByStatus(ctx, userID)
}

// Update updates a task belonging to the user.
func (s *TaskService) Update(ctx context.Context, userID, id string, req model.UpdateTaskRequest) (*model.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		if err := s.checkCategoryOwnership(ctx, userID, req.CategoryID); err != nil {
			return nil, err
		}
	}
	return s.tasks.Update(ctx, userID, id, req)
}

// SetStatus moves a task into the given status.
func (s *TaskService) SetStatus(ctx context.Context, userID, id string, status model.TaskStatus) (*model.Task, error) {
	return s.Update(ctx, userID, id, model.UpdateTaskRequest{Status: &status})
}

// Delete removes a task belonging to the user.
func (s *TaskService) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.tasks.Delete(ctx, userID, id)
}

func (s *TaskService) checkCategoryOwnership(ctx context.Context, userID string, categoryID *string) error {
	if s.categories == nil || categoryID == nil || *categoryID == "" {
		return nil
	}
	if _, err := s.categories.GetByID(ctx, userID, *categoryID); err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	return nil
}

func normalizeTaskListOptions(opts model.TasksListOptions) model.TasksListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Limit > 200 {
		opts.Limit = 200
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Sort == "" {
		opts.Sort = "created_at"
	}
	if opts.Dir == "" {
		opts.Dir = "desc"
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) == "" {
		opts.Q = nil
	}
	return opts
}
