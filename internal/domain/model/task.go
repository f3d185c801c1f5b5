package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxTaskTitleLen = 200

// TaskStatus tracks where a task sits in its lifecycle.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Valid reports whether the task status is supported.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// Label returns the human-readable form used in list views and badges.
func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusPending:
		return "Pending"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusCompleted:
		return "Completed"
	case TaskStatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// ParseTaskStatus normalizes a status string and reports whether it is supported.
func ParseTaskStatus(value string) (TaskStatus, bool) {
	s := TaskStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// TaskPriority orders tasks by urgency.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether the task priority is supported.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// Label returns the human-readable form.
func (p TaskPriority) Label() string {
	switch p {
	case TaskPriorityLow:
		return "Low"
	case TaskPriorityMedium:
		return "Medium"
	case TaskPriorityHigh:
		return "High"
	default:
		return string(p)
	}
}

// ParseTaskPriority normalizes a priority string and reports whether it is supported.
func ParseTaskPriority(value string) (TaskPriority, bool) {
	p := TaskPriority(strings.ToLower(strings.TrimSpace(value)))
	if p.Valid() {
		return p, true
	}
	return "", false
}

// Task represents a to-do item owned by a user.
type Task struct {
	ID          string       `json:"id"                    db:"id"`
	UserID      string       `json:"user_id"               db:"user_id"`
	Title       string       `json:"title"                 db:"title"`
	Description string       `json:"description"           db:"description"`
	DueDate     *time.Time   `json:"due_date,omitempty"    db:"due_date"`
	Status      TaskStatus   `json:"status"                db:"status"`
	Priority    TaskPriority `json:"priority"              db:"priority"`
	CategoryID  *string      `json:"category_id,omitempty" db:"category_id"`
	CreatedAt   time.Time    `json:"created_at"            db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"            db:"updated_at"`
}

// Overdue reports whether the task has a due date in the past and is still open.
func (t *Task) Overdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled {
		return false
	}
	return t.DueDate.Before(now)
}

// TaskWithCategory joins a task with its category name for list views,
// avoiding N+1 category lookups.
type TaskWithCategory struct {
	Task
	CategoryName  *string `db:"category_name"`
	CategoryColor *string `db:"category_color"`
}

// CreateTaskRequest represents parameters to create a Task.
type CreateTaskRequest struct {
	UserID      string       `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Status      TaskStatus   `json:"status,omitempty"`
	Priority    TaskPriority `json:"priority,omitempty"`
	CategoryID  *string      `json:"category_id,omitempty"`
}

// Validate validates CreateTaskRequest, applying defaults for status and priority.
func (r *CreateTaskRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxTaskTitleLen {
		return errors.New("title cannot exceed 200 characters")
	}
	if r.Status == "" {
		r.Status = TaskStatusPending
	} else if !r.Status.Valid() {
		return errors.New("status must be one of: pending, in_progress, completed, cancelled")
	}
	if r.Priority == "" {
		r.Priority = TaskPriorityMedium
	} else if !r.Priority.Valid() {
		return errors.New("priority must be one of: low, medium, high")
	}
	return nil
}

// UpdateTaskRequest represents parameters to update a Task. Nil fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	ClearDue    bool          `json:"clear_due,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	CategoryID  *string       `json:"category_id,omitempty"`
}

// Validate validates UpdateTaskRequest.
func (r *UpdateTaskRequest) Validate() error {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			return errors.New("title cannot be empty")
		}
		if utf8.RuneCountInString(title) > maxTaskTitleLen {
			return errors.New("title cannot exceed 200 characters")
		}
	}
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("status must be one of: pending, in_progress, completed, cancelled")
	}
	if r.Priority != nil && !r.Priority.Valid() {
		return errors.New("priority must be one of: low, medium, high")
	}
	return nil
}

// TasksListOptions controls paging and filtering for listing tasks.
// Notes:
// - Sort supports: "created_at", "due_date", "priority" (case-insensitive).
// - Dir supports: "asc", "desc".
// - Q matches title via ILIKE substring.
type TasksListOptions struct {
	UserID     string
	Limit      int
	Offset     int
	Q          *string
	Status     *TaskStatus
	Priority   *TaskPriority
	CategoryID *string
	Sort       string
	Dir        string
}
