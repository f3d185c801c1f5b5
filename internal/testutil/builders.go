package testutil

import (
	"time"

	"github.com/neurozen/neurozen/internal/domain/model"
)

// TaskRequestBuilder provides a fluent interface for building CreateTaskRequest objects for testing.
type TaskRequestBuilder struct {
	req *model.CreateTaskRequest
}

// NewTaskRequest creates a new TaskRequestBuilder with sensible defaults.
func NewTaskRequest(userID string) *TaskRequestBuilder {
	return &TaskRequestBuilder{
		req: &model.CreateTaskRequest{
			UserID:   userID,
			Title:    "Write weekly review",
			Status:   model.TaskStatusPending,
			Priority: model.TaskPriorityMedium,
		},
	}
}

// WithTitle sets the task title.
func (b *TaskRequestBuilder) WithTitle(title string) *TaskRequestBuilder {
	b.req.Title = title
	return b
}

// WithStatus sets the task status.
func (b *TaskRequestBuilder) WithStatus(status model.TaskStatus) *TaskRequestBuilder {
	b.req.Status = status
	return b
}

// WithPriority sets the task priority.
func (b *TaskRequestBuilder) WithPriority(priority model.TaskPriority) *TaskRequestBuilder {
	b.req.Priority = priority
	return b
}

// WithDueDate sets the task due date.
func (b *TaskRequestBuilder) WithDueDate(due time.Time) *TaskRequestBuilder {
	b.req.DueDate = &due
	return b
}

// WithCategory sets the task category ID.
func (b *TaskRequestBuilder) WithCategory(categoryID string) *TaskRequestBuilder {
	b.req.CategoryID = &categoryID
	return b
}

// Build returns the constructed request.
func (b *TaskRequestBuilder) Build() *model.CreateTaskRequest {
	return b.req
}

// MoodEntryRequestBuilder provides a fluent interface for building CreateMoodEntryRequest objects.
type MoodEntryRequestBuilder struct {
	req *model.CreateMoodEntryRequest
}

// NewMoodEntryRequest creates a new MoodEntryRequestBuilder with sensible defaults.
func NewMoodEntryRequest(userID string) *MoodEntryRequestBuilder {
	return &MoodEntryRequestBuilder{
		req: &model.CreateMoodEntryRequest{
			UserID:      userID,
			Date:        TestTime().Truncate(24 * time.Hour),
			Mood:        model.MoodNeutral,
			EnergyLevel: 5,
		},
	}
}

// WithDate sets the entry date.
func (b *MoodEntryRequestBuilder) WithDate(date time.Time) *MoodEntryRequestBuilder {
	b.req.Date = date
	return b
}

// WithMood sets the mood rating.
func (b *MoodEntryRequestBuilder) WithMood(mood model.Mood) *MoodEntryRequestBuilder {
	b.req.Mood = mood
	return b
}

// WithEnergy sets the energy level.
func (b *MoodEntryRequestBuilder) WithEnergy(level int) *MoodEntryRequestBuilder {
	b.req.EnergyLevel = level
	return b
}

// WithSleepHours sets the hours slept.
func (b *MoodEntryRequestBuilder) WithSleepHours(hours float64) *MoodEntryRequestBuilder {
	b.req.SleepHours = &hours
	return b
}

// Build returns the constructed request.
func (b *MoodEntryRequestBuilder) Build() *model.CreateMoodEntryRequest {
	return b.req
}
