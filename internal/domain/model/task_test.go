package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	status, ok := ParseTaskStatus("In_Progress")
	assert.True(t, ok)
	assert.Equal(t, TaskStatusInProgress, status)

	status, ok = ParseTaskStatus(" pending ")
	assert.True(t, ok)
	assert.Equal(t, TaskStatusPending, status)

	_, ok = ParseTaskStatus("snoozed")
	assert.False(t, ok)
}

func TestParseTaskPriority(t *testing.T) {
	priority, ok := ParseTaskPriority("HIGH")
	assert.True(t, ok)
	assert.Equal(t, TaskPriorityHigh, priority)

	_, ok = ParseTaskPriority("critical")
	assert.False(t, ok)
}

func TestCreateTaskRequest_Validate_Defaults(t *testing.T) {
	req := CreateTaskRequest{UserID: "user-1", Title: "Water the plants"}
	require.NoError(t, req.Validate())
	assert.Equal(t, TaskStatusPending, req.Status)
	assert.Equal(t, TaskPriorityMedium, req.Priority)
}

func TestCreateTaskRequest_Validate_Errors(t *testing.T) {
	req := CreateTaskRequest{UserID: "user-1"}
	assert.Error(t, req.Validate(), "empty title rejected")

	req = CreateTaskRequest{Title: "no owner"}
	assert.Error(t, req.Validate(), "missing user rejected")

	req = CreateTaskRequest{UserID: "user-1", Title: "x", Status: "snoozed"}
	assert.Error(t, req.Validate(), "unknown status rejected")
}

func TestUpdateTaskRequest_Validate(t *testing.T) {
	empty := ""
	req := UpdateTaskRequest{Title: &empty}
	assert.Error(t, req.Validate())

	bad := TaskPriority("urgent")
	req = UpdateTaskRequest{Priority: &bad}
	assert.Error(t, req.Validate())

	ok := TaskStatusCompleted
	req = UpdateTaskRequest{Status: &ok}
	assert.NoError(t, req.Validate())
}

func TestTask_Overdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	task := Task{DueDate: &past, Status: TaskStatusPending}
	assert.True(t, task.Overdue(now))

	task.Status = TaskStatusCompleted
	assert.False(t, task.Overdue(now), "completed tasks are never overdue")

	task = Task{Status: TaskStatusPending}
	assert.False(t, task.Overdue(now), "no due date means not overdue")
}
