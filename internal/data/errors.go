package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")

	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameExists = errors.New("category name already exists")

	ErrTaskNotFound = errors.New("task not found")
	ErrNoteNotFound = errors.New("note not found")

	ErrMoodEntryNotFound = errors.New("mood entry not found")
	// ErrMoodEntryExists is returned when a second entry is recorded for the same day.
	ErrMoodEntryExists = errors.New("mood entry already exists for that date")

	ErrPomodoroNotFound = errors.New("pomodoro session not found")

	ErrQuoteNotFound = errors.New("daily quote not found")
	// ErrQuoteDateExists is returned when a quote is already scheduled for the date.
	ErrQuoteDateExists = errors.New("a quote is already scheduled for that date")

	ErrExerciseNotFound = errors.New("breathing exercise not found")
)
