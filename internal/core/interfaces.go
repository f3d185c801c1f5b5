// Package core defines the repository interfaces (ports in hexagonal
// architecture) between the service layer and the data layer. Services depend
// on these contracts, never on concrete repositories.
package core

import (
	"context"
	"time"

	"github.com/neurozen/neurozen/internal/domain/model"
)

// UserRepository defines the interface for user account data operations.
type UserRepository interface {
	// Create inserts a user; passwordHash is empty for SSO-provisioned accounts.
	Create(ctx context.Context, req *model.CreateUserRequest, passwordHash string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// CategoryRepository defines the interface for category data operations.
// Every operation is scoped to the owning user.
type CategoryRepository interface {
	Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	GetByID(ctx context.Context, userID, id string) (*model.Category, error)
	ListForUser(ctx context.Context, userID string) ([]*model.CategoryWithTaskCount, error)
	Update(ctx context.Context, userID, id string, req model.UpdateCategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// TaskRepository defines the interface for task data operations.
type TaskRepository interface {
	Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error)
	GetByID(ctx context.Context, userID, id string) (*model.Task, error)
	ListWithOptions(ctx context.Context, opts model.TasksListOptions) ([]*model.TaskWithCategory, error)
	CountByStatus(ctx context.Context, userID string) (map[model.TaskStatus]int, error)
	Update(ctx context.Context, userID, id string, req model.UpdateTaskRequest) (*model.Task, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// NoteRepository defines the interface for note data operations.
type NoteRepository interface {
	Create(ctx context.Context, req *model.CreateNoteRequest) (*model.Note, error)
	GetByID(ctx context.Context, userID, id string) (*model.Note, error)
	ListWithOptions(ctx context.Context, opts model.NotesListOptions) ([]*model.Note, error)
	Update(ctx context.Context, userID, id string, req model.UpdateNoteRequest) (*model.Note, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// MoodRepository defines the interface for mood entry data operations.
type MoodRepository interface {
	Create(ctx context.Context, req *model.CreateMoodEntryRequest) (*model.MoodEntry, error)
	GetByID(ctx context.Context, userID, id string) (*model.MoodEntry, error)
	GetByDate(ctx context.Context, userID string, date time.Time) (*model.MoodEntry, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*model.MoodEntry, error)
	Update(ctx context.Context, userID, id string, req model.UpdateMoodEntryRequest) (*model.MoodEntry, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// PomodoroRepository defines the interface for focus session data operations.
type PomodoroRepository interface {
	Start(ctx context.Context, req *model.StartPomodoroRequest) (*model.PomodoroSession, error)
	GetActive(ctx context.Context, userID string) (*model.PomodoroSession, error)
	Finish(ctx context.Context, userID, id string, completed bool) (*model.PomodoroSession, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*model.PomodoroSessionWithTask, error)
	Stats(ctx context.Context, userID string) (*model.PomodoroStats, error)
}

// QuoteRepository defines the interface for daily quote data operations.
type QuoteRepository interface {
	Create(ctx context.Context, req *model.CreateDailyQuoteRequest) (*model.DailyQuote, error)
	GetByDate(ctx context.Context, date time.Time) (*model.DailyQuote, error)
	GetLatest(ctx context.Context, onOrBefore time.Time) (*model.DailyQuote, error)
	List(ctx context.Context, limit, offset int) ([]*model.DailyQuote, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ExerciseRepository defines the interface for breathing exercise catalog operations.
type ExerciseRepository interface {
	Create(ctx context.Context, req *model.CreateBreathingExerciseRequest) (*model.BreathingExercise, error)
	GetByID(ctx context.Context, id string) (*model.BreathingExercise, error)
	List(ctx context.Context, difficulty *model.ExerciseDifficulty) ([]*model.BreathingExercise, error)
	Delete(ctx context.Context, id string) (bool, error)
}
