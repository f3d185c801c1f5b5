// Package devseed populates a development database with a demo account and
// enough realistic data to exercise every page of the app.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neurozen/neurozen/internal/adapters/password"
	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
	"github.com/neurozen/neurozen/internal/service"
)

// DemoUsername and DemoPassword are the credentials of the seeded account.
const (
	DemoUsername = "zen"
	DemoEmail    = "zen@example.com"
	DemoPassword = "take-a-deep-breath"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB         *sql.DB
	users      *data.UserRepo
	categories *service.CategoryService
	tasks      *service.TaskService
	notes      *service.NoteService
	moods      *service.MoodService
	quotes     *service.QuoteService
	exercises  *service.ExerciseService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	categoryRepo := data.NewCategoryRepo(db)
	taskRepo := data.NewTaskRepo(db)

	return Services{
		DB:    db,
		users: data.NewUserRepo(db),
		categories: service.NewCategoryService(service.CategoryServiceOptions{
			Categories: categoryRepo,
		}),
		tasks: service.NewTaskService(service.TaskServiceOptions{
			Tasks:      taskRepo,
			Categories: categoryRepo,
		}),
		notes: service.NewNoteService(service.NoteServiceOptions{
			Notes: data.NewNoteRepo(db),
		}),
		moods: service.NewMoodService(service.MoodServiceOptions{
			Moods: data.NewMoodRepo(db),
		}),
		quotes: service.NewQuoteService(service.QuoteServiceOptions{
			Quotes: data.NewQuoteRepo(db),
		}),
		exercises: service.NewExerciseService(service.ExerciseServiceOptions{
			Exercises: data.NewExerciseRepo(db),
		}),
	}
}

// Run seeds the database. Re-running against an already seeded database is
// safe: rows that collide on unique constraints are skipped.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	user, err := ensureDemoUser(ctx, svcs, logger)
	if err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}

	categories, err := seedCategories(ctx, svcs, user.ID, logger)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if err := seedTasks(ctx, svcs, user.ID, categories); err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}
	if err := seedNotes(ctx, svcs, user.ID); err != nil {
		return fmt.Errorf("seed notes: %w", err)
	}
	if err := seedMoods(ctx, svcs, user.ID); err != nil {
		return fmt.Errorf("seed moods: %w", err)
	}
	if err := seedQuotes(ctx, svcs); err != nil {
		return fmt.Errorf("seed quotes: %w", err)
	}
	if err := seedExercises(ctx, svcs, logger); err != nil {
		return fmt.Errorf("seed exercises: %w", err)
	}

	logger.InfoContext(ctx, "development data seeded",
		"username", DemoUsername,
		"password", DemoPassword,
	)
	return nil
}

func ensureDemoUser(ctx context.Context, svcs Services, logger *slog.Logger) (*model.User, error) {
	existing, err := svcs.users.GetByUsername(ctx, DemoUsername)
	if err == nil {
		logger.InfoContext(ctx, "demo user already exists, reusing it", "username", DemoUsername)
		return existing, nil
	}
	if !errors.Is(err, data.ErrUserNotFound) {
		return nil, err
	}

	hash, err := password.NewBcryptHasher().Hash(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	return svcs.users.Create(ctx, &model.CreateUserRequest{
		Username: DemoUsername,
		Email:    DemoEmail,
		Password: DemoPassword,
	}, hash)
}

func seedCategories(ctx context.Context, svcs Services, userID string, logger *slog.Logger) (map[string]string, error) {
	seeds := []model.CreateCategoryRequest{
		{UserID: userID, Name: "Work", Color: "#6366F1", Icon: "bi-briefcase", Description: "Job and career tasks"},
		{UserID: userID, Name: "Personal", Color: "#10B981", Icon: "bi-house", Description: "Errands and home projects"},
		{UserID: userID, Name: "Health", Color: "#F59E0B", Icon: "bi-heart-pulse", Description: "Exercise, sleep, and checkups"},
	}

	ids := make(map[string]string, len(seeds))
	for i := range seeds {
		req := seeds[i]
		category, err := svcs.categories.Create(ctx, &req)
		if errors.Is(err, data.ErrCategoryNameExists) {
			logger.DebugContext(ctx, "category already seeded", "name", req.Name)
			continue
		}
		if err != nil {
			return nil, err
		}
		ids[category.Name] = category.ID
	}
	return ids, nil
}

func seedTasks(ctx context.Context, svcs Services, userID string, categories map[string]string) error {
	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1)
	nextWeek := now.AddDate(0, 0, 7)

	seeds := []model.CreateTaskRequest{
		{
			UserID:      userID,
			Title:       "Prepare sprint review slides",
			Description: "Cover the quarter goals and the open incidents.",
			Priority:    model.TaskPriorityHigh,
			DueDate:     &tomorrow,
			CategoryID:  categoryID(categories, "Work"),
		},
		{
			UserID:     userID,
			Title:      "Book dentist appointment",
			Priority:   model.TaskPriorityMedium,
			DueDate:    &nextWeek,
			CategoryID: categoryID(categories, "Health"),
		},
		{
			UserID:      userID,
			Title:       "Water the plants",
			Description: "The fern in the hallway dries out fast.",
			Priority:    model.TaskPriorityLow,
			CategoryID:  categoryID(categories, "Personal"),
		},
		{
			UserID:   userID,
			Title:    "Morning stretch routine",
			Status:   model.TaskStatusCompleted,
			Priority: model.TaskPriorityLow,
		},
	}

	for i := range seeds {
		req := seeds[i]
		if _, err := svcs.tasks.Create(ctx, &req); err != nil {
			return err
		}
	}
	return nil
}

func categoryID(categories map[string]string, name string) *string {
	id, ok := categories[name]
	if !ok {
		return nil
	}
	return &id
}

func seedNotes(ctx context.Context, svcs Services, userID string) error {
	seeds := []model.CreateNoteRequest{
		{
			UserID:   userID,
			Title:    "Weekly intentions",
			Content:  "Less doomscrolling, more walking. One deep-work block before lunch.",
			IsPinned: true,
			Color:    "#FEF3C7",
		},
		{
			UserID:  userID,
			Title:   "Book recommendations",
			Content: "Four Thousand Weeks. Why We Sleep. The Shallows.",
			Color:   "#DBEAFE",
		},
		{
			UserID:  userID,
			Title:   "Gratitude",
			Content: "Quiet morning coffee. The first spring sun on the balcony.",
		},
	}

	for i := range seeds {
		req := seeds[i]
		if _, err := svcs.notes.Create(ctx, &req); err != nil {
			return err
		}
	}
	return nil
}

func seedMoods(ctx context.Context, svcs Services, userID string) error {
	now := time.Now()
	sleep := func(h float64) *float64 { return &h }

	seeds := []model.CreateMoodEntryRequest{
		{
			UserID: userID, Date: now, Mood: model.MoodHappy,
			Notes: "Productive day, got outside at lunch.", EnergyLevel: 7,
			SleepHours: sleep(7.5), Activities: "walking, reading",
		},
		{
			UserID: userID, Date: now.AddDate(0, 0, -1), Mood: model.MoodNeutral,
			Notes: "Meetings back to back.", EnergyLevel: 5,
			SleepHours: sleep(6), Activities: "work",
		},
		{
			UserID: userID, Date: now.AddDate(0, 0, -2), Mood: model.MoodVeryHappy,
			Notes: "Long hike, slept like a rock after.", EnergyLevel: 9,
			SleepHours: sleep(8.5), Activities: "hiking, cooking",
		},
	}

	for i := range seeds {
		req := seeds[i]
		if _, err := svcs.moods.Log(ctx, &req); err != nil && !errors.Is(err, data.ErrMoodEntryExists) {
			return err
		}
	}
	return nil
}

func seedQuotes(ctx context.Context, svcs Services) error {
	now := time.Now()

	seeds := []model.CreateDailyQuoteRequest{
		{Quote: "You should sit in meditation for twenty minutes every day, unless you are too busy. Then you should sit for an hour.", Author: "Zen proverb", Date: now},
		{Quote: "Nature does not hurry, yet everything is accomplished.", Author: "Lao Tzu", Date: now.AddDate(0, 0, 1)},
		{Quote: "The quieter you become, the more you can hear.", Author: "Ram Dass", Date: now.AddDate(0, 0, 2)},
	}

	for i := range seeds {
		req := seeds[i]
		if _, err := svcs.quotes.Schedule(ctx, &req); err != nil && !errors.Is(err, data.ErrQuoteDateExists) {
			return err
		}
	}
	return nil
}

func seedExercises(ctx context.Context, svcs Services, logger *slog.Logger) error {
	existing, err := svcs.exercises.List(ctx, nil)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.DebugContext(ctx, "exercise catalog already seeded", "count", len(existing))
		return nil
	}

	seeds := []model.CreateBreathingExerciseRequest{
		{
			Name:        "4-7-8 Breathing",
			Description: "A relaxing pattern that slows the heart rate and helps with falling asleep.",
			Duration:    5,
			Difficulty:  model.ExerciseDifficultyEasy,
			Steps: "Sit comfortably with a straight back\n" +
				"Exhale completely through your mouth\n" +
				"Inhale quietly through your nose for 4 seconds\n" +
				"Hold your breath for 7 seconds\n" +
				"Exhale through your mouth for 8 seconds\n" +
				"Repeat the cycle four times",
		},
		{
			Name:        "Box Breathing",
			Description: "Equal-length phases used to steady focus before demanding work.",
			Duration:    4,
			Difficulty:  model.ExerciseDifficultyEasy,
			Steps: "Inhale through your nose for 4 seconds\n" +
				"Hold your breath for 4 seconds\n" +
				"Exhale through your mouth for 4 seconds\n" +
				"Hold empty for 4 seconds\n" +
				"Repeat for four minutes",
		},
		{
			Name:        "Diaphragmatic Breathing",
			Description: "Deep belly breathing that engages the diaphragm and reduces tension.",
			Duration:    10,
			Difficulty:  model.ExerciseDifficultyMedium,
			Steps: "Lie down with one hand on your chest and one on your belly\n" +
				"Inhale slowly through your nose, letting the belly rise\n" +
				"Keep the chest hand as still as possible\n" +
				"Exhale slowly through pursed lips\n" +
				"Continue for ten minutes",
		},
		{
			Name:        "Alternate Nostril Breathing",
			Description: "A balancing pranayama technique that asks for steady attention to the pattern.",
			Duration:    8,
			Difficulty:  model.ExerciseDifficultyHard,
			Steps: "Close the right nostril with your thumb and inhale through the left\n" +
				"Close the left nostril and exhale through the right\n" +
				"Inhale through the right nostril\n" +
				"Close it and exhale through the left\n" +
				"That is one cycle; continue for eight minutes",
		},
	}

	for i := range seeds {
		req := seeds[i]
		if _, err := svcs.exercises.Create(ctx, &req); err != nil {
			return err
		}
	}
	return nil
}
