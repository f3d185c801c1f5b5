package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// Exercises renders the breathing exercise catalog, optionally filtered
// by difficulty.
// GET /exercises.
func (h *UIHandlers) Exercises(w http.ResponseWriter, r *http.Request) {
	rawDifficulty := strings.TrimSpace(r.URL.Query().Get("difficulty"))
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "NeuroZen - Breathing Exercises", PageTitle: "Breathing Exercises", CurrentPage: PageExercises},
		Fetch: func(ctx context.Context, pageData map[string]any) error {
			var difficulty *model.ExerciseDifficulty
			if parsed, ok := model.ParseExerciseDifficulty(rawDifficulty); ok {
				difficulty = &parsed
			}

			exercises, err := h.ExerciseSvc.List(ctx, difficulty)
			if err != nil {
				h.logger().ErrorContext(ctx, "failed to list exercises", "error", err)
				return err
			}
			pageData["Exercises"] = exercises
			pageData["Difficulty"] = rawDifficulty
			pageData["Difficulties"] = []model.ExerciseDifficulty{
				model.ExerciseDifficultyEasy, model.ExerciseDifficultyMedium, model.ExerciseDifficultyHard,
			}
			return nil
		},
	})
}

// ExerciseView renders a single exercise with its step-by-step guide.
// GET /exercises/{id}.
func (h *UIHandlers) ExerciseView(w http.ResponseWriter, r *http.Request) {
	exercise, err := h.ExerciseSvc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, data.ErrExerciseNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger().ErrorContext(r.Context(), "failed to load exercise", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "NeuroZen - " + exercise.Name,
			PageTitle:   exercise.Name,
			CurrentPage: PageExerciseView,
		},
		Fetch: func(_ context.Context, pageData map[string]any) error {
			pageData["Exercise"] = exercise
			pageData["Steps"] = exercise.StepList()
			return nil
		},
	})
}
