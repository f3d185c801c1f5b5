package service

import (
	"context"
	"fmt"

	"github.com/neurozen/neurozen/internal/core"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// ExerciseServiceOptions groups dependencies for ExerciseService.
type ExerciseServiceOptions struct {
	Exercises core.ExerciseRepository
}

// ExerciseService serves the breathing exercise catalog. The catalog is
// shared across users; only admins create or remove entries.
type ExerciseService struct {
	exercises core.ExerciseRepository
}

// NewExerciseService constructs a new ExerciseService.
func NewExerciseService(opts ExerciseServiceOptions) *ExerciseService {
	if opts.Exercises == nil {
		panic("ExerciseRepository is required")
	}
	return &ExerciseService{exercises: opts.Exercises}
}

// Create adds an exercise to the catalog.
func (s *ExerciseService) Create(ctx context.Context, req *model.CreateBreathingExerciseRequest) (*model.BreathingExercise, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	return s.exercises.Create(ctx, req)
}

// GetByID retrieves an exercise.
func (s *ExerciseService) GetByID(ctx context.Context, id string) (*model.BreathingExercise, error) {
	return s.exercises.GetByID(ctx, id)
}

// List returns the catalog, optionally filtered by difficulty.
func (s *ExerciseService) List(ctx context.Context, difficulty *model.ExerciseDifficulty) ([]*model.BreathingExercise, error) {
	if difficulty != nil && !difficulty.Valid() {
		return nil, fmt.Errorf("invalid difficulty %q", *difficulty)
	}
	return s.exercises.List(ctx, difficulty)
}

// Delete removes an exercise from the catalog.
func (s *ExerciseService) Delete(ctx context.Context, id string) (bool, error) {
	return s.exercises.Delete(ctx, id)
}
