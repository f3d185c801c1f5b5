package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxExerciseNameLen = 200

// ExerciseDifficulty grades breathing exercises for beginners through practiced users.
type ExerciseDifficulty string

const (
	ExerciseDifficultyEasy   ExerciseDifficulty = "easy"
	ExerciseDifficultyMedium ExerciseDifficulty = "medium"
	ExerciseDifficultyHard   ExerciseDifficulty = "hard"
)

// Valid reports whether the difficulty is supported.
func (d ExerciseDifficulty) Valid() bool {
	switch d {
	case ExerciseDifficultyEasy, ExerciseDifficultyMedium, ExerciseDifficultyHard:
		return true
	default:
		return false
	}
}

// Label returns the human-readable form.
func (d ExerciseDifficulty) Label() string {
	switch d {
	case ExerciseDifficultyEasy:
		return "Easy"
	case ExerciseDifficultyMedium:
		return "Medium"
	case ExerciseDifficultyHard:
		return "Hard"
	default:
		return string(d)
	}
}

// ParseExerciseDifficulty normalizes a difficulty string and reports whether it is supported.
func ParseExerciseDifficulty(value string) (ExerciseDifficulty, bool) {
	d := ExerciseDifficulty(strings.ToLower(strings.TrimSpace(value)))
	if d.Valid() {
		return d, true
	}
	return "", false
}

// BreathingExercise is a catalog entry describing a guided breathing routine.
// The catalog is global; entries are maintained by admins.
type BreathingExercise struct {
	ID          string             `json:"id"          db:"id"`
	Name        string             `json:"name"        db:"name"`
	Description string             `json:"description" db:"description"`
	Duration    int                `json:"duration"    db:"duration"`
	Steps       string             `json:"steps"       db:"steps"`
	Difficulty  ExerciseDifficulty `json:"difficulty"  db:"difficulty"`
	ImageURL    string             `json:"image_url"   db:"image_url"`
	CreatedAt   time.Time          `json:"created_at"  db:"created_at"`
}

// StepList splits the stored step text into individual instructions,
// one per non-empty line.
func (e *BreathingExercise) StepList() []string {
	lines := strings.Split(e.Steps, "\n")
	steps := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			steps = append(steps, trimmed)
		}
	}
	return steps
}

// CreateBreathingExerciseRequest represents parameters to add a catalog entry.
type CreateBreathingExerciseRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Duration    int                `json:"duration"`
	Steps       string             `json:"steps"`
	Difficulty  ExerciseDifficulty `json:"difficulty,omitempty"`
	ImageURL    string             `json:"image_url,omitempty"`
}

// Validate validates CreateBreathingExerciseRequest, defaulting difficulty to easy.
func (r *CreateBreathingExerciseRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxExerciseNameLen {
		return errors.New("name cannot exceed 200 characters")
	}
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("description is required")
	}
	if r.Duration <= 0 {
		return errors.New("duration must be > 0")
	}
	if strings.TrimSpace(r.Steps) == "" {
		return errors.New("steps are required")
	}
	if r.Difficulty == "" {
		r.Difficulty = ExerciseDifficultyEasy
	} else if !r.Difficulty.Valid() {
		return errors.New("difficulty must be one of: easy, medium, hard")
	}
	return nil
}
