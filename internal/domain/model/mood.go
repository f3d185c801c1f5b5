package model

import (
	"errors"
	"strings"
	"time"
)

// Mood is a 1–5 rating recorded once per day, 1 being the best.
type Mood int

const (
	MoodVeryHappy Mood = 1
	MoodHappy     Mood = 2
	MoodNeutral   Mood = 3
	MoodSad       Mood = 4
	MoodVerySad   Mood = 5
)

// Valid reports whether the mood value is in range.
func (m Mood) Valid() bool { return m >= MoodVeryHappy && m <= MoodVerySad }

// Label returns the display label with its emoji, matching the entry form.
func (m Mood) Label() string {
	switch m {
	case MoodVeryHappy:
		return "😊 Very Happy"
	case MoodHappy:
		return "🙂 Happy"
	case MoodNeutral:
		return "😐 Neutral"
	case MoodSad:
		return "😕 Sad"
	case MoodVerySad:
		return "😢 Very Sad"
	default:
		return "Unknown"
	}
}

// MoodEntry records how a user felt on a given day, with optional context.
// Date carries only the calendar day; time-of-day is not meaningful.
type MoodEntry struct {
	ID          string    `json:"id"                    db:"id"`
	UserID      string    `json:"user_id"               db:"user_id"`
	Date        time.Time `json:"date"                  db:"date"`
	Mood        Mood      `json:"mood"                  db:"mood"`
	Notes       string    `json:"notes"                 db:"notes"`
	EnergyLevel int       `json:"energy_level"          db:"energy_level"`
	SleepHours  *float64  `json:"sleep_hours,omitempty" db:"sleep_hours"`
	Activities  string    `json:"activities"            db:"activities"`
	CreatedAt   time.Time `json:"created_at"            db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"            db:"updated_at"`
}

// CreateMoodEntryRequest represents parameters to record a MoodEntry.
type CreateMoodEntryRequest struct {
	UserID      string    `json:"user_id"`
	Date        time.Time `json:"date"`
	Mood        Mood      `json:"mood"`
	Notes       string    `json:"notes,omitempty"`
	EnergyLevel int       `json:"energy_level"`
	SleepHours  *float64  `json:"sleep_hours,omitempty"`
	Activities  string    `json:"activities,omitempty"`
}

// Validate validates CreateMoodEntryRequest.
func (r *CreateMoodEntryRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	if !r.Mood.Valid() {
		return errors.New("mood must be between 1 and 5")
	}
	if r.EnergyLevel < 1 || r.EnergyLevel > 10 {
		return errors.New("energy_level must be between 1 and 10")
	}
	if r.SleepHours != nil && (*r.SleepHours < 0 || *r.SleepHours > 24) {
		return errors.New("sleep_hours must be between 0 and 24")
	}
	return nil
}

// UpdateMoodEntryRequest represents parameters to update a MoodEntry. Nil fields are left unchanged.
type UpdateMoodEntryRequest struct {
	Mood        *Mood    `json:"mood,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	EnergyLevel *int     `json:"energy_level,omitempty"`
	SleepHours  *float64 `json:"sleep_hours,omitempty"`
	Activities  *string  `json:"activities,omitempty"`
}

// Validate validates UpdateMoodEntryRequest.
func (r *UpdateMoodEntryRequest) Validate() error {
	if r.Mood != nil && !r.Mood.Valid() {
		return errors.New("mood must be between 1 and 5")
	}
	if r.EnergyLevel != nil && (*r.EnergyLevel < 1 || *r.EnergyLevel > 10) {
		return errors.New("energy_level must be between 1 and 10")
	}
	if r.SleepHours != nil && (*r.SleepHours < 0 || *r.SleepHours > 24) {
		return errors.New("sleep_hours must be between 0 and 24")
	}
	return nil
}
