package model

import (
	"errors"
	"strings"
	"time"
)

// DefaultPomodoroMinutes is the classic pomodoro length.
const DefaultPomodoroMinutes = 25

// PomodoroSession represents one focus timer run, optionally bound to a task.
// EndTime is nil while the session is running.
type PomodoroSession struct {
	ID          string     `json:"id"                 db:"id"`
	UserID      string     `json:"user_id"            db:"user_id"`
	TaskID      *string    `json:"task_id,omitempty"  db:"task_id"`
	StartTime   time.Time  `json:"start_time"         db:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty" db:"end_time"`
	Duration    int        `json:"duration"           db:"duration"`
	IsCompleted bool       `json:"is_completed"       db:"is_completed"`
}

// Running reports whether the session is still in progress.
func (s *PomodoroSession) Running() bool { return s.EndTime == nil }

// Deadline returns the moment the timer is due to ring.
func (s *PomodoroSession) Deadline() time.Time {
	return s.StartTime.Add(time.Duration(s.Duration) * time.Minute)
}

// PomodoroSessionWithTask joins a session with its task title for list views.
type PomodoroSessionWithTask struct {
	PomodoroSession
	TaskTitle *string `db:"task_title"`
}

// StartPomodoroRequest represents parameters to start a focus session.
type StartPomodoroRequest struct {
	UserID   string  `json:"user_id"`
	TaskID   *string `json:"task_id,omitempty"`
	Duration int     `json:"duration,omitempty"`
}

// Validate validates StartPomodoroRequest, defaulting duration to 25 minutes.
func (r *StartPomodoroRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if r.Duration == 0 {
		r.Duration = DefaultPomodoroMinutes
	}
	if r.Duration < 1 || r.Duration > 180 {
		return errors.New("duration must be between 1 and 180 minutes")
	}
	return nil
}

// PomodoroStats summarizes a user's recent focus activity for the dashboard.
type PomodoroStats struct {
	CompletedToday int `db:"completed_today"`
	MinutesToday   int `db:"minutes_today"`
	CompletedWeek  int `db:"completed_week"`
}
