package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/neurozen/neurozen/internal/core"
	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
)

const defaultPomodoroHistory = 20

// ErrPomodoroActive is returned when starting a session while one is running.
var ErrPomodoroActive = errors.New("a focus session is already running")

// PomodoroServiceOptions groups dependencies for PomodoroService.
type PomodoroServiceOptions struct {
	Sessions core.PomodoroRepository
	Tasks    core.TaskRepository
}

// PomodoroService manages focus sessions: one running session per user,
// explicit completion or cancellation, and dashboard stats.
type PomodoroService struct {
	sessions core.PomodoroRepository
	tasks    core.TaskRepository
}

// NewPomodoroService constructs a new PomodoroService.
func NewPomodoroService(opts PomodoroServiceOptions) *PomodoroService {
	if opts.Sessions == nil {
		panic("PomodoroRepository is required")
	}
	return &PomodoroService{sessions: opts.Sessions, tasks: opts.Tasks}
}

// Start begins a focus session, rejecting the request when one is already
// running and verifying any linked task belongs to the user.
func (s *PomodoroService) Start(ctx context.Context, req *model.StartPomodoroRequest) (*model.PomodoroSession, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}

	if _, err := s.sessions.GetActive(ctx, req.UserID); err == nil {
		return nil, ErrPomodoroActive
	} else if !errors.Is(err, data.ErrPomodoroNotFound) {
		return nil, fmt.Errorf("check active session: %w", err)
	}

	if s.tasks != nil && req.TaskID != nil && *req.TaskID != "" {
		if _, err := s.tasks.GetByID(ctx, req.UserID, *req.TaskID); err != nil {
			return nil, fmt.Errorf("check task: %w", err)
		}
	}

	return s.sessions.Start(ctx, req)
}

// Active returns the user's running session, or ErrPomodoroNotFound.
func (s *PomodoroService) Active(ctx context.Context, userID string) (*model.PomodoroSession, error) {
	return s.sessions.GetActive(ctx, userID)
}

// Complete closes a running session and counts it toward stats.
func (s *PomodoroService) Complete(ctx context.Context, userID, id string) (*model.PomodoroSession, error) {
	return s.sessions.Finish(ctx, userID, id, true)
}

// Cancel closes a running session without counting it.
func (s *PomodoroService) Cancel(ctx context.Context, userID, id string) (*model.PomodoroSession, error) {
	return s.sessions.Finish(ctx, userID, id, false)
}

// History returns the user's most recent sessions, newest first.
func (s *PomodoroService) History(ctx context.Context, userID string, limit int) ([]*model.PomodoroSessionWithTask, error) {
	if limit <= 0 {
		limit = defaultPomodoroHistory
	}
	return s.sessions.ListRecent(ctx, userID, limit)
}

// Stats summarizes today's and this week's completed sessions.
func (s *PomodoroService) Stats(ctx context.Context, userID string) (*model.PomodoroStats, error) {
	return s.sessions.Stats(ctx, userID)
}
