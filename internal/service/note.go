package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/neurozen/neurozen/internal/core"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// NoteServiceOptions groups dependencies for NoteService.
type NoteServiceOptions struct {
	Notes core.NoteRepository
}

// NoteService provides note CRUD scoped to the owning user.
type NoteService struct {
	notes core.NoteRepository
}

// NewNoteService constructs a new NoteService.
func NewNoteService(opts NoteServiceOptions) *NoteService {
	if opts.Notes == nil {
		panic("NoteRepository is required")
	}
	return &NoteService{notes: opts.Notes}
}

// Create creates a note.
func (s *NoteService) Create(ctx context.Context, req *model.CreateNoteRequest) (*model.Note, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	return s.notes.Create(ctx, req)
}

// GetByID retrieves a note belonging to the user.
func (s *NoteService) GetByID(ctx context.Context, userID, id string) (*model.Note, error) {
	return s.notes.GetByID(ctx, userID, id)
}

// List returns the user's notes, pinned first then most recently updated.
func (s *NoteService) List(ctx context.Context, opts model.NotesListOptions) ([]*model.Note, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) == "" {
		opts.Q = nil
	}
	return s.notes.ListWithOptions(ctx, opts)
}

// Update updates a note belonging to the user.
func (s *NoteService) Update(ctx context.Context, userID, id string, req model.UpdateNoteRequest) (*model.Note, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	return s.notes.Update(ctx, userID, id, req)
}

// TogglePin flips a note's pinned flag.
func (s *NoteService) TogglePin(ctx context.Context, userID, id string) (*model.Note, error) {
	note, err := s.notes.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	pinned := !note.IsPinned
	return s.notes.Update(ctx, userID, id, model.UpdateNoteRequest{IsPinned: &pinned})
}

// Delete removes a note belonging to the user.
func (s *NoteService) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.notes.Delete(ctx, userID, id)
}
