package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/neurozen/neurozen/internal/domain/model"
	"github.com/neurozen/neurozen/internal/mocks"
)

func newNoteService(t *testing.T) (*mocks.MockNoteRepository, *NoteService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	noteRepo := mocks.NewMockNoteRepository(ctrl)
	return noteRepo, NewNoteService(NoteServiceOptions{Notes: noteRepo})
}

func TestNoteService_Create_DefaultsColor(t *testing.T) {
	t.Parallel()
	noteRepo, service := newNoteService(t)
	ctx := context.Background()

	req := &model.CreateNoteRequest{
		UserID:  testUserID,
		Title:   "groceries",
		Content: "oat milk, coffee",
	}

	noteRepo.EXPECT().
		Create(ctx, req).
		DoAndReturn(func(_ context.Context, got *model.CreateNoteRequest) (*model.Note, error) {
			assert.Equal(t, "#FFFFFF", got.Color)
			return &model.Note{ID: "note-1", Title: got.Title, Color: got.Color}, nil
		}).
		Times(1)

	note, err := service.Create(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "#FFFFFF", note.Color)
}

func TestNoteService_Create_RejectsBadColor(t *testing.T) {
	t.Parallel()
	_, service := newNoteService(t)

	_, err := service.Create(context.Background(), &model.CreateNoteRequest{
		UserID:  testUserID,
		Title:   "note",
		Content: "body",
		Color:   "yellow",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hex value")
}

func TestNoteService_List_DropsBlankQuery(t *testing.T) {
	t.Parallel()
	noteRepo, service := newNoteService(t)
	ctx := context.Background()

	blank := "  "
	noteRepo.EXPECT().
		ListWithOptions(ctx, model.NotesListOptions{UserID: testUserID, Limit: 50}).
		Return([]*model.Note{}, nil).
		Times(1)

	_, err := service.List(ctx, model.NotesListOptions{UserID: testUserID, Q: &blank})
	require.NoError(t, err)
}

func TestNoteService_TogglePin(t *testing.T) {
	t.Parallel()
	noteRepo, service := newNoteService(t)
	ctx := context.Background()

	noteRepo.EXPECT().
		GetByID(ctx, testUserID, "note-1").
		Return(&model.Note{ID: "note-1", IsPinned: false}, nil).
		Times(1)
	noteRepo.EXPECT().
		Update(ctx, testUserID, "note-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, req model.UpdateNoteRequest) (*model.Note, error) {
			require.NotNil(t, req.IsPinned)
			assert.True(t, *req.IsPinned)
			return &model.Note{ID: "note-1", IsPinned: true}, nil
		}).
		Times(1)

	note, err := service.TogglePin(ctx, testUserID, "note-1")

	require.NoError(t, err)
	assert.True(t, note.IsPinned)
}
