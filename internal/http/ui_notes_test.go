package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
	authmocks "github.com/neurozen/neurozen/internal/mocks/auth"
)

type fakeNoteService struct {
	notes   []*model.Note
	created *model.CreateNoteRequest
	toggled string
	pinErr  error
}

func (f *fakeNoteService) Create(_ context.Context, req *model.CreateNoteRequest) (*model.Note, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f.created = req
	return &model.Note{ID: "note-1", Title: req.Title}, nil
}

func (f *fakeNoteService) GetByID(_ context.Context, _, id string) (*model.Note, error) {
	return &model.Note{ID: id, Title: "Grocery list", Content: "oat milk", Color: model.DefaultNoteColor}, nil
}

func (f *fakeNoteService) List(context.Context, model.NotesListOptions) ([]*model.Note, error) {
	return f.notes, nil
}

func (f *fakeNoteService) Update(_ context.Context, _, id string, _ model.UpdateNoteRequest) (*model.Note, error) {
	return &model.Note{ID: id}, nil
}

func (f *fakeNoteService) TogglePin(_ context.Context, _, id string) (*model.Note, error) {
	if f.pinErr != nil {
		return nil, f.pinErr
	}
	f.toggled = id
	return &model.Note{ID: id, IsPinned: true}, nil
}

func (f *fakeNoteService) Delete(_ context.Context, _, id string) (bool, error) {
	return true, nil
}

func TestUINotes_CreateDefaultsColor(t *testing.T) {
	svc := &fakeNoteService{}
	h := &UIHandlers{NoteSvc: svc, Flashes: authmocks.NewMemoryFlashStore()}

	form := url.Values{
		"title":     {"Grocery list"},
		"content":   {"oat milk"},
		"is_pinned": {"on"},
	}
	r := newAuthedFormRequest("/notes", form)
	rr := httptest.NewRecorder()
	h.NoteCreate(rr, r)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/notes", rr.Header().Get("Location"))

	require.NotNil(t, svc.created)
	assert.True(t, svc.created.IsPinned)
	assert.Equal(t, model.DefaultNoteColor, svc.created.Color)
}

func TestUINotes_PinToggle(t *testing.T) {
	svc := &fakeNoteService{}
	h := &UIHandlers{NoteSvc: svc, Flashes: authmocks.NewMemoryFlashStore()}

	r := newAuthedFormRequest("/notes/note-5/pin", url.Values{})
	r.SetPathValue("id", "note-5")
	rr := httptest.NewRecorder()
	h.NotePin(rr, r)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "note-5", svc.toggled)
}

func TestUINotes_PinUnknownNoteRenders404(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}
	h.NoteSvc = &fakeNoteService{pinErr: data.ErrNoteNotFound}

	r := newAuthedFormRequest("/notes/ghost/pin", url.Values{})
	r.SetPathValue("id", "ghost")
	rr := httptest.NewRecorder()
	h.NotePin(rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUINotes_ListShowsPinnedBadgeAndSearch(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}
	h.NoteSvc = &fakeNoteService{notes: []*model.Note{
		{ID: "n1", Title: "Pinned thought", Content: "remember this", IsPinned: true, Color: "#FFF5E6"},
		{ID: "n2", Title: "Plain thought", Content: "less important", Color: model.DefaultNoteColor},
	}}

	r := newAuthedRequest(http.MethodGet, "/notes?q=thought")
	rr := httptest.NewRecorder()
	h.Notes(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, ContainsAll(body, []string{
		"Pinned thought",
		"Plain thought",
		"bi-pin-angle-fill",
		`value="thought"`,
	}), "got: %s", body)
}
