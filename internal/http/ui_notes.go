package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// Notes renders the notes board with search and pagination.
// GET /notes.
func (h *UIHandlers) Notes(w http.ResponseWriter, r *http.Request) {
	page, pageSize := getPageParams(r.URL.Query())
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	userID := currentUserID(r)

	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "NeuroZen - Notes", PageTitle: "Notes", CurrentPage: PageNotes},
		Fetch: func(ctx context.Context, pageData map[string]any) error {
			p := pageOpts{Page: page, PageSize: pageSize}
			notes, hasPrev, hasNext, err := paginate(ctx, p,
				func(ctx context.Context, limit, offset int) ([]*model.Note, error) {
					opts := model.NotesListOptions{UserID: userID, Limit: limit, Offset: offset}
					if q != "" {
						opts.Q = &q
					}
					return h.NoteSvc.List(ctx, opts)
				})
			if err != nil {
				h.logger().ErrorContext(ctx, "failed to list notes", "error", err)
				return err
			}

			pageData["Notes"] = notes
			pageData["Query"] = q
			pageData["HasPrev"] = hasPrev
			pageData["HasNext"] = hasNext
			if hasPrev {
				pageData["PrevURL"] = buildPageURL("/notes", r.URL.Query(), page-1)
			}
			if hasNext {
				pageData["NextURL"] = buildPageURL("/notes", r.URL.Query(), page+1)
			}
			return nil
		},
	})
}

// NoteNew renders the create-note form.
// GET /notes/new.
func (h *UIHandlers) NoteNew(w http.ResponseWriter, r *http.Request) {
	h.renderNoteForm(w, r, noteFormData{Mode: FormModeCreate})
}

// NoteEdit renders the edit form for an existing note.
// GET /notes/{id}/edit.
func (h *UIHandlers) NoteEdit(w http.ResponseWriter, r *http.Request) {
	note, err := h.NoteSvc.GetByID(r.Context(), currentUserID(r), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, data.ErrNoteNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger().ErrorContext(r.Context(), "failed to load note", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.renderNoteForm(w, r, noteFormData{Mode: FormModeEdit, Note: note})
}

// noteFormData carries the state needed to render the note form.
type noteFormData struct {
	Mode  FormMode
	Note  *model.Note
	Form  url.Values
	Error string
}

func (h *UIHandlers) renderNoteForm(w http.ResponseWriter, r *http.Request, form noteFormData) {
	title := "New Note"
	if form.Mode == FormModeEdit {
		title = "Edit Note"
	}
	if form.Form == nil {
		form.Form = noteFormValues(form.Note)
	}
	pageData := basePageData(r, PageMeta{
		Title:       "NeuroZen - " + title,
		PageTitle:   title,
		CurrentPage: PageNoteForm,
	})
	pageData["Mode"] = string(form.Mode)
	pageData["Note"] = form.Note
	pageData["Form"] = form.Form
	if form.Error != "" {
		pageData["FormError"] = form.Error
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	h.renderPage(w, r, pageData)
}

// noteFormValues seeds the form fields from an existing note, or with the
// defaults for a fresh form.
func noteFormValues(note *model.Note) url.Values {
	values := url.Values{}
	if note == nil {
		values.Set("color", model.DefaultNoteColor)
		return values
	}
	values.Set("title", note.Title)
	values.Set("content", note.Content)
	values.Set("color", note.Color)
	if note.IsPinned {
		values.Set("is_pinned", "on")
	}
	return values
}

// NoteCreate creates a note from the submitted form.
// POST /notes.
func (h *UIHandlers) NoteCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	req := &model.CreateNoteRequest{
		UserID:   currentUserID(r),
		Title:    r.PostFormValue("title"),
		Content:  r.PostFormValue("content"),
		IsPinned: r.PostFormValue("is_pinned") == "on",
		Color:    strings.TrimSpace(r.PostFormValue("color")),
	}

	if _, err := h.NoteSvc.Create(r.Context(), req); err != nil {
		h.renderNoteForm(w, r, noteFormData{
			Mode:  FormModeCreate,
			Form:  r.PostForm,
			Error: capitalizeFirst(err.Error()),
		})
		return
	}

	pushFlash(w, r, flashParams{
		Store:    h.Flashes,
		Category: model.FlashSuccess,
		Message:  "Note created.",
		Logger:   h.Logger,
	})
	http.Redirect(w, r, "/notes", http.StatusSeeOther)
}

// NoteUpdate updates a note from the submitted form.
// POST /notes/{id}.
func (h *UIHandlers) NoteUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	userID := currentUserID(r)

	title := r.PostFormValue("title")
	content := r.PostFormValue("content")
	pinned := r.PostFormValue("is_pinned") == "on"
	req := model.UpdateNoteRequest{
		Title:    &title,
		Content:  &content,
		IsPinned: &pinned,
	}
	if color := strings.TrimSpace(r.PostFormValue("color")); color != "" {
		req.Color = &color
	}

	if _, err := h.NoteSvc.Update(r.Context(), userID, id, req); err != nil {
		if errors.Is(err, data.ErrNoteNotFound) {
			h.NotFound(w, r)
			return
		}
		note, getErr := h.NoteSvc.GetByID(r.Context(), userID, id)
		if getErr != nil {
			h.logger().ErrorContext(r.Context(), "failed to reload note", "error", getErr)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		h.renderNoteForm(w, r, noteFormData{
			Mode:  FormModeEdit,
			Note:  note,
			Form:  r.PostForm,
			Error: capitalizeFirst(err.Error()),
		})
		return
	}

	pushFlash(w, r, flashParams{
		Store:    h.Flashes,
		Category: model.FlashSuccess,
		Message:  "Note updated.",
		Logger:   h.Logger,
	})
	http.Redirect(w, r, "/notes", http.StatusSeeOther)
}

// NotePin toggles the pinned flag on a note.
// POST /notes/{id}/pin.
func (h *UIHandlers) NotePin(w http.ResponseWriter, r *http.Request) {
	if _, err := h.NoteSvc.TogglePin(r.Context(), currentUserID(r), r.PathValue("id")); err != nil {
		if errors.Is(err, data.ErrNoteNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger().ErrorContext(r.Context(), "failed to toggle pin", "error", err)
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashError,
			Message:  "Unable to update note.",
			Logger:   h.Logger,
		})
	}
	http.Redirect(w, r, "/notes", http.StatusSeeOther)
}

// NoteDelete removes a note.
// POST /notes/{id}/delete.
func (h *UIHandlers) NoteDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		Delete:       h.NoteSvc.Delete,
		RedirectPath: "/notes",
		Noun:         "Note",
	})
}
