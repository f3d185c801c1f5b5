package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// Categories renders the category management page with inline forms.
// GET /categories.
func (h *UIHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "NeuroZen - Categories", PageTitle: "Categories", CurrentPage: PageCategories},
		Fetch: func(ctx context.Context, pageData map[string]any) error {
			categories, err := h.CategorySvc.List(ctx, userID)
			if err != nil {
				h.logger().ErrorContext(ctx, "failed to list categories", "error", err)
				return err
			}
			pageData["Categories"] = categories
			return nil
		},
	})
}

// CategoryCreate creates a category from the inline form.
// POST /categories.
func (h *UIHandlers) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	req := &model.CreateCategoryRequest{
		UserID:      currentUserID(r),
		Name:        r.PostFormValue("name"),
		Color:       strings.TrimSpace(r.PostFormValue("color")),
		Description: r.PostFormValue("description"),
		Icon:        strings.TrimSpace(r.PostFormValue("icon")),
	}

	if _, err := h.CategorySvc.Create(r.Context(), req); err != nil {
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashError,
			Message:  categoryErrorMessage(err),
			Logger:   h.Logger,
		})
	} else {
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashSuccess,
			Message:  "Category created.",
			Logger:   h.Logger,
		})
	}
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

// CategoryUpdate updates a category from the inline form.
// POST /categories/{id}.
func (h *UIHandlers) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	name := r.PostFormValue("name")
	description := r.PostFormValue("description")
	req := model.UpdateCategoryRequest{
		Name:        &name,
		Description: &description,
	}
	if color := strings.TrimSpace(r.PostFormValue("color")); color != "" {
		req.Color = &color
	}
	if icon := strings.TrimSpace(r.PostFormValue("icon")); icon != "" {
		req.Icon = &icon
	}

	_, err := h.CategorySvc.Update(r.Context(), currentUserID(r), r.PathValue("id"), req)
	switch {
	case errors.Is(err, data.ErrCategoryNotFound):
		h.NotFound(w, r)
		return
	case err != nil:
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashError,
			Message:  categoryErrorMessage(err),
			Logger:   h.Logger,
		})
	default:
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashSuccess,
			Message:  "Category updated.",
			Logger:   h.Logger,
		})
	}
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

// CategoryDelete removes a category. Tasks referencing it are detached.
// POST /categories/{id}/delete.
func (h *UIHandlers) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		Delete:       h.CategorySvc.Delete,
		RedirectPath: "/categories",
		Noun:         "Category",
	})
}

// categoryErrorMessage maps service errors to user-facing messages.
func categoryErrorMessage(err error) string {
	if errors.Is(err, data.ErrCategoryNameExists) {
		return "A category with that name already exists."
	}
	return capitalizeFirst(err.Error())
}
