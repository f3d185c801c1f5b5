package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
)

const moodHistoryLimit = 30

// Moods renders the mood tracker page: today's entry plus recent history.
// GET /moods.
func (h *UIHandlers) Moods(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "NeuroZen - Mood Tracker", PageTitle: "Mood Tracker", CurrentPage: PageMoods},
		Fetch: func(ctx context.Context, pageData map[string]any) error {
			today, err := h.MoodSvc.Today(ctx, userID)
			if err != nil && !errors.Is(err, data.ErrMoodEntryNotFound) {
				h.logger().ErrorContext(ctx, "failed to fetch today's mood", "error", err)
				return err
			}
			pageData["TodayMood"] = today

			history, err := h.MoodSvc.History(ctx, userID, moodHistoryLimit)
			if err != nil {
				h.logger().ErrorContext(ctx, "failed to fetch mood history", "error", err)
				return err
			}
			pageData["History"] = history
			pageData["Moods"] = []model.Mood{
				model.MoodVeryHappy, model.MoodHappy, model.MoodNeutral,
				model.MoodSad, model.MoodVerySad,
			}
			return nil
		},
	})
}

// MoodCreate records today's mood entry from the submitted form.
// POST /moods.
func (h *UIHandlers) MoodCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	mood, _ := strconv.Atoi(r.PostFormValue("mood"))
	energy, _ := strconv.Atoi(r.PostFormValue("energy_level"))
	req := &model.CreateMoodEntryRequest{
		UserID:      currentUserID(r),
		Mood:        model.Mood(mood),
		Notes:       r.PostFormValue("notes"),
		EnergyLevel: energy,
		Activities:  r.PostFormValue("activities"),
	}
	if date, ok := parseDueDate(r.PostFormValue("date")); ok {
		req.Date = date
	}
	if sleep := strings.TrimSpace(r.PostFormValue("sleep_hours")); sleep != "" {
		if hours, err := strconv.ParseFloat(sleep, 64); err == nil {
			req.SleepHours = &hours
		}
	}

	_, err := h.MoodSvc.Log(r.Context(), req)
	switch {
	case errors.Is(err, data.ErrMoodEntryExists):
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashWarning,
			Message:  "You already logged your mood for that day.",
			Logger:   h.Logger,
		})
	case err != nil:
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashError,
			Message:  capitalizeFirst(err.Error()),
			Logger:   h.Logger,
		})
	default:
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashSuccess,
			Message:  "Mood logged for " + req.Date.Format("Jan 2") + ".",
			Logger:   h.Logger,
		})
	}
	http.Redirect(w, r, "/moods", http.StatusSeeOther)
}

// MoodEdit renders the edit form for an existing mood entry.
// GET /moods/{id}/edit.
func (h *UIHandlers) MoodEdit(w http.ResponseWriter, r *http.Request) {
	entry, err := h.MoodSvc.GetByID(r.Context(), currentUserID(r), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, data.ErrMoodEntryNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger().ErrorContext(r.Context(), "failed to load mood entry", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.renderMoodForm(w, r, moodFormData{Entry: entry})
}

// moodFormData carries the state needed to render the mood edit form.
type moodFormData struct {
	Entry *model.MoodEntry
	Form  url.Values
	Error string
}

func (h *UIHandlers) renderMoodForm(w http.ResponseWriter, r *http.Request, form moodFormData) {
	if form.Form == nil {
		form.Form = moodFormValues(form.Entry)
	}
	pageData := basePageData(r, PageMeta{
		Title:       "NeuroZen - Edit Mood",
		PageTitle:   "Edit Mood",
		CurrentPage: PageMoodForm,
	})
	pageData["Entry"] = form.Entry
	pageData["Form"] = form.Form
	pageData["Moods"] = []model.Mood{
		model.MoodVeryHappy, model.MoodHappy, model.MoodNeutral,
		model.MoodSad, model.MoodVerySad,
	}
	if form.Error != "" {
		pageData["FormError"] = form.Error
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	h.renderPage(w, r, pageData)
}

func moodFormValues(entry *model.MoodEntry) url.Values {
	values := url.Values{}
	if entry == nil {
		return values
	}
	values.Set("mood", strconv.Itoa(int(entry.Mood)))
	values.Set("energy_level", strconv.Itoa(entry.EnergyLevel))
	if entry.SleepHours != nil {
		values.Set("sleep_hours", strconv.FormatFloat(*entry.SleepHours, 'f', -1, 64))
	}
	values.Set("activities", entry.Activities)
	values.Set("notes", entry.Notes)
	return values
}

// MoodUpdate updates a mood entry from the submitted form.
// POST /moods/{id}.
func (h *UIHandlers) MoodUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	userID := currentUserID(r)

	moodVal, _ := strconv.Atoi(r.PostFormValue("mood"))
	mood := model.Mood(moodVal)
	energy, _ := strconv.Atoi(r.PostFormValue("energy_level"))
	notes := r.PostFormValue("notes")
	activities := r.PostFormValue("activities")
	req := model.UpdateMoodEntryRequest{
		Mood:        &mood,
		Notes:       &notes,
		EnergyLevel: &energy,
		Activities:  &activities,
	}
	if sleep := strings.TrimSpace(r.PostFormValue("sleep_hours")); sleep != "" {
		if hours, err := strconv.ParseFloat(sleep, 64); err == nil {
			req.SleepHours = &hours
		}
	}

	if _, err := h.MoodSvc.Update(r.Context(), userID, id, req); err != nil {
		if errors.Is(err, data.ErrMoodEntryNotFound) {
			h.NotFound(w, r)
			return
		}
		entry, getErr := h.MoodSvc.GetByID(r.Context(), userID, id)
		if getErr != nil {
			h.logger().ErrorContext(r.Context(), "failed to reload mood entry", "error", getErr)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		h.renderMoodForm(w, r, moodFormData{
			Entry: entry,
			Form:  r.PostForm,
			Error: capitalizeFirst(err.Error()),
		})
		return
	}

	pushFlash(w, r, flashParams{
		Store:    h.Flashes,
		Category: model.FlashSuccess,
		Message:  "Mood entry updated.",
		Logger:   h.Logger,
	})
	http.Redirect(w, r, "/moods", http.StatusSeeOther)
}

// MoodDelete removes a mood entry.
// POST /moods/{id}/delete.
func (h *UIHandlers) MoodDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		Delete:       h.MoodSvc.Delete,
		RedirectPath: "/moods",
		Noun:         "Mood entry",
	})
}
