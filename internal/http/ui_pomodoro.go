package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
	"github.com/neurozen/neurozen/internal/service"
)

const pomodoroHistoryLimit = 10

// Pomodoro renders the focus timer page: the running session (if any),
// recent history, and weekly stats.
// GET /pomodoro.
func (h *UIHandlers) Pomodoro(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "NeuroZen - Focus Timer", PageTitle: "Focus Timer", CurrentPage: PagePomodoro},
		Fetch: func(ctx context.Context, pageData map[string]any) error {
			active, err := h.PomodoroSvc.Active(ctx, userID)
			if err != nil && !errors.Is(err, data.ErrPomodoroNotFound) {
				h.logger().ErrorContext(ctx, "failed to fetch active pomodoro", "error", err)
				return err
			}
			pageData["Active"] = active

			history, err := h.PomodoroSvc.History(ctx, userID, pomodoroHistoryLimit)
			if err != nil {
				h.logger().ErrorContext(ctx, "failed to fetch pomodoro history", "error", err)
				return err
			}
			pageData["History"] = history

			stats, err := h.PomodoroSvc.Stats(ctx, userID)
			if err != nil {
				h.logger().ErrorContext(ctx, "failed to fetch pomodoro stats", "error", err)
				return err
			}
			pageData["Stats"] = stats
			pageData["DefaultDuration"] = model.DefaultPomodoroMinutes

			// Open tasks for the "focus on" select
			if h.TaskSvc != nil {
				status := model.TaskStatusInProgress
				tasks, listErr := h.TaskSvc.List(ctx, model.TasksListOptions{UserID: userID, Status: &status})
				if listErr != nil {
					h.logger().WarnContext(ctx, "failed to list tasks for focus select", "error", listErr)
				} else {
					pageData["Tasks"] = tasks
				}
			}
			return nil
		},
	})
}

// PomodoroStart starts a focus session.
// POST /pomodoro.
func (h *UIHandlers) PomodoroStart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	duration, _ := strconv.Atoi(r.PostFormValue("duration"))
	req := &model.StartPomodoroRequest{
		UserID:   currentUserID(r),
		Duration: duration,
	}
	if taskID := strings.TrimSpace(r.PostFormValue("task_id")); taskID != "" {
		req.TaskID = &taskID
	}

	_, err := h.PomodoroSvc.Start(r.Context(), req)
	switch {
	case errors.Is(err, service.ErrPomodoroActive):
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashWarning,
			Message:  "A focus session is already running.",
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
			Message:  "Focus session started. Stay on task!",
			Logger:   h.Logger,
		})
	}
	http.Redirect(w, r, "/pomodoro", http.StatusSeeOther)
}

// PomodoroComplete marks the session as finished successfully.
// POST /pomodoro/{id}/complete.
func (h *UIHandlers) PomodoroComplete(w http.ResponseWriter, r *http.Request) {
	h.finishPomodoro(w, r, true)
}

// PomodoroCancel abandons the session.
// POST /pomodoro/{id}/cancel.
func (h *UIHandlers) PomodoroCancel(w http.ResponseWriter, r *http.Request) {
	h.finishPomodoro(w, r, false)
}

func (h *UIHandlers) finishPomodoro(w http.ResponseWriter, r *http.Request, completed bool) {
	userID := currentUserID(r)
	id := r.PathValue("id")

	var err error
	if completed {
		_, err = h.PomodoroSvc.Complete(r.Context(), userID, id)
	} else {
		_, err = h.PomodoroSvc.Cancel(r.Context(), userID, id)
	}

	switch {
	case errors.Is(err, data.ErrPomodoroNotFound):
		h.NotFound(w, r)
		return
	case err != nil:
		h.logger().ErrorContext(r.Context(), "failed to finish pomodoro", "error", err)
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashError,
			Message:  "Unable to update the focus session.",
			Logger:   h.Logger,
		})
	case completed:
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashSuccess,
			Message:  "Focus session completed. Take a break!",
			Logger:   h.Logger,
		})
	default:
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashInfo,
			Message:  "Focus session cancelled.",
			Logger:   h.Logger,
		})
	}
	http.Redirect(w, r, "/pomodoro", http.StatusSeeOther)
}
