package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
)

const dashboardMoodHistory = 7

// Index serves the home page: the dashboard for signed-in users and a
// landing page for anonymous visitors.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	if GetSessionFromContext(r.Context()) == nil {
		h.Page(w, r, PageSpec{
			Meta: PageMeta{Title: "NeuroZen - Welcome", PageTitle: "Welcome", CurrentPage: PageHome},
		})
		return
	}
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "NeuroZen - Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			h.populateDashboard(ctx, currentUserID(r), data)
			return nil
		},
	})
}

// Dashboard serves the dashboard page.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "NeuroZen - Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			h.populateDashboard(ctx, currentUserID(r), data)
			return nil
		},
	})
}

// populateDashboard fills the dashboard widgets. Each widget degrades
// independently; a failing service logs a warning and leaves its card empty.
func (h *UIHandlers) populateDashboard(ctx context.Context, userID string, pageData map[string]any) {
	pageData["OpenTasks"] = 0
	pageData["CompletedTasks"] = 0
	h.populateQuote(ctx, pageData)
	h.populateTaskSummary(ctx, userID, pageData)
	h.populateFocusSummary(ctx, userID, pageData)
	h.populateMoodSummary(ctx, userID, pageData)
}

func (h *UIHandlers) populateQuote(ctx context.Context, pageData map[string]any) {
	if h.QuoteSvc == nil {
		return
	}
	quote, err := h.QuoteSvc.Today(ctx)
	if err != nil {
		if !errors.Is(err, data.ErrQuoteNotFound) {
			h.logger().WarnContext(ctx, "failed to fetch daily quote", "error", err)
		}
		return
	}
	pageData["Quote"] = quote
}

func (h *UIHandlers) populateTaskSummary(ctx context.Context, userID string, pageData map[string]any) {
	if h.TaskSvc == nil {
		return
	}
	counts, err := h.TaskSvc.CountByStatus(ctx, userID)
	if err != nil {
		h.logger().WarnContext(ctx, "failed to fetch task counts", "error", err)
		return
	}
	pageData["TaskCounts"] = counts
	pageData["OpenTasks"] = counts[model.TaskStatusPending] + counts[model.TaskStatusInProgress]
	pageData["CompletedTasks"] = counts[model.TaskStatusCompleted]
}

func (h *UIHandlers) populateFocusSummary(ctx context.Context, userID string, pageData map[string]any) {
	if h.PomodoroSvc == nil {
		return
	}
	stats, err := h.PomodoroSvc.Stats(ctx, userID)
	if err != nil {
		h.logger().WarnContext(ctx, "failed to fetch pomodoro stats", "error", err)
	} else {
		pageData["PomodoroStats"] = stats
	}

	active, err := h.PomodoroSvc.Active(ctx, userID)
	if err != nil {
		if !errors.Is(err, data.ErrPomodoroNotFound) {
			h.logger().WarnContext(ctx, "failed to fetch active pomodoro", "error", err)
		}
		return
	}
	pageData["ActivePomodoro"] = active
}

func (h *UIHandlers) populateMoodSummary(ctx context.Context, userID string, pageData map[string]any) {
	if h.MoodSvc == nil {
		return
	}
	today, err := h.MoodSvc.Today(ctx, userID)
	if err != nil {
		if !errors.Is(err, data.ErrMoodEntryNotFound) {
			h.logger().WarnContext(ctx, "failed to fetch today's mood", "error", err)
		}
	} else {
		pageData["TodayMood"] = today
	}

	recent, err := h.MoodSvc.History(ctx, userID, dashboardMoodHistory)
	if err != nil {
		h.logger().WarnContext(ctx, "failed to fetch mood history", "error", err)
		return
	}
	pageData["RecentMoods"] = recent
}
