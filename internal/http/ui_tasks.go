package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
)

const dueDateLayout = "2006-01-02"

// taskFilters captures the list-view query params so they survive pagination.
type taskFilters struct {
	Q        string
	Status   string
	Priority string
	Category string
	Sort     string
	Dir      string
}

func parseTaskFilters(q url.Values) taskFilters {
	return taskFilters{
		Q:        strings.TrimSpace(q.Get("q")),
		Status:   strings.TrimSpace(q.Get("status")),
		Priority: strings.TrimSpace(q.Get("priority")),
		Category: strings.TrimSpace(q.Get("category")),
		Sort:     strings.TrimSpace(q.Get("sort")),
		Dir:      strings.TrimSpace(q.Get("dir")),
	}
}

// listOptions translates the filters into service list options.
func (f taskFilters) listOptions(userID string, limit, offset int) model.TasksListOptions {
	opts := model.TasksListOptions{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
		Sort:   f.Sort,
		Dir:    f.Dir,
	}
	if f.Q != "" {
		q := f.Q
		opts.Q = &q
	}
	if status, ok := model.ParseTaskStatus(f.Status); ok {
		opts.Status = &status
	}
	if priority, ok := model.ParseTaskPriority(f.Priority); ok {
		opts.Priority = &priority
	}
	if f.Category != "" {
		category := f.Category
		opts.CategoryID = &category
	}
	return opts
}

// Tasks renders the task list with filtering and pagination.
// GET /tasks.
func (h *UIHandlers) Tasks(w http.ResponseWriter, r *http.Request) {
	page, pageSize := getPageParams(r.URL.Query())
	filters := parseTaskFilters(r.URL.Query())
	userID := currentUserID(r)

	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "NeuroZen - Tasks", PageTitle: "Tasks", CurrentPage: PageTasks},
		Fetch: func(ctx context.Context, pageData map[string]any) error {
			p := pageOpts{Page: page, PageSize: pageSize}
			tasks, hasPrev, hasNext, err := paginate(ctx, p,
				func(ctx context.Context, limit, offset int) ([]*model.TaskWithCategory, error) {
					return h.TaskSvc.List(ctx, filters.listOptions(userID, limit, offset))
				})
			if err != nil {
				h.logger().ErrorContext(ctx, "failed to list tasks", "error", err)
				return err
			}

			pageData["Tasks"] = tasks
			pageData["Filters"] = filters
			pageData["HasPrev"] = hasPrev
			pageData["HasNext"] = hasNext
			if hasPrev {
				pageData["PrevURL"] = buildPageURL("/tasks", r.URL.Query(), page-1)
			}
			if hasNext {
				pageData["NextURL"] = buildPageURL("/tasks", r.URL.Query(), page+1)
			}
			pageData["Now"] = time.Now()

			h.populateCategoryOptions(ctx, userID, pageData)
			return nil
		},
	})
}

// populateCategoryOptions loads the user's categories for filter and form selects.
func (h *UIHandlers) populateCategoryOptions(ctx context.Context, userID string, pageData map[string]any) {
	if h.CategorySvc == nil {
		return
	}
	categories, err := h.CategorySvc.List(ctx, userID)
	if err != nil {
		h.logger().WarnContext(ctx, "failed to list categories", "error", err)
		return
	}
	pageData["Categories"] = categories
}

// TaskNew renders the create-task form.
// GET /tasks/new.
func (h *UIHandlers) TaskNew(w http.ResponseWriter, r *http.Request) {
	h.renderTaskForm(w, r, taskFormData{Mode: FormModeCreate})
}

// TaskEdit renders the edit form for an existing task.
// GET /tasks/{id}/edit.
func (h *UIHandlers) TaskEdit(w http.ResponseWriter, r *http.Request) {
	task, err := h.TaskSvc.GetByID(r.Context(), currentUserID(r), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, data.ErrTaskNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger().ErrorContext(r.Context(), "failed to load task", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.renderTaskForm(w, r, taskFormData{Mode: FormModeEdit, Task: task})
}

// taskFormData carries the state needed to render the task form.
type taskFormData struct {
	Mode  FormMode
	Task  *model.Task
	Form  url.Values
	Error string
}

func (h *UIHandlers) renderTaskForm(w http.ResponseWriter, r *http.Request, form taskFormData) {
	title := "New Task"
	if form.Mode == FormModeEdit {
		title = "Edit Task"
	}
	if form.Form == nil {
		form.Form = taskFormValues(form.Task)
	}
	pageData := basePageData(r, PageMeta{
		Title:       "NeuroZen - " + title,
		PageTitle:   title,
		CurrentPage: PageTaskForm,
	})
	pageData["Mode"] = string(form.Mode)
	pageData["Task"] = form.Task
	pageData["Form"] = form.Form
	if form.Error != "" {
		pageData["FormError"] = form.Error
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	pageData["Statuses"] = []model.TaskStatus{
		model.TaskStatusPending, model.TaskStatusInProgress,
		model.TaskStatusCompleted, model.TaskStatusCancelled,
	}
	pageData["Priorities"] = []model.TaskPriority{
		model.TaskPriorityLow, model.TaskPriorityMedium, model.TaskPriorityHigh,
	}
	h.populateCategoryOptions(r.Context(), currentUserID(r), pageData)
	h.renderPage(w, r, pageData)
}

// TaskCreate creates a task from the submitted form.
// POST /tasks.
func (h *UIHandlers) TaskCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	req := &model.CreateTaskRequest{
		UserID:      currentUserID(r),
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Status:      model.TaskStatus(r.PostFormValue("status")),
		Priority:    model.TaskPriority(r.PostFormValue("priority")),
	}
	if due, ok := parseDueDate(r.PostFormValue("due_date")); ok {
		req.DueDate = &due
	}
	if category := strings.TrimSpace(r.PostFormValue("category_id")); category != "" {
		req.CategoryID = &category
	}

	if _, err := h.TaskSvc.Create(r.Context(), req); err != nil {
		h.renderTaskForm(w, r, taskFormData{
			Mode:  FormModeCreate,
			Form:  r.PostForm,
			Error: capitalizeFirst(err.Error()),
		})
		return
	}

	pushFlash(w, r, flashParams{
		Store:    h.Flashes,
		Category: model.FlashSuccess,
		Message:  "Task created.",
		Logger:   h.Logger,
	})
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// TaskUpdate updates a task from the submitted form.
// POST /tasks/{id}.
func (h *UIHandlers) TaskUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	userID := currentUserID(r)

	title := r.PostFormValue("title")
	description := r.PostFormValue("description")
	status := model.TaskStatus(r.PostFormValue("status"))
	priority := model.TaskPriority(r.PostFormValue("priority"))
	req := model.UpdateTaskRequest{
		Title:       &title,
		Description: &description,
		Status:      &status,
		Priority:    &priority,
	}
	if due, ok := parseDueDate(r.PostFormValue("due_date")); ok {
		req.DueDate = &due
	} else {
		req.ClearDue = true
	}
	category := strings.TrimSpace(r.PostFormValue("category_id"))
	req.CategoryID = &category

	if _, err := h.TaskSvc.Update(r.Context(), userID, id, req); err != nil {
		if errors.Is(err, data.ErrTaskNotFound) {
			h.NotFound(w, r)
			return
		}
		task, getErr := h.TaskSvc.GetByID(r.Context(), userID, id)
		if getErr != nil {
			h.logger().ErrorContext(r.Context(), "failed to reload task", "error", getErr)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		h.renderTaskForm(w, r, taskFormData{
			Mode:  FormModeEdit,
			Task:  task,
			Form:  r.PostForm,
			Error: capitalizeFirst(err.Error()),
		})
		return
	}

	pushFlash(w, r, flashParams{
		Store:    h.Flashes,
		Category: model.FlashSuccess,
		Message:  "Task updated.",
		Logger:   h.Logger,
	})
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// TaskStatus flips a task to the submitted status, used by the quick actions
// on the list view.
// POST /tasks/{id}/status.
func (h *UIHandlers) TaskStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := model.ParseTaskStatus(r.PostFormValue("status"))
	if !ok {
		http.Error(w, "unknown task status", http.StatusBadRequest)
		return
	}

	if _, err := h.TaskSvc.SetStatus(r.Context(), currentUserID(r), r.PathValue("id"), status); err != nil {
		if errors.Is(err, data.ErrTaskNotFound) {
			h.NotFound(w, r)
			return
		}
		h.logger().ErrorContext(r.Context(), "failed to set task status", "error", err)
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashError,
			Message:  "Unable to update task status.",
			Logger:   h.Logger,
		})
	} else if status == model.TaskStatusCompleted {
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashSuccess,
			Message:  "Task completed. Nice work!",
			Logger:   h.Logger,
		})
	}

	redirect := r.PostFormValue("redirect_uri")
	if redirect == "" {
		redirect = "/tasks"
	}
	http.Redirect(w, r, safeRedirectPath(redirect), http.StatusSeeOther)
}

// TaskDelete removes a task.
// POST /tasks/{id}/delete.
func (h *UIHandlers) TaskDelete(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, deleteHandlerOpts{
		Delete:       h.TaskSvc.Delete,
		RedirectPath: "/tasks",
		Noun:         "Task",
	})
}

// taskFormValues seeds the form fields from an existing task, or with the
// defaults for a fresh form.
func taskFormValues(task *model.Task) url.Values {
	values := url.Values{}
	if task == nil {
		values.Set("status", string(model.TaskStatusPending))
		values.Set("priority", string(model.TaskPriorityMedium))
		return values
	}
	values.Set("title", task.Title)
	values.Set("description", task.Description)
	values.Set("status", string(task.Status))
	values.Set("priority", string(task.Priority))
	if task.DueDate != nil {
		values.Set("due_date", task.DueDate.Format(dueDateLayout))
	}
	if task.CategoryID != nil {
		values.Set("category_id", *task.CategoryID)
	}
	return values
}

// parseDueDate parses the optional date input field (YYYY-MM-DD).
func parseDueDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	due, err := time.Parse(dueDateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}
