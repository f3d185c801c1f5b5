package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/neurozen/neurozen/internal/domain/model"
	"github.com/neurozen/neurozen/internal/ports"
	"github.com/neurozen/neurozen/internal/service"
)

// TasksService is a minimal interface for UI needs.
type TasksService interface {
	Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error)
	GetByID(ctx context.Context, userID, id string) (*model.Task, error)
	List(ctx context.Context, opts model.TasksListOptions) ([]*model.TaskWithCategory, error)
	CountByStatus(ctx context.Context, userID string) (map[model.TaskStatus]int, error)
	Update(ctx context.Context, userID, id string, req model.UpdateTaskRequest) (*model.Task, error)
	SetStatus(ctx context.Context, userID, id string, status model.TaskStatus) (*model.Task, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// CategoriesService is a minimal interface for UI needs.
type CategoriesService interface {
	Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)
	GetByID(ctx context.Context, userID, id string) (*model.Category, error)
	List(ctx context.Context, userID string) ([]*model.CategoryWithTaskCount, error)
	Update(ctx context.Context, userID, id string, req model.UpdateCategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// NotesService is a minimal interface for UI needs.
type NotesService interface {
	Create(ctx context.Context, req *model.CreateNoteRequest) (*model.Note, error)
	GetByID(ctx context.Context, userID, id string) (*model.Note, error)
	List(ctx context.Context, opts model.NotesListOptions) ([]*model.Note, error)
	Update(ctx context.Context, userID, id string, req model.UpdateNoteRequest) (*model.Note, error)
	TogglePin(ctx context.Context, userID, id string) (*model.Note, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// MoodsService is a minimal interface for UI needs.
type MoodsService interface {
	Log(ctx context.Context, req *model.CreateMoodEntryRequest) (*model.MoodEntry, error)
	GetByID(ctx context.Context, userID, id string) (*model.MoodEntry, error)
	Today(ctx context.Context, userID string) (*model.MoodEntry, error)
	History(ctx context.Context, userID string, limit int) ([]*model.MoodEntry, error)
	Update(ctx context.Context, userID, id string, req model.UpdateMoodEntryRequest) (*model.MoodEntry, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// PomodoroUIService is a minimal interface for UI needs.
type PomodoroUIService interface {
	Start(ctx context.Context, req *model.StartPomodoroRequest) (*model.PomodoroSession, error)
	Active(ctx context.Context, userID string) (*model.PomodoroSession, error)
	Complete(ctx context.Context, userID, id string) (*model.PomodoroSession, error)
	Cancel(ctx context.Context, userID, id string) (*model.PomodoroSession, error)
	History(ctx context.Context, userID string, limit int) ([]*model.PomodoroSessionWithTask, error)
	Stats(ctx context.Context, userID string) (*model.PomodoroStats, error)
}

// QuotesService is a minimal interface for UI needs.
type QuotesService interface {
	Today(ctx context.Context) (*model.DailyQuote, error)
}

// QuoteFeedRefresher triggers an on-demand import of the daily quote.
type QuoteFeedRefresher interface {
	RefreshToday(ctx context.Context) (*model.DailyQuote, error)
}

// ExercisesService is a minimal interface for UI needs.
type ExercisesService interface {
	GetByID(ctx context.Context, id string) (*model.BreathingExercise, error)
	List(ctx context.Context, difficulty *model.ExerciseDifficulty) ([]*model.BreathingExercise, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ TasksService       = (*service.TaskService)(nil)
	_ CategoriesService  = (*service.CategoryService)(nil)
	_ NotesService       = (*service.NoteService)(nil)
	_ MoodsService       = (*service.MoodService)(nil)
	_ PomodoroUIService  = (*service.PomodoroService)(nil)
	_ QuotesService      = (*service.QuoteService)(nil)
	_ QuoteFeedRefresher = (*service.QuoteFeedService)(nil)
	_ ExercisesService   = (*service.ExerciseService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T            *TemplateRenderer
	TaskSvc      TasksService
	CategorySvc  CategoriesService
	NoteSvc      NotesService
	MoodSvc      MoodsService
	PomodoroSvc  PomodoroUIService
	QuoteSvc     QuotesService
	QuoteFeedSvc QuoteFeedRefresher
	ExerciseSvc  ExercisesService
	Flashes      ports.FlashStore
	IsDev        bool // Development mode flag for enhanced error reporting
	Logger       *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// getPageParams parses pagination params from URL query with sane defaults.
func getPageParams(q url.Values) (int, int) {
	page := 1
	pageSize := DefaultPageSize
	if p := q.Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	if s := q.Get("page_size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}
	return page, pageSize
}

// pageOpts represents pagination options for list views.
type pageOpts struct {
	Page     int
	PageSize int
}

// LimitAndOffset returns limit/offset used for pagination fetches,
// always fetching one extra item to detect next-page availability.
func (p pageOpts) LimitAndOffset() (int, int) {
	page := p.Page
	if page <= 0 {
		page = 1
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	limit := pageSize + 1
	offset := (page - 1) * pageSize
	return limit, offset
}

// paginate is a generic paginator for limit/offset list endpoints.
func paginate[T any](
	ctx context.Context,
	p pageOpts,
	fetch func(context.Context, int, int) ([]T, error),
) ([]T, bool, bool, error) {
	limit, offset := p.LimitAndOffset()
	items, err := fetch(ctx, limit, offset)
	if err != nil {
		return nil, false, false, err
	}
	hasPrev := p.Page > 1
	hasNext := len(items) > p.PageSize
	if hasNext {
		items = items[:p.PageSize]
	}
	return items, hasPrev, hasNext, nil
}

// buildPageURL returns a URL with the page param set, preserving other query params.
// basePath should be the path without query string (e.g., "/tasks", "/notes").
func buildPageURL(basePath string, q url.Values, page int) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if len(v) == 0 {
			continue
		}
		// filter out empty values while cloning
		tmp := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				tmp = append(tmp, s)
			}
		}
		if len(tmp) > 0 {
			qq[k] = tmp
		}
	}
	qq.Set("page", strconv.Itoa(page))
	if enc := qq.Encode(); enc != "" {
		return basePath + "?" + enc
	}
	return basePath
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"PageTitle":       meta.PageTitle,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
		"CSRFToken":       GetCSRFToken(r),
	}

	if session := GetSessionFromContext(r.Context()); session != nil {
		data["IsAuthenticated"] = true
		data["User"] = session
		data["IsAdmin"] = session.IsAdmin()
	}

	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			markPageError(data)
		}
	}
	h.renderPage(w, r, data)
}

// renderPage pops queued flashes into the data map and renders the full page.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data["Flashes"] = popFlashes(w, r, h.Flashes, h.Logger)
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "full page render")
	}
}

func markPageError(data map[string]any) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = "An unexpected error occurred. Please try again."
}

// currentUserID returns the session user id, or "" for anonymous requests.
// Handlers behind RequireAuthBrowser can rely on a non-empty result.
func currentUserID(r *http.Request) string {
	if session := GetSessionFromContext(r.Context()); session != nil {
		return session.UserID
	}
	return ""
}

// deleteHandlerOpts encapsulates common delete-handling behavior for UI endpoints.
type deleteHandlerOpts struct {
	Delete       func(ctx context.Context, userID, id string) (bool, error)
	RedirectPath string
	// Noun names the resource in flash messages, e.g. "Task".
	Noun string
}

// handleDelete coordinates delete flows shared across UI handlers.
func (h *UIHandlers) handleDelete(w http.ResponseWriter, r *http.Request, opts deleteHandlerOpts) {
	id := r.PathValue("id")
	if id == "" {
		h.NotFound(w, r)
		return
	}

	deleted, err := opts.Delete(r.Context(), currentUserID(r), id)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "delete failed", "error", err, "path", r.URL.Path)
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashError,
			Message:  "Unable to delete " + strings.ToLower(opts.Noun) + ". Please try again.",
			Logger:   h.Logger,
		})
		http.Redirect(w, r, opts.RedirectPath, http.StatusSeeOther)
		return
	}

	if deleted {
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashSuccess,
			Message:  opts.Noun + " deleted.",
			Logger:   h.Logger,
		})
	}
	http.Redirect(w, r, opts.RedirectPath, http.StatusSeeOther)
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	// In dev mode, show the underlying error in the response
	if h.IsDev {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
