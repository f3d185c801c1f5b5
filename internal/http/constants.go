package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
// These constants ensure consistency across UI handlers and template mapping.
const (
	// Main navigation pages.
	PageHome      = "home"
	PageDashboard = "dashboard"

	// Auth pages rendered for anonymous visitors.
	PageLogin  = "login"
	PageSignup = "signup"

	// Task-related pages.
	PageTasks    = "tasks"
	PageTaskForm = "task-form"

	// Category pages.
	PageCategories = "categories"

	// Note-related pages.
	PageNotes    = "notes"
	PageNoteForm = "note-form"

	// Wellness pages.
	PageMoods        = "moods"
	PageMoodForm     = "mood-form"
	PagePomodoro     = "pomodoro"
	PageExercises    = "exercises"
	PageExerciseView = "exercise-view"
)

// DefaultPageSize is the number of items shown per list page.
const DefaultPageSize = 10

// Template paths used for loading templates in tests and production.
const (
	// Template directory paths.
	TemplatePathFromRoot = "web/templates"       // From project root
	TemplatePathFromTest = "../../web/templates" // From internal/http test files
)

// FormMode represents the mode of a form (create or edit).
// Using a dedicated type improves compile-time checks and prevents typos.
type FormMode string

const (
	// FormModeEdit indicates the form is in edit mode.
	FormModeEdit FormMode = "edit"
	// FormModeCreate indicates the form is in create mode.
	FormModeCreate FormMode = "create"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageHome:         "home-content",
	PageDashboard:    "dashboard-content",
	PageLogin:        "login-content",
	PageSignup:       "signup-content",
	PageTasks:        "tasks-content",
	PageTaskForm:     "task-form-content",
	PageCategories:   "categories-content",
	PageNotes:        "notes-content",
	PageNoteForm:     "note-form-content",
	PageMoods:        "moods-content",
	PageMoodForm:     "mood-form-content",
	PagePomodoro:     "pomodoro-content",
	PageExercises:    "exercises-content",
	PageExerciseView: "exercise-view-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
// This is the single source of truth for page-to-template mapping.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
