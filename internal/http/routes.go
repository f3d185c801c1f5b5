package httpx

import (
	"bytes"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	neurozen "github.com/neurozen/neurozen"
	domainauth "github.com/neurozen/neurozen/internal/domain/auth"
	"github.com/neurozen/neurozen/internal/ports"
	"github.com/neurozen/neurozen/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Tasks      *service.TaskService
	Categories *service.CategoryService
	Notes      *service.NoteService
	Moods      *service.MoodService
	Pomodoro   *service.PomodoroService
	Quotes     *service.QuoteService
	QuoteFeed  *service.QuoteFeedService
	Exercises  *service.ExerciseService
	Auth       *service.AuthService
	Flashes    ports.FlashStore

	CookieDomain string
	// Configuration
	IsDev  bool         // Development mode flag for hot reloading, etc.
	Logger *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	uiHandlers := setupUIHandlers(services)

	var authHandlers *AuthHandlers
	if services.Auth != nil {
		authHandlers = &AuthHandlers{
			Svc:          services.Auth,
			Flashes:      services.Flashes,
			T:            uiTemplateRenderer(uiHandlers),
			CookieDomain: services.CookieDomain,
			Logger:       services.Logger,
		}
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	cfg := uiRouteConfig{Auth: services.Auth, CookieDomain: services.CookieDomain}
	if authHandlers != nil {
		registerAuthRoutes(mux, authHandlers, cfg)
	}

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	mux.Handle("GET /static/", staticHandler(services.IsDev))

	if uiHandlers != nil {
		registerUIRoutes(mux, uiHandlers, cfg)
	}

	// Wrap with NotFound handler and browser detection middleware
	handler := &notFoundHandler{
		mux:        mux,
		uiHandlers: uiHandlers,
	}

	// Apply browser detection middleware
	return BrowserDetection()(handler)
}

func uiTemplateRenderer(h *UIHandlers) *TemplateRenderer {
	if h == nil {
		return nil
	}
	return h.T
}

// setupTemplateFS chooses the template filesystem based on dev mode.
func setupTemplateFS(isDev bool) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	templateFS, err := fs.Sub(neurozen.TemplateFS, "web/templates")
	if err != nil {
		log.Printf("failed to create sub-filesystem for templates: %v; falling back to disk", err)
		return os.DirFS(TemplatePathFromRoot)
	}
	return templateFS
}

// setupUIHandlers creates UI handlers with a template renderer.
// In dev mode (services.IsDev=true), templates are loaded from disk for hot reloading.
// In production mode (services.IsDev=false), templates are loaded from embedded FS.
func setupUIHandlers(services RouterServices) *UIHandlers {
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: setupTemplateFS(services.IsDev),
		Logger:     services.Logger,
	})
	if err != nil {
		if services.Logger != nil {
			services.Logger.Error("failed to create template renderer", slog.Any("error", err))
		} else {
			log.Printf("ERROR: failed to create template renderer: %v", err)
		}
		return nil
	}

	h := &UIHandlers{
		T:       tr,
		Flashes: services.Flashes,
		IsDev:   services.IsDev,
		Logger:  services.Logger,
	}

	// Assign interface fields only for non-nil services. A nil concrete
	// pointer stored in an interface is not a nil interface, so the
	// handlers' per-service guards would pass and then dereference nil.
	if services.Tasks != nil {
		h.TaskSvc = services.Tasks
	}
	if services.Categories != nil {
		h.CategorySvc = services.Categories
	}
	if services.Notes != nil {
		h.NoteSvc = services.Notes
	}
	if services.Moods != nil {
		h.MoodSvc = services.Moods
	}
	if services.Pomodoro != nil {
		h.PomodoroSvc = services.Pomodoro
	}
	if services.Quotes != nil {
		h.QuoteSvc = services.Quotes
	}
	if services.QuoteFeed != nil {
		h.QuoteFeedSvc = services.QuoteFeed
	}
	if services.Exercises != nil {
		h.ExerciseSvc = services.Exercises
	}

	return h
}

// staticHandler serves /static/* assets.
// In dev mode (isDev=true), serves from disk for hot reloading.
// In production mode (isDev=false), serves from embedded FS.
func staticHandler(isDev bool) http.Handler {
	if isDev {
		return http.StripPrefix("/static/", http.FileServer(http.Dir("web/static")))
	}

	staticSub, err := fs.Sub(neurozen.StaticFS, "web/static")
	if err != nil {
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		// Fallback to disk serving if embed fails
		return http.StripPrefix("/static/", http.FileServer(http.Dir("web/static")))
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(staticSub)))
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter(w)
	// Serve the request through the mux, capturing status, headers, and body
	h.mux.ServeHTTP(cw, r)

	// If the mux didn't handle the request (404), use our custom handler
	if cw.status == http.StatusNotFound {
		// For missing static assets, preserve the default file server response
		if strings.HasPrefix(r.URL.Path, "/static/") {
			cw.flushTo(w)
			return
		}
		if h.uiHandlers != nil {
			h.uiHandlers.NotFound(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}

	// Not a 404: write the captured response
	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		log.Printf("failed to write captured response: %v", err)
	}
}

// uiRouteConfig holds configuration for UI route registration.
type uiRouteConfig struct {
	Auth         *service.AuthService
	CookieDomain string
}

// csrf returns the CSRF middleware shared by all form-posting routes.
func (cfg uiRouteConfig) csrf() func(http.Handler) http.Handler {
	return CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
}

// authWrap protects a UI route: session required, CSRF validated on writes.
func (cfg uiRouteConfig) authWrap() func(http.Handler) http.Handler {
	csrf := cfg.csrf()
	if cfg.Auth == nil {
		return csrf
	}
	requireAuth := RequireAuthBrowser(cfg.Auth)
	return func(h http.Handler) http.Handler {
		return requireAuth(csrf(h))
	}
}

// adminWrap restricts a route to signed-in admins, with the CSRF layer
// underneath. Non-admins get the access denied response, anonymous
// visitors are sent to login.
func (cfg uiRouteConfig) adminWrap() func(http.Handler) http.Handler {
	csrf := cfg.csrf()
	if cfg.Auth == nil {
		return csrf
	}
	requireAdmin := RequireRoleBrowser(cfg.Auth, domainauth.RoleAdmin)
	return func(h http.Handler) http.Handler {
		return requireAdmin(csrf(h))
	}
}

// optionalWrap attaches the session when present, without requiring one.
// Used for public pages that adapt to authentication state.
func (cfg uiRouteConfig) optionalWrap() func(http.Handler) http.Handler {
	csrf := cfg.csrf()
	if cfg.Auth == nil {
		return csrf
	}
	optional := OptionalAuth(cfg.Auth)
	return func(h http.Handler) http.Handler {
		return optional(csrf(h))
	}
}

// registerAuthRoutes wires authentication pages and endpoints.
func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, cfg uiRouteConfig) {
	wrap := cfg.optionalWrap()
	mux.Handle("GET /auth/login", wrap(http.HandlerFunc(h.LoginForm)))
	mux.Handle("POST /auth/login", wrap(http.HandlerFunc(h.LoginSubmit)))
	mux.Handle("GET /auth/signup", wrap(http.HandlerFunc(h.SignupForm)))
	mux.Handle("POST /auth/signup", wrap(http.HandlerFunc(h.SignupSubmit)))
	mux.Handle("GET /auth/sso", wrap(http.HandlerFunc(h.SSOLogin)))
	mux.Handle("GET /auth/callback", wrap(http.HandlerFunc(h.SSOCallback)))
	mux.Handle("POST /auth/logout", wrap(http.HandlerFunc(h.Logout)))
	mux.HandleFunc("GET /auth/status", h.Status)
}

// registerUIRoutes delegates to per-domain UI route registration functions.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	registerUIDashboardRoutes(mux, h, cfg)
	registerUITaskRoutes(mux, h, cfg)
	registerUICategoryRoutes(mux, h, cfg)
	registerUINoteRoutes(mux, h, cfg)
	registerUIMoodRoutes(mux, h, cfg)
	registerUIPomodoroRoutes(mux, h, cfg)
	registerUIExerciseRoutes(mux, h, cfg)
	registerUIAdminRoutes(mux, h, cfg)
}

func registerUIAdminRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.adminWrap()
	mux.Handle("POST /admin/quotes/refresh", wrap(http.HandlerFunc(h.AdminQuoteRefresh)))
}

// registerUIDashboardRoutes wires main dashboard/navigation pages. The root
// page stays reachable without a session so anonymous visitors get the
// landing page instead of a login redirect.
func registerUIDashboardRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	mux.Handle("GET /{$}", cfg.optionalWrap()(http.HandlerFunc(h.Index)))
	mux.Handle("GET /dashboard", cfg.authWrap()(http.HandlerFunc(h.Dashboard)))
}

func registerUITaskRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /tasks", wrap(http.HandlerFunc(h.Tasks)))
	mux.Handle("GET /tasks/new", wrap(http.HandlerFunc(h.TaskNew)))
	mux.Handle("GET /tasks/{id}/edit", wrap(http.HandlerFunc(h.TaskEdit)))
	mux.Handle("POST /tasks", wrap(http.HandlerFunc(h.TaskCreate)))
	mux.Handle("POST /tasks/{id}", wrap(http.HandlerFunc(h.TaskUpdate)))
	mux.Handle("POST /tasks/{id}/status", wrap(http.HandlerFunc(h.TaskStatus)))
	mux.Handle("POST /tasks/{id}/delete", wrap(http.HandlerFunc(h.TaskDelete)))
}

func registerUICategoryRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /categories", wrap(http.HandlerFunc(h.Categories)))
	mux.Handle("POST /categories", wrap(http.HandlerFunc(h.CategoryCreate)))
	mux.Handle("POST /categories/{id}", wrap(http.HandlerFunc(h.CategoryUpdate)))
	mux.Handle("POST /categories/{id}/delete", wrap(http.HandlerFunc(h.CategoryDelete)))
}

func registerUINoteRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /notes", wrap(http.HandlerFunc(h.Notes)))
	mux.Handle("GET /notes/new", wrap(http.HandlerFunc(h.NoteNew)))
	mux.Handle("GET /notes/{id}/edit", wrap(http.HandlerFunc(h.NoteEdit)))
	mux.Handle("POST /notes", wrap(http.HandlerFunc(h.NoteCreate)))
	mux.Handle("POST /notes/{id}", wrap(http.HandlerFunc(h.NoteUpdate)))
	mux.Handle("POST /notes/{id}/pin", wrap(http.HandlerFunc(h.NotePin)))
	mux.Handle("POST /notes/{id}/delete", wrap(http.HandlerFunc(h.NoteDelete)))
}

func registerUIMoodRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /moods", wrap(http.HandlerFunc(h.Moods)))
	mux.Handle("POST /moods", wrap(http.HandlerFunc(h.MoodCreate)))
	mux.Handle("GET /moods/{id}/edit", wrap(http.HandlerFunc(h.MoodEdit)))
	mux.Handle("POST /moods/{id}", wrap(http.HandlerFunc(h.MoodUpdate)))
	mux.Handle("POST /moods/{id}/delete", wrap(http.HandlerFunc(h.MoodDelete)))
}

func registerUIPomodoroRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /pomodoro", wrap(http.HandlerFunc(h.Pomodoro)))
	mux.Handle("POST /pomodoro", wrap(http.HandlerFunc(h.PomodoroStart)))
	mux.Handle("POST /pomodoro/{id}/complete", wrap(http.HandlerFunc(h.PomodoroComplete)))
	mux.Handle("POST /pomodoro/{id}/cancel", wrap(http.HandlerFunc(h.PomodoroCancel)))
}

func registerUIExerciseRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /exercises", wrap(http.HandlerFunc(h.Exercises)))
	mux.Handle("GET /exercises/{id}", wrap(http.HandlerFunc(h.ExerciseView)))
}
