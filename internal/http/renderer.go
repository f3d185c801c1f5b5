package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/neurozen/neurozen/internal/domain/model"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger // For logging template errors
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
// In dev mode, TemplateFS should be os.DirFS("web/templates") so edits show without a rebuild.
// In prod mode, TemplateFS should be fs.Sub(TemplateFS, "web/templates") from the embedded assets.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}

	renderer := &TemplateRenderer{logger: cfg.Logger}

	var t *template.Template
	funcs := createTemplateFuncs(&t)
	var err error
	t, err = template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
	)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("template parsing failed",
				slog.Any("error", err),
				slog.String("phase", "initialization"),
			)
		}
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "layout", data)
}

// RenderError renders an error page using the error template.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, _ *http.Request, data any) error {
	// Use the error.tmpl template which defines "error-layout"
	return r.renderTemplate(w, "error-layout", data)
}

func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, templateName string, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, templateName, data); err != nil {
		r.logTemplateError(templateName, err)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		if r.logger != nil {
			r.logger.Error("failed to write rendered template",
				slog.String("template", templateName),
				slog.Any("error", err),
			)
		}
		return err
	}

	return nil
}

// logTemplateError logs a template execution error with context.
func (r *TemplateRenderer) logTemplateError(templateName string, err error) {
	if r.logger == nil || err == nil {
		return
	}
	r.logger.Error("template execution failed",
		slog.String("template", templateName),
		slog.Any("error", err),
	)
}

// createTemplateFuncs builds the FuncMap shared by all templates. The
// late-bound *template.Template pointer lets "content" dispatch to page
// templates that are parsed after the func map is installed.
func createTemplateFuncs(t **template.Template) template.FuncMap {
	return template.FuncMap{
		// content renders the content template for the given CurrentPage.
		"content": func(currentPage string, data any) (template.HTML, error) {
			var buf bytes.Buffer
			if err := (*t).ExecuteTemplate(&buf, ContentTemplateFor(currentPage), data); err != nil {
				return "", fmt.Errorf("render content %q: %w", currentPage, err)
			}
			return template.HTML(buf.String()), nil //nolint:gosec // output of a trusted template
		},
		// pageBlock renders an optional per-page extension block ("extra-css",
		// "extra-js"). Pages that do not define the block contribute nothing.
		"pageBlock": func(currentPage, suffix string, data any) (template.HTML, error) {
			base := strings.TrimSuffix(ContentTemplateFor(currentPage), "-content")
			name := base + "-" + suffix
			if (*t).Lookup(name) == nil {
				return "", nil
			}
			var buf bytes.Buffer
			if err := (*t).ExecuteTemplate(&buf, name, data); err != nil {
				return "", fmt.Errorf("render block %q: %w", name, err)
			}
			return template.HTML(buf.String()), nil //nolint:gosec // output of a trusted template
		},
		"alertClass": AlertClassFor,
		"formatDate": formatDate,
		"formatDateTime": func(ts time.Time) string {
			return ts.Local().Format("Jan 2, 2006 3:04 PM")
		},
		"lower": strings.ToLower,
	}
}

// AlertClassFor maps a flash category to its Bootstrap contextual alert class.
// Unknown categories render as secondary rather than breaking the page.
func AlertClassFor(category model.FlashCategory) string {
	switch category {
	case model.FlashSuccess:
		return "alert-success"
	case model.FlashError:
		return "alert-danger"
	case model.FlashWarning:
		return "alert-warning"
	case model.FlashInfo:
		return "alert-info"
	default:
		return "alert-secondary"
	}
}

// formatDate accepts both time.Time and *time.Time so templates can pass
// optional date fields directly.
func formatDate(v any) string {
	var ts time.Time
	switch t := v.(type) {
	case time.Time:
		ts = t
	case *time.Time:
		if t == nil {
			return ""
		}
		ts = *t
	default:
		return ""
	}
	if ts.IsZero() {
		return ""
	}
	return ts.Format("Jan 2, 2006")
}
