package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurozen/neurozen/internal/domain/model"
)

func TestAlertClassFor(t *testing.T) {
	cases := []struct {
		category model.FlashCategory
		want     string
	}{
		{model.FlashSuccess, "alert-success"},
		{model.FlashError, "alert-danger"},
		{model.FlashWarning, "alert-warning"},
		{model.FlashInfo, "alert-info"},
		{model.FlashCategory("unknown"), "alert-secondary"},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, AlertClassFor(tc.category), "category %q", tc.category)
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "Mar 14, 2025", formatDate(ts))
	assert.Equal(t, "Mar 14, 2025", formatDate(&ts))
	assert.Equal(t, "", formatDate(time.Time{}))
	assert.Equal(t, "", formatDate((*time.Time)(nil)))
	assert.Equal(t, "", formatDate("not a time"))
}

func TestContentTemplateFor(t *testing.T) {
	assert.Equal(t, "tasks-content", ContentTemplateFor(PageTasks))
	assert.Equal(t, "exercise-view-content", ContentTemplateFor(PageExerciseView))
	// Unknown pages fall back to the dashboard rather than failing the render
	assert.Equal(t, "dashboard-content", ContentTemplateFor("no-such-page"))
}

func TestTemplateRenderer_RequiresFS(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.Error(t, err)
}

func TestTemplateRenderer_RenderError(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return
	}

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/missing", nil)
	err := tr.RenderError(rr, r, map[string]any{
		"Title":       "Page Not Found - NeuroZen",
		"Code":        "404",
		"Message":     "The page you're looking for doesn't exist.",
		"ShowLogin":   true,
		"RedirectURI": "/missing",
	})
	require.NoError(t, err)

	body := rr.Body.String()
	assert.True(t, ContainsAll(body, []string{"404", "Sign In", "redirect_uri="}), "got: %s", body)
}

func TestTemplateRenderer_AllContentTemplatesDefined(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return
	}
	for page, name := range ContentTemplateMap() {
		assert.NotNilf(t, tr.t.Lookup(name), "page %q should have template %q", page, name)
	}
}
