package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurozen/neurozen/internal/domain/model"
	authmocks "github.com/neurozen/neurozen/internal/mocks/auth"
)

func TestLayout_AuthenticatedNav(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}

	r := newAuthedRequest(http.MethodGet, "/dashboard")
	rr := httptest.NewRecorder()

	h.Dashboard(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	assert.True(t, ContainsAll(body, []string{
		`href="/dashboard"`,
		`action="/auth/logout"`,
		"Logout",
		"zenuser",
	}), "authenticated nav should link the dashboard and offer logout, got: %s", body)

	assert.NotContains(t, body, `href="/auth/login"`)
	assert.NotContains(t, body, `href="/auth/signup"`)
}

func TestLayout_AnonymousNav(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return
	}
	handlers := &AuthHandlers{T: tr}

	r := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rr := httptest.NewRecorder()

	handlers.LoginForm(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	assert.True(t, ContainsAll(body, []string{
		`href="/auth/login"`,
		`href="/auth/signup"`,
	}), "anonymous nav should offer login and signup, got: %s", body)

	assert.NotContains(t, body, `href="/dashboard"`)
	assert.NotContains(t, body, `action="/auth/logout"`)
}

func TestLayout_FlashBannersRenderPerMessage(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}
	flashes := authmocks.NewMemoryFlashStore()
	h.Flashes = flashes

	r := newAuthedRequest(http.MethodGet, "/dashboard")
	r.AddCookie(&http.Cookie{Name: "flash_id", Value: "visitor-1"})

	queued := []model.Flash{
		{Category: model.FlashSuccess, Message: "Task created."},
		{Category: model.FlashError, Message: "Unable to delete note."},
		{Category: model.FlashWarning, Message: "You already logged your mood for that day."},
	}
	for _, f := range queued {
		require.NoError(t, flashes.Push(r.Context(), "visitor-1", f))
	}

	rr := httptest.NewRecorder()
	h.Dashboard(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	assert.Equal(t, len(queued), strings.Count(body, "alert-dismissible"),
		"each queued flash should render its own banner")
	assert.Equal(t, len(queued), strings.Count(body, `data-bs-dismiss="alert"`),
		"each banner should carry a dismiss button")

	assert.Contains(t, body, "alert-success")
	assert.Contains(t, body, "alert-danger")
	assert.Contains(t, body, "alert-warning")
	for _, f := range queued {
		assert.Contains(t, body, f.Message)
	}

	// A second render must come up empty: flashes are one-shot.
	rr2 := httptest.NewRecorder()
	h.Dashboard(rr2, newAuthedRequestWithFlashCookie("visitor-1"))
	assert.NotContains(t, rr2.Body.String(), "alert-dismissible")
}

func newAuthedRequestWithFlashCookie(owner string) *http.Request {
	r := newAuthedRequest(http.MethodGet, "/dashboard")
	r.AddCookie(&http.Cookie{Name: "flash_id", Value: owner})
	return r
}

func TestLayout_FlashUnknownCategoryFallsBack(t *testing.T) {
	assert.Equal(t, "alert-secondary", AlertClassFor(model.FlashCategory("bogus")))
}
