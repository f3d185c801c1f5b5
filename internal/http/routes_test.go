package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter builds the full router with no backing services. Handlers
// that need data degrade gracefully, which is enough to exercise routing,
// 404 handling, and static assets.
func newTestRouter() http.Handler {
	return NewRouter(RouterServices{})
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	head := httptest.NewRequest(http.MethodHead, "/healthz", nil)
	rrHead := httptest.NewRecorder()
	router.ServeHTTP(rrHead, head)
	assert.Equal(t, http.StatusOK, rrHead.Code)
	assert.Empty(t, rrHead.Body.String())
}

func TestRouter_UnknownPathRendersNotFoundPage(t *testing.T) {
	router := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/no/such/page", nil)
	r.Header.Set("Accept", "text/html")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "404")
}

func TestRouter_UnknownAPIPathReturnsJSON(t *testing.T) {
	router := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/api/no/such/endpoint", nil)
	r.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "not_found")
}

func TestRouter_StaticAssetServed(t *testing.T) {
	router := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/css")
}

func TestRouter_RootAnonymousShowsLanding(t *testing.T) {
	router := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept", "text/html")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, ContainsAll(body, []string{
		"NeuroZen",
		`href="/auth/signup"`,
		`href="/auth/login"`,
	}), "got: %s", body)
}

// The router must tolerate a partially wired RouterServices: handlers check
// their service fields for nil, so none of them may receive an interface
// wrapping a nil concrete pointer.
func TestRouter_DashboardDegradesWithoutServices(t *testing.T) {
	router := newTestRouter()

	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.Header.Set("Accept", "text/html")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Dashboard")
}
