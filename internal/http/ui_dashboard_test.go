package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUIDashboard_IndexAnonymousRendersLanding(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.Index(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, ContainsAll(body, []string{
		"Sign Up",
		"Mood Journal",
	}), "got: %s", body)
}

func TestUIDashboard_IndexAuthedRendersDashboard(t *testing.T) {
	h := CreateUIHandlersForTest(t)
	if h == nil {
		return
	}

	r := newAuthedRequest(http.MethodGet, "/")
	rr := httptest.NewRecorder()
	h.Index(rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Dashboard")
	assert.NotContains(t, rr.Body.String(), "Sign Up")
}
