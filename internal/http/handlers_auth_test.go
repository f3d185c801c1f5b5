package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurozen/neurozen/internal/data"
	domainauth "github.com/neurozen/neurozen/internal/domain/auth"
	"github.com/neurozen/neurozen/internal/domain/model"
	authmocks "github.com/neurozen/neurozen/internal/mocks/auth"
	"github.com/neurozen/neurozen/internal/service"
)

// mockAuthService is a test double for the auth service interface.
type mockAuthService struct {
	signupFunc      func(ctx context.Context, req *model.CreateUserRequest) (*model.User, *domainauth.Session, error)
	loginFunc       func(ctx context.Context, username, password string) (*domainauth.Session, error)
	beginSSOFunc    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	completeSSOFunc func(ctx context.Context, input service.CompleteLoginInput) (*domainauth.Session, error)
	getSessionFunc  func(ctx context.Context, sessionID string) (*domainauth.Session, error)
	logoutFunc      func(ctx context.Context, sessionID string) error
	ssoEnabled      bool
}

func (m *mockAuthService) Signup(ctx context.Context, req *model.CreateUserRequest) (*model.User, *domainauth.Session, error) {
	if m.signupFunc != nil {
		return m.signupFunc(ctx, req)
	}
	return &model.User{ID: "user-1", Username: req.Username, Email: req.Email}, testSession(), nil
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*domainauth.Session, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, username, password)
	}
	return testSession(), nil
}

func (m *mockAuthService) BeginSSO(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if m.beginSSOFunc != nil {
		return m.beginSSOFunc(ctx, redirectURL)
	}
	return &service.BeginLoginResult{
		AuthURL: "https://idp.example.com/auth?state=test-state",
		State:   "test-state",
		Nonce:   "test-nonce",
	}, nil
}

func (m *mockAuthService) CompleteSSO(ctx context.Context, input service.CompleteLoginInput) (*domainauth.Session, error) {
	if m.completeSSOFunc != nil {
		return m.completeSSOFunc(ctx, input)
	}
	return testSession(), nil
}

func (m *mockAuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if m.getSessionFunc != nil {
		return m.getSessionFunc(ctx, sessionID)
	}
	s := testSession()
	s.ID = sessionID
	return s, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) SSOEnabled() bool { return m.ssoEnabled }

func newFormRequest(target string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_LoginSubmit_Success(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}, Flashes: authmocks.NewMemoryFlashStore()}

	r := newFormRequest("/auth/login", url.Values{
		"username":     {"zenuser"},
		"password":     {"correct horse"},
		"redirect_uri": {"/tasks"},
	})
	rr := httptest.NewRecorder()

	h.LoginSubmit(rr, r)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/tasks", rr.Header().Get("Location"))

	resp := rr.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	sessionCookie := findCookie(t, resp, "session_id")
	require.NotNil(t, sessionCookie, "login must set the session cookie")
	assert.Equal(t, "test-session-id", sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)
}

func TestAuthHandlers_LoginSubmit_InvalidCredentials(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return
	}
	h := &AuthHandlers{
		Svc: &mockAuthService{
			loginFunc: func(_ context.Context, _, _ string) (*domainauth.Session, error) {
				return nil, service.ErrInvalidCredentials
			},
		},
		T: tr,
	}

	r := newFormRequest("/auth/login", url.Values{
		"username": {"zenuser"},
		"password": {"wrong"},
	})
	rr := httptest.NewRecorder()

	h.LoginSubmit(rr, r)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Invalid username or password.")
	// Username stays sticky on the re-rendered form
	assert.Contains(t, body, `value="zenuser"`)
}

func TestAuthHandlers_LoginSubmit_RejectsAbsoluteRedirect(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	r := newFormRequest("/auth/login", url.Values{
		"username":     {"zenuser"},
		"password":     {"correct horse"},
		"redirect_uri": {"https://evil.example.com/phish"},
	})
	rr := httptest.NewRecorder()

	h.LoginSubmit(rr, r)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}

func TestAuthHandlers_LoginForm_RedirectsWhenAuthenticated(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	r := newAuthedRequest(http.MethodGet, "/auth/login")
	rr := httptest.NewRecorder()

	h.LoginForm(rr, r)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestAuthHandlers_SignupSubmit_Success(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}, Flashes: authmocks.NewMemoryFlashStore()}

	r := newFormRequest("/auth/signup", url.Values{
		"username":         {"newuser"},
		"email":            {"new.user@example.com"},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
	})
	rr := httptest.NewRecorder()

	h.SignupSubmit(rr, r)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))

	resp := rr.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.NotNil(t, findCookie(t, resp, "session_id"))
}

func TestAuthHandlers_SignupSubmit_PasswordMismatch(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return
	}
	h := &AuthHandlers{Svc: &mockAuthService{}, T: tr}

	r := newFormRequest("/auth/signup", url.Values{
		"username":         {"newuser"},
		"email":            {"new.user@example.com"},
		"password":         {"secret123"},
		"confirm_password": {"different"},
	})
	rr := httptest.NewRecorder()

	h.SignupSubmit(rr, r)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Passwords do not match.")
	assert.Contains(t, body, `value="newuser"`)
	assert.Contains(t, body, `value="new.user@example.com"`)
}

func TestAuthHandlers_SignupSubmit_UsernameTaken(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return
	}
	h := &AuthHandlers{
		Svc: &mockAuthService{
			signupFunc: func(_ context.Context, _ *model.CreateUserRequest) (*model.User, *domainauth.Session, error) {
				return nil, nil, data.ErrUsernameExists
			},
		},
		T: tr,
	}

	r := newFormRequest("/auth/signup", url.Values{
		"username":         {"taken"},
		"email":            {"taken@example.com"},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
	})
	rr := httptest.NewRecorder()

	h.SignupSubmit(rr, r)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "That username is already taken.")
}

func TestAuthHandlers_Logout_Redirects(t *testing.T) {
	loggedOut := ""
	h := &AuthHandlers{
		Svc: &mockAuthService{
			logoutFunc: func(_ context.Context, sessionID string) error {
				loggedOut = sessionID
				return nil
			},
		},
		Flashes: authmocks.NewMemoryFlashStore(),
	}

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-9"})
	rr := httptest.NewRecorder()

	h.Logout(rr, r)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/auth/login", rr.Header().Get("Location"))
	assert.Equal(t, "sess-9", loggedOut)

	resp := rr.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	cleared := findCookie(t, resp, "session_id")
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestAuthHandlers_Logout_AJAXReturnsJSON(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	r.Header.Set("X-Requested-With", "XMLHttpRequest")
	rr := httptest.NewRecorder()

	h.Logout(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, "/auth/login", payload["redirect_to"])
}

func TestAuthHandlers_Status(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	t.Run("authenticated", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		r.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
		rr := httptest.NewRecorder()

		h.Status(rr, r)

		assert.Equal(t, http.StatusOK, rr.Code)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
		assert.Equal(t, true, payload["authenticated"])
		user, ok := payload["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "zenuser", user["username"])
	})

	t.Run("anonymous", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		rr := httptest.NewRecorder()

		h.Status(rr, r)

		assert.Equal(t, http.StatusOK, rr.Code)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
		assert.Equal(t, false, payload["authenticated"])
	})
}

func TestAuthHandlers_SSOLogin_SetsOAuthCookies(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{ssoEnabled: true}}

	r := httptest.NewRequest(http.MethodGet, "/auth/sso?redirect_uri=/notes", nil)
	rr := httptest.NewRecorder()

	h.SSOLogin(rr, r)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "https://idp.example.com/auth")

	resp := rr.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	for _, name := range []string{"oauth_state", "oauth_nonce", "post_login_redirect"} {
		require.NotNilf(t, findCookie(t, resp, name), "expected cookie %s", name)
	}
	assert.Equal(t, "/notes", findCookie(t, resp, "post_login_redirect").Value)
}

func TestAuthHandlers_SSOLogin_DisabledRedirectsToLogin(t *testing.T) {
	flashes := authmocks.NewMemoryFlashStore()
	h := &AuthHandlers{Svc: &mockAuthService{ssoEnabled: false}, Flashes: flashes}

	r := httptest.NewRequest(http.MethodGet, "/auth/sso", nil)
	r.AddCookie(&http.Cookie{Name: "flash_id", Value: "visitor-sso"})
	rr := httptest.NewRecorder()

	h.SSOLogin(rr, r)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/auth/login", rr.Header().Get("Location"))

	queued, err := flashes.PopAll(r.Context(), "visitor-sso")
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, model.FlashWarning, queued[0].Category)
}

func TestAuthHandlers_SSOCallback_StateMismatch(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{ssoEnabled: true}}

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=tampered", nil)
	r.AddCookie(&http.Cookie{Name: "oauth_state", Value: "test-state"})
	rr := httptest.NewRecorder()

	h.SSOCallback(rr, r)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/auth/login", rr.Header().Get("Location"))
}

func TestAuthHandlers_SSOCallback_Success(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{ssoEnabled: true}}

	r := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=test-state", nil)
	r.AddCookie(&http.Cookie{Name: "oauth_state", Value: "test-state"})
	r.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "test-nonce"})
	r.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/notes"})
	rr := httptest.NewRecorder()

	h.SSOCallback(rr, r)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/notes", rr.Header().Get("Location"))

	resp := rr.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.NotNil(t, findCookie(t, resp, "session_id"))
}

func TestSafeRedirectPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/dashboard", "/dashboard"},
		{"/tasks?page=2", "/tasks?page=2"},
		{"https://evil.example.com/", "/"},
		{"//evil.example.com/", "/"},
		{"javascript:alert(1)", "/"},
		{"relative/path", "/"},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, safeRedirectPath(tc.in), "input %q", tc.in)
	}
}
