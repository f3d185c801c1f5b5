package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/neurozen/neurozen/internal/data"
	domainauth "github.com/neurozen/neurozen/internal/domain/auth"
	"github.com/neurozen/neurozen/internal/domain/model"
	"github.com/neurozen/neurozen/internal/ports"
	"github.com/neurozen/neurozen/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Signup(ctx context.Context, req *model.CreateUserRequest) (*model.User, *domainauth.Session, error)
	Login(ctx context.Context, username, password string) (*domainauth.Session, error)
	BeginSSO(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteSSO(ctx context.Context, input service.CompleteLoginInput) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
	SSOEnabled() bool
}

// Compile-time assertion that the concrete service satisfies the handler interface.
var _ AuthServiceInterface = (*service.AuthService)(nil)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Flashes      ports.FlashStore
	T            *TemplateRenderer
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginForm renders the sign-in page.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	// Already signed in: go straight to the dashboard
	if GetSessionFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := h.authPageData(r, PageMeta{Title: "Sign In - NeuroZen", PageTitle: "Sign In", CurrentPage: PageLogin})
	data["RedirectURI"] = safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	h.renderAuthPage(w, r, data)
}

// LoginSubmit processes a username/password sign-in.
// POST /auth/login.
func (h *AuthHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	redirectURI := safeRedirectPath(r.PostFormValue("redirect_uri"))

	session, err := h.Svc.Login(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		}
		data := h.authPageData(r, PageMeta{Title: "Sign In - NeuroZen", PageTitle: "Sign In", CurrentPage: PageLogin})
		data["RedirectURI"] = redirectURI
		data["Username"] = username
		data["FormError"] = "Invalid username or password."
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.renderAuthPage(w, r, data)
		return
	}

	h.setSessionCookie(w, r, *session)
	pushFlash(w, r, flashParams{
		Store:    h.Flashes,
		Category: model.FlashSuccess,
		Message:  "Welcome back, " + session.Username + "!",
		Logger:   h.Logger,
	})
	http.Redirect(w, r, redirectURI, http.StatusSeeOther)
}

// SignupForm renders the registration page.
// GET /auth/signup.
func (h *AuthHandlers) SignupForm(w http.ResponseWriter, r *http.Request) {
	if GetSessionFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := h.authPageData(r, PageMeta{Title: "Sign Up - NeuroZen", PageTitle: "Sign Up", CurrentPage: PageSignup})
	h.renderAuthPage(w, r, data)
}

// SignupSubmit registers a new account and signs the visitor in.
// POST /auth/signup.
func (h *AuthHandlers) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	req := &model.CreateUserRequest{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}

	if confirm := r.PostFormValue("confirm_password"); confirm != req.Password {
		h.renderSignupError(w, r, req, "Passwords do not match.")
		return
	}

	user, session, err := h.Svc.Signup(r.Context(), req)
	if err != nil {
		h.renderSignupError(w, r, req, signupErrorMessage(err))
		return
	}

	h.setSessionCookie(w, r, *session)
	pushFlash(w, r, flashParams{
		Store:    h.Flashes,
		Category: model.FlashSuccess,
		Message:  "Welcome to NeuroZen, " + user.Username + "! Your account is ready.",
		Logger:   h.Logger,
	})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// renderSignupError re-renders the signup form with sticky values and an error banner.
func (h *AuthHandlers) renderSignupError(w http.ResponseWriter, r *http.Request, req *model.CreateUserRequest, msg string) {
	data := h.authPageData(r, PageMeta{Title: "Sign Up - NeuroZen", PageTitle: "Sign Up", CurrentPage: PageSignup})
	data["Username"] = req.Username
	data["Email"] = req.Email
	data["FormError"] = msg
	w.WriteHeader(http.StatusUnprocessableEntity)
	h.renderAuthPage(w, r, data)
}

// signupErrorMessage maps service errors to user-facing form messages.
func signupErrorMessage(err error) string {
	switch {
	case errors.Is(err, data.ErrUsernameExists):
		return "That username is already taken."
	case errors.Is(err, data.ErrEmailExists):
		return "An account with that email already exists."
	default:
		return capitalizeFirst(err.Error())
	}
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SSOLogin starts the SSO login flow.
// GET /auth/sso?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) SSOLogin(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	if !h.Svc.SSOEnabled() {
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashWarning,
			Message:  "Single sign-on is not configured.",
			Logger:   h.Logger,
		})
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	result, err := h.Svc.BeginSSO(r.Context(), redirectURI)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "sso login failed", "error", err)
		h.flashLoginError(w, r, "Unable to start single sign-on. Please try again.")
		return
	}

	// Store state, nonce, and the original redirect URI in secure cookies
	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})

	// Redirect to the identity provider
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// SSOCallback completes the SSO flow after the provider redirects back.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) SSOCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		h.flashLoginError(w, r, "Sign-in was cancelled or the provider response was incomplete.")
		return
	}

	// Verify state and read nonce
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		h.flashLoginError(w, r, "Sign-in session expired. Please try again.")
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		h.flashLoginError(w, r, "Sign-in session expired. Please try again.")
		return
	}

	session, err := h.Svc.CompleteSSO(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "sso callback failed", "error", err)
		h.flashLoginError(w, r, "Single sign-on failed. Please try again.")
		return
	}

	// Set session cookie and clear temporary OAuth cookies
	h.setSessionCookie(w, r, *session)
	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")

	pushFlash(w, r, flashParams{
		Store:    h.Flashes,
		Category: model.FlashSuccess,
		Message:  "Welcome back, " + session.Username + "!",
		Logger:   h.Logger,
	})

	// Redirect to the original destination
	redirectURI := h.getPostLoginRedirect(w, r)
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// flashLoginError queues an error notice and sends the visitor back to the login page.
func (h *AuthHandlers) flashLoginError(w http.ResponseWriter, r *http.Request, msg string) {
	pushFlash(w, r, flashParams{
		Store:    h.Flashes,
		Category: model.FlashError,
		Message:  msg,
		Logger:   h.Logger,
	})
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// Logout handles the logout endpoint.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	// Get session ID from cookie and invalidate server-side session if present
	if sessionCookie, err := r.Cookie("session_id"); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	// Clear session cookie on the client
	h.clearCookie(w, r, "session_id")

	pushFlash(w, r, flashParams{
		Store:    h.Flashes,
		Category: model.FlashInfo,
		Message:  "You have been signed out.",
		Logger:   h.Logger,
	})

	// AJAX requests get a JSON payload; regular requests redirect
	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": "/auth/login",
		})
		return
	}

	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie("session_id")
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
		})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		// Session is invalid or expired, clear the cookie
		h.clearCookie(w, r, "session_id")
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":       session.UserID,
			"username": session.Username,
			"email":    session.Email,
			"role":     session.Role,
		},
		"expires_at": session.ExpiresAt,
	})
}

// authPageData builds the base template data for login and signup pages.
// Sticky form fields default to empty strings so the templates can print
// them without guarding.
func (h *AuthHandlers) authPageData(r *http.Request, meta PageMeta) map[string]any {
	data := basePageData(r, meta)
	data["SSOEnabled"] = h.Svc != nil && h.Svc.SSOEnabled()
	data["Username"] = ""
	data["Email"] = ""
	data["RedirectURI"] = ""
	return data
}

// renderAuthPage pops queued flashes and renders the full page.
func (h *AuthHandlers) renderAuthPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data["Flashes"] = popFlashes(w, r, h.Flashes, h.Logger)
	if h.T == nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.logger().ErrorContext(r.Context(), "auth page render failed", "error", err, "path", r.URL.Path)
	}
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting cookies
// to maximize compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || isForwardedHTTPS(r)
	cd := h.CookieDomain
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// oauthCookieParams groups values needed to set OAuth cookies.
type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores OAuth state, nonce, and the post-login redirect in secure cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	isSecure := r.TLS != nil || isForwardedHTTPS(r)
	cd := h.CookieDomain

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    p.State,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_nonce",
		Value:    p.Nonce,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "post_login_redirect",
		Value:    p.RedirectURI,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	isSecure := r.TLS != nil || isForwardedHTTPS(r)
	cd := h.CookieDomain
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    s.ID,
		Path:     "/",
		Domain:   cd,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// getPostLoginRedirect returns the post-login redirect URL and clears the cookie.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := "/"
	if redirectCookie, err := r.Cookie("post_login_redirect"); err == nil {
		candidate := redirectCookie.Value
		// Re-validate: allow only relative paths
		u, parseErr := url.Parse(candidate)
		if parseErr == nil && !u.IsAbs() && u.Host == "" && strings.HasPrefix(u.Path, "/") {
			redirectURI = candidate
		}
		h.clearCookie(w, r, "post_login_redirect")
	}
	return redirectURI
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
