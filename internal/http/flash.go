package httpx

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/neurozen/neurozen/internal/domain/model"
	"github.com/neurozen/neurozen/internal/ports"
)

// flashOwnerCookie names the cookie carrying the visitor's flash queue key.
// The id is independent of the session so notices pushed on the login and
// signup pages survive the transition into an authenticated session.
const flashOwnerCookie = "flash_id"

const flashOwnerMaxAge = 3600 * 24 * 30 // 30 days

// flashOwner returns the visitor's flash queue key, minting the flash_id
// cookie when the visitor does not have one yet.
func flashOwner(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(flashOwnerCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.New().String()
	isSecure := r.TLS != nil || isForwardedHTTPS(r)
	http.SetCookie(w, &http.Cookie{
		Name:     flashOwnerCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   flashOwnerMaxAge,
	})
	return id
}

// flashParams groups the values needed to queue a flash.
type flashParams struct {
	Store    ports.FlashStore
	Category model.FlashCategory
	Message  string
	Logger   *slog.Logger
}

// pushFlash queues a one-shot notice for the visitor's next page render.
// Failures are logged and swallowed; a lost notice should never break the flow.
func pushFlash(w http.ResponseWriter, r *http.Request, p flashParams) {
	if p.Store == nil || p.Message == "" {
		return
	}
	owner := flashOwner(w, r)
	flash := model.Flash{Category: p.Category, Message: p.Message}
	if err := p.Store.Push(r.Context(), owner, flash); err != nil && p.Logger != nil {
		p.Logger.WarnContext(r.Context(), "failed to queue flash message", "error", err)
	}
}

// popFlashes drains the visitor's queued notices for rendering, oldest first.
func popFlashes(w http.ResponseWriter, r *http.Request, store ports.FlashStore, logger *slog.Logger) []model.Flash {
	if store == nil {
		return nil
	}
	owner := flashOwner(w, r)
	flashes, err := store.PopAll(r.Context(), owner)
	if err != nil {
		if logger != nil {
			logger.WarnContext(r.Context(), "failed to pop flash messages", "error", err)
		}
		return nil
	}
	return flashes
}
