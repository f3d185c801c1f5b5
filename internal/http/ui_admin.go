package httpx

import (
	"errors"
	"net/http"

	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// AdminQuoteRefresh re-imports today's quote from the configured feed.
// POST /admin/quotes/refresh, admin only.
func (h *UIHandlers) AdminQuoteRefresh(w http.ResponseWriter, r *http.Request) {
	if h.QuoteFeedSvc == nil {
		h.NotFound(w, r)
		return
	}

	quote, err := h.QuoteFeedSvc.RefreshToday(r.Context())
	switch {
	case errors.Is(err, data.ErrQuoteDateExists):
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashWarning,
			Message:  "Today's quote is already set.",
			Logger:   h.Logger,
		})
	case err != nil:
		h.logger().ErrorContext(r.Context(), "failed to refresh daily quote", "error", err)
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashError,
			Message:  "Quote refresh failed.",
			Logger:   h.Logger,
		})
	default:
		pushFlash(w, r, flashParams{
			Store:    h.Flashes,
			Category: model.FlashSuccess,
			Message:  "Quote of the day updated: " + quote.Author + ".",
			Logger:   h.Logger,
		})
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
