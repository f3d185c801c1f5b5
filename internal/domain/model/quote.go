package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxQuoteAuthorLen = 200

// DailyQuote is a global quote-of-the-day shown on the dashboard.
// Date is unique; at most one quote exists per calendar day.
type DailyQuote struct {
	ID       string    `json:"id"        db:"id"`
	Quote    string    `json:"quote"     db:"quote"`
	Author   string    `json:"author"    db:"author"`
	Date     time.Time `json:"date"      db:"date"`
	IsActive bool      `json:"is_active" db:"is_active"`
}

// Attribution returns the author, or a placeholder for anonymous quotes.
func (q *DailyQuote) Attribution() string {
	if strings.TrimSpace(q.Author) == "" {
		return "Unknown"
	}
	return q.Author
}

// CreateDailyQuoteRequest represents parameters to schedule a quote for a day.
type CreateDailyQuoteRequest struct {
	Quote    string    `json:"quote"`
	Author   string    `json:"author,omitempty"`
	Date     time.Time `json:"date"`
	IsActive *bool     `json:"is_active,omitempty"`
}

// Validate validates CreateDailyQuoteRequest.
func (r *CreateDailyQuoteRequest) Validate() error {
	if strings.TrimSpace(r.Quote) == "" {
		return errors.New("quote is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Author) > maxQuoteAuthorLen {
		return errors.New("author cannot exceed 200 characters")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}
