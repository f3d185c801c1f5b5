package model

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const maxNoteTitleLen = 200

// DefaultNoteColor is the background applied when a note has no explicit color.
const DefaultNoteColor = "#FFFFFF"

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Note is a free-form text note owned by a user. Pinned notes sort first.
type Note struct {
	ID        string    `json:"id"         db:"id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	Title     string    `json:"title"      db:"title"`
	Content   string    `json:"content"    db:"content"`
	IsPinned  bool      `json:"is_pinned"  db:"is_pinned"`
	Color     string    `json:"color"      db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Excerpt returns the first n runes of the note body for card previews.
func (n *Note) Excerpt(limit int) string {
	body := strings.TrimSpace(n.Content)
	if utf8.RuneCountInString(body) <= limit {
		return body
	}
	runes := []rune(body)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

// CreateNoteRequest represents parameters to create a Note.
type CreateNoteRequest struct {
	UserID   string `json:"user_id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPinned bool   `json:"is_pinned,omitempty"`
	Color    string `json:"color,omitempty"`
}

// Validate validates CreateNoteRequest, defaulting color to white.
func (r *CreateNoteRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxNoteTitleLen {
		return errors.New("title cannot exceed 200 characters")
	}
	if strings.TrimSpace(r.Content) == "" {
		return errors.New("content is required")
	}
	if r.Color == "" {
		r.Color = DefaultNoteColor
	} else if !hexColorPattern.MatchString(r.Color) {
		return errors.New("color must be a hex value like #AABBCC")
	}
	return nil
}

// UpdateNoteRequest represents parameters to update a Note. Nil fields are left unchanged.
type UpdateNoteRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	IsPinned *bool   `json:"is_pinned,omitempty"`
	Color    *string `json:"color,omitempty"`
}

// Validate validates UpdateNoteRequest.
func (r *UpdateNoteRequest) Validate() error {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			return errors.New("title cannot be empty")
		}
		if utf8.RuneCountInString(title) > maxNoteTitleLen {
			return errors.New("title cannot exceed 200 characters")
		}
	}
	if r.Content != nil && strings.TrimSpace(*r.Content) == "" {
		return errors.New("content cannot be empty")
	}
	if r.Color != nil && !hexColorPattern.MatchString(*r.Color) {
		return errors.New("color must be a hex value like #AABBCC")
	}
	return nil
}

// NotesListOptions controls paging and filtering for listing notes.
// Q matches title or content via ILIKE substring. Pinned notes always sort first.
type NotesListOptions struct {
	UserID string
	Limit  int
	Offset int
	Q      *string
}
