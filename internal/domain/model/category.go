package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxCategoryNameLen = 100

// CategoryColors is the fixed palette offered by the category form.
// Keys are hex values, values are the display labels.
//
//nolint:gochecknoglobals // static read-only palette shared by form rendering and validation
var CategoryColors = map[string]string{
	"#FFF5E6": "Warm White",
	"#F5F5F5": "Off White",
	"#FFE4E1": "Misty Rose",
	"#FFDAB9": "Peach",
	"#F44336": "Red",
	"#E0E0E0": "Gray",
}

const defaultCategoryColor = "#FFF5E6"

// ValidCategoryColor reports whether the hex value belongs to the palette.
func ValidCategoryColor(hex string) bool {
	_, ok := CategoryColors[hex]
	return ok
}

// Category groups a user's tasks under a named, colored label.
type Category struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"user_id"     db:"user_id"`
	Name        string    `json:"name"        db:"name"`
	Color       string    `json:"color"       db:"color"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon"        db:"icon"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
}

// CategoryWithTaskCount joins a category with its open-task count for list views.
type CategoryWithTaskCount struct {
	Category
	TaskCount int `db:"task_count"`
}

// CreateCategoryRequest represents parameters to create a Category.
type CreateCategoryRequest struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Validate validates CreateCategoryRequest, defaulting the color when empty.
func (r *CreateCategoryRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return errors.New("name cannot exceed 100 characters")
	}
	if r.Color == "" {
		r.Color = defaultCategoryColor
	} else if !ValidCategoryColor(r.Color) {
		return errors.New("color must be one of the palette values")
	}
	return nil
}

// UpdateCategoryRequest represents parameters to update a Category. Nil fields are left unchanged.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// Validate validates UpdateCategoryRequest.
func (r *UpdateCategoryRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(name) > maxCategoryNameLen {
			return errors.New("name cannot exceed 100 characters")
		}
	}
	if r.Color != nil && !ValidCategoryColor(*r.Color) {
		return errors.New("color must be one of the palette values")
	}
	return nil
}
