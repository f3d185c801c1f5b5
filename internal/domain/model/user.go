//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxUsernameLen = 150
	minUsernameLen = 3
	minPasswordLen = 8
)

// User represents a registered NeuroZen account.
// PasswordHash is empty for SSO-provisioned accounts.
type User struct {
	ID           string    `json:"id"                      db:"id"`
	Username     string    `json:"username"                db:"username"`
	Email        string    `json:"email"                   db:"email"`
	PasswordHash string    `json:"-"                       db:"password_hash"`
	Role         string    `json:"role"                    db:"role"`
	CreatedAt    time.Time `json:"created_at"              db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"              db:"updated_at"`
}

// CreateUserRequest represents parameters to register a User.
// Password carries the plaintext password; the service hashes it before
// the request reaches the repository.
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     string `json:"role,omitempty"`
}

// Validate validates CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	username := strings.TrimSpace(r.Username)
	if username == "" {
		return errors.New("username is required and cannot be empty")
	}
	if utf8.RuneCountInString(username) < minUsernameLen {
		return errors.New("username must be at least 3 characters")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return errors.New("username cannot exceed 150 characters")
	}
	if strings.ContainsAny(username, " \t\n") {
		return errors.New("username cannot contain whitespace")
	}
	email := strings.TrimSpace(r.Email)
	if email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email is not a valid address")
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
