// Package session turns an auth provider's session lifecycle into a single
// current-user value for the rest of the application.
package session

import (
	"context"
	"errors"
	"strings"
)

// Session is what an auth provider reports for a signed-in account.
type Session struct {
	AccessToken string            `json:"accessToken"`
	UserID      string            `json:"userId"`
	Email       string            `json:"email"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Role returns the "role" metadata value.
func (s *Session) Role() string {
	if s == nil {
		return ""
	}
	return s.Metadata["role"]
}

// SignUpResult carries the created account. Session is nil when the provider
// requires confirmation before the first sign-in.
type SignUpResult struct {
	UserID  string
	Email   string
	Session *Session
}

// NeedsConfirmation reports a created-but-not-signed-in account.
func (r SignUpResult) NeedsConfirmation() bool { return r.UserID != "" && r.Session == nil }

// Provider is the identity service.
type Provider interface {
	CurrentSession(ctx context.Context) (*Session, error)
	// OnSessionChange registers fn and returns a function that removes it.
	OnSessionChange(fn func(*Session)) (unsubscribe func())
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (SignUpResult, error)
	SignOut(ctx context.Context) error
}

var ErrNoProvider = errors.New("no identity provider configured")

// FallbackName is used when the session carries no usable email.
const FallbackName = "Dreamer"

// AvatarURL returns the deterministic identicon for a user id.
func AvatarURL(userID string) string {
	return "https://api.dicebear.com/7.x/notionists/svg?seed=" + userID
}

// DisplayName is the local part of an email address, or FallbackName.
func DisplayName(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	if local == "" {
		return FallbackName
	}
	return local
}
