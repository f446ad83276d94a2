package session

import (
	"context"
	"sync"

	"storyweave/internal/logging"
	"storyweave/internal/model"

	"go.uber.org/zap"
)

// Adapter holds the current user derived from a Provider.
//
// Provider callbacks may arrive on another goroutine, so the user value is guarded.
// The initial fetch and a concurrent change notification race; last write wins.
type Adapter struct {
	provider Provider
	log      *zap.Logger

	mu          sync.RWMutex
	user        *model.User
	onChange    func(*model.User)
	unsubscribe func()
	closed      bool
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter's logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Adapter) { a.log = logging.OrNop(l) }
}

// WithOnChange installs a hook called after every user change.
func WithOnChange(fn func(*model.User)) Option {
	return func(a *Adapter) { a.onChange = fn }
}

// NewAdapter fetches the current session once and subscribes to changes until Close.
// A failed fetch is treated as no session.
func NewAdapter(ctx context.Context, p Provider, opts ...Option) *Adapter {
	a := &Adapter{provider: p, log: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	if p == nil {
		return a
	}

	a.unsubscribe = p.OnSessionChange(a.set)

	s, err := p.CurrentSession(ctx)
	if err != nil {
		a.log.Debug("initial session fetch failed; treating as signed out", zap.Error(err))
		s = nil
	}
	a.set(s)
	return a
}

// UserFromSession maps a provider session to a User; nil maps to nil.
func UserFromSession(s *Session) *model.User {
	if s == nil || s.UserID == "" {
		return nil
	}
	return &model.User{
		ID:       s.UserID,
		Name:     DisplayName(s.Email),
		Avatar:   AvatarURL(s.UserID),
		IsAuthor: true,
		IsAdmin:  s.Role() == "admin",
	}
}

func (a *Adapter) set(s *Session) {
	u := UserFromSession(s)

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.user = u
	hook := a.onChange
	a.mu.Unlock()

	if u != nil {
		a.log.Debug("session user set", zap.String("user_id", u.ID), zap.Bool("admin", u.IsAdmin))
	} else {
		a.log.Debug("session cleared")
	}
	if hook != nil {
		hook(copyUser(u))
	}
}

// User returns a copy of the current user, or nil when signed out.
func (a *Adapter) User() *model.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return copyUser(a.user)
}

// SetOnChange replaces the change hook.
func (a *Adapter) SetOnChange(fn func(*model.User)) {
	a.mu.Lock()
	a.onChange = fn
	a.mu.Unlock()
}

// Provider returns the underlying identity provider (nil when none).
func (a *Adapter) Provider() Provider { return a.provider }

// SignOut asks the provider to end the session and clears the local user.
func (a *Adapter) SignOut(ctx context.Context) error {
	if a.provider == nil {
		a.set(nil)
		return nil
	}
	if err := a.provider.SignOut(ctx); err != nil {
		return err
	}
	// Providers normally notify; clearing here covers ones that do not.
	a.set(nil)
	return nil
}

// Close unsubscribes from the provider. Later notifications are ignored.
func (a *Adapter) Close() {
	a.mu.Lock()
	unsub := a.unsubscribe
	a.unsubscribe = nil
	a.closed = true
	a.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func copyUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
