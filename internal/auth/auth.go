// Package auth is a local identity provider: bcrypt-hashed accounts and HS256
// session tokens kept in the device key-value store.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"storyweave/internal/kv"
	"storyweave/internal/logging"
	"storyweave/internal/session"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailTaken         = errors.New("user already registered")
	ErrNotConfirmed       = errors.New("email not confirmed")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrUnknownAccount     = errors.New("unknown account")
)

const (
	MinPasswordLen = 6
	DefaultTTL     = 7 * 24 * time.Hour

	secretKey     = "auth:secret"
	sessionKey    = "auth:session"
	accountPrefix = "auth:account:"
	issuer        = "storyweave"
)

type Options struct {
	// RequireConfirmation holds new accounts until Confirm is called.
	RequireConfirmation bool
	TTL                 time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Logger     *zap.Logger
	Now        func() time.Time
}

type account struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	Hash      string            `json:"hash"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Confirmed bool              `json:"confirmed"`
	CreatedAt time.Time         `json:"createdAt"`
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Provider implements session.Provider.
type Provider struct {
	kv   kv.Store
	opt  Options
	log  *zap.Logger
	now  func() time.Time
	cost int

	mu        sync.Mutex
	secret    []byte
	listeners map[int]func(*session.Session)
	nextID    int
}

var _ session.Provider = (*Provider)(nil)

func New(store kv.Store, opt Options) (*Provider, error) {
	if store == nil {
		return nil, errors.New("auth: nil kv store")
	}
	p := &Provider{
		kv:        store,
		opt:       opt,
		log:       logging.OrNop(opt.Logger),
		now:       opt.Now,
		cost:      opt.BcryptCost,
		listeners: map[int]func(*session.Session){},
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.cost == 0 {
		p.cost = bcrypt.DefaultCost
	}
	if p.opt.TTL <= 0 {
		p.opt.TTL = DefaultTTL
	}
	secret, err := p.loadSecret()
	if err != nil {
		return nil, err
	}
	p.secret = secret
	return p, nil
}

func (p *Provider) loadSecret() ([]byte, error) {
	raw, ok, err := p.kv.Get(secretKey)
	if err != nil {
		return nil, fmt.Errorf("read signing secret: %w", err)
	}
	if ok && raw != "" {
		b, err := hex.DecodeString(raw)
		if err == nil && len(b) >= 32 {
			return b, nil
		}
		p.log.Warn("stored signing secret is invalid; generating a new one")
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate signing secret: %w", err)
	}
	if err := p.kv.Set(secretKey, hex.EncodeToString(b)); err != nil {
		return nil, fmt.Errorf("store signing secret: %w", err)
	}
	return b, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	local, domain, ok := strings.Cut(email, "@")
	return ok && local != "" && domain != "" && !strings.ContainsAny(email, " \t")
}

func (p *Provider) loadAccount(email string) (*account, error) {
	raw, ok, err := p.kv.Get(accountPrefix + email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var a account
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", email, err)
	}
	return &a, nil
}

func (p *Provider) saveAccount(a *account) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return p.kv.Set(accountPrefix+a.Email, string(b))
}

func (p *Provider) issue(a *account) (*session.Session, error) {
	now := p.now().UTC()
	c := claims{
		Email: a.Email,
		Role:  a.Metadata["role"],
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.opt.TTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	if err := p.kv.Set(sessionKey, token); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &session.Session{
		AccessToken: token,
		UserID:      a.ID,
		Email:       a.Email,
		Metadata:    copyMeta(a.Metadata),
	}, nil
}

func (p *Provider) verify(token string) (*session.Session, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, err
	}
	if strings.TrimSpace(c.Subject) == "" {
		return nil, errors.New("token subject missing")
	}
	var meta map[string]string
	if c.Role != "" {
		meta = map[string]string{"role": c.Role}
	}
	return &session.Session{AccessToken: token, UserID: c.Subject, Email: c.Email, Metadata: meta}, nil
}

// CurrentSession returns the stored session, or nil when there is none or it expired.
func (p *Provider) CurrentSession(ctx context.Context) (*session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	token, ok, err := p.kv.Get(sessionKey)
	if err != nil {
		return nil, err
	}
	if !ok || token == "" {
		return nil, nil
	}
	s, err := p.verify(token)
	if err != nil {
		p.log.Info("discarding stored session", zap.Error(err))
		_ = p.kv.Delete(sessionKey)
		return nil, nil
	}
	return s, nil
}

func (p *Provider) OnSessionChange(fn func(*session.Session)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

func (p *Provider) notify(s *session.Session) {
	p.mu.Lock()
	fns := make([]func(*session.Session), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	a, err := p.loadAccount(email)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !a.Confirmed {
		return nil, ErrNotConfirmed
	}
	s, err := p.issue(a)
	if err != nil {
		return nil, err
	}
	p.log.Info("signed in", zap.String("user_id", a.ID))
	p.notify(s)
	return s, nil
}

func (p *Provider) SignUp(ctx context.Context, email, password string, metadata map[string]string) (session.SignUpResult, error) {
	if err := ctx.Err(); err != nil {
		return session.SignUpResult{}, err
	}
	email = normalizeEmail(email)
	if !validEmail(email) {
		return session.SignUpResult{}, ErrInvalidEmail
	}
	if len(password) < MinPasswordLen {
		return session.SignUpResult{}, ErrWeakPassword
	}
	existing, err := p.loadAccount(email)
	if err != nil {
		return session.SignUpResult{}, err
	}
	if existing != nil {
		return session.SignUpResult{}, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return session.SignUpResult{}, fmt.Errorf("hash password: %w", err)
	}
	a := &account{
		ID:        uuid.NewString(),
		Email:     email,
		Hash:      string(hash),
		Metadata:  copyMeta(metadata),
		Confirmed: !p.opt.RequireConfirmation,
		CreatedAt: p.now().UTC(),
	}
	if err := p.saveAccount(a); err != nil {
		return session.SignUpResult{}, fmt.Errorf("store account: %w", err)
	}
	res := session.SignUpResult{UserID: a.ID, Email: a.Email}
	if !a.Confirmed {
		p.log.Info("account created; awaiting confirmation", zap.String("user_id", a.ID))
		return res, nil
	}
	s, err := p.issue(a)
	if err != nil {
		return res, err
	}
	res.Session = s
	p.log.Info("account created", zap.String("user_id", a.ID))
	p.notify(s)
	return res, nil
}

// Confirm marks an account as confirmed so it can sign in.
func (p *Provider) Confirm(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	email = normalizeEmail(email)
	a, err := p.loadAccount(email)
	if err != nil {
		return err
	}
	if a == nil {
		return ErrUnknownAccount
	}
	if a.Confirmed {
		return nil
	}
	a.Confirmed = true
	return p.saveAccount(a)
}

func (p *Provider) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.kv.Delete(sessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	p.notify(nil)
	return nil
}

func copyMeta(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
