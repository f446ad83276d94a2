package content

import (
	"encoding/json"
	"errors"
	"reflect"
	"sync"

	"storyweave/internal/kv"
	"storyweave/internal/logging"
	"storyweave/internal/model"

	"go.uber.org/zap"
)

// Key is the kv key holding the serialized landing content.
const Key = "storyweave_landing_content"

// Store holds the landing page copy. It is loaded once and replaced wholesale on save.
type Store struct {
	kv  kv.Store
	log *zap.Logger

	mu      sync.RWMutex
	current model.LandingContent
}

// Load reads the stored document. It never fails: missing or unreadable data
// leaves the compiled-in defaults in place.
func Load(s kv.Store, log *zap.Logger) *Store {
	cs := &Store{kv: s, log: logging.OrNop(log), current: model.DefaultLandingContent()}
	cs.current = cs.read()
	return cs
}

func (s *Store) read() model.LandingContent {
	def := model.DefaultLandingContent()
	if s.kv == nil {
		return def
	}
	raw, ok, err := s.kv.Get(Key)
	if err != nil {
		s.log.Warn("read landing content", zap.Error(err))
		return def
	}
	if !ok || raw == "" {
		return def
	}
	var c model.LandingContent
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		s.log.Warn("failed to parse saved landing content; using defaults", zap.Error(err))
		return def
	}
	return c.MergeDefaults(def)
}

// Get returns a copy of the current content.
func (s *Store) Get() model.LandingContent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Save replaces the content and persists it before returning.
// On a write error the previous content stays current.
func (s *Store) Save(c model.LandingContent) error {
	if s.kv == nil {
		return errors.New("content store has no backing storage")
	}
	c = c.Clone()
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := s.kv.Set(Key, string(b)); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
	s.log.Info("landing content saved")
	return nil
}

// Reset restores and persists the compiled-in defaults.
func (s *Store) Reset() error {
	return s.Save(model.DefaultLandingContent())
}

// Reload re-reads storage (e.g. after another process saved) and reports a change.
func (s *Store) Reload() bool {
	next := s.read()
	s.mu.Lock()
	defer s.mu.Unlock()
	if reflect.DeepEqual(next, s.current) {
		return false
	}
	s.current = next
	return true
}
