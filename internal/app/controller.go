// Package app holds the application state and the operations every screen
// (and CLI command) goes through: navigation, story CRUD, library and progress.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storyweave/internal/catalog"
	"storyweave/internal/content"
	"storyweave/internal/library"
	"storyweave/internal/logging"
	"storyweave/internal/model"
	"storyweave/internal/nav"
	"storyweave/internal/perm"
	"storyweave/internal/store"

	"go.uber.org/zap"
)

// Identity is the current-user source (session.Adapter in production).
type Identity interface {
	User() *model.User
	SignOut(ctx context.Context) error
}

var ErrStoryNotFound = errors.New("story not found")

type Options struct {
	Machine  nav.Machine
	Catalog  *catalog.Catalog
	Saved    library.SavedSet
	Progress library.Progress
	Identity Identity
	Content  *content.Store
	Logger   *zap.Logger
	// Now is used for new story ids.
	Now func() time.Time
}

// Controller is the single owned application state. It is driven from one
// goroutine (the TUI update loop or a CLI command) and is not safe for concurrent use.
type Controller struct {
	machine  nav.Machine
	nav      nav.State
	catalog  *catalog.Catalog
	saved    library.SavedSet
	progress library.Progress
	identity Identity
	content  *content.Store
	log      *zap.Logger
	now      func() time.Time

	// displayName overrides the session-derived name for one user id.
	displayName map[string]string
	notices     []Notice
	dirty       bool
}

func New(opt Options) *Controller {
	c := &Controller{
		machine:     opt.Machine,
		nav:         nav.Initial(),
		catalog:     opt.Catalog,
		saved:       opt.Saved,
		progress:    opt.Progress,
		identity:    opt.Identity,
		content:     opt.Content,
		log:         logging.OrNop(opt.Logger),
		now:         opt.Now,
		displayName: map[string]string{},
	}
	if c.machine == (nav.Machine{}) {
		c.machine = nav.DefaultMachine()
	}
	if c.catalog == nil {
		c.catalog = catalog.New()
	}
	if c.saved == nil {
		c.saved = library.NewSavedSet()
	}
	if c.progress == nil {
		c.progress = library.Progress{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// FromState builds a controller over a persisted device snapshot.
func FromState(st *store.State, opt Options) *Controller {
	if st != nil {
		opt.Catalog = catalog.New(st.Stories...)
		opt.Saved = st.Saved
		opt.Progress = st.Progress
	}
	return New(opt)
}

// --- navigation ---

func (c *Controller) apply(ev nav.Event) {
	before := c.nav.Current
	c.nav = c.machine.Transition(c.nav, ev)
	if c.nav.Current != before {
		c.log.Debug("navigate", zap.Stringer("from", before), zap.Stringer("to", c.nav.Current), zap.Int("history", len(c.nav.History)))
	}
}

func (c *Controller) Current() nav.Screen { return c.nav.Current }

// History returns a copy of the back-stack, oldest first.
func (c *Controller) History() []nav.Screen {
	return append([]nav.Screen(nil), c.nav.History...)
}

func (c *Controller) NavigateTo(target nav.Screen) { c.apply(nav.Push(target)) }

func (c *Controller) GoBack() { c.apply(nav.Pop()) }

// User returns the signed-in user (with any local display-name override), or nil.
func (c *Controller) User() *model.User {
	if c.identity == nil {
		return nil
	}
	u := c.identity.User()
	if u == nil {
		return nil
	}
	if name, ok := c.displayName[u.ID]; ok {
		u.Name = name
	}
	return u
}

// RequireAuth returns target when someone is signed in, otherwise the auth
// screen, queuing a notice.
func (c *Controller) RequireAuth(target nav.Screen) nav.Screen {
	if c.User() != nil {
		return target
	}
	c.Notify(NoticeError, signInMessage(target))
	return nav.Auth()
}

func signInMessage(target nav.Screen) string {
	switch target.Kind {
	case nav.KindEditor, nav.KindAuthorDashboard:
		return "Please sign in to start writing"
	}
	return "Please sign in to continue"
}

// Open navigates to target, gating write screens behind login and the CMS behind admin login.
func (c *Controller) Open(target nav.Screen) {
	if target.Kind == nav.KindCMS {
		c.OpenCMS()
		return
	}
	if target.RequiresUser() {
		target = c.RequireAuth(target)
	}
	c.NavigateTo(target)
}

// StartWriting is the "Write" entry point: author dashboard, behind login.
func (c *Controller) StartWriting() {
	c.NavigateTo(c.RequireAuth(nav.AuthorDashboard()))
}

// CompleteLogin runs after a successful sign-in or sign-up from the auth screen.
func (c *Controller) CompleteLogin() {
	c.NavigateTo(nav.Browse())
}

// OpenCMS shows the CMS to admins and the admin login to everyone else.
func (c *Controller) OpenCMS() {
	if perm.CanManageContent(c.User()) {
		c.NavigateTo(nav.CMS())
		return
	}
	c.NavigateTo(nav.AdminLogin())
}

// CompleteAdminLogin runs after a sign-in from the admin login screen.
func (c *Controller) CompleteAdminLogin() bool {
	if !perm.CanManageContent(c.User()) {
		c.Notify(NoticeError, "This account does not have admin access")
		return false
	}
	c.Notify(NoticeSuccess, "Admin access granted")
	c.NavigateTo(nav.CMS())
	return true
}

// Logout signs out, clears history and shows the landing screen.
// Saved stories, progress and the catalog are device state and survive.
func (c *Controller) Logout(ctx context.Context) error {
	var err error
	if c.identity != nil {
		if err = c.identity.SignOut(ctx); err != nil {
			c.log.Warn("sign out failed", zap.Error(err))
			c.Notify(NoticeError, "Sign out failed: "+err.Error())
		}
	}
	c.apply(nav.Reset(nav.Landing()))
	return err
}

// --- stories ---

func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

func (c *Controller) Story(id string) (model.Story, bool) { return c.catalog.Get(id) }

// CurrentStory resolves the story bound to the current screen. A deleted story
// resolves to not found rather than a stale copy.
func (c *Controller) CurrentStory() (model.Story, bool) {
	id := c.nav.Current.StoryID
	if id == "" {
		return model.Story{}, false
	}
	return c.catalog.Get(id)
}

// SelectStory shows the detail screen for id.
func (c *Controller) SelectStory(id string) error {
	if !c.catalog.Has(id) {
		c.Notify(NoticeError, "Story not found")
		return fmt.Errorf("%w: %s", ErrStoryNotFound, id)
	}
	c.NavigateTo(nav.StoryDetail(id))
	return nil
}

// ResumeIndex is where "continue reading" starts: stored progress or 0.
func (c *Controller) ResumeIndex(id string) int { return c.progress.Resume(id) }

// StartReading opens the reader at chapter, or at the stored progress when chapter is nil.
func (c *Controller) StartReading(id string, chapter *int) (int, error) {
	if !c.catalog.Has(id) {
		c.Notify(NoticeError, "Story not found")
		return 0, fmt.Errorf("%w: %s", ErrStoryNotFound, id)
	}
	idx := c.progress.Resume(id)
	if chapter != nil {
		idx = *chapter
	}
	if idx < 0 {
		idx = 0
	}
	c.NavigateTo(nav.Reading(id, idx))
	return idx, nil
}

// RecordProgress stores the last chapter viewed (last write wins).
func (c *Controller) RecordProgress(id string, chapter int) {
	if prev, ok := c.progress.Get(id); ok && prev == chapter {
		return
	}
	c.progress.Set(id, chapter)
	c.dirty = true
}

func (c *Controller) Progress(id string) (int, bool) { return c.progress.Get(id) }

// CreateStory opens an empty editor.
func (c *Controller) CreateStory() { c.NavigateTo(nav.Editor("")) }

// EditStory opens the editor on an existing story.
func (c *Controller) EditStory(id string) error {
	if !c.catalog.Has(id) {
		c.Notify(NoticeError, "Story not found")
		return fmt.Errorf("%w: %s", ErrStoryNotFound, id)
	}
	c.NavigateTo(nav.Editor(id))
	return nil
}

// NewStoryID returns a fresh time-based id, larger than any seeded id.
func (c *Controller) NewStoryID() string {
	n := c.now().UnixMilli()
	for {
		id := strconv.FormatInt(n, 10)
		if !c.catalog.Has(id) {
			return id
		}
		n++
	}
}

// SaveStoryFromEditor replaces the story with the same id in place, or
// prepends it as the newest, then shows the author dashboard.
func (c *Controller) SaveStoryFromEditor(s model.Story) (inserted bool, err error) {
	if strings.TrimSpace(s.ID) == "" {
		s.ID = c.NewStoryID()
	}
	if len(s.Chapters) == 0 {
		c.Notify(NoticeError, "Story must have at least one chapter")
		return false, errors.New("story must have at least one chapter")
	}
	inserted, err = c.catalog.Upsert(s)
	if err != nil {
		c.Notify(NoticeError, err.Error())
		return false, err
	}
	c.dirty = true
	if inserted {
		c.Notify(NoticeSuccess, "New story created!")
	} else {
		c.Notify(NoticeSuccess, "Story updated successfully!")
	}
	c.log.Info("story saved", zap.String("id", s.ID), zap.Bool("inserted", inserted))
	c.NavigateTo(nav.AuthorDashboard())
	return inserted, nil
}

// DeleteStory removes id from the catalog, the saved set and reading progress
// in one step, and drops screens bound to it from navigation.
func (c *Controller) DeleteStory(id string) bool {
	if !c.catalog.Remove(id) {
		return false
	}
	c.saved.Remove(id)
	c.progress.Delete(id)
	c.apply(nav.Prune(func(s nav.Screen) bool { return s.Refers(id) }))
	c.dirty = true
	c.log.Info("story deleted", zap.String("id", id))
	c.Notify(NoticeSuccess, "Story deleted successfully")
	return true
}

// ToggleLibrary flips id in the saved set. Anonymous users are sent to the auth
// screen and nothing changes; ok reports whether the toggle happened.
func (c *Controller) ToggleLibrary(id string) (saved bool, ok bool) {
	if c.User() == nil {
		c.NavigateTo(nav.Auth())
		return c.saved.Has(id), false
	}
	saved = c.saved.Toggle(id)
	c.dirty = true
	if saved {
		c.Notify(NoticeSuccess, "Saved to Library")
	} else {
		c.Notify(NoticeSuccess, "Removed from Library")
	}
	return saved, true
}

func (c *Controller) IsSaved(id string) bool { return c.saved.Has(id) }

// MyStories are the stories written by the current user, or created locally ("You").
func (c *Controller) MyStories() []model.Story {
	return c.catalog.ByAuthor(perm.AuthorNames(c.User())...)
}

// CanEdit reports whether the current user may open id in the editor.
func (c *Controller) CanEdit(id string) bool {
	s, ok := c.catalog.Get(id)
	return ok && perm.CanEditStory(c.User(), s)
}

// SavedStories are the catalog stories present in the saved set, in catalog order.
func (c *Controller) SavedStories() []model.Story {
	return c.catalog.ByIDs(c.saved.Has)
}

// --- profile & content ---

// UpdateProfileName overrides the current user's display name for this process.
func (c *Controller) UpdateProfileName(name string) error {
	u := c.User()
	if u == nil {
		return errors.New("not signed in")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		c.Notify(NoticeError, "Name cannot be empty")
		return errors.New("name cannot be empty")
	}
	c.displayName[u.ID] = name
	c.Notify(NoticeSuccess, "Profile updated!")
	return nil
}

func (c *Controller) Content() model.LandingContent {
	if c.content == nil {
		return model.DefaultLandingContent()
	}
	return c.content.Get()
}

// SaveContent replaces and persists the landing copy.
func (c *Controller) SaveContent(lc model.LandingContent) error {
	if c.content == nil {
		err := errors.New("content store unavailable")
		c.Notify(NoticeError, err.Error())
		return err
	}
	if err := c.content.Save(lc); err != nil {
		c.log.Warn("save landing content failed", zap.Error(err))
		c.Notify(NoticeError, "Failed to save content: "+err.Error())
		return err
	}
	c.Notify(NoticeSuccess, "Content updated successfully!")
	return nil
}

// ReloadContent re-reads landing copy saved by another process.
func (c *Controller) ReloadContent() bool {
	if c.content == nil {
		return false
	}
	return c.content.Reload()
}

// --- persistence ---

// Dirty reports unsaved device-state changes.
func (c *Controller) Dirty() bool { return c.dirty }

// Snapshot returns the device state for persistence.
func (c *Controller) Snapshot() *store.State {
	return &store.State{
		Stories:  c.catalog.All(),
		Saved:    c.saved.Clone(),
		Progress: c.progress.Clone(),
	}
}

// Persist saves the snapshot to db when dirty.
func (c *Controller) Persist(ctx context.Context, db *store.DB) error {
	if !c.dirty || db == nil {
		return nil
	}
	if err := db.SaveState(ctx, c.Snapshot()); err != nil {
		return fmt.Errorf("save device state: %w", err)
	}
	c.dirty = false
	return nil
}
