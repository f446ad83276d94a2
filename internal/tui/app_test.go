package tui

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"storyweave/internal/ai"
	"storyweave/internal/app"
	"storyweave/internal/auth"
	"storyweave/internal/catalog"
	"storyweave/internal/content"
	"storyweave/internal/kv"
	"storyweave/internal/model"
	"storyweave/internal/nav"
	"storyweave/internal/session"
	"storyweave/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/crypto/bcrypt"
)

type harness struct {
	t    *testing.T
	m    appModel
	auth *auth.Provider
	kv   kv.Store
}

func newHarness(t *testing.T, db *store.DB) *harness {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Setenv("STORYWEAVE_TUI_MD_STYLE", "dark")
	t.Setenv("STORYWEAVE_TUI_GLYPHS", "")

	mem := kv.NewMemory()
	p, err := auth.New(mem, auth.Options{BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("auth.New: %v", err)
	}
	adapter := session.NewAdapter(context.Background(), p)
	t.Cleanup(adapter.Close)

	stories := catalog.Seed(rand.New(rand.NewSource(7)), 8)
	ctrl := app.FromState(&store.State{Stories: stories}, app.Options{
		Identity: adapter,
		Content:  content.Load(mem, nil),
	})

	h := &harness{t: t, auth: p, kv: mem}
	h.m = newAppModel(context.Background(), Deps{
		Controller: ctrl,
		Auth:       p,
		Assistant:  ai.NewStub(0),
		DB:         db,
	})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	am, ok := next.(appModel)
	if !ok {
		h.t.Fatalf("Update returned %T", next)
	}
	h.m = am
	return cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "f2":
		return tea.KeyMsg{Type: tea.KeyF2}
	case "f3":
		return tea.KeyMsg{Type: tea.KeyF3}
	case "f5":
		return tea.KeyMsg{Type: tea.KeyF5}
	case "f7":
		return tea.KeyMsg{Type: tea.KeyF7}
	case "f9":
		return tea.KeyMsg{Type: tea.KeyF9}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func (h *harness) press(keys ...string) tea.Cmd {
	h.t.Helper()
	var last tea.Cmd
	for _, k := range keys {
		last = h.send(keyMsg(k))
	}
	return last
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// collect runs cmd and returns the messages it produces. Commands that block
// (ticks, cursor blink) are abandoned after a short wait.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(300 * time.Millisecond):
		return nil
	}
}

// settle feeds auth and assistant results produced by cmd back into the model.
func (h *harness) settle(cmd tea.Cmd) {
	h.t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case aiResultMsg, authResultMsg:
			h.settle(h.send(msg))
		}
	}
}

func (h *harness) view() string {
	return xansi.Strip(h.m.View())
}

func (h *harness) screen() nav.Kind { return h.m.ctrl.Current().Kind }

func (h *harness) wantScreen(k nav.Kind) {
	h.t.Helper()
	if got := h.screen(); got != k {
		h.t.Fatalf("expected screen %s, got %s", k, got)
	}
}

func (h *harness) wantToast(text string) {
	h.t.Helper()
	if h.m.toast == nil || h.m.toast.Text != text {
		got := "<none>"
		if h.m.toast != nil {
			got = h.m.toast.Text
		}
		h.t.Fatalf("expected toast %q, got %q", text, got)
	}
}

func (h *harness) signUp(email string, admin bool) {
	h.t.Helper()
	var meta map[string]string
	if admin {
		meta = map[string]string{"role": "admin"}
	}
	if _, err := h.auth.SignUp(context.Background(), email, "secret1", meta); err != nil {
		h.t.Fatalf("SignUp: %v", err)
	}
}

func TestLanding_ShowsContentAndTrending(t *testing.T) {
	h := newHarness(t, nil)
	h.wantScreen(nav.KindLanding)

	v := h.view()
	def := model.DefaultLandingContent()
	for _, want := range []string{def.Hero["headlineStart"], def.Hero["buttonRead"], def.Trending["title"], def.CTA["buttonText"]} {
		if !strings.Contains(v, want) {
			t.Fatalf("landing view missing %q:\n%s", want, v)
		}
	}
	if n := len(h.m.landing.trending); n != trendingCount {
		t.Fatalf("expected %d trending stories, got %d", trendingCount, n)
	}
	top := h.m.landing.trending
	for i := 1; i < len(top); i++ {
		if top[i].Views > top[i-1].Views {
			t.Fatalf("trending not sorted by views: %d then %d", top[i-1].Views, top[i].Views)
		}
	}

	h.press("1")
	h.wantScreen(nav.KindStoryDetail)
	if h.m.ctrl.Current().StoryID != top[0].ID {
		t.Fatalf("expected detail of top story")
	}
}

func TestBrowse_FiltersAndSearch(t *testing.T) {
	h := newHarness(t, nil)
	h.press("b")
	h.wantScreen(nav.KindBrowse)
	all := len(h.m.browse.list.Items())
	if all != 8 {
		t.Fatalf("expected 8 stories, got %d", all)
	}

	h.press("g") // first genre
	want := catalog.Query{Genres: []model.Genre{model.Genres[0]}}.Apply(h.m.ctrl.Catalog().All())
	if got := len(h.m.browse.list.Items()); got != len(want) {
		t.Fatalf("genre filter: got %d want %d", got, len(want))
	}

	h.press("x", "/")
	if !h.m.typing() {
		t.Fatalf("search prompt should capture keys")
	}
	h.typeText("zzzz-no-match")
	h.press("enter")
	if h.m.browse.shown != 0 || !strings.Contains(h.view(), "No stories match") {
		t.Fatalf("expected empty result view")
	}
	if h.m.typing() {
		t.Fatalf("enter should close the prompt")
	}
	h.press("x")
	if got := len(h.m.browse.list.Items()); got != all {
		t.Fatalf("clear: got %d want %d", got, all)
	}

	h.press("s")
	if h.m.browse.query.Sort != catalog.SortRating {
		t.Fatalf("expected rating sort, got %s", h.m.browse.query.Sort)
	}
}

func TestReader_RecordsProgressAndResumes(t *testing.T) {
	h := newHarness(t, nil)
	h.press("b", "enter")
	h.wantScreen(nav.KindStoryDetail)
	id := h.m.ctrl.Current().StoryID

	h.press("enter")
	h.wantScreen(nav.KindReading)
	if got, ok := h.m.ctrl.Progress(id); !ok || got != 0 {
		t.Fatalf("expected progress 0 on open, got %d (%v)", got, ok)
	}
	h.press("n", "n")
	if got, _ := h.m.ctrl.Progress(id); got != 2 {
		t.Fatalf("expected progress 2, got %d", got)
	}
	if !strings.Contains(h.view(), "Chapter 3 of") {
		t.Fatalf("expected chapter position in view:\n%s", h.view())
	}

	h.press("esc")
	h.wantScreen(nav.KindStoryDetail)
	if !strings.Contains(h.view(), "Continue reading (chapter 3)") {
		t.Fatalf("expected resume label:\n%s", h.view())
	}
	h.press("enter")
	if h.m.reader.chapter != 2 {
		t.Fatalf("expected resume at chapter index 2, got %d", h.m.reader.chapter)
	}
}

func TestReader_DropsStaleSummary(t *testing.T) {
	h := newHarness(t, nil)
	h.press("b", "enter", "enter")
	h.wantScreen(nav.KindReading)

	h.press("a")
	if !h.m.aiBusy {
		t.Fatalf("expected request in flight")
	}
	stale := aiResultMsg{seq: h.m.aiSeq, op: aiOpSummarize, screen: h.m.screen, chapter: 0, text: "old"}

	h.press("n")
	h.send(stale)
	if h.m.reader.summary != "" {
		t.Fatalf("stale summary applied: %q", h.m.reader.summary)
	}

	h.settle(h.press("a"))
	if h.m.reader.summary != ai.StubSummary {
		t.Fatalf("expected stub summary, got %q", h.m.reader.summary)
	}
	if !strings.Contains(h.view(), "AI summary") {
		t.Fatalf("summary panel missing")
	}
}

func TestWrite_RequiresSignIn(t *testing.T) {
	h := newHarness(t, nil)
	h.press("w")
	h.wantScreen(nav.KindAuth)
	h.wantToast("Please sign in to start writing")

	h.press("p")
	// Auth form captures keys: "p" is typed, not a navigation.
	h.wantScreen(nav.KindAuth)
}

func TestAuthForm_SignUpSignsInAndGoesToBrowse(t *testing.T) {
	h := newHarness(t, nil)
	h.press("i")
	h.wantScreen(nav.KindAuth)

	h.typeText("ada@example.com")
	h.press("tab")
	h.typeText("secret1")
	// Toggle to sign up, then submit from the password field.
	h.press("tab", "tab", "enter")
	if !h.m.authForm.signUp {
		t.Fatalf("expected sign-up mode")
	}
	h.press("shift+tab", "shift+tab")
	h.settle(h.press("enter"))

	h.wantScreen(nav.KindBrowse)
	u := h.m.ctrl.User()
	if u == nil || u.Name != "ada" || u.IsAdmin {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestAuthForm_ShowsError(t *testing.T) {
	h := newHarness(t, nil)
	h.press("i")
	h.typeText("nobody@example.com")
	h.press("tab")
	h.typeText("wrongpw")
	h.settle(h.press("enter"))

	h.wantScreen(nav.KindAuth)
	if h.m.authForm.errMsg != "Invalid login credentials" {
		t.Fatalf("unexpected error: %q", h.m.authForm.errMsg)
	}
	if !strings.Contains(h.view(), "Invalid login credentials") {
		t.Fatalf("error not rendered")
	}
}

func TestEditor_CreateStory(t *testing.T) {
	h := newHarness(t, nil)
	h.signUp("bo@example.com", false)

	h.press("w")
	h.wantScreen(nav.KindAuthorDashboard)
	h.press("n")
	h.wantScreen(nav.KindEditor)

	h.press("ctrl+u")
	h.typeText("Tidewater")
	h.press("tab", "tab") // genre, tags
	h.typeText("Sea, Salt")
	h.press("tab", "tab", "tab") // summary, chapter title, body
	h.typeText("The lamp went dark.")
	h.press("ctrl+s")

	h.wantScreen(nav.KindAuthorDashboard)
	h.wantToast("New story created!")
	mine := h.m.ctrl.MyStories()
	if len(mine) != 1 || mine[0].Title != "Tidewater" {
		t.Fatalf("unexpected my stories: %+v", mine)
	}
	s := mine[0]
	if s.Author != model.NewStoryAuthor || len(s.Tags) != 2 || s.Chapters[0].Content != "The lamp went dark." {
		t.Fatalf("unexpected saved story: %+v", s)
	}
	if all := h.m.ctrl.Catalog().All(); all[0].ID != s.ID {
		t.Fatalf("new story should be first in the catalog")
	}
}

func TestEditor_ChapterDeleteGuardAndConfirm(t *testing.T) {
	h := newHarness(t, nil)
	h.signUp("cy@example.com", false)
	h.press("w", "n")
	h.wantScreen(nav.KindEditor)

	h.press("f3")
	h.wantToast("You must have at least one chapter.")
	if h.m.confirm != nil {
		t.Fatalf("no confirm expected with one chapter")
	}

	h.press("f2")
	if n := len(h.m.editor.chapters); n != 2 {
		t.Fatalf("expected 2 chapters, got %d", n)
	}
	h.press("f3")
	if h.m.confirm == nil || !strings.Contains(h.view(), "Delete chapter") {
		t.Fatalf("expected confirm modal")
	}
	h.press("y")
	if n := len(h.m.editor.chapters); n != 1 {
		t.Fatalf("expected 1 chapter after delete, got %d", n)
	}
}

func TestEditor_AIValidationAndSuggestion(t *testing.T) {
	h := newHarness(t, nil)
	h.signUp("di@example.com", false)
	h.press("w", "n")

	h.press("f7")
	h.wantToast("Write more content first!")

	h.settle(h.press("f5"))
	if h.m.editor.suggestion != ai.StubTwist {
		t.Fatalf("expected twist suggestion, got %q", h.m.editor.suggestion)
	}
	h.press("f9")
	if !strings.Contains(h.m.editor.body.Value(), ai.StubTwist) || h.m.editor.suggestion != "" {
		t.Fatalf("suggestion not inserted")
	}

	h.settle(h.press("f7"))
	h.wantToast("Tags generated successfully!")
	if !strings.Contains(h.m.editor.tags.Value(), "Magic") {
		t.Fatalf("expected generated tags, got %q", h.m.editor.tags.Value())
	}
}

func TestDashboard_DeleteCascades(t *testing.T) {
	h := newHarness(t, nil)
	h.signUp("ed@example.com", false)
	ctrl := h.m.ctrl

	if _, err := ctrl.SaveStoryFromEditor(model.Story{Title: "Mine", Author: model.NewStoryAuthor, Chapters: []model.Chapter{{ID: "c1", Title: "One"}}}); err != nil {
		t.Fatal(err)
	}
	id := ctrl.MyStories()[0].ID
	ctrl.ToggleLibrary(id)
	ctrl.RecordProgress(id, 0)
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.wantScreen(nav.KindAuthorDashboard)

	h.press("d")
	if h.m.confirm == nil {
		t.Fatalf("expected confirm")
	}
	h.press("esc")
	if !ctrl.Catalog().Has(id) {
		t.Fatalf("cancel must keep the story")
	}

	h.press("d", "y")
	if ctrl.Catalog().Has(id) || ctrl.IsSaved(id) {
		t.Fatalf("story not deleted everywhere")
	}
	if _, ok := ctrl.Progress(id); ok {
		t.Fatalf("progress survived delete")
	}
	h.wantToast("Story deleted successfully")
}

func TestCMS_AdminGateAndSave(t *testing.T) {
	h := newHarness(t, nil)
	h.press("a")
	h.wantScreen(nav.KindAdminLogin)

	h.press("esc")
	h.signUp("root@example.com", true)
	h.press("a")
	h.wantScreen(nav.KindCMS)

	// general: logoText is the first field.
	h.press("enter", "ctrl+u")
	h.typeText("TaleLoom")
	h.press("enter")
	if !h.m.cms.dirty {
		t.Fatalf("expected unsaved changes")
	}
	h.press("ctrl+s")
	h.wantToast("Content updated successfully!")
	if got := content.Load(h.kv, nil).Get().General["logoText"]; got != "TaleLoom" {
		t.Fatalf("content not persisted: %q", got)
	}
	if !strings.Contains(h.view(), "TaleLoom") {
		t.Fatalf("header should use the new logo text")
	}
}

func TestLogout_ResetsToLanding(t *testing.T) {
	h := newHarness(t, nil)
	h.signUp("fi@example.com", false)
	h.press("p")
	h.wantScreen(nav.KindProfile)

	h.press("o")
	h.wantScreen(nav.KindLanding)
	if len(h.m.ctrl.History()) != 0 {
		t.Fatalf("history should be cleared")
	}
	if h.m.ctrl.User() != nil {
		t.Fatalf("still signed in")
	}
}

func TestProfile_EditName(t *testing.T) {
	h := newHarness(t, nil)
	h.signUp("gus@example.com", false)
	h.press("p", "n", "ctrl+u")
	h.typeText("Gus the Bard")
	h.press("enter")

	h.wantToast("Profile updated!")
	if u := h.m.ctrl.User(); u == nil || u.Name != "Gus the Bard" {
		t.Fatalf("name not updated: %+v", u)
	}
}

func TestPersist_AfterToggle(t *testing.T) {
	db, err := store.Store{Dir: t.TempDir()}.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	h := newHarness(t, db)
	h.signUp("hal@example.com", false)
	h.press("b", "enter", "s")
	id := h.m.ctrl.Current().StoryID
	h.wantToast("Saved to Library")

	st, ok, err := db.LoadState(context.Background())
	if err != nil || !ok {
		t.Fatalf("LoadState: ok=%v err=%v", ok, err)
	}
	if !st.Saved.Has(id) {
		t.Fatalf("saved set not persisted")
	}
	if h.m.ctrl.Dirty() {
		t.Fatalf("controller should be clean after persist")
	}
}
