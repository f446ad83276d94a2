package tui

import (
	"context"
	"strings"
	"time"

	"storyweave/internal/ai"
	"storyweave/internal/app"
	"storyweave/internal/logging"
	"storyweave/internal/nav"
	"storyweave/internal/session"
	"storyweave/internal/store"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const toastTTL = 3 * time.Second

type appModel struct {
	ctx       context.Context
	ctrl      *app.Controller
	auth      session.Provider
	assistant ai.Assistant
	db        *store.DB
	log       *zap.Logger
	mdStyle   string

	width  int
	height int

	// screen is the destination the screen-local state below was built for.
	screen nav.Screen

	toast    *app.Notice
	toastSeq int
	confirm  *confirmState

	aiSeq   int
	aiBusy  bool
	aiOp    aiOp
	spinner spinner.Model

	landing  landingState
	browse   browseState
	detail   detailState
	reader   readerState
	editor   editorState
	shelf    shelfState
	authForm authState
	cms      cmsState
}

func newAppModel(ctx context.Context, d Deps) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	assistant := d.Assistant
	if assistant == nil {
		assistant = ai.NewStub(0)
	}
	m := appModel{
		ctx:       ctx,
		ctrl:      d.Controller,
		auth:      d.Auth,
		assistant: assistant,
		db:        d.DB,
		log:       logging.OrNop(d.Logger),
		mdStyle:   d.MarkdownStyle,
		width:     100,
		height:    32,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.browse = newBrowseState()
	m.shelf = newShelfState()
	m.screen = m.ctrl.Current()
	m.enterScreen()
	m.syncScreen()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case sessionChangedMsg:
		m.log.Debug("session changed", zap.Bool("signedIn", msg.user != nil))
		cur := m.ctrl.Current()
		if msg.user == nil && (cur.RequiresUser() || cur.Kind == nav.KindCMS) {
			m.ctrl.NavigateTo(m.ctrl.RequireAuth(cur))
		}

	case contentChangedMsg:
		if m.ctrl.ReloadContent() {
			m.log.Info("landing content reloaded from disk")
		}

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}

	case spinner.TickMsg:
		if m.aiBusy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case aiResultMsg:
		cmds = append(cmds, m.handleAIResult(msg))

	case authResultMsg:
		cmds = append(cmds, m.handleAuthResult(msg))

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			m.persist()
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)

	default:
		cmds = append(cmds, m.updateFocused(msg))
	}

	cmds = append(cmds, m.syncScreen())
	m.persist()
	cmds = append(cmds, m.flushNotices())
	return m, tea.Batch(cmds...)
}

func (m *appModel) handleKey(msg tea.KeyMsg) (cmd tea.Cmd, quit bool) {
	if msg.String() == "ctrl+c" {
		return nil, true
	}
	if m.confirm != nil {
		return m.updateConfirm(msg), false
	}
	// Text entry gets every key; screens handle their own esc.
	if m.typing() {
		return m.updateScreen(msg), false
	}
	switch msg.String() {
	case "q":
		return nil, true
	case "esc", "backspace":
		m.ctrl.GoBack()
		return nil, false
	}
	return m.updateScreen(msg), false
}

// typing reports whether a text field on the current screen has focus.
func (m *appModel) typing() bool {
	switch m.screen.Kind {
	case nav.KindBrowse:
		return m.browse.prompt != promptNone
	case nav.KindEditor, nav.KindAuth, nav.KindAdminLogin:
		return true
	case nav.KindProfile:
		return m.shelf.editingName
	case nav.KindCMS:
		return m.cms.editing
	}
	return false
}

func (m *appModel) updateScreen(msg tea.KeyMsg) tea.Cmd {
	switch m.screen.Kind {
	case nav.KindLanding:
		return m.updateLanding(msg)
	case nav.KindBrowse:
		return m.updateBrowse(msg)
	case nav.KindStoryDetail:
		return m.updateDetail(msg)
	case nav.KindReading:
		return m.updateReader(msg)
	case nav.KindEditor:
		return m.updateEditor(msg)
	case nav.KindAuthorDashboard, nav.KindLibrary, nav.KindProfile:
		return m.updateShelf(msg)
	case nav.KindAuth, nav.KindAdminLogin:
		return m.updateAuth(msg)
	case nav.KindCMS:
		return m.updateCMS(msg)
	}
	return nil
}

// updateFocused forwards non-key messages (cursor blink, viewport) to the active screen.
func (m *appModel) updateFocused(msg tea.Msg) tea.Cmd {
	switch m.screen.Kind {
	case nav.KindEditor:
		return m.editor.updateFocused(msg)
	case nav.KindAuth, nav.KindAdminLogin:
		return m.authForm.updateFocused(msg)
	case nav.KindReading:
		var cmd tea.Cmd
		m.reader.viewport, cmd = m.reader.viewport.Update(msg)
		return cmd
	}
	return nil
}

// syncScreen rebuilds screen-local state after the controller moved to a new destination.
// Entering a screen may redirect (e.g. CMS without admin rights), so repeat until stable.
func (m *appModel) syncScreen() tea.Cmd {
	var cmds []tea.Cmd
	for i := 0; i < 4; i++ {
		cur := m.ctrl.Current()
		if cur == m.screen {
			break
		}
		m.screen = cur
		cmds = append(cmds, m.enterScreen())
	}
	return tea.Batch(cmds...)
}

func (m *appModel) enterScreen() tea.Cmd {
	// Anything in flight belongs to the previous screen.
	m.aiSeq++
	m.aiBusy = false

	switch m.screen.Kind {
	case nav.KindLanding:
		m.enterLanding()
	case nav.KindBrowse:
		m.enterBrowse()
	case nav.KindStoryDetail:
		m.enterDetail()
	case nav.KindReading:
		m.enterReader()
	case nav.KindEditor:
		return m.enterEditor()
	case nav.KindAuthorDashboard, nav.KindLibrary, nav.KindProfile:
		m.enterShelf()
	case nav.KindAuth, nav.KindAdminLogin:
		return m.enterAuth()
	case nav.KindCMS:
		return m.enterCMS()
	}
	return nil
}

func (m *appModel) resize() {
	w, h := m.bodySize()
	m.browse.list.SetSize(w, h-3)
	m.shelf.list.SetSize(w, h-8)
	switch m.screen.Kind {
	case nav.KindReading:
		m.resizeReader()
	case nav.KindEditor:
		m.editor.resize(w, h)
	}
}

// bodySize is the area between the header and the footer.
func (m *appModel) bodySize() (int, int) {
	w := m.width - 2
	if w < 40 {
		w = 40
	}
	h := m.height - 5
	if h < 8 {
		h = 8
	}
	return w, h
}

// persist saves device state after any change; failures become notices.
func (m *appModel) persist() {
	if m.db == nil || !m.ctrl.Dirty() {
		return
	}
	if err := m.ctrl.Persist(m.ctx, m.db); err != nil {
		m.log.Warn("persist device state", zap.Error(err))
		m.ctrl.Notify(app.NoticeError, "Could not save: "+err.Error())
	}
}

// flushNotices shows the newest queued notice as the toast.
func (m *appModel) flushNotices() tea.Cmd {
	notices := m.ctrl.DrainNotices()
	if len(notices) == 0 {
		return nil
	}
	n := notices[len(notices)-1]
	m.toast = &n
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

// startAI runs fn off the UI goroutine and tags the result with a fresh request id.
func (m *appModel) startAI(op aiOp, chapter int, fn func(ctx context.Context, res *aiResultMsg)) tea.Cmd {
	m.aiSeq++
	m.aiBusy = true
	m.aiOp = op
	res := aiResultMsg{seq: m.aiSeq, op: op, screen: m.screen, chapter: chapter}
	ctx := m.ctx
	run := func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
		out := res
		fn(ctx, &out)
		return out
	}
	return tea.Batch(run, m.spinner.Tick)
}

func (m *appModel) handleAIResult(msg aiResultMsg) tea.Cmd {
	if msg.seq != m.aiSeq || msg.screen != m.screen {
		m.log.Debug("dropping stale assistant result", zap.Int("seq", msg.seq), zap.Int("latest", m.aiSeq))
		return nil
	}
	m.aiBusy = false
	if msg.err != nil {
		m.log.Warn("assistant request failed", zap.Error(msg.err))
		m.ctrl.Notify(app.NoticeError, "AI request failed: "+msg.err.Error())
		return nil
	}
	switch m.screen.Kind {
	case nav.KindReading:
		m.applyReaderAI(msg)
	case nav.KindEditor:
		m.applyEditorAI(msg)
	}
	return nil
}

func (m appModel) View() string {
	w, h := m.bodySize()

	var body string
	switch m.screen.Kind {
	case nav.KindLanding:
		body = m.viewLanding(w)
	case nav.KindBrowse:
		body = m.viewBrowse(w)
	case nav.KindStoryDetail:
		body = m.viewDetail(w)
	case nav.KindReading:
		body = m.viewReader(w)
	case nav.KindEditor:
		body = m.viewEditor(w)
	case nav.KindAuthorDashboard, nav.KindLibrary, nav.KindProfile:
		body = m.viewShelf(w)
	case nav.KindAuth, nav.KindAdminLogin:
		body = m.viewAuth(w)
	case nav.KindCMS:
		body = m.viewCMS(w)
	}
	body = normalizePane(body, w, h)

	if m.confirm != nil {
		body = placeModal(w, h, renderConfirmModal(m.width, m.confirm))
	}

	return strings.Join([]string{
		m.viewHeader(),
		"",
		lipgloss.NewStyle().PaddingLeft(1).Render(body),
		m.viewFooter(),
	}, "\n")
}

func (m appModel) viewHeader() string {
	logo := m.ctrl.Content().General["logoText"]
	if strings.TrimSpace(logo) == "" {
		logo = "StoryWeave"
	}
	left := styleAccent().Render(logo) + styleMuted().Render("  "+m.screen.Kind.String())

	right := styleMuted().Render("guest  (i: sign in)")
	if u := m.ctrl.User(); u != nil {
		role := "author"
		if u.IsAdmin {
			role = "admin"
		}
		right = styleTitle().Render(u.Name) + styleMuted().Render(" "+role)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

func (m appModel) viewFooter() string {
	var status string
	switch {
	case m.aiBusy:
		status = m.spinner.View() + " " + m.aiOp.label() + "…"
	case m.toast != nil:
		st := lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
		if m.toast.Kind == app.NoticeError {
			st = st.Foreground(colorError)
		}
		status = st.Render(m.toast.Text)
	}
	help := styleMuted().Render(m.helpLine())
	return " " + status + "\n " + help
}

func (m appModel) helpLine() string {
	if m.confirm != nil {
		return "y: confirm  esc: cancel"
	}
	switch m.screen.Kind {
	case nav.KindLanding:
		return "b: browse  w: write  l: library  p: profile  a: admin  1-4: trending  i/o: sign in/out  q: quit"
	case nav.KindBrowse:
		if m.browse.prompt != promptNone {
			return "enter: apply  esc: done"
		}
		return "enter: open  /: search  g: genre  t: tag  s: sort  x: clear  esc: back"
	case nav.KindStoryDetail:
		return "enter: read/resume  1-9: chapter  ↑/↓ + r: read chapter  s: save  e: edit  esc: back"
	case nav.KindReading:
		return "n/p: next/prev chapter  ↑/↓: scroll  a: AI summary  s: save  esc: back"
	case nav.KindEditor:
		return "tab: field  ctrl+s: save  f2: add ch  f3: delete ch  f5: twist  f6: rewrite  f7: auto-tag  f8: check  f9: insert  esc: back"
	case nav.KindAuthorDashboard:
		return "n: new  enter/e: edit  v: view  d: delete  esc: back"
	case nav.KindLibrary:
		return "tab: switch  enter: open  e: edit  d: delete/remove  esc: back"
	case nav.KindProfile:
		if m.shelf.editingName {
			return "enter: save name  esc: cancel"
		}
		return "tab: switch  enter: open  n: edit name  o: sign out  esc: back"
	case nav.KindAuth, nav.KindAdminLogin:
		return "tab: next field  enter: submit  esc: back"
	case nav.KindCMS:
		if m.cms.editing {
			return "enter: apply  esc: cancel"
		}
		return "←/→: section  ↑/↓: field  enter: edit  ctrl+s: save  r: revert  esc: back"
	}
	return "esc: back  q: quit"
}
