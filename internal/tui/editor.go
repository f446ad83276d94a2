package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storyweave/internal/ai"
	"storyweave/internal/app"
	"storyweave/internal/model"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultCoverURL = "https://picsum.photos/300/450"
	// Auto-tagging needs some text to work with; moderation needs a little.
	minAutoTagChars  = 50
	minModerateChars = 5
	ideaContextChars = 500
)

type editorField int

const (
	fieldTitle editorField = iota
	fieldGenre
	fieldTags
	fieldSummary
	fieldChapterTitle
	fieldBody
	editorFieldCount
)

type moderation int

const (
	moderationNone moderation = iota
	moderationApproved
	moderationFlagged
)

type editorState struct {
	base  model.Story
	isNew bool

	focus        editorField
	title        textinput.Model
	tags         textinput.Model
	summary      textinput.Model
	chapterTitle textinput.Model
	body         textarea.Model
	genre        model.Genre

	chapters []model.Chapter
	active   int

	suggestion string
	moderation moderation

	width  int
	height int
}

func newEditorInput(limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = limit
	return in
}

func newEditorState(s model.Story, isNew bool) editorState {
	e := editorState{
		base:         s,
		isNew:        isNew,
		title:        newEditorInput(120),
		tags:         newEditorInput(200),
		summary:      newEditorInput(500),
		chapterTitle: newEditorInput(120),
		body:         textarea.New(),
		genre:        s.Genre,
		chapters:     append([]model.Chapter(nil), s.Chapters...),
	}
	e.body.ShowLineNumbers = false
	e.body.CharLimit = 0
	e.body.Placeholder = "Once upon a time..."
	e.title.SetValue(s.Title)
	e.tags.SetValue(strings.Join(s.Tags, ", "))
	e.summary.SetValue(s.Summary)
	e.summary.Placeholder = "Write a short summary..."
	e.loadChapter(0)
	return e
}

// newDraft is the blank story the editor opens for "new story".
func newDraft() model.Story {
	return model.Story{
		Title:    "Untitled Story",
		Genre:    model.GenreFantasy,
		CoverURL: defaultCoverURL,
		Author:   model.NewStoryAuthor,
		Chapters: []model.Chapter{{ID: newChapterID(nil), Title: "Chapter 1: The Beginning"}},
	}
}

// newChapterID is a time-based id not used by any of chapters.
func newChapterID(chapters []model.Chapter) string {
	n := time.Now().UnixMilli()
	for {
		id := strconv.FormatInt(n, 10)
		taken := false
		for _, c := range chapters {
			if c.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
		n++
	}
}

func (m *appModel) enterEditor() tea.Cmd {
	if id := m.screen.StoryID; id != "" {
		s, ok := m.ctrl.Story(id)
		if !ok {
			m.ctrl.Notify(app.NoticeError, "Story not found")
			m.ctrl.GoBack()
			return nil
		}
		if len(s.Chapters) == 0 {
			s.Chapters = []model.Chapter{{ID: newChapterID(nil), Title: "Chapter 1: The Beginning"}}
		}
		m.editor = newEditorState(s.Clone(), false)
	} else {
		m.editor = newEditorState(newDraft(), true)
	}
	w, h := m.bodySize()
	m.editor.resize(w, h)
	return m.editor.setFocus(fieldTitle)
}

func (e *editorState) resize(w, h int) {
	e.width, e.height = w, h
	left := e.sidebarWidth()
	inputW := w - left - 4
	for _, in := range []*textinput.Model{&e.title, &e.tags, &e.summary, &e.chapterTitle} {
		in.Width = inputW - 2
	}
	e.body.SetWidth(inputW)
	bodyH := h - 14
	if e.suggestion != "" {
		bodyH -= 4
	}
	if bodyH < 3 {
		bodyH = 3
	}
	e.body.SetHeight(bodyH)
}

func (e *editorState) sidebarWidth() int {
	w := e.width / 4
	if w < 20 {
		w = 20
	}
	if w > 32 {
		w = 32
	}
	return w
}

func (e *editorState) setFocus(f editorField) tea.Cmd {
	e.focus = f
	e.title.Blur()
	e.tags.Blur()
	e.summary.Blur()
	e.chapterTitle.Blur()
	e.body.Blur()
	switch f {
	case fieldTitle:
		return e.title.Focus()
	case fieldTags:
		return e.tags.Focus()
	case fieldSummary:
		return e.summary.Focus()
	case fieldChapterTitle:
		return e.chapterTitle.Focus()
	case fieldBody:
		return e.body.Focus()
	}
	return nil
}

// commitChapter writes the chapter inputs back into the chapter list.
func (e *editorState) commitChapter() {
	if e.active < 0 || e.active >= len(e.chapters) {
		return
	}
	e.chapters[e.active].Title = e.chapterTitle.Value()
	e.chapters[e.active].Content = e.body.Value()
}

func (e *editorState) loadChapter(idx int) {
	if idx < 0 || idx >= len(e.chapters) {
		return
	}
	e.active = idx
	e.chapterTitle.SetValue(e.chapters[idx].Title)
	e.body.SetValue(e.chapters[idx].Content)
	e.moderation = moderationNone
}

func (e *editorState) switchChapter(idx int) {
	if idx < 0 || idx >= len(e.chapters) || idx == e.active {
		return
	}
	e.commitChapter()
	e.loadChapter(idx)
}

func (e *editorState) addChapter() {
	e.commitChapter()
	e.chapters = append(e.chapters, model.Chapter{
		ID:    newChapterID(e.chapters),
		Title: fmt.Sprintf("Chapter %d: Untitled", len(e.chapters)+1),
	})
	e.loadChapter(len(e.chapters) - 1)
}

func (e *editorState) deleteChapter(idx int) {
	if len(e.chapters) <= 1 || idx < 0 || idx >= len(e.chapters) {
		return
	}
	e.commitChapter()
	e.chapters = append(e.chapters[:idx], e.chapters[idx+1:]...)
	next := e.active
	if idx == e.active {
		next = 0
	} else if idx < e.active {
		next--
	}
	e.loadChapter(next)
}

func (e *editorState) cycleGenre(delta int) {
	idx := 0
	for i, g := range model.Genres {
		if g == e.genre {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(model.Genres)) % len(model.Genres)
	e.genre = model.Genres[idx]
}

// story assembles the edited story, keeping fields the editor does not show.
func (e *editorState) story() model.Story {
	e.commitChapter()
	s := e.base.Clone()
	if e.isNew {
		s.ID = ""
	}
	s.Title = strings.TrimSpace(e.title.Value())
	s.Genre = e.genre
	s.Tags = model.ParseTags(e.tags.Value())
	s.Summary = e.summary.Value()
	s.Chapters = append([]model.Chapter(nil), e.chapters...)
	if strings.TrimSpace(s.Author) == "" {
		s.Author = model.NewStoryAuthor
	}
	if strings.TrimSpace(s.CoverURL) == "" {
		s.CoverURL = defaultCoverURL
	}
	return s
}

func (e *editorState) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch e.focus {
	case fieldTitle:
		e.title, cmd = e.title.Update(msg)
	case fieldTags:
		e.tags, cmd = e.tags.Update(msg)
	case fieldSummary:
		e.summary, cmd = e.summary.Update(msg)
	case fieldChapterTitle:
		e.chapterTitle, cmd = e.chapterTitle.Update(msg)
	case fieldBody:
		e.body, cmd = e.body.Update(msg)
	}
	return cmd
}

func (m *appModel) updateEditor(msg tea.KeyMsg) tea.Cmd {
	e := &m.editor
	switch msg.String() {
	case "esc":
		m.ctrl.GoBack()
		return nil
	case "tab":
		return e.setFocus((e.focus + 1) % editorFieldCount)
	case "shift+tab":
		return e.setFocus((e.focus + editorFieldCount - 1) % editorFieldCount)
	case "ctrl+s":
		_, _ = m.ctrl.SaveStoryFromEditor(e.story())
		return nil
	case "f2":
		e.addChapter()
		return nil
	case "f3":
		return m.confirmDeleteChapter()
	case "f5":
		return m.requestIdea(ai.IdeaTwist)
	case "f6":
		return m.requestIdea(ai.IdeaRewrite)
	case "f7":
		return m.requestAutoTag()
	case "f8":
		return m.requestModeration()
	case "f9":
		if e.suggestion != "" {
			e.body.SetValue(e.body.Value() + "\n" + e.suggestion)
			e.suggestion = ""
			e.resize(e.width, e.height)
		}
		return nil
	}

	switch e.focus {
	case fieldGenre:
		switch msg.String() {
		case "left", "h", "up", "k":
			e.cycleGenre(-1)
		case "right", "l", "down", "j", " ", "enter":
			e.cycleGenre(1)
		}
		return nil
	case fieldChapterTitle:
		switch msg.String() {
		case "up", "pgup":
			e.switchChapter(e.active - 1)
			return nil
		case "down", "pgdown":
			e.switchChapter(e.active + 1)
			return nil
		case "enter":
			return e.setFocus(fieldBody)
		}
	case fieldTitle, fieldTags, fieldSummary:
		if msg.String() == "enter" {
			return e.setFocus(e.focus + 1)
		}
	}
	return e.updateFocused(msg)
}

func (m *appModel) confirmDeleteChapter() tea.Cmd {
	e := &m.editor
	if len(e.chapters) <= 1 {
		m.ctrl.Notify(app.NoticeError, "You must have at least one chapter.")
		return nil
	}
	idx := e.active
	title := e.chapterTitle.Value()
	m.confirm = newConfirm("Delete chapter", fmt.Sprintf("Are you sure you want to delete %q?", title), "Delete", func(m *appModel) tea.Cmd {
		m.editor.deleteChapter(idx)
		return nil
	})
	return nil
}

func (m *appModel) requestIdea(kind ai.IdeaKind) tea.Cmd {
	if m.aiBusy {
		return nil
	}
	e := &m.editor
	ctxText := lastRunes(e.body.Value(), ideaContextChars)
	if strings.TrimSpace(ctxText) == "" {
		ctxText = e.title.Value()
	}
	assistant := m.assistant
	return m.startAI(aiOpIdea, e.active, func(ctx context.Context, res *aiResultMsg) {
		res.text, res.err = assistant.GenerateIdea(ctx, ctxText, kind)
	})
}

func (m *appModel) requestAutoTag() tea.Cmd {
	if m.aiBusy {
		return nil
	}
	text := m.editor.body.Value()
	if len([]rune(text)) < minAutoTagChars {
		m.ctrl.Notify(app.NoticeError, "Write more content first!")
		return nil
	}
	assistant := m.assistant
	return m.startAI(aiOpAutoTag, m.editor.active, func(ctx context.Context, res *aiResultMsg) {
		res.tags, res.err = assistant.AutoTag(ctx, text)
	})
}

func (m *appModel) requestModeration() tea.Cmd {
	if m.aiBusy {
		return nil
	}
	text := m.editor.body.Value()
	if len([]rune(text)) < minModerateChars {
		m.ctrl.Notify(app.NoticeError, "Content too short to check.")
		return nil
	}
	m.editor.moderation = moderationNone
	assistant := m.assistant
	return m.startAI(aiOpModerate, m.editor.active, func(ctx context.Context, res *aiResultMsg) {
		res.verdict, res.err = assistant.Moderate(ctx, text)
	})
}

func (m *appModel) applyEditorAI(msg aiResultMsg) {
	e := &m.editor
	switch msg.op {
	case aiOpIdea:
		e.suggestion = strings.TrimSpace(msg.text)
		e.resize(e.width, e.height)
	case aiOpAutoTag:
		if g := strings.TrimSpace(msg.tags.Genre); g != "" {
			e.genre = model.Genre(g)
		}
		e.tags.SetValue(strings.Join(msg.tags.Tags, ", "))
		m.ctrl.Notify(app.NoticeSuccess, "Tags generated successfully!")
	case aiOpModerate:
		if msg.chapter != e.active {
			return
		}
		if msg.verdict.Approved {
			e.moderation = moderationApproved
			m.ctrl.Notify(app.NoticeSuccess, "Content looks safe!")
		} else {
			e.moderation = moderationFlagged
			m.ctrl.Notify(app.NoticeError, "Potential issues found.")
		}
	}
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func (m appModel) viewEditor(w int) string {
	e := m.editor
	side := e.sidebarWidth()

	// Sidebar: chapter list.
	var sb strings.Builder
	heading := "New story"
	if !e.isNew {
		heading = "Editing"
	}
	sb.WriteString(styleMuted().Render(heading) + "\n")
	sb.WriteString(styleTitle().Render(e.title.Value()) + "\n\n")
	sb.WriteString(styleTitle().Render("Chapters") + "\n")
	for i, ch := range e.chapters {
		title := ch.Title
		if i == e.active {
			title = e.chapterTitle.Value()
		}
		line := fmt.Sprintf("%d. %s", i+1, title)
		if i == e.active {
			sb.WriteString(styleSelected().Render(fitLine(glyphCursor()+" "+line, side-1)) + "\n")
		} else {
			sb.WriteString("  " + line + "\n")
		}
	}
	sb.WriteString("\n" + styleMuted().Render("f2 add  f3 delete") + "\n")
	words := model.WordCount(e.body.Value())
	sb.WriteString(styleMuted().Render(fmt.Sprintf("%d words", words)) + "\n")
	switch e.moderation {
	case moderationApproved:
		sb.WriteString(lipgloss.NewStyle().Foreground(colorSuccess).Render("Safe Content") + "\n")
	case moderationFlagged:
		sb.WriteString(lipgloss.NewStyle().Foreground(colorError).Render("Issues Found") + "\n")
	}
	sidebar := normalizePane(sb.String(), side, e.height)

	// Main column: metadata, chapter title, body, suggestion.
	mainW := w - side - 2
	genre := string(e.genre)
	if e.focus == fieldGenre {
		genre = "‹ " + genre + " ›"
	}
	var mb strings.Builder
	mb.WriteString(renderInputLine(mainW, "Title", e.title.View(), e.focus == fieldTitle) + "\n")
	genreLabel := styleMuted().Render("Genre")
	if e.focus == fieldGenre {
		genreLabel = styleAccent().Render(glyphCursor() + " Genre")
	}
	mb.WriteString(genreLabel + "  " + styleTab(e.focus == fieldGenre).Render(genre) + "\n")
	mb.WriteString(renderInputLine(mainW, "Tags (comma separated)", e.tags.View(), e.focus == fieldTags) + "\n")
	mb.WriteString(renderInputLine(mainW, "Summary", e.summary.View(), e.focus == fieldSummary) + "\n")
	mb.WriteString(renderInputLine(mainW, "Chapter title (↑/↓ switch chapter)", e.chapterTitle.View(), e.focus == fieldChapterTitle) + "\n")
	bodyLabel := styleMuted().Render("Text")
	if e.focus == fieldBody {
		bodyLabel = styleAccent().Render(glyphCursor() + " Text")
	}
	mb.WriteString(bodyLabel + "\n" + e.body.View() + "\n")
	if e.suggestion != "" {
		mb.WriteString(styleAccent().Render("Suggestion") + styleMuted().Render("  f9 insert") + "\n")
		mb.WriteString(wrapText(fmt.Sprintf("%q", e.suggestion), mainW) + "\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", mb.String())
}
