package tui

import (
	"context"
	"fmt"
	"strings"

	"storyweave/internal/model"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type readerState struct {
	chapter  int
	summary  string
	viewport viewport.Model
}

func (m *appModel) enterReader() {
	m.reader = readerState{chapter: m.screen.ChapterIndex, viewport: viewport.New(0, 0)}
	s, ok := m.ctrl.CurrentStory()
	if !ok {
		return
	}
	if m.reader.chapter >= len(s.Chapters) {
		m.reader.chapter = len(s.Chapters) - 1
	}
	if m.reader.chapter < 0 {
		m.reader.chapter = 0
	}
	m.ctrl.RecordProgress(s.ID, m.reader.chapter)
	m.resizeReader()
}

func (m *appModel) resizeReader() {
	w, h := m.bodySize()
	m.reader.viewport.Width = w
	// Title, position line and summary panel sit above the text.
	m.reader.viewport.Height = h - 4 - strings.Count(m.reader.summaryView(w), "\n")
	if m.reader.viewport.Height < 3 {
		m.reader.viewport.Height = 3
	}
	m.refreshReaderContent()
}

func (m *appModel) refreshReaderContent() {
	s, ok := m.ctrl.CurrentStory()
	if !ok {
		return
	}
	ch, ok := s.Chapter(m.reader.chapter)
	if !ok {
		m.reader.viewport.SetContent("")
		return
	}
	m.reader.viewport.SetContent(renderMarkdown(ch.Content, m.reader.viewport.Width-2, m.mdStyle))
}

// setChapter moves within the story, records progress and forgets the previous summary.
func (m *appModel) setChapter(s model.Story, idx int) {
	if idx < 0 || idx >= len(s.Chapters) || idx == m.reader.chapter {
		return
	}
	m.reader.chapter = idx
	m.reader.summary = ""
	// A summary requested for the old chapter is now stale.
	m.aiSeq++
	m.aiBusy = false
	m.ctrl.RecordProgress(s.ID, idx)
	m.reader.viewport.GotoTop()
	m.resizeReader()
}

func (m *appModel) updateReader(msg tea.KeyMsg) tea.Cmd {
	s, ok := m.ctrl.CurrentStory()
	if !ok {
		return nil
	}
	switch msg.String() {
	case "n", "right", "l":
		m.setChapter(s, m.reader.chapter+1)
		return nil
	case "p", "left", "h":
		m.setChapter(s, m.reader.chapter-1)
		return nil
	case "s":
		m.ctrl.ToggleLibrary(s.ID)
		return nil
	case "a":
		ch, ok := s.Chapter(m.reader.chapter)
		if !ok || m.aiBusy {
			return nil
		}
		text := ch.Content
		assistant := m.assistant
		return m.startAI(aiOpSummarize, m.reader.chapter, func(ctx context.Context, res *aiResultMsg) {
			res.text, res.err = assistant.Summarize(ctx, text)
		})
	}
	var cmd tea.Cmd
	m.reader.viewport, cmd = m.reader.viewport.Update(msg)
	return cmd
}

func (m *appModel) applyReaderAI(msg aiResultMsg) {
	if msg.op != aiOpSummarize || msg.chapter != m.reader.chapter {
		return
	}
	m.reader.summary = strings.TrimSpace(msg.text)
	m.resizeReader()
}

func (r readerState) summaryView(w int) string {
	if r.summary == "" {
		return ""
	}
	return styleAccent().Render("AI summary") + "\n" + wrapText(r.summary, w) + "\n"
}

func (m appModel) viewReader(w int) string {
	s, ok := m.ctrl.CurrentStory()
	if !ok {
		return styleMuted().Render("Story not found. Press esc to go back.")
	}
	ch, _ := s.Chapter(m.reader.chapter)

	var b strings.Builder
	b.WriteString(styleTitle().Render(s.Title) + styleMuted().Render("  "+glyphHRule()+"  "+ch.Title) + "\n")
	pct := int(m.reader.viewport.ScrollPercent() * 100)
	b.WriteString(styleMuted().Render(fmt.Sprintf("Chapter %d of %d  %d words  %d%%", m.reader.chapter+1, len(s.Chapters), model.WordCount(ch.Content), pct)) + "\n")
	if sv := m.reader.summaryView(w); sv != "" {
		b.WriteString(sv)
	}
	b.WriteString("\n")
	b.WriteString(m.reader.viewport.View())
	return b.String()
}
