package tui

import (
	"fmt"
	"strings"

	"storyweave/internal/model"
	"storyweave/internal/perm"

	tea "github.com/charmbracelet/bubbletea"
)

type detailState struct {
	cursor int
}

func (m *appModel) enterDetail() {
	m.detail.cursor = m.ctrl.ResumeIndex(m.screen.StoryID)
	if s, ok := m.ctrl.CurrentStory(); ok && m.detail.cursor >= len(s.Chapters) {
		m.detail.cursor = 0
	}
}

// ownStory reports whether the signed-in user may edit s.
func (m *appModel) ownStory(s model.Story) bool {
	return perm.CanEditStory(m.ctrl.User(), s)
}

func (m *appModel) updateDetail(msg tea.KeyMsg) tea.Cmd {
	s, ok := m.ctrl.CurrentStory()
	if !ok {
		return nil
	}
	switch k := msg.String(); k {
	case "enter":
		_, _ = m.ctrl.StartReading(s.ID, nil)
	case "up", "k":
		if m.detail.cursor > 0 {
			m.detail.cursor--
		}
	case "down", "j":
		if m.detail.cursor < len(s.Chapters)-1 {
			m.detail.cursor++
		}
	case "r":
		idx := m.detail.cursor
		_, _ = m.ctrl.StartReading(s.ID, &idx)
	case "s":
		m.ctrl.ToggleLibrary(s.ID)
	case "e":
		if m.ownStory(s) {
			_ = m.ctrl.EditStory(s.ID)
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(k[0] - '1')
		if idx < len(s.Chapters) {
			_, _ = m.ctrl.StartReading(s.ID, &idx)
		}
	}
	return nil
}

func (m appModel) viewDetail(w int) string {
	s, ok := m.ctrl.CurrentStory()
	if !ok {
		return styleMuted().Render("Story not found. Press esc to go back.")
	}

	var b strings.Builder
	b.WriteString(styleTitle().Render(s.Title))
	if m.ctrl.IsSaved(s.ID) {
		b.WriteString("  " + styleAccent().Render(glyphSaved()+" saved"))
	}
	b.WriteString("\n")
	status := "Ongoing"
	if s.Completed {
		status = "Completed"
	}
	b.WriteString(styleMuted().Render(fmt.Sprintf("by %s  %s  %s %.1f  %s reads  %s", s.Author, s.Genre, glyphStar(), s.Rating, formatCount(s.Views), status)) + "\n")
	if tags := joinTags(s.Tags); tags != "" {
		b.WriteString(styleAccent().Render(tags) + "\n")
	}
	b.WriteString("\n" + wrapText(s.Summary, w) + "\n\n")

	resume := m.ctrl.ResumeIndex(s.ID)
	label := "Start reading"
	if _, ok := m.ctrl.Progress(s.ID); ok {
		label = fmt.Sprintf("Continue reading (chapter %d)", resume+1)
	}
	b.WriteString(styleTab(true).Render("enter "+label) + "\n\n")

	b.WriteString(styleTitle().Render(fmt.Sprintf("Chapters (%d)", len(s.Chapters))) + "\n")
	for i, ch := range s.Chapters {
		line := fmt.Sprintf("%2d  %s", i+1, ch.Title)
		if i == resume {
			line += styleMuted().Render("  last read")
		}
		if i == m.detail.cursor {
			b.WriteString(styleSelected().Render(glyphCursor()+" "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}
