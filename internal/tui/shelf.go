package tui

import (
	"fmt"
	"strings"

	"storyweave/internal/model"
	"storyweave/internal/nav"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type shelfTab int

const (
	tabMine shelfTab = iota
	tabSaved
)

// shelfState backs the three story-list screens: author dashboard, library and profile.
type shelfState struct {
	tab         shelfTab
	list        list.Model
	count       int
	editingName bool
	nameInput   textinput.Model
}

func newShelfState() shelfState {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 60
	return shelfState{list: newStoryList(nil), nameInput: in}
}

func (m *appModel) enterShelf() {
	m.shelf.tab = tabMine
	if m.screen.Kind == nav.KindLibrary && len(m.ctrl.MyStories()) == 0 {
		m.shelf.tab = tabSaved
	}
	m.shelf.editingName = false
	m.shelf.nameInput.Blur()
	m.shelf.list.Select(0)
	m.refreshShelf()
}

func (m *appModel) shelfStories() []model.Story {
	if m.screen.Kind != nav.KindAuthorDashboard && m.shelf.tab == tabSaved {
		return m.ctrl.SavedStories()
	}
	return m.ctrl.MyStories()
}

func (m *appModel) refreshShelf() {
	stories := m.shelfStories()
	m.shelf.count = len(stories)
	idx := m.shelf.list.Index()
	m.shelf.list.SetItems(storyItems(stories, m.ctrl.IsSaved))
	if idx >= len(stories) {
		idx = len(stories) - 1
	}
	if idx >= 0 {
		m.shelf.list.Select(idx)
	}
}

func (m *appModel) selectedShelfStory() (model.Story, bool) {
	it, ok := m.shelf.list.SelectedItem().(storyItem)
	if !ok {
		return model.Story{}, false
	}
	return it.story, true
}

func (m *appModel) updateShelf(msg tea.KeyMsg) tea.Cmd {
	sh := &m.shelf
	if sh.editingName {
		return m.updateProfileName(msg)
	}

	kind := m.screen.Kind
	mine := kind == nav.KindAuthorDashboard || sh.tab == tabMine

	switch msg.String() {
	case "tab", "shift+tab", "1", "2":
		if kind == nav.KindAuthorDashboard {
			return nil
		}
		switch msg.String() {
		case "1":
			sh.tab = tabMine
		case "2":
			sh.tab = tabSaved
		default:
			sh.tab = 1 - sh.tab
		}
		sh.list.Select(0)
		m.refreshShelf()
		return nil
	case "n":
		switch kind {
		case nav.KindAuthorDashboard:
			m.ctrl.CreateStory()
		case nav.KindProfile:
			u := m.ctrl.User()
			if u == nil {
				return nil
			}
			sh.editingName = true
			sh.nameInput.SetValue(u.Name)
			sh.nameInput.CursorEnd()
			return sh.nameInput.Focus()
		}
		return nil
	case "o":
		if kind == nav.KindProfile {
			_ = m.ctrl.Logout(m.ctx)
		}
		return nil
	case "enter":
		s, ok := m.selectedShelfStory()
		if !ok {
			return nil
		}
		if kind == nav.KindAuthorDashboard {
			_ = m.ctrl.EditStory(s.ID)
		} else {
			_ = m.ctrl.SelectStory(s.ID)
		}
		return nil
	case "v":
		if s, ok := m.selectedShelfStory(); ok {
			_ = m.ctrl.SelectStory(s.ID)
		}
		return nil
	case "e":
		if s, ok := m.selectedShelfStory(); ok && mine {
			_ = m.ctrl.EditStory(s.ID)
		}
		return nil
	case "d", "delete":
		s, ok := m.selectedShelfStory()
		if !ok || kind == nav.KindProfile {
			return nil
		}
		if !mine {
			m.ctrl.ToggleLibrary(s.ID)
			m.refreshShelf()
			return nil
		}
		m.confirm = newConfirm("Delete story",
			fmt.Sprintf("Are you sure you want to delete %q? This cannot be undone.", s.Title),
			"Delete",
			func(m *appModel) tea.Cmd {
				m.ctrl.DeleteStory(s.ID)
				m.refreshShelf()
				return nil
			})
		return nil
	}

	var cmd tea.Cmd
	sh.list, cmd = sh.list.Update(msg)
	return cmd
}

func (m *appModel) updateProfileName(msg tea.KeyMsg) tea.Cmd {
	sh := &m.shelf
	switch msg.String() {
	case "esc":
		sh.editingName = false
		sh.nameInput.Blur()
		return nil
	case "enter":
		if err := m.ctrl.UpdateProfileName(sh.nameInput.Value()); err == nil {
			sh.editingName = false
			sh.nameInput.Blur()
			m.refreshShelf()
		}
		return nil
	}
	var cmd tea.Cmd
	sh.nameInput, cmd = sh.nameInput.Update(msg)
	return cmd
}

func (m appModel) viewShelf(w int) string {
	sh := m.shelf
	var b strings.Builder

	switch m.screen.Kind {
	case nav.KindAuthorDashboard:
		b.WriteString(styleTitle().Render("Author Dashboard") + "\n")
		b.WriteString(styleMuted().Render(fmt.Sprintf("%d stories", sh.count)) + "  " + styleTab(true).Render("n New Story") + "\n\n")
	case nav.KindLibrary:
		b.WriteString(styleTitle().Render("My Library") + "\n\n")
		b.WriteString(styleTab(sh.tab == tabMine).Render("1 My Stories") + " " + styleTab(sh.tab == tabSaved).Render("2 Saved") + "\n\n")
	case nav.KindProfile:
		b.WriteString(m.viewProfileCard(w))
		b.WriteString(styleTab(sh.tab == tabMine).Render("1 My Stories") + " " + styleTab(sh.tab == tabSaved).Render("2 Saved") + "\n\n")
	}

	if sh.count == 0 {
		msg := "No stories yet. Press n to write one."
		switch {
		case m.screen.Kind == nav.KindProfile && sh.tab == tabMine:
			msg = "No stories published yet."
		case m.screen.Kind != nav.KindAuthorDashboard && sh.tab == tabSaved:
			msg = "Your library is empty. Save stories from their detail page with s."
		}
		b.WriteString(styleMuted().Render(msg))
		return b.String()
	}
	b.WriteString(sh.list.View())
	return b.String()
}

func (m appModel) viewProfileCard(w int) string {
	u := m.ctrl.User()
	if u == nil {
		return styleMuted().Render("Not signed in.") + "\n\n"
	}
	var b strings.Builder
	if m.shelf.editingName {
		b.WriteString(renderInputLine(w/2, "Display name", m.shelf.nameInput.View(), true) + "\n")
	} else {
		b.WriteString(styleTitle().Render(u.Name))
		role := "Author"
		if u.IsAdmin {
			role = "Admin"
		}
		b.WriteString("  " + styleBadge().Render(role) + "\n")
	}
	b.WriteString(styleMuted().Render("avatar: "+u.Avatar) + "\n")
	b.WriteString(styleMuted().Render(fmt.Sprintf("%d stories  %d saved", len(m.ctrl.MyStories()), len(m.ctrl.SavedStories()))) + "\n\n")
	return b.String()
}
