package tui

import (
	"strings"

	"storyweave/internal/catalog"
	"storyweave/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type browsePrompt int

const (
	promptNone browsePrompt = iota
	promptSearch
	promptTag
)

// browseState survives leaving the screen so filters stick when coming back
// from a story.
type browseState struct {
	query  catalog.Query
	genre  int // index into model.Genres, -1 for all
	prompt browsePrompt
	input  textinput.Model
	list   list.Model
	shown  int
}

func newBrowseState() browseState {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 80
	return browseState{
		query: catalog.Query{Sort: catalog.SortPopularity},
		genre: -1,
		input: in,
		list:  newStoryList(nil),
	}
}

func (m *appModel) enterBrowse() {
	m.browse.prompt = promptNone
	m.browse.input.Blur()
	m.refreshBrowse()
}

func (m *appModel) refreshBrowse() {
	stories := m.browse.query.Apply(m.ctrl.Catalog().All())
	m.browse.shown = len(stories)
	idx := m.browse.list.Index()
	m.browse.list.SetItems(storyItems(stories, m.ctrl.IsSaved))
	if idx >= len(stories) {
		idx = len(stories) - 1
	}
	if idx >= 0 {
		m.browse.list.Select(idx)
	}
}

func (m *appModel) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	b := &m.browse
	if b.prompt != promptNone {
		return m.updateBrowsePrompt(msg)
	}

	switch msg.String() {
	case "enter":
		if it, ok := b.list.SelectedItem().(storyItem); ok {
			_ = m.ctrl.SelectStory(it.story.ID)
		}
		return nil
	case "/":
		b.prompt = promptSearch
		b.input.SetValue(b.query.Search)
		b.input.CursorEnd()
		return b.input.Focus()
	case "t":
		b.prompt = promptTag
		b.input.SetValue(strings.Join(b.query.Tags, ", "))
		b.input.CursorEnd()
		return b.input.Focus()
	case "g":
		b.genre++
		if b.genre >= len(model.Genres) {
			b.genre = -1
		}
		b.query.Genres = nil
		if b.genre >= 0 {
			b.query.Genres = []model.Genre{model.Genres[b.genre]}
		}
		m.refreshBrowse()
		return nil
	case "s":
		b.query.Sort = b.query.Sort.Next()
		m.refreshBrowse()
		return nil
	case "x":
		b.query = catalog.Query{Sort: b.query.Sort}
		b.genre = -1
		m.refreshBrowse()
		return nil
	}

	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)
	return cmd
}

func (m *appModel) updateBrowsePrompt(msg tea.KeyMsg) tea.Cmd {
	b := &m.browse
	switch msg.String() {
	case "esc", "enter":
		b.prompt = promptNone
		b.input.Blur()
		return nil
	}
	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	// Filters apply as you type.
	switch b.prompt {
	case promptSearch:
		b.query.Search = b.input.Value()
	case promptTag:
		b.query.Tags = model.ParseTags(b.input.Value())
	}
	m.refreshBrowse()
	return cmd
}

func (m appModel) viewBrowse(w int) string {
	b := m.browse

	genre := "all genres"
	if b.genre >= 0 {
		genre = string(model.Genres[b.genre])
	}
	chips := []string{
		styleTab(b.genre >= 0).Render("genre: " + genre),
		styleTab(false).Render("sort: " + string(b.query.Sort)),
	}
	if len(b.query.Tags) > 0 {
		chips = append(chips, styleTab(true).Render("tags: "+strings.Join(b.query.Tags, ", ")))
	}
	header := strings.Join(chips, " ")

	var search string
	switch b.prompt {
	case promptSearch:
		search = renderInputLine(w/2, "Search title or author", b.input.View(), true)
	case promptTag:
		search = renderInputLine(w/2, "Tags (comma separated, any match)", b.input.View(), true)
	default:
		if b.query.Search != "" {
			search = styleMuted().Render("search: ") + b.query.Search
		}
	}

	body := b.list.View()
	if b.shown == 0 {
		body = styleMuted().Render("No stories match these filters. Press x to clear them.")
	}

	parts := []string{header}
	if search != "" {
		parts = append(parts, search)
	}
	parts = append(parts, "", body)
	return strings.Join(parts, "\n")
}
