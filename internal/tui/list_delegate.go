package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"storyweave/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// storyItem is one row in a story list.
type storyItem struct {
	story model.Story
	saved bool
}

func (i storyItem) FilterValue() string { return i.story.Title + " " + i.story.Author }

func (i storyItem) Title() string {
	title := i.story.Title
	if i.saved {
		title += " " + glyphSaved()
	}
	return title
}

func (i storyItem) Description() string {
	s := i.story
	return fmt.Sprintf("%s  %s  %s %.1f  %s reads  %d ch",
		s.Author, s.Genre, glyphStar(), s.Rating, formatCount(s.Views), len(s.Chapters))
}

func storyItems(stories []model.Story, saved func(string) bool) []list.Item {
	items := make([]list.Item, 0, len(stories))
	for _, s := range stories {
		items = append(items, storyItem{story: s, saved: saved != nil && saved(s.ID)})
	}
	return items
}

// storyDelegate renders two lines per story: title, then muted metadata.
type storyDelegate struct{}

func (d storyDelegate) Height() int                             { return 2 }
func (d storyDelegate) Spacing() int                            { return 1 }
func (d storyDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d storyDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(storyItem)
	contentW := m.Width()
	if !ok || contentW < 4 {
		return
	}

	title := fitLine("  "+it.Title(), contentW)
	desc := fitLine("  "+it.Description(), contentW)
	if index == m.Index() {
		title = styleSelected().Render(fitLine(glyphCursor()+" "+it.Title(), contentW))
		desc = styleMuted().Render(desc)
	} else {
		desc = styleMuted().Render(desc)
	}
	fmt.Fprint(w, title+"\n"+desc)
}

func newStoryList(items []list.Item) list.Model {
	l := list.New(items, storyDelegate{}, 0, 0)
	// The app renders its own header and footer.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	// Filtering is done by catalog.Query, not by the list.
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}

func formatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "k"
	}
	return strconv.Itoa(n)
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "#" + t
	}
	return strings.Join(parts, " ")
}

