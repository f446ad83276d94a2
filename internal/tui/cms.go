package tui

import (
	"strings"

	"storyweave/internal/app"
	"storyweave/internal/model"
	"storyweave/internal/nav"
	"storyweave/internal/perm"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// cmsState edits a working copy of the landing content; nothing is stored until ctrl+s.
type cmsState struct {
	working model.LandingContent
	section int
	field   int
	editing bool
	input   textinput.Model
	dirty   bool
}

func (m *appModel) enterCMS() tea.Cmd {
	if !perm.CanManageContent(m.ctrl.User()) {
		// Reached without admin rights (e.g. via history): swap for the admin login.
		m.ctrl.GoBack()
		m.ctrl.OpenCMS()
		return nil
	}
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 400
	m.cms = cmsState{working: m.ctrl.Content(), input: in}
	return nil
}

func (c *cmsState) sectionName() string { return model.SectionNames[c.section] }

func (c *cmsState) fields() []string { return model.SectionFields[c.sectionName()] }

func (m *appModel) updateCMS(msg tea.KeyMsg) tea.Cmd {
	c := &m.cms
	if c.editing {
		switch msg.String() {
		case "esc":
			c.editing = false
			c.input.Blur()
			return nil
		case "enter":
			next, ok := c.working.With(c.sectionName(), c.fields()[c.field], c.input.Value())
			if ok {
				c.working = next
				c.dirty = true
			}
			c.editing = false
			c.input.Blur()
			return nil
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "left", "h", "shift+tab":
		c.section = (c.section + len(model.SectionNames) - 1) % len(model.SectionNames)
		c.field = 0
	case "right", "l", "tab":
		c.section = (c.section + 1) % len(model.SectionNames)
		c.field = 0
	case "up", "k":
		if c.field > 0 {
			c.field--
		}
	case "down", "j":
		if c.field < len(c.fields())-1 {
			c.field++
		}
	case "enter":
		v, _ := c.working.Get(c.sectionName(), c.fields()[c.field])
		c.editing = true
		c.input.SetValue(v)
		c.input.CursorEnd()
		return c.input.Focus()
	case "r":
		c.working = m.ctrl.Content()
		c.dirty = false
	case "ctrl+s":
		if err := m.ctrl.SaveContent(c.working); err == nil {
			c.dirty = false
		}
	case "v":
		// Preview the landing page as visitors see it.
		if c.dirty {
			m.ctrl.Notify(app.NoticeError, "Save your changes first (ctrl+s)")
			return nil
		}
		m.ctrl.NavigateTo(nav.Landing())
	}
	return nil
}

func (m appModel) viewCMS(w int) string {
	c := m.cms
	var b strings.Builder

	title := "Content Management"
	if c.dirty {
		title += styleMuted().Render("  (unsaved changes)")
	}
	b.WriteString(styleTitle().Render(title) + "\n\n")

	tabs := make([]string, len(model.SectionNames))
	for i, name := range model.SectionNames {
		tabs[i] = styleTab(i == c.section).Render(name)
	}
	b.WriteString(strings.Join(tabs, " ") + "\n\n")

	labelW := 0
	for _, f := range c.fields() {
		if len(f) > labelW {
			labelW = len(f)
		}
	}
	for i, f := range c.fields() {
		v, _ := c.working.Get(c.sectionName(), f)
		label := f + strings.Repeat(" ", labelW-len(f))
		if i == c.field && c.editing {
			b.WriteString(renderInputLine(w-2, f, c.input.View(), true) + "\n")
			continue
		}
		line := label + "  " + v
		if i == c.field {
			b.WriteString(styleSelected().Render(fitLine(glyphCursor()+" "+line, w-2)) + "\n")
		} else {
			b.WriteString("  " + styleMuted().Render(label) + "  " + fitLine(v, w-labelW-6) + "\n")
		}
	}
	return b.String()
}
