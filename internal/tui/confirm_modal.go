package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// confirmState is a pending destructive action. onConfirm runs on the UI goroutine.
type confirmState struct {
	title        string
	body         string
	confirmLabel string
	focus        confirmModalFocus
	onConfirm    func(m *appModel) tea.Cmd
}

func newConfirm(title, body, confirmLabel string, onConfirm func(m *appModel) tea.Cmd) *confirmState {
	return &confirmState{
		title:        title,
		body:         body,
		confirmLabel: confirmLabel,
		// Destructive: default to cancel.
		focus:     confirmFocusCancel,
		onConfirm: onConfirm,
	}
}

func (m *appModel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	c := m.confirm
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if c.focus == confirmFocusConfirm {
			c.focus = confirmFocusCancel
		} else {
			c.focus = confirmFocusConfirm
		}
	case "y":
		m.confirm = nil
		return c.onConfirm(m)
	case "esc", "ctrl+g", "n":
		m.confirm = nil
	case "enter":
		m.confirm = nil
		if c.focus == confirmFocusConfirm {
			return c.onConfirm(m)
		}
	}
	return nil
}

func renderConfirmModal(width int, c *confirmState) string {
	// No nested borders: some terminals leave background artifacts inside the modal.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(c.confirmLabel)
	cancel := btnBase.Render("Cancel")
	if c.focus == confirmFocusConfirm {
		confirm = btnActive.Render(c.confirmLabel)
	} else {
		cancel = btnActive.Render("Cancel")
	}

	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   y: confirm   esc: cancel")

	content := strings.Join([]string{
		wrapText(c.body, bodyW),
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, c.title, content)
}
