package tui

import (
	"errors"
	"strings"

	"storyweave/internal/auth"
	"storyweave/internal/nav"
	"storyweave/internal/session"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type authFocus int

const (
	authFocusEmail authFocus = iota
	authFocusPassword
	authFocusSubmit
	authFocusToggle
	authFocusCount
)

type authState struct {
	admin    bool
	signUp   bool
	focus    authFocus
	email    textinput.Model
	password textinput.Model
	busy     bool
	errMsg   string
	info     string
}

func newAuthState(admin bool) authState {
	email := textinput.New()
	email.Prompt = ""
	email.Placeholder = "you@example.com"
	email.CharLimit = 120

	pw := textinput.New()
	pw.Prompt = ""
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	pw.CharLimit = 72

	return authState{admin: admin, email: email, password: pw}
}

func (m *appModel) enterAuth() tea.Cmd {
	m.authForm = newAuthState(m.screen.Kind == nav.KindAdminLogin)
	return m.authForm.setFocus(authFocusEmail)
}

func (a *authState) setFocus(f authFocus) tea.Cmd {
	a.focus = f
	a.email.Blur()
	a.password.Blur()
	switch f {
	case authFocusEmail:
		return a.email.Focus()
	case authFocusPassword:
		return a.password.Focus()
	}
	return nil
}

func (a *authState) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.focus {
	case authFocusEmail:
		a.email, cmd = a.email.Update(msg)
	case authFocusPassword:
		a.password, cmd = a.password.Update(msg)
	}
	return cmd
}

func (m *appModel) updateAuth(msg tea.KeyMsg) tea.Cmd {
	a := &m.authForm
	switch msg.String() {
	case "esc":
		m.ctrl.GoBack()
		return nil
	case "tab", "down":
		return a.setFocus((a.focus + 1) % authFocusCount)
	case "shift+tab", "up":
		return a.setFocus((a.focus + authFocusCount - 1) % authFocusCount)
	case "enter":
		switch a.focus {
		case authFocusEmail:
			return a.setFocus(authFocusPassword)
		case authFocusToggle:
			a.signUp = !a.signUp
			a.errMsg, a.info = "", ""
			return nil
		default:
			return m.submitAuth()
		}
	}
	if a.busy {
		return nil
	}
	return a.updateFocused(msg)
}

func (m *appModel) submitAuth() tea.Cmd {
	a := &m.authForm
	if a.busy {
		return nil
	}
	a.errMsg, a.info = "", ""
	if m.auth == nil {
		a.errMsg = session.ErrNoProvider.Error()
		return nil
	}
	email := strings.TrimSpace(a.email.Value())
	password := a.password.Value()
	if email == "" || password == "" {
		a.errMsg = "Email and password are required"
		return nil
	}
	a.busy = true

	p, ctx := m.auth, m.ctx
	admin, signUp := a.admin, a.signUp
	return func() tea.Msg {
		res := authResultMsg{admin: admin, signUp: signUp}
		if signUp {
			var meta map[string]string
			if admin {
				meta = map[string]string{"role": "admin"}
			}
			res.result, res.err = p.SignUp(ctx, email, password, meta)
			return res
		}
		s, err := p.SignInWithPassword(ctx, email, password)
		res.result = session.SignUpResult{Session: s}
		if s != nil {
			res.result.UserID, res.result.Email = s.UserID, s.Email
		}
		res.err = err
		return res
	}
}

func (m *appModel) handleAuthResult(msg authResultMsg) tea.Cmd {
	// The user may have left the form while the request ran.
	if m.screen.Kind != nav.KindAuth && m.screen.Kind != nav.KindAdminLogin {
		return nil
	}
	a := &m.authForm
	a.busy = false
	if msg.err != nil {
		a.errMsg = authErrorText(msg.err)
		return nil
	}
	if msg.signUp && msg.result.NeedsConfirmation() {
		if msg.admin {
			a.info = "Registration successful! Please check your email for the confirmation link."
		} else {
			a.info = "Sign up successful! Please check your email for the confirmation link."
		}
		a.signUp = false
		a.password.SetValue("")
		return a.setFocus(authFocusPassword)
	}
	if msg.admin {
		m.ctrl.CompleteAdminLogin()
	} else {
		m.ctrl.CompleteLogin()
	}
	return nil
}

func authErrorText(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid login credentials"
	case errors.Is(err, auth.ErrNotConfirmed):
		return "Email not confirmed"
	case errors.Is(err, auth.ErrEmailTaken):
		return "User already registered"
	}
	if s := err.Error(); s != "" {
		return s
	}
	return "Authentication failed"
}

func (m appModel) viewAuth(w int) string {
	a := m.authForm
	formW := w
	if formW > 56 {
		formW = 56
	}

	title, sub := "Welcome back", "Sign in to continue your journey"
	if a.signUp {
		title, sub = "Create an account", "Join the community of readers and writers"
	}
	if a.admin {
		title, sub = "Admin Portal", "Restricted access for content managers"
		if a.signUp {
			title = "Admin Registration"
		}
	}

	var b strings.Builder
	b.WriteString(styleTitle().Render(title) + "\n")
	b.WriteString(styleMuted().Render(sub) + "\n\n")
	b.WriteString(renderInputLine(formW, "Email", a.email.View(), a.focus == authFocusEmail) + "\n")
	b.WriteString(renderInputLine(formW, "Password", a.password.View(), a.focus == authFocusPassword) + "\n\n")

	submit := "Sign In"
	toggle := "Don't have an account? Sign Up"
	if a.signUp {
		submit = "Sign Up"
		toggle = "Already have an account? Sign In"
	}
	if a.busy {
		submit = "Please wait…"
	}
	b.WriteString(styleTab(a.focus == authFocusSubmit).Render(submit) + "\n\n")
	b.WriteString(styleTab(a.focus == authFocusToggle).Render(toggle) + "\n\n")

	if a.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(colorError).Render(wrapText(a.errMsg, formW)) + "\n")
	}
	if a.info != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(colorSuccess).Render(wrapText(a.info, formW)) + "\n")
	}
	return b.String()
}
