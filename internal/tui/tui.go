// Package tui is the interactive StoryWeave reader and writer.
package tui

import (
	"context"

	"storyweave/internal/ai"
	"storyweave/internal/app"
	"storyweave/internal/content"
	"storyweave/internal/logging"
	"storyweave/internal/model"
	"storyweave/internal/session"
	"storyweave/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Deps struct {
	Controller *app.Controller
	// Session forwards sign-in/sign-out events into the program. Optional.
	Session *session.Adapter
	// Auth performs sign-in and sign-up from the auth screens.
	Auth      session.Provider
	Assistant ai.Assistant
	// DB receives device state after every change; nil keeps everything in memory.
	DB            *store.DB
	Logger        *zap.Logger
	MarkdownStyle string
	// WatchPath is a database file watched for landing content saved by other processes.
	WatchPath string
}

func Run(ctx context.Context, d Deps) error {
	log := logging.OrNop(d.Logger)
	applyColorProfilePreference()
	applyThemePreference(d.MarkdownStyle)
	applyGlyphPreference()

	m := newAppModel(ctx, d)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Callbacks can fire on the UI goroutine (sign-out from Update), so never
	// block it on Send.
	if d.Session != nil {
		d.Session.SetOnChange(func(u *model.User) {
			go p.Send(sessionChangedMsg{user: u})
		})
		defer d.Session.SetOnChange(nil)
	}
	if d.WatchPath != "" {
		w, err := content.Watch(ctx, d.WatchPath, func() { go p.Send(contentChangedMsg{}) }, log)
		if err != nil {
			log.Warn("content watcher disabled", zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	final, err := p.Run()
	if fm, ok := final.(appModel); ok {
		fm.persist()
	}
	return err
}
