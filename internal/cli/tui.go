package cli

import (
	"errors"

	"storyweave/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runTUI(cmd *cobra.Command, app *App) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx, app, runtimeOptions{logFile: true})
	if err != nil {
		return writeErr(cmd, err)
	}
	defer rt.Close()

	d := tui.Deps{
		Controller:    rt.ctrl,
		Session:       rt.session,
		Auth:          rt.auth,
		Assistant:     rt.ai,
		DB:            rt.db,
		Logger:        rt.log,
		MarkdownStyle: rt.cfg.TUI.MarkdownStyle,
	}
	if rt.db != nil {
		d.WatchPath = rt.db.Path()
	}
	rt.log.Info("starting tui", zap.String("dir", rt.dir), zap.Bool("ephemeral", app.Ephemeral))

	runErr := tui.Run(ctx, d)
	if err := rt.persist(ctx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	return runErr
}
