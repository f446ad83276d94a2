package cli

import (
	"fmt"
	"strings"

	"storyweave/internal/model"

	"github.com/spf13/cobra"
)

func newContentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Landing page copy (CMS)",
	}
	cmd.AddCommand(newContentShowCmd(app))
	cmd.AddCommand(newContentSetCmd(app))
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default landing copy (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				if err := rt.requireAdmin(); err != nil {
					return err
				}
				if err := rt.ctrl.SaveContent(model.DefaultLandingContent()); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": rt.ctrl.Content()})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	})
	return cmd
}

func newContentShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [section]",
		Short: "Show the landing copy, or one section",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				c := rt.ctrl.Content()
				if len(args) == 0 {
					return writeOut(cmd, app, map[string]any{"data": c})
				}
				name := strings.ToLower(strings.TrimSpace(args[0]))
				sec := c.Section(name)
				if sec == nil {
					return errNotFound("section", name)
				}
				return writeOut(cmd, app, map[string]any{"data": sec})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

func newContentSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <section> <field> <value>",
		Short: "Change one landing copy field (admin)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			section := strings.ToLower(strings.TrimSpace(args[0]))
			field := strings.TrimSpace(args[1])
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				if err := rt.requireAdmin(); err != nil {
					return err
				}
				next, ok := rt.ctrl.Content().With(section, field, args[2])
				if !ok {
					return fmt.Errorf("unknown section: %s (expected %s)", section, strings.Join(model.SectionNames, "|"))
				}
				if err := rt.ctrl.SaveContent(next); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": next.Section(section)})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}
