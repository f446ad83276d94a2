package cli

import (
	"fmt"
	"os"
	"strings"

	"storyweave/internal/format"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
	Ephemeral  bool
	Seed       int64
	Verbose    bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "storyweave",
		Short:        "StoryWeave: read and write stories in the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  storyweave

  # Scriptable commands
  storyweave stories list --genre Horror --sort rating
  storyweave auth signup --email ada@example.com --password secret1
  storyweave library toggle 7

  # Direct story lookup (shortcut for: storyweave stories show <id>)
  storyweave 7
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !format.Valid(app.Format) {
			return writeErr(cmd, fmt.Errorf("unknown format: %s (expected %s)", app.Format, strings.Join(format.Names, "|")))
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("STORYWEAVE_DIR", ""), "Data directory (default: ~/.storyweave)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("STORYWEAVE_FORMAT", "json"), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().BoolVar(&app.Ephemeral, "ephemeral", false, "Keep all state in memory; nothing is read from or written to disk")
	cmd.PersistentFlags().Int64Var(&app.Seed, "seed", 0, "Random seed for the generated catalog (0: config or time based)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Debug logging")

	cmd.AddCommand(newStoriesCmd(app))
	cmd.AddCommand(newLibraryCmd(app))
	cmd.AddCommand(newProgressCmd(app))
	cmd.AddCommand(newContentCmd(app))
	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newAICmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
