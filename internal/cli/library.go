package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newLibraryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Saved stories",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				return writeOut(cmd, app, map[string]any{"data": summarize(rt.ctrl.SavedStories())})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <story-id>",
		Short: "Add a story to the library, or remove it if already saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				if _, ok := rt.ctrl.Story(id); !ok {
					return errNotFound("story", id)
				}
				saved, ok := rt.ctrl.ToggleLibrary(id)
				if !ok {
					return errSignInRequired
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "saved": saved}})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	})
	return cmd
}

func newProgressCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Reading progress",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <story-id>",
		Short: "Show the chapter reading resumes at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				if _, ok := rt.ctrl.Story(id); !ok {
					return errNotFound("story", id)
				}
				idx, recorded := rt.ctrl.Progress(id)
				return writeOut(cmd, app, map[string]any{"data": map[string]any{
					"id":       id,
					"chapter":  idx,
					"recorded": recorded,
				}})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <story-id> <chapter-index>",
		Short: "Record the last chapter read (0-based)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			idx, err := strconv.Atoi(strings.TrimSpace(args[1]))
			if err != nil || idx < 0 {
				return writeErr(cmd, errInvalidChapter(args[1]))
			}
			err = withRuntime(cmd.Context(), app, func(rt *runtime) error {
				s, ok := rt.ctrl.Story(id)
				if !ok {
					return errNotFound("story", id)
				}
				if idx >= len(s.Chapters) {
					return errInvalidChapter(args[1])
				}
				rt.ctrl.RecordProgress(id, idx)
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "chapter": idx}})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	})
	return cmd
}
