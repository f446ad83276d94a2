package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"storyweave/internal/catalog"
	"storyweave/internal/model"
	"storyweave/internal/publish"

	"github.com/spf13/cobra"
)

func newStoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stories",
		Short: "Story catalog commands",
	}
	cmd.AddCommand(newStoriesListCmd(app))
	cmd.AddCommand(newStoriesShowCmd(app))
	cmd.AddCommand(newStoriesSaveCmd(app))
	cmd.AddCommand(newStoriesDeleteCmd(app))
	cmd.AddCommand(newStoriesExportCmd(app))
	return cmd
}

// storySummary is the list view of a story (no chapter bodies).
type storySummary struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Genre     string   `json:"genre"`
	Tags      []string `json:"tags"`
	Rating    float64  `json:"rating"`
	Views     int      `json:"views"`
	Chapters  int      `json:"chapters"`
	Completed bool     `json:"completed"`
}

func summarize(stories []model.Story) []storySummary {
	out := make([]storySummary, 0, len(stories))
	for _, s := range stories {
		out = append(out, storySummary{
			ID:        s.ID,
			Title:     s.Title,
			Author:    s.Author,
			Genre:     string(s.Genre),
			Tags:      s.Tags,
			Rating:    s.Rating,
			Views:     s.Views,
			Chapters:  len(s.Chapters),
			Completed: s.Completed,
		})
	}
	return out
}

func newStoriesListCmd(app *App) *cobra.Command {
	var (
		search string
		genres []string
		tags   []string
		sortBy string
		mine   bool
		saved  bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stories (search, filter, sort)",
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := catalog.ParseSortOrder(sortBy)
			if err != nil {
				return writeErr(cmd, err)
			}
			q := catalog.Query{Search: search, Tags: tags, Sort: order}
			for _, g := range genres {
				q.Genres = append(q.Genres, model.Genre(g))
			}

			err = withRuntime(cmd.Context(), app, func(rt *runtime) error {
				var stories []model.Story
				switch {
				case mine:
					if err := rt.requireUser(); err != nil {
						return err
					}
					stories = rt.ctrl.MyStories()
				case saved:
					stories = rt.ctrl.SavedStories()
				default:
					stories = rt.ctrl.Catalog().All()
				}
				stories = q.Apply(stories)
				total := len(stories)
				if limit > 0 && len(stories) > limit {
					stories = stories[:limit]
				}
				return writeOut(cmd, app, map[string]any{
					"data": summarize(stories),
					"meta": map[string]any{"total": total, "sort": string(order)},
				})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive match on title or author")
	cmd.Flags().StringSliceVar(&genres, "genre", nil, "Genre filter (repeatable; any-of)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag filter (repeatable; any-of)")
	cmd.Flags().StringVar(&sortBy, "sort", string(catalog.SortPopularity), "Sort order (popularity|rating|newest)")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only stories written by the signed-in user")
	cmd.Flags().BoolVar(&saved, "saved", false, "Only stories in the library")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results (0: all)")
	cmd.MarkFlagsMutuallyExclusive("mine", "saved")
	return cmd
}

func newStoriesShowCmd(app *App) *cobra.Command {
	var withContent bool

	cmd := &cobra.Command{
		Use:   "show <story-id>",
		Short: "Show a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				s, ok := rt.ctrl.Story(id)
				if !ok {
					return errNotFound("story", id)
				}
				if !withContent {
					for i := range s.Chapters {
						s.Chapters[i].Content = ""
					}
				}
				meta := map[string]any{
					"saved":       rt.ctrl.IsSaved(id),
					"resumeIndex": rt.ctrl.ResumeIndex(id),
				}
				return writeOut(cmd, app, map[string]any{"data": s, "meta": meta})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withContent, "content", false, "Include chapter text")
	return cmd
}

func newStoriesSaveCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create or replace a story from a JSON file (same id replaces in place)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readInput(cmd, file)
			if err != nil {
				return writeErr(cmd, err)
			}
			var s model.Story
			if err := json.Unmarshal(b, &s); err != nil {
				return writeErr(cmd, fmt.Errorf("invalid story json: %w", err))
			}
			err = withRuntime(cmd.Context(), app, func(rt *runtime) error {
				if err := rt.requireUser(); err != nil {
					return err
				}
				if strings.TrimSpace(s.Author) == "" {
					s.Author = model.NewStoryAuthor
				}
				if strings.TrimSpace(s.ID) == "" {
					s.ID = rt.ctrl.NewStoryID()
				} else if _, exists := rt.ctrl.Story(s.ID); exists && !rt.ctrl.CanEdit(s.ID) {
					return errNotOwner(s.ID)
				}
				inserted, err := rt.ctrl.SaveStoryFromEditor(s)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{"id": s.ID, "inserted": inserted},
				})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "Story JSON file (- for stdin)")
	return cmd
}

func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(file)
}

func newStoriesDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <story-id>",
		Short: "Delete a story (also removes it from the library and reading progress)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if !yes {
				return writeErr(cmd, fmt.Errorf("refusing to delete %s without --yes", id))
			}
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				if !rt.ctrl.DeleteStory(id) {
					return errNotFound("story", id)
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	return cmd
}

func newStoriesExportCmd(app *App) *cobra.Command {
	var (
		to        string
		as        string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "export <story-id>",
		Short: "Export a story to Markdown or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := publish.ParseFormat(as)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			err = withRuntime(cmd.Context(), app, func(rt *runtime) error {
				s, ok := rt.ctrl.Story(id)
				if !ok {
					return errNotFound("story", id)
				}
				res, err := publish.WriteStory(s, to, publish.WriteOptions{Format: f, Overwrite: overwrite})
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": res})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().StringVar(&as, "as", "md", "Export format (md|html)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
