package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"storyweave/internal/ai"

	"github.com/spf13/cobra"
)

const aiTimeout = 60 * time.Second

func newAICmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Writing assistant",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "idea <outline|twist|rewrite> <text...>",
		Short: "Generate an outline, a plot twist, or a rewrite",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := ai.ParseIdeaKind(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			text := strings.Join(args[1:], " ")
			return runAI(cmd, app, func(ctx context.Context, a ai.Assistant) (any, error) {
				return a.GenerateIdea(ctx, text, kind)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "tag <text...>",
		Short: "Suggest a genre and tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return runAI(cmd, app, func(ctx context.Context, a ai.Assistant) (any, error) {
				return a.AutoTag(ctx, text)
			})
		},
	})
	cmd.AddCommand(newAISummarizeCmd(app))
	cmd.AddCommand(&cobra.Command{
		Use:   "moderate <text...>",
		Short: "Check text for severe violence or explicit content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return runAI(cmd, app, func(ctx context.Context, a ai.Assistant) (any, error) {
				return a.Moderate(ctx, text)
			})
		},
	})
	return cmd
}

func newAISummarizeCmd(app *App) *cobra.Command {
	var (
		storyID string
		chapter int
	)
	cmd := &cobra.Command{
		Use:   "summarize [text...]",
		Short: "Summarize text, or a chapter with --story/--chapter",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
				if storyID != "" {
					s, ok := rt.ctrl.Story(storyID)
					if !ok {
						return errNotFound("story", storyID)
					}
					ch, ok := s.Chapter(chapter)
					if !ok {
						return errInvalidChapter(strconv.Itoa(chapter))
					}
					text = ch.Content
				}
				if strings.TrimSpace(text) == "" {
					return errors.New("nothing to summarize")
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), aiTimeout)
				defer cancel()
				out, err := rt.ai.Summarize(ctx, text)
				if err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{"data": out, "meta": map[string]any{"assistant": rt.ai.Name()}})
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&storyID, "story", "", "Story id")
	cmd.Flags().IntVar(&chapter, "chapter", 0, "Chapter index (0-based)")
	return cmd
}

func runAI(cmd *cobra.Command, app *App, fn func(ctx context.Context, a ai.Assistant) (any, error)) error {
	err := withRuntime(cmd.Context(), app, func(rt *runtime) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), aiTimeout)
		defer cancel()
		out, err := fn(ctx, rt.ai)
		if err != nil {
			return err
		}
		return writeOut(cmd, app, map[string]any{"data": out, "meta": map[string]any{"assistant": rt.ai.Name()}})
	})
	if err != nil {
		return writeErr(cmd, err)
	}
	return nil
}
