// Package publish exports stories to Markdown and HTML files.
package publish

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storyweave/internal/model"
)

type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown export format: %q (expected md|html)", s)
}

type WriteOptions struct {
	Format    Format
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteStory writes <toDir>/stories/<id>.<ext>.
func WriteStory(s model.Story, toDir string, opt WriteOptions) (WriteResult, error) {
	if strings.TrimSpace(s.ID) == "" {
		return WriteResult{}, errors.New("missing story id")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	var (
		out string
		ext string
		err error
	)
	switch opt.Format {
	case "", FormatMarkdown:
		out, ext = RenderStoryMarkdown(s), ".md"
	case FormatHTML:
		out, err = RenderStoryHTML(s)
		ext = ".html"
	default:
		return WriteResult{}, fmt.Errorf("unknown export format: %s", opt.Format)
	}
	if err != nil {
		return WriteResult{}, err
	}

	outDir := filepath.Join(toDir, "stories")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(outDir, safeName(s.ID)+ext)
	if err := writeFile(outPath, []byte(out), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

func safeName(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, id)
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
