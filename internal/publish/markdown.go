package publish

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"storyweave/internal/model"
)

// RenderStoryMarkdown renders a story as a standalone Markdown document.
func RenderStoryMarkdown(s model.Story) string {
	var buf bytes.Buffer
	writeLn := func(line string) {
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(s.Title))
	writeLn("")

	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + s.ID)
	if a := strings.TrimSpace(s.Author); a != "" {
		writeLn("- Author: " + a)
	}
	if s.Genre != "" {
		writeLn("- Genre: " + string(s.Genre))
	}
	if len(s.Tags) > 0 {
		writeLn("- Tags: " + strings.Join(s.Tags, ", "))
	}
	if s.Rating > 0 {
		writeLn("- Rating: " + strconv.FormatFloat(s.Rating, 'f', 1, 64))
	}
	writeLn(fmt.Sprintf("- Views: %d", s.Views))
	writeLn(fmt.Sprintf("- Chapters: %d", len(s.Chapters)))
	if s.Completed {
		writeLn("- Status: Completed")
	} else {
		writeLn("- Status: Ongoing")
	}
	writeLn("")

	if sum := strings.TrimSpace(s.Summary); sum != "" {
		writeLn("## Summary")
		writeLn("")
		writeLn(sum)
		writeLn("")
	}

	for i, ch := range s.Chapters {
		title := strings.TrimSpace(ch.Title)
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}
		writeLn("## " + title)
		writeLn("")
		if body := strings.TrimSpace(ch.Content); body != "" {
			writeLn(body)
			writeLn("")
		}
	}

	return strings.TrimRight(buf.String(), "\n") + "\n"
}
