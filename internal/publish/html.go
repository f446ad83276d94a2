package publish

import (
	"bytes"
	"html"
	"strings"

	"storyweave/internal/model"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Typographer))

// RenderStoryHTML renders the story's Markdown export to a minimal HTML page.
// Raw HTML inside chapter text is escaped, not passed through.
func RenderStoryHTML(s model.Story) (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(RenderStoryMarkdown(s)), &body); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	buf.WriteString(html.EscapeString(strings.TrimSpace(s.Title)))
	buf.WriteString("</title>\n</head>\n<body>\n")
	buf.Write(body.Bytes())
	buf.WriteString("</body>\n</html>\n")
	return buf.String(), nil
}
