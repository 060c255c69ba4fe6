package views

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in lesson content is escaped; goldmark only renders it with html.WithUnsafe
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderMarkdown converts lesson content to HTML
func RenderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
