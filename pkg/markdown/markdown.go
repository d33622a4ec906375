package markdown

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

func Render(w io.Writer, content string) {
	md, err := glamour.Render(content, "auto")

	if err != nil {
		fmt.Fprintln(w, content)
		return
	}

	fmt.Fprintln(w, md)
}

// RenderString renders content with a fixed style. Unlike Render it never
// probes the terminal, so it is safe while stdout carries protocol traffic.
func RenderString(content, style string, width int) string {
	if style == "" {
		style = "dark"
	}

	options := []glamour.TermRendererOption{
		glamour.WithStandardStyle(style),
	}

	if width > 0 {
		options = append(options, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(options...)

	if err != nil {
		return content
	}

	md, err := r.Render(content)

	if err != nil {
		return content
	}

	return strings.Trim(md, "\n")
}
